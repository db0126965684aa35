package api

import (
	"context"
	"net/http"
)

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

// Login exchanges credentials for a bearer token. Storing the token is the
// caller's concern (see the session package).
func (ac *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	var out TokenResponse
	err := ac.c.DoJSON(ctx, http.MethodPost, "/auth/login", Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (ac *AuthClient) Register(ctx context.Context, name, email, password string) error {
	req := RegisterRequest{Name: name, Email: email, Password: password}
	return ac.c.DoJSON(ctx, http.MethodPost, "/auth/register", req, nil)
}
