package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const HeaderCorrelationID = "X-Correlation-Id"

// TokenSource supplies the bearer credential attached to every request.
// An empty token means the request goes out unauthenticated; the server is
// the one that decides whether that is acceptable.
type TokenSource interface {
	Token() string
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	Tokens  TokenSource
}

func NewClient(name, baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient, Tokens: tokens}
}

// Do issues a request with the bearer credential and a correlation id
// attached. A non-nil body is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		rd = bytes.NewReader(buf)
	}

	// Join against any base path (e.g. /api) instead of replacing it.
	rel := &url.URL{Path: strings.TrimSuffix(c.BaseURL.Path, "/") + path}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if tok := c.Tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set(HeaderCorrelationID, uuid.NewString())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return resp, nil
}

// DoJSON issues a request and decodes a 2xx response into out (when out is
// non-nil). Non-2xx responses are drained and converted to a *StatusError.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.Name, err)
	}
	return nil
}

// statusError reads the remainder of a non-2xx body and extracts a message
// from the common {"error": ...} / {"message": ...} shapes, falling back to
// the raw text.
func (c *Client) statusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))

	msg := strings.TrimSpace(string(raw))
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			msg = envelope.Error
		} else if envelope.Message != "" {
			msg = envelope.Message
		}
	}

	return &StatusError{Service: c.Name, StatusCode: resp.StatusCode, Message: msg}
}
