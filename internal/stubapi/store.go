package stubapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

var (
	ErrUnauthorized     = errors.New("stubapi: unauthorized")
	ErrUnknownProduct   = errors.New("stubapi: unknown product")
	ErrNotInCart        = errors.New("stubapi: product not in cart")
	ErrBadCredentials   = errors.New("stubapi: invalid credentials")
	ErrDuplicateAccount = errors.New("stubapi: account already exists")
)

// StockExceeded is the add-to-cart rejection carrying the available count.
type StockExceeded struct {
	Available int
}

func (e *StockExceeded) Error() string {
	return fmt.Sprintf("requested quantity exceeds available stock (%d available)", e.Available)
}

// OutOfStock is the checkout rejection listing every offending cart line.
type OutOfStock struct {
	Items []api.OutOfStockEntry
}

func (e *OutOfStock) Error() string { return "cart has out-of-stock items" }

type account struct {
	name     string
	password string
}

type cartLine struct {
	productID string
	quantity  int
}

// Store is the in-memory state behind the stub storefront API. Everything
// lives behind one mutex; this is a test double, not a data engine.
type Store struct {
	mu           sync.Mutex
	products     map[string]*api.Product
	productOrder []string
	accounts     map[string]account    // email -> account
	tokens       map[string]string     // bearer token -> email
	carts        map[string][]cartLine // email -> ordered lines
	orders       map[string][]api.Order
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		products: map[string]*api.Product{},
		accounts: map[string]account{},
		tokens:   map[string]string{},
		carts:    map[string][]cartLine{},
		orders:   map[string][]api.Order{},
		now:      time.Now,
	}
}

// Seed loads product fixtures, replacing any existing catalog.
func (s *Store) Seed(products []api.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*api.Product, len(products))
	s.productOrder = s.productOrder[:0]
	for i := range products {
		p := products[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.products[p.ID] = &p
		s.productOrder = append(s.productOrder, p.ID)
	}
}

func (s *Store) Register(name, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return ErrDuplicateAccount
	}
	s.accounts[email] = account{name: name, password: password}
	return nil
}

func (s *Store) Login(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok || acc.password != password {
		return "", ErrBadCredentials
	}
	token := uuid.NewString()
	s.tokens[token] = email
	return token, nil
}

// UserForToken resolves a bearer token to its account email.
func (s *Store) UserForToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return email, nil
}

func (s *Store) Products(category string) []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		p := s.products[id]
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// SetStock overrides a product's available stock. Exists so tests and demos
// can simulate other buyers draining inventory between polls.
func (s *Store) SetStock(productID string, inStock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return ErrUnknownProduct
	}
	p.InStock = inStock
	return nil
}

// cartForLocked materializes a user's cart with line totals and the overall
// total, mirroring what the real service computes server-side.
func (s *Store) cartForLocked(email string) api.Cart {
	lines := s.carts[email]
	cart := api.Cart{Items: make([]api.CartItem, 0, len(lines))}
	for _, ln := range lines {
		p, ok := s.products[ln.productID]
		if !ok {
			continue
		}
		itemTotal := float64(ln.quantity) * p.Price
		cart.Items = append(cart.Items, api.CartItem{
			Product:   *p,
			Quantity:  ln.quantity,
			ItemTotal: itemTotal,
		})
		cart.TotalAmount += itemTotal
	}
	return cart
}

func (s *Store) Cart(email string) api.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartForLocked(email)
}

func (s *Store) CartCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ln := range s.carts[email] {
		count += ln.quantity
	}
	return count
}

// AddItem appends quantity units to the user's cart, rejecting requests
// that would exceed the currently available stock.
func (s *Store) AddItem(email, productID string, quantity int) (api.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return api.Cart{}, ErrUnknownProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	lines := s.carts[email]
	existing := 0
	for _, ln := range lines {
		if ln.productID == productID {
			existing = ln.quantity
			break
		}
	}
	if existing+quantity > p.InStock {
		return api.Cart{}, &StockExceeded{Available: p.InStock}
	}

	updated := false
	for i := range lines {
		if lines[i].productID == productID {
			lines[i].quantity += quantity
			updated = true
			break
		}
	}
	if !updated {
		lines = append(lines, cartLine{productID: productID, quantity: quantity})
	}
	s.carts[email] = lines
	return s.cartForLocked(email), nil
}

// SetQuantity replaces a line's requested quantity. Quantities above the
// available stock are accepted; stock is only enforced at checkout, which
// is what lets a cart go out of stock between polls.
func (s *Store) SetQuantity(email, productID string, quantity int) (api.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return api.Cart{}, fmt.Errorf("stubapi: quantity must be at least 1")
	}
	lines := s.carts[email]
	for i := range lines {
		if lines[i].productID == productID {
			lines[i].quantity = quantity
			return s.cartForLocked(email), nil
		}
	}
	return api.Cart{}, ErrNotInCart
}

func (s *Store) RemoveItem(email, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[email]
	for i := range lines {
		if lines[i].productID == productID {
			s.carts[email] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrNotInCart
}

// Checkout re-validates every line against current stock. If anything
// exceeds availability it returns OutOfStock with the full offending list;
// otherwise it decrements stock, records the order and clears the cart.
func (s *Store) Checkout(email string) (api.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartForLocked(email)
	if len(cart.Items) == 0 {
		return api.Order{}, fmt.Errorf("stubapi: cart is empty")
	}

	var oos []api.OutOfStockEntry
	for _, it := range cart.Items {
		if it.Quantity > it.Product.InStock {
			oos = append(oos, api.OutOfStockEntry{
				ProductID: it.Product.ID,
				Name:      it.Product.Name,
				Requested: it.Quantity,
				Available: it.Product.InStock,
			})
		}
	}
	if len(oos) > 0 {
		return api.Order{}, &OutOfStock{Items: oos}
	}

	order := api.Order{
		OrderID:     uuid.NewString(),
		TotalAmount: cart.TotalAmount,
		Status:      "pending",
		CreatedAt:   s.now(),
	}
	for _, it := range cart.Items {
		s.products[it.Product.ID].InStock -= it.Quantity
		order.Items = append(order.Items, api.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
		})
	}
	s.orders[email] = append(s.orders[email], order)
	delete(s.carts, email)
	return order, nil
}

func (s *Store) Orders(email string) []api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Order, len(s.orders[email]))
	copy(out, s.orders[email])
	return out
}
