package services

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"vetrina/internal/cart"
	"vetrina/internal/models"
	"vetrina/internal/repositories"
)

// CartView is the cart of one session as the client renders it.
type CartView struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
	Email string            `json:"email"`
	Count int               `json:"count"`
}

func viewOf(l *cart.Ledger) CartView {
	return CartView{
		Lines: l.Lines(),
		Total: l.Total(),
		Email: l.Email(),
		Count: l.Len(),
	}
}

// CartService edits the per-session carts.
type CartService struct {
	sessions *cart.Sessions
	products *ProductService
}

// NewCartService creates a new CartService.
func NewCartService(sessions *cart.Sessions, products *ProductService) *CartService {
	return &CartService{sessions: sessions, products: products}
}

// View returns the current cart of a session.
func (s *CartService) View(sessionID string) CartView {
	var v CartView
	_ = s.sessions.With(sessionID, func(l *cart.Ledger) error {
		v = viewOf(l)
		return nil
	})
	return v
}

// AddItem puts one unit of an available product in the cart. The line keeps
// the name and price of the first add.
func (s *CartService) AddItem(sessionID, productID string) (CartView, error) {
	product, err := s.products.GetAvailableProduct(productID)
	if err != nil {
		return CartView{}, err
	}
	var v CartView
	err = s.sessions.With(sessionID, func(l *cart.Ledger) error {
		l.AddItem(*product)
		v = viewOf(l)
		return nil
	})
	return v, err
}

func (s *CartService) edit(sessionID, productID string, fn func(l *cart.Ledger) bool) (CartView, error) {
	var v CartView
	err := s.sessions.With(sessionID, func(l *cart.Ledger) error {
		if !fn(l) {
			return errors.Wrapf(repositories.ErrNotFound, "product %s is not in the cart", productID)
		}
		v = viewOf(l)
		return nil
	})
	return v, err
}

// SetQuantity sets the quantity of a line; quantities below 1 remove it.
func (s *CartService) SetQuantity(sessionID, productID string, quantity int) (CartView, error) {
	return s.edit(sessionID, productID, func(l *cart.Ledger) bool {
		return l.SetQuantity(productID, quantity)
	})
}

// Increment adds one unit to a line.
func (s *CartService) Increment(sessionID, productID string) (CartView, error) {
	return s.edit(sessionID, productID, func(l *cart.Ledger) bool {
		return l.Increment(productID)
	})
}

// Decrement removes one unit from a line, dropping the line at zero.
func (s *CartService) Decrement(sessionID, productID string) (CartView, error) {
	return s.edit(sessionID, productID, func(l *cart.Ledger) bool {
		return l.Decrement(productID)
	})
}

// RemoveItem drops a line. Removing a missing line is not an error.
func (s *CartService) RemoveItem(sessionID, productID string) CartView {
	var v CartView
	_ = s.sessions.With(sessionID, func(l *cart.Ledger) error {
		l.RemoveItem(productID)
		v = viewOf(l)
		return nil
	})
	return v
}

// SetEmail stores the checkout email typed so far. It is validated at checkout.
func (s *CartService) SetEmail(sessionID, email string) CartView {
	var v CartView
	_ = s.sessions.With(sessionID, func(l *cart.Ledger) error {
		l.SetEmail(strings.TrimSpace(email))
		v = viewOf(l)
		return nil
	})
	return v
}
