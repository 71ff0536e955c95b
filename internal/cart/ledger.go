// Package cart keeps the per-session shopping carts.
package cart

import (
	"github.com/shopspring/decimal"

	"vetrina/internal/models"
)

// Ledger is the cart of a single browsing session together with the email
// typed into the checkout form. It is not safe for concurrent use; Sessions
// serializes access to it.
type Ledger struct {
	lines []models.CartLine
	email string
}

// NewLedger returns an empty cart.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) index(productID string) int {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of product. An existing line keeps the name, price and
// category captured when it was first added.
func (l *Ledger) AddItem(product models.Product) {
	if i := l.index(product.ID); i >= 0 {
		l.lines[i].Quantity++
		return
	}
	l.lines = append(l.lines, models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		Quantity:  1,
	})
}

// SetQuantity sets the quantity of an existing line. A quantity below 1 removes
// the line. It reports whether a line for productID was present.
func (l *Ledger) SetQuantity(productID string, n int) bool {
	i := l.index(productID)
	if i < 0 {
		return false
	}
	if n < 1 {
		l.removeAt(i)
		return true
	}
	l.lines[i].Quantity = n
	return true
}

// Increment adds one to the quantity of an existing line.
func (l *Ledger) Increment(productID string) bool {
	i := l.index(productID)
	if i < 0 {
		return false
	}
	return l.SetQuantity(productID, l.lines[i].Quantity+1)
}

// Decrement subtracts one from the quantity of an existing line; decrementing
// a line with quantity 1 removes it.
func (l *Ledger) Decrement(productID string) bool {
	i := l.index(productID)
	if i < 0 {
		return false
	}
	return l.SetQuantity(productID, l.lines[i].Quantity-1)
}

// RemoveItem deletes the line for productID if there is one.
func (l *Ledger) RemoveItem(productID string) {
	if i := l.index(productID); i >= 0 {
		l.removeAt(i)
	}
}

func (l *Ledger) removeAt(i int) {
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
}

// Total sums price*quantity using the snapshot prices of the lines.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (l *Ledger) Lines() []models.CartLine {
	out := make([]models.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len is the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Email returns the checkout email entered for this session.
func (l *Ledger) Email() string {
	return l.email
}

// SetEmail records the checkout email.
func (l *Ledger) SetEmail(email string) {
	l.email = email
}

// Reset empties the cart and clears the checkout email.
func (l *Ledger) Reset() {
	l.lines = nil
	l.email = ""
}
