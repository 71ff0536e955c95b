package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in a shopping cart. Name, Price and Category are copied
// from the product when it is first added and are not refreshed afterwards.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  ShopCategory    `json:"category"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order represents a customer order. TotalPrice is fixed at checkout.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Items         []CartLine      `json:"items" gorm:"serializer:json"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`
	CustomerEmail string          `json:"customer_email" gorm:"type:varchar(255)"`
	SessionID     string          `json:"session_id" gorm:"type:varchar(64);index"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
}

// HasCategory reports whether at least one line of the order is in category.
func (o Order) HasCategory(category ShopCategory) bool {
	for _, item := range o.Items {
		if item.Category == category {
			return true
		}
	}
	return false
}
