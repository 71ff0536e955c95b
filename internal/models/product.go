package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ShopCategory is the product line a Product belongs to.
type ShopCategory string

const (
	ShopCategoryGirziLine ShopCategory = "Girzi Line"
	ShopCategoryRosarno   ShopCategory = "Rosarno"
)

// Valid reports whether c is a known product line.
func (c ShopCategory) Valid() bool {
	return c == ShopCategoryGirziLine || c == ShopCategoryRosarno
}

// Style returns the badge color used when rendering the product line.
func (c ShopCategory) Style() string {
	switch c {
	case ShopCategoryGirziLine:
		return "red"
	case ShopCategoryRosarno:
		return "indigo"
	default:
		return "gray"
	}
}

// DefaultProductImageURL is used when a product has no image.
const DefaultProductImageURL = "https://placehold.co/400x300/ADD8E6/000000?text=Product"

// Product represents a product in the shop.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string          `json:"name" validate:"required,min=2,max=100"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"gte=0"`
	Category       ShopCategory    `json:"category" gorm:"type:varchar(64);index" validate:"required,shopcategory"`
	ImageURL       string          `json:"image_url" validate:"omitempty,url"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	AvailableUntil *time.Time      `json:"available_until,omitempty"` // nil means always available
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// AvailableAt reports whether the product can be shown to customers at now.
// A product whose AvailableUntil equals now is already expired.
func (p Product) AvailableAt(now time.Time) bool {
	return p.AvailableUntil == nil || p.AvailableUntil.After(now)
}

// MarshalJSON adds the badge color of the product line.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		CategoryStyle string `json:"category_style"`
	}{product(p), p.Category.Style()})
}
