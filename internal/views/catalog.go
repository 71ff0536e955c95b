package views

import (
	"time"

	"vetrina/internal/models"
)

// AvailableProducts keeps products whose AvailableUntil is unset or strictly
// after now. Callers pass a fresh now on every evaluation.
func AvailableProducts(products []models.Product, now time.Time) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.AvailableAt(now) {
			out = append(out, p)
		}
	}
	return out
}

// ShopCategories lists the distinct product categories in store order after "all".
func ShopCategories(products []models.Product) []string {
	out := []string{All}
	seen := make(map[models.ShopCategory]bool)
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, string(p.Category))
	}
	return out
}
