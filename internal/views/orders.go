package views

import (
	"time"

	"github.com/pkg/errors"

	"vetrina/internal/models"
)

// DateLayout is the calendar date format accepted by the order date selector.
const DateLayout = "2006-01-02"

// OrderFilter selects orders for the admin list and the CSV export.
type OrderFilter struct {
	Category string `query:"category"`
	Date     string `query:"date"` // YYYY-MM-DD, empty for any day
}

// Validate checks the date selector.
func (f OrderFilter) Validate() error {
	if f.Date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		return errors.Wrapf(err, "invalid date %q, expected YYYY-MM-DD", f.Date)
	}
	return nil
}

// FilterOrders keeps orders with at least one item in the selected category
// and, when a date is given, created on that calendar day in loc.
func FilterOrders(orders []models.Order, f OrderFilter, loc *time.Location) []models.Order {
	if loc == nil {
		loc = time.Local
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Category != "" && f.Category != All && !o.HasCategory(models.ShopCategory(f.Category)) {
			continue
		}
		if f.Date != "" {
			if o.CreatedAt.IsZero() || o.CreatedAt.In(loc).Format(DateLayout) != f.Date {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}
