// Package export serializes orders to CSV and delivers the file.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"vetrina/internal/models"
	"vetrina/internal/views"
)

// DefaultDateLayout renders order dates the way an Italian locale does.
const DefaultDateLayout = "02/01/2006, 15:04:05"

// Header is the first row of every orders export.
var Header = []string{
	"Order ID",
	"Order Date",
	"Customer Email",
	"Total",
	"Item Name",
	"Item Category",
	"Unit Price",
	"Quantity",
}

// Options controls how order dates are rendered.
type Options struct {
	DateLayout string
	Location   *time.Location
}

func (o Options) formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	layout := o.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

// WriteOrdersCSV writes one row per order item. Order level columns repeat on
// every row of the same order. Fields containing a comma, a double quote or a
// line break are quoted with inner quotes doubled. Fields starting with a
// space or a tab are quoted as well.
func WriteOrdersCSV(w io.Writer, orders []models.Order, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, order := range orders {
		date := opts.formatDate(order.CreatedAt)
		total := order.TotalPrice.StringFixed(2)
		for _, item := range order.Items {
			row := []string{
				order.ID,
				date,
				order.CustomerEmail,
				total,
				item.Name,
				string(item.Category),
				item.Price.StringFixed(2),
				strconv.Itoa(item.Quantity),
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "write csv row for order %s", order.ID)
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// OrdersCSV is WriteOrdersCSV into memory.
func OrdersCSV(orders []models.Order, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names an export after its filters: orders_<category|all>[_<date>].csv.
func Filename(f views.OrderFilter) string {
	category := f.Category
	if category == "" {
		category = views.All
	}
	name := "orders_" + category
	if f.Date != "" {
		name += "_" + f.Date
	}
	return name + ".csv"
}
