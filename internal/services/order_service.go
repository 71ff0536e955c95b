package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"vetrina/internal/cart"
	"vetrina/internal/export"
	"vetrina/internal/live"
	"vetrina/internal/models"
	"vetrina/internal/repositories"
	"vetrina/internal/views"
)

// OrderService commits carts as orders and serves the admin order views.
type OrderService struct {
	repo     repositories.OrderRepository
	sessions *cart.Sessions
	notifier *Notifier
	exporter *export.Exporter
	feed     *live.Feed[models.Order]
	validate *validator.Validate
	csv      export.Options
}

// NewOrderService creates a new OrderService. csv controls the time zone and
// the date layout of both the date filter and the export.
func NewOrderService(repo repositories.OrderRepository, sessions *cart.Sessions, notifier *Notifier, exporter *export.Exporter, csv export.Options) *OrderService {
	if csv.Location == nil {
		csv.Location = time.Local
	}
	s := &OrderService{
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
		exporter: exporter,
		validate: models.NewValidator(),
		csv:      csv,
	}
	if repo != nil {
		s.feed = live.NewFeed("orders", repo.GetAll)
	} else {
		s.feed = live.NewFeed("orders", func() ([]models.Order, error) {
			return nil, errors.Wrap(ErrUnavailable, "order store not configured")
		})
	}
	return s
}

// Feed is the live orders collection.
func (s *OrderService) Feed() *live.Feed[models.Order] {
	return s.feed
}

// Checkout turns the cart of a session into one order. An empty email falls
// back to the one stored on the cart. The cart is emptied only once the order
// has been written; on failure it is left as it was.
func (s *OrderService) Checkout(sessionID, email string) (*models.Order, error) {
	var order *models.Order
	err := s.sessions.With(sessionID, func(l *cart.Ledger) error {
		if email = strings.TrimSpace(email); email != "" {
			l.SetEmail(email)
		}
		if l.Len() == 0 {
			return invalidf("cart is empty")
		}
		if err := s.validate.Var(l.Email(), "required,email"); err != nil {
			return &ValidationError{Fields: FieldErrors{"email": "a valid email is required"}}
		}
		if s.repo == nil {
			return errors.Wrap(ErrUnavailable, "order store not configured")
		}
		if err := s.repo.Ping(); err != nil {
			return errors.Wrap(ErrUnavailable, err.Error())
		}

		o := &models.Order{
			Items:         l.Lines(),
			TotalPrice:    l.Total(),
			CustomerEmail: l.Email(),
			SessionID:     sessionID,
		}
		if err := s.repo.Create(o); err != nil {
			log.WithError(err).WithField("session_id", sessionID).Error("Failed to save order")
			return errors.Wrap(ErrWriteFailed, err.Error())
		}
		l.Reset()
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"order_id": order.ID, "total": order.TotalPrice.StringFixed(2)}).Info("Order created")
	s.feed.Notify()
	s.notifier.OrderCreated(*order)
	return order, nil
}

// GetAllOrders returns every order in store order.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	if s.repo == nil {
		return nil, errors.Wrap(ErrUnavailable, "order store not configured")
	}
	orders, err := s.repo.GetAll()
	return orders, readErr(err)
}

// GetOrderByID returns a single order.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	if s.repo == nil {
		return nil, errors.Wrap(ErrUnavailable, "order store not configured")
	}
	order, err := s.repo.GetByID(id)
	return order, readErr(err)
}

// Location is the time zone calendar dates are evaluated in.
func (s *OrderService) Location() *time.Location {
	return s.csv.Location
}

// Filter applies the admin selectors to an already loaded list.
func (s *OrderService) Filter(orders []models.Order, filter views.OrderFilter) []models.Order {
	return views.FilterOrders(orders, filter, s.csv.Location)
}

// List returns the orders matching the admin selectors.
func (s *OrderService) List(filter views.OrderFilter) ([]models.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, invalidf("%s", err.Error())
	}
	orders, err := s.GetAllOrders()
	if err != nil {
		return nil, err
	}
	return s.Filter(orders, filter), nil
}

// Categories lists the product categories present in the orders, after "all".
func (s *OrderService) Categories() ([]string, error) {
	orders, err := s.GetAllOrders()
	if err != nil {
		return nil, err
	}
	seen := make(map[models.ShopCategory]bool)
	out := []string{views.All}
	for _, o := range orders {
		for _, item := range o.Items {
			if item.Category == "" || seen[item.Category] {
				continue
			}
			seen[item.Category] = true
			out = append(out, string(item.Category))
		}
	}
	return out, nil
}

// Export renders the filtered orders as CSV and hands them to the exporter.
func (s *OrderService) Export(filter views.OrderFilter) (export.Result, error) {
	orders, err := s.List(filter)
	if err != nil {
		return export.Result{}, err
	}
	data, err := export.OrdersCSV(orders, s.csv)
	if err != nil {
		return export.Result{}, errors.Wrap(err, "render orders csv")
	}
	exporter := s.exporter
	if exporter == nil {
		exporter = export.NewExporter(nil, nil)
	}
	return exporter.Export(export.Filename(filter), data), nil
}
