package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"vetrina/internal/models"
)

// ErrOffline is returned by InMemoryOrderRepository while it is marked offline.
var ErrOffline = errors.New("store offline")

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
type InMemoryOrderRepository struct {
	orders  map[string]models.Order
	order   []string
	offline bool
	mu      sync.RWMutex
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// SetOffline simulates losing the connection to the store.
func (r *InMemoryOrderRepository) SetOffline(offline bool) {
	r.mu.Lock()
	r.offline = offline
	r.mu.Unlock()
}

// GetAll returns all orders in insertion order.
func (r *InMemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.offline {
		return nil, ErrOffline
	}
	orderList := make([]models.Order, 0, len(r.order))
	for _, id := range r.order {
		orderList = append(orderList, r.orders[id])
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *InMemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order with ID %s", id)
	}
	return &order, nil
}

// Create adds a new order.
func (r *InMemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.offline {
		return ErrOffline
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	items := make([]models.CartLine, len(order.Items))
	copy(items, order.Items)
	stored := *order
	stored.Items = items
	r.orders[order.ID] = stored
	r.order = append(r.order, order.ID)
	return nil
}

// Ping fails while the repository is offline.
func (r *InMemoryOrderRepository) Ping() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.offline {
		return ErrOffline
	}
	return nil
}
