package repositories

import (
	"vetrina/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// created once and never updated or deleted here.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// Ping reports whether the underlying store is reachable.
	Ping() error
}
