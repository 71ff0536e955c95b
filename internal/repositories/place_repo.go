package repositories

import (
	"vetrina/internal/models"
)

// PlaceRepository defines the interface for place data access.
// GetAll returns places in store order (creation order).
type PlaceRepository interface {
	GetAll() ([]models.Place, error)
	GetByID(id string) (*models.Place, error)
	Create(place *models.Place) error
	Update(place *models.Place) error
	SetApproved(id string, approved bool) error
	Delete(id string) error
}
