package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"vetrina/internal/models"
)

// InMemoryPlaceRepository is an in-memory implementation of PlaceRepository.
type InMemoryPlaceRepository struct {
	places map[string]models.Place
	order  []string
	mu     sync.RWMutex
}

// NewInMemoryPlaceRepository creates a new instance of InMemoryPlaceRepository.
func NewInMemoryPlaceRepository() *InMemoryPlaceRepository {
	return &InMemoryPlaceRepository{
		places: make(map[string]models.Place),
	}
}

// GetAll returns all places in insertion order.
func (r *InMemoryPlaceRepository) GetAll() ([]models.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Place, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.places[id])
	}
	return list, nil
}

// GetByID returns a place by its ID.
func (r *InMemoryPlaceRepository) GetByID(id string) (*models.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	place, ok := r.places[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "place with ID %s", id)
	}
	return &place, nil
}

// Create adds a new place.
func (r *InMemoryPlaceRepository) Create(place *models.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	if _, exists := r.places[place.ID]; exists {
		return errors.Errorf("place with ID %s already exists", place.ID)
	}
	place.CreatedAt = time.Now()
	place.UpdatedAt = place.CreatedAt
	r.places[place.ID] = *place
	r.order = append(r.order, place.ID)
	return nil
}

// Update replaces an existing place, keeping its creation time.
func (r *InMemoryPlaceRepository) Update(place *models.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.places[place.ID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "place with ID %s for update", place.ID)
	}
	place.CreatedAt = existing.CreatedAt
	place.UpdatedAt = time.Now()
	r.places[place.ID] = *place
	return nil
}

// SetApproved flips the approval flag of a place.
func (r *InMemoryPlaceRepository) SetApproved(id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	place, ok := r.places[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "place with ID %s for approval", id)
	}
	place.Approved = approved
	place.UpdatedAt = time.Now()
	r.places[id] = place
	return nil
}

// Delete removes a place by its ID.
func (r *InMemoryPlaceRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.places[id]; !ok {
		return errors.Wrapf(ErrNotFound, "place with ID %s for deletion", id)
	}
	delete(r.places, id)
	r.order = removeID(r.order, id)
	return nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
