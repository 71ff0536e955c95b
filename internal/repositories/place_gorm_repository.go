package repositories

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"vetrina/internal/models"
)

// GORMPlaceRepository is a GORM implementation of PlaceRepository.
type GORMPlaceRepository struct {
	db *gorm.DB
}

// NewGORMPlaceRepository creates a new instance of GORMPlaceRepository.
func NewGORMPlaceRepository(db *gorm.DB) *GORMPlaceRepository {
	return &GORMPlaceRepository{db: db}
}

// GetAll retrieves all places in creation order.
func (r *GORMPlaceRepository) GetAll() ([]models.Place, error) {
	var places []models.Place
	if err := r.db.Order("created_at asc, id asc").Find(&places).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get all places")
	}
	return places, nil
}

// GetByID retrieves a single place by its ID.
func (r *GORMPlaceRepository) GetByID(id string) (*models.Place, error) {
	var place models.Place
	if err := r.db.First(&place, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "place with ID %s", id)
		}
		return nil, errors.Wrapf(err, "failed to get place by ID %s", id)
	}
	return &place, nil
}

// Create inserts a place. The ID and CreatedAt are assigned here.
func (r *GORMPlaceRepository) Create(place *models.Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	place.CreatedAt = r.db.NowFunc()
	if err := r.db.Create(place).Error; err != nil {
		return errors.Wrap(err, "failed to create place")
	}
	return nil
}

// Update overwrites every editable field of an existing place.
func (r *GORMPlaceRepository) Update(place *models.Place) error {
	res := r.db.Model(&models.Place{ID: place.ID}).Select("*").Omit("id", "created_at").Updates(place)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update place")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "place with ID %s for update", place.ID)
	}
	return nil
}

// SetApproved flips the approval flag of a place.
func (r *GORMPlaceRepository) SetApproved(id string, approved bool) error {
	res := r.db.Model(&models.Place{}).Where("id = ?", id).Update("approved", approved)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update place approval")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "place with ID %s for approval", id)
	}
	return nil
}

// Delete removes a place by its ID.
func (r *GORMPlaceRepository) Delete(id string) error {
	res := r.db.Delete(&models.Place{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete place")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "place with ID %s for deletion", id)
	}
	return nil
}
