package repositories

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"vetrina/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll returns every order in creation order.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at asc, id asc").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get all orders")
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "order with ID %s", id)
		}
		return nil, errors.Wrapf(err, "failed to get order by ID %s", id)
	}
	return &order, nil
}

// Create inserts the order in a single statement. The ID and the order
// timestamp are assigned by the store.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = r.db.NowFunc()
	if err := r.db.Create(order).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

// Ping checks the database connection.
func (r *GORMOrderRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(err, "get database handle")
	}
	return errors.Wrap(sqlDB.Ping(), "ping database")
}
