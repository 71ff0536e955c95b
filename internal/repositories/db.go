package repositories

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vetrina/internal/models"
)

// Open connects to the configured database and migrates the schema.
// driver is "sqlite" or "postgres".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s database", driver)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Place{}, &models.Product{}, &models.Order{}, &models.User{}); err != nil {
		return errors.Wrap(err, "auto-migrate database")
	}
	return nil
}

// Store groups the repositories of one backend.
type Store struct {
	Places   PlaceRepository
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
}

// NewGORMStore returns repositories backed by db.
func NewGORMStore(db *gorm.DB) Store {
	return Store{
		Places:   NewGORMPlaceRepository(db),
		Products: NewGORMProductRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Users:    NewGORMUserRepository(db),
	}
}

// NewInMemoryStore returns process-local repositories. Nothing survives a restart.
func NewInMemoryStore() Store {
	return Store{
		Places:   NewInMemoryPlaceRepository(),
		Products: NewInMemoryProductRepository(),
		Orders:   NewInMemoryOrderRepository(),
		Users:    NewInMemoryUserRepository(),
	}
}

// OpenStore opens the configured backend. The "memory" driver needs no dsn.
func OpenStore(driver, dsn string) (Store, error) {
	if driver == "memory" {
		return NewInMemoryStore(), nil
	}
	db, err := Open(driver, dsn)
	if err != nil {
		return Store{}, err
	}
	return NewGORMStore(db), nil
}
