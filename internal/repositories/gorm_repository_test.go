package repositories_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vetrina/internal/models"
	"vetrina/internal/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repositories.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	return db
}

func TestGORMPlaceRepository_CRUD(t *testing.T) {
	repo := repositories.NewGORMPlaceRepository(openTestDB(t))

	first := &models.Place{Name: "Trattoria", Category: models.CategoryRestaurant, Rating: 4, Country: "Italia"}
	require.NoError(t, repo.Create(first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := &models.Place{Name: "Hotel Lago", Category: models.CategoryHotel, Rating: 5,
		AveragePrice: decimal.NewNullDecimal(decimal.RequireFromString("80.5"))}
	require.NoError(t, repo.Create(second))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.True(t, all[1].AveragePrice.Valid)
	assert.Equal(t, "80.50", all[1].AveragePrice.Decimal.StringFixed(2))
	assert.False(t, all[0].AveragePrice.Valid)

	require.NoError(t, repo.SetApproved(first.ID, true))
	got, err := repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)

	got.Name = "Trattoria da Mario"
	got.Approved = false
	require.NoError(t, repo.Update(got))
	got, err = repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria da Mario", got.Name)
	assert.False(t, got.Approved)

	require.NoError(t, repo.Delete(first.ID))
	_, err = repo.GetByID(first.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(first.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.SetApproved("missing", true), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Update(&models.Place{ID: "missing"}), repositories.ErrNotFound)
}

func TestGORMProductRepository_AvailableUntilRoundTrip(t *testing.T) {
	repo := repositories.NewGORMProductRepository(openTestDB(t))

	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	p := &models.Product{Name: "Panettone", Price: decimal.RequireFromString("18.90"),
		Category: models.ShopCategoryGirziLine, AvailableUntil: &until}
	require.NoError(t, repo.Create(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AvailableUntil)
	assert.True(t, until.Equal(*got.AvailableUntil))
	assert.Equal(t, "18.90", got.Price.StringFixed(2))

	got.AvailableUntil = nil
	require.NoError(t, repo.Update(got))
	got, err = repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AvailableUntil)
}

func TestGORMOrderRepository_StoresItemSnapshot(t *testing.T) {
	repo := repositories.NewGORMOrderRepository(openTestDB(t))
	require.NoError(t, repo.Ping())

	order := &models.Order{
		Items: []models.CartLine{
			{ProductID: "p1", Name: "Oil", Price: decimal.RequireFromString("2.50"), Category: models.ShopCategoryRosarno, Quantity: 2},
		},
		TotalPrice:    decimal.RequireFromString("5.00"),
		CustomerEmail: "buyer@example.com",
		SessionID:     "s1",
	}
	require.NoError(t, repo.Create(order))
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	orders, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Oil", orders[0].Items[0].Name)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, "5.00", orders[0].TotalPrice.StringFixed(2))
}

func TestGORMUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))
	u := &models.User{Username: "admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, repo.Create(u))

	got, err := repo.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
