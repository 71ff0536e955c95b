package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/models"
	"vetrina/internal/repositories"
)

func TestInMemoryPlaceRepository_KeepsInsertionOrder(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(&models.Place{ID: name, Name: name}))
	}
	require.NoError(t, repo.Delete("a"))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestInMemoryOrderRepository_Offline(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	repo.SetOffline(true)
	assert.ErrorIs(t, repo.Ping(), repositories.ErrOffline)
	assert.ErrorIs(t, repo.Create(&models.Order{}), repositories.ErrOffline)

	repo.SetOffline(false)
	assert.NoError(t, repo.Ping())
	order := &models.Order{Items: []models.CartLine{{ProductID: "p", Quantity: 1}}}
	require.NoError(t, repo.Create(order))

	order.Items[0].Quantity = 9
	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity, "stored order is a copy")
}

func TestInMemoryUserRepository_RejectsDuplicates(t *testing.T) {
	repo := repositories.NewInMemoryUserRepository()
	require.NoError(t, repo.Create(&models.User{Username: "admin", Email: "a@example.com"}))
	assert.Error(t, repo.Create(&models.User{Username: "admin", Email: "b@example.com"}))
}
