package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/models"
)

func TestCategoryStyle(t *testing.T) {
	assert.Equal(t, "blue", models.CategoryRestaurant.Style())
	assert.Equal(t, "purple", models.CategoryHotel.Style())
	assert.Equal(t, "green", models.CategoryExperience.Style())
	assert.Equal(t, "yellow", models.CategoryEvent.Style())
	assert.Equal(t, "gray", models.Category("Bar").Style())

	assert.Equal(t, "red", models.ShopCategoryGirziLine.Style())
	assert.Equal(t, "indigo", models.ShopCategoryRosarno.Style())
	assert.Equal(t, "gray", models.ShopCategory("").Style())
}

func TestRenderStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐☆☆", models.RenderStars(3))
	assert.Equal(t, "☆☆☆☆☆", models.RenderStars(-2))
	assert.Equal(t, "⭐⭐⭐⭐⭐", models.RenderStars(9))
}

func TestPlaceAddress(t *testing.T) {
	assert.Equal(t, "Via Roma 1, Italia", models.Place{StreetAddress: "Via Roma 1", Country: "Italia"}.Address())
	assert.Equal(t, "Italia", models.Place{Country: "Italia"}.Address())
	assert.Equal(t, "", models.Place{StreetAddress: "Via Roma 1"}.Address())
}

func TestProductAvailableAt(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Millisecond)

	assert.True(t, models.Product{}.AvailableAt(now))
	assert.False(t, models.Product{AvailableUntil: &now}.AvailableAt(now))
	assert.True(t, models.Product{AvailableUntil: &later}.AvailableAt(now))
}

func TestOrderTotals(t *testing.T) {
	order := models.Order{Items: []models.CartLine{
		{Price: decimal.RequireFromString("2.50"), Quantity: 2, Category: models.ShopCategoryRosarno},
	}}
	assert.Equal(t, "5.00", order.Items[0].Subtotal().StringFixed(2))
	assert.True(t, order.HasCategory(models.ShopCategoryRosarno))
	assert.False(t, order.HasCategory(models.ShopCategoryGirziLine))
}

func TestJSONCarriesDisplayFields(t *testing.T) {
	data, err := json.Marshal(models.Place{Name: "Villa", Category: models.CategoryHotel, Rating: 2})
	require.NoError(t, err)
	var place map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &place))
	assert.Equal(t, "Villa", place["name"])
	assert.Equal(t, "purple", place["category_style"])
	assert.Equal(t, "⭐⭐☆☆☆", place["stars"])

	data, err = json.Marshal(&models.Product{Name: "Jam", Category: models.ShopCategoryGirziLine})
	require.NoError(t, err)
	var product map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &product))
	assert.Equal(t, "red", product["category_style"])
}

func TestValidator(t *testing.T) {
	v := models.NewValidator()

	valid := models.Place{Name: "Villa", Category: models.CategoryHotel, Rating: 3,
		AveragePrice: decimal.NewNullDecimal(decimal.RequireFromString("45.00"))}
	assert.NoError(t, v.Struct(valid))

	negative := valid
	negative.AveragePrice = decimal.NewNullDecimal(decimal.RequireFromString("-1"))
	assert.Error(t, v.Struct(negative))

	unknown := valid
	unknown.Category = "Bar"
	assert.Error(t, v.Struct(unknown))

	assert.NoError(t, v.Struct(models.Product{Name: "Jam", Category: models.ShopCategoryRosarno}))
	assert.Error(t, v.Struct(models.Product{Name: "Jam", Category: models.ShopCategoryRosarno, Price: decimal.RequireFromString("-0.01")}))
}
