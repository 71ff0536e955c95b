package views_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/models"
	"vetrina/internal/views"
)

func samplePlaces() []models.Place {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return []models.Place{
		{ID: "1", Name: "Trattoria", Category: models.CategoryRestaurant, Country: "Italia", StreetAddress: "Via Roma 1", Approved: true, CreatedAt: base},
		{ID: "2", Name: "Alpine Inn", Category: models.CategoryHotel, Country: "Austria", Approved: false, CreatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "Wine Tour", Category: models.CategoryExperience, Country: "Italia", StreetAddress: "Via Vino 3", Approved: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Name: "Jazz Night", Category: models.CategoryEvent, Country: "", Approved: false, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "5", Name: "Bistro", Category: models.CategoryRestaurant, Country: "France", Approved: true, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(places []models.Place) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterPlaces(t *testing.T) {
	places := samplePlaces()

	tests := []struct {
		name   string
		filter views.PlaceFilter
		want   []string
	}{
		{"all selectors", views.PlaceFilter{Category: "all", Country: "all"}, []string{"1", "2", "3", "4", "5"}},
		{"empty selectors", views.PlaceFilter{}, []string{"1", "2", "3", "4", "5"}},
		{"by category", views.PlaceFilter{Category: "Restaurant", Country: "all"}, []string{"1", "5"}},
		{"by country", views.PlaceFilter{Category: "all", Country: "Italia"}, []string{"1", "3"}},
		{"both", views.PlaceFilter{Category: "Restaurant", Country: "Italia"}, []string{"1"}},
		{"no match", views.PlaceFilter{Category: "Hotel", Country: "Italia"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := views.FilterPlaces(places, tt.filter)
			assert.Equal(t, tt.want, ids(got))
			for _, p := range got {
				if tt.filter.Category != "all" && tt.filter.Category != "" {
					assert.Equal(t, tt.filter.Category, string(p.Category))
				}
				if tt.filter.Country != "all" && tt.filter.Country != "" {
					assert.Equal(t, tt.filter.Country, p.Country)
				}
			}
		})
	}
}

func TestMapView_FocusesMostRecentApproved(t *testing.T) {
	focus := views.MapView(samplePlaces(), "Italia")

	assert.Equal(t, []string{"1", "3", "5"}, ids(focus.Places))
	assert.Equal(t, "3", focus.FocusID)
	assert.Equal(t, "Via Vino 3, Italia", focus.Address)
}

func TestMapView_CountryOnlyAddress(t *testing.T) {
	places := []models.Place{{ID: "a", Approved: true, Country: "Spain", CreatedAt: time.Now()}}
	assert.Equal(t, "Spain", views.MapView(places, "Italia").Address)
}

func TestMapView_FallsBackToDefaultRegion(t *testing.T) {
	places := []models.Place{{ID: "a", Approved: false, Country: "Spain"}}
	focus := views.MapView(places, "Italia")
	assert.Empty(t, focus.Places)
	assert.Equal(t, "Italia", focus.Address)
	assert.Empty(t, focus.FocusID)

	noAddress := []models.Place{{ID: "b", Approved: true}}
	assert.Equal(t, "Italia", views.MapView(noAddress, "Italia").Address)
}

func TestCountries(t *testing.T) {
	got := views.Countries(samplePlaces())
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"all", "Austria", "France", "Italia"}, got)
	assert.Equal(t, []string{"all"}, views.Countries(nil))
}
