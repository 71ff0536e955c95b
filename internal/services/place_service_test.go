package services_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina/internal/models"
	"vetrina/internal/repositories"
	"vetrina/internal/services"
	"vetrina/internal/views"
)

func newPlace(name string, category models.Category, country string) *models.Place {
	return &models.Place{
		Name:     name,
		Category: category,
		Rating:   4,
		Country:  country,
	}
}

func TestPlaceService_SubmitStartsUnapproved(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	service := services.NewPlaceService(repo, services.NewNotifier(nil), "Italia")

	place := newPlace("Trattoria da Rosa", models.CategoryRestaurant, "Italia")
	place.Approved = true
	require.NoError(t, service.Submit(place))

	assert.NotEmpty(t, place.ID)
	assert.False(t, place.Approved)
	assert.Equal(t, models.DefaultPlacePhotoURL, place.PhotoURL)

	stored, err := service.GetPlaceByID(place.ID)
	require.NoError(t, err)
	assert.False(t, stored.Approved)
}

func TestPlaceService_SubmitValidation(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	service := services.NewPlaceService(repo, nil, "Italia")

	err := service.Submit(&models.Place{Name: "X", Category: "Bar", Rating: 9})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "Name")
	assert.Contains(t, verr.Fields, "Category")
	assert.Contains(t, verr.Fields, "Rating")

	places, err := service.GetAllPlaces()
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestPlaceService_ListAndMap(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	service := services.NewPlaceService(repo, nil, "Italia")

	hotel := newPlace("Hotel Mare", models.CategoryHotel, "Italia")
	hotel.StreetAddress = "Via Roma 1"
	tour := newPlace("Old Town Walk", models.CategoryExperience, "France")
	require.NoError(t, service.Submit(hotel))
	require.NoError(t, service.Submit(tour))

	// Nothing approved yet: the map falls back to the default region
	focus, err := service.Map()
	require.NoError(t, err)
	assert.Empty(t, focus.Places)
	assert.Equal(t, "Italia", focus.Address)

	_, _, err = service.SetApproval(hotel.ID, true)
	require.NoError(t, err)

	focus, err = service.Map()
	require.NoError(t, err)
	require.Len(t, focus.Places, 1)
	assert.Equal(t, "Via Roma 1, Italia", focus.Address)

	listed, err := service.List(views.PlaceFilter{Category: views.All, Country: "France"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Old Town Walk", listed[0].Name)

	countries, err := service.Countries()
	require.NoError(t, err)
	assert.Contains(t, countries, "Italia")
	assert.Contains(t, countries, "France")
}

func TestPlaceService_SetApprovalNotifiesSubmitter(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	pub := &recordingPublisher{}
	service := services.NewPlaceService(repo, services.NewNotifier(pub), "Italia")

	withEmail := newPlace("Sagra del Pesce", models.CategoryEvent, "Italia")
	withEmail.SubmitterEmail = "guest@example.com"
	anonymous := newPlace("Agriturismo", models.CategoryHotel, "Italia")
	require.NoError(t, service.Submit(withEmail))
	require.NoError(t, service.Submit(anonymous))

	place, ev, err := service.SetApproval(withEmail.ID, false)
	require.NoError(t, err)
	assert.False(t, place.Approved)
	require.NotNil(t, ev)
	assert.Equal(t, "guest@example.com", ev.To)
	assert.Contains(t, ev.Subject, "was not approved")

	_, ev, err = service.SetApproval(anonymous.ID, true)
	require.NoError(t, err)
	assert.Nil(t, ev)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, services.RoutingPlaceReviewed, events[0].routingKey)
	var decoded services.PlaceReviewedEvent
	require.NoError(t, json.Unmarshal(events[0].body, &decoded))
	assert.Equal(t, withEmail.ID, decoded.PlaceID)

	_, _, err = service.SetApproval("missing", true)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestPlaceService_UpdateAndDelete(t *testing.T) {
	repo := repositories.NewInMemoryPlaceRepository()
	service := services.NewPlaceService(repo, nil, "Italia")

	place := newPlace("Bar Centrale", models.CategoryRestaurant, "Italia")
	require.NoError(t, service.Submit(place))

	place.Review = "Great espresso"
	require.NoError(t, service.Update(place))
	stored, err := service.GetPlaceByID(place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Great espresso", stored.Review)

	require.NoError(t, service.Delete(place.ID))
	_, err = service.GetPlaceByID(place.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
