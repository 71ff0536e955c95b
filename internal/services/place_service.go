package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"vetrina/internal/live"
	"vetrina/internal/models"
	"vetrina/internal/repositories"
	"vetrina/internal/views"
)

// PlaceService handles submissions, moderation and the place views.
type PlaceService struct {
	repo          repositories.PlaceRepository
	feed          *live.Feed[models.Place]
	notifier      *Notifier
	validate      *validator.Validate
	defaultRegion string
}

// NewPlaceService creates a new PlaceService. defaultRegion is the map focus
// used when no approved place has an address.
func NewPlaceService(repo repositories.PlaceRepository, notifier *Notifier, defaultRegion string) *PlaceService {
	return &PlaceService{
		repo:          repo,
		feed:          live.NewFeed("places", repo.GetAll),
		notifier:      notifier,
		validate:      models.NewValidator(),
		defaultRegion: defaultRegion,
	}
}

// Feed is the live places collection.
func (s *PlaceService) Feed() *live.Feed[models.Place] {
	return s.feed
}

func normalizePlace(place *models.Place) {
	place.Name = strings.TrimSpace(place.Name)
	place.Country = strings.TrimSpace(place.Country)
	place.SubmitterEmail = strings.TrimSpace(place.SubmitterEmail)
	if place.PhotoURL == "" {
		place.PhotoURL = models.DefaultPlacePhotoURL
	}
}

// Submit stores a new place. Submissions always start unapproved.
func (s *PlaceService) Submit(place *models.Place) error {
	normalizePlace(place)
	place.ID = ""
	place.Approved = false
	if err := s.validate.Struct(place); err != nil {
		return invalid(err)
	}
	if err := s.repo.Create(place); err != nil {
		return writeErr(err)
	}
	log.WithFields(log.Fields{"place_id": place.ID, "name": place.Name}).Info("Place submitted for approval")
	s.feed.Notify()
	return nil
}

// GetAllPlaces returns every place, approved or not, in store order.
func (s *PlaceService) GetAllPlaces() ([]models.Place, error) {
	places, err := s.repo.GetAll()
	return places, readErr(err)
}

// GetPlaceByID returns a single place.
func (s *PlaceService) GetPlaceByID(id string) (*models.Place, error) {
	place, err := s.repo.GetByID(id)
	return place, readErr(err)
}

// List returns the places matching the list filters.
func (s *PlaceService) List(filter views.PlaceFilter) ([]models.Place, error) {
	places, err := s.GetAllPlaces()
	if err != nil {
		return nil, err
	}
	return views.FilterPlaces(places, filter), nil
}

// Countries returns the country selector options for the list view.
func (s *PlaceService) Countries() ([]string, error) {
	places, err := s.GetAllPlaces()
	if err != nil {
		return nil, err
	}
	return views.Countries(places), nil
}

// Map returns the approved places and the map focus.
func (s *PlaceService) Map() (views.MapFocus, error) {
	places, err := s.GetAllPlaces()
	if err != nil {
		return views.MapFocus{}, err
	}
	return s.MapOf(places), nil
}

// MapOf computes the map view of an already loaded snapshot.
func (s *PlaceService) MapOf(places []models.Place) views.MapFocus {
	return views.MapView(places, s.defaultRegion)
}

// Update overwrites an existing place with administrator edits. Concurrent
// edits are not merged; the last write wins.
func (s *PlaceService) Update(place *models.Place) error {
	normalizePlace(place)
	if err := s.validate.Struct(place); err != nil {
		return invalid(err)
	}
	if err := s.repo.Update(place); err != nil {
		return writeErr(err)
	}
	s.feed.Notify()
	return nil
}

// SetApproval approves or rejects a place and notifies the submitter when an
// email was left. It returns the updated place and the notification sent, if any.
func (s *PlaceService) SetApproval(id string, approved bool) (*models.Place, *PlaceReviewedEvent, error) {
	if err := s.repo.SetApproved(id, approved); err != nil {
		return nil, nil, writeErr(err)
	}
	s.feed.Notify()

	place, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, readErr(err)
	}
	log.WithFields(log.Fields{"place_id": id, "approved": approved}).Info("Place reviewed")
	return place, s.notifier.PlaceReviewed(*place, approved), nil
}

// Delete removes a place.
func (s *PlaceService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return writeErr(err)
	}
	log.WithField("place_id", id).Info("Place deleted")
	s.feed.Notify()
	return nil
}
