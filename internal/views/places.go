// Package views computes the read-only projections shown to users: filtered
// place lists, the map focus, the customer catalog and admin order lists.
// Every function is pure and preserves the store order of its input.
package views

import (
	"sort"

	"vetrina/internal/models"
)

// All is the wildcard selector value.
const All = "all"

// PlaceFilter selects places for the list view. Empty or "all" matches everything.
type PlaceFilter struct {
	Category string `query:"category"`
	Country  string `query:"country"`
}

func matches(selector, value string) bool {
	return selector == "" || selector == All || selector == value
}

// FilterPlaces returns the places matching both selectors, in store order.
func FilterPlaces(places []models.Place, f PlaceFilter) []models.Place {
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if matches(f.Category, string(p.Category)) && matches(f.Country, p.Country) {
			out = append(out, p)
		}
	}
	return out
}

// Approved returns only the approved places, in store order.
func Approved(places []models.Place) []models.Place {
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if p.Approved {
			out = append(out, p)
		}
	}
	return out
}

// MapFocus is the approved map view.
type MapFocus struct {
	Places  []models.Place `json:"places"`
	Address string         `json:"address"`
	FocusID string         `json:"focus_id,omitempty"`
}

// MapView keeps approved places and centers the map on the most recently
// created one. Without an approved place, or when it has no usable address,
// the map falls back to defaultRegion.
func MapView(places []models.Place, defaultRegion string) MapFocus {
	approved := Approved(places)
	focus := MapFocus{Places: approved, Address: defaultRegion}

	var latest *models.Place
	for i := range approved {
		if latest == nil || approved[i].CreatedAt.After(latest.CreatedAt) {
			latest = &approved[i]
		}
	}
	if latest == nil {
		return focus
	}
	focus.FocusID = latest.ID
	if addr := latest.Address(); addr != "" {
		focus.Address = addr
	}
	return focus
}

// Countries lists the distinct non-empty countries, sorted, after the "all" option.
func Countries(places []models.Place) []string {
	seen := make(map[string]struct{})
	for _, p := range places {
		if p.Country != "" {
			seen[p.Country] = struct{}{}
		}
	}
	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return append([]string{All}, countries...)
}
