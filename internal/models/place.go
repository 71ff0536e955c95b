package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the kind of venue a Place describes.
type Category string

const (
	CategoryRestaurant Category = "Restaurant"
	CategoryHotel      Category = "Hotel"
	CategoryExperience Category = "Experience"
	CategoryEvent      Category = "Event"
)

// Categories lists every place category in display order.
var Categories = []Category{CategoryRestaurant, CategoryHotel, CategoryExperience, CategoryEvent}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryHotel, CategoryExperience, CategoryEvent:
		return true
	}
	return false
}

// Style returns the badge color used when rendering the category.
func (c Category) Style() string {
	switch c {
	case CategoryRestaurant:
		return "blue"
	case CategoryHotel:
		return "purple"
	case CategoryExperience:
		return "green"
	case CategoryEvent:
		return "yellow"
	default:
		return "gray"
	}
}

// DefaultPlacePhotoURL is used when a submission carries no photo.
const DefaultPlacePhotoURL = "https://placehold.co/400x300/ADD8E6/000000?text=Place"

// Place is a venue or experience submitted by a user.
// A place is shown on the public map only once Approved is set by an administrator.
type Place struct {
	ID             string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string              `json:"name" validate:"required,min=2,max=120"`
	Category       Category            `json:"category" gorm:"type:varchar(32);index" validate:"required,placecategory"`
	Description    string              `json:"description" validate:"max=2000"`
	Review         string              `json:"review" validate:"max=4000"`
	PhotoURL       string              `json:"photo_url" validate:"omitempty,url"`
	Rating         int                 `json:"rating" validate:"required,min=1,max=5"`
	StreetAddress  string              `json:"street_address" validate:"max=255"`
	Country        string              `json:"country" gorm:"type:varchar(100);index" validate:"max=100"`
	Instagram      string              `json:"instagram,omitempty" validate:"max=100"`
	Website        string              `json:"website,omitempty" validate:"omitempty,url"`
	AveragePrice   decimal.NullDecimal `json:"average_price" gorm:"type:decimal(10,2)" validate:"omitempty,gte=0"`
	SubmitterEmail string              `json:"submitter_email,omitempty" validate:"omitempty,email"`
	RecommendedBy  string              `json:"recommended_by,omitempty" validate:"max=120"`
	Approved       bool                `json:"approved" gorm:"index;default:false"`
	CreatedAt      time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// Address joins the street address and country the way the map expects it.
func (p Place) Address() string {
	switch {
	case p.StreetAddress != "" && p.Country != "":
		return p.StreetAddress + ", " + p.Country
	case p.Country != "":
		return p.Country
	}
	return ""
}

// MarshalJSON adds the badge color and the rendered rating to the stored fields.
func (p Place) MarshalJSON() ([]byte, error) {
	type place Place
	return json.Marshal(struct {
		place
		CategoryStyle string `json:"category_style"`
		Stars         string `json:"stars"`
	}{place(p), p.Category.Style(), RenderStars(p.Rating)})
}

// RenderStars draws a 5-star rating, clamping out-of-range values.
func RenderStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	out := ""
	for i := 0; i < 5; i++ {
		if i < rating {
			out += "⭐"
		} else {
			out += "☆"
		}
	}
	return out
}
