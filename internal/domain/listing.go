package domain

import (
	"fmt"
	"time"
)

type PropertyType string

const (
	PropertyFarmhouse PropertyType = "farmhouse"
	PropertyResort    PropertyType = "resort"
)

func ParsePropertyType(s string) (PropertyType, error) {
	switch PropertyType(s) {
	case PropertyFarmhouse, PropertyResort:
		return PropertyType(s), nil
	default:
		return "", fmt.Errorf("invalid property type: %q", s)
	}
}

type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

type Amenity string

const (
	AmenityWifi      Amenity = "wifi"
	AmenityPool      Amenity = "pool"
	AmenityKitchen   Amenity = "kitchen"
	AmenityParking   Amenity = "parking"
	AmenityFireplace Amenity = "fireplace"
	AmenityGym       Amenity = "gym"
	AmenitySpa       Amenity = "spa"
)

// Amenities is the fixed vocabulary a listing may draw its amenity tags from, in display order.
var Amenities = []Amenity{
	AmenityWifi,
	AmenityPool,
	AmenityKitchen,
	AmenityParking,
	AmenityFireplace,
	AmenityGym,
	AmenitySpa,
}

func IsKnownAmenity(s string) bool {
	for _, a := range Amenities {
		if string(a) == s {
			return true
		}
	}
	return false
}

type Listing struct {
	ID            string        `json:"id" gorm:"primaryKey;size:64"`
	Name          string        `json:"name" gorm:"not null"`
	Type          PropertyType  `json:"type" gorm:"size:16;not null"`
	Location      string        `json:"location"`
	PricePerNight int           `json:"price_per_night"`
	Bedrooms      int           `json:"bedrooms"`
	SquareFeet    int           `json:"square_feet"`
	Description   string        `json:"description"`
	Amenities     []Amenity     `json:"amenities" gorm:"serializer:json"`
	Images        []string      `json:"images" gorm:"serializer:json"`
	Rating        float64       `json:"rating"`
	OwnerID       string        `json:"owner_id" gorm:"size:64;index"`
	Status        ListingStatus `json:"status" gorm:"size:16;index"`
	CreatedAt     time.Time     `json:"created_at"`
}

// HasRating reports whether the rating should be shown; new listings start unrated.
func (l *Listing) HasRating() bool {
	return l.Rating > 0
}
