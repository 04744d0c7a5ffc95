package catalog

import (
	"math"
	"strconv"
	"strings"

	"harvesthaven/internal/domain"
)

const (
	AnyType     = "any"
	AnyBedrooms = "any"
	FivePlus    = "5+"
)

// Criteria is the set of active search filters. Ranges are inclusive on both ends.
type Criteria struct {
	Location string `json:"location"`
	Type     string `json:"type"`
	PriceMin int    `json:"price_min"`
	PriceMax int    `json:"price_max"`
	Bedrooms string `json:"bedrooms"`
	AreaMin  int    `json:"area_min"`
	AreaMax  int    `json:"area_max"`
}

// DefaultCriteria is the filter state a visitor starts with on the landing page.
func DefaultCriteria() Criteria {
	return Criteria{
		Location: "",
		Type:     AnyType,
		PriceMin: 1000,
		PriceMax: 100000,
		Bedrooms: AnyBedrooms,
		AreaMin:  500,
		AreaMax:  5000,
	}
}

// UnboundedCriteria matches every listing.
func UnboundedCriteria() Criteria {
	return Criteria{
		Type:     AnyType,
		PriceMin: 0,
		PriceMax: math.MaxInt,
		Bedrooms: AnyBedrooms,
		AreaMin:  0,
		AreaMax:  math.MaxInt,
	}
}

// Satisfiable is false when a range is inverted; such criteria match nothing.
func (c Criteria) Satisfiable() bool {
	return c.PriceMin <= c.PriceMax && c.AreaMin <= c.AreaMax
}

// Matches applies all five predicates to l. Status is not considered here.
func (c Criteria) Matches(l *domain.Listing) bool {
	if !c.Satisfiable() {
		return false
	}
	if c.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(c.Location)) {
		return false
	}
	if c.Type != "" && c.Type != AnyType && c.Type != string(l.Type) {
		return false
	}
	if l.PricePerNight < c.PriceMin || l.PricePerNight > c.PriceMax {
		return false
	}
	if !c.matchesBedrooms(l.Bedrooms) {
		return false
	}
	return l.SquareFeet >= c.AreaMin && l.SquareFeet <= c.AreaMax
}

func (c Criteria) matchesBedrooms(n int) bool {
	switch c.Bedrooms {
	case "", AnyBedrooms:
		return true
	case FivePlus:
		return n >= 5
	}
	want, err := strconv.Atoi(c.Bedrooms)
	if err != nil {
		return false
	}
	return n == want
}

// FilterListings returns the approved listings that satisfy c, in their original order.
// This is the public search boundary; owner and admin views use MatchAll.
func FilterListings(listings []domain.Listing, c Criteria) []domain.Listing {
	return filter(listings, c, true)
}

// MatchAll is FilterListings without the approved-only restriction.
func MatchAll(listings []domain.Listing, c Criteria) []domain.Listing {
	return filter(listings, c, false)
}

func filter(listings []domain.Listing, c Criteria, approvedOnly bool) []domain.Listing {
	out := make([]domain.Listing, 0)
	if !c.Satisfiable() {
		return out
	}
	for i := range listings {
		l := &listings[i]
		if approvedOnly && l.Status != domain.ListingApproved {
			continue
		}
		if c.Matches(l) {
			out = append(out, *l)
		}
	}
	return out
}
