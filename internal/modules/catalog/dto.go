package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"harvesthaven/internal/domain"
)

const NoMatchesMessage = "No properties match your search."

// CriteriaFromQuery builds criteria from query values. Absent or non-numeric
// range values keep their defaults; bedrooms is passed through as-is.
func CriteriaFromQuery(get func(string) string) Criteria {
	return criteriaFromQuery(DefaultCriteria(), get)
}

// OwnerCriteriaFromQuery is CriteriaFromQuery for the owner dashboard. Ranges the
// query leaves out stay unbounded, so a host always sees listings priced or sized
// outside the public defaults.
func OwnerCriteriaFromQuery(get func(string) string) Criteria {
	return criteriaFromQuery(UnboundedCriteria(), get)
}

func criteriaFromQuery(c Criteria, get func(string) string) Criteria {

	c.Location = strings.TrimSpace(get("location"))
	if v := strings.TrimSpace(get("type")); v != "" {
		c.Type = strings.ToLower(v)
	}
	if v := strings.TrimSpace(get("bedrooms")); v != "" {
		c.Bedrooms = strings.ToLower(v)
	}

	intParam(get("price_min"), &c.PriceMin)
	intParam(get("price_max"), &c.PriceMax)
	intParam(get("area_min"), &c.AreaMin)
	intParam(get("area_max"), &c.AreaMax)
	return c
}

func intParam(raw string, dst *int) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}

type SearchResponse struct {
	Properties []domain.Listing `json:"properties"`
	Count      int              `json:"count"`
	Criteria   Criteria         `json:"criteria"`
	Message    string           `json:"message,omitempty"`
}

// ContactInfo is shown to signed-in visitors only.
type ContactInfo struct {
	PropertyID    string `json:"property_id"`
	OwnerName     string `json:"owner_name,omitempty"`
	OwnerPhone    string `json:"owner_phone,omitempty"`
	ContactURL    string `json:"contact_url,omitempty"`
	DirectionsURL string `json:"directions_url"`
}

func directionsURL(location string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(location)
}

// whatsappURL builds a wa.me chat link. Phones are stored in international form;
// anything that is not a digit is dropped.
func whatsappURL(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

type PropertyDetail struct {
	domain.Listing
	OwnerName  string `json:"owner_name,omitempty"`
	ShowRating bool   `json:"show_rating"`
}
