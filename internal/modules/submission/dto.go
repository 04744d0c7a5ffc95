package submission

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"harvesthaven/internal/domain"
)

// FormInput is the request body for a submission form. Numeric fields are decoded
// leniently: JSON numbers and numeric strings are both accepted.
type FormInput struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Location      string          `json:"location"`
	PricePerNight json.RawMessage `json:"price_per_night"`
	Bedrooms      json.RawMessage `json:"bedrooms"`
	SquareFeet    json.RawMessage `json:"square_feet"`
	Description   string          `json:"description"`
	Amenities     []string        `json:"amenities"`
	Images        []string        `json:"images"`
}

// ToForm converts the input into a form. Fields that cannot be read as numbers
// are reported in the returned FieldErrors.
func (in FormInput) ToForm() (domain.SubmissionForm, FieldErrors) {
	f := domain.SubmissionForm{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.ToLower(strings.TrimSpace(in.Type)),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Amenities:   in.Amenities,
		Images:      in.Images,
	}
	if f.Amenities == nil {
		f.Amenities = []string{}
	}

	errs := FieldErrors{}
	numeric := []struct {
		field string
		raw   json.RawMessage
		dst   *int
	}{
		{"price_per_night", in.PricePerNight, &f.PricePerNight},
		{"bedrooms", in.Bedrooms, &f.Bedrooms},
		{"square_feet", in.SquareFeet, &f.SquareFeet},
	}
	for _, n := range numeric {
		v, msg := parseNumber(n.raw)
		if msg != "" {
			errs[n.field] = msg
			continue
		}
		*n.dst = v
	}

	if len(errs) == 0 {
		return f, nil
	}
	return f, errs
}

// parseNumber reads a JSON number or numeric string. Absent, null and empty values read as 0.
func parseNumber(raw json.RawMessage) (int, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ""
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, msgNotANumber
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, ""
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, msgNotANumber
	}
	if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, msgWholeNumber
	}
	return int(v), ""
}

type CreateDraftRequest struct {
	Form *FormInput `json:"form,omitempty"`
}

type CommitRequest struct {
	Reference string `json:"reference"`
}

type CommitResponse struct {
	Listing *domain.Listing         `json:"listing"`
	Draft   *domain.SubmissionDraft `json:"draft"`
	Message string                  `json:"message"`
}

const committedMessage = "Your property has been submitted and is awaiting admin approval."
