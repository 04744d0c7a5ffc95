package submission

import (
	"fmt"

	"harvesthaven/internal/pkg/validator"
)

var fieldMessages = map[string]string{
	"name":            "Property name must be at least 5 characters.",
	"type":            "Property type must be farmhouse or resort.",
	"location":        "Location must be at least 3 characters.",
	"price_per_night": "Price must be at least 10 INR.",
	"bedrooms":        "Must have at least 1 bedroom.",
	"square_feet":     "Must be at least 100 sq ft.",
	"description":     "Description must be at least 50 characters.",
	"amenities":       "Amenities must be chosen from: wifi, pool, kitchen, parking, fireplace, gym, spa.",
}

// tagMessages override fieldMessages for a specific rule on a field.
var tagMessages = map[string]string{
	"amenities.unique": "Each amenity can only be listed once.",
}

const (
	msgNotANumber   = "Must be a number."
	msgWholeNumber  = "Must be a whole number."
	msgReferenceLen = "Transaction reference must be at least 12 characters."
)

// ValidateForm applies the form rules and returns one message per failing field,
// or nil when the form is valid.
func ValidateForm(form interface{}) FieldErrors {
	errs := validator.Validate(form)
	if len(errs) == 0 {
		return nil
	}

	out := make(FieldErrors, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Field]; seen {
			continue
		}
		msg, ok := tagMessages[fe.Field+"."+fe.Tag]
		if !ok {
			msg, ok = fieldMessages[fe.Field]
		}
		if !ok {
			msg = fmt.Sprintf("Failed %s validation.", fe.Tag)
		}
		out[fe.Field] = msg
	}
	return out
}
