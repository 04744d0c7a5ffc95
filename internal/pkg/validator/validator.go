package validator

import (
	"errors"
	"reflect"
	"strings"

	"harvesthaven/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("amenity", func(fl validator.FieldLevel) bool {
		return domain.IsKnownAmenity(fl.Field().String())
	})
}

// FieldError is one failed rule, keyed by the JSON name of the field.
type FieldError struct {
	Field string
	Tag   string
	Param string
	Value any
}

// Validate struct fields. Returns nil when v is valid.
func Validate(v interface{}) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Tag: "invalid", Value: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: baseField(fe.Field()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// baseField strips slice indexes so "amenities[2]" reports as "amenities".
func baseField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
