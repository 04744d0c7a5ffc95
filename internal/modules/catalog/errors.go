package catalog

import "errors"

var (
	ErrNotFound  = errors.New("property not found")
	ErrForbidden = errors.New("forbidden")
)
