package admin

import "errors"

var (
	ErrNotFound      = errors.New("listing not found")
	ErrNotPending    = errors.New("listing is not pending review")
	ErrInvalidStatus = errors.New("invalid listing status")
)
