package domain

import "time"

type ListingEventType string

const (
	ListingAppended      ListingEventType = "listing.appended"
	ListingRemoved       ListingEventType = "listing.removed"
	ListingStatusChanged ListingEventType = "listing.status_changed"
)

// ListingEvent describes one mutation of the listing store.
// For removals Listing holds the record as it was before deletion.
type ListingEvent struct {
	Type       ListingEventType `json:"type"`
	Listing    Listing          `json:"listing"`
	PrevStatus ListingStatus    `json:"prev_status,omitempty"`
	At         time.Time        `json:"at"`
}
