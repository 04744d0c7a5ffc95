package submission

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"harvesthaven/internal/domain"

	"github.com/google/uuid"
)

// MinReferenceLength matches the length of a UPI transaction id.
const MinReferenceLength = 12

// The transition functions below only touch the draft when they succeed.
//
//	form -> payment -> confirmation -> committed
//	payment -> form, confirmation -> payment (back)

// Submit validates the form and moves the draft to the payment stage.
func Submit(d *domain.SubmissionDraft) error {
	if d.Stage != domain.StageForm {
		return ErrInvalidTransition
	}
	if fields := ValidateForm(d.Form); fields != nil {
		return &ValidationError{Fields: fields}
	}
	d.Stage = domain.StagePayment
	return nil
}

// ConfirmPayment records the host's statement that the fee has been paid.
func ConfirmPayment(d *domain.SubmissionDraft) error {
	if d.Stage != domain.StagePayment {
		return ErrInvalidTransition
	}
	d.Stage = domain.StageConfirmation
	return nil
}

// Back steps one stage backwards. Form values are kept.
func Back(d *domain.SubmissionDraft) error {
	switch d.Stage {
	case domain.StagePayment:
		d.Stage = domain.StageForm
		d.PaymentInstructions = nil
		d.PaymentMethod = ""
	case domain.StageConfirmation:
		d.Stage = domain.StagePayment
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ValidateReference trims the reference and checks its length.
func ValidateReference(reference string) (string, error) {
	ref := strings.TrimSpace(reference)
	if utf8.RuneCountInString(ref) < MinReferenceLength {
		return "", ErrInvalidReference
	}
	return ref, nil
}

// Commit builds the pending listing for a confirmed draft and marks the draft committed.
// The caller is responsible for appending the listing to the store.
func Commit(d *domain.SubmissionDraft, reference string, owner domain.Identity, now time.Time) (*domain.Listing, error) {
	if d.Stage != domain.StageConfirmation {
		return nil, ErrInvalidTransition
	}
	ref, err := ValidateReference(reference)
	if err != nil {
		return nil, err
	}

	l := BuildListing(d.Form, owner.ID, now)
	d.PaymentReference = ref
	d.ListingID = l.ID
	d.Stage = domain.StageCommitted
	return l, nil
}

// BuildListing materialises a validated form as a new, unrated, pending listing.
func BuildListing(f domain.SubmissionForm, ownerID string, now time.Time) *domain.Listing {
	amenities := make([]domain.Amenity, 0, len(f.Amenities))
	for _, a := range f.Amenities {
		amenities = append(amenities, domain.Amenity(a))
	}
	images := append([]string{}, f.Images...)

	return &domain.Listing{
		ID:            NewListingID(now),
		Name:          f.Name,
		Type:          domain.PropertyType(f.Type),
		Location:      f.Location,
		PricePerNight: f.PricePerNight,
		Bedrooms:      f.Bedrooms,
		SquareFeet:    f.SquareFeet,
		Description:   f.Description,
		Amenities:     amenities,
		Images:        images,
		Rating:        0,
		OwnerID:       ownerID,
		Status:        domain.ListingPending,
		CreatedAt:     now.UTC(),
	}
}

// NewListingID is a millisecond timestamp plus a random suffix.
func NewListingID(now time.Time) string {
	return fmt.Sprintf("prop-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
