package domain

import "time"

type SubmissionStage string

const (
	StageForm         SubmissionStage = "form"
	StagePayment      SubmissionStage = "payment"
	StageConfirmation SubmissionStage = "confirmation"
	StageCommitted    SubmissionStage = "committed"
)

// SubmissionForm is the host-entered payload of a property submission.
// Numeric fields are carried as ints; the validate tags hold the business thresholds.
type SubmissionForm struct {
	Name          string   `json:"name" validate:"min=5"`
	Type          string   `json:"type" validate:"oneof=farmhouse resort"`
	Location      string   `json:"location" validate:"min=3"`
	PricePerNight int      `json:"price_per_night" validate:"gte=10"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=1"`
	SquareFeet    int      `json:"square_feet" validate:"gte=100"`
	Description   string   `json:"description" validate:"min=50"`
	Amenities     []string `json:"amenities" validate:"unique,dive,amenity"`
	Images        []string `json:"images,omitempty"`
}

// DefaultSubmissionForm mirrors the initial values of the host submission form.
func DefaultSubmissionForm() SubmissionForm {
	return SubmissionForm{
		Type:          string(PropertyFarmhouse),
		PricePerNight: 100,
		Bedrooms:      1,
		SquareFeet:    500,
		Amenities:     []string{string(AmenityWifi), string(AmenityKitchen)},
	}
}

type PaymentInstructions struct {
	Method   string `json:"method"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	// URI is a upi://pay intent for QR rendering.
	URI string `json:"uri,omitempty"`
	// OrderID and CheckoutKey are set by hosted checkout providers.
	OrderID     string `json:"order_id,omitempty"`
	CheckoutKey string `json:"checkout_key,omitempty"`
}

type SubmissionDraft struct {
	ID                  string               `json:"id" gorm:"primaryKey;size:64"`
	OwnerID             string               `json:"owner_id" gorm:"size:64;index"`
	Stage               SubmissionStage      `json:"stage" gorm:"size:16"`
	Form                SubmissionForm       `json:"form" gorm:"serializer:json"`
	PaymentMethod       string               `json:"payment_method,omitempty" gorm:"size:32"`
	PaymentInstructions *PaymentInstructions `json:"payment_instructions,omitempty" gorm:"serializer:json"`
	PaymentReference    string               `json:"payment_reference,omitempty"`
	ListingID           string               `json:"listing_id,omitempty" gorm:"size:64"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}
