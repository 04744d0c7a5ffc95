package submission

import (
	"context"

	"harvesthaven/internal/domain"
)

// DraftStore persists in-progress submissions.
type DraftStore interface {
	Create(ctx context.Context, d *domain.SubmissionDraft) error
	GetByID(ctx context.Context, id string) (*domain.SubmissionDraft, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SubmissionDraft, error)
	Save(ctx context.Context, d *domain.SubmissionDraft) error
	// MarkCommitted conditionally moves the draft from confirmation to committed.
	MarkCommitted(ctx context.Context, d *domain.SubmissionDraft) error
	Delete(ctx context.Context, id string) error
}

// ListingAppender is the single write the workflow performs on the listing store
type ListingAppender interface {
	Append(ctx context.Context, l *domain.Listing) error
}

// PaymentGateway is implemented by payment.UPIGateway and payment.CheckoutGateway.
type PaymentGateway interface {
	Name() string
	Begin(ctx context.Context, draft *domain.SubmissionDraft) (*domain.PaymentInstructions, error)
	Verify(ctx context.Context, reference string) (bool, error)
}

// TransitionObserver receives every transition attempt and its outcome.
type TransitionObserver interface {
	ObserveTransition(transition string, err error)
}
