package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type noopObserver struct{}

func (noopObserver) ObserveTransition(string, error) {}

// Service runs the submission workflow for persisted drafts.
type Service struct {
	drafts   DraftStore
	listings ListingAppender
	gateway  PaymentGateway
	observer TransitionObserver
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	drafts DraftStore,
	listings ListingAppender,
	gateway PaymentGateway,
	observer TransitionObserver,
	log *zap.Logger,
) *Service {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Service{
		drafts:   drafts,
		listings: listings,
		gateway:  gateway,
		observer: observer,
		log:      log,
		now:      time.Now,
	}
}

// Create starts a new draft in the form stage. A nil form starts from the defaults.
func (s *Service) Create(ctx context.Context, caller domain.Identity, form *domain.SubmissionForm) (*domain.SubmissionDraft, error) {
	f := domain.DefaultSubmissionForm()
	if form != nil {
		f = *form
	}

	now := s.now().UTC()
	d := &domain.SubmissionDraft{
		ID:        "draft-" + uuid.NewString(),
		OwnerID:   caller.ID,
		Stage:     domain.StageForm,
		Form:      f,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drafts.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, caller domain.Identity) ([]domain.SubmissionDraft, error) {
	ds, err := s.drafts.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		ds = []domain.SubmissionDraft{}
	}
	return ds, nil
}

func (s *Service) Get(ctx context.Context, caller domain.Identity, id string) (*domain.SubmissionDraft, error) {
	return s.load(ctx, caller, id)
}

// UpdateForm replaces the form values. Only allowed while the draft is in the form stage.
func (s *Service) UpdateForm(ctx context.Context, caller domain.Identity, id string, form domain.SubmissionForm) (*domain.SubmissionDraft, error) {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if d.Stage != domain.StageForm {
		return nil, ErrInvalidTransition
	}

	d.Form = form
	return d, s.save(ctx, d)
}

// Submit validates the form, moves the draft to payment and asks the gateway for payment instructions.
func (s *Service) Submit(ctx context.Context, caller domain.Identity, id string) (*domain.SubmissionDraft, error) {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	err = Submit(d)
	s.observer.ObserveTransition("submit", err)
	if err != nil {
		return nil, err
	}

	ins, err := s.gateway.Begin(ctx, d)
	if err != nil {
		s.log.Error("payment begin failed", zap.String("draft_id", d.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	d.PaymentMethod = s.gateway.Name()
	d.PaymentInstructions = ins

	if err := s.save(ctx, d); err != nil {
		// the provider may already hold an order that no draft points at
		s.log.Error("draft save after payment begin failed",
			zap.String("draft_id", d.ID),
			zap.String("payment_method", d.PaymentMethod),
			zap.String("order_id", orderID(ins)),
			zap.Error(err),
		)
		return nil, err
	}
	return d, nil
}

func orderID(ins *domain.PaymentInstructions) string {
	if ins == nil {
		return ""
	}
	return ins.OrderID
}

// ConfirmPayment moves the draft to confirmation once the host says the fee is paid.
func (s *Service) ConfirmPayment(ctx context.Context, caller domain.Identity, id string) (*domain.SubmissionDraft, error) {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	err = ConfirmPayment(d)
	s.observer.ObserveTransition("confirm_payment", err)
	if err != nil {
		return nil, err
	}
	return d, s.save(ctx, d)
}

func (s *Service) Back(ctx context.Context, caller domain.Identity, id string) (*domain.SubmissionDraft, error) {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	err = Back(d)
	s.observer.ObserveTransition("back", err)
	if err != nil {
		return nil, err
	}
	return d, s.save(ctx, d)
}

// Commit checks the reference, has the gateway verify it, and appends the new pending
// listing to the store. The draft is claimed as committed before the append, so a
// retried or concurrent commit cannot append a second listing. On any failure the
// draft is left in confirmation.
func (s *Service) Commit(ctx context.Context, caller domain.Identity, id, reference string) (*domain.Listing, *domain.SubmissionDraft, error) {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}

	l, err := s.commit(ctx, caller, d, reference)
	s.observer.ObserveTransition("commit", err)
	if err != nil {
		return nil, nil, err
	}

	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.MarkCommitted(ctx, d); err != nil {
		if errors.Is(err, repository.ErrStageMismatch) {
			return nil, nil, ErrInvalidTransition
		}
		return nil, nil, err
	}

	if err := s.listings.Append(ctx, l); err != nil {
		s.release(ctx, d)
		return nil, nil, err
	}
	s.log.Info("submission committed",
		zap.String("draft_id", d.ID),
		zap.String("listing_id", l.ID),
		zap.String("owner_id", l.OwnerID),
		zap.String("payment_method", d.PaymentMethod),
	)
	return l, d, nil
}

// release returns a claimed draft to confirmation after a failed append.
func (s *Service) release(ctx context.Context, d *domain.SubmissionDraft) {
	d.Stage = domain.StageConfirmation
	d.ListingID = ""
	d.PaymentReference = ""
	if err := s.save(ctx, d); err != nil {
		s.log.Error("draft release after failed append",
			zap.String("draft_id", d.ID),
			zap.Error(err),
		)
	}
}

func (s *Service) commit(ctx context.Context, caller domain.Identity, d *domain.SubmissionDraft, reference string) (*domain.Listing, error) {
	if d.Stage != domain.StageConfirmation {
		return nil, ErrInvalidTransition
	}
	ref, err := ValidateReference(reference)
	if err != nil {
		return nil, err
	}

	ok, err := s.gateway.Verify(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	if !ok {
		return nil, ErrPaymentNotVerified
	}

	return Commit(d, ref, caller, s.now())
}

// Discard deletes a draft that has not been committed.
func (s *Service) Discard(ctx context.Context, caller domain.Identity, id string) error {
	d, err := s.load(ctx, caller, id)
	if err != nil {
		return err
	}
	if d.Stage == domain.StageCommitted {
		return ErrInvalidTransition
	}
	return s.drafts.Delete(ctx, d.ID)
}

func (s *Service) load(ctx context.Context, caller domain.Identity, id string) (*domain.SubmissionDraft, error) {
	d, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.OwnerID != caller.ID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *Service) save(ctx context.Context, d *domain.SubmissionDraft) error {
	d.UpdatedAt = s.now().UTC()
	return s.drafts.Save(ctx, d)
}
