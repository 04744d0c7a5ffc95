package repository

import (
	"context"
	"errors"
	"fmt"

	"harvesthaven/internal/domain"

	"gorm.io/gorm"
)

// ErrStageMismatch is returned by MarkCommitted when the draft has left the confirmation stage.
var ErrStageMismatch = errors.New("draft stage changed")

type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, d *domain.SubmissionDraft) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) GetByID(ctx context.Context, id string) (*domain.SubmissionDraft, error) {
	var d domain.SubmissionDraft
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.SubmissionDraft, error) {
	var out []domain.SubmissionDraft
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return out, nil
}

// Save writes every column of the draft, including zero values.
func (r *DraftRepository) Save(ctx context.Context, d *domain.SubmissionDraft) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// MarkCommitted moves a draft from confirmation to committed, recording its listing and
// payment reference. Only one caller can win for a given draft.
func (r *DraftRepository) MarkCommitted(ctx context.Context, d *domain.SubmissionDraft) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.SubmissionDraft{}).
		Where("id = ? AND stage = ?", d.ID, domain.StageConfirmation).
		Updates(map[string]interface{}{
			"stage":             domain.StageCommitted,
			"listing_id":        d.ListingID,
			"payment_reference": d.PaymentReference,
			"updated_at":        d.UpdatedAt,
		})
	if tx.Error != nil {
		return fmt.Errorf("mark draft committed: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return err
		}
		return ErrStageMismatch
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SubmissionDraft{})
	if tx.Error != nil {
		return fmt.Errorf("delete draft: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
