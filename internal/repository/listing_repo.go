package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/pkg/events"

	"gorm.io/gorm"
)

// ErrStatusMismatch is returned by SetStatus when the listing is not in the expected status.
var ErrStatusMismatch = errors.New("listing status changed")

// ListingRepository is the listing store. Every successful mutation is published
// to the broadcaster after it is written.
type ListingRepository struct {
	db     *gorm.DB
	events *events.Broadcaster
	now    func() time.Time
}

func NewListingRepository(db *gorm.DB, b *events.Broadcaster) *ListingRepository {
	if b == nil {
		b = events.NewBroadcaster()
	}
	return &ListingRepository{db: db, events: b, now: time.Now}
}

// Subscribe registers an observer for store mutations.
func (r *ListingRepository) Subscribe(fn events.Observer) func() {
	return r.events.Subscribe(fn)
}

func (r *ListingRepository) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
}

// GetAll returns every listing in insertion order.
func (r *ListingRepository) GetAll(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := r.ordered(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return out, nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := r.ordered(ctx).Where("owner_id = ?", ownerID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list listings by owner: %w", err)
	}
	return out, nil
}

func (r *ListingRepository) ListByStatus(ctx context.Context, status domain.ListingStatus) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := r.ordered(ctx).Where("status = ?", status).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list listings by status: %w", err)
	}
	return out, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// CountByStatus returns the number of listings per status.
func (r *ListingRepository) CountByStatus(ctx context.Context) (map[domain.ListingStatus]int64, error) {
	var rows []struct {
		Status domain.ListingStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	out := map[domain.ListingStatus]int64{
		domain.ListingPending:  0,
		domain.ListingApproved: 0,
		domain.ListingRejected: 0,
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *ListingRepository) Append(ctx context.Context, l *domain.Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("append listing: %w", err)
	}

	r.events.Publish(domain.ListingEvent{Type: domain.ListingAppended, Listing: *l, At: r.now().UTC()})
	return nil
}

// Remove deletes the listing and returns the record as it was.
func (r *ListingRepository) Remove(ctx context.Context, id string) (*domain.Listing, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Listing{})
	if tx.Error != nil {
		return nil, fmt.Errorf("remove listing: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	r.events.Publish(domain.ListingEvent{Type: domain.ListingRemoved, Listing: *existing, At: r.now().UTC()})
	return existing, nil
}

// SetStatus moves a listing from one status to another. The update is conditional on
// the current status so two concurrent reviews cannot both apply.
func (r *ListingRepository) SetStatus(ctx context.Context, id string, from, to domain.ListingStatus) (*domain.Listing, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return nil, fmt.Errorf("set listing status: %w", tx.Error)
	}

	if tx.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusMismatch
	}

	l, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.events.Publish(domain.ListingEvent{Type: domain.ListingStatusChanged, Listing: *l, PrevStatus: from, At: r.now().UTC()})
	return l, nil
}
