package admin

import (
	"context"
	"errors"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	listings ListingRepository
	users    UserRepository
	log      *zap.Logger
}

func NewService(listings ListingRepository, users UserRepository, log *zap.Logger) *Service {
	return &Service{listings: listings, users: users, log: log}
}

// -------------------- Listings --------------------

// ListListings returns every listing, or only those in status when it is set.
func (s *Service) ListListings(ctx context.Context, status string) ([]domain.Listing, error) {
	var (
		out []domain.Listing
		err error
	)
	switch domain.ListingStatus(status) {
	case "":
		out, err = s.listings.GetAll(ctx)
	case domain.ListingPending, domain.ListingApproved, domain.ListingRejected:
		out, err = s.listings.ListByStatus(ctx, domain.ListingStatus(status))
	default:
		return nil, ErrInvalidStatus
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, admin domain.Identity, id string) (*domain.Listing, error) {
	l, err := s.review(ctx, id, domain.ListingApproved)
	if err != nil {
		return nil, err
	}
	s.log.Info("listing approved", zap.String("listing_id", id), zap.String("admin_id", admin.ID))
	return l, nil
}

// Reject moves a pending listing to rejected. The reason is only recorded in the log.
func (s *Service) Reject(ctx context.Context, admin domain.Identity, id, reason string) (*domain.Listing, error) {
	l, err := s.review(ctx, id, domain.ListingRejected)
	if err != nil {
		return nil, err
	}
	s.log.Info("listing rejected",
		zap.String("listing_id", id),
		zap.String("admin_id", admin.ID),
		zap.String("reason", reason),
	)
	return l, nil
}

func (s *Service) review(ctx context.Context, id string, to domain.ListingStatus) (*domain.Listing, error) {
	l, err := s.listings.SetStatus(ctx, id, domain.ListingPending, to)
	switch {
	case err == nil:
		return l, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrStatusMismatch):
		return nil, ErrNotPending
	default:
		return nil, err
	}
}

func (s *Service) Delete(ctx context.Context, admin domain.Identity, id string) (*domain.Listing, error) {
	l, err := s.listings.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Info("listing deleted by admin", zap.String("listing_id", id), zap.String("admin_id", admin.ID))
	return l, nil
}

// -------------------- Users --------------------

func (s *Service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role})
	}
	return out, nil
}

// -------------------- Statistics --------------------

func (s *Service) GetStats(ctx context.Context) (*StatisticsResponse, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.listings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StatisticsResponse{
		TotalUsers:         users,
		PendingProperties:  byStatus[domain.ListingPending],
		ApprovedProperties: byStatus[domain.ListingApproved],
		RejectedProperties: byStatus[domain.ListingRejected],
	}
	resp.TotalProperties = resp.PendingProperties + resp.ApprovedProperties + resp.RejectedProperties
	return resp, nil
}
