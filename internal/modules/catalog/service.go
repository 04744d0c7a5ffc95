package catalog

import (
	"context"
	"errors"

	"harvesthaven/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	store  ListingStore
	owners OwnerDirectory
	log    *zap.Logger
}

func NewService(store ListingStore, owners OwnerDirectory, log *zap.Logger) *Service {
	return &Service{store: store, owners: owners, log: log}
}

// Search runs the public filter over the current store contents.
func (s *Service) Search(ctx context.Context, c Criteria) ([]domain.Listing, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterListings(all, c), nil
}

// GetPublic returns an approved listing with its owner's display name.
// Listings in any other status are reported as not found.
func (s *Service) GetPublic(ctx context.Context, id string) (*PropertyDetail, error) {
	l, err := s.approved(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &PropertyDetail{Listing: *l, ShowRating: l.HasRating()}
	names, err := s.owners.NamesByID(ctx, []string{l.OwnerID})
	if err != nil {
		s.log.Warn("owner name lookup failed", zap.String("listing_id", id), zap.Error(err))
	} else {
		detail.OwnerName = names[l.OwnerID]
	}
	return detail, nil
}

// GetContact returns the directions link for an approved listing and, when the owner
// has a phone on file, a WhatsApp link to them.
func (s *Service) GetContact(ctx context.Context, id string) (*ContactInfo, error) {
	l, err := s.approved(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &ContactInfo{PropertyID: l.ID, DirectionsURL: directionsURL(l.Location)}
	owner, err := s.owners.GetByID(ctx, l.OwnerID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		info.OwnerName = owner.Name
		info.OwnerPhone = owner.Phone
		info.ContactURL = whatsappURL(owner.Phone)
	}
	return info, nil
}

func (s *Service) approved(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.Status != domain.ListingApproved {
		return nil, ErrNotFound
	}
	return l, nil
}

// ListOwned returns the caller's listings in every status, optionally narrowed by criteria.
func (s *Service) ListOwned(ctx context.Context, ownerID string, c *Criteria) ([]domain.Listing, error) {
	ls, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		if ls == nil {
			ls = []domain.Listing{}
		}
		return ls, nil
	}
	return MatchAll(ls, *c), nil
}

// DeleteOwned removes a listing owned by the caller. Admins may remove any listing.
func (s *Service) DeleteOwned(ctx context.Context, caller domain.Identity, id string) error {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if l.OwnerID != caller.ID && !caller.IsAdmin() {
		return ErrForbidden
	}

	if _, err := s.store.Remove(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.Info("listing removed by owner", zap.String("listing_id", id), zap.String("user_id", caller.ID))
	return nil
}
