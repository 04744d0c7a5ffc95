package admin

import (
	"context"

	"harvesthaven/internal/domain"
)

type ListingRepository interface {
	GetAll(ctx context.Context) ([]domain.Listing, error)
	ListByStatus(ctx context.Context, status domain.ListingStatus) ([]domain.Listing, error)
	CountByStatus(ctx context.Context) (map[domain.ListingStatus]int64, error)
	SetStatus(ctx context.Context, id string, from, to domain.ListingStatus) (*domain.Listing, error)
	Remove(ctx context.Context, id string) (*domain.Listing, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}
