package catalog

import (
	"context"

	"harvesthaven/internal/domain"
)

// ListingStore is the set of listing store methods the catalog reads and deletes through
type ListingStore interface {
	GetAll(ctx context.Context) ([]domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
	Remove(ctx context.Context, id string) (*domain.Listing, error)
}

// OwnerDirectory resolves owner names and contact details for listing pages
type OwnerDirectory interface {
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
