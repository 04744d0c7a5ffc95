package catalog

import (
	"context"
	"errors"
	"testing"

	"harvesthaven/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetAll(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *mockStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *mockStore) Remove(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

type mockOwners struct {
	mock.Mock
}

func (m *mockOwners) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockOwners) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestGetPublic(t *testing.T) {
	store, owners := new(mockStore), new(mockOwners)
	svc := NewService(store, owners, zap.NewNop())
	ctx := context.Background()

	store.On("GetByID", mock.Anything, "prop-1").Return(&domain.Listing{ID: "prop-1", OwnerID: "user-1", Status: domain.ListingApproved, Rating: 4.9}, nil)
	store.On("GetByID", mock.Anything, "prop-6").Return(&domain.Listing{ID: "prop-6", OwnerID: "user-2", Status: domain.ListingPending}, nil)
	store.On("GetByID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
	owners.On("NamesByID", mock.Anything, []string{"user-1"}).Return(map[string]string{"user-1": "John Doe"}, nil)

	d, err := svc.GetPublic(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", d.OwnerName)
	assert.True(t, d.ShowRating)

	_, err = svc.GetPublic(ctx, "prop-6")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetPublic(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublic_OwnerLookupFailureIsNotFatal(t *testing.T) {
	store, owners := new(mockStore), new(mockOwners)
	svc := NewService(store, owners, zap.NewNop())

	store.On("GetByID", mock.Anything, "prop-1").Return(&domain.Listing{ID: "prop-1", OwnerID: "user-1", Status: domain.ListingApproved}, nil)
	owners.On("NamesByID", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	d, err := svc.GetPublic(context.Background(), "prop-1")

	require.NoError(t, err)
	assert.Empty(t, d.OwnerName)
	assert.False(t, d.ShowRating)
}

func TestGetContact(t *testing.T) {
	store, owners := new(mockStore), new(mockOwners)
	svc := NewService(store, owners, zap.NewNop())
	ctx := context.Background()

	store.On("GetByID", mock.Anything, "prop-1").Return(&domain.Listing{ID: "prop-1", OwnerID: "user-1", Location: "Nashik, Maharashtra", Status: domain.ListingApproved}, nil)
	store.On("GetByID", mock.Anything, "prop-2").Return(&domain.Listing{ID: "prop-2", OwnerID: "user-9", Location: "Goa", Status: domain.ListingApproved}, nil)
	store.On("GetByID", mock.Anything, "prop-6").Return(&domain.Listing{ID: "prop-6", OwnerID: "user-2", Status: domain.ListingPending}, nil)
	owners.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1", Name: "John Doe", Phone: "+91 98765-43210"}, nil)
	owners.On("GetByID", mock.Anything, "user-9").Return(&domain.User{ID: "user-9", Name: "No Phone"}, nil)

	info, err := svc.GetContact(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", info.OwnerName)
	assert.Equal(t, "https://wa.me/919876543210", info.ContactURL)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Nashik%2C+Maharashtra", info.DirectionsURL)

	info, err = svc.GetContact(ctx, "prop-2")
	require.NoError(t, err)
	assert.Empty(t, info.ContactURL)
	assert.NotEmpty(t, info.DirectionsURL)

	_, err = svc.GetContact(ctx, "prop-6")
	assert.ErrorIs(t, err, ErrNotFound)
	owners.AssertNotCalled(t, "GetByID", mock.Anything, "user-2")
}

func TestListOwned(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, new(mockOwners), zap.NewNop())
	store.On("ListByOwner", mock.Anything, "user-1").Return([]domain.Listing{
		{ID: "prop-1", OwnerID: "user-1", Type: domain.PropertyFarmhouse, Status: domain.ListingApproved, PricePerNight: 4500, Bedrooms: 4, SquareFeet: 3200},
		{ID: "prop-7", OwnerID: "user-1", Type: domain.PropertyResort, Status: domain.ListingPending, PricePerNight: 3000, Bedrooms: 2, SquareFeet: 900},
	}, nil)
	store.On("ListByOwner", mock.Anything, "user-3").Return(nil, nil)

	all, err := svc.ListOwned(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	c := DefaultCriteria()
	c.Type = "resort"
	resorts, err := svc.ListOwned(context.Background(), "user-1", &c)
	require.NoError(t, err)
	require.Len(t, resorts, 1)
	assert.Equal(t, "prop-7", resorts[0].ID)

	none, err := svc.ListOwned(context.Background(), "user-3", nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
}

func TestDeleteOwned(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, new(mockOwners), zap.NewNop())
	ctx := context.Background()
	l := &domain.Listing{ID: "prop-1", OwnerID: "user-1", Status: domain.ListingApproved}

	store.On("GetByID", mock.Anything, "prop-1").Return(l, nil)
	store.On("GetByID", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)
	store.On("Remove", mock.Anything, "prop-1").Return(l, nil)

	err := svc.DeleteOwned(ctx, domain.Identity{ID: "user-2", Role: domain.RoleUser}, "prop-1")
	assert.ErrorIs(t, err, ErrForbidden)
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)

	err = svc.DeleteOwned(ctx, domain.Identity{ID: "user-2", Role: domain.RoleUser}, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteOwned(ctx, domain.Identity{ID: "user-1", Role: domain.RoleUser}, "prop-1"))
	require.NoError(t, svc.DeleteOwned(ctx, domain.Identity{ID: "admin-1", Role: domain.RoleAdmin}, "prop-1"))
	store.AssertNumberOfCalls(t, "Remove", 2)
}

func TestOwnerCriteriaFromQuery_KeepsCheapListings(t *testing.T) {
	q := map[string]string{"location": "goa"}
	c := OwnerCriteriaFromQuery(func(k string) string { return q[k] })

	cheap := domain.Listing{ID: "prop-7", Type: domain.PropertyFarmhouse, Location: "North Goa", PricePerNight: 100, Bedrooms: 1, SquareFeet: 120}
	assert.Equal(t, []domain.Listing{cheap}, MatchAll([]domain.Listing{cheap}, c))

	q["price_min"] = "500"
	c = OwnerCriteriaFromQuery(func(k string) string { return q[k] })
	assert.Empty(t, MatchAll([]domain.Listing{cheap}, c))
}

func TestCriteriaFromQuery(t *testing.T) {
	q := map[string]string{
		"location":  " Goa ",
		"type":      "Resort",
		"bedrooms":  "5+",
		"price_min": "2000",
		"price_max": "lots",
	}

	c := CriteriaFromQuery(func(k string) string { return q[k] })

	assert.Equal(t, "Goa", c.Location)
	assert.Equal(t, "resort", c.Type)
	assert.Equal(t, FivePlus, c.Bedrooms)
	assert.Equal(t, 2000, c.PriceMin)
	assert.Equal(t, DefaultCriteria().PriceMax, c.PriceMax)
	assert.Equal(t, DefaultCriteria().AreaMin, c.AreaMin)
}
