package seed

import (
	"context"
	"testing"

	"harvesthaven/internal/database"
	"harvesthaven/internal/domain"
	"harvesthaven/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestListings_Shape(t *testing.T) {
	ls := Listings()
	require.Len(t, ls, 6)

	approved := 0
	for i, l := range ls {
		assert.GreaterOrEqual(t, len(l.Description), 50, l.ID)
		for _, a := range l.Amenities {
			assert.True(t, domain.IsKnownAmenity(string(a)), "%s has unknown amenity %s", l.ID, a)
		}
		if i > 0 {
			assert.True(t, l.CreatedAt.After(ls[i-1].CreatedAt))
		}
		if l.Status == domain.ListingApproved {
			approved++
		}
	}
	assert.Equal(t, 5, approved)
	assert.Equal(t, domain.ListingPending, ls[5].Status)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect("file:seed_run?mode=memory&cache=shared", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := repository.NewListingRepository(db, nil)
	appended := 0
	store.Subscribe(func(domain.ListingEvent) { appended++ })

	require.NoError(t, Run(ctx, db, store, zap.NewNop()))
	require.NoError(t, Run(ctx, db, store, zap.NewNop()))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, 6, appended)
	for i, l := range all {
		assert.Equal(t, Listings()[i].ID, l.ID)
	}

	users := repository.NewUserRepository(db)
	john, err := users.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(john.PasswordHash), []byte("password123")))

	admin, err := users.GetByID(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}
