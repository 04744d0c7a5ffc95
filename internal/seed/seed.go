package seed

import (
	"context"
	"fmt"
	"time"

	"harvesthaven/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.UserRole
}

// Users are the demo accounts of the storefront, plus one console administrator.
var Users = []User{
	{ID: "user-1", Name: "John Doe", Email: "john@example.com", Password: "password123", Phone: "919876543210", Role: domain.RoleUser},
	{ID: "user-2", Name: "Jane Smith", Email: "jane@example.com", Password: "password456", Phone: "919876543211", Role: domain.RoleUser},
	{ID: "admin-1", Name: "Site Admin", Email: "admin@harvesthaven.in", Password: "admin12345", Role: domain.RoleAdmin},
}

// Epoch is the creation time of the first seeded listing; the rest follow one minute apart.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Listings returns the six storefront listings in catalogue order. prop-6 awaits review.
func Listings() []domain.Listing {
	ls := []domain.Listing{
		{
			ID:            "prop-1",
			Name:          "The Golden Fields Farmstead",
			Type:          domain.PropertyFarmhouse,
			Location:      "Nashik, Maharashtra",
			PricePerNight: 4500,
			Bedrooms:      4,
			SquareFeet:    3200,
			Rating:        4.9,
			Description:   "A luxurious farmhouse surrounded by vineyards. Perfect for a wine country getaway. Features a gourmet kitchen, a large outdoor patio with a fire pit, and stunning views of the rolling hills.",
			Amenities:     []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenityKitchen, domain.AmenityParking, domain.AmenityFireplace},
			Images:        []string{"farmhouse-1-ext", "farmhouse-1-int"},
			OwnerID:       "user-1",
			Status:        domain.ListingApproved,
		},
		{
			ID:            "prop-2",
			Name:          "Ocean Breeze Resort",
			Type:          domain.PropertyResort,
			Location:      "Goa, India",
			PricePerNight: 7000,
			Bedrooms:      2,
			SquareFeet:    1200,
			Rating:        4.8,
			Description:   "An exclusive resort with direct beach access. Enjoy world-class amenities including a spa, infinity pool, and multiple fine dining restaurants. Your tropical paradise awaits.",
			Amenities:     []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenityGym, domain.AmenitySpa},
			Images:        []string{"resort-1-pool", "resort-1-room"},
			OwnerID:       "user-2",
			Status:        domain.ListingApproved,
		},
		{
			ID:            "prop-3",
			Name:          "Rustic Charm Cabin",
			Type:          domain.PropertyFarmhouse,
			Location:      "Manali, Himachal Pradesh",
			PricePerNight: 2800,
			Bedrooms:      2,
			SquareFeet:    1500,
			Rating:        4.7,
			Description:   "A cozy cabin nestled in the Blue Ridge Mountains. Ideal for hiking enthusiasts and those seeking a quiet retreat. Features a wood-burning stove and a screened-in porch.",
			Amenities:     []domain.Amenity{domain.AmenityKitchen, domain.AmenityFireplace, domain.AmenityWifi, domain.AmenityParking},
			Images:        []string{"cabin-1-exterior", "farmhouse-3-bedroom"},
			OwnerID:       "user-1",
			Status:        domain.ListingApproved,
		},
		{
			ID:            "prop-4",
			Name:          "The Vintage Villa",
			Type:          domain.PropertyResort,
			Location:      "Udaipur, Rajasthan",
			PricePerNight: 6200,
			Bedrooms:      5,
			SquareFeet:    4500,
			Rating:        4.9,
			Description:   "Live the Indian dream in this beautifully restored 18th-century villa. Set amidst olive groves and vineyards, it offers a private pool, classic Italian gardens, and breathtaking views.",
			Amenities:     []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenityKitchen, domain.AmenityParking, domain.AmenityFireplace},
			Images:        []string{"villa-1-exterior", "farmhouse-2-kitchen"},
			OwnerID:       "user-2",
			Status:        domain.ListingApproved,
		},
		{
			ID:            "prop-5",
			Name:          "Green Valley Homestead",
			Type:          domain.PropertyFarmhouse,
			Location:      "Coonoor, Tamil Nadu",
			PricePerNight: 3500,
			Bedrooms:      3,
			SquareFeet:    2400,
			Rating:        4.6,
			Description:   "A classic South Indian farmhouse on a working organic farm. Participate in farm activities, enjoy fresh produce, and relax by the pond. A truly authentic farm-to-table experience.",
			Amenities:     []domain.Amenity{domain.AmenityKitchen, domain.AmenityWifi, domain.AmenityParking},
			Images:        []string{"farmhouse-2-kitchen", "farmhouse-3-bedroom"},
			OwnerID:       "user-1",
			Status:        domain.ListingApproved,
		},
		{
			ID:            "prop-6",
			Name:          "Coastal Serenity Spa & Resort",
			Type:          domain.PropertyResort,
			Location:      "Varkala, Kerala",
			PricePerNight: 9500,
			Bedrooms:      1,
			SquareFeet:    800,
			Rating:        5.0,
			Description:   "A cliffside resort offering unparalleled views of the Arabian Sea. Focus on wellness and relaxation with our award-winning spa, yoga classes, and gourmet organic restaurant.",
			Amenities:     []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenityGym, domain.AmenitySpa},
			Images:        []string{"resort-2-spa", "resort-3-lobby"},
			OwnerID:       "user-2",
			Status:        domain.ListingPending,
		},
	}
	for i := range ls {
		ls[i].CreatedAt = Epoch.Add(time.Duration(i) * time.Minute)
	}
	return ls
}

// ListingAppender is satisfied by the listing repository.
type ListingAppender interface {
	Append(ctx context.Context, l *domain.Listing) error
}

// Run inserts the seed users and listings that are not present yet.
// Listings go through the store so subscribers observe them.
func Run(ctx context.Context, db *gorm.DB, store ListingAppender, log *zap.Logger) error {
	for _, su := range Users {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", su.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("check seed user %s: %w", su.ID, err)
		}
		if n > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		u := domain.User{
			ID:           su.ID,
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Phone:        su.Phone,
			Role:         su.Role,
			CreatedAt:    Epoch,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return fmt.Errorf("create seed user %s: %w", su.ID, err)
		}
		log.Info("seeded user", zap.String("id", u.ID), zap.String("email", u.Email))
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&domain.Listing{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if existing > 0 {
		log.Info("listing store not empty, skipping listing seed", zap.Int64("count", existing))
		return nil
	}

	for _, l := range Listings() {
		l := l
		if err := store.Append(ctx, &l); err != nil {
			return fmt.Errorf("seed listing %s: %w", l.ID, err)
		}
	}
	log.Info("seeded listings", zap.Int("count", len(Listings())))
	return nil
}
