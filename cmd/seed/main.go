package main

import (
	"context"
	"flag"
	"log"

	"harvesthaven/internal/config"
	"harvesthaven/internal/database"
	"harvesthaven/internal/domain"
	"harvesthaven/internal/pkg/events"
	"harvesthaven/internal/pkg/logger"
	"harvesthaven/internal/repository"
	"harvesthaven/internal/seed"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	reset := flag.Bool("reset", false, "delete drafts, listings and users before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(logger.Config{Level: cfg.LogLevel, Environment: cfg.AppEnv, ServiceName: "harvesthaven-seed"})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync(lg)

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("database connect failed", zap.Error(err))
	}
	lg.Info("running AutoMigrate")
	if err := database.Migrate(db); err != nil {
		lg.Fatal("AutoMigrate failed", zap.Error(err))
	}

	if *reset {
		if cfg.IsProduction() {
			lg.Fatal("refusing to reset a production database")
		}
		lg.Warn("cleaning old data")
		for _, model := range []any{&domain.SubmissionDraft{}, &domain.Listing{}, &domain.User{}} {
			if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				lg.Fatal("cleanup failed", zap.Error(err))
			}
		}
	}

	b := events.NewBroadcaster()
	b.Subscribe(func(ev domain.ListingEvent) {
		lg.Info("seeded listing", zap.String("id", ev.Listing.ID), zap.String("status", string(ev.Listing.Status)))
	})
	store := repository.NewListingRepository(db, b)

	if err := seed.Run(context.Background(), db, store, lg); err != nil {
		lg.Fatal("seed failed", zap.Error(err))
	}
	lg.Info("seed complete")
}
