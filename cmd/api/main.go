package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"harvesthaven/internal/config"
	"harvesthaven/internal/database"
	"harvesthaven/internal/pkg/logger"
	"harvesthaven/internal/seed"
	"harvesthaven/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "harvesthaven-api",
		File:        cfg.LogFile,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync(lg)

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}

	srv, err := server.New(cfg, db, lg, nil)
	if err != nil {
		lg.Fatal("server setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, db, srv.Listings, lg); err != nil {
			lg.Fatal("seed failed", zap.Error(err))
		}
	}

	srv.Start()

	select {
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	case err := <-srv.Notify():
		if err != nil {
			lg.Error("http server stopped", zap.Error(err))
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	lg.Info("server exited")
}
