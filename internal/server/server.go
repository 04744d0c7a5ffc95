package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"harvesthaven/internal/config"
	"harvesthaven/internal/domain"
	"harvesthaven/internal/middleware"
	"harvesthaven/internal/modules/admin"
	"harvesthaven/internal/modules/auth"
	"harvesthaven/internal/modules/catalog"
	"harvesthaven/internal/modules/feed"
	"harvesthaven/internal/modules/payment"
	"harvesthaven/internal/modules/submission"
	"harvesthaven/internal/pkg/events"
	jwtsvc "harvesthaven/internal/pkg/jwt"
	"harvesthaven/internal/pkg/logger"
	"harvesthaven/internal/pkg/metrics"
	"harvesthaven/internal/pkg/response"
	"harvesthaven/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

// Server owns the HTTP router and everything subscribed to the listing store.
type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	log    *zap.Logger
	engine *gin.Engine

	Listings *repository.ListingRepository
	Metrics  *metrics.Metrics
	hub      *feed.Hub
	unsub    []func()

	httpServer *http.Server
	notify     chan error
}

// New wires repositories, services and handlers. The gateway is picked from cfg.Payment
// unless one is passed in.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, gateway payment.Gateway) (*Server, error) {
	if gateway == nil {
		g, err := payment.New(cfg.Payment, log)
		if err != nil {
			return nil, err
		}
		gateway = g
	}

	s := &Server{cfg: cfg, db: db, log: log, Metrics: metrics.New()}

	broadcaster := events.NewBroadcaster()
	s.Listings = repository.NewListingRepository(db, broadcaster)
	userRepo := repository.NewUserRepository(db)
	draftRepo := repository.NewDraftRepository(db)

	s.hub = feed.NewHub(s.Metrics.FeedConnections, log)
	s.unsub = append(s.unsub,
		s.Listings.Subscribe(s.Metrics.ObserveListingEvent),
		s.Listings.Subscribe(logListingEvent(log)),
		s.Listings.Subscribe(s.hub.Publish),
	)

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwt, log))
	catalogHandler := catalog.NewHandler(catalog.NewService(s.Listings, userRepo, log))
	submissionHandler := submission.NewHandler(
		submission.NewService(draftRepo, s.Listings, gateway, s.Metrics, log),
	)
	adminHandler := admin.NewHandler(admin.NewService(s.Listings, userRepo, log))
	feedHandler := feed.NewHandler(s.hub, jwt, cfg.CORSAllowedOrigins, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		logger.Middleware(log),
		middleware.ErrorLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		s.Metrics.Middleware(),
	)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		feedHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwt))

		catalogHandler.RegisterRoutes(v1, protected)
		authHandler.RegisterProtectedRoutes(protected)
		submissionHandler.RegisterRoutes(protected)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)
	}

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	response.Success(c, code, gin.H{
		"status":       status,
		"feed_clients": s.hub.GetOnlineCount(),
	})
}

// Start begins serving in the background. Errors arrive on Notify.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.notify = make(chan error, 1)

	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.notify <- err
		close(s.notify)
	}()
	s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
}

func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops accepting requests, closes feed connections and detaches store observers.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	for _, u := range s.unsub {
		u()
	}
	s.hub.Close()

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func logListingEvent(log *zap.Logger) events.Observer {
	return func(ev domain.ListingEvent) {
		fields := []zap.Field{
			zap.String("event", string(ev.Type)),
			zap.String("listing_id", ev.Listing.ID),
			zap.String("owner_id", ev.Listing.OwnerID),
			zap.String("status", string(ev.Listing.Status)),
		}
		if ev.PrevStatus != "" {
			fields = append(fields, zap.String("prev_status", string(ev.PrevStatus)))
		}
		log.Info("listing store changed", fields...)
	}
}
