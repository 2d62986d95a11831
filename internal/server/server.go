package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) *Server {
	router := chi.NewRouter()

	isDev := cfg.Server.Env != "production"

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, isDev))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health())
	})

	// One generic resource stack instantiated per table
	categoryHandler := transport.NewResourceHandler[transport.CategoryRequest, domain.Category](
		repository.NewCategoryRepository(db.DB()), transport.CategoryConfig, logger)
	productHandler := transport.NewResourceHandler[transport.ProductRequest, domain.Product](
		repository.NewProductRepository(db.DB()), transport.ProductConfig, logger)
	inventoryHandler := transport.NewResourceHandler[transport.InventoryRequest, domain.Inventory](
		repository.NewInventoryRepository(db.DB()), transport.InventoryConfig, logger)

	categoryHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)

	// Auth stack
	userRepo := repository.NewUserRepository(db.DB())
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute)
	authHandler := transport.NewAuthHandler(authService, logger)
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// The auth endpoints get a redis-backed rate limit when configured; the
	// resource endpoints stay unthrottled.
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		limiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "auth_rate_limit",
		}, logger)

		router.Group(func(r chi.Router) {
			r.Use(limiter)
			authHandler.RegisterRoutes(r, authMiddleware)
		})
	} else {
		authHandler.RegisterRoutes(router, authMiddleware)
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
