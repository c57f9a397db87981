package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rto-ops-api/internal/cache"
	"rto-ops-api/internal/config"
	"rto-ops-api/internal/handler"
	"rto-ops-api/internal/middleware"
	"rto-ops-api/internal/repository"
	"rto-ops-api/internal/router"
	"rto-ops-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting RTO Ops API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the SQL store based on config
	var store *repository.Store
	var err error
	switch cfg.Store.Type {
	case "mysql":
		store, err = repository.NewMySQLStore(cfg.Store.DSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
	default: // sqlite
		store, err = repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
	}
	defer store.Close()

	// Initialize the cache; Redis when configured, memory otherwise
	var appCache cache.Cache
	var redisCache *cache.RedisCache
	if cfg.Cache.Type == "redis" {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		}
	}
	if redisCache != nil {
		appCache = redisCache
		defer redisCache.Close()
	} else {
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		appCache = memCache
	}

	// Session tokens need Redis; without it the API-key path still works
	var tokenService *service.TokenService
	if redisCache != nil {
		tokenService = service.NewTokenService(redisCache.Client())
	} else {
		log.Println("Warning: no Redis, operator session login disabled")
	}

	// Initialize services
	reconcileService := service.NewReconcileService(store)
	dashboardService := service.NewDashboardService(store, appCache)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(store)
	ingestHandler := handler.NewIngestHandler(store, cfg.Ingest.BatchSize, cfg.Ingest.MaxUploadBytes)
	submissionHandler := handler.NewSubmissionHandler(store, dashboardService)
	reconcileHandler := handler.NewReconcileHandler(reconcileService, dashboardService)
	catalogHandler := handler.NewCatalogHandler(store)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	authHandler := handler.NewAuthHandler(tokenService, cfg.Auth.OperatorMap())

	// Create auth middleware with injected dependencies
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		TokenService: tokenService,
		APIKeys:      cfg.Auth.APIKeys,
	})

	// Create router
	r := router.New(router.Config{
		HealthHandler:     healthHandler,
		AuthHandler:       authHandler,
		IngestHandler:     ingestHandler,
		SubmissionHandler: submissionHandler,
		ReconcileHandler:  reconcileHandler,
		CatalogHandler:    catalogHandler,
		DashboardHandler:  dashboardHandler,
		AuthMiddleware:    authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
