package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/hearth/internal/config"
	"github.com/stwalsh4118/hearth/internal/database"
	"github.com/stwalsh4118/hearth/internal/handlers"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/metrics"
	"github.com/stwalsh4118/hearth/internal/middleware"
	"github.com/stwalsh4118/hearth/internal/repository"
	"github.com/stwalsh4118/hearth/internal/services"
	"github.com/stwalsh4118/hearth/internal/translator"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting Hearth API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply database schema", err, nil)
	}

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	metrics.Register()

	nlTranslator := translator.New(translator.Config{
		APIKey:  cfg.Translator.APIKey,
		BaseURL: cfg.Translator.BaseURL,
		Model:   cfg.Translator.Model,
		Timeout: cfg.Translator.Timeout,
		Logger:  log,
	})
	if !nlTranslator.Available() {
		log.Warn("Translator not configured, natural language search will use filter fallback", nil)
	}

	listingRepo := repository.NewListingRepository(db, cfg.Database.StatementTimeout)
	catalogRepo := repository.NewCatalogRepository(db)

	listingService := services.NewListingService(listingRepo, log)
	catalogService := services.NewCatalogService(catalogRepo, log)
	nlSearchService := services.NewNLSearchService(nlTranslator, listingRepo, listingService, log)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(metrics.Middleware())

	healthHandler := handlers.NewHealthHandler(db, nlSearchService, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", metrics.Handler())

	listingHandler := handlers.NewListingHandler(listingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	nlSearchHandler := handlers.NewNLSearchHandler(nlSearchService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)

		listings := v1.Group("/listings")
		{
			listings.GET("", listingHandler.List)
			listings.POST("/search", listingHandler.Search)
			listings.GET("/:id", listingHandler.Get)
		}

		v1.GET("/provinces", catalogHandler.Provinces)
		v1.GET("/provinces/:code/cities", catalogHandler.Cities)
		v1.GET("/property-types", catalogHandler.PropertyTypes)
		v1.GET("/listing-types", catalogHandler.ListingTypes)
		v1.GET("/features", catalogHandler.Features)

		nl := v1.Group("/nl-search")
		{
			nl.GET("", nlSearchHandler.SearchGet)
			nl.POST("", nlSearchHandler.SearchPost)
			nl.GET("/suggestions", nlSearchHandler.Suggestions)
			nl.GET("/status", nlSearchHandler.Status)
			nl.POST("/translate", nlSearchHandler.Translate)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
