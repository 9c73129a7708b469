package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shelflife/backend/config"
	httpDelivery "github.com/shelflife/backend/internal/delivery/http"
	"github.com/shelflife/backend/internal/domain"
	"github.com/shelflife/backend/internal/infrastructure/cache"
	"github.com/shelflife/backend/internal/infrastructure/database"
	"github.com/shelflife/backend/internal/infrastructure/openfoodfacts"
	"github.com/shelflife/backend/internal/infrastructure/upcitemdb"
	"github.com/shelflife/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := newLogger(cfg.Log)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache":       cfg.Cache.Type,
		"database":    cfg.Database.Driver,
	}).Info("Starting Shelflife Backend v1.0.0")

	// Initialize infrastructure dependencies
	lookupCache, closeCache, err := newCache(cfg.Cache)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize cache")
	}
	defer closeCache.Close()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	upcClient := upcitemdb.NewClient(upcitemdb.ClientConfig{
		BaseURL:           cfg.UPCItemDB.BaseURL,
		UserAgent:         cfg.UPCItemDB.UserAgent,
		Timeout:           cfg.UPCItemDB.Timeout,
		RequestsPerMinute: cfg.UPCItemDB.RequestsPerMinute,
		Logger:            logger,
	})
	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerMinute: cfg.OpenFoodFacts.RequestsPerMinute,
		Logger:            logger,
	})

	// Initialize usecase layer
	upcLookup := usecase.NewLookupService(lookupCache, upcClient, upcitemdb.Normalize, usecase.LookupServiceConfig{
		Source:   domain.SourceUPCItemDB,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	offLookup := usecase.NewLookupService(lookupCache, offClient, openfoodfacts.Normalize, usecase.LookupServiceConfig{
		Source:   domain.SourceOpenFoodFacts,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	inventoryService := usecase.NewInventoryService(database.NewInventoryRepository(db), logger)

	handler := httpDelivery.NewHandler(inventoryService, upcLookup, offLookup)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}

// newLogger configures the standard logrus logger from config
func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// newCache builds the lookup cache selected by config
func newCache(cfg config.CacheConfig) (domain.CacheRepository, io.Closer, error) {
	if cfg.Type == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, redisCache, nil
	}

	memoryCache := cache.NewMemoryCache()
	return memoryCache, memoryCache, nil
}
