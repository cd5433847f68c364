package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-api/config"
	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/router"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize DB
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("%v", err)
	}

	hub := kds.NewHub()
	publishers := events.Multi{hub}

	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		utils.InfoLogger.Printf("Publishing events to Kafka topic %s", cfg.KafkaTopic)
	}

	var cache *services.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			utils.ErrorLogger.Errorf("Redis unreachable at %s, catalog cache disabled: %v", cfg.RedisAddr, err)
		} else {
			cache = services.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
			utils.InfoLogger.Printf("Catalog cache enabled (ttl %s)", cfg.CatalogCacheTTL)
		}
	}

	gateway := services.NewRazorpayService(&services.RazorpayConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
		Timeout:   cfg.GatewayTimeout,
	})

	// Setup router
	r := router.SetupRouter(router.Dependencies{
		DB:        db,
		Config:    cfg,
		Tokens:    utils.NewTokenManager(cfg.JWTSecret),
		Gateway:   gateway,
		Hub:       hub,
		Publisher: publishers,
		Cache:     cache,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}
