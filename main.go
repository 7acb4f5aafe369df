package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/api"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/config"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/database"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/logger"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/monitoring"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Seed the starter catalog on first run
	if err := database.Seed(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed the catalog")
	}

	// Set up WebSocket Hub for the live activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	bookService := services.NewBookService(db)
	eventService := services.NewEventService(db)
	reviewService := services.NewReviewService(db, eventService, hub)
	recommendationStore := services.NewSQLRecommendationStore(db)
	recommendationService := services.NewRecommendationService(recommendationStore)

	// Set up and run the background catalog monitor
	monitor := monitoring.NewCatalogMonitor(db, eventService)
	go monitor.Run()

	// Set up and run the daily digest scheduler
	digest := monitoring.NewDigestScheduler(recommendationStore, eventService, cfg.DigestCron)
	if err := digest.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start digest scheduler")
	}

	// Set up router
	router := api.NewRouter(hub, userService, bookService, reviewService, recommendationService, eventService, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	monitor.Stop()
	digest.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
