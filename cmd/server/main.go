package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priya/course-platform/internal/api"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/config"
	"github.com/priya/course-platform/internal/mail"
	"github.com/priya/course-platform/internal/repository/postgres"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/storage"
	"github.com/priya/course-platform/internal/token"
	"github.com/priya/course-platform/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize session and catalog caches
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, redisClient, err := cache.NewRedis(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	sessions := cache.NewSessionStore(store)
	catalog := cache.NewCatalogCache(store)

	// Initialize token issuer
	issuer := token.NewIssuer(
		cfg.ActivationSecret,
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpire,
		cfg.RefreshTokenExpire,
	)

	// Initialize mailer
	mailer, err := mail.NewMailer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	// Initialize asset storage
	assets, err := storage.NewAssetStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize asset storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, issuer, sessions, catalog, mailer, assets, hub)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
