// cmd/api/main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lovematch/backend/internal/common/database"
	"github.com/lovematch/backend/internal/common/utils"
	"github.com/lovematch/backend/internal/config"
	"github.com/lovematch/backend/internal/interaction"
	"github.com/lovematch/backend/internal/messaging"
	"github.com/lovematch/backend/internal/notification"
	"github.com/lovematch/backend/internal/presence"
)

func main() {
	// Step 1: Load environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Step 2: Connect to Postgres
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Step 3: Connect to Redis. Presence caching degrades gracefully
	// without it, so a failure here is not fatal.
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable, presence cache disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Step 4: Email provider
	emailService, err := buildEmailService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	log.Printf("Email provider: %s", cfg.EmailProvider)

	// Step 5: Services
	notificationRepo := notification.NewPostgresRepository(db)
	notificationService := notification.NewService(notificationRepo, emailService, &notification.Options{
		DedupWindow:       cfg.DedupWindow,
		PresenceFreshness: cfg.PresenceFreshness,
		EmailTimeout:      cfg.EmailTimeout,
		FeedLimit:         cfg.FeedLimit,
	})

	interactionRepo := interaction.NewPostgresRepository(db)
	interactionService := interaction.NewService(interactionRepo, notificationService)

	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo, notificationService)

	presenceRepo := presence.NewPostgresRepository(db)
	presenceCache := presence.NewOnlineCache(redisClient, cfg.StaleThreshold)
	presenceService := presence.NewService(presenceRepo, presenceCache, &presence.Options{
		Freshness:      cfg.PresenceFreshness,
		StaleThreshold: cfg.StaleThreshold,
	})

	// Step 6: Background sweeper
	sweeper := presence.NewSweeper(presenceService, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Step 7: Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	interaction.RegisterRoutes(r, interaction.NewHandler(interactionService))
	messaging.RegisterRoutes(r, messaging.NewHandler(messagingService))
	notification.RegisterRoutes(r, notification.NewHandler(notificationService))
	presence.RegisterRoutes(r, presence.NewHandler(presenceService))

	// Step 8: Serve with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func buildEmailService(cfg *config.Config) (notification.EmailService, error) {
	switch cfg.EmailProvider {
	case "smtp":
		svc, err := notification.NewSMTPEmailService(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.EmailFrom, cfg.EmailFromName,
		)
		if err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			log.Printf("SMTP unavailable, falling back to mock email: %v", err)
			return notification.NewMockEmailService(), nil
		}
		return svc, nil

	case "sendgrid":
		svc, err := notification.NewSendGridEmailService(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		if err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			log.Printf("SendGrid unavailable, falling back to mock email: %v", err)
			return notification.NewMockEmailService(), nil
		}
		return svc, nil

	default:
		return notification.NewMockEmailService(), nil
	}
}
