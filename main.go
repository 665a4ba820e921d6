// File: /main.go
package main

import (
	"log"
	"time"

	"fiesta-api/config"
	"fiesta-api/database"
	"fiesta-api/jobs"
	"fiesta-api/repositories"
	"fiesta-api/routes"
	"fiesta-api/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db, cfg.StartingBalance); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	eventRepo := repositories.NewEventRepository(db)
	walletService := services.NewWalletService(db)
	emailService := services.NewEmailService(cfg)
	feedHub := services.NewFeedHub(eventRepo)

	// With Redis, appends are announced to every instance and each hub
	// re-snapshots on receipt (our own messages included). Without it the
	// local hub is notified directly.
	var notifier services.ChangeNotifier = feedHub
	redisService, err := services.NewRedisService(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Printf("Warning: Redis unavailable, feed updates stay instance-local: %v", err)
	} else {
		notifier = redisService
		go redisService.Listen(func(string) {
			feedHub.EventsChanged()
		})
	}

	draftRegistry := services.NewDraftRegistry(walletService, eventRepo, notifier)

	// Sweep abandoned drafts
	draftTTL := time.Duration(cfg.DraftTTLMinutes) * time.Minute
	cleanupJob := jobs.NewDraftCleanupJob(draftRegistry, 10*time.Minute, draftTTL)
	cleanupJob.Start()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Setup routes
	routes.SetupRoutes(router, cfg, routes.Dependencies{
		DB:           db,
		Events:       eventRepo,
		Wallet:       walletService,
		Drafts:       draftRegistry,
		Hub:          feedHub,
		EmailService: emailService,
	})

	// Start server
	log.Printf("Starting Fiesta API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
