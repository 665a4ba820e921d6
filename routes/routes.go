// File: /routes/routes.go
package routes

import (
	"fiesta-api/config"
	"fiesta-api/controllers"
	"fiesta-api/middleware"
	"fiesta-api/repositories"
	"fiesta-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB           *gorm.DB
	Events       *repositories.EventRepository
	Wallet       *services.WalletService
	Drafts       *services.DraftRegistry
	Hub          *services.FeedHub
	EmailService *services.EmailService
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	// Controllers
	authController := controllers.NewAuthController(deps.DB, cfg.JWTSecret, cfg.StartingBalance)
	userController := controllers.NewUserController(deps.DB, deps.Wallet)
	eventController := controllers.NewEventController(deps.DB, deps.Events, deps.Drafts, deps.EmailService)
	feedController := controllers.NewFeedController(deps.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.SecurityHeaders())

	// Auth routes (public)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(30, 10))
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/balance", userController.GetBalance)
		}

		// Event routes
		events := protected.Group("/events")
		{
			events.GET("/", eventController.GetEvents)
			events.GET("/created", eventController.GetCreatedEvents)
			events.GET("/:id", eventController.GetEvent)

			events.GET("/draft", eventController.GetDraft)
			events.POST("/draft/open", eventController.OpenDraft)
			events.POST("/draft/close", eventController.CloseDraft)
			events.PATCH("/draft", eventController.UpdateDraft)
			events.POST("/draft/location", eventController.SetDraftLocation)
			events.POST("/draft/submit", eventController.SubmitDraft)
			events.DELETE("/draft", eventController.CancelDraft)
		}

		// Live feed (websocket)
		protected.GET("/feed", feedController.Stream)
	}
}
