package main

import (
	"log"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/collabhub-api/internal/config"
	"github.com/collabhub/collabhub-api/internal/database"
	"github.com/collabhub/collabhub-api/internal/handlers"
	"github.com/collabhub/collabhub-api/internal/logger"
	"github.com/collabhub/collabhub-api/internal/mail"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)

	// Core services
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.TokenSkew, revokedRepo)
	mailer := mail.NewSMTPSender(cfg)

	authService := services.NewAuthService(userRepo, tokens, mailer)
	taskService := services.NewTaskService(taskRepo, userRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)

	// Drop blacklist rows for tokens that have expired on their own.
	go sweepRevokedTokens(tokens)

	r := gin.Default()

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "CollabHub API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.POST("/verify-registration", authHandler.VerifyRegistration)
			auth.GET("/user", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/:id/username", authHandler.GetUsername)
			users.PUT("/me", authHandler.UpdateProfile)
			users.DELETE("/me", authHandler.DeleteAccount)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/status/:status", taskHandler.ListTasksByStatus)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskMutatePermission(taskService), taskHandler.DeleteTask)

			tasks.GET("/:id/attachments", attachmentHandler.ListAttachments)
			tasks.POST("/:id/attachments", attachmentHandler.AddAttachment)
			tasks.PUT("/:id/attachments/:attachment_id", attachmentHandler.UpdateAttachment)
			tasks.DELETE("/:id/attachments/:attachment_id", attachmentHandler.DeleteAttachment)
		}
	}

	slog.Info("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func sweepRevokedTokens(tokens *token.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		purged, err := tokens.PurgeExpired(time.Now())
		if err != nil {
			slog.Error("revoked token sweep failed", "error", err)
			continue
		}
		if purged > 0 {
			slog.Info("revoked token sweep", "purged", purged)
		}
	}
}
