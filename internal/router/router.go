package router

import (
	"github.com/feedpulse/backend/internal/handlers"
	"github.com/feedpulse/backend/internal/middleware"
	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/queue"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, q queue.Queue, logger zerolog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	logger.Info().Msg("auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo, q,
		logger.With().Str("component", "notifications").Logger())
	followService := services.NewFollowService(followRepo, userRepo, notificationService,
		logger.With().Str("component", "follows").Logger())
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, userRepo, followRepo, notificationService,
		logger.With().Str("component", "posts").Logger())
	feedService := services.NewFeedService(postRepo, followRepo,
		logger.With().Str("component", "feed").Logger())

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, postService, followService)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(postService)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(postService)
	likeHandler.RegisterLikeRoutes(api)

	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info().Msg("all routes configured")
	return nil
}
