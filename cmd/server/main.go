package main

import (
	"context"

	"github.com/feedpulse/backend/internal/mailer"
	"github.com/feedpulse/backend/internal/queue"
	"github.com/feedpulse/backend/internal/router"
	"github.com/feedpulse/backend/pkg/config"
	"github.com/feedpulse/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg.Env)

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer config.CloseDB(db)

	// Task queue + email worker. The request path only ever enqueues;
	// delivery and retries happen on the worker side.
	wmLogger := queue.NewZerologAdapter(logger.With().Str("component", "queue").Logger())
	pubSub := queue.NewGoChannelPubSub(wmLogger)
	taskQueue := queue.NewWatermillQueue(pubSub)

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	worker, err := mailer.NewWorker(pubSub, sender, wmLogger, logger.With().Str("component", "mailer").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build email worker")
	}
	go func() {
		if err := worker.Run(context.Background()); err != nil {
			logger.Error().Err(err).Msg("email worker stopped")
		}
	}()
	defer worker.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db, taskQueue, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to set up routes")
	}

	e.Validator = validators.NewValidator()

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
