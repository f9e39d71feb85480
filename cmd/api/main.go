package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/prasertsakk/job-portal-api/internal/config"
	"github.com/prasertsakk/job-portal-api/internal/handler"
	"github.com/prasertsakk/job-portal-api/internal/repository"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
	"github.com/prasertsakk/job-portal-api/shared/auth"
	"github.com/prasertsakk/job-portal-api/shared/cache"
	"github.com/prasertsakk/job-portal-api/shared/mailer"
	"github.com/prasertsakk/job-portal-api/shared/provider"
	"github.com/prasertsakk/job-portal-api/shared/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	jobRepo := repository.NewJobMongoRepository(ctx, &logger, db)
	applicationRepo := repository.NewApplicationMongoRepository(ctx, &logger, db)
	savedJobRepo := repository.NewSavedJobMongoRepository(ctx, &logger, db)
	resetTokenRepo := repository.NewPasswordResetTokenMongoRepository(ctx, &logger, db)

	searchCache := cache.NewRedisCache(&logger, cfg.RedisAddr, cfg.RedisPassword)
	defer searchCache.Close()

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	otpMailer := mailer.NewMailer(&logger)
	googleProvider := provider.NewGoogleOAuthProvider(cfg.GoogleClientID)

	validator, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth, otpMailer, googleProvider, cfg)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, resetTokenRepo, jwtAuth, otpMailer, cfg)
	userUsecase := usecase.NewUserUsecase(userRepo)
	jobUsecase := usecase.NewJobUsecase(jobRepo, userRepo, searchCache)
	applicationUsecase := usecase.NewApplicationUsecase(applicationRepo, jobRepo, &logger)
	savedJobUsecase := usecase.NewSavedJobUsecase(savedJobRepo, jobRepo)
	adminUsecase := usecase.NewAdminUsecase(userRepo, jobRepo, applicationRepo)

	authenticator := handler.NewAuthenticator(jwtAuth, cfg.Token.Secret, &logger)

	router := handler.NewRouter(handler.RouterDeps{
		Logger:             &logger,
		Authenticator:      authenticator,
		AuthHandler:        handler.NewAuthHandler(authUsecase, resetUsecase, validator, &logger),
		UserHandler:        handler.NewUserHandler(userUsecase, validator, &logger),
		JobHandler:         handler.NewJobHandler(jobUsecase, validator, &logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationUsecase, validator, &logger),
		SavedJobHandler:    handler.NewSavedJobHandler(savedJobUsecase, &logger),
		AdminHandler:       handler.NewAdminHandler(adminUsecase, &logger),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("http server failed")
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
