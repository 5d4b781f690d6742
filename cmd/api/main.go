package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	cognitopkg "github.com/minsu-lee/agenda-api/internal/cognito"
	"github.com/minsu-lee/agenda-api/internal/config"
	agendahttp "github.com/minsu-lee/agenda-api/internal/http"
	"github.com/minsu-lee/agenda-api/internal/middleware"
	"github.com/minsu-lee/agenda-api/internal/model"
	"github.com/minsu-lee/agenda-api/internal/notify"
	"github.com/minsu-lee/agenda-api/internal/repository"
	"github.com/minsu-lee/agenda-api/internal/service"
	"github.com/minsu-lee/agenda-api/internal/session"
)

// ownerResolverAdapter adapts an owner repository to the middleware.OwnerResolver interface.
type ownerResolverAdapter struct {
	repo interface {
		GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Owner, error)
	}
}

func (a *ownerResolverAdapter) ResolveOwnerID(ctx context.Context, cognitoSub string) (string, error) {
	owner, err := a.repo.GetByCognitoSub(ctx, cognitoSub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", middleware.ErrOwnerNotFound
		}
		return "", fmt.Errorf("failed to resolve owner: %w", err)
	}
	return owner.ID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"static_dir", cfg.StaticDir,
	)

	// Database connection
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Repositories
	agendaRepo := repository.NewPostgresAgenda(db)
	ownerRepo := repository.NewPostgresOwner(db)

	// Agenda service + session coordinator
	agendaSvc := service.NewAgendaService(agendaRepo)
	notifier := notify.NewNotifier(cfg.NotifyDismiss())
	coord := session.NewCoordinator(agendaSvc, notifier, logger, cfg.CarryOverDelay())

	// Cognito client + Auth service
	var authSvc *service.AuthService
	if cfg.Cognito.AppClientID != "" {
		cognitoClient, err := cognitopkg.NewAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		authSvc = service.NewAuthService(cognitoClient, ownerRepo)
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	// Auth middleware
	authCfg := middleware.AuthConfig{
		DevMode: cfg.AuthDevMode,
	}
	if !cfg.AuthDevMode {
		jwksURL := middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.JWKSClient = middleware.NewJWKSClient(jwksURL)
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.OwnerResolver = &ownerResolverAdapter{repo: ownerRepo}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	router := agendahttp.NewRouter(agendahttp.RouterConfig{
		Coordinator: coord,
		AuthService: authSvc,
		Notifier:    notifier,
		StaticDir:   cfg.StaticDir,
	})
	srv := agendahttp.NewServer(cfg.ServerPort, logger, auth, router)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
