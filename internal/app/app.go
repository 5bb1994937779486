package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rzkmi/payoutdesk/internal/config"
	"github.com/rzkmi/payoutdesk/internal/database"
	"github.com/rzkmi/payoutdesk/internal/fraud"
	"github.com/rzkmi/payoutdesk/internal/handlers"
	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/notification"
	"github.com/rzkmi/payoutdesk/internal/rates"
	"github.com/rzkmi/payoutdesk/internal/repository"
	"github.com/rzkmi/payoutdesk/internal/service"
	"go.uber.org/zap"
)

type App struct {
	server   *http.Server
	db       *sql.DB
	notifier notification.Notifier
}

func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ParseFlags()

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.InitDB(cfg.DatabaseURI)
	if err != nil {
		logger.Log.Error("Database connection failed", zap.Error(err))
		return nil, err
	}

	var notifier notification.Notifier = notification.NopNotifier{}
	if cfg.AMQPAddress != "" {
		notifier, err = notification.NewProducer(cfg.AMQPAddress, cfg.SecretKey)
		if err != nil {
			logger.Log.Error("AMQP connection failed", zap.Error(err))
			return nil, err
		}
	}

	withdrawalRepo := repository.NewWithdrawalRepository(db)
	claimManager := service.NewClaimManager(withdrawalRepo)
	withdrawalService := service.NewWithdrawalService(
		withdrawalRepo,
		claimManager,
		fraud.NewClient(cfg.FraudAddress),
		rates.NewClient(cfg.RatesAddress),
		notifier,
	)
	handler := handlers.NewHandler(withdrawalService)

	r := handlers.NewRouter(handler, cfg.SecretKey)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	return &App{
		server:   server,
		db:       db,
		notifier: notifier,
	}, nil
}

func (a *App) Run() error {
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Log.Info("shutting down server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
		return err
	}

	logger.Log.Info("closing notification producer...")
	if err := a.notifier.Close(); err != nil {
		logger.Log.Error("failed to close notification producer", zap.Error(err))
	}

	logger.Log.Info("closing database connection...")
	if err := a.db.Close(); err != nil {
		logger.Log.Error("failed to close database", zap.Error(err))
		return err
	}

	return nil
}
