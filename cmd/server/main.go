package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vtuwallet/internal/config"
	"vtuwallet/internal/db"
	"vtuwallet/internal/handlers"
	"vtuwallet/internal/ledger"
	"vtuwallet/internal/logging"
	"vtuwallet/internal/notify"
	"vtuwallet/internal/rewards"
	"vtuwallet/internal/services"
	"vtuwallet/internal/session"
	"vtuwallet/internal/store"
	"vtuwallet/internal/websocket"
)

func main() {
	bootstrap, _ := zap.NewProduction()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		bootstrap.Warn("read .env", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		bootstrap.Fatal("load config", zap.Error(err))
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		bootstrap.Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := ledger.DefaultPointsPolicy()
	policy.Divisor = cfg.PointsDivisor
	sessions := session.NewManager(session.Defaults{
		OpeningBalance: cfg.OpeningBalance,
		OpeningPoints:  cfg.OpeningPoints,
		Policy:         policy,
	})

	var (
		archive       services.Archive
		archiveReader handlers.ArchiveReader
	)
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		defer database.Close()
		pg := store.NewArchive(database)
		archive, archiveReader = pg, pg
		logger.Info("archive enabled")
	}

	hub := websocket.NewHub()
	var balances services.BalanceHub = hub
	if cfg.RedisAddr != "" {
		client, err := notify.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer client.Close()
		balances = notify.NewPublisher(client, notify.DefaultPrefix, logger)
		go func() {
			if err := notify.Relay(ctx, client, notify.DefaultPrefix, hub, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("balance relay stopped", zap.Error(err))
			}
		}()
		logger.Info("balance fan-out via redis", zap.String("addr", cfg.RedisAddr))
	}

	wallet := services.NewWalletService(sessions, archive, balances, services.Settings{
		CardCreationFee: cfg.CardCreationFee,
		USDRate:         cfg.USDRate,
		ReferralBonus:   cfg.ReferralBonus,
		Catalog:         rewards.DefaultCatalog(),
	}, logger)

	handler := handlers.New(cfg, sessions, wallet, archiveReader, hub, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("wallet API listening", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
