package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/divvyup/divvy/internal/auth"
	"github.com/divvyup/divvy/internal/config"
	"github.com/divvyup/divvy/internal/handler"
	"github.com/divvyup/divvy/internal/server"
	"github.com/divvyup/divvy/internal/service"
	"github.com/divvyup/divvy/internal/storage/sqlite"
	"github.com/divvyup/divvy/pkg/logging"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, store)
	logger := slog.Default()

	h := handler.New(
		service.NewUserService(store, logger),
		service.NewGroupService(store, logger),
		service.NewExpenseService(store, logger),
		tokens,
	)

	srv := server.New(cfg, h)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", cfg.HTTPAddress())
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
