package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"admin-console/internal/backend"
	"admin-console/internal/config"
	"admin-console/internal/logging"
	"admin-console/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.DevBackend.ValidateDevBackend()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Error("dev backend stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	dc := cfg.DevBackend

	db, err := storage.Open(storage.Dialect(dc.Driver), dc.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := backend.NewServer(db, backend.NewTokenManager(dc.JWTSecret, dc.TokenTTL), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dc.AdminEmail != "" {
		if err := srv.Seed(ctx, dc.AdminName, dc.AdminEmail, dc.AdminPassword); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(dc.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev backend listening", "addr", httpServer.Addr, "driver", dc.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
