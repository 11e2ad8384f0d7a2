package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"admin-console/internal/client"
	"admin-console/internal/config"
	"admin-console/internal/controller"
	"admin-console/internal/handlers"
	"admin-console/internal/logging"
	"admin-console/internal/middleware"
	"admin-console/internal/resource"
	"admin-console/internal/session"
)

// sweepInterval is how often idle controllers and expired sessions are purged.
const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	store, closer, err := session.Open(cfg.Session)
	if err != nil {
		return err
	}
	defer closer.Close()

	backend := client.New(cfg.Backend.BaseURL, client.WithTimeout(cfg.Backend.Timeout))
	h := handlers.NewHandlers(store, backend, cfg.Web.TemplateDir, cfg.Server.SecureCookie,
		handlers.WithSessionDuration(cfg.Session.Duration),
		handlers.WithLogger(logger),
	)

	mux := setupRouter(h, cfg.Web.StaticDir)
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweep(ctx, h.Registry(), store, sweepInterval, cfg.Session.Duration, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.Handle("GET /login", h.PublicOnly(http.HandlerFunc(h.LoginForm)))
	mux.Handle("POST /login", h.PublicOnly(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /logout", h.Logout)
	mux.Handle("GET /dashboard", h.RequireAuth(http.HandlerFunc(h.Dashboard)))

	for _, def := range resource.All() {
		h.Resource(def).Routes(mux)
	}

	mux.HandleFunc("/", h.Fallback)
	return mux
}

// sweep runs sweepOnce every interval until ctx is done.
func sweep(ctx context.Context, reg *controller.Registry, store session.Store, interval, maxIdle time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, reg, store, maxIdle, logger)
		}
	}
}

func sweepOnce(ctx context.Context, reg *controller.Registry, store session.Store, maxIdle time.Duration, logger *slog.Logger) {
	if n := reg.Evict(maxIdle); n > 0 {
		logger.Debug("evicted idle controllers", "sessions", n)
	}
	cleaner, ok := store.(session.Cleaner)
	if !ok {
		return
	}
	n, err := cleaner.CleanExpired(ctx)
	if err != nil {
		logger.Warn("failed to clean expired sessions", "error", err)
		return
	}
	if n > 0 {
		logger.Debug("cleaned expired sessions", "count", n)
	}
}
