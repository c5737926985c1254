// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderjmontague/jot-sub000/internal/api"
	"github.com/alexanderjmontague/jot-sub000/internal/mcpserver"
	"github.com/alexanderjmontague/jot-sub000/internal/protocol"
	"github.com/alexanderjmontague/jot-sub000/internal/sse"
	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
	"github.com/alexanderjmontague/jot-sub000/internal/vaultconfig"
	"github.com/alexanderjmontague/jot-sub000/internal/watch"
)

// Version is reported in ping responses and the MCP handshake.
const Version = "1.0.0"

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr. Stdout carries the protocol stream.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	configPath := cfg.Host.ConfigPath
	if configPath == "" {
		p, err := vaultconfig.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		configPath = p
	}

	logger.Info("Configuration loaded",
		slog.String("vault_config_path", configPath),
		slog.Bool("http_enabled", cfg.App.HTTP.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	cfgs := vaultconfig.NewStore(configPath)
	store := threadstore.New(cfgs, logger)

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(store, Version).ServeStdio()
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Framed stdio protocol host. EOF on stdin shuts the application down;
	// the shutdown path closes stdin to unblock a pending read.
	g.Go(func() error {
		session := protocol.NewSession(bufio.NewReader(os.Stdin), os.Stdout, store, Version, logger)
		err := session.Run(gCtx)
		switch {
		case err == nil:
			logger.Info("Protocol stream closed")
		case errors.Is(err, os.ErrClosed), errors.Is(err, context.Canceled):
		default:
			return fmt.Errorf("protocol session: %w", err)
		}
		return errStreamClosed
	})

	broker := sse.NewBroker()
	defer broker.Close()

	// File watcher keeps the index in sync with outside edits.
	g.Go(func() error {
		watch.Run(gCtx, store, broker, logger)
		return nil
	})

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled {
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		// Health check endpoints (unauthenticated).
		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/api", api.NewRouter(store, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		logger.Info("Shutting down...")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}
		_ = os.Stdin.Close()

		return errStreamClosed
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errStreamClosed) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}

// errStreamClosed signals an orderly shutdown through the errgroup.
var errStreamClosed = errors.New("stream closed")
