package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jmcleod/hashlock/api"
	"github.com/jmcleod/hashlock/web"
)

var (
	port    int
	dataDir string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the session broker server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := LoadConfig()
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		creds := api.NewCredentials(cfg.Username, cfg.Password, cfg.HashToken)

		var store api.SessionStore
		storeKind := "memory"
		if dataDir != "" {
			if err := os.MkdirAll(dataDir, 0o700); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			boltStore, err := api.NewBoltSessionStore(filepath.Join(dataDir, "sessions.db"))
			if err != nil {
				return fmt.Errorf("failed to open session storage: %w", err)
			}
			defer boltStore.Close()
			store = boltStore
			storeKind = "bbolt"
		} else {
			store = api.NewMemorySessionStore()
		}

		loginPage, err := web.Handler()
		if err != nil {
			return err
		}

		a := api.New(store, creds, cfg.SessionDuration,
			api.WithLogger(logger),
			api.WithLoginPage(loginPage),
			api.WithAlertFunc(func(ev api.AlertEvent) {
				logger.Warn("anomaly detected",
					"type", string(ev.Type),
					"message", ev.Message,
					"count", ev.Count,
					"threshold", ev.Threshold)
			}))

		sweeper := api.StartSweeper(store, api.DefaultSweepInterval, logger)
		defer sweeper.Stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(api.SecurityHeaders)
		r.Mount("/", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		logger.Info("auth service started",
			"port", port,
			"instance_id", a.InstanceID(),
			"username_configured", creds.UsernameConfigured(),
			"password_configured", creds.PasswordConfigured(),
			"hash_auth_enabled", creds.HashAuthEnabled(),
			"session_duration_hours", int(cfg.SessionDuration.Hours()),
			"session_store", storeKind)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 9999, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for persistent session storage (empty = in-memory)")
}
