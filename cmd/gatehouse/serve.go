// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/auth/memory"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/logging"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/web"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

const (
	shutdownTimeout        = 10 * time.Second
	sessionCleanupInterval = time.Hour
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication HTTP server",
		Long: `Start the Gatehouse HTTP server serving the signup, login, and
logout routes, plus a metrics/health endpoint on a separate listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), configFile, cmd, nil)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path (YAML)")

	// Dotted flag names map directly onto config keys; flags left at their
	// defaults do not override file values.
	defaults := config.Default()
	cmd.Flags().String("server.addr", defaults.Server.Addr, "HTTP listen address")
	cmd.Flags().String("server.metrics_addr", defaults.Server.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("store.backend", defaults.Store.Backend, "persistence backend (postgres or memory)")
	cmd.Flags().Duration("session.expiry", defaults.Session.Expiry, "web session lifetime")
	cmd.Flags().String("log.format", defaults.Log.Format, "log format (json or text)")

	return cmd
}

// userStore combines the operations the flow and the web layer need.
type userStore interface {
	auth.UserStore
	web.UserGetter
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, configFile string, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("gatehouse", cmd.Root().Version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores
	var users userStore
	var webSessions auth.WebSessionStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		users = memory.NewUserStore()
		webSessions = memory.NewWebSessionStore()
	case config.BackendPostgres:
		pool, poolErr := deps.PoolFactory(ctx, cfg.Database.URL)
		if poolErr != nil {
			return poolErr
		}
		defer pool.Close()
		users = authpg.NewUserRepository(pool)
		webSessions = authpg.NewWebSessionRepository(pool)
	default:
		return oops.Code("CONFIG_INVALID").Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	flow, err := auth.NewFlowWithLogger(users, auth.NewArgon2idHasher(), logger)
	if err != nil {
		return err
	}

	// Observability server (optional)
	var ready atomic.Bool
	var metrics *observability.Metrics
	var obsErrCh <-chan error
	if cfg.Server.MetricsAddr != "" {
		obs := deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, ready.Load)
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
		metrics = obs.Metrics()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if stopErr := obs.Stop(stopCtx); stopErr != nil {
				errutil.LogError(logger, "failed to stop observability server", stopErr)
			}
		}()
	}

	handler, err := web.NewHandlerWithLogger(flow, users, webSessions, metrics, logger)
	if err != nil {
		return err
	}
	handler.SetSessionExpiry(cfg.Session.Expiry)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	// Expired sessions accumulate without an external reaper.
	go cleanupExpiredSessions(ctx, webSessions, logger)

	ready.Store(true)
	logger.Info("gatehouse server started", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-errCh:
		return oops.Code("SERVER_FAILED").With("addr", cfg.Server.Addr).Wrap(serveErr)
	case obsErr := <-obsErrCh:
		return oops.Code("OBSERVABILITY_FAILED").With("addr", cfg.Server.MetricsAddr).Wrap(obsErr)
	}

	ready.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("gatehouse server stopped")
	return nil
}

// cleanupExpiredSessions periodically removes expired web sessions.
func cleanupExpiredSessions(ctx context.Context, sessions auth.WebSessionStore, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				errutil.LogError(logger, "failed to delete expired sessions", err)
				continue
			}
			if deleted > 0 {
				logger.Info("deleted expired sessions", "count", deleted)
			}
		}
	}
}
