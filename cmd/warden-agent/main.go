// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/warden-foundation/warden/guard"
	"github.com/warden-foundation/warden/lib/clock"
	"github.com/warden-foundation/warden/lib/config"
	"github.com/warden-foundation/warden/lib/service"
	"github.com/warden-foundation/warden/lib/store"
	"github.com/warden-foundation/warden/platform"
	"github.com/warden-foundation/warden/profile"
	"github.com/warden-foundation/warden/tickets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		logLevel   string
	)

	flagSet := pflag.NewFlagSet("warden-agent", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file path (default: $WARDEN_CONFIG)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return fmt.Errorf("preparing directories: %w", err)
	}

	token, err := cfg.ReadToken()
	if err != nil {
		return fmt.Errorf("reading platform token: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()

	st, err := store.Open(ctx, store.Options{
		Path:       cfg.State.Path,
		Clock:      clk,
		Logger:     logger,
		Retries:    cfg.State.InitRetries,
		Backoff:    cfg.State.InitBackoff.Std(),
		AllowFresh: cfg.State.AllowFresh,
	})
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	logger.Info("state store open", "path", st.Path())

	session, err := platform.NewClient(platform.ClientConfig{
		BaseURL: cfg.Platform.BaseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: cfg.Platform.RequestTimeout.Std(),
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating platform client: %w", err)
	}
	defer session.CloseIdleConnections()

	agent := &Agent{
		store:    st,
		profiles: profile.NewService(st, cfg.Owner, logger),
		guard: guard.NewGuard(guard.Options{
			Store:   st,
			Session: session,
			Owner:   cfg.Owner,
			MaxAge:  cfg.Guard.AuditMaxAge.Std(),
			Clock:   clk,
			Logger:  logger,
		}),
		tickets: tickets.NewManager(tickets.Options{
			Store:   st,
			Session: session,
			Owner:   cfg.Owner,
			Clock:   clk,
			Logger:  logger,
		}),
		startedAt: clk.Now(),
		clock:     clk,
		logger:    logger,
	}

	// Background saver: mutations save synchronously, this flushes
	// anything a failed synchronous save left behind.
	go st.RunPeriodicSave(ctx, cfg.State.SaveInterval.Std())

	socketServer := service.NewSocketServer(cfg.Socket.Path, logger)
	agent.registerActions(socketServer)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	logger.Info("warden agent running",
		"socket", cfg.Socket.Path,
		"environment", cfg.Environment,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	if err := <-socketDone; err != nil {
		logger.Error("socket server error", "error", err)
	}

	if err := st.Save(); err != nil {
		return fmt.Errorf("final state save: %w", err)
	}
	return nil
}
