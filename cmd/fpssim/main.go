package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/fpscore/internal/ai"
	"github.com/udisondev/fpscore/internal/config"
	"github.com/udisondev/fpscore/internal/db"
	"github.com/udisondev/fpscore/internal/sim"
	"github.com/udisondev/fpscore/internal/spawn"
)

const ConfigPath = "config/fpssim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("FPSCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("fpssim starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick", cfg.TickInterval,
		"profiles", len(cfg.Profiles),
		"spawns", len(cfg.Spawns))

	g, gctx := errgroup.WithContext(ctx)

	var events spawn.EventSink
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.Migrate(ctx, database.Pool()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		writer := db.NewEventWriter(database.Events(), cfg.Database.EventBuffer)
		events = writer

		g.Go(func() error {
			slog.Info("starting combat event writer", "buffer", cfg.Database.EventBuffer)
			if err := writer.Run(gctx); err != nil {
				return fmt.Errorf("event writer: %w", err)
			}
			slog.Info("combat event writer stopped",
				"written", writer.Written(),
				"dropped", writer.Dropped())
			return nil
		})
	}

	simulation, err := sim.New(cfg, events)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	g.Go(func() error {
		if err := simulation.Run(gctx); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := config.Watch(gctx, cfgPath, func(next config.Simulation) {
			simulation.SetProfiles(next.Profiles)
			ai.EnableDebugLogging(parseLogLevel(next.LogLevel) == slog.LevelDebug)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("config watcher: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
