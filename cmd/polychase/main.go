// Command polychase runs the chase game with the desktop or terminal frontend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"polychase/internal/app"
	"polychase/internal/config"
	"polychase/internal/game"
	"polychase/internal/progress"
	"polychase/internal/scout"
	"polychase/internal/spectate"
	"polychase/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "polychase: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := progress.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close progress store", "error", err)
		}
	}()

	opts := app.Options{Seed: cfg.Seed, EvictDistance: cfg.EvictDistance, Logger: logger}

	// The spectator feed is optional: a failure is logged and play goes on.
	var g errgroup.Group
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	if cfg.SpectateAddr != "" {
		hub := spectate.NewHub(logger)
		opts.Feed = hub
		g.Go(func() error {
			if err := hub.ListenAndServe(feedCtx, cfg.SpectateAddr); err != nil {
				logger.Warn("spectator feed stopped", "error", err)
			}
			return nil
		})
	}

	a := app.New(store, scout.New(cfg.ScoutURL, cfg.ScoutModel, cfg.ScoutAPIKey, cfg.ScoutTimeout, logger), opts)
	if err := a.LoadStats(ctx); err != nil {
		return err
	}
	flow := app.NewFlow(a)

	logger.Info("starting", "frontend", cfg.Frontend, "db", cfg.DBPath,
		"money", a.Stats.Money, "speed_level", a.Stats.SpeedLevel, "cosmetic", a.Stats.Cosmetic)

	var runErr error
	switch cfg.Frontend {
	case config.FrontendTerminal:
		runErr = tui.Run(ctx, flow, logger)
	default:
		runErr = game.RunDesktop(ctx, flow, game.Options{Mute: cfg.Mute, Logger: logger})
	}

	stopFeed()
	_ = g.Wait()
	return runErr
}
