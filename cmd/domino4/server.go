package main

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/damproductions/domino4/cmd/domino4/shared"
	"github.com/damproductions/domino4/internal/randutil"
	"github.com/damproductions/domino4/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Config      string `kong:"default='domino4.hcl',help='Path to HCL config file'"`
	Addr        string `kong:"help='Listen address override (host:port)'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
	TargetScore int    `kong:"help='Default target score override'"`
	ReminderSec int    `kong:"name='reminder-sec',help='Idle turn reminder seconds (0 disables)'"`
	Seed        *int64 `kong:"help='Deterministic RNG seed for the server (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.TargetScore > 0 {
		cfg.Game.DefaultTargetScore = c.TargetScore
	}
	if c.ReminderSec > 0 {
		cfg.Game.TurnReminderSeconds = c.ReminderSec
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug)
	if !c.Debug {
		logger.SetLevel(shared.ParseLevel(cfg.Server.LogLevel))
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}
	rng := randutil.New(seed)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := server.NewServer(addr, logger)

	box, err := server.NewSuggestionBox(cfg.Server.SuggestionsDir)
	if err != nil {
		return err
	}
	srv.SetSuggestionBox(box)

	svc := server.NewGameService(srv, cfg, logger, rng, quartz.NewReal())
	srv.SetGameService(svc)

	logger.Info("Starting domino server",
		"address", addr,
		"target_score", cfg.Game.DefaultTargetScore,
		"reminder_sec", cfg.Game.TurnReminderSeconds,
	)

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		svc.Shutdown()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
