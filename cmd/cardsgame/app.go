package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/cmd/cardsgame/shared"
	"github.com/lox/cardsgame/internal/config"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/randutil"
	"github.com/lox/cardsgame/internal/service"
	"github.com/lox/cardsgame/internal/store"
)

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"cardsgame.hcl" type:"path" help:"HCL configuration file"`
	Debug  bool   `help:"Enable debug logging"`
	JSON   bool   `help:"Print results and logs as JSON"`
	Seed   *int64 `help:"Deterministic RNG seed (optional)"`
}

// app is the wiring shared by the commands.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	engine *game.Engine
	svc    *service.Service
}

func (g *Globals) loadConfig() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel()
	if g.Debug {
		level = log.DebugLevel
	}
	return cfg, shared.SetupLogger(level, g.JSON), nil
}

func (g *Globals) rand(logger *log.Logger) randutil.Source {
	if g.Seed != nil {
		logger.Debug("Using deterministic seed", "seed", *g.Seed)
		return randutil.New(*g.Seed)
	}
	rng, seed := randutil.NewUnseeded()
	logger.Debug("Using random seed", "seed", seed)
	return rng
}

func (g *Globals) open(ctx context.Context) (*app, error) {
	cfg, logger, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	rng := randutil.Locked(g.rand(logger))
	selector, err := game.NewSelector(cfg.Game.ComputerStrategy, rng)
	if err != nil {
		return nil, err
	}
	engine, err := game.NewEngine(
		game.WithRules(rules),
		game.WithRand(rng),
		game.WithSelector(selector),
		game.WithLogger(logger.WithPrefix("engine")),
	)
	if err != nil {
		return nil, err
	}

	repo, err := store.Open(ctx, cfg.StoreOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	logger.Debug("Store opened", "backend", cfg.Store.Backend)

	svc := service.New(engine, repo,
		service.WithLogger(logger.WithPrefix("service")),
		service.WithMaxAttempts(cfg.Service.MaxAttempts),
	)
	return &app{cfg: cfg, logger: logger, engine: engine, svc: svc}, nil
}
