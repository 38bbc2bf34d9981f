// Package simulator plays batches of computer-versus-computer games to
// compare selection strategies.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Seed       int64
	Workers    int
	StrategyP1 string
	StrategyP2 string
	Rules      game.Rules
	Logger     *log.Logger
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed       int64
	Winner     game.Player // 0 for a draw
	Turns      int
	TurnWinsP1 int
	TurnWinsP2 int
}

// Simulator runs game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Rules.CardsToPlay == 0 {
		config.Rules = game.DefaultRules()
	}
	if config.StrategyP1 == "" {
		config.StrategyP1 = "closest"
	}
	if config.StrategyP2 == "" {
		config.StrategyP2 = "closest"
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every game and aggregates the results. Game i uses seed
// Seed+i, so a run is reproducible regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	if s.config.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	for _, name := range []string{s.config.StrategyP1, s.config.StrategyP2} {
		if _, err := game.NewSelector(name, nil); err != nil {
			return nil, err
		}
	}

	results := make([]GameResult, s.config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.playGame(s.config.Seed + int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &Stats{StrategyP1: s.config.StrategyP1, StrategyP2: s.config.StrategyP2}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.config.Logger.Info("Simulation complete",
		"games", stats.Games, "p1", stats.WinsP1, "p2", stats.WinsP2, "draws", stats.Draws)
	return stats, nil
}

func (s *Simulator) playGame(seed int64) (GameResult, error) {
	rng := randutil.New(seed)
	selP1, err := game.NewSelector(s.config.StrategyP1, rng)
	if err != nil {
		return GameResult{}, err
	}
	selP2, err := game.NewSelector(s.config.StrategyP2, rng)
	if err != nil {
		return GameResult{}, err
	}
	engine, err := game.NewEngine(
		game.WithRules(s.config.Rules),
		game.WithRand(rng),
		game.WithSelector(selP2),
		game.WithLogger(s.config.Logger),
	)
	if err != nil {
		return GameResult{}, err
	}

	// Player one is given a distinct name so only player two is the
	// engine's computer player; both sides are driven here.
	g, err := engine.NewGame("sim-"+s.config.StrategyP1, s.config.Rules.ComputerName)
	if err != nil {
		return GameResult{}, err
	}
	n := s.config.Rules.CardsToPlay
	for !g.Finished {
		if g, err = engine.TakeHand(g); err != nil {
			return GameResult{}, err
		}
		pick := selP1.Select(g.HandP1, g.CurrentTarget, n)
		if g, _, err = engine.PlayTurn(g, pick, nil); err != nil {
			return GameResult{}, err
		}
	}

	r := GameResult{
		Seed:       seed,
		Turns:      g.NumTurns,
		TurnWinsP1: g.History.TurnWins(g.NameP1),
		TurnWinsP2: g.History.TurnWins(g.NameP2),
	}
	if g.Winner != "" {
		r.Winner, _ = g.PlayerByName(g.Winner)
	}
	s.config.Logger.Debug("Game simulated", "seed", seed, "winner", g.Winner, "turns", g.NumTurns)
	return r, nil
}
