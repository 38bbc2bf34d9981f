// Package service exposes the caller-facing game operations. Each mutation
// loads the game, applies an engine operation and saves it with a version
// check, reloading and reapplying when another writer got there first.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/store"
)

// DefaultMaxAttempts bounds the reload-and-reapply loop.
const DefaultMaxAttempts = 3

// Status filters ListGames.
type Status string

const (
	StatusAny        Status = "any"
	StatusFinished   Status = "finished"
	StatusUnfinished Status = "unfinished"
)

// ParseStatus accepts "", any, finished or unfinished.
func ParseStatus(v string) (Status, error) {
	switch s := Status(strings.ToLower(v)); s {
	case "", StatusAny:
		return StatusAny, nil
	case StatusFinished, StatusUnfinished:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q", v)
	}
}

func (s Status) matches(g *game.Game) bool {
	switch s {
	case StatusFinished:
		return g.Finished
	case StatusUnfinished:
		return !g.Finished
	default:
		return true
	}
}

// Service runs game operations against a repository.
type Service struct {
	engine      *game.Engine
	repo        store.Repository
	logger      *log.Logger
	maxAttempts int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMaxAttempts sets how many times a mutation is tried before a
// concurrent modification is returned to the caller.
func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

// New creates a service.
func New(engine *game.Engine, repo store.Repository, opts ...Option) *Service {
	s := &Service{
		engine:      engine,
		repo:        repo,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 1
	}
	return s
}

// Engine returns the engine the service applies.
func (s *Service) Engine() *game.Engine {
	return s.engine
}

// CreateGame starts a game between player and the computer.
func (s *Service) CreateGame(ctx context.Context, player string) (*game.Game, error) {
	return s.CreateMatch(ctx, player, s.engine.Rules().ComputerName)
}

// CreateMatch starts a game between two named players.
func (s *Service) CreateMatch(ctx context.Context, nameP1, nameP2 string) (*game.Game, error) {
	g, err := s.engine.NewGame(nameP1, nameP2)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("store game: %w", err)
	}
	s.logger.Info("Game created", "game", created.ID, "p1", created.NameP1, "p2", created.NameP2)
	return created, nil
}

// GetGame returns a stored game.
func (s *Service) GetGame(ctx context.Context, id string) (*game.Game, error) {
	return s.repo.Get(ctx, id)
}

// ListGames returns games matching status in creation order.
func (s *Service) ListGames(ctx context.Context, status Status) ([]*game.Game, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*game.Game, 0, len(all))
	for _, g := range all {
		if status.matches(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

// ListGameIDs returns the ids of games matching status.
func (s *Service) ListGameIDs(ctx context.Context, status Status) ([]string, error) {
	games, err := s.ListGames(ctx, status)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids, nil
}

// DeleteGame removes a game. Unknown ids report ErrNotFound.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrNotFound, id)
	}
	s.logger.Info("Game deleted", "game", id)
	return nil
}

// DealHand deals every empty hand for the next turn.
func (s *Service) DealHand(ctx context.Context, id string) (*game.Game, error) {
	return s.mutate(ctx, id, func(g *game.Game) (*game.Game, error) {
		return s.engine.TakeHand(g)
	})
}

// DealPlayerHand deals a single player's hand.
func (s *Service) DealPlayerHand(ctx context.Context, id string, p game.Player) (*game.Game, error) {
	return s.mutate(ctx, id, func(g *game.Game) (*game.Game, error) {
		return s.engine.DealHand(g, p)
	})
}

// PlayTurn resolves the current turn. A nil selection for the computer
// player is chosen by the engine.
func (s *Service) PlayTurn(ctx context.Context, id string, selP1, selP2 []int) (*game.Game, *game.TurnResult, error) {
	var result *game.TurnResult
	g, err := s.mutate(ctx, id, func(g *game.Game) (*game.Game, error) {
		next, r, err := s.engine.PlayTurn(g, selP1, selP2)
		if err != nil {
			return nil, err
		}
		result = r
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return g, result, nil
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*game.Game) (*game.Game, error)) (*game.Game, error) {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		var current, next, saved *game.Game
		if current, err = s.repo.Get(ctx, id); err != nil {
			return nil, err
		}
		if next, err = apply(current); err != nil {
			return nil, err
		}
		saved, err = s.repo.Save(ctx, next)
		if err == nil {
			return saved, nil
		}
		if !game.Retryable(err) {
			return nil, err
		}
		s.logger.Debug("Retrying after concurrent modification", "game", id, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(err, ctxErr)
		}
	}
	s.logger.Warn("Giving up after concurrent modifications", "game", id, "attempts", s.maxAttempts)
	return nil, err
}
