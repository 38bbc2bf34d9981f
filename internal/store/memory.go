package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/cardsgame/internal/game"
)

// MemoryStore keeps games in a map. It is the default backend and the one
// used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*game.Game)}
}

func (s *MemoryStore) Create(ctx context.Context, g *game.Game) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, g.ID)
	}
	stored := g.Clone()
	stored.Version = 1
	s.games[g.ID] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, notFound(id)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, g *game.Game) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.games[g.ID]
	if !ok {
		return nil, notFound(g.ID)
	}
	if current.Version != g.Version {
		return nil, staleVersion(g.ID, g.Version, current.Version)
	}
	stored := g.Clone()
	stored.Version++
	s.games[g.ID] = stored
	return stored.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.games[id]
	delete(s.games, id)
	return ok, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*game.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g.Clone())
	}
	s.mu.RUnlock()

	sortGames(out)
	return out, nil
}
