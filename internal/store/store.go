// Package store persists games behind the Repository contract. Every
// adapter enforces the same optimistic version check on Save so that at most
// one mutation of a game wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"
	"github.com/lox/cardsgame/internal/game"
)

// ErrExists is returned by Create for an id that is already stored.
var ErrExists = errors.New("game already exists")

// Repository is the persistence contract for games. Implementations return
// copies: callers may mutate what they receive without affecting the store.
type Repository interface {
	// Create inserts a new game and sets its version to 1.
	Create(ctx context.Context, g *game.Game) (*game.Game, error)
	// Get returns the game or game.ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)
	// Save replaces the game if g.Version matches the stored version and
	// returns it with the version bumped. A stale version yields
	// game.ErrConcurrentModification.
	Save(ctx context.Context, g *game.Game) (*game.Game, error)
	// Delete removes the game, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// List returns every game ordered by creation date then id.
	List(ctx context.Context) ([]*game.Game, error)
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the repository named by opts.Backend.
func Open(ctx context.Context, opts Options, logger *log.Logger) (Repository, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir, logger)
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return NewRedisStore(client, opts.RedisPrefix, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

func sortGames(games []*game.Game) {
	slices.SortFunc(games, func(a, b *game.Game) int {
		if a.CreatedDate != b.CreatedDate {
			if a.CreatedDate < b.CreatedDate {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", game.ErrNotFound, id)
}

func staleVersion(id string, have, want int64) error {
	return fmt.Errorf("%w: game %s is at version %d, save was based on %d",
		game.ErrConcurrentModification, id, want, have)
}
