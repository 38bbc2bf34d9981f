package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"
	"github.com/lox/cardsgame/internal/game"
)

// DefaultRedisPrefix namespaces keys when no prefix is configured.
const DefaultRedisPrefix = "cardsgame"

// RedisStore keeps each game as a JSON string under <prefix>:game:<id> and
// indexes ids in the set <prefix>:games. Saves run in a WATCH/MULTI
// transaction so a concurrent writer aborts the slower one.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	logger *log.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb redis.UniversalClient, prefix string, logger *log.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RedisStore{rdb: rdb, prefix: prefix, logger: logger.WithPrefix("redis-store")}
}

func (s *RedisStore) gameKey(id string) string {
	return fmt.Sprintf("%s:game:%s", s.prefix, id)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":games"
}

func decodeGame(id, raw string) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}

func (s *RedisStore) Create(ctx context.Context, g *game.Game) (*game.Game, error) {
	stored := g.Clone()
	stored.Version = 1
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", g.ID, err)
	}

	// The document and its index entry land together or not at all. Adding
	// an existing id to the index is a no-op.
	var created *redis.BoolCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, s.gameKey(g.ID), data, 0)
		pipe.SAdd(ctx, s.indexKey(), g.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create game %s: %w", g.ID, err)
	}
	if !created.Val() {
		return nil, fmt.Errorf("%w: %s", ErrExists, g.ID)
	}
	s.logger.Debug("Game created", "game", g.ID)
	return stored, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*game.Game, error) {
	raw, err := s.rdb.Get(ctx, s.gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return decodeGame(id, raw)
}

func (s *RedisStore) Save(ctx context.Context, g *game.Game) (*game.Game, error) {
	key := s.gameKey(g.ID)
	var stored *game.Game

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return notFound(g.ID)
		}
		if err != nil {
			return err
		}
		current, err := decodeGame(g.ID, raw)
		if err != nil {
			return err
		}
		if current.Version != g.Version {
			return staleVersion(g.ID, g.Version, current.Version)
		}

		next := g.Clone()
		next.Version++
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode game %s: %w", g.ID, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		stored = next
		return nil
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return nil, fmt.Errorf("%w: game %s changed during save", game.ErrConcurrentModification, g.ID)
	case err != nil:
		return nil, err
	}
	s.logger.Debug("Game saved", "game", g.ID, "version", stored.Version)
	return stored, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.gameKey(id))
		pipe.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete game %s: %w", id, err)
	}
	return del.Val() > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*game.Game, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list game ids: %w", err)
	}
	if len(ids) == 0 {
		return []*game.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.gameKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	out := make([]*game.Game, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn("Indexed game missing", "game", ids[i])
			continue
		}
		g, err := decodeGame(ids[i], raw)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	sortGames(out)
	return out, nil
}
