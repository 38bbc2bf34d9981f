package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/game"
	"golang.org/x/sync/errgroup"
)

const (
	fileExt      = ".json"
	listWorkers  = 8
	gameFilePerm = 0o644
	storeDirPerm = 0o755
)

// FileStore keeps one JSON document per game in a directory. Writes go
// through an atomic rename; the version check is serialised in-process.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *log.Logger
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, storeDirPerm); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{dir: dir, logger: logger.WithPrefix("file-store")}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return "", notFound(id)
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

func (s *FileStore) read(path, id string) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read game %s: %w", id, err)
	}
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}

func (s *FileStore) write(path string, g *game.Game) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	return writeFileAtomic(path, data, gameFilePerm)
}

func (s *FileStore) Create(ctx context.Context, g *game.Game) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(g.ID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, g.ID)
	}
	stored := g.Clone()
	stored.Version = 1
	if err := s.write(path, stored); err != nil {
		return nil, err
	}
	s.logger.Debug("Game created", "game", g.ID)
	return stored, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	return s.read(path, id)
}

func (s *FileStore) Save(ctx context.Context, g *game.Game) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(g.ID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(path, g.ID)
	if err != nil {
		return nil, err
	}
	if current.Version != g.Version {
		return nil, staleVersion(g.ID, g.Version, current.Version)
	}
	stored := g.Clone()
	stored.Version++
	if err := s.write(path, stored); err != nil {
		return nil, err
	}
	s.logger.Debug("Game saved", "game", g.ID, "version", stored.Version)
	return stored, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.path(id)
	if err != nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete game %s: %w", id, err)
	}
	return true, nil
}

// List decodes every game document concurrently.
func (s *FileStore) List(ctx context.Context) ([]*game.Game, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}

	games := make([]*game.Game, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listWorkers)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := strings.TrimSuffix(name, fileExt)
			loaded, err := s.read(filepath.Join(s.dir, name), id)
			if errors.Is(err, game.ErrNotFound) {
				// removed between ReadDir and read
				return nil
			}
			if err != nil {
				return err
			}
			games[i] = loaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := games[:0]
	for _, loaded := range games {
		if loaded != nil {
			out = append(out, loaded)
		}
	}
	sortGames(out)
	return out, nil
}
