// Package config loads cardsgame settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/store"
)

// Config is the complete configuration. Every block is optional.
type Config struct {
	Game    *GameSettings    `hcl:"game,block"`
	Store   *StoreSettings   `hcl:"store,block"`
	Service *ServiceSettings `hcl:"service,block"`
	Log     *LogSettings     `hcl:"log,block"`
}

// GameSettings tunes the rules of new games.
type GameSettings struct {
	NumRanks         int               `hcl:"num_ranks,optional"`
	HandSize         int               `hcl:"hand_size,optional"`
	CardsToPlay      int               `hcl:"cards_to_play,optional"`
	ComputerName     string            `hcl:"computer_name,optional"`
	ComputerStrategy string            `hcl:"computer_strategy,optional"`
	SpecialRanks     map[string]string `hcl:"special_ranks,optional"`
	Suits            []string          `hcl:"suits,optional"`
}

// StoreSettings picks the repository backend.
type StoreSettings struct {
	Backend       string `hcl:"backend,optional"`
	Dir           string `hcl:"dir,optional"`
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	RedisPrefix   string `hcl:"redis_prefix,optional"`
}

// ServiceSettings controls the game service.
type ServiceSettings struct {
	MaxAttempts int `hcl:"max_attempts,optional"`
}

// LogSettings controls logging.
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

const (
	DefaultStrategy    = "closest"
	DefaultStoreDir    = ".cardsgame"
	DefaultRedisAddr   = "localhost:6379"
	DefaultMaxAttempts = 3
	DefaultLogLevel    = "info"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to defaults when it does not exist.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration from HCL source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var c Config
	if diags := gohcl.DecodeBody(body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	rules := game.DefaultRules()

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.NumRanks == 0 {
		c.Game.NumRanks = rules.NumRanks
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = rules.HandSize
	}
	if c.Game.CardsToPlay == 0 {
		c.Game.CardsToPlay = rules.CardsToPlay
	}
	if c.Game.ComputerName == "" {
		c.Game.ComputerName = rules.ComputerName
	}
	if c.Game.ComputerStrategy == "" {
		c.Game.ComputerStrategy = DefaultStrategy
	}
	if c.Game.SpecialRanks == nil {
		c.Game.SpecialRanks = make(map[string]string, len(rules.SpecialRanks))
		for rank, label := range rules.SpecialRanks {
			c.Game.SpecialRanks[strconv.Itoa(rank)] = label
		}
	}
	if len(c.Game.Suits) == 0 {
		for _, s := range rules.Suits {
			c.Game.Suits = append(c.Game.Suits, s.String())
		}
	}

	if c.Store == nil {
		c.Store = &StoreSettings{}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendFile
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = DefaultRedisAddr
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = store.DefaultRedisPrefix
	}

	if c.Service == nil {
		c.Service = &ServiceSettings{}
	}
	if c.Service.MaxAttempts == 0 {
		c.Service.MaxAttempts = DefaultMaxAttempts
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	rules, err := c.Rules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := game.NewSelector(c.Game.ComputerStrategy, nil); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendRedis:
	default:
		return fmt.Errorf("store: invalid backend %q", c.Store.Backend)
	}
	if c.Store.RedisDB < 0 {
		return fmt.Errorf("store: redis_db must not be negative")
	}
	if c.Service.MaxAttempts < 1 {
		return fmt.Errorf("service: max_attempts must be positive, got %d", c.Service.MaxAttempts)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Rules converts the game block into engine rules.
func (c *Config) Rules() (game.Rules, error) {
	special := make(map[int]string, len(c.Game.SpecialRanks))
	for k, label := range c.Game.SpecialRanks {
		rank, err := strconv.Atoi(k)
		if err != nil {
			return game.Rules{}, fmt.Errorf("game: special_ranks key %q is not a rank", k)
		}
		if rank < 1 || rank > c.Game.NumRanks {
			return game.Rules{}, fmt.Errorf("game: special rank %d outside 1..%d", rank, c.Game.NumRanks)
		}
		special[rank] = label
	}

	suits := make([]deck.Suit, 0, len(c.Game.Suits))
	for _, name := range c.Game.Suits {
		s, err := deck.ParseSuit(name)
		if err != nil {
			return game.Rules{}, fmt.Errorf("game: %w", err)
		}
		if slices.Contains(suits, s) {
			return game.Rules{}, fmt.Errorf("game: suit %s listed twice", s)
		}
		suits = append(suits, s)
	}

	return game.Rules{
		NumRanks:     c.Game.NumRanks,
		SpecialRanks: special,
		Suits:        suits,
		HandSize:     c.Game.HandSize,
		CardsToPlay:  c.Game.CardsToPlay,
		ComputerName: c.Game.ComputerName,
	}, nil
}

// StoreOptions converts the store block for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		RedisPrefix:   c.Store.RedisPrefix,
	}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
