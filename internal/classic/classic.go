// Package classic plays the one-card variant of the game: each turn both
// players flip their top card, the higher rank takes both cards to the bottom
// of its deck, and equal ranks are discarded. A player who runs out of cards
// loses. Games are fully automatic, so the package only simulates them.
package classic

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
)

// DefaultMaxTurns caps games that cycle; reaching it is a draw.
const DefaultMaxTurns = 500

// Config controls a classic game.
type Config struct {
	NameP1   string
	NameP2   string
	MaxTurns int
	Logger   *log.Logger
}

func (c *Config) applyDefaults() {
	if c.NameP1 == "" {
		c.NameP1 = "p1"
	}
	if c.NameP2 == "" {
		c.NameP2 = "p2"
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Round is one flip.
type Round struct {
	Turn   int         `json:"turn"`
	CardP1 deck.Card   `json:"card_p1"`
	CardP2 deck.Card   `json:"card_p2"`
	Winner game.Player `json:"winner"` // 0 when the ranks tie
	// Deck sizes after the round.
	LenDeckP1 int `json:"len_deck_p1"`
	LenDeckP2 int `json:"len_deck_p2"`
}

// Result is a completed game.
type Result struct {
	NameP1    string         `json:"name_p1"`
	NameP2    string         `json:"name_p2"`
	Special   map[int]string `json:"-"`
	Rounds    []Round        `json:"rounds"`
	Discarded []deck.Card    `json:"discarded"`
	Winner    string         `json:"winner"` // "" for a draw
	TurnCap   bool           `json:"turn_cap"`
}

// Turns is the number of rounds played.
func (r *Result) Turns() int {
	return len(r.Rounds)
}

// Play shuffles d, splits it between the players and plays to the end.
func Play(d *deck.Deck, rng deck.Shuffler, cfg Config) (*Result, error) {
	a, b, err := deck.ShuffleAndPartition(d, rng)
	if err != nil {
		return nil, err
	}
	return PlayDecks(a, b, cfg)
}

// PlayDecks plays a game from the given starting decks.
func PlayDecks(a, b *deck.Deck, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	if cfg.NameP1 == cfg.NameP2 {
		return nil, fmt.Errorf("%w: both players are named %q", game.ErrInvalidPlayerName, cfg.NameP1)
	}
	logger := cfg.Logger.WithPrefix("classic")

	res := &Result{
		NameP1:    cfg.NameP1,
		NameP2:    cfg.NameP2,
		Special:   a.SpecialRanks,
		Rounds:    []Round{},
		Discarded: []deck.Card{},
	}
	for a.Len() > 0 && b.Len() > 0 {
		if len(res.Rounds) >= cfg.MaxTurns {
			res.TurnCap = true
			break
		}

		top1, restA, err := a.Draw(1)
		if err != nil {
			return nil, err
		}
		top2, restB, err := b.Draw(1)
		if err != nil {
			return nil, err
		}
		c1, c2 := top1[0], top2[0]
		a, b = restA, restB

		round := Round{Turn: len(res.Rounds) + 1, CardP1: c1, CardP2: c2}
		switch {
		case c1.Rank > c2.Rank:
			a = a.Append(c2, c1)
			round.Winner = game.PlayerOne
		case c2.Rank > c1.Rank:
			b = b.Append(c1, c2)
			round.Winner = game.PlayerTwo
		default:
			res.Discarded = append(res.Discarded, c2, c1)
		}
		round.LenDeckP1, round.LenDeckP2 = a.Len(), b.Len()
		res.Rounds = append(res.Rounds, round)
		logger.Debug("Round played", "turn", round.Turn, "p1", c1, "p2", c2,
			"winner", round.Winner, "len_p1", round.LenDeckP1, "len_p2", round.LenDeckP2)
	}

	switch {
	case res.TurnCap, a.Len() == 0 && b.Len() == 0:
		res.Winner = ""
	case a.Len() == 0:
		res.Winner = cfg.NameP2
	case b.Len() == 0:
		res.Winner = cfg.NameP1
	}
	logger.Info("Classic game finished", "turns", res.Turns(), "winner", res.Winner, "turn_cap", res.TurnCap)
	return res, nil
}
