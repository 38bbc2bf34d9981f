package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/gameid"
	"github.com/lox/cardsgame/internal/randutil"
)

// Engine applies game operations to Game values. It holds no game state of
// its own and is safe for concurrent use.
type Engine struct {
	rules    Rules
	rng      randutil.Source
	clock    quartz.Clock
	ids      *gameid.Generator
	selector Selector
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithRand sets the randomness used for shuffling, targets and the random
// computer strategy.
func WithRand(src randutil.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithClock sets the clock used for creation timestamps.
func WithClock(c quartz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the game id source.
func WithIDGenerator(g *gameid.Generator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithSelector sets the computer player's strategy.
func WithSelector(s Selector) Option {
	return func(e *Engine) { e.selector = s }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an engine, validating its rules.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.rules.Validate(); err != nil {
		return nil, err
	}
	if e.rng == nil {
		rng, _ := randutil.NewUnseeded()
		e.rng = rng
	}
	e.rng = randutil.Locked(e.rng)
	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.ids == nil {
		e.ids = gameid.NewGenerator(nil)
	}
	if e.selector == nil {
		e.selector = ClosestSelector{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e, nil
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// IsComputer reports whether name is the computer player.
func (e *Engine) IsComputer(name string) bool {
	return name == e.rules.ComputerName
}

// NewGame builds a fresh game with a shuffled deck split between the players.
func (e *Engine) NewGame(nameP1, nameP2 string) (*Game, error) {
	nameP1 = strings.TrimSpace(nameP1)
	nameP2 = strings.TrimSpace(nameP2)
	if nameP1 == "" || nameP2 == "" {
		return nil, fmt.Errorf("%w: player names must not be empty", ErrInvalidPlayerName)
	}
	if nameP1 == nameP2 {
		return nil, fmt.Errorf("%w: both players are named %q", ErrInvalidPlayerName, nameP1)
	}

	full, err := deck.New(e.rules.NumRanks, e.rules.SpecialRanks, e.rules.Suits)
	if err != nil {
		return nil, err
	}
	deckP1, deckP2, err := deck.ShuffleAndPartition(full, e.rng)
	if err != nil {
		return nil, err
	}
	id, err := e.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate game id: %w", err)
	}

	g := &Game{
		ID:          id,
		NameP1:      nameP1,
		NameP2:      nameP2,
		DeckP1:      deckP1,
		DeckP2:      deckP2,
		HandP1:      []deck.Card{},
		HandP2:      []deck.Card{},
		CreatedDate: e.clock.Now().Unix(),
		History:     History{},
	}
	e.logger.Debug("Game created", "id", g.ID, "p1", nameP1, "p2", nameP2, "deck", deckP1.Len())
	return g, nil
}

// DealHand deals a single player's hand.
func (e *Engine) DealHand(g *Game, p Player) (*Game, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, int(p))
	}
	if g.Finished {
		return nil, fmt.Errorf("%w: winner %q", ErrGameFinished, g.Winner)
	}
	from := g.State()
	next := g.Clone()
	if err := dealInto(next, p, e.rules, e.rng); err != nil {
		return nil, err
	}
	e.logTransition(next, from)
	return next, nil
}

// TakeHand deals whichever hands are still empty. If both players already
// hold cards it fails with ErrHandAlreadyDealt.
func (e *Engine) TakeHand(g *Game) (*Game, error) {
	if g.Finished {
		return nil, fmt.Errorf("%w: winner %q", ErrGameFinished, g.Winner)
	}
	if len(g.HandP1) > 0 && len(g.HandP2) > 0 {
		return nil, fmt.Errorf("%w: both players hold cards for turn %d", ErrHandAlreadyDealt, g.NumTurns+1)
	}
	from := g.State()
	next := g.Clone()
	for _, p := range Players {
		if len(next.Hand(p)) > 0 {
			continue
		}
		if err := dealInto(next, p, e.rules, e.rng); err != nil {
			return nil, err
		}
	}
	e.logTransition(next, from)
	return next, nil
}

// PlayTurn resolves the turn with the given selections. A nil selection for
// the computer player is filled in by the engine's selector.
func (e *Engine) PlayTurn(g *Game, selP1, selP2 []int) (*Game, *TurnResult, error) {
	if !g.Finished && len(g.HandP1) > 0 && len(g.HandP2) > 0 {
		if selP1 == nil && e.IsComputer(g.NameP1) {
			selP1 = e.AutoSelect(g, PlayerOne)
		}
		if selP2 == nil && e.IsComputer(g.NameP2) {
			selP2 = e.AutoSelect(g, PlayerTwo)
		}
	}
	from := g.State()
	next, result, err := ResolveTurn(g, e.rules, selP1, selP2)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug("Turn resolved",
		"id", next.ID,
		"turn", result.NumTurns,
		"target", result.Target,
		"sum_p1", result.SumP1,
		"sum_p2", result.SumP2,
		"winner", result.TurnWinner)
	e.logTransition(next, from)
	return next, result, nil
}

// AutoSelect returns the selector's choice for p's current hand.
func (e *Engine) AutoSelect(g *Game, p Player) []int {
	return e.selector.Select(g.Hand(p), g.CurrentTarget, e.rules.CardsToPlay)
}

func (e *Engine) logTransition(g *Game, from State) {
	to := g.State()
	if to == from {
		return
	}
	if to == StateFinished {
		e.logger.Info("Game finished", "id", g.ID, "winner", g.Winner, "turns", g.NumTurns)
		return
	}
	e.logger.Debug("Game state changed", "id", g.ID, "from", from, "to", to)
}
