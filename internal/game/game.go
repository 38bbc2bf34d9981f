package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/lox/cardsgame/internal/deck"
)

// Player identifies a seat in a two-player game.
type Player int

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

// Players lists both seats in order.
var Players = []Player{PlayerOne, PlayerTwo}

// Other returns the opposing seat.
func (p Player) Other() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Valid reports whether p is one of the two seats.
func (p Player) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

func (p Player) String() string {
	return fmt.Sprintf("p%d", int(p))
}

// Game is the persisted aggregate. JSON field names are the stable names
// consumers read.
type Game struct {
	ID            string      `json:"_id"`
	NameP1        string      `json:"_name_p1"`
	NameP2        string      `json:"_name_p2"`
	DeckP1        *deck.Deck  `json:"_deck_p1"`
	DeckP2        *deck.Deck  `json:"_deck_p2"`
	HandP1        []deck.Card `json:"_hand_p1"`
	HandP2        []deck.Card `json:"_hand_p2"`
	CurrentTarget int         `json:"_current_target"`
	NumTurns      int         `json:"_num_turns"`
	Winner        string      `json:"_winner"`
	Finished      bool        `json:"_finished"`
	CreatedDate   int64       `json:"_created_date"`
	History       History     `json:"_history"`

	// Version is the optimistic concurrency token maintained by repositories.
	Version int64 `json:"_version"`
}

// TurnRecord is the immutable history entry written for a resolved turn.
type TurnRecord struct {
	Turn       int         `json:"turn"`
	Target     int         `json:"target"`
	DeckP1     []string    `json:"deckPlayer1"`
	DeckP2     []string    `json:"deckPlayer2"`
	SelectedP1 []deck.Card `json:"cardsSelectedPlayer1"`
	SelectedP2 []deck.Card `json:"cardsSelectedPlayer2"`
	SumP1      int         `json:"sumCardsSelectedPlayer1"`
	SumP2      int         `json:"sumCardsSelectedPlayer2"`
	LenDeckP1  int         `json:"lenDeckPlayer1"`
	LenDeckP2  int         `json:"lenDeckPlayer2"`
	TurnWinner string      `json:"turnWinner"`
}

// History is the append-only turn log, encoded as an object keyed by turn.
type History []TurnRecord

// MarshalJSON encodes the history keyed by turn number.
func (h History) MarshalJSON() ([]byte, error) {
	byTurn := make(map[int]TurnRecord, len(h))
	for _, rec := range h {
		byTurn[rec.Turn] = rec
	}
	return json.Marshal(byTurn)
}

// UnmarshalJSON decodes a turn-keyed object back into turn order.
func (h *History) UnmarshalJSON(data []byte) error {
	var byTurn map[int]TurnRecord
	if err := json.Unmarshal(data, &byTurn); err != nil {
		return err
	}
	out := make(History, 0, len(byTurn))
	for turn, rec := range byTurn {
		rec.Turn = turn
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Turn < out[j].Turn })
	*h = out
	return nil
}

// TurnWins counts the turns won by name.
func (h History) TurnWins(name string) int {
	wins := 0
	for _, rec := range h {
		if rec.TurnWinner == name {
			wins++
		}
	}
	return wins
}

// Name returns the player's name.
func (g *Game) Name(p Player) string {
	if p == PlayerOne {
		return g.NameP1
	}
	return g.NameP2
}

// Deck returns the player's remaining deck.
func (g *Game) Deck(p Player) *deck.Deck {
	if p == PlayerOne {
		return g.DeckP1
	}
	return g.DeckP2
}

// Hand returns the player's current hand.
func (g *Game) Hand(p Player) []deck.Card {
	if p == PlayerOne {
		return g.HandP1
	}
	return g.HandP2
}

func (g *Game) setDeck(p Player, d *deck.Deck) {
	if p == PlayerOne {
		g.DeckP1 = d
	} else {
		g.DeckP2 = d
	}
}

func (g *Game) setHand(p Player, h []deck.Card) {
	if h == nil {
		h = []deck.Card{}
	}
	if p == PlayerOne {
		g.HandP1 = h
	} else {
		g.HandP2 = h
	}
}

// PlayerByName returns the seat for name.
func (g *Game) PlayerByName(name string) (Player, bool) {
	switch name {
	case g.NameP1:
		return PlayerOne, true
	case g.NameP2:
		return PlayerTwo, true
	}
	return 0, false
}

// Clone returns a deep copy so engine operations never mutate their input.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.DeckP1 = g.DeckP1.Clone()
	c.DeckP2 = g.DeckP2.Clone()
	c.HandP1 = cloneCards(g.HandP1)
	c.HandP2 = cloneCards(g.HandP2)
	c.History = make(History, len(g.History))
	for i, rec := range g.History {
		rec.DeckP1 = slices.Clone(rec.DeckP1)
		rec.DeckP2 = slices.Clone(rec.DeckP2)
		rec.SelectedP1 = slices.Clone(rec.SelectedP1)
		rec.SelectedP2 = slices.Clone(rec.SelectedP2)
		c.History[i] = rec
	}
	return &c
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return []deck.Card{}
	}
	return slices.Clone(cards)
}

// Labels renders cards with the game's special rank table.
func (g *Game) Labels(cards []deck.Card) []string {
	var special map[int]string
	if g.DeckP1 != nil {
		special = g.DeckP1.SpecialRanks
	}
	return deck.Labels(cards, special)
}
