package game

import (
	"fmt"
	"strings"

	"github.com/lox/cardsgame/internal/deck"
)

// Rules holds the tunable parameters of a game.
type Rules struct {
	NumRanks     int
	SpecialRanks map[int]string
	Suits        []deck.Suit

	// HandSize is the number of cards dealt per player each turn, fewer when
	// the deck runs short.
	HandSize int

	// CardsToPlay is the number of hand cards each player selects. It is also
	// the minimum deck size that keeps a player in the game.
	CardsToPlay int

	// ComputerName marks the computer-controlled player.
	ComputerName string
}

// DefaultRules returns the standard 52-card, three-card-hand rules.
func DefaultRules() Rules {
	return Rules{
		NumRanks:     deck.DefaultNumRanks,
		SpecialRanks: deck.DefaultSpecialRanks(),
		Suits:        deck.AllSuits,
		HandSize:     3,
		CardsToPlay:  2,
		ComputerName: "PC",
	}
}

// Validate checks the rules describe a playable game.
func (r Rules) Validate() error {
	if r.CardsToPlay < 1 {
		return fmt.Errorf("cards to play must be positive, got %d", r.CardsToPlay)
	}
	if r.HandSize < r.CardsToPlay {
		return fmt.Errorf("hand size %d is smaller than cards to play %d", r.HandSize, r.CardsToPlay)
	}
	if strings.TrimSpace(r.ComputerName) == "" {
		return fmt.Errorf("computer name must not be empty")
	}
	if r.NumRanks < 1 || len(r.Suits) == 0 {
		return fmt.Errorf("%w: need at least one rank and one suit", deck.ErrInvalidDeckSize)
	}
	total := r.NumRanks * len(r.Suits)
	if total%2 != 0 {
		return fmt.Errorf("%w: %d cards cannot be split between two players", deck.ErrInvalidDeckSize, total)
	}
	if total/2 < r.CardsToPlay {
		return fmt.Errorf("%w: %d cards per player is fewer than the %d needed for a turn",
			deck.ErrInvalidDeckSize, total/2, r.CardsToPlay)
	}
	return nil
}

// MinDeckCards is the deck size below which a player can no longer play.
func (r Rules) MinDeckCards() int {
	return r.CardsToPlay
}

// TargetRange is the inclusive range of achievable sums.
func (r Rules) TargetRange() (int, int) {
	return r.CardsToPlay * 1, r.CardsToPlay * r.NumRanks
}
