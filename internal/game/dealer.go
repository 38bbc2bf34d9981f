package game

import (
	"fmt"

	"github.com/lox/cardsgame/internal/deck"
)

// DealHand draws up to handSize cards from the front of d. A short deck
// yields a short hand rather than an error.
func DealHand(d *deck.Deck, handSize int) ([]deck.Card, *deck.Deck) {
	n := min(handSize, d.Len())
	hand, rest, err := d.Draw(n)
	if err != nil {
		// n is bounded by the deck length above
		panic(fmt.Sprintf("dealer: draw %d of %d: %v", n, d.Len(), err))
	}
	return hand, rest
}

// dealInto deals a hand for p, rolling the turn's target if this is the
// first hand dealt for the turn.
func dealInto(g *Game, p Player, rules Rules, rng deck.Shuffler) error {
	if len(g.Hand(p)) > 0 {
		return fmt.Errorf("%w: %s already holds %d cards", ErrHandAlreadyDealt, g.Name(p), len(g.Hand(p)))
	}
	if len(g.Hand(p.Other())) == 0 {
		g.CurrentTarget = NextTarget(rng, g.Deck(p), rules.CardsToPlay)
	}
	hand, rest := DealHand(g.Deck(p), rules.HandSize)
	g.setHand(p, hand)
	g.setDeck(p, rest)
	return nil
}
