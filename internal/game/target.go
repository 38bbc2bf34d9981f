package game

import "github.com/lox/cardsgame/internal/deck"

// NextTarget rolls a target uniformly from the sums reachable with
// cardsToPlay cards of d's ranks, so at least one player can always hit it.
func NextTarget(rng deck.Shuffler, d *deck.Deck, cardsToPlay int) int {
	lo := cardsToPlay * d.MinRank()
	hi := cardsToPlay * d.MaxRank()
	return lo + rng.IntN(hi-lo+1)
}
