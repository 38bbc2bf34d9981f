package game

import (
	"fmt"
	"slices"

	"github.com/lox/cardsgame/internal/deck"
)

// Selector picks n card indexes from a hand for a computer player.
type Selector interface {
	Select(hand []deck.Card, target, n int) []int
}

// ClosestSelector searches every n-card combination and returns the one whose
// sum lies closest to the target, preferring the lowest indexes on ties.
type ClosestSelector struct{}

func (ClosestSelector) Select(hand []deck.Card, target, n int) []int {
	if n <= 0 || n > len(hand) {
		return nil
	}

	var best []int
	bestDist := -1
	combo := make([]int, n)
	var walk func(start, depth, sum int)
	walk = func(start, depth, sum int) {
		if depth == n {
			if d := distance(target, sum); bestDist < 0 || d < bestDist {
				bestDist = d
				best = slices.Clone(combo)
			}
			return
		}
		for i := start; i <= len(hand)-(n-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1, sum+hand[i].Rank)
		}
	}
	walk(0, 0, 0)
	return best
}

// RandomSelector picks distinct indexes uniformly at random.
type RandomSelector struct {
	rng deck.Shuffler
}

// NewRandomSelector creates a selector drawing from rng.
func NewRandomSelector(rng deck.Shuffler) *RandomSelector {
	return &RandomSelector{rng: rng}
}

func (s *RandomSelector) Select(hand []deck.Card, _ int, n int) []int {
	if n <= 0 || n > len(hand) {
		return nil
	}
	perm := make([]int, len(hand))
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := perm[:n]
	slices.Sort(out)
	return out
}

// NewSelector returns the named strategy: "closest" or "random".
func NewSelector(name string, rng deck.Shuffler) (Selector, error) {
	switch name {
	case "", "closest":
		return ClosestSelector{}, nil
	case "random":
		return NewRandomSelector(rng), nil
	default:
		return nil, fmt.Errorf("unknown computer strategy %q", name)
	}
}
