package game

import (
	"fmt"
	"slices"

	"github.com/lox/cardsgame/internal/deck"
)

// TurnResult describes a resolved turn. Hands are the hands as they were
// before resolution; deck lengths are after.
type TurnResult struct {
	ID         string      `json:"_id"`
	NameP1     string      `json:"_name_p1"`
	NameP2     string      `json:"_name_p2"`
	NumTurns   int         `json:"_num_turns"`
	Target     int         `json:"_current_target"`
	HandP1     []deck.Card `json:"_hand_p1"`
	HandP2     []deck.Card `json:"_hand_p2"`
	IndexesP1  []int       `json:"_indexes_hand_p1"`
	IndexesP2  []int       `json:"_indexes_hand_p2"`
	SumP1      int         `json:"_current_target_approx_p1"`
	SumP2      int         `json:"_current_target_approx_p2"`
	DistanceP1 int         `json:"_distance_p1"`
	DistanceP2 int         `json:"_distance_p2"`
	TurnWinner string      `json:"_turn_winner"`
	LenDeckP1  int         `json:"_len_deck_p1"`
	LenDeckP2  int         `json:"_len_deck_p2"`
	Winner     string      `json:"_winner"`
	Finished   bool        `json:"_finished"`
}

// ValidateSelection checks idx picks exactly n distinct cards of hand.
func ValidateSelection(hand []deck.Card, idx []int, n int) error {
	if len(idx) != n {
		return fmt.Errorf("%w: must select exactly %d cards, got %d", ErrInvalidSelection, n, len(idx))
	}
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(hand) {
			return fmt.Errorf("%w: index %d is outside the hand (0..%d)", ErrInvalidSelection, i, len(hand)-1)
		}
		if seen[i] {
			return fmt.Errorf("%w: index %d selected more than once", ErrInvalidSelection, i)
		}
		seen[i] = true
	}
	return nil
}

func pick(hand []deck.Card, idx []int) []deck.Card {
	out := make([]deck.Card, len(idx))
	for i, j := range idx {
		out[i] = hand[j]
	}
	return out
}

func distance(target, sum int) int {
	if d := target - sum; d >= 0 {
		return d
	}
	return sum - target
}

// ResolveTurn scores both selections against the current target and returns
// the updated game. The input game is never modified; on error nothing is
// applied.
func ResolveTurn(g *Game, rules Rules, selP1, selP2 []int) (*Game, *TurnResult, error) {
	if g.Finished {
		return nil, nil, fmt.Errorf("%w: winner %q", ErrGameFinished, g.Winner)
	}
	if len(g.HandP1) == 0 || len(g.HandP2) == 0 {
		return nil, nil, fmt.Errorf("%w: both players need a hand before playing", ErrHandsNotReady)
	}
	if err := ValidateSelection(g.HandP1, selP1, rules.CardsToPlay); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", g.NameP1, err)
	}
	if err := ValidateSelection(g.HandP2, selP2, rules.CardsToPlay); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", g.NameP2, err)
	}

	next := g.Clone()
	chosenP1 := pick(g.HandP1, selP1)
	chosenP2 := pick(g.HandP2, selP2)
	sumP1 := deck.SumRanks(chosenP1)
	sumP2 := deck.SumRanks(chosenP2)
	distP1 := distance(g.CurrentTarget, sumP1)
	distP2 := distance(g.CurrentTarget, sumP2)

	var turnWinner string
	switch {
	case distP1 < distP2:
		turnWinner = g.NameP1
	case distP2 < distP1:
		turnWinner = g.NameP2
	}

	// Pre-turn composition is the dealt hand followed by what remains, since
	// hands are drawn from the front of the deck.
	preP1 := append(slices.Clone(g.HandP1), g.DeckP1.Cards...)
	preP2 := append(slices.Clone(g.HandP2), g.DeckP2.Cards...)

	next.NumTurns++
	next.setHand(PlayerOne, nil)
	next.setHand(PlayerTwo, nil)
	next.CurrentTarget = 0
	next.History = append(next.History, TurnRecord{
		Turn:       next.NumTurns,
		Target:     g.CurrentTarget,
		DeckP1:     g.Labels(preP1),
		DeckP2:     g.Labels(preP2),
		SelectedP1: chosenP1,
		SelectedP2: chosenP2,
		SumP1:      sumP1,
		SumP2:      sumP2,
		LenDeckP1:  next.DeckP1.Len(),
		LenDeckP2:  next.DeckP2.Len(),
		TurnWinner: turnWinner,
	})
	settle(next, rules.MinDeckCards())

	result := &TurnResult{
		ID:         next.ID,
		NameP1:     next.NameP1,
		NameP2:     next.NameP2,
		NumTurns:   next.NumTurns,
		Target:     g.CurrentTarget,
		HandP1:     slices.Clone(g.HandP1),
		HandP2:     slices.Clone(g.HandP2),
		IndexesP1:  slices.Clone(selP1),
		IndexesP2:  slices.Clone(selP2),
		SumP1:      sumP1,
		SumP2:      sumP2,
		DistanceP1: distP1,
		DistanceP2: distP2,
		TurnWinner: turnWinner,
		LenDeckP1:  next.DeckP1.Len(),
		LenDeckP2:  next.DeckP2.Len(),
		Winner:     next.Winner,
		Finished:   next.Finished,
	}
	return next, result, nil
}
