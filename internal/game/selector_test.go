package game

import (
	"testing"

	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestSelector(t *testing.T) {
	tests := []struct {
		name   string
		hand   []deck.Card
		target int
		want   []int
	}{
		{"exact hit", cards(10, 4, 5), 15, []int{0, 2}},
		{"closest below", cards(1, 2, 3), 26, []int{1, 2}},
		{"closest above", cards(13, 12, 11), 2, []int{1, 2}},
		{"ties prefer lowest indexes", cards(5, 5, 5), 10, []int{0, 1}},
		{"two card hand", cards(7, 1), 3, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClosestSelector{}.Select(tt.hand, tt.target, 2))
		})
	}
}

func TestClosestSelectorIsOptimal(t *testing.T) {
	rng := randutil.New(7)
	sel := ClosestSelector{}

	for range 200 {
		hand := cards(rng.IntN(13)+1, rng.IntN(13)+1, rng.IntN(13)+1)
		target := rng.IntN(25) + 2

		got := sel.Select(hand, target, 2)
		require.NoError(t, ValidateSelection(hand, got, 2))
		best := distance(target, hand[got[0]].Rank+hand[got[1]].Rank)
		for i := range hand {
			for j := i + 1; j < len(hand); j++ {
				assert.LessOrEqual(t, best, distance(target, hand[i].Rank+hand[j].Rank))
			}
		}
	}
}

func TestSelectorsRejectShortHands(t *testing.T) {
	assert.Nil(t, ClosestSelector{}.Select(cards(4), 10, 2))
	assert.Nil(t, NewRandomSelector(randutil.New(1)).Select(cards(4), 10, 2))
}

func TestRandomSelectorPicksValidIndexes(t *testing.T) {
	sel := NewRandomSelector(randutil.New(3))
	hand := cards(1, 2, 3)
	seen := map[[2]int]bool{}

	for range 100 {
		got := sel.Select(hand, 10, 2)
		require.NoError(t, ValidateSelection(hand, got, 2))
		seen[[2]int{got[0], got[1]}] = true
	}
	assert.Len(t, seen, 3, "every pair should come up")
}

func TestNewSelector(t *testing.T) {
	s, err := NewSelector("closest", nil)
	require.NoError(t, err)
	assert.IsType(t, ClosestSelector{}, s)

	s, err = NewSelector("random", randutil.New(1))
	require.NoError(t, err)
	assert.IsType(t, &RandomSelector{}, s)

	_, err = NewSelector("psychic", nil)
	assert.Error(t, err)
}
