package deck

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cardsgame/internal/randutil"
)

func TestNewBuildsEveryRankSuitPairOnce(t *testing.T) {
	for _, numRanks := range []int{1, 5, 13} {
		d, err := New(numRanks, DefaultSpecialRanks(), AllSuits)
		require.NoError(t, err)
		require.Equal(t, numRanks*4, d.Len())

		seen := make(map[Card]int)
		for _, c := range d.Cards {
			seen[c]++
		}
		for _, s := range AllSuits {
			for rank := 1; rank <= numRanks; rank++ {
				assert.Equal(t, 1, seen[NewCard(rank, s)], "card %d%s", rank, s.Symbol())
			}
		}
	}
}

func TestNewOrderIsSuitMajor(t *testing.T) {
	d := NewStandard()
	assert.Equal(t, NewCard(1, Club), d.Cards[0])
	assert.Equal(t, NewCard(13, Club), d.Cards[12])
	assert.Equal(t, NewCard(1, Diamond), d.Cards[13])
	assert.Equal(t, NewCard(13, Spade), d.Cards[51])
	assert.Equal(t, map[string]string{"club": "♣", "diamond": "♦", "heart": "♥", "spade": "♠"}, d.Suits)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(0, nil, AllSuits)
	assert.ErrorIs(t, err, ErrInvalidDeckSize)

	_, err = New(13, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidDeckSize)

	_, err = New(13, nil, []Suit{Club, Club})
	assert.ErrorIs(t, err, ErrInvalidDeckSize)
}

func TestShuffleAndPartitionIsBijection(t *testing.T) {
	d := NewStandard()
	a, b, err := ShuffleAndPartition(d, randutil.New(1))
	require.NoError(t, err)

	assert.Equal(t, 26, a.Len())
	assert.Equal(t, 26, b.Len())

	union := append(slices.Clone(a.Cards), b.Cards...)
	assert.ElementsMatch(t, d.Cards, union)

	inA := make(map[Card]bool)
	for _, c := range a.Cards {
		inA[c] = true
	}
	for _, c := range b.Cards {
		assert.False(t, inA[c], "card %v in both halves", c)
	}

	assert.Equal(t, 52, d.Len(), "input deck must not be modified")
	assert.Equal(t, NewStandard().Cards, d.Cards)
}

func TestShuffleAndPartitionSeeded(t *testing.T) {
	a1, b1, err := ShuffleAndPartition(NewStandard(), randutil.New(99))
	require.NoError(t, err)
	a2, b2, err := ShuffleAndPartition(NewStandard(), randutil.New(99))
	require.NoError(t, err)

	assert.Equal(t, a1.Cards, a2.Cards)
	assert.Equal(t, b1.Cards, b2.Cards)

	a3, _, err := ShuffleAndPartition(NewStandard(), randutil.New(100))
	require.NoError(t, err)
	assert.NotEqual(t, a1.Cards, a3.Cards)
}

func TestShuffleAndPartitionOddDeck(t *testing.T) {
	d, err := New(13, nil, []Suit{Club, Diamond, Heart})
	require.NoError(t, err)
	require.Equal(t, 39, d.Len())

	_, _, err = ShuffleAndPartition(d, randutil.New(1))
	assert.True(t, errors.Is(err, ErrInvalidDeckSize))
}

func TestDraw(t *testing.T) {
	d := NewStandard()

	drawn, rest, err := d.Draw(3)
	require.NoError(t, err)
	assert.Equal(t, d.Cards[:3], drawn)
	assert.Equal(t, 49, rest.Len())
	assert.Equal(t, d.Cards[3:], rest.Cards)
	assert.Equal(t, 52, d.Len())

	drawn, rest, err = rest.Draw(0)
	require.NoError(t, err)
	assert.Empty(t, drawn)
	assert.Equal(t, 49, rest.Len())

	_, _, err = rest.Draw(50)
	assert.ErrorIs(t, err, ErrInsufficientCards)

	_, _, err = rest.Draw(-1)
	assert.Error(t, err)
}

func TestAppend(t *testing.T) {
	d, err := New(2, nil, []Suit{Club})
	require.NoError(t, err)

	more := d.Append(NewCard(9, Heart), NewCard(1, Spade))
	assert.Equal(t, []Card{NewCard(1, Club), NewCard(2, Club), NewCard(9, Heart), NewCard(1, Spade)}, more.Cards)
	assert.Equal(t, 2, d.Len(), "receiver untouched")
	assert.Equal(t, d.Cards, d.Append().Cards)
}

func TestDrawEverything(t *testing.T) {
	d, err := New(1, nil, []Suit{Club, Heart})
	require.NoError(t, err)

	drawn, rest, err := d.Draw(2)
	require.NoError(t, err)
	assert.Len(t, drawn, 2)
	assert.Equal(t, 0, rest.Len())
}

func TestLabels(t *testing.T) {
	d, err := New(13, DefaultSpecialRanks(), []Suit{Spade})
	require.NoError(t, err)
	assert.Equal(t, "A♠", d.Labels()[0])
	assert.Equal(t, "K♠", d.Labels()[12])
	assert.Equal(t, "A♠,2♠,3♠", d.withCards(d.Cards[:3]).String())
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewStandard()
	c := d.Clone()
	c.Cards[0] = NewCard(9, Heart)
	c.SpecialRanks[1] = "Ace"
	assert.Equal(t, NewCard(1, Club), d.Cards[0])
	assert.Equal(t, "A", d.SpecialRanks[1])

	var nilDeck *Deck
	assert.Nil(t, nilDeck.Clone())
	assert.Equal(t, 0, nilDeck.Len())
}

func TestDerivedDecksOwnTheirTables(t *testing.T) {
	d := NewStandard()

	a, b, err := ShuffleAndPartition(d, randutil.New(3))
	require.NoError(t, err)
	a.SpecialRanks[1] = "Ace"
	b.SpecialRanks[13] = "King"
	for k := range a.Suits {
		a.Suits[k] = "changed"
	}
	assert.Equal(t, DefaultSpecialRanks(), d.SpecialRanks)
	assert.Equal(t, "A", b.SpecialRanks[1])
	assert.Equal(t, "K", a.SpecialRanks[13])
	for k, v := range d.Suits {
		assert.NotEqual(t, "changed", v, k)
	}

	_, rest, err := d.Draw(5)
	require.NoError(t, err)
	rest.SpecialRanks[12] = "Queen"
	assert.Equal(t, "Q", d.SpecialRanks[12])
}
