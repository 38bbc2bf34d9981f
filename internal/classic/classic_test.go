package classic

import (
	"testing"

	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckOf(ranks ...int) *deck.Deck {
	d := deck.NewStandard()
	d.Cards = make([]deck.Card, len(ranks))
	for i, r := range ranks {
		d.Cards[i] = deck.NewCard(r, deck.AllSuits[i%len(deck.AllSuits)])
	}
	return d
}

func TestHigherCardTakesBoth(t *testing.T) {
	res, err := PlayDecks(deckOf(5), deckOf(3), Config{NameP1: "alice", NameP2: "bob"})
	require.NoError(t, err)

	require.Len(t, res.Rounds, 1)
	r := res.Rounds[0]
	assert.Equal(t, game.PlayerOne, r.Winner)
	assert.Equal(t, 2, r.LenDeckP1)
	assert.Equal(t, 0, r.LenDeckP2)
	assert.Equal(t, "alice", res.Winner)
	assert.False(t, res.TurnCap)
}

func TestEqualRanksAreDiscarded(t *testing.T) {
	res, err := PlayDecks(deckOf(4), deckOf(4), Config{})
	require.NoError(t, err)

	require.Len(t, res.Rounds, 1)
	assert.Zero(t, res.Rounds[0].Winner)
	assert.Len(t, res.Discarded, 2)
	assert.Empty(t, res.Winner, "both decks empty is a draw")
}

func TestTurnCapIsADraw(t *testing.T) {
	res, err := PlayDecks(deckOf(5, 1), deckOf(3, 2), Config{MaxTurns: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Turns())
	assert.True(t, res.TurnCap)
	assert.Empty(t, res.Winner)
	assert.Equal(t, 3, res.Rounds[0].LenDeckP1)
	assert.Equal(t, 1, res.Rounds[0].LenDeckP2)
}

func TestStartingDecksUntouched(t *testing.T) {
	a, b := deckOf(9, 2), deckOf(1, 8)
	_, err := PlayDecks(a, b, Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestCardsAreConserved(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		res, err := Play(deck.NewStandard(), randutil.New(seed), Config{})
		require.NoError(t, err)
		require.NotEmpty(t, res.Rounds)

		discarded := 0
		for _, r := range res.Rounds {
			if r.Winner == 0 {
				discarded += 2
			}
			require.Equal(t, 52, r.LenDeckP1+r.LenDeckP2+discarded, "seed %d turn %d", seed, r.Turn)
		}
		assert.Len(t, res.Discarded, discarded)
		assert.LessOrEqual(t, res.Turns(), DefaultMaxTurns)

		last := res.Rounds[len(res.Rounds)-1]
		switch res.Winner {
		case "p1":
			assert.Zero(t, last.LenDeckP2)
		case "p2":
			assert.Zero(t, last.LenDeckP1)
		default:
			assert.True(t, res.TurnCap || last.LenDeckP1+last.LenDeckP2 == 0)
		}
	}
}

func TestPlayIsReproducible(t *testing.T) {
	a, err := Play(deck.NewStandard(), randutil.New(99), Config{})
	require.NoError(t, err)
	b, err := Play(deck.NewStandard(), randutil.New(99), Config{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlayRejectsBadInput(t *testing.T) {
	_, err := PlayDecks(deckOf(1), deckOf(2), Config{NameP1: "x", NameP2: "x"})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerName)

	odd, err := deck.New(3, nil, []deck.Suit{deck.Club})
	require.NoError(t, err)
	_, err = Play(odd, randutil.New(1), Config{})
	assert.ErrorIs(t, err, deck.ErrInvalidDeckSize)
}
