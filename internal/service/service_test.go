package service

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/randutil"
	"github.com/lox/cardsgame/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racyRepo lets another writer sneak in before the next few saves.
type racyRepo struct {
	store.Repository
	races int
	saves int
}

func (r *racyRepo) Save(ctx context.Context, g *game.Game) (*game.Game, error) {
	r.saves++
	if r.races > 0 {
		r.races--
		other, err := r.Repository.Get(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		if _, err := r.Repository.Save(ctx, other); err != nil {
			return nil, err
		}
	}
	return r.Repository.Save(ctx, g)
}

func newTestService(t *testing.T, repo store.Repository, opts ...Option) *Service {
	t.Helper()
	engine, err := game.NewEngine(game.WithRand(randutil.New(5)))
	require.NoError(t, err)
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return New(engine, repo, opts...)
}

func TestCreateGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", g.NameP1)
	assert.Equal(t, "PC", g.NameP2)
	assert.EqualValues(t, 1, g.Version)

	got, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	_, err = svc.CreateGame(ctx, "")
	assert.ErrorIs(t, err, game.ErrInvalidPlayerName)
	_, err = svc.CreateGame(ctx, "PC")
	assert.ErrorIs(t, err, game.ErrInvalidPlayerName)
}

func TestPlayGameToCompletion(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	for !g.Finished {
		g, err = svc.DealHand(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, game.StateHandsDealt, g.State())

		var result *game.TurnResult
		g, result, err = svc.PlayTurn(ctx, g.ID, []int{0, 1}, nil)
		require.NoError(t, err)
		assert.Len(t, result.IndexesP2, 2)
		assert.Equal(t, g.NumTurns, result.NumTurns)
	}

	stored, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, stored.Finished)
	assert.Len(t, stored.History, stored.NumTurns)

	_, err = svc.DealHand(ctx, g.ID)
	assert.ErrorIs(t, err, game.ErrGameFinished)

	require.NoError(t, svc.DeleteGame(ctx, g.ID), "finished games can be deleted")
}

func TestInvalidSelectionLeavesGameUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)
	g, err = svc.DealHand(ctx, g.ID)
	require.NoError(t, err)

	_, _, err = svc.PlayTurn(ctx, g.ID, []int{0, 0}, nil)
	require.ErrorIs(t, err, game.ErrInvalidSelection)

	stored, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, stored)
}

func TestPlayTurnBeforeDealing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	_, _, err = svc.PlayTurn(ctx, g.ID, []int{0, 1}, nil)
	assert.ErrorIs(t, err, game.ErrHandsNotReady)

	_, err = svc.DealPlayerHand(ctx, g.ID, game.PlayerOne)
	require.NoError(t, err)
	_, _, err = svc.PlayTurn(ctx, g.ID, []int{0, 1}, nil)
	assert.ErrorIs(t, err, game.ErrHandsNotReady)
}

func TestMutationRetriesOnConcurrentModification(t *testing.T) {
	ctx := context.Background()
	repo := &racyRepo{Repository: store.NewMemoryStore()}
	svc := newTestService(t, repo)

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	repo.races = 1
	dealt, err := svc.DealHand(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.saves, "one lost race then a successful save")
	assert.Len(t, dealt.HandP1, 3)
	assert.EqualValues(t, 3, dealt.Version)
}

func TestMutationGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := &racyRepo{Repository: store.NewMemoryStore()}
	svc := newTestService(t, repo, WithMaxAttempts(2))

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	repo.races = 10
	_, err = svc.DealHand(ctx, g.ID)
	require.ErrorIs(t, err, game.ErrConcurrentModification)
	assert.Equal(t, 2, repo.saves)
}

func TestListGames(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	var ids []string
	for _, name := range []string{"alice", "bob", "carol"} {
		g, err := svc.CreateGame(ctx, name)
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}

	// Finish bob's game.
	for {
		g, err := svc.DealHand(ctx, ids[1])
		require.NoError(t, err)
		g, _, err = svc.PlayTurn(ctx, g.ID, []int{0, 1}, nil)
		require.NoError(t, err)
		if g.Finished {
			break
		}
	}

	all, err := svc.ListGameIDs(ctx, StatusAny)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, all)

	finished, err := svc.ListGameIDs(ctx, StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, finished)

	unfinished, err := svc.ListGames(ctx, StatusUnfinished)
	require.NoError(t, err)
	require.Len(t, unfinished, 2)
	for _, g := range unfinished {
		assert.False(t, g.Finished)
	}
}

func TestDeleteGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())

	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGame(ctx, g.ID))
	assert.ErrorIs(t, svc.DeleteGame(ctx, g.ID), game.ErrNotFound)
	_, err = svc.GetGame(ctx, g.ID)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"":           StatusAny,
		"any":        StatusAny,
		"Finished":   StatusFinished,
		"unfinished": StatusUnfinished,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("paused")
	assert.Error(t, err)
}

func TestDealPlayerHandRejectsUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, store.NewMemoryStore())
	g, err := svc.CreateGame(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.DealPlayerHand(ctx, g.ID, game.Player(7))
	require.ErrorIs(t, err, game.ErrInvalidPlayer)

	stored, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Version)
	assert.Empty(t, stored.HandP1)
	assert.Empty(t, stored.HandP2)
}
