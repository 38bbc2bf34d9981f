package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lox/cardsgame/internal/classic"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("cardsgame"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestCLIParsesTurn(t *testing.T) {
	cli, ctx := parse(t, "turn", "abc", "0", "2", "--p2", "1", "--p2", "2", "--seed", "7")

	assert.True(t, strings.HasPrefix(ctx.Command(), "turn"))
	assert.Equal(t, "abc", cli.Turn.ID)
	assert.Equal(t, []int{0, 2}, cli.Turn.Indexes)
	assert.Equal(t, []int{1, 2}, cli.Turn.P2)
	require.NotNil(t, cli.Seed)
	assert.Equal(t, int64(7), *cli.Seed)
}

func TestCLIDefaults(t *testing.T) {
	cli, _ := parse(t, "list")
	assert.Equal(t, "any", cli.List.Status)
	assert.Nil(t, cli.Seed)

	cli, _ = parse(t, "simulate")
	assert.Equal(t, 1000, cli.Simulate.Games)
	assert.Equal(t, "random", cli.Simulate.P1)
	assert.Equal(t, "closest", cli.Simulate.P2)
}

func TestCLIRejectsUnknownStatus(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"list", "--status", "sometimes"})
	assert.Error(t, err)
}

func sampleResult() *game.TurnResult {
	return &game.TurnResult{
		ID:         "g1",
		NameP1:     "alice",
		NameP2:     "PC",
		NumTurns:   1,
		Target:     15,
		HandP1:     []deck.Card{deck.NewCard(13, deck.Club), deck.NewCard(2, deck.Heart), deck.NewCard(5, deck.Spade)},
		HandP2:     []deck.Card{deck.NewCard(7, deck.Diamond), deck.NewCard(1, deck.Club), deck.NewCard(4, deck.Heart)},
		IndexesP1:  []int{0, 1},
		IndexesP2:  []int{0, 2},
		SumP1:      15,
		SumP2:      11,
		DistanceP1: 0,
		DistanceP2: 4,
		TurnWinner: "alice",
		LenDeckP1:  20,
		LenDeckP2:  20,
	}
}

func TestRenderTurnResult(t *testing.T) {
	out := renderTurnResult(sampleResult(), deck.DefaultSpecialRanks())

	assert.Contains(t, out, "Target 15")
	assert.Contains(t, out, "K♣+2♥ = 15 (off by 0)")
	assert.Contains(t, out, "7♦+4♥ = 11 (off by 4)")
	assert.Contains(t, out, "alice wins the turn")
	assert.NotContains(t, out, "wins the game")
}

func TestRenderTurnResultFinished(t *testing.T) {
	r := sampleResult()
	r.TurnWinner = ""
	r.Finished = true
	out := renderTurnResult(r, map[int]string{13: "King"})

	assert.Contains(t, out, "King♣+2♥")
	assert.Contains(t, out, "Tie")
	assert.Contains(t, out, "Game drawn")

	r.Winner = "PC"
	assert.Contains(t, renderTurnResult(r, nil), "PC wins the game")
}

func TestRenderList(t *testing.T) {
	assert.Contains(t, renderList(nil), "no games")

	games := []*game.Game{
		{ID: "a1", NameP1: "alice", NameP2: "PC", NumTurns: 3},
		{ID: "b2", NameP1: "bob", NameP2: "PC", NumTurns: 9, Finished: true, Winner: "bob"},
		{ID: "c3", NameP1: "carol", NameP2: "PC", NumTurns: 9, Finished: true},
	}
	out := renderList(games)
	assert.Contains(t, out, "a1")
	assert.Contains(t, out, "in progress")
	assert.Contains(t, out, "bob won")
	assert.Contains(t, out, "draw")
}

func TestRenderHandViewHidesComputer(t *testing.T) {
	v := game.HandView{
		ID:        "g1",
		NameP1:    "alice",
		NameP2:    "PC",
		LenDeckP1: 23,
		LenDeckP2: 23,
		HandP1:    game.IndexCards([]deck.Card{deck.NewCard(1, deck.Spade), deck.NewCard(9, deck.Club)}, deck.DefaultSpecialRanks()),
		HandP2:    game.IndexCards([]deck.Card{deck.NewCard(12, deck.Heart), deck.NewCard(3, deck.Club)}, deck.DefaultSpecialRanks()),
		Target:    10,
	}

	hidden := renderHandView(v, true)
	assert.Contains(t, hidden, "Turn 1, target 10")
	assert.Contains(t, hidden, "[0] A♠  [1] 9♣")
	assert.Contains(t, hidden, "[?] [?]")
	assert.NotContains(t, hidden, "Q♥")

	assert.Contains(t, renderHandView(v, false), "[0] Q♥")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "g1", decoded["_id"])
	assert.Equal(t, "alice", decoded["_turn_winner"])
	assert.Equal(t, float64(15), decoded["_current_target_approx_p1"])
}

func TestCLIParsesClassic(t *testing.T) {
	cli, ctx := parse(t, "classic", "--p1", "ann", "--max-turns", "40")
	assert.Equal(t, "classic", ctx.Command())
	assert.Equal(t, "ann", cli.Classic.P1)
	assert.Equal(t, "PC", cli.Classic.P2)
	assert.Equal(t, 40, cli.Classic.MaxTurns)
}

func TestRenderClassic(t *testing.T) {
	a := deck.NewStandard()
	a.Cards = []deck.Card{deck.NewCard(13, deck.Club)}
	b := deck.NewStandard()
	b.Cards = []deck.Card{deck.NewCard(4, deck.Heart)}
	res, err := classic.PlayDecks(a, b, classic.Config{NameP1: "ann", NameP2: "PC"})
	require.NoError(t, err)

	out := renderClassic(res, true)
	assert.Contains(t, out, "Turn   1")
	assert.Contains(t, out, "K♣")
	assert.Contains(t, out, "4♥")
	assert.Contains(t, out, "ann's card")
	assert.Contains(t, out, "after 1 turns")

	quiet := renderClassic(res, false)
	assert.NotContains(t, quiet, "Turn")

	drawn := &classic.Result{NameP1: "a", NameP2: "b", Rounds: make([]classic.Round, 3), TurnCap: true}
	assert.Contains(t, renderClassic(drawn, false), "turn limit")
}
