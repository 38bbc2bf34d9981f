package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/cardsgame/internal/classic"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
)

var (
	p1Style     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	p2Style     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	tieStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func styleFor(g *game.Game, name string) lipgloss.Style {
	switch name {
	case "":
		return tieStyle
	case g.NameP1:
		return p1Style
	default:
		return p2Style
	}
}

func renderOutcome(g *game.Game) string {
	switch {
	case !g.Finished:
		return dimStyle.Render("in progress")
	case g.Winner == "":
		return tieStyle.Render("draw")
	default:
		return styleFor(g, g.Winner).Render(g.Winner + " won")
	}
}

func renderGame(g *game.Game, history bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render("Game "+g.ID))
	fmt.Fprintf(&b, "Players:  %s vs %s\n", p1Style.Render(g.NameP1), p2Style.Render(g.NameP2))
	fmt.Fprintf(&b, "Created:  %s\n", time.Unix(g.CreatedDate, 0).Format(time.RFC3339))
	fmt.Fprintf(&b, "Turns:    %d\n", g.NumTurns)
	fmt.Fprintf(&b, "State:    %s (%s)\n", g.State(), renderOutcome(g))
	fmt.Fprintf(&b, "Decks:    %d / %d cards\n", g.DeckP1.Len(), g.DeckP2.Len())
	if g.CurrentTarget > 0 {
		fmt.Fprintf(&b, "Target:   %d\n", g.CurrentTarget)
	}
	if len(g.HandP1) > 0 {
		fmt.Fprintf(&b, "Hand %s: %s\n", g.NameP1, strings.Join(g.Labels(g.HandP1), " "))
	}
	if len(g.HandP2) > 0 {
		fmt.Fprintf(&b, "Hand %s: %s\n", g.NameP2, strings.Join(g.Labels(g.HandP2), " "))
	}
	if history && len(g.History) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("History"))
		for _, rec := range g.History {
			fmt.Fprintf(&b, "%3d  target %2d  %s %2d  %s %2d  %s\n",
				rec.Turn, rec.Target,
				strings.Join(g.Labels(rec.SelectedP1), "+"), rec.SumP1,
				strings.Join(g.Labels(rec.SelectedP2), "+"), rec.SumP2,
				styleFor(g, rec.TurnWinner).Render(winnerLabel(rec.TurnWinner)))
		}
	}
	return b.String()
}

func winnerLabel(name string) string {
	if name == "" {
		return "tie"
	}
	return name
}

func renderList(games []*game.Game) string {
	if len(games) == 0 {
		return dimStyle.Render("no games") + "\n"
	}
	var b strings.Builder
	for _, g := range games {
		fmt.Fprintf(&b, "%s  %-12s vs %-12s  turn %-2d  %s\n",
			g.ID, g.NameP1, g.NameP2, g.NumTurns, renderOutcome(g))
	}
	return b.String()
}

func renderIndexed(cards []game.IndexedCard) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("[%d] %s", c.Index, c.Label)
	}
	return strings.Join(parts, "  ")
}

func renderHandView(v game.HandView, hideP2 bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d, target %d\n", v.NumTurns+1, v.Target)
	fmt.Fprintf(&b, "%s: %s  %s\n", p1Style.Render(v.NameP1), renderIndexed(v.HandP1),
		dimStyle.Render(fmt.Sprintf("(%d left)", v.LenDeckP1)))
	p2 := renderIndexed(v.HandP2)
	if hideP2 {
		p2 = strings.TrimSpace(strings.Repeat("[?] ", len(v.HandP2)))
	}
	fmt.Fprintf(&b, "%s: %s  %s\n", p2Style.Render(v.NameP2), p2,
		dimStyle.Render(fmt.Sprintf("(%d left)", v.LenDeckP2)))
	return b.String()
}

func picked(hand []deck.Card, idx []int, special map[int]string) string {
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(hand) {
			parts = append(parts, hand[i].Label(special))
		}
	}
	return strings.Join(parts, "+")
}

func renderTurnResult(r *game.TurnResult, special map[int]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target %d\n", r.Target)
	fmt.Fprintf(&b, "%s: %s = %d (off by %d)\n", p1Style.Render(r.NameP1), picked(r.HandP1, r.IndexesP1, special), r.SumP1, r.DistanceP1)
	fmt.Fprintf(&b, "%s: %s = %d (off by %d)\n", p2Style.Render(r.NameP2), picked(r.HandP2, r.IndexesP2, special), r.SumP2, r.DistanceP2)
	switch r.TurnWinner {
	case "":
		fmt.Fprintf(&b, "%s\n", tieStyle.Render("Tie"))
	case r.NameP1:
		fmt.Fprintf(&b, "%s\n", p1Style.Render(r.NameP1+" wins the turn"))
	default:
		fmt.Fprintf(&b, "%s\n", p2Style.Render(r.NameP2+" wins the turn"))
	}
	if r.Finished {
		if r.Winner == "" {
			fmt.Fprintf(&b, "%s\n", tieStyle.Render("Game drawn"))
		} else {
			fmt.Fprintf(&b, "%s\n", headerStyle.Render(r.Winner+" wins the game"))
		}
	}
	return b.String()
}

func renderClassic(r *classic.Result, rounds bool) string {
	var b strings.Builder
	if rounds {
		for _, rd := range r.Rounds {
			var outcome string
			switch rd.Winner {
			case game.PlayerOne:
				outcome = p1Style.Render(r.NameP1 + "'s card")
			case game.PlayerTwo:
				outcome = p2Style.Render(r.NameP2 + "'s card")
			default:
				outcome = tieStyle.Render("TIE")
			}
			fmt.Fprintf(&b, "Turn %3d => %s ... %s => %s\n", rd.Turn,
				p1Style.Render(fmt.Sprintf("%s(%2d) - %s", r.NameP1, rd.LenDeckP1, rd.CardP1.Label(r.Special))),
				p2Style.Render(fmt.Sprintf("%s - %s(%2d)", rd.CardP2.Label(r.Special), r.NameP2, rd.LenDeckP2)),
				outcome)
		}
	}
	switch {
	case r.Winner == "" && r.TurnCap:
		fmt.Fprintf(&b, "%s after %d turns (turn limit)\n", tieStyle.Render("Draw"), r.Turns())
	case r.Winner == "":
		fmt.Fprintf(&b, "%s after %d turns\n", tieStyle.Render("Draw"), r.Turns())
	default:
		style := p2Style
		if r.Winner == r.NameP1 {
			style = p1Style
		}
		fmt.Fprintf(&b, "%s %s after %d turns\n", headerStyle.Render("Winner:"), style.Render(r.Winner), r.Turns())
	}
	return b.String()
}
