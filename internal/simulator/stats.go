package simulator

import (
	"fmt"
	"io"

	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/statistics"
)

// Stats aggregates simulated games.
type Stats struct {
	StrategyP1 string
	StrategyP2 string

	Games  int
	WinsP1 int
	WinsP2 int
	Draws  int

	Turns      int
	TurnWinsP1 int
	TurnWinsP2 int
	TurnTies   int

	// Margin is player one's turn wins minus player two's, per game.
	Margin statistics.Sample
}

// Add records one game.
func (s *Stats) Add(r GameResult) {
	s.Games++
	switch r.Winner {
	case game.PlayerOne:
		s.WinsP1++
	case game.PlayerTwo:
		s.WinsP2++
	default:
		s.Draws++
	}
	s.Turns += r.Turns
	s.TurnWinsP1 += r.TurnWinsP1
	s.TurnWinsP2 += r.TurnWinsP2
	s.TurnTies += r.Turns - r.TurnWinsP1 - r.TurnWinsP2
	s.Margin.Add(float64(r.TurnWinsP1 - r.TurnWinsP2))
}

// Validate checks the totals are consistent.
func (s *Stats) Validate() error {
	if s.WinsP1+s.WinsP2+s.Draws != s.Games {
		return fmt.Errorf("outcomes %d+%d+%d do not add up to %d games", s.WinsP1, s.WinsP2, s.Draws, s.Games)
	}
	if s.TurnWinsP1+s.TurnWinsP2+s.TurnTies != s.Turns {
		return fmt.Errorf("turn outcomes do not add up to %d turns", s.Turns)
	}
	if s.TurnTies < 0 {
		return fmt.Errorf("negative tie count %d", s.TurnTies)
	}
	if s.Margin.N != s.Games {
		return fmt.Errorf("margin has %d observations for %d games", s.Margin.N, s.Games)
	}
	return s.Margin.Validate()
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// WinRateP1 is player one's share of games won, in percent.
func (s *Stats) WinRateP1() float64 { return pct(s.WinsP1, s.Games) }

// WinRateP2 is player two's share of games won, in percent.
func (s *Stats) WinRateP2() float64 { return pct(s.WinsP2, s.Games) }

// PrintSummary writes a human readable summary.
func PrintSummary(w io.Writer, s *Stats) {
	fmt.Fprintf(w, "\n=== %s vs %s ===\n", s.StrategyP1, s.StrategyP2)
	fmt.Fprintf(w, "Games played: %d\n", s.Games)
	fmt.Fprintf(w, "P1 wins: %d (%.1f%%)\n", s.WinsP1, s.WinRateP1())
	fmt.Fprintf(w, "P2 wins: %d (%.1f%%)\n", s.WinsP2, s.WinRateP2())
	fmt.Fprintf(w, "Draws:   %d (%.1f%%)\n", s.Draws, pct(s.Draws, s.Games))

	fmt.Fprintf(w, "\n=== TURNS ===\n")
	fmt.Fprintf(w, "Turns played: %d\n", s.Turns)
	fmt.Fprintf(w, "P1 turn wins: %d (%.1f%%)\n", s.TurnWinsP1, pct(s.TurnWinsP1, s.Turns))
	fmt.Fprintf(w, "P2 turn wins: %d (%.1f%%)\n", s.TurnWinsP2, pct(s.TurnWinsP2, s.Turns))
	fmt.Fprintf(w, "Tied turns:   %d (%.1f%%)\n", s.TurnTies, pct(s.TurnTies, s.Turns))

	lo, hi := s.Margin.ConfidenceInterval95()
	fmt.Fprintf(w, "\n=== MARGIN (P1 - P2 turn wins per game) ===\n")
	fmt.Fprintf(w, "Mean:   %+.3f ± %.3f\n", s.Margin.Mean(), s.Margin.StdError())
	fmt.Fprintf(w, "95%% CI: [%+.3f, %+.3f]\n", lo, hi)
	fmt.Fprintf(w, "Median: %+.1f  (p10 %+.1f, p90 %+.1f)\n",
		s.Margin.Median(), s.Margin.Percentile(0.1), s.Margin.Percentile(0.9))
}
