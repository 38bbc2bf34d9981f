package game

// State is a game's position in the turn cycle. It is derived from the
// record rather than stored.
type State int

const (
	StateCreated State = iota
	StateAwaitingHands
	StateHandsDealt
	// StateTurnResolved is transient: a resolved turn immediately settles
	// into StateAwaitingHands or StateFinished.
	StateTurnResolved
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAwaitingHands:
		return "awaiting_hands"
	case StateHandsDealt:
		return "hands_dealt"
	case StateTurnResolved:
		return "turn_resolved"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// State reports where the game is in its lifecycle.
func (g *Game) State() State {
	switch {
	case g.Finished:
		return StateFinished
	case len(g.HandP1) > 0 && len(g.HandP2) > 0:
		return StateHandsDealt
	case g.NumTurns == 0 && len(g.HandP1) == 0 && len(g.HandP2) == 0:
		return StateCreated
	default:
		return StateAwaitingHands
	}
}

// IsFinished reports whether the game reached a terminal state.
func (g *Game) IsFinished() bool {
	return g.Finished
}

// IsDraw reports a finished game without a winner.
func (g *Game) IsDraw() bool {
	return g.Finished && g.Winner == ""
}

// settle applies the game-over rule after a turn. A player whose deck can no
// longer supply a playable hand loses. When both decks run short in the same
// turn the player with more turn wins takes the game; equal turn wins is a
// draw.
func settle(g *Game, minCards int) State {
	shortP1 := g.DeckP1.Len() < minCards
	shortP2 := g.DeckP2.Len() < minCards

	switch {
	case shortP1 && shortP2:
		winsP1 := g.History.TurnWins(g.NameP1)
		winsP2 := g.History.TurnWins(g.NameP2)
		switch {
		case winsP1 > winsP2:
			g.Winner = g.NameP1
		case winsP2 > winsP1:
			g.Winner = g.NameP2
		}
		g.Finished = true
	case shortP1:
		g.Winner = g.NameP2
		g.Finished = true
	case shortP2:
		g.Winner = g.NameP1
		g.Finished = true
	default:
		return StateAwaitingHands
	}
	return StateFinished
}
