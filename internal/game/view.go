package game

import (
	"encoding/json"
	"strconv"

	"github.com/lox/cardsgame/internal/deck"
)

// IndexedCard is a hand position paired with its card label. It encodes as
// a single-entry object, {"0": "K♣"}.
type IndexedCard struct {
	Index int
	Label string
}

func (c IndexedCard) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{strconv.Itoa(c.Index): c.Label})
}

// IndexCards labels each card with its position in the hand.
func IndexCards(cards []deck.Card, special map[int]string) []IndexedCard {
	out := make([]IndexedCard, len(cards))
	for i, c := range cards {
		out[i] = IndexedCard{Index: i, Label: c.Label(special)}
	}
	return out
}

// HandView is what a caller sees after hands are dealt.
type HandView struct {
	ID        string        `json:"_id"`
	NameP1    string        `json:"_name_p1"`
	NameP2    string        `json:"_name_p2"`
	LenDeckP1 int           `json:"_len_deck_p1"`
	LenDeckP2 int           `json:"_len_deck_p2"`
	HandP1    []IndexedCard `json:"_hand_p1"`
	HandP2    []IndexedCard `json:"_hand_p2"`
	NumTurns  int           `json:"_num_turns"`
	Target    int           `json:"_current_target"`
}

// NewHandView projects the dealt hands of g.
func NewHandView(g *Game) HandView {
	special := g.DeckP1.SpecialRanks
	return HandView{
		ID:        g.ID,
		NameP1:    g.NameP1,
		NameP2:    g.NameP2,
		LenDeckP1: g.DeckP1.Len(),
		LenDeckP2: g.DeckP2.Len(),
		HandP1:    IndexCards(g.HandP1, special),
		HandP2:    IndexCards(g.HandP2, special),
		NumTurns:  g.NumTurns,
		Target:    g.CurrentTarget,
	}
}

// Summary is the compact listing form of a game.
type Summary struct {
	ID          string `json:"_id"`
	NameP1      string `json:"_name_p1"`
	NameP2      string `json:"_name_p2"`
	NumTurns    int    `json:"_num_turns"`
	Winner      string `json:"_winner"`
	Finished    bool   `json:"_finished"`
	CreatedDate int64  `json:"_created_date"`
}

// Summarize returns the listing form of g.
func Summarize(g *Game) Summary {
	return Summary{
		ID:          g.ID,
		NameP1:      g.NameP1,
		NameP2:      g.NameP2,
		NumTurns:    g.NumTurns,
		Winner:      g.Winner,
		Finished:    g.Finished,
		CreatedDate: g.CreatedDate,
	}
}
