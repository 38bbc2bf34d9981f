package deck

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Suit represents a card suit
type Suit int

const (
	Club Suit = iota
	Diamond
	Heart
	Spade
)

// AllSuits lists the four suits in deck-building order.
var AllSuits = []Suit{Club, Diamond, Heart, Spade}

// String returns the suit name, e.g. "club"
func (s Suit) String() string {
	switch s {
	case Club:
		return "club"
	case Diamond:
		return "diamond"
	case Heart:
		return "heart"
	case Spade:
		return "spade"
	default:
		return "?"
	}
}

// Symbol returns the suit symbol, e.g. "♣"
func (s Suit) Symbol() string {
	switch s {
	case Club:
		return "♣"
	case Diamond:
		return "♦"
	case Heart:
		return "♥"
	case Spade:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for diamonds and hearts
func (s Suit) IsRed() bool {
	return s == Diamond || s == Heart
}

// ParseSuit accepts a suit name ("club"), symbol ("♣") or letter ("c").
func ParseSuit(v string) (Suit, error) {
	for _, s := range AllSuits {
		if v == s.String() || v == s.Symbol() || strings.EqualFold(v, s.String()[:1]) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", v)
}

// MarshalText encodes the suit as its symbol, the stored document format.
func (s Suit) MarshalText() ([]byte, error) {
	if s < Club || s > Spade {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.Symbol()), nil
}

// UnmarshalText accepts anything ParseSuit does.
func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Card is an immutable (rank, suit) pair. Rank is the numeric value used in
// sums; display labels for special ranks live on the Deck.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(rank int, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the card with a numeric rank, e.g. "13♣"
func (c Card) String() string {
	return strconv.Itoa(c.Rank) + c.Suit.Symbol()
}

// Label returns the card using the special rank table, e.g. "K♣".
func (c Card) Label(special map[int]string) string {
	rank, ok := special[c.Rank]
	if !ok {
		rank = strconv.Itoa(c.Rank)
	}
	return rank + c.Suit.Symbol()
}

// ParseCard parses a label such as "K♣", "10♦" or "7s" back into a card.
func ParseCard(label string, special map[int]string) (Card, error) {
	if label == "" {
		return Card{}, fmt.Errorf("empty card label")
	}
	last, size := utf8.DecodeLastRuneInString(label)
	suit, err := ParseSuit(string(last))
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", label, err)
	}
	rankPart := strings.TrimSpace(label[:len(label)-size])
	for rank, name := range special {
		if strings.EqualFold(name, rankPart) {
			return NewCard(rank, suit), nil
		}
	}
	rank, err := strconv.Atoi(rankPart)
	if err != nil || rank < 1 {
		return Card{}, fmt.Errorf("card %q: invalid rank %q", label, rankPart)
	}
	return NewCard(rank, suit), nil
}

// SumRanks adds up the ranks of the given cards
func SumRanks(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Rank
	}
	return total
}
