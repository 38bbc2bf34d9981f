package deck

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidDeckSize is returned when a deck cannot be split evenly.
	ErrInvalidDeckSize = errors.New("invalid deck size")
	// ErrInsufficientCards is returned when drawing more cards than remain.
	ErrInsufficientCards = errors.New("insufficient cards")
)

// DefaultNumRanks is the number of ranks per suit in a standard deck.
const DefaultNumRanks = 13

// DefaultSpecialRanks maps the face and ace ranks to their display labels.
func DefaultSpecialRanks() map[int]string {
	return map[int]string{1: "A", 11: "J", 12: "Q", 13: "K"}
}

// Shuffler is the randomness a deck needs. *rand.Rand satisfies it.
type Shuffler interface {
	IntN(n int) int
}

// Deck is an ordered collection of cards plus the tables needed to display
// them. Operations return new decks and leave the receiver untouched.
type Deck struct {
	Cards        []Card            `json:"cards"`
	NumRanks     int               `json:"num_ranks"`
	SpecialRanks map[int]string    `json:"special_ranks"`
	Suits        map[string]string `json:"suits"`
}

// New builds the full ordered deck: ranks 1..numRanks for every suit, suit
// by suit.
func New(numRanks int, specialRanks map[int]string, suits []Suit) (*Deck, error) {
	if numRanks < 1 {
		return nil, fmt.Errorf("%w: num_ranks must be positive, got %d", ErrInvalidDeckSize, numRanks)
	}
	if len(suits) == 0 {
		return nil, fmt.Errorf("%w: at least one suit is required", ErrInvalidDeckSize)
	}

	suitTable := make(map[string]string, len(suits))
	cards := make([]Card, 0, numRanks*len(suits))
	for _, s := range suits {
		if _, dup := suitTable[s.String()]; dup {
			return nil, fmt.Errorf("%w: duplicate suit %s", ErrInvalidDeckSize, s)
		}
		suitTable[s.String()] = s.Symbol()
		for rank := 1; rank <= numRanks; rank++ {
			cards = append(cards, NewCard(rank, s))
		}
	}

	return &Deck{
		Cards:        cards,
		NumRanks:     numRanks,
		SpecialRanks: maps.Clone(specialRanks),
		Suits:        suitTable,
	}, nil
}

// NewStandard builds a 52-card deck with the default labels.
func NewStandard() *Deck {
	d, err := New(DefaultNumRanks, DefaultSpecialRanks(), AllSuits)
	if err != nil {
		panic(err)
	}
	return d
}

// withCards returns a deck holding cards with its own copy of d's tables.
func (d *Deck) withCards(cards []Card) *Deck {
	return &Deck{
		Cards:        cards,
		NumRanks:     d.NumRanks,
		SpecialRanks: maps.Clone(d.SpecialRanks),
		Suits:        maps.Clone(d.Suits),
	}
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{
		Cards:        slices.Clone(d.Cards),
		NumRanks:     d.NumRanks,
		SpecialRanks: maps.Clone(d.SpecialRanks),
		Suits:        maps.Clone(d.Suits),
	}
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Cards)
}

// MinRank is the lowest rank in play.
func (d *Deck) MinRank() int { return 1 }

// MaxRank is the highest rank in play.
func (d *Deck) MaxRank() int { return d.NumRanks }

// Shuffle returns a uniformly permuted copy of the deck (Fisher-Yates).
func (d *Deck) Shuffle(rng Shuffler) *Deck {
	cards := slices.Clone(d.Cards)
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return d.withCards(cards)
}

// ShuffleAndPartition shuffles the deck and splits it into two equal halves.
func ShuffleAndPartition(d *Deck, rng Shuffler) (*Deck, *Deck, error) {
	n := d.Len()
	if n == 0 || n%2 != 0 {
		return nil, nil, fmt.Errorf("%w: cannot split %d cards into two equal halves", ErrInvalidDeckSize, n)
	}
	shuffled := d.Shuffle(rng)
	half := n / 2
	a := shuffled.withCards(slices.Clone(shuffled.Cards[:half]))
	b := shuffled.withCards(slices.Clone(shuffled.Cards[half:]))
	return a, b, nil
}

// Draw removes the first n cards, returning them and the remaining deck.
func (d *Deck) Draw(n int) ([]Card, *Deck, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("deck: cannot draw %d cards", n)
	}
	if n > d.Len() {
		return nil, nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, d.Len())
	}
	drawn := slices.Clone(d.Cards[:n])
	rest := d.withCards(slices.Clone(d.Cards[n:]))
	return drawn, rest, nil
}

// Append returns a copy of the deck with cards added to the bottom.
func (d *Deck) Append(cards ...Card) *Deck {
	out := make([]Card, 0, len(d.Cards)+len(cards))
	out = append(out, d.Cards...)
	return d.withCards(append(out, cards...))
}

// Label renders a card with this deck's special rank table.
func (d *Deck) Label(c Card) string {
	return c.Label(d.SpecialRanks)
}

// Labels renders every card in the deck, e.g. ["K♣", "7♦"].
func (d *Deck) Labels() []string {
	return Labels(d.Cards, d.SpecialRanks)
}

// String renders the deck as a comma separated list of labels.
func (d *Deck) String() string {
	return strings.Join(d.Labels(), ",")
}

// Labels renders cards with the given special rank table.
func Labels(cards []Card, special map[int]string) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Label(special)
	}
	return out
}
