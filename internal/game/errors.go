package game

import (
	"errors"

	"github.com/lox/cardsgame/internal/deck"
)

var (
	// ErrInvalidSelection is returned for malformed card index lists.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidPlayerName is returned when a game cannot be created for a name.
	ErrInvalidPlayerName = errors.New("invalid player name")
	// ErrInvalidPlayer is returned for a seat other than PlayerOne or PlayerTwo.
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrHandsNotReady is returned when playing a turn before both hands are dealt.
	ErrHandsNotReady = errors.New("hands not dealt")
	// ErrHandAlreadyDealt is returned when dealing into a non-empty hand.
	ErrHandAlreadyDealt = errors.New("hand already dealt")
	// ErrGameFinished is returned for any mutation of a finished game.
	ErrGameFinished = errors.New("game finished")
	// ErrConcurrentModification is returned by repositories when a save lost
	// the optimistic version race. Callers reload and reapply.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrNotFound is returned for unknown game identifiers.
	ErrNotFound = errors.New("game not found")
)

// Kind classifies errors for callers that need a stable category.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindStateConflict
	KindConcurrentModification
	KindNotFound
	KindInvalidDeckSize
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStateConflict:
		return "state_conflict"
	case KindConcurrentModification:
		return "concurrent_modification"
	case KindNotFound:
		return "not_found"
	case KindInvalidDeckSize:
		return "invalid_deck_size"
	default:
		return "internal"
	}
}

var codes = []struct {
	err  error
	kind Kind
	code string
}{
	{ErrInvalidSelection, KindValidation, "invalid_selection"},
	{ErrInvalidPlayerName, KindValidation, "invalid_player_name"},
	{ErrInvalidPlayer, KindValidation, "invalid_player"},
	{ErrHandsNotReady, KindStateConflict, "hands_not_ready"},
	{ErrHandAlreadyDealt, KindStateConflict, "hand_already_dealt"},
	{ErrGameFinished, KindStateConflict, "game_finished"},
	{ErrConcurrentModification, KindConcurrentModification, "concurrent_modification"},
	{ErrNotFound, KindNotFound, "not_found"},
	{deck.ErrInvalidDeckSize, KindInvalidDeckSize, "invalid_deck_size"},
}

// KindOf returns the category of err.
func KindOf(err error) Kind {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.kind
		}
	}
	return KindInternal
}

// Code returns a stable machine-readable code for err, "" for nil.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

// Retryable reports whether reloading the game and reapplying the operation
// may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
