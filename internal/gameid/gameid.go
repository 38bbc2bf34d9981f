package gameid

import (
	"encoding/base32"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet in lowercase. Sorted ascending so encoded ids
// keep the byte order of the underlying UUIDv7, and therefore time order.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the size of an encoded game ID.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator produces game IDs. A nil reader means crypto randomness.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading random bits from r. Pass nil for
// production use.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new game ID using the default generator.
func Generate() (string, error) {
	return NewGenerator(nil).Generate()
}

// Generate creates a UUIDv7 and encodes it as a 26-character base32 string.
func (g *Generator) Generate() (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		return "", fmt.Errorf("gameid: generate uuid: %w", err)
	}
	return encoding.EncodeToString(id[:]), nil
}

// Validate checks that id is a 26-character base32 encoding of a UUIDv7.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	raw, err := encoding.DecodeString(id)
	if err != nil {
		return fmt.Errorf("game ID is not valid base32: %w", err)
	}
	parsed, err := uuid.FromBytes(raw)
	if err != nil {
		return fmt.Errorf("game ID does not decode to a UUID: %w", err)
	}
	if parsed.Version() != 7 {
		return fmt.Errorf("game ID has UUID version %d, want 7", parsed.Version())
	}
	return nil
}
