package gameid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := Generate()
		require.NoError(t, err)
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		id, err := Generate()
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestGenerateWithReader(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	id, err := gen.Generate()
	require.NoError(t, err)
	assert.NoError(t, Validate(id))
}

func TestGenerateReaderExhausted(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(nil))
	_, err := gen.Generate()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, err := Generate()
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "generated ID", id: valid},
		{name: "too short", id: valid[:20], wantErr: true},
		{name: "too long", id: valid + "00", wantErr: true},
		{name: "invalid character", id: valid[:25] + "i", wantErr: true},
		{name: "uppercase not allowed", id: strings.ToUpper(valid), wantErr: true},
		{name: "not version 7", id: strings.Repeat("0", Length), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, alphabet, 32)

	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character in alphabet: %c", char)
		seen[char] = true
	}
	for _, char := range "ilou" {
		assert.False(t, strings.ContainsRune(alphabet, char), "alphabet should not contain %c", char)
	}
}
