// Package randutil centralises how the engine obtains randomness so that
// production code is unpredictable while tests can replay exact sequences.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
	"sync"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the subset of *rand.Rand used by deck shuffling, target rolls
// and computer selections.
type Source interface {
	IntN(n int) int
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewUnseeded returns a *rand.Rand whose seed comes from crypto/rand, along
// with that seed so callers can log it for replay.
func NewUnseeded() (*rand.Rand, int64) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("randutil: failed to read seed: " + err.Error())
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]))
	return New(seed), seed
}

// Locked wraps a Source so it can be shared between goroutines.
func Locked(src Source) Source {
	if l, ok := src.(*lockedSource); ok {
		return l
	}
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
