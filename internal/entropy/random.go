// Package entropy provides pluggable randomness sources for the simulation.
// The engine never reaches for ambient randomness; it draws from an injected
// Source so deterministic tests can substitute a fixed or seeded generator.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source yields floats in [0, 1).
type Source interface {
	Float() float64
}

// SeededSource wraps math/rand for reproducible runs.
type SeededSource struct {
	rng *rand.Rand
}

// Seeded returns a deterministic source for the given seed.
func Seeded(seed int64) *SeededSource {
	return &SeededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *SeededSource) Float() float64 {
	return s.rng.Float64()
}

// SimplexSource samples smooth gradient noise along a 1D walk, so consecutive
// draws are correlated. Opt-in alternative for demand noise: the market
// drifts instead of jittering.
type SimplexSource struct {
	noise opensimplex.Noise
	t     float64
}

// Simplex returns a smooth-noise source seeded deterministically.
func Simplex(seed int64) *SimplexSource {
	return &SimplexSource{noise: opensimplex.NewNormalized(seed)}
}

// Float advances the walk by a fixed step and returns the normalized sample.
func (s *SimplexSource) Float() float64 {
	s.t += 0.17
	return s.noise.Eval2(s.t, 0)
}

// FixedSource always returns the same value. Test use only.
type FixedSource struct {
	V float64
}

// Fixed returns a source pinned to v.
func Fixed(v float64) FixedSource {
	return FixedSource{V: v}
}

func (f FixedSource) Float() float64 {
	return f.V
}

// CryptoSeed derives a seed from crypto/rand for sessions where the caller
// did not pin one.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// Should never happen; a constant seed still yields a playable session.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
