// Package chaotichash implements the password digest used by the auth feature.
// A fixed Chebyshev map is iterated from a fixed seed, the resulting scalar is
// appended to the password as text and the concatenation is hashed with SHA-256.
package chaotichash

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
)

const (
	// DefaultSeed is the initial condition of the map.
	DefaultSeed = 0.5
	// DefaultK is the Chebyshev polynomial degree.
	DefaultK = 3.0
	// DefaultIterations is the number of map applications.
	DefaultIterations = 100
)

// Hasher computes digests for a fixed set of map parameters.
// The map does not depend on the password, so its text form is computed once in New.
type Hasher struct {
	seed       float64
	k          float64
	iterations int
	suffix     []byte
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithSeed overrides the initial condition.
func WithSeed(seed float64) Option {
	return func(h *Hasher) { h.seed = seed }
}

// WithK overrides the Chebyshev polynomial degree.
func WithK(k float64) Option {
	return func(h *Hasher) { h.k = k }
}

// WithIterations overrides the number of map applications. Negative values are treated as zero.
func WithIterations(n int) Option {
	return func(h *Hasher) {
		if n < 0 {
			n = 0
		}
		h.iterations = n
	}
}

// New returns a Hasher using the default parameters unless overridden.
// Changing any parameter changes every digest, so stored hashes only verify
// against a Hasher built with the same options.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		seed:       DefaultSeed,
		k:          DefaultK,
		iterations: DefaultIterations,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.suffix = []byte(FormatFloat(h.Value()))
	return h
}

var defaultHasher = New()

// Hash returns the hex digest of password using the default parameters.
func Hash(password string) string {
	return defaultHasher.Hash(password)
}

// ChebyshevMap applies one step of the map x -> cos(k * acos(x)).
func ChebyshevMap(x, k float64) float64 {
	return math.Cos(k * math.Acos(x))
}

// Value returns the scalar reached after iterating the map from the seed.
func (h *Hasher) Value() float64 {
	x := h.seed
	for i := 0; i < h.iterations; i++ {
		x = ChebyshevMap(x, h.k)
	}
	return x
}

// Hash returns the lowercase hex SHA-256 digest of password followed by the map value.
func (h *Hasher) Hash(password string) string {
	buf := make([]byte, 0, len(password)+len(h.suffix))
	buf = append(buf, password...)
	buf = append(buf, h.suffix...)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
