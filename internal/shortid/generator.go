// Package shortid produces short, unpredictable base-62 identifiers.
package shortid

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Alphabet is the base-62 charset: digits, then lowercase, then
// uppercase. Index order matters for stable extraction.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength gives 62^7 ≈ 3.5 * 10^12 possible identifiers.
const DefaultLength = 7

var ErrInvalidLength = errors.New("short id length must be positive")

var base = big.NewInt(int64(len(Alphabet)))

// Generator produces identifiers of a fixed length.
type Generator struct {
	length int
}

// New returns a Generator for the given identifier length.
func New(length int) (*Generator, error) {
	if length < 1 {
		return nil, ErrInvalidLength
	}
	return &Generator{length: length}, nil
}

// Length returns the configured identifier length.
func (g *Generator) Length() int {
	return g.length
}

// Generate draws one 128-bit random value and extracts base-62 digits
// from it, least significant first, prepending each. If the value
// exhausts before enough characters are produced, a second independent
// 128-bit draw pads the remaining leading positions; the first draw's
// spent state is never reused.
func (g *Generator) Generate() (string, error) {
	n, err := randomInt128()
	if err != nil {
		return "", err
	}

	buf := make([]byte, g.length)
	i := g.length - 1
	mod := new(big.Int)
	for i >= 0 && n.Sign() > 0 {
		n.DivMod(n, base, mod)
		buf[i] = Alphabet[mod.Int64()]
		i--
	}

	if i >= 0 {
		pad, err := randomInt128()
		if err != nil {
			return "", err
		}
		for i >= 0 {
			pad.DivMod(pad, base, mod)
			buf[i] = Alphabet[mod.Int64()]
			i--
		}
	}

	return string(buf), nil
}

// randomInt128 returns a random UUID's value as an unsigned 128-bit
// integer.
func randomInt128() (*big.Int, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to draw random value: %w", err)
	}
	return new(big.Int).SetBytes(u[:]), nil
}
