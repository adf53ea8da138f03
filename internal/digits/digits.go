// Package digits provides the reference digit sequence of π.
package digits

import (
	"fmt"
	"math/big"
	"sync"
)

// DefaultLength is the number of decimals held by the default source.
const DefaultLength = 10000

// MaxLength bounds computed sources.
const MaxLength = 100000

// guardDigits absorbs truncation error from the series terms.
const guardDigits = 10

// Source is an immutable sequence of the decimal digits of π following "3.".
type Source struct {
	digits string
}

var (
	defaultOnce   sync.Once
	defaultSource *Source
)

// Default returns the shared source of DefaultLength digits.
func Default() *Source {
	defaultOnce.Do(func() {
		defaultSource = New(DefaultLength)
	})
	return defaultSource
}

// New computes the first n decimals of π. n is clamped to [0, MaxLength].
func New(n int) *Source {
	if n < 0 {
		n = 0
	}
	if n > MaxLength {
		n = MaxLength
	}
	return &Source{digits: computePi(n)}
}

// FromDigits wraps a fixed digit string, rejecting anything outside 0-9.
func FromDigits(s string) (*Source, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("invalid digit %q at offset %d", s[i], i)
		}
	}
	return &Source{digits: s}, nil
}

// Len returns the number of available digits.
func (s *Source) Len() int {
	return len(s.digits)
}

// DigitAt returns the digit at pos. ok is false past the known sequence.
func (s *Source) DigitAt(pos int) (byte, bool) {
	if pos < 0 || pos >= len(s.digits) {
		return 0, false
	}
	return s.digits[pos], true
}

// Range returns digits in [start, end), clamped to the available length.
func (s *Source) Range(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.digits) {
		end = len(s.digits)
	}
	if start >= end {
		return ""
	}
	return s.digits[start:end]
}

// computePi evaluates Machin's formula, π = 16·atan(1/5) − 4·atan(1/239),
// in fixed point and returns the first n decimals.
func computePi(n int) string {
	if n == 0 {
		return ""
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n+guardDigits)), nil)

	a := arctanInv(5, scale)
	a.Mul(a, big.NewInt(16))
	b := arctanInv(239, scale)
	b.Mul(b, big.NewInt(4))
	pi := a.Sub(a, b)

	text := pi.String()
	// text starts with the integral "3".
	return text[1 : 1+n]
}

// arctanInv returns atan(1/x) scaled by scale.
func arctanInv(x int64, scale *big.Int) *big.Int {
	bx := big.NewInt(x)
	x2 := big.NewInt(x * x)

	term := new(big.Int).Quo(scale, bx)
	sum := new(big.Int).Set(term)
	part := new(big.Int)
	div := new(big.Int)
	for k := int64(1); ; k++ {
		term.Quo(term, x2)
		if term.Sign() == 0 {
			break
		}
		div.SetInt64(2*k + 1)
		part.Quo(term, div)
		if k%2 == 1 {
			sum.Sub(sum, part)
		} else {
			sum.Add(sum, part)
		}
	}
	return sum
}
