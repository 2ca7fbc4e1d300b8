package bigmoney

import (
	"fmt"
	"math/big"
	"strings"
)

// RoundingMode determines how a division remainder is resolved when the
// exact result cannot be represented.
// The zero value is [HalfToEven].
type RoundingMode uint8

const (
	// HalfToEven rounds to the nearest neighbor and resolves ties toward the
	// even neighbor. Also known as [banker's rounding].
	//
	// [banker's rounding]: https://en.wikipedia.org/wiki/Rounding#Rounding_half_to_even
	HalfToEven RoundingMode = iota
	// HalfAwayFromZero rounds to the nearest neighbor and resolves ties away
	// from zero.
	HalfAwayFromZero
	// HalfTowardsZero rounds to the nearest neighbor and resolves ties toward
	// zero.
	HalfTowardsZero
	// Truncate always rounds toward zero, regardless of the remainder.
	Truncate
)

var modeNames = [...]string{
	HalfToEven:       "HALF_TO_EVEN",
	HalfAwayFromZero: "HALF_AWAY_FROM_0",
	HalfTowardsZero:  "HALF_TOWARDS_0",
	Truncate:         "TRUNCATE",
}

func (m RoundingMode) valid() bool {
	return int(m) < len(modeNames)
}

// ParseRoundingMode converts a string to a rounding mode.
// The following names are accepted, in any letter case:
//
//	HALF_TO_EVEN
//	HALF_AWAY_FROM_0
//	HALF_TOWARDS_0
//	TRUNCATE
//
// ParseRoundingMode returns an error if the name is not recognized.
func ParseRoundingMode(s string) (RoundingMode, error) {
	u := strings.ToUpper(s)
	for i, name := range modeNames {
		if name == u {
			return RoundingMode(i), nil
		}
	}
	return HalfToEven, fmt.Errorf("%w: %q", ErrInvalidRoundingMode, s)
}

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (m RoundingMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("RoundingMode(%d)", uint8(m))
	}
	return modeNames[m]
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (m RoundingMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("marshaling %v: %w", m, ErrInvalidRoundingMode)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseRoundingMode].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (m *RoundingMode) UnmarshalText(text []byte) error {
	var err error
	*m, err = ParseRoundingMode(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", HalfToEven, err)
	}
	return nil
}

var bigOne = big.NewInt(1)

// Divide returns the quotient a / b rounded to an integer using the given mode.
// The magnitude of the quotient is computed from |a| and |b|, and the result
// is negated if exactly one of a and b is negative.
// Divide never modifies its arguments.
//
// Divide panics if b is zero, or if the quotient is inexact and the rounding
// mode is not one of the declared constants.
func Divide(a, b *big.Int, mode RoundingMode) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))

	if r.Sign() != 0 {
		// Compare 2 * remainder with the divisor
		c := r.Lsh(r, 1).Cmp(y)
		inc := false
		switch mode {
		case HalfToEven:
			inc = c > 0 || (c == 0 && q.Bit(0) == 1)
		case HalfAwayFromZero:
			inc = c >= 0
		case HalfTowardsZero:
			inc = c > 0
		case Truncate:
			inc = false
		default:
			panic(fmt.Sprintf("Divide(%v, %v, %v) failed: %v", a, b, mode, ErrInvalidRoundingMode))
		}
		if inc {
			q.Add(q, bigOne)
		}
	}

	if (a.Sign() < 0) != (b.Sign() < 0) {
		q.Neg(q)
	}
	return q
}
