package bigmoney

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/govalues/decimal"
)

// Precision is the number of digits after the decimal point that every
// amount retains internally, regardless of the precision requested for
// output.
const Precision = 20

// MaxSafeInteger is the largest machine integer accepted as an operand.
// Larger magnitudes must be passed as strings or as [*big.Int] values.
const MaxSafeInteger = 1<<53 - 1

var (
	bigZero     = new(big.Int)
	scaleFactor = pow10(Precision)
)

// pow10 returns a new integer equal to 10^n.
func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// toScaled converts any accepted operand to an integer scaled by 10^Precision.
// The result must be treated as read-only, since for an [Amount] operand it is
// the amount's own value.
//
//gocyclo:ignore
func toScaled(v any, mode RoundingMode) (*big.Int, error) {
	switch v := v.(type) {
	case Amount:
		return v.source(), nil
	case *Amount:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrMalformed, v)
		}
		return v.source(), nil
	case string:
		return parseScaled(v, mode)
	case int:
		return scaleInt64(int64(v))
	case int8:
		return scaleInt64(int64(v))
	case int16:
		return scaleInt64(int64(v))
	case int32:
		return scaleInt64(int64(v))
	case int64:
		return scaleInt64(v)
	case uint:
		return scaleUint64(uint64(v))
	case uint8:
		return scaleUint64(uint64(v))
	case uint16:
		return scaleUint64(uint64(v))
	case uint32:
		return scaleUint64(uint64(v))
	case uint64:
		return scaleUint64(v)
	case float32:
		return scaleFloat64(float64(v))
	case float64:
		return scaleFloat64(v)
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrMalformed, v)
		}
		return new(big.Int).Mul(v, scaleFactor), nil
	case decimal.Decimal:
		return parseScaled(v.String(), mode)
	default:
		return nil, fmt.Errorf("%w: type %T is not supported", ErrMalformed, v)
	}
}

func scaleInt64(i int64) (*big.Int, error) {
	if i > MaxSafeInteger || i < -MaxSafeInteger {
		return nil, fmt.Errorf("%w: %v", ErrUnsafeInteger, i)
	}
	return new(big.Int).Mul(big.NewInt(i), scaleFactor), nil
}

func scaleUint64(u uint64) (*big.Int, error) {
	if u > MaxSafeInteger {
		return nil, fmt.Errorf("%w: %v", ErrUnsafeInteger, u)
	}
	return scaleInt64(int64(u))
}

// scaleFloat64 accepts only floats that hold a safe integer exactly.
func scaleFloat64(f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f || math.Abs(f) > MaxSafeInteger {
		return nil, fmt.Errorf("%w: %v", ErrUnsafeInteger, f)
	}
	return scaleInt64(int64(f))
}

// parseScaled converts a decimal string to an integer scaled by 10^Precision.
// The string must match the following grammar:
//
//	sign     ::= '-'
//	digits   ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	number   ::= [sign] digits ['.' digits]
//
// with at least one digit present in either the integer or the fractional part.
// Fractional digits beyond [Precision] are rounded using the given mode.
func parseScaled(s string, mode RoundingMode) (*big.Int, error) {
	pos := 0
	neg := false
	if pos < len(s) && s[pos] == '-' {
		neg = true
		pos++
	}

	// Integer part
	start := pos
	for pos < len(s) && isDigit(s[pos]) {
		pos++
	}
	whole := s[start:pos]

	// Fractional part
	frac := ""
	if pos < len(s) && s[pos] == '.' {
		pos++
		start = pos
		for pos < len(s) && isDigit(s[pos]) {
			pos++
		}
		frac = s[start:pos]
	}

	if pos != len(s) || (whole == "" && frac == "") {
		return nil, fmt.Errorf("%w: %q does not match the pattern -?digits?(.digits?)?", ErrMalformed, s)
	}

	x := new(big.Int)
	if whole != "" {
		x.SetString(whole, 10)
		x.Mul(x, scaleFactor)
	}

	if frac != "" {
		f, _ := new(big.Int).SetString(frac, 10)
		switch n := len(frac); {
		case n <= Precision:
			f.Mul(f, pow10(Precision-n))
		default:
			f = Divide(f, pow10(n-Precision), mode)
		}
		x.Add(x, f)
	}

	if neg {
		x.Neg(x)
	}
	return x, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// formatFixed renders a scaled integer with exactly prec digits after the
// decimal point. Digits beyond [Precision] are zero-padded, digits below it
// are rounded using the given mode.
// A negative value whose whole part is zero keeps its minus sign, even when
// rounding leaves nothing but zeros.
func formatFixed(x *big.Int, prec int, mode RoundingMode) string {
	neg := x.Sign() < 0

	if prec == 0 {
		q := Divide(x, scaleFactor, mode)
		if neg && q.Sign() == 0 {
			return "-0"
		}
		return q.String()
	}

	abs := new(big.Int).Abs(x)
	whole, frac := new(big.Int).QuoRem(abs, scaleFactor, new(big.Int))

	var digits string
	switch {
	case prec < Precision:
		frac = Divide(frac, pow10(Precision-prec), mode)
		// Rounding may carry into the whole part, e.g. 0.995 -> 1.00
		if frac.Cmp(pow10(prec)) >= 0 {
			whole.Add(whole, bigOne)
			frac.SetInt64(0)
		}
		digits = padDigits(frac.String(), prec)
	default:
		digits = padDigits(frac.String(), Precision) + strings.Repeat("0", prec-Precision)
	}

	var b strings.Builder
	b.Grow(len(digits) + Precision + 3)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(whole.String())
	b.WriteByte('.')
	b.WriteString(digits)
	return b.String()
}

// padDigits left-pads a string of digits with zeros up to n characters.
func padDigits(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// formatCompact renders a scaled integer at full internal precision and
// removes insignificant trailing zeros, along with the decimal point when
// nothing remains after it.
func formatCompact(x *big.Int) string {
	s := formatFixed(x, Precision, Truncate)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
