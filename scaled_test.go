package bigmoney

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/govalues/decimal"
)

// scaled returns coef * 10^exp as a new integer.
func scaled(coef int64, exp int) *big.Int {
	return new(big.Int).Mul(big.NewInt(coef), pow10(exp))
}

func TestParseScaled(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			mode RoundingMode
			want *big.Int
		}{
			{"0", HalfToEven, big.NewInt(0)},
			{"-0", HalfToEven, big.NewInt(0)},
			{"1", HalfToEven, scaled(1, Precision)},
			{"-1", HalfToEven, scaled(-1, Precision)},
			{"7.", HalfToEven, scaled(7, Precision)},
			{".04", HalfToEven, scaled(4, Precision-2)},
			{"-.5", HalfToEven, scaled(-5, Precision-1)},
			{"00012.3400", HalfToEven, scaled(1234, Precision-2)},
			{"0.00000000000000000001", HalfToEven, big.NewInt(1)},
			{"9007199254740992.555555555", HalfToEven, new(big.Int).Add(scaled(9007199254740992, Precision), scaled(555555555, Precision-9))},

			// More than Precision fractional digits
			{"0.000000000000000000015", HalfToEven, big.NewInt(2)},
			{"0.000000000000000000025", HalfToEven, big.NewInt(2)},
			{"0.000000000000000000025", HalfAwayFromZero, big.NewInt(3)},
			{"0.000000000000000000019", Truncate, big.NewInt(1)},
			{"-0.000000000000000000015", HalfToEven, big.NewInt(-2)},
			{"0.999999999999999999999", HalfToEven, scaled(1, Precision)},
		}
		for _, tt := range tests {
			got, err := parseScaled(tt.s, tt.mode)
			if err != nil {
				t.Errorf("parseScaled(%q, %v) failed: %v", tt.s, tt.mode, err)
				continue
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("parseScaled(%q, %v) = %v, want %v", tt.s, tt.mode, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []string{
			"", "-", ".", "-.", "+1", "1e5", "1.2.3", "abc", " 1", "1 ", "1,000", "--1", "1-", "0x10", "١",
		}
		for _, tt := range tests {
			_, err := parseScaled(tt, HalfToEven)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("parseScaled(%q) = %v, want %v", tt, err, ErrMalformed)
			}
		}
	})
}

func TestToScaled(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			v    any
			want *big.Int
		}{
			{"1.5", scaled(15, Precision-1)},
			{int(-3), scaled(-3, Precision)},
			{int8(-8), scaled(-8, Precision)},
			{int16(16), scaled(16, Precision)},
			{int32(32), scaled(32, Precision)},
			{int64(MaxSafeInteger), scaled(MaxSafeInteger, Precision)},
			{int64(-MaxSafeInteger), scaled(-MaxSafeInteger, Precision)},
			{uint(1), scaled(1, Precision)},
			{uint8(8), scaled(8, Precision)},
			{uint16(16), scaled(16, Precision)},
			{uint32(32), scaled(32, Precision)},
			{uint64(MaxSafeInteger), scaled(MaxSafeInteger, Precision)},
			{float32(2), scaled(2, Precision)},
			{float64(-1e15), scaled(-1e15, Precision)},
			{big.NewInt(42), scaled(42, Precision)},
			{decimal.MustParse("-1.25"), scaled(-125, Precision-2)},
			{MustParseAmount("USD", "0.01"), scaled(1, Precision-2)},
			{Amount{}, big.NewInt(0)},
		}
		for _, tt := range tests {
			got, err := toScaled(tt.v, HalfToEven)
			if err != nil {
				t.Errorf("toScaled(%v) failed: %v", tt.v, err)
				continue
			}
			if got.Cmp(tt.want) != 0 {
				t.Errorf("toScaled(%v) = %v, want %v", tt.v, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			v    any
			want error
		}{
			"string":      {"1,5", ErrMalformed},
			"nil":         {nil, ErrMalformed},
			"nil big":     {(*big.Int)(nil), ErrMalformed},
			"nil amount":  {(*Amount)(nil), ErrMalformed},
			"bytes":       {[]byte("1"), ErrMalformed},
			"rat":         {big.NewRat(1, 2), ErrMalformed},
			"int64 max":   {int64(MaxSafeInteger + 1), ErrUnsafeInteger},
			"int64 min":   {int64(-MaxSafeInteger - 1), ErrUnsafeInteger},
			"uint64 max":  {uint64(math.MaxUint64), ErrUnsafeInteger},
			"float frac":  {1.1, ErrUnsafeInteger},
			"float large": {float64(1 << 53), ErrUnsafeInteger},
			"float nan":   {math.NaN(), ErrUnsafeInteger},
			"float inf":   {math.Inf(-1), ErrUnsafeInteger},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := toScaled(tt.v, HalfToEven)
				if !errors.Is(err, tt.want) {
					t.Errorf("toScaled(%v) = %v, want %v", tt.v, err, tt.want)
				}
			})
		}
	})
}

func TestFormatFixed(t *testing.T) {
	const P = Precision
	tests := []struct {
		x    *big.Int
		prec int
		mode RoundingMode
		want string
	}{
		{big.NewInt(1), 0, HalfToEven, "0"},
		{scaled(1, P), 0, HalfToEven, "1"},
		{scaled(1, P-1), 0, HalfToEven, "0"},
		{scaled(1, P-1), 1, HalfToEven, "0.1"},
		{scaled(1, P-2), 2, HalfToEven, "0.01"},
		{scaled(4, P-3), 2, HalfToEven, "0.00"},
		{scaled(5, P-3), 2, HalfToEven, "0.00"},
		{scaled(6, P-3), 2, HalfToEven, "0.01"},
		{scaled(99, P-2), 2, HalfToEven, "0.99"},
		{scaled(995, P-3), 2, HalfToEven, "1.00"},
		{scaled(19995, P-3), 2, HalfToEven, "20.00"},

		// Negative amounts keep their sign
		{big.NewInt(-1), 0, HalfToEven, "-0"},
		{scaled(-1, P), 0, HalfToEven, "-1"},
		{scaled(-1, P-1), 0, HalfToEven, "-0"},
		{scaled(-1, P-1), 1, HalfToEven, "-0.1"},
		{scaled(-1, P-2), 2, HalfToEven, "-0.01"},
		{scaled(-4, P-3), 2, HalfToEven, "-0.00"},
		{scaled(-5, P-3), 2, HalfToEven, "-0.00"},
		{scaled(-6, P-3), 2, HalfToEven, "-0.01"},
		{scaled(-99, P-2), 2, HalfToEven, "-0.99"},
		{scaled(-995, P-3), 2, HalfToEven, "-1.00"},
		{big.NewInt(0), 2, HalfToEven, "0.00"},

		// Rounding modes
		{scaled(25, P-1), 0, HalfToEven, "2"},
		{scaled(25, P-1), 0, HalfAwayFromZero, "3"},
		{scaled(25, P-1), 0, HalfTowardsZero, "2"},
		{scaled(25, P-1), 0, Truncate, "2"},
		{scaled(-25, P-1), 0, HalfToEven, "-2"},
		{scaled(-25, P-1), 0, HalfAwayFromZero, "-3"},
		{scaled(-25, P-1), 0, HalfTowardsZero, "-2"},
		{scaled(-25, P-1), 0, Truncate, "-2"},
		{scaled(1005, P-3), 2, HalfAwayFromZero, "1.01"},
		{scaled(1009, P-3), 2, Truncate, "1.00"},
		{scaled(-1009, P-3), 2, Truncate, "-1.00"},

		// Padding beyond Precision
		{big.NewInt(1), P, HalfToEven, "0." + strings.Repeat("0", P-1) + "1"},
		{big.NewInt(1), P + 2, HalfToEven, "0." + strings.Repeat("0", P-1) + "100"},
		{scaled(-3, P), P + 1, HalfToEven, "-3." + strings.Repeat("0", P+1)},
	}
	for _, tt := range tests {
		got := formatFixed(tt.x, tt.prec, tt.mode)
		if got != tt.want {
			t.Errorf("formatFixed(%v, %v, %v) = %q, want %q", tt.x, tt.prec, tt.mode, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		s, want string
	}{
		{"0", "0"},
		{"-0", "0"},
		{"1.5000", "1.5"},
		{"1.0000", "1"},
		{"100", "100"},
		{"-100.00", "-100"},
		{"-0.00100", "-0.001"},
		{".5", "0.5"},
		{"0.00000000000000000001", "0.00000000000000000001"},
		{"123456789012345678901234567890.5", "123456789012345678901234567890.5"},
	}
	for _, tt := range tests {
		x, err := parseScaled(tt.s, HalfToEven)
		if err != nil {
			t.Errorf("parseScaled(%q) failed: %v", tt.s, err)
			continue
		}
		got := formatCompact(x)
		if got != tt.want {
			t.Errorf("formatCompact(%q) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestParseFormat_RoundTrip(t *testing.T) {
	// Strings already in compact form survive a round trip unchanged
	tests := []string{
		"0", "1", "-1", "0.1", "-0.1", "12.345", "-98765.4321",
		"0.00000000000000000001", "-0.00000000000000000001",
		"9007199254740993", "123456789012345678901234567890.12345678901234567891",
	}
	for _, tt := range tests {
		x, err := parseScaled(tt, HalfToEven)
		if err != nil {
			t.Errorf("parseScaled(%q) failed: %v", tt, err)
			continue
		}
		if got := formatCompact(x); got != tt {
			t.Errorf("formatCompact(parseScaled(%q)) = %q, want %q", tt, got, tt)
		}
		fixed := formatFixed(x, Precision+5, HalfToEven)
		if got := strings.TrimSuffix(strings.TrimRight(fixed, "0"), "."); got != tt {
			t.Errorf("formatFixed(parseScaled(%q), %v) = %q, want %q with trailing zeros", tt, Precision+5, fixed, tt)
		}
	}
}
