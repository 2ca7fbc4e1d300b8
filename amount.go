package bigmoney

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/govalues/decimal"
)

var (
	// ErrMalformed is returned when an operand is neither a valid decimal
	// string nor one of the supported numeric types.
	ErrMalformed = errors.New("malformed amount")
	// ErrUnsafeInteger is returned when a machine integer (or an integral
	// float) exceeds [MaxSafeInteger] in absolute value, or when a float is
	// not an integer at all.
	ErrUnsafeInteger = errors.New("unsafe integer")
	// ErrIncompatibleUnit is returned when amounts with different units are
	// added, subtracted or compared.
	ErrIncompatibleUnit = errors.New("incompatible units")
	// ErrDivisionByZero is returned when dividing by a zero amount.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidParts is returned when an amount is allocated into fewer than
	// one part.
	ErrInvalidParts = errors.New("number of parts must be positive")
	// ErrInvalidPrecision is returned when a requested precision is outside
	// the range [0, Precision].
	ErrInvalidPrecision = errors.New("invalid precision")
	// ErrInvalidRoundingMode is returned when a rounding mode is not one of
	// the declared constants.
	ErrInvalidRoundingMode = errors.New("invalid rounding mode")
	// ErrExponentRange is returned when an exponent has no representable
	// magnitude.
	ErrExponentRange = errors.New("exponent out of range")
)

// Amount represents an exact monetary value: a decimal number with
// [Precision] digits after the decimal point, tagged with a unit.
// The unit is an opaque label (usually a currency code), used only to
// prevent combining unrelated amounts; it is never validated or interpreted.
//
// Amount is immutable: every operation returns a new amount.
// It is safe for concurrent use by multiple goroutines.
// The zero value is 0 with an empty unit and [HalfToEven] rounding.
type Amount struct {
	unit  string
	mode  RoundingMode
	value *big.Int // decimal value multiplied by 10^Precision, never mutated
}

// newAmountUnsafe wraps a scaled integer without copying it.
// The integer must not be modified afterwards by anyone.
func newAmountUnsafe(unit string, mode RoundingMode, x *big.Int) Amount {
	return Amount{unit: unit, mode: mode, value: x}
}

// derive returns an amount with the unit and rounding mode of amount a.
func (a Amount) derive(x *big.Int) Amount {
	return newAmountUnsafe(a.unit, a.mode, x)
}

// source returns the scaled value; it must not be modified.
func (a Amount) source() *big.Int {
	if a.value == nil {
		return bigZero
	}
	return a.value
}

// NewAmount converts a value to an amount with the given unit, using
// [HalfToEven] rounding.
// See [NewAmountWithMode] for the list of accepted values.
func NewAmount(value any, unit string) (Amount, error) {
	return NewAmountWithMode(value, unit, HalfToEven)
}

// NewAmountWithMode converts a value to an amount with the given unit and
// rounding mode. The value can be one of:
//
//   - a string matching -?digits?(.digits?)?, such as "-12.50", ".5" or "7.";
//   - a machine integer within ±[MaxSafeInteger];
//   - a float64 or float32 holding an integer within ±[MaxSafeInteger];
//   - a [*big.Int], treated as a whole amount;
//   - a [decimal.Decimal];
//   - an [Amount], whose unit and rounding mode are ignored.
//
// Strings with more than [Precision] fractional digits are rounded using
// the given mode.
//
// NewAmountWithMode returns an error if:
//   - the string does not match the pattern ([ErrMalformed]);
//   - the type of the value is not supported ([ErrMalformed]);
//   - the integer is not safe ([ErrUnsafeInteger]);
//   - the rounding mode is not valid ([ErrInvalidRoundingMode]).
func NewAmountWithMode(value any, unit string, mode RoundingMode) (Amount, error) {
	if !mode.valid() {
		return Amount{}, fmt.Errorf("converting %v: %w", value, ErrInvalidRoundingMode)
	}
	x, err := toScaled(value, mode)
	if err != nil {
		return Amount{}, fmt.Errorf("converting %v: %w", value, err)
	}
	return newAmountUnsafe(unit, mode, x), nil
}

// MustNewAmount is like [NewAmount] but panics if the amount cannot be constructed.
// It simplifies safe initialization of global variables holding amounts.
func MustNewAmount(value any, unit string) Amount {
	a, err := NewAmount(value, unit)
	if err != nil {
		panic(fmt.Sprintf("NewAmount(%v, %q) failed: %v", value, unit, err))
	}
	return a
}

// ParseAmount converts a decimal string to an amount with the given unit.
// It is equivalent to [NewAmount] called with a string.
func ParseAmount(unit, amount string) (Amount, error) {
	return NewAmount(amount, unit)
}

// MustParseAmount is like [ParseAmount] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding amounts.
func MustParseAmount(unit, amount string) Amount {
	a, err := ParseAmount(unit, amount)
	if err != nil {
		panic(fmt.Sprintf("ParseAmount(%q, %q) failed: %v", unit, amount, err))
	}
	return a
}

// FromSource returns an amount whose scaled value is raw, i.e. an amount equal
// to raw / 10^Precision, using [HalfToEven] rounding.
// A nil raw value is treated as zero.
// It is the inverse of [Amount.Source] and never loses data.
func FromSource(raw *big.Int, unit string) Amount {
	return FromSourceWithMode(raw, unit, HalfToEven)
}

// FromSourceWithMode is like [FromSource] but uses the given rounding mode.
//
// FromSourceWithMode panics if the rounding mode is not valid.
func FromSourceWithMode(raw *big.Int, unit string, mode RoundingMode) Amount {
	if !mode.valid() {
		panic(fmt.Sprintf("FromSourceWithMode(%v, %q, %v) failed: %v", raw, unit, mode, ErrInvalidRoundingMode))
	}
	x := new(big.Int)
	if raw != nil {
		x.Set(raw)
	}
	return newAmountUnsafe(unit, mode, x)
}

// Source returns the scaled value of the amount, that is the amount
// multiplied by 10^Precision. The result is a copy and can be freely modified.
// See also constructor [FromSource].
func (a Amount) Source() *big.Int {
	return new(big.Int).Set(a.source())
}

// Unit returns the unit of the amount.
func (a Amount) Unit() string {
	return a.unit
}

// Mode returns the rounding mode used by the operations on the amount.
func (a Amount) Mode() RoundingMode {
	return a.mode
}

// WithMode returns an amount with the same value and unit, but with a
// different rounding mode.
//
// WithMode panics if the rounding mode is not valid.
func (a Amount) WithMode(mode RoundingMode) Amount {
	if !mode.valid() {
		panic(fmt.Sprintf("%v.WithMode(%v) failed: %v", a, mode, ErrInvalidRoundingMode))
	}
	return newAmountUnsafe(a.unit, mode, a.value)
}

// Decimal returns the amount as a [decimal.Decimal], rounded with the
// rounding mode of the amount to as many fractional digits as the decimal
// type can hold. Trailing zeros are removed.
//
// Decimal returns an error if the integer part of the amount has more
// than [decimal.MaxPrec] digits, either before rounding or after the
// rounding carries into a new integer digit (e.g. "9999999999999999999.6").
func (a Amount) Decimal() (decimal.Decimal, error) {
	whole := new(big.Int).Quo(a.source(), scaleFactor)
	scale := decimal.MaxScale
	if whole.Sign() != 0 {
		digits := len(whole.Text(10))
		if whole.Sign() < 0 {
			digits--
		}
		if digits > decimal.MaxPrec {
			return decimal.Decimal{}, fmt.Errorf("converting %v: integer part has %v digits", a, digits)
		}
		scale = min(scale, decimal.MaxPrec-digits)
	}
	s := formatFixed(a.source(), scale, a.mode)
	if strings.Contains(s, ".") {
		// A carry may leave only zeros after the point
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", a, err)
	}
	return d, nil
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a Amount) Sign() int {
	return a.source().Sign()
}

// IsZero returns:
//
//	true  if a = 0
//	false otherwise
func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

// IsNeg returns:
//
//	true  if a < 0
//	false otherwise
func (a Amount) IsNeg() bool {
	return a.Sign() < 0
}

// IsPos returns:
//
//	true  if a > 0
//	false otherwise
func (a Amount) IsPos() bool {
	return a.Sign() > 0
}

// SameUnit returns true if amounts have the same unit.
func (a Amount) SameUnit(b Amount) bool {
	return a.unit == b.unit
}

// checkUnit fails if b is an amount with a unit different from the unit of a.
// Operands of other types carry no unit and always pass.
func (a Amount) checkUnit(b any) error {
	switch b := b.(type) {
	case Amount:
		if !a.SameUnit(b) {
			return fmt.Errorf("%w: %q and %q", ErrIncompatibleUnit, a.unit, b.unit)
		}
	case *Amount:
		if b != nil && !a.SameUnit(*b) {
			return fmt.Errorf("%w: %q and %q", ErrIncompatibleUnit, a.unit, b.unit)
		}
	}
	return nil
}

// Abs returns the absolute value of the amount.
func (a Amount) Abs() Amount {
	sign := big.NewInt(int64(a.Sign()))
	return a.mulScaled(sign.Mul(sign, scaleFactor))
}

// Neg returns an amount with the opposite sign.
func (a Amount) Neg() Amount {
	return a.derive(new(big.Int).Neg(a.source()))
}

// Add returns the sum of amount a and value b.
// The value b can be anything accepted by [NewAmountWithMode]; if it is an
// [Amount], it must have the same unit as amount a.
// Addition is exact: both operands already have [Precision] digits.
//
// Add returns an error if:
//   - b is an amount with a different unit ([ErrIncompatibleUnit]);
//   - b cannot be converted to an amount.
func (a Amount) Add(b any) (Amount, error) {
	c, err := a.add(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v + %v]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) add(b any) (Amount, error) {
	if err := a.checkUnit(b); err != nil {
		return Amount{}, err
	}
	e, err := toScaled(b, a.mode)
	if err != nil {
		return Amount{}, err
	}
	return a.derive(new(big.Int).Add(a.source(), e)), nil
}

// Sub returns the difference between amount a and value b.
// The value b can be anything accepted by [NewAmountWithMode]; if it is an
// [Amount], it must have the same unit as amount a.
//
// Sub returns an error if:
//   - b is an amount with a different unit ([ErrIncompatibleUnit]);
//   - b cannot be converted to an amount.
func (a Amount) Sub(b any) (Amount, error) {
	c, err := a.sub(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v - %v]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) sub(b any) (Amount, error) {
	if err := a.checkUnit(b); err != nil {
		return Amount{}, err
	}
	e, err := toScaled(b, a.mode)
	if err != nil {
		return Amount{}, err
	}
	return a.derive(new(big.Int).Sub(a.source(), e)), nil
}

// Mul returns the (possibly rounded) product of amount a and value b.
// The product is rounded to [Precision] digits using the rounding mode of
// amount a.
//
// Unlike [Amount.Add] and [Amount.Sub], Mul does not check units: if b is an
// amount with a different unit, the result still has the unit of amount a.
// Scaling an amount is not the same as combining two amounts, but this also
// means that Mul will not catch a product of unrelated amounts.
//
// Mul returns an error if b cannot be converted to an amount.
func (a Amount) Mul(b any) (Amount, error) {
	c, err := a.mul(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v * %v]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) mul(b any) (Amount, error) {
	e, err := toScaled(b, a.mode)
	if err != nil {
		return Amount{}, err
	}
	return a.mulScaled(e), nil
}

// mulScaled multiplies by a scaled integer and restores the precision.
func (a Amount) mulScaled(e *big.Int) Amount {
	x := new(big.Int).Mul(a.source(), e)
	return a.derive(Divide(x, scaleFactor, a.mode))
}

// Quo returns the (possibly rounded) quotient of amount a and value b.
// The quotient is rounded to [Precision] digits using the rounding mode of
// amount a.
//
// Like [Amount.Mul], Quo does not check units: the result always has the
// unit of amount a.
//
// Quo returns an error if:
//   - b is zero ([ErrDivisionByZero]);
//   - b cannot be converted to an amount.
func (a Amount) Quo(b any) (Amount, error) {
	c, err := a.quo(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v / %v]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) quo(b any) (Amount, error) {
	e, err := toScaled(b, a.mode)
	if err != nil {
		return Amount{}, err
	}
	return a.quoScaled(e)
}

func (a Amount) quoScaled(e *big.Int) (Amount, error) {
	if e.Sign() == 0 {
		return Amount{}, ErrDivisionByZero
	}
	// Rescaling the dividend keeps Precision digits in the quotient
	x := new(big.Int).Mul(a.source(), scaleFactor)
	return a.derive(Divide(x, e, a.mode)), nil
}

// Pow returns amount a raised to the integer power exp.
// Positive powers are computed by repeated multiplication, each step rounded
// to [Precision] digits. Negative powers are computed as 1 / a^|exp|.
// Any amount raised to the power of 0, including zero, is 1.
//
// Pow returns an error if:
//   - amount a is zero and exp is negative ([ErrDivisionByZero]);
//   - exp is [math.MinInt], whose magnitude is not an int ([ErrExponentRange]).
func (a Amount) Pow(exp int) (Amount, error) {
	c, err := a.pow(exp)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v^%v]: %w", a, exp, err)
	}
	return c, nil
}

func (a Amount) pow(exp int) (Amount, error) {
	one := a.derive(new(big.Int).Set(scaleFactor))
	if exp == 0 {
		return one, nil
	}

	if exp == math.MinInt {
		return Amount{}, fmt.Errorf("%w: %v", ErrExponentRange, exp)
	}
	n := exp
	if n < 0 {
		n = -n
	}
	e := a.source()
	p := a
	for i := 1; i < n; i++ {
		p = p.mulScaled(e)
	}

	if exp < 0 {
		return one.quoScaled(p.source())
	}
	return p, nil
}

// Cmp compares amount a and value b and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
//
// Equality is numeric, so "-0" equals "0".
//
// Cmp returns an error if:
//   - b is an amount with a different unit ([ErrIncompatibleUnit]);
//   - b cannot be converted to an amount.
func (a Amount) Cmp(b any) (int, error) {
	if err := a.checkUnit(b); err != nil {
		return 0, fmt.Errorf("comparing [%v] and [%v]: %w", a, b, err)
	}
	e, err := toScaled(b, a.mode)
	if err != nil {
		return 0, fmt.Errorf("comparing [%v] and [%v]: %w", a, b, err)
	}
	return a.source().Cmp(e), nil
}

// Less returns true if amount a is less than value b.
// See also method [Amount.Cmp].
func (a Amount) Less(b any) (bool, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// Greater returns true if amount a is greater than value b.
// See also method [Amount.Cmp].
func (a Amount) Greater(b any) (bool, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Equal returns true if amount a is numerically equal to value b.
// See also method [Amount.Cmp].
func (a Amount) Equal(b any) (bool, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// LessOrEqual returns true if amount a is less than or equal to value b.
// See also method [Amount.Cmp].
func (a Amount) LessOrEqual(b any) (bool, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

// GreaterOrEqual returns true if amount a is greater than or equal to value b.
// See also method [Amount.Cmp].
func (a Amount) GreaterOrEqual(b any) (bool, error) {
	c, err := a.Cmp(b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// Min returns the smaller amount.
// If the amounts are equal, amount a is returned.
//
// Min returns an error if amounts have different units.
func (a Amount) Min(b Amount) (Amount, error) {
	switch c, err := a.Cmp(b); {
	case err != nil:
		return Amount{}, err
	case c <= 0: // a <= b
		return a, nil
	default:
		return b, nil
	}
}

// Max returns the larger amount.
// If the amounts are equal, amount a is returned.
//
// Max returns an error if amounts have different units.
func (a Amount) Max(b Amount) (Amount, error) {
	switch c, err := a.Cmp(b); {
	case err != nil:
		return Amount{}, err
	case c >= 0: // a >= b
		return a, nil
	default:
		return b, nil
	}
}

// Allocate splits the amount into the given number of parts, each rounded to
// prec digits after the decimal point, such that the parts add up exactly to
// the original amount.
// The amount is divided equally and then the units in the last place that
// could not be divided are handed out one per part, starting with the first
// part. For negative amounts these units are taken away instead.
// For example, allocating 1 USD into 3 parts with prec 2 yields 0.34, 0.33
// and 0.33.
//
// If the amount itself has more than prec significant fractional digits,
// the digits below prec are added to the first part so that nothing is lost.
//
// Allocate returns an error if:
//   - parts is not positive ([ErrInvalidParts]);
//   - prec is negative or greater than [Precision] ([ErrInvalidPrecision]).
func (a Amount) Allocate(parts, prec int) ([]Amount, error) {
	r, err := a.allocate(parts, prec)
	if err != nil {
		return nil, fmt.Errorf("allocating %v into %v parts: %w", a, parts, err)
	}
	return r, nil
}

func (a Amount) allocate(parts, prec int) ([]Amount, error) {
	if parts < 1 {
		return nil, ErrInvalidParts
	}
	if prec < 0 || prec > Precision {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrecision, prec)
	}

	x := a.source()
	n := big.NewInt(int64(parts))
	ulp := pow10(Precision - prec)

	// Equal share, truncated to prec digits
	share := new(big.Int).Quo(x, n)
	share = Divide(share, ulp, Truncate)

	// Everything the equal shares do not cover, counted in units of ulp
	// plus sub-ulp dust
	left := new(big.Int).Mul(share, n)
	left.Mul(left, ulp)
	left.Sub(x, left)
	units, dust := new(big.Int).QuoRem(left, ulp, new(big.Int))

	step := new(big.Int).Set(ulp)
	if units.Sign() < 0 {
		step.Neg(step)
	}
	count := int(new(big.Int).Abs(units).Int64()) // |units| < parts

	share.Mul(share, ulp)
	res := make([]Amount, parts)
	for i := range res {
		y := new(big.Int).Set(share)
		if i < count {
			y.Add(y, step)
		}
		if i == 0 {
			y.Add(y, dust)
		}
		res[i] = a.derive(y)
	}
	return res, nil
}

// Split returns a slice of amounts that sum up to the original amount,
// ensuring the parts are as equal as possible at full internal precision.
// See also method [Amount.Allocate].
//
// Split returns an error if the number of parts is not positive.
func (a Amount) Split(parts int) ([]Amount, error) {
	return a.Allocate(parts, Precision)
}

// ToFixed returns a string representation of the amount with exactly prec
// digits after the decimal point. Digits below [Precision] are rounded using
// the rounding mode of the amount; digits beyond it are zeros.
// If prec is 0, no decimal point is written.
// Negative amounts that round to zero keep their sign, e.g. "-0.00".
//
// ToFixed panics if prec is negative.
func (a Amount) ToFixed(prec int) string {
	if prec < 0 {
		panic(fmt.Sprintf("%v.ToFixed(%v) failed: %v", a, prec, ErrInvalidPrecision))
	}
	return formatFixed(a.source(), prec, a.mode)
}

// Compact returns the shortest exact string representation of the amount,
// without insignificant trailing zeros, e.g. "1.5" rather than "1.50".
func (a Amount) Compact() string {
	return formatCompact(a.source())
}

// String implements the [fmt.Stringer] interface and returns the compact
// representation of the amount followed by its unit, e.g. "1.5 USD".
// If the unit is empty, only the amount is returned.
// See also methods [Amount.Compact], [Amount.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Amount) String() string {
	s := a.Compact()
	if a.unit == "" {
		return s
	}
	return s + " " + a.unit
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example     | Description              |
//	| ------ | ----------- | ------------------------ |
//	| %s, %v | 5.678 USD   | Amount and unit          |
//	| %q     | "5.678 USD" | Quoted amount and unit   |
//	| %f     | 5.678       | Amount                   |
//	| %c     | USD         | Unit                     |
//
// The '-' format flag can be used with all verbs.
// The '+' and '0' format flags can be used with the %f verb.
//
// Precision is only supported for the %f verb; it is passed to
// [Amount.ToFixed]. Without precision, %f prints the compact representation.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Amount) Format(state fmt.State, verb rune) {
	var body, sign string
	switch verb {
	case 's', 'S', 'v', 'V':
		body = a.String()
	case 'q', 'Q':
		body = `"` + a.String() + `"`
	case 'f', 'F':
		if p, ok := state.Precision(); ok {
			body = a.ToFixed(p)
		} else {
			body = a.Compact()
		}
		switch {
		case body[0] == '-':
			sign, body = "-", body[1:]
		case state.Flag('+'):
			sign = "+"
		}
	case 'c', 'C':
		body = a.unit
	default:
		body = "%!" + string(verb) + "(bigmoney.Amount=" + a.String() + ")"
	}

	// Calculating padding
	width := len(sign) + len(body)
	lspaces, lzeros, tspaces := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0') && (verb == 'f' || verb == 'F'):
			lzeros = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	buf := make([]byte, 0, width)
	for i := 0; i < lspaces; i++ {
		buf = append(buf, ' ')
	}
	buf = append(buf, sign...)
	for i := 0; i < lzeros; i++ {
		buf = append(buf, '0')
	}
	buf = append(buf, body...)
	for i := 0; i < tspaces; i++ {
		buf = append(buf, ' ')
	}

	//nolint:errcheck
	state.Write(buf)
}
