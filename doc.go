/*
Package bigmoney implements exact monetary amounts on top of arbitrary-precision
integers.
Every amount is stored as a [math/big] integer equal to the decimal value
multiplied by 10^[Precision], so no step of any computation uses binary
floating point and every rounding decision is explicit and reproducible.

# Features

  - Immutable amounts, safe for concurrent use by multiple goroutines
  - Unlimited integer range and a fixed internal precision of 20 digits
  - Four rounding modes: half to even (default), half away from zero,
    half towards zero and truncation
  - Arithmetic, comparison and exponentiation with a configurable rounding mode
  - Allocation of an amount into parts that add up exactly to the original
  - JSON, text and lossless msgpack encodings

# Representation

An [Amount] consists of a scaled integer, a unit and a rounding mode.
The unit is an opaque label, usually a currency code such as "USD".
It is never validated or interpreted; it only prevents adding, subtracting
and comparing amounts that have different units.

Amounts can be created from decimal strings, machine integers, [*big.Int]
values, [decimal.Decimal] values and other amounts.
Machine integers must be "safe", i.e. within ±(2^53 - 1), which forces large
values to be passed as strings or big integers. Floats are accepted only when
they hold such a safe integer exactly.

The scaled integer itself is available through [Amount.Source] and can be
turned back into an amount with [FromSource], which is useful for exact
persistence.

# Operations

[Amount.Add], [Amount.Sub] and [Amount.Cmp] require both amounts to have the
same unit. [Amount.Mul] and [Amount.Quo] scale an amount rather than combine
two amounts, so they accept operands of any unit and always keep the unit of
the receiver. Be careful: this also means that multiplying USD by EUR is not
reported as an error.

# Rounding

Results of multiplication and division, strings with more than 20 fractional
digits and formatting with [Amount.ToFixed] are rounded using the rounding
mode of the amount. The same rounding primitive is exported as [Divide].

# Errors

Invalid input and unit mismatches are reported as errors wrapping one of the
exported sentinel errors, such as [ErrMalformed], [ErrUnsafeInteger] or
[ErrIncompatibleUnit], so they can be checked with [errors.Is].
Functions whose names begin with Must, and methods that only fail on
programming errors, panic instead.
*/
package bigmoney
