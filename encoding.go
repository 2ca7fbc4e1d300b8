package bigmoney

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Amount{}
	_ msgpack.CustomDecoder = (*Amount)(nil)
)

// MarshalJSON implements the [json.Marshaler] interface.
// An amount is encoded as a pair of strings, the compact amount and its unit,
// e.g. ["1.5","USD"].
// See also method [Amount.Compact].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{a.Compact(), a.unit})
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// It accepts the pair produced by [Amount.MarshalJSON]; null is ignored.
// The rounding mode of the receiver is kept.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("unmarshaling %T: %w: want 2 elements, got %v", Amount{}, ErrMalformed, len(pair))
	}
	b, err := NewAmountWithMode(pair[0], pair[1], a.mode)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	*a = b
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// The text is the same as the one returned by [Amount.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// The text must be a decimal string, optionally followed by a space and a unit,
// e.g. "1.5 USD". The rounding mode of the receiver is kept.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *Amount) UnmarshalText(text []byte) error {
	value, unit, _ := strings.Cut(string(text), " ")
	b, err := NewAmountWithMode(value, unit, a.mode)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	*a = b
	return nil
}

// EncodeMsgpack implements the [msgpack.CustomEncoder] interface.
// Unlike JSON and text, the encoding is lossless: an amount is written as an
// array of its scaled value in decimal digits, its unit and its rounding mode.
// See also method [Amount.Source].
func (a Amount) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeString(a.source().String()); err != nil {
		return err
	}
	if err := enc.EncodeString(a.unit); err != nil {
		return err
	}
	return enc.EncodeUint8(uint8(a.mode))
}

// DecodeMsgpack implements the [msgpack.CustomDecoder] interface.
// See also constructor [FromSourceWithMode].
func (a *Amount) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := decodeMsgpack(dec)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	*a = b
	return nil
}

func decodeMsgpack(dec *msgpack.Decoder) (Amount, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return Amount{}, err
	}
	if n != 3 {
		return Amount{}, fmt.Errorf("%w: want 3 elements, got %v", ErrMalformed, n)
	}
	s, err := dec.DecodeString()
	if err != nil {
		return Amount{}, err
	}
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: invalid source %q", ErrMalformed, s)
	}
	unit, err := dec.DecodeString()
	if err != nil {
		return Amount{}, err
	}
	m, err := dec.DecodeUint8()
	if err != nil {
		return Amount{}, err
	}
	mode := RoundingMode(m)
	if !mode.valid() {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidRoundingMode, m)
	}
	return newAmountUnsafe(unit, mode, x), nil
}
