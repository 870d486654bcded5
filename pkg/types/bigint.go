package types

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
)

// BigInt is a wrapper around *big.Int that provides custom JSON
// marshaling/unmarshaling as decimal strings, matching how numeric fields
// arrive from chain readers and leave through the read-model API.
type BigInt struct {
	*big.Int
}

// NewBigInt creates a new BigInt from a *big.Int
func NewBigInt(i *big.Int) *BigInt {
	if i == nil {
		return nil
	}
	return &BigInt{Int: i}
}

// NewBigIntFromUint64 creates a new BigInt from a uint64
func NewBigIntFromUint64(v uint64) *BigInt {
	return &BigInt{Int: new(big.Int).SetUint64(v)}
}

// MarshalJSON implements json.Marshaler interface
func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil || b.Int == nil {
		return []byte("null"), nil
	}
	// Marshal as string to avoid scientific notation
	return json.Marshal(b.Int.String())
}

// UnmarshalJSON implements json.Unmarshaler interface
func (b *BigInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.Int = nil
		return nil
	}

	// Only accept string format for 256-bit integers
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return &json.UnmarshalTypeError{
			Value:  string(data),
			Type:   reflect.TypeOf(""),
			Struct: "BigInt",
			Field:  "Int",
		}
	}

	i, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return &json.UnmarshalTypeError{
			Value:  "string",
			Type:   reflect.TypeOf(big.Int{}),
			Struct: "BigInt",
			Field:  "Int",
		}
	}
	b.Int = i
	return nil
}

// String implements fmt.Stringer interface
func (b *BigInt) String() string {
	if b == nil || b.Int == nil {
		return "<nil>"
	}
	return b.Int.String()
}

// Add returns b + y as a new value
func (b *BigInt) Add(y *BigInt) *BigInt {
	return &BigInt{Int: new(big.Int).Add(b.orZero(), y.orZero())}
}

// Sub returns b - y as a new value
func (b *BigInt) Sub(y *BigInt) *BigInt {
	return &BigInt{Int: new(big.Int).Sub(b.orZero(), y.orZero())}
}

// Mul returns b * y as a new value
func (b *BigInt) Mul(y *BigInt) *BigInt {
	return &BigInt{Int: new(big.Int).Mul(b.orZero(), y.orZero())}
}

// Div returns b / y as a new value, truncated toward zero. This matches
// the EVM's integer division, which on-chain amounts must agree with.
// Division by zero returns zero rather than panicking.
func (b *BigInt) Div(y *BigInt) *BigInt {
	d := y.orZero()
	if d.Sign() == 0 {
		return Zero()
	}
	return &BigInt{Int: new(big.Int).Quo(b.orZero(), d)}
}

// Cmp compares b and x and returns:
//
//	-1 if b <  x
//	 0 if b == x
//	+1 if b >  x
func (b *BigInt) Cmp(x *BigInt) int {
	return b.orZero().Cmp(x.orZero())
}

// Equal returns true if b equals x
func (b *BigInt) Equal(x *BigInt) bool {
	return b.Cmp(x) == 0
}

// Less returns true if b is less than x
func (b *BigInt) Less(x *BigInt) bool {
	return b.Cmp(x) < 0
}

// Greater returns true if b is greater than x
func (b *BigInt) Greater(x *BigInt) bool {
	return b.Cmp(x) > 0
}

// IsZero returns true if the value is zero or unset
func (b *BigInt) IsZero() bool {
	return b == nil || b.Int == nil || b.Sign() == 0
}

// Clone creates a copy of the BigInt
func (b *BigInt) Clone() *BigInt {
	if b == nil || b.Int == nil {
		return nil
	}
	return &BigInt{Int: new(big.Int).Set(b.Int)}
}

func (b *BigInt) orZero() *big.Int {
	if b == nil || b.Int == nil {
		return new(big.Int)
	}
	return b.Int
}

// Zero returns a new zero-valued BigInt
func Zero() *BigInt {
	return &BigInt{Int: new(big.Int)}
}

// Min returns the smaller of x and y as a new value
func Min(x, y *BigInt) *BigInt {
	if x.Cmp(y) <= 0 {
		return x.Clone()
	}
	return y.Clone()
}

// ParseBigInt parses a decimal string as a BigInt
func ParseBigInt(s string) (*BigInt, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &strconv.NumError{
			Func: "ParseBigInt",
			Num:  s,
			Err:  strconv.ErrSyntax,
		}
	}
	return &BigInt{Int: i}, nil
}

// MustParseBigInt parses a decimal string as a BigInt, panicking on error.
// Intended for constants and tests.
func MustParseBigInt(s string) *BigInt {
	b, err := ParseBigInt(s)
	if err != nil {
		panic(err)
	}
	return b
}
