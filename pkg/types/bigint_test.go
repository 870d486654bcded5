package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigInt_JSONMarshaling(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "zero",
			value:    "0",
			expected: `"0"`,
		},
		{
			name:     "one wei",
			value:    "1",
			expected: `"1"`,
		},
		{
			name:     "typical task price",
			value:    "1500000000000000000",
			expected: `"1500000000000000000"`,
		},
		{
			name:     "wider than uint64",
			value:    "1234567890123456789012345678901234567890",
			expected: `"1234567890123456789012345678901234567890"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := new(big.Int).SetString(tt.value, 10)
			require.True(t, ok, "Failed to parse test value")

			data, err := json.Marshal(NewBigInt(i))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))

			var result BigInt
			err = json.Unmarshal(data, &result)
			require.NoError(t, err)
			assert.Equal(t, tt.value, result.String())
		})
	}
}

func TestBigInt_JSONUnmarshaling(t *testing.T) {
	tests := []struct {
		name        string
		jsonData    string
		expectError bool
		expected    string
	}{
		{
			name:        "valid decimal string",
			jsonData:    `"987654321"`,
			expectError: false,
			expected:    "987654321",
		},
		{
			name:        "null leaves value unset",
			jsonData:    `null`,
			expectError: false,
			expected:    "<nil>",
		},
		{
			name:        "raw number rejected",
			jsonData:    `123`,
			expectError: true,
		},
		{
			name:        "non-numeric string rejected",
			jsonData:    `"not-a-number"`,
			expectError: true,
		},
		{
			name:        "hex string rejected",
			jsonData:    `"0xff"`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result BigInt
			err := json.Unmarshal([]byte(tt.jsonData), &result)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func TestBigInt_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func(a, b *BigInt) *BigInt
		a        string
		b        string
		expected string
	}{
		{
			name:     "add",
			op:       func(a, b *BigInt) *BigInt { return a.Add(b) },
			a:        "100",
			b:        "50",
			expected: "150",
		},
		{
			name:     "sub below zero",
			op:       func(a, b *BigInt) *BigInt { return a.Sub(b) },
			a:        "50",
			b:        "100",
			expected: "-50",
		},
		{
			name:     "mul",
			op:       func(a, b *BigInt) *BigInt { return a.Mul(b) },
			a:        "1000000000000000000",
			b:        "3",
			expected: "3000000000000000000",
		},
		{
			name:     "div truncates toward zero",
			op:       func(a, b *BigInt) *BigInt { return a.Div(b) },
			a:        "7",
			b:        "2",
			expected: "3",
		},
		{
			name:     "div by zero yields zero",
			op:       func(a, b *BigInt) *BigInt { return a.Div(b) },
			a:        "7",
			b:        "0",
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustParseBigInt(tt.a)
			b := MustParseBigInt(tt.b)

			result := tt.op(a, b)
			assert.Equal(t, tt.expected, result.String())

			// Operands must be untouched.
			assert.Equal(t, tt.a, a.String())
			assert.Equal(t, tt.b, b.String())
		})
	}
}

func TestBigInt_NilReceiverArithmetic(t *testing.T) {
	var unset *BigInt
	one := MustParseBigInt("1")

	assert.Equal(t, "1", unset.Add(one).String())
	assert.Equal(t, "-1", unset.Sub(one).String())
	assert.True(t, unset.IsZero())
	assert.Nil(t, unset.Clone())
}

func TestBigInt_Comparisons(t *testing.T) {
	small := MustParseBigInt("10")
	large := MustParseBigInt("20")

	assert.True(t, small.Less(large))
	assert.True(t, large.Greater(small))
	assert.True(t, small.Equal(MustParseBigInt("10")))
	assert.Equal(t, "10", Min(small, large).String())
	assert.Equal(t, "10", Min(large, small).String())
}

func TestParseBigInt(t *testing.T) {
	v, err := ParseBigInt("42")
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())

	_, err = ParseBigInt("")
	assert.Error(t, err)

	_, err = ParseBigInt("12.5")
	assert.Error(t, err)
}

func TestNonPayable(t *testing.T) {
	sentinel := NonPayable()

	// 2^256 - 1
	expected := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Equal(t, expected.String(), sentinel.String())

	assert.True(t, IsNonPayable(sentinel))
	assert.False(t, IsNonPayable(Zero()))
	assert.False(t, IsNonPayable(nil))

	// Each call returns an independent value.
	other := NonPayable()
	_ = other.Int.Sub(other.Int, big.NewInt(1))
	assert.True(t, IsNonPayable(NonPayable()))
}
