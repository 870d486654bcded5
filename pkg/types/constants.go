package types

import "math/big"

// NonPayable returns the maximum uint256 value, used by the escrow and
// arbitrator contracts as a sentinel for "not applicable" amounts. It is
// deliberately not zero so a missing amount can never read as "free".
func NonPayable() *BigInt {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	max.Sub(max, big.NewInt(1))
	return &BigInt{Int: max}
}

// IsNonPayable reports whether v carries the sentinel value.
func IsNonPayable(v *BigInt) bool {
	return v != nil && v.Int != nil && v.Equal(NonPayable())
}
