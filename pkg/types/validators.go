package types

import (
	"regexp"
	"strings"
)

var ethAddressRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// Ethereum Address
func IsValidEthAddress(address string) bool {
	return ethAddressRe.MatchString(address)
}

// ZeroAddress is the contract's "absent party" marker.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// IsZeroAddress reports whether address is unset or the zero address.
func IsZeroAddress(address string) bool {
	return address == "" || strings.EqualFold(address, ZeroAddress)
}

// SameAddress compares two hex addresses case-insensitively, since chain
// readers may return either checksummed or lowercase forms.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
