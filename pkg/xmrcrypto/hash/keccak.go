// Package hash provides the Keccak-256 hash function used throughout the
// Monero protocol. Monero uses the original Keccak padding (0x01), not the
// NIST SHA3-256 padding (0x06) that crypto/sha3 implements in the standard
// library — substituting one for the other silently breaks every
// downstream key, address and output derivation.
package hash

import (
	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a Keccak-256 digest.
const Size = 32

// Sum256 computes the Keccak-256 hash of data using the original Keccak
// padding.
func Sum256(data ...[]byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Sum256Slice is a convenience wrapper around Sum256 returning a slice
// instead of a fixed-size array, for callers that don't want to deal with
// array-to-slice conversions.
func Sum256Slice(data ...[]byte) []byte {
	out := Sum256(data...)
	return out[:]
}
