// Package curve provides constant-time Ed25519 scalar and group operations
// over the subgroup of order l = 2^252 + 27742317777372353535851937790883648493,
// wrapping filippo.io/edwards25519 behind the byte-exact surface the Monero
// key-derivation protocol expects (reduce32/reduce64, scalar-mult,
// point add/sub, canonical 32-byte encoding). The standard library's
// crypto/ed25519 only signs and verifies; it has no public scalar or point
// type, which is why this package exists.
package curve

import (
	"filippo.io/edwards25519"

	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
)

// Scalar is an integer modulo l, always held in reduced form.
type Scalar struct {
	s *edwards25519.Scalar
}

// ScalarSize is the byte width of a canonical scalar encoding.
const ScalarSize = 32

// Reduce32 interprets b as a little-endian integer and reduces it modulo l.
// This never fails: any 256-bit value has a well-defined residue.
func Reduce32(b [32]byte) Scalar {
	var wide [64]byte
	copy(wide[:32], b[:])
	return Reduce64(wide)
}

// Reduce64 performs the wide reduction used by hash-to-scalar: b is
// interpreted as a little-endian integer up to 2^512 and reduced modulo l.
func Reduce64(b [64]byte) Scalar {
	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		// SetUniformBytes only fails on wrong-length input; b is always 64
		// bytes here, so this is unreachable.
		panic("curve: SetUniformBytes rejected a 64-byte input: " + err.Error())
	}
	return Scalar{s: s}
}

// HashToScalar computes Hs(data) = reduce64(keccak256(data) || 0^32), the
// canonical Monero hash-to-scalar function.
func HashToScalar(data ...[]byte) Scalar {
	digest := hash.Sum256(data...)
	var wide [64]byte
	copy(wide[:32], digest[:])
	return Reduce64(wide)
}

// Bytes returns the canonical little-endian 32-byte encoding of s.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], s.s.Bytes())
	return out
}

// Add returns a + b mod l.
func (a Scalar) Add(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Add(a.s, b.s)}
}

// IsZero reports whether s is the zero scalar.
func (s Scalar) IsZero() bool {
	zero := edwards25519.NewScalar()
	return s.s.Equal(zero) == 1
}

func (s Scalar) inner() *edwards25519.Scalar { return s.s }
