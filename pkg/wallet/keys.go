package wallet

import (
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
)

// SubaddressIndex identifies a receiving subaddress. (0,0) is the main
// account's standard address.
type SubaddressIndex struct {
	Major uint32
	Minor uint32
}

// IsMain reports whether this is the main-account index (0,0).
func (i SubaddressIndex) IsMain() bool {
	return i.Major == 0 && i.Minor == 0
}

// Keys holds the full view/spend key hierarchy for a wallet. It is created
// once from a seed and never mutated; Zero wipes the secret material the
// type controls directly when the wallet is closed.
type Keys struct {
	seed [32]byte

	spend curve.Scalar // b
	view  curve.Scalar // a

	publicSpend curve.Point // B = b*G
	publicView  curve.Point // A = a*G
}

// NewKeysFromSeed derives the view/spend key hierarchy from a 32-byte
// seed:
//
//	b = reduce32(seed)
//	a = reduce32(keccak256(b))
//	B = b*G
//	A = a*G
//
// The double derivation of the view key from the spend key (rather than
// independently from the seed) is mandatory for compatibility with the
// reference wallet.
func NewKeysFromSeed(seed [32]byte) *Keys {
	b := curve.Reduce32(seed)
	bBytes := b.Bytes()
	a := curve.HashToScalar(bBytes[:])

	return &Keys{
		seed:        seed,
		spend:       b,
		view:        a,
		publicSpend: curve.ScalarMultBase(b),
		publicView:  curve.ScalarMultBase(a),
	}
}

// PrivateSpendKey returns b.
func (k *Keys) PrivateSpendKey() curve.Scalar { return k.spend }

// PrivateViewKey returns a.
func (k *Keys) PrivateViewKey() curve.Scalar { return k.view }

// PublicSpendKey returns B = b*G.
func (k *Keys) PublicSpendKey() curve.Point { return k.publicSpend }

// PublicViewKey returns A = a*G.
func (k *Keys) PublicViewKey() curve.Point { return k.publicView }

// Zero overwrites the seed this Keys value was constructed from. The
// derived scalars live inside filippo.io/edwards25519's opaque Scalar type
// and cannot be reached and wiped directly from outside that package; this
// wipes the seed held in k; copies of the seed made elsewhere are not
// touched.
func (k *Keys) Zero() {
	for i := range k.seed {
		k.seed[i] = 0
	}
}
