package wallet

import (
	"encoding/binary"

	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
)

// subAddrTag is the ASCII string "SubAddr" followed by a NUL byte — eight
// bytes total. Deviating from this exact byte layout breaks compatibility
// with the reference subaddress derivation.
var subAddrTag = []byte("SubAddr\x00")

// SubaddressKeys is the (public spend, public view) pair identifying a
// subaddress.
type SubaddressKeys struct {
	PublicSpend curve.Point // D
	PublicView  curve.Point // C
}

// DeriveSubaddress computes the subaddress key pair for index (i,j):
//
//	m = Hs("SubAddr\0" || a || i_le32 || j_le32)
//	D = B + m*G
//	C = a*D
//
// Index (0,0) returns the main account's (B, A) unchanged, using the
// standard address prefix rather than the subaddress prefix.
func (k *Keys) DeriveSubaddress(index SubaddressIndex) SubaddressKeys {
	if index.IsMain() {
		return SubaddressKeys{PublicSpend: k.publicSpend, PublicView: k.publicView}
	}

	aBytes := k.view.Bytes()

	var iBuf, jBuf [4]byte
	binary.LittleEndian.PutUint32(iBuf[:], index.Major)
	binary.LittleEndian.PutUint32(jBuf[:], index.Minor)

	m := curve.HashToScalar(subAddrTag, aBytes[:], iBuf[:], jBuf[:])

	D := curve.Add(k.publicSpend, curve.ScalarMultBase(m))
	C := curve.ScalarMult(k.view, D)

	return SubaddressKeys{PublicSpend: D, PublicView: C}
}

// SubaddressTable maps every subaddress public spend key D(i,j) in a
// configured (major, minor) range back to its index, for the scanner's
// lookup in §4.6. It is filled once by NewSubaddressTable and not modified
// afterwards, so it is read-only during scanning; it has no lock and no
// exported way to grow.
type SubaddressTable struct {
	byPublicSpend map[[32]byte]SubaddressIndex
	majorMax      uint32
	minorMax      uint32
}

// NewSubaddressTable builds a table covering major indices [0, majorMax]
// and minor indices [0, minorMax] (inclusive), for the given keys.
func NewSubaddressTable(k *Keys, majorMax, minorMax uint32) *SubaddressTable {
	t := &SubaddressTable{
		byPublicSpend: make(map[[32]byte]SubaddressIndex, (uint64(majorMax)+1)*(uint64(minorMax)+1)),
	}
	t.expand(k, majorMax, minorMax)
	return t
}

// expand fills the table for the given inclusive ranges. It takes no lock;
// its only caller is NewSubaddressTable, before the table is shared.
func (t *SubaddressTable) expand(k *Keys, majorMax, minorMax uint32) {
	for i := uint32(0); ; i++ {
		for j := uint32(0); ; j++ {
			idx := SubaddressIndex{Major: i, Minor: j}
			keys := k.DeriveSubaddress(idx)
			t.byPublicSpend[keys.PublicSpend.Bytes()] = idx

			if j == minorMax {
				break
			}
		}
		if i == majorMax {
			break
		}
	}
	t.majorMax = majorMax
	t.minorMax = minorMax
}

// Lookup returns the subaddress index owning publicSpend, if any.
func (t *SubaddressTable) Lookup(publicSpend curve.Point) (SubaddressIndex, bool) {
	idx, ok := t.byPublicSpend[publicSpend.Bytes()]
	return idx, ok
}

// Bounds returns the inclusive (major, minor) ranges this table covers.
func (t *SubaddressTable) Bounds() (majorMax, minorMax uint32) {
	return t.majorMax, t.minorMax
}
