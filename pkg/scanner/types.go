// Package scanner decides which outputs of a transaction belong to a
// wallet, and to which subaddress, using the wallet's view secret and a
// precomputed subaddress table. It implements the view-tag fast path and
// the additional_pubkeys fallback used by subaddress sends.
package scanner

import (
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
)

// Output is a single transaction output as seen on chain.
type Output struct {
	Index uint32
	// GlobalIndex is the output's chain-wide ordinal, as reported by the
	// block provider (e.g. monerod's get_outs global_index). It has no
	// relation to Index, which only orders outputs within this
	// transaction.
	GlobalIndex uint64
	PublicKey   curve.Point
	// ViewTag is the optional one-byte fast-rejection tag carried by
	// post-view-tag-fork outputs. nil means the output predates view tags
	// and every candidate must go through full derivation.
	ViewTag *byte
}

// KeyImage uniquely identifies a spent output; it is the compressed
// encoding of the key-image point carried by a transaction input.
type KeyImage [32]byte

// Transaction carries the per-tx data the scanner needs: the primary
// tx_pubkey (extra tag 0x01), the optional per-output additional pubkeys
// (extra tag 0x04, used for subaddress sends), and the outputs themselves.
// Inputs is carried through for the sync engine's spent-output bookkeeping;
// the scanner itself never reads it.
type Transaction struct {
	Hash              [32]byte
	TxPubKey          curve.Point
	AdditionalPubKeys []curve.Point // indexed the same as Outputs when present
	Outputs           []Output
	Inputs            []KeyImage
}

// MatchReason records which internal path confirmed a match, for metrics
// and debugging; it never changes the match's validity.
type MatchReason int

const (
	// ReasonNone is the zero value; never set on a reported Match.
	ReasonNone MatchReason = iota
	// ReasonViewTagHit: the output carried a view tag, the fast-path check
	// passed, and full derivation confirmed the match against the primary
	// tx_pubkey.
	ReasonViewTagHit
	// ReasonPrimaryMatch: confirmed via full derivation against the
	// primary tx_pubkey, with no view tag to fast-path on.
	ReasonPrimaryMatch
	// ReasonAdditionalMatch: confirmed via full derivation against
	// additional_pubkeys[o] rather than the primary tx_pubkey.
	ReasonAdditionalMatch
)

func (r MatchReason) String() string {
	switch r {
	case ReasonViewTagHit:
		return "view-tag-hit"
	case ReasonPrimaryMatch:
		return "primary-match"
	case ReasonAdditionalMatch:
		return "additional-match"
	default:
		return "none"
	}
}

// SubaddressIndex identifies a receiving subaddress; mirrors
// wallet.SubaddressIndex so this package doesn't need to import wallet
// for a two-field value type.
type SubaddressIndex struct {
	Major uint32
	Minor uint32
}

// IsMain reports whether this is the main-account index (0,0).
func (i SubaddressIndex) IsMain() bool {
	return i.Major == 0 && i.Minor == 0
}

// Match is a transaction output confirmed to belong to the wallet.
type Match struct {
	OutputIndex uint32
	GlobalIndex uint64
	PublicKey   curve.Point
	Subaddress  SubaddressIndex
	Reason      MatchReason
	KeyImage    KeyImage
}
