package scanner

import (
	"encoding/binary"

	"github.com/study/monero-wallet-core/pkg/wallet"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
)

var (
	viewTagDomain = []byte("view_tag")
	subAddrDomain = []byte("SubAddr\x00")
)

// Scanner matches transaction outputs against a wallet's view secret and
// subaddress table. A Scanner holds no mutable state and is safe for
// concurrent use across transactions — the sync engine parallelizes
// exactly this way for CPU-bound batch scanning.
type Scanner struct {
	viewSecret  curve.Scalar
	spendSecret curve.Scalar
	publicSpend curve.Point
	table       *wallet.SubaddressTable // nil: main address only
}

// New builds a Scanner from a wallet's keys and its (possibly nil)
// precomputed subaddress table. The wallet's spend secret is used only to
// compute the key image of newly matched outputs, for the storage layer's
// later spent-detection; it is never persisted or logged by this package.
func New(keys *wallet.Keys, table *wallet.SubaddressTable) *Scanner {
	return &Scanner{
		viewSecret:  keys.PrivateViewKey(),
		spendSecret: keys.PrivateSpendKey(),
		publicSpend: keys.PublicSpendKey(),
		table:       table,
	}
}

// candidate is one (R or additional_pubkeys[o]) to try against one output.
type candidate struct {
	R      curve.Point
	reason MatchReason // ReasonPrimaryMatch or ReasonAdditionalMatch if this candidate wins
}

// ScanTransaction evaluates every output of tx and returns the matches
// belonging to this wallet, in output-index order. Per §4.6, the primary
// tx_pubkey is tried before additional_pubkeys[o]; if both would match a
// corrupt transaction, the primary result wins.
func (s *Scanner) ScanTransaction(tx *Transaction) []Match {
	var matches []Match
	for _, out := range tx.Outputs {
		if m, ok := s.scanOutput(tx, out); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

func (s *Scanner) scanOutput(tx *Transaction, out Output) (Match, bool) {
	candidates := make([]candidate, 0, 2)
	candidates = append(candidates, candidate{R: tx.TxPubKey, reason: ReasonPrimaryMatch})
	if int(out.Index) < len(tx.AdditionalPubKeys) {
		candidates = append(candidates, candidate{R: tx.AdditionalPubKeys[out.Index], reason: ReasonAdditionalMatch})
	}

	for _, c := range candidates {
		if m, ok := s.tryCandidate(out, c); ok {
			return m, true
		}
	}
	return Match{}, false
}

// tryCandidate runs steps 1-6 of §4.6 against one (R, output) pair.
func (s *Scanner) tryCandidate(out Output, c candidate) (Match, bool) {
	D := curve.ScalarMult(s.viewSecret, c.R)
	oVarint := encodeVarint(uint64(out.Index))

	viewTagConfirmed := false
	if out.ViewTag != nil {
		digest := hash.Sum256(viewTagDomain, pointBytes(D), oVarint)
		if digest[0] != *out.ViewTag {
			return Match{}, false
		}
		viewTagConfirmed = true
	}

	sScalar := curve.HashToScalar(pointBytes(D), oVarint)
	derived := curve.Add(curve.ScalarMultBase(sScalar), s.publicSpend)

	if out.PublicKey.Equal(derived) {
		reason := c.reason
		if viewTagConfirmed && c.reason == ReasonPrimaryMatch {
			reason = ReasonViewTagHit
		}
		oneTimeKey := sScalar.Add(s.spendSecret)
		return Match{
			OutputIndex: out.Index,
			GlobalIndex: out.GlobalIndex,
			PublicKey:   out.PublicKey,
			Subaddress:  SubaddressIndex{},
			Reason:      reason,
			KeyImage:    s.keyImage(oneTimeKey, out.PublicKey),
		}, true
	}

	if s.table == nil {
		return Match{}, false
	}

	delta := curve.Sub(out.PublicKey, curve.ScalarMultBase(sScalar))
	idx, ok := s.table.Lookup(delta)
	if !ok {
		return Match{}, false
	}

	reason := c.reason
	if viewTagConfirmed && c.reason == ReasonPrimaryMatch {
		reason = ReasonViewTagHit
	}
	m := s.subaddressScalar(idx)
	oneTimeKey := sScalar.Add(s.spendSecret).Add(m)
	return Match{
		OutputIndex: out.Index,
		GlobalIndex: out.GlobalIndex,
		PublicKey:   out.PublicKey,
		Subaddress:  SubaddressIndex{Major: idx.Major, Minor: idx.Minor},
		Reason:      reason,
		KeyImage:    s.keyImage(oneTimeKey, out.PublicKey),
	}, true
}

// subaddressScalar recomputes m = Hs("SubAddr\0" || a || i || j), the
// private-key offset §4.5 adds to reach a subaddress's spend key, so the
// one-time private key for an output sent to that subaddress can be
// reconstructed as s + b + m.
func (s *Scanner) subaddressScalar(idx wallet.SubaddressIndex) curve.Scalar {
	aBytes := s.viewSecret.Bytes()
	var iBuf, jBuf [4]byte
	binary.LittleEndian.PutUint32(iBuf[:], idx.Major)
	binary.LittleEndian.PutUint32(jBuf[:], idx.Minor)
	return curve.HashToScalar(subAddrDomain, aBytes[:], iBuf[:], jBuf[:])
}

// keyImage computes I = x * Hp(P_out), the key image of an owned output
// whose one-time private key is x.
func (s *Scanner) keyImage(x curve.Scalar, pOut curve.Point) KeyImage {
	hp := curve.HashToPoint(pointBytes(pOut))
	i := curve.ScalarMult(x, hp)
	return KeyImage(i.Bytes())
}

func pointBytes(p curve.Point) []byte {
	b := p.Bytes()
	return b[:]
}
