package scanner

import (
	"testing"

	"github.com/study/monero-wallet-core/pkg/wallet"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
)

func mustKeys(t *testing.T, b byte) *wallet.Keys {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = b
	}
	return wallet.NewKeysFromSeed(seed)
}

// buildOutput derives what an output sending to the main address at index
// o would look like for ephemeral R, the way a sender constructs it:
// s = Hs(a*R || varint(o)), P_out = s*G + B.
func buildOutput(view curve.Scalar, spend curve.Point, r curve.Point, index uint32) Output {
	d := curve.ScalarMult(view, r)
	oVarint := encodeVarint(uint64(index))
	s := curve.HashToScalar(pointBytes(d), oVarint)
	pOut := curve.Add(curve.ScalarMultBase(s), spend)
	return Output{Index: index, PublicKey: pOut}
}

func buildSubaddressOutput(view curve.Scalar, sub wallet.SubaddressKeys, r curve.Point, index uint32) Output {
	d := curve.ScalarMult(view, r)
	oVarint := encodeVarint(uint64(index))
	s := curve.HashToScalar(pointBytes(d), oVarint)
	// A subaddress-destined output is built as P_out = s*G + D, so the
	// scanner recovers Delta = P_out - s*G = D and looks it up in the table.
	pOut := curve.Add(curve.ScalarMultBase(s), sub.PublicSpend)
	return Output{Index: index, PublicKey: pOut}
}

func TestScanMainAddressMatch(t *testing.T) {
	k := mustKeys(t, 0x11)
	rScalar := curve.Reduce32([32]byte{0xAA})
	r := curve.ScalarMultBase(rScalar)

	out := buildOutput(k.PrivateViewKey(), k.PublicSpendKey(), r, 0)

	s := New(k, nil)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out}}

	matches := s.ScanTransaction(tx)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonPrimaryMatch {
		t.Fatalf("reason = %v, want ReasonPrimaryMatch", matches[0].Reason)
	}
	if !matches[0].Subaddress.IsMain() {
		t.Fatalf("subaddress = %+v, want main (0,0)", matches[0].Subaddress)
	}
	var zero KeyImage
	if matches[0].KeyImage == zero {
		t.Fatal("expected a non-zero key image for a matched output")
	}
}

func TestScanKeyImageDeterministicAndDistinct(t *testing.T) {
	k := mustKeys(t, 0x99)
	r := curve.ScalarMultBase(curve.Reduce32([32]byte{0x10}))

	out0 := buildOutput(k.PrivateViewKey(), k.PublicSpendKey(), r, 0)
	out1 := buildOutput(k.PrivateViewKey(), k.PublicSpendKey(), r, 1)

	s := New(k, nil)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out0, out1}}

	first := s.ScanTransaction(tx)
	second := s.ScanTransaction(tx)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d/%d matches, want 2/2", len(first), len(second))
	}
	if first[0].KeyImage != second[0].KeyImage {
		t.Fatal("key image must be deterministic across scans")
	}
	if first[0].KeyImage == first[1].KeyImage {
		t.Fatal("distinct outputs must not share a key image")
	}
}

func TestScanViewTagRejectsForeignOutput(t *testing.T) {
	k := mustKeys(t, 0x22)
	other := mustKeys(t, 0x33)
	rScalar := curve.Reduce32([32]byte{0xBB})
	r := curve.ScalarMultBase(rScalar)

	// Output actually belongs to `other`, not `k`.
	out := buildOutput(other.PrivateViewKey(), other.PublicSpendKey(), r, 0)
	badTag := byte(0xFF)
	out.ViewTag = &badTag

	s := New(k, nil)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out}}

	if matches := s.ScanTransaction(tx); len(matches) != 0 {
		t.Fatalf("expected no matches for a foreign output, got %d", len(matches))
	}
}

func TestScanViewTagHitOnOwnedOutput(t *testing.T) {
	k := mustKeys(t, 0x44)
	rScalar := curve.Reduce32([32]byte{0xCC})
	r := curve.ScalarMultBase(rScalar)

	out := buildOutput(k.PrivateViewKey(), k.PublicSpendKey(), r, 2)

	d := curve.ScalarMult(k.PrivateViewKey(), r)
	digest := hash.Sum256(viewTagDomain, pointBytes(d), encodeVarint(2))
	out.ViewTag = &digest[0]

	s := New(k, nil)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out}}

	matches := s.ScanTransaction(tx)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonViewTagHit {
		t.Fatalf("reason = %v, want ReasonViewTagHit", matches[0].Reason)
	}
}

func TestScanSubaddressMatchViaTable(t *testing.T) {
	k := mustKeys(t, 0x55)
	table := wallet.NewSubaddressTable(k, 2, 2)

	sub := k.DeriveSubaddress(wallet.SubaddressIndex{Major: 1, Minor: 1})
	rScalar := curve.Reduce32([32]byte{0xDD})
	r := curve.ScalarMultBase(rScalar)

	out := buildSubaddressOutput(k.PrivateViewKey(), sub, r, 0)

	s := New(k, table)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out}}

	matches := s.ScanTransaction(tx)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Subaddress.Major != 1 || matches[0].Subaddress.Minor != 1 {
		t.Fatalf("subaddress = %+v, want {1 1}", matches[0].Subaddress)
	}
}

func TestScanAdditionalPubkeyFallback(t *testing.T) {
	k := mustKeys(t, 0x66)
	primaryR := curve.ScalarMultBase(curve.Reduce32([32]byte{0x01}))
	additionalRScalar := curve.Reduce32([32]byte{0x02})
	additionalR := curve.ScalarMultBase(additionalRScalar)

	// Built against additionalR, not the (unrelated) primary R, as a
	// subaddress-send would when additional_pubkeys are in play.
	out := buildOutput(k.PrivateViewKey(), k.PublicSpendKey(), additionalR, 0)

	s := New(k, nil)
	tx := &Transaction{
		TxPubKey:          primaryR,
		AdditionalPubKeys: []curve.Point{additionalR},
		Outputs:           []Output{out},
	}

	matches := s.ScanTransaction(tx)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonAdditionalMatch {
		t.Fatalf("reason = %v, want ReasonAdditionalMatch", matches[0].Reason)
	}
}

func TestScanNoMatchForUnrelatedOutput(t *testing.T) {
	k := mustKeys(t, 0x77)
	other := mustKeys(t, 0x88)
	r := curve.ScalarMultBase(curve.Reduce32([32]byte{0xEE}))

	out := buildOutput(other.PrivateViewKey(), other.PublicSpendKey(), r, 0)

	s := New(k, nil)
	tx := &Transaction{TxPubKey: r, Outputs: []Output{out}}

	if matches := s.ScanTransaction(tx); len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}
