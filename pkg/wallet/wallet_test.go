package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
)

func mustSeed(t *testing.T, hexStr string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("bad hex seed: %v", err)
	}
	var seed [32]byte
	copy(seed[:], b)
	return seed
}

func TestVectorSeedDerivation(t *testing.T) {
	seedHex := "b0ef6bd527b9b23b9ceef70dc8b4cd1ee83ca14541964e764ad23f5151204f0f"
	seed := mustSeed(t, seedHex)

	k := NewKeysFromSeed(seed)

	spendBytes := k.PrivateSpendKey().Bytes()
	if hex.EncodeToString(spendBytes[:]) != seedHex {
		t.Fatalf("privateSpendKey = %x, want seed %s (already < l)", spendBytes, seedHex)
	}

	digest := hash.Sum256(spendBytes[:])
	wantView := curve.Reduce32(digest)
	if k.PrivateViewKey().Bytes() != wantView.Bytes() {
		t.Fatal("privateViewKey != reduce32(keccak256(privateSpendKey))")
	}

	pubSpend := k.PublicSpendKey().Bytes()
	pubView := k.PublicViewKey().Bytes()
	if len(pubSpend) != 32 || len(pubView) != 32 {
		t.Fatal("public keys must be 32 bytes")
	}

	mainnetAddr := k.StandardAddress(Mainnet)
	if len(mainnetAddr) != 95 {
		t.Fatalf("mainnet address length = %d, want 95", len(mainnetAddr))
	}
	if mainnetAddr[0] != '4' {
		t.Fatalf("mainnet address starts with %q, want '4'", mainnetAddr[0])
	}

	stagenetAddr := k.StandardAddress(Stagenet)
	if stagenetAddr[0] != '5' {
		t.Fatalf("stagenet address starts with %q, want '5'", stagenetAddr[0])
	}
}

func TestMainAccountSubaddressIsIdentity(t *testing.T) {
	seed := mustSeed(t, "0101010101010101010101010101010101010101010101010101010101010101")
	k := NewKeysFromSeed(seed)

	sub := k.DeriveSubaddress(SubaddressIndex{Major: 0, Minor: 0})
	if !sub.PublicSpend.Equal(k.PublicSpendKey()) {
		t.Fatal("(0,0) public spend key should equal the main account's")
	}
	if !sub.PublicView.Equal(k.PublicViewKey()) {
		t.Fatal("(0,0) public view key should equal the main account's")
	}
}

func TestDistinctSubaddressesDiffer(t *testing.T) {
	seed := mustSeed(t, "0202020202020202020202020202020202020202020202020202020202020202")
	k := NewKeysFromSeed(seed)

	a := k.DeriveSubaddress(SubaddressIndex{Major: 0, Minor: 1})
	b := k.DeriveSubaddress(SubaddressIndex{Major: 1, Minor: 0})
	c := k.DeriveSubaddress(SubaddressIndex{Major: 3, Minor: 7})

	if a.PublicSpend.Equal(b.PublicSpend) || b.PublicSpend.Equal(c.PublicSpend) || a.PublicSpend.Equal(c.PublicSpend) {
		t.Fatal("distinct subaddress indices produced colliding public spend keys")
	}
}

func TestAddressRoundTrip(t *testing.T) {
	seed := mustSeed(t, "0303030303030303030303030303030303030303030303030303030303030303")
	k := NewKeysFromSeed(seed)

	addr := k.StandardAddress(Mainnet)
	info, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if info.Network != Mainnet || info.Kind != KindStandard {
		t.Fatalf("parsed network/kind = %v/%v, want Mainnet/KindStandard", info.Network, info.Kind)
	}
	if !info.PublicSpend.Equal(k.PublicSpendKey()) || !info.PublicView.Equal(k.PublicViewKey()) {
		t.Fatal("parsed keys do not match original keys")
	}
}

func TestIntegratedAddressRoundTrip(t *testing.T) {
	seed := mustSeed(t, "0404040404040404040404040404040404040404040404040404040404040404")
	k := NewKeysFromSeed(seed)

	var pid PaymentID
	copy(pid[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	addr := k.IntegratedAddress(Mainnet, pid)
	if len(addr) != 106 {
		t.Fatalf("integrated address length = %d, want 106", len(addr))
	}

	info, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if info.Kind != KindIntegrated {
		t.Fatalf("kind = %v, want KindIntegrated", info.Kind)
	}
	if info.PaymentID == nil || *info.PaymentID != pid {
		t.Fatal("payment id not recovered")
	}
}

func TestSubaddressTableLookup(t *testing.T) {
	seed := mustSeed(t, "0505050505050505050505050505050505050505050505050505050505050505")
	k := NewKeysFromSeed(seed)

	table := NewSubaddressTable(k, 2, 2)
	target := k.DeriveSubaddress(SubaddressIndex{Major: 1, Minor: 2})

	idx, ok := table.Lookup(target.PublicSpend)
	if !ok {
		t.Fatal("expected lookup to find subaddress (1,2)")
	}
	if idx.Major != 1 || idx.Minor != 2 {
		t.Fatalf("looked up index = %+v, want {1 2}", idx)
	}

	outOfRange := k.DeriveSubaddress(SubaddressIndex{Major: 9, Minor: 9})
	if _, ok := table.Lookup(outOfRange.PublicSpend); ok {
		t.Fatal("lookup should not find an index outside the table's configured range")
	}
}
