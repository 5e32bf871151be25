package curve

import (
	"encoding/hex"
	"testing"
)

func TestReduce32Deterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x01
	a := Reduce32(seed)
	b := Reduce32(seed)
	if a.Bytes() != b.Bytes() {
		t.Fatal("Reduce32 is not deterministic")
	}
}

func TestScalarMultBaseDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x02
	s := Reduce32(seed)
	p1 := ScalarMultBase(s)
	p2 := ScalarMultBase(s)
	if !p1.Equal(p2) {
		t.Fatal("ScalarMultBase is not deterministic")
	}
}

func TestAddSubInverse(t *testing.T) {
	var sa, sb [32]byte
	sa[0] = 5
	sb[0] = 9
	A := ScalarMultBase(Reduce32(sa))
	B := ScalarMultBase(Reduce32(sb))

	sum := Add(A, B)
	back := Sub(sum, B)
	if !back.Equal(A) {
		t.Fatal("Sub(Add(A,B),B) != A")
	}
}

func TestPointFromBytesRoundTrip(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	p := ScalarMultBase(Reduce32(seed))
	enc := p.Bytes()
	decoded, err := PointFromBytes(enc)
	if err != nil {
		t.Fatalf("PointFromBytes: %v", err)
	}
	if !decoded.Equal(p) {
		t.Fatal("decode/encode round trip mismatch")
	}
}

func TestPointFromBytesInvalid(t *testing.T) {
	var garbage [32]byte
	for i := range garbage {
		garbage[i] = 0xFF
	}
	if _, err := PointFromBytes(garbage); err == nil {
		t.Fatal("expected error decoding non-canonical point, got nil")
	}
}

func TestHashToScalarDeterministic(t *testing.T) {
	a := HashToScalar([]byte("SubAddr\x00"), []byte{1, 2, 3})
	b := HashToScalar([]byte("SubAddr\x00"), []byte{1, 2, 3})
	if a.Bytes() != b.Bytes() {
		t.Fatal("HashToScalar is not deterministic")
	}
}

func TestHashToPointDeterministicAndOnCurve(t *testing.T) {
	p1 := HashToPoint([]byte("some output key bytes"))
	p2 := HashToPoint([]byte("some output key bytes"))
	if !p1.Equal(p2) {
		t.Fatal("HashToPoint is not deterministic")
	}
	if !IsValid(p1.Bytes()) {
		t.Fatal("HashToPoint must return a canonical point encoding")
	}

	other := HashToPoint([]byte("different output key bytes"))
	if p1.Equal(other) {
		t.Fatal("distinct inputs collided in HashToPoint")
	}
}

func TestScalarBytesLength(t *testing.T) {
	s := Reduce32([32]byte{})
	b := s.Bytes()
	if len(b) != ScalarSize {
		t.Fatalf("scalar encoding length = %d, want %d", len(b), ScalarSize)
	}
	if !s.IsZero() {
		t.Fatal("reduce32 of the zero array should be the zero scalar")
	}
	if hex.EncodeToString(b[:]) != "0000000000000000000000000000000000000000000000000000000000000000"[:64] {
		t.Fatal("zero scalar should encode as all-zero bytes")
	}
}
