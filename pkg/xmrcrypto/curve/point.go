package curve

import (
	"filippo.io/edwards25519"

	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

// Point is a point on the Ed25519 curve, held internally as an
// edwards25519.Point. Membership in the prime-order subgroup is not checked.
type Point struct {
	p *edwards25519.Point
}

// PointSize is the byte width of a canonical point encoding.
const PointSize = 32

// ScalarMultBase returns s*G.
func ScalarMultBase(s Scalar) Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(s.inner())}
}

// ScalarMult returns s*P (variable-base scalar multiplication).
func ScalarMult(s Scalar, p Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarMult(s.inner(), p.p)}
}

// Add returns a+b.
func Add(a, b Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().Add(a.p, b.p)}
}

// Sub returns a-b.
func Sub(a, b Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().Subtract(a.p, b.p)}
}

// PointFromBytes decodes a canonical 32-byte Ed25519 point encoding. It
// fails with xmrerrors.ErrInvalidPoint if the encoding is not a valid point
// on the curve or is not the canonical encoding of that point.
func PointFromBytes(b [32]byte) (Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b[:])
	if err != nil {
		return Point{}, xmrerrors.ErrInvalidPoint
	}
	// SetBytes also accepts non-canonical encodings of valid points (an
	// unreduced y, or x = 0 with the sign bit set); the re-encoding of such
	// a point differs from its input.
	if [32]byte(p.Bytes()) != b {
		return Point{}, xmrerrors.ErrInvalidPoint
	}
	return Point{p: p}, nil
}

// Bytes returns the canonical 32-byte compressed encoding of p.
func (p Point) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], p.p.Bytes())
	return out
}

// Equal reports whether p and q encode to the same point.
func (p Point) Equal(q Point) bool {
	return p.Bytes() == q.Bytes()
}

// IsValid reports whether b is a canonical Ed25519 point encoding.
func IsValid(b [32]byte) bool {
	_, err := PointFromBytes(b)
	return err == nil
}
