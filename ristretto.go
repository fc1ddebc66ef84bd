// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

// This file implements the ristretto255 prime-order group as specified in
// draft-hdevalence-cfrg-ristretto-00, as a quotient of the Edwards curve by
// its 4-torsion subgroup. RistrettoElement values that differ by a
// 4-torsion point are equal and produce the same canonical encoding.

import (
	"encoding/hex"
	"fmt"

	"github.com/curve25519group/curve25519group/ctequal"
	"github.com/curve25519group/curve25519group/field"
)

var (
	sqrtM1         = feFromHex("b0a00e4a271beec478e42fad0618432fa7d7fb3d99004d2b0bdfc14f8024832b")
	sqrtADMinusOne = feFromHex("1b2e7b49a0f6977ebd54781b0c8e9daffdd1f531c9fc3c0fac48832bbf316937")
	invSqrtAMinusD = feFromHex("ea405d80aafdc899be72415a17162f9d40d801fe917bc216a2fcafcf05896c78")
	oneMinusDSQ    = feFromHex("76c15f94c1097ce20f355ecd38a1812ce4df70beddab9499d7e0b3b2a8729002")
	dMinusOneSQ    = feFromHex("204ded44aa5aad3199191eb02c4a9ed2eb4e9b522fd3dc4c41226cf67ab36859")
)

// A RistrettoElement is an element of the ristretto255 prime-order group,
// held internally as an extended Edwards point. Two elements are equal when
// their internal points differ by a 4-torsion point; Equal and the
// compressed encoding both respect the quotient.
type RistrettoElement struct {
	r EdwardsPoint
}

// CompressedRistretto is the canonical 32-byte wire form of a
// RistrettoElement: the little-endian encoding of a canonical, non-negative
// field element.
type CompressedRistretto [32]byte

// NewIdentityRistrettoElement returns a new RistrettoElement set to the
// group identity.
func NewIdentityRistrettoElement() *RistrettoElement {
	return &RistrettoElement{r: *NewIdentityPoint()}
}

// NewGeneratorRistrettoElement returns a new RistrettoElement set to the
// canonical generator, the image of the Ed25519 basepoint under the
// quotient.
func NewGeneratorRistrettoElement() *RistrettoElement {
	return &RistrettoElement{r: *NewGeneratorPoint()}
}

// Set sets v = u, and returns v.
func (v *RistrettoElement) Set(u *RistrettoElement) *RistrettoElement {
	*v = *u
	return v
}

// Equal returns 1 if v is equivalent to u, and 0 otherwise. Elements must
// not be compared in any other way. It runs in constant time.
func (v *RistrettoElement) Equal(u *RistrettoElement) int {
	var f0, f1 field.Element

	f0.Multiply(&v.r.x, &u.r.y) // x1 * y2
	f1.Multiply(&v.r.y, &u.r.x) // y1 * x2
	out := f0.Equal(&f1)

	f0.Multiply(&v.r.y, &u.r.y) // y1 * y2
	f1.Multiply(&v.r.x, &u.r.x) // x1 * x2
	out = out | f0.Equal(&f1)

	return out
}

// Group operations, inherited from the curve.

// Add sets v = p + q, and returns v.
func (v *RistrettoElement) Add(p, q *RistrettoElement) *RistrettoElement {
	v.r.Add(&p.r, &q.r)
	return v
}

// Subtract sets v = p - q, and returns v.
func (v *RistrettoElement) Subtract(p, q *RistrettoElement) *RistrettoElement {
	v.r.Subtract(&p.r, &q.r)
	return v
}

// Negate sets v = -p, and returns v.
func (v *RistrettoElement) Negate(p *RistrettoElement) *RistrettoElement {
	v.r.Negate(&p.r)
	return v
}

// Double sets v = 2 * p, and returns v.
func (v *RistrettoElement) Double(p *RistrettoElement) *RistrettoElement {
	v.r.Double(&p.r)
	return v
}

// ScalarMult sets v = x * q, and returns v. It runs in constant time.
func (v *RistrettoElement) ScalarMult(x *Scalar, q *RistrettoElement) *RistrettoElement {
	v.r.ScalarMult(x, &q.r)
	return v
}

// ScalarBaseMult sets v = x * G, where G is the canonical generator, and
// returns v. It runs in constant time.
func (v *RistrettoElement) ScalarBaseMult(x *Scalar) *RistrettoElement {
	v.r.ScalarBaseMult(x)
	return v
}

// A RistrettoGeneratorTable is a precomputed fixed-base table for a
// RistrettoElement, usually the canonical generator.
type RistrettoGeneratorTable struct {
	t EdwardsBasepointTable
}

// NewRistrettoGeneratorTable precomputes a fixed-base table for p.
func NewRistrettoGeneratorTable(p *RistrettoElement) *RistrettoGeneratorTable {
	return &RistrettoGeneratorTable{t: *NewEdwardsBasepointTable(&p.r)}
}

// Mul returns x * G, where G is the table's fixed element. It runs in
// constant time.
func (t *RistrettoGeneratorTable) Mul(x *Scalar) *RistrettoElement {
	return &RistrettoElement{r: *t.t.Mul(x)}
}

// Encoding and decoding.

// SetBytes sets c to the 32-byte encoding x. It returns an error, leaving c
// unchanged, if x is not 32 bytes. Canonicality is checked by Decompress.
func (c *CompressedRistretto) SetBytes(x []byte) (*CompressedRistretto, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: compressed element must be 32 bytes", ErrInvalidRepresentation)
	}
	copy(c[:], x)
	return c, nil
}

// Bytes returns a copy of the 32-byte encoding.
func (c *CompressedRistretto) Bytes() []byte {
	b := make([]byte, 32)
	copy(b, c[:])
	return b
}

// Equal returns 1 if c and other hold the same encoding, and 0 otherwise.
// It runs in constant time.
func (c *CompressedRistretto) Equal(other *CompressedRistretto) int {
	return ctequal.Bytes(c[:], other[:])
}

// String returns the lowercase hex encoding of c.
func (c *CompressedRistretto) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CompressedRistretto) MarshalBinary() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CompressedRistretto) UnmarshalBinary(data []byte) error {
	_, err := c.SetBytes(data)
	return err
}

// Decompress recovers the RistrettoElement encoded by c. It returns an
// error if c is not the canonical encoding of an element.
func (c *CompressedRistretto) Decompress() (*RistrettoElement, error) {
	return new(RistrettoElement).SetBytes(c[:])
}

// SetBytes sets v to the element encoded by x, a 32-byte CompressedRistretto
// encoding, and returns v. If x does not represent a valid element, SetBytes
// returns an error and the receiver is unchanged.
//
// All of the decoding checks of the ristretto255 specification are applied:
// the field element must be canonical and non-negative, the square root
// computation must succeed, and the resulting t coordinate must be
// non-negative with y nonzero.
func (v *RistrettoElement) SetBytes(x []byte) (*RistrettoElement, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: compressed element must be 32 bytes", ErrInvalidRepresentation)
	}

	// Step 1: check that the input is the canonical encoding of a
	// non-negative field element, by decoding and re-encoding. This catches
	// values above p as well as a set high bit.
	s, err := new(field.Element).SetBytes(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRepresentation, err)
	}
	if ctequal.Bytes(s.Bytes(), x) == 0 {
		return nil, fmt.Errorf("%w: non-canonical field element", ErrInvalidEncoding)
	}
	if s.IsNegative() == 1 {
		return nil, fmt.Errorf("%w: negative field element", ErrInvalidEncoding)
	}

	// Step 2: recover the extended coordinates.
	var sSqr, u1, u2, u2Sqr, vv field.Element
	sSqr.Square(s)
	u1.Subtract(feOne, &sSqr) // u1 = 1 - s²
	u2.Add(feOne, &sSqr)      // u2 = 1 + s²
	u2Sqr.Square(&u2)

	// v = -(d * u1²) - u2²
	vv.Square(&u1).Multiply(&vv, d).Negate(&vv).Subtract(&vv, &u2Sqr)

	var invSqrt, t field.Element
	_, wasSquare := invSqrt.SqrtRatio(feOne, t.Multiply(&vv, &u2Sqr))

	var denX, denY field.Element
	denX.Multiply(&invSqrt, &u2)
	denY.Multiply(&invSqrt, &denX).Multiply(&denY, &vv)

	var xx, yy, tt field.Element
	xx.Add(s, s).Multiply(&xx, &denX).Absolute(&xx) // x = |2s * denX|
	yy.Multiply(&u1, &denY)                         // y = u1 * denY
	tt.Multiply(&xx, &yy)                           // t = x * y

	if wasSquare == 0 || tt.IsNegative() == 1 || yy.IsZero() == 1 {
		return nil, fmt.Errorf("%w: not the canonical encoding of an element", ErrInvalidEncoding)
	}

	v.r.x.Set(&xx)
	v.r.y.Set(&yy)
	v.r.z.One()
	v.r.t.Set(&tt)
	return v, nil
}

// Bytes returns the canonical 32-byte encoding of v.
func (v *RistrettoElement) Bytes() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var buf [32]byte
	return v.bytes(&buf)
}

func (v *RistrettoElement) bytes(buf *[32]byte) []byte {
	var u1, u2 field.Element
	u1.Add(&v.r.z, &v.r.y).Multiply(&u1, new(field.Element).Subtract(&v.r.z, &v.r.y)) // u1 = (Z+Y)(Z-Y)
	u2.Multiply(&v.r.x, &v.r.y)                                                       // u2 = XY

	// The ratio is always square, so the flag is discarded.
	var invSqrt, t field.Element
	invSqrt.SqrtRatio(feOne, t.Square(&u2).Multiply(&t, &u1))

	var den1, den2, zInv field.Element
	den1.Multiply(&invSqrt, &u1)
	den2.Multiply(&invSqrt, &u2)
	zInv.Multiply(&den1, &den2).Multiply(&zInv, &v.r.t) // zInv = den1*den2*T

	var ix, iy, enchantedDenominator field.Element
	ix.Multiply(&v.r.x, sqrtM1)
	iy.Multiply(&v.r.y, sqrtM1)
	enchantedDenominator.Multiply(&den1, invSqrtAMinusD)

	rotate := t.Multiply(&v.r.t, &zInv).IsNegative()

	var x, y, denInv field.Element
	x.Select(&iy, &v.r.x, rotate)
	y.Select(&ix, &v.r.y, rotate)
	denInv.Select(&enchantedDenominator, &den2, rotate)

	y.CondNegate(&y, t.Multiply(&x, &zInv).IsNegative())

	var s field.Element
	s.Subtract(&v.r.z, &y).Multiply(&s, &denInv).Absolute(&s)

	copy(buf[:], s.Bytes())
	return buf[:]
}

// Compress returns the CompressedRistretto encoding of v.
func (v *RistrettoElement) Compress() *CompressedRistretto {
	c := &CompressedRistretto{}
	copy(c[:], v.Bytes())
	return c
}

// SetUniformBytes deterministically maps the 64-byte slice x to a
// RistrettoElement, and returns v. The output is uniformly distributed when
// x is; this can be used for hash-to-group operations by passing the output
// of a 512-bit hash. It returns an error, leaving v unchanged, if x is not
// 64 bytes.
func (v *RistrettoElement) SetUniformBytes(x []byte) (*RistrettoElement, error) {
	if len(x) != 64 {
		return nil, fmt.Errorf("%w: uniform element input must be 64 bytes", ErrInvalidRepresentation)
	}

	// Apply the one-way map to each half independently and add the results.
	// The high bit of each half is ignored by the field decoding.
	f, _ := new(field.Element).SetBytes(x[:32])
	p1 := mapToPoint(f)
	f, _ = f.SetBytes(x[32:])
	p2 := mapToPoint(f)

	v.r.Add(p1, p2)
	return v, nil
}

// mapToPoint implements the MAP function of the ristretto255 specification
// (section 3.2.4), sending a field element to an extended Edwards point.
func mapToPoint(t *field.Element) *EdwardsPoint {
	var r field.Element
	r.Square(t).Multiply(&r, sqrtM1) // r = sqrt(-1) * t²

	var u, rPlusD, vv field.Element
	u.Add(&r, feOne).Multiply(&u, oneMinusDSQ) // u = (r+1) * (1-d²)

	// v = (-1 - r*d) * (r + d)
	rPlusD.Add(&r, d)
	vv.Multiply(&r, d).Add(&vv, feOne).Negate(&vv).Multiply(&vv, &rPlusD)

	var s field.Element
	_, wasSquare := s.SqrtRatio(&u, &vv)

	// If the ratio was non-square, retry with s' = -|s*t| and c = r.
	var sPrime field.Element
	sPrime.Multiply(&s, t).Absolute(&sPrime).Negate(&sPrime)

	var c field.Element
	s.Select(&s, &sPrime, wasSquare)
	c.Select(new(field.Element).Negate(feOne), &r, wasSquare)

	// N = c * (r-1) * (d-1)² - v
	var n field.Element
	n.Subtract(&r, feOne).Multiply(&n, &c).Multiply(&n, dMinusOneSQ).Subtract(&n, &vv)

	var sSquare, w0, w1, w2, w3 field.Element
	sSquare.Square(&s)
	w0.Multiply(&s, &vv)
	w0.Add(&w0, &w0)                   // w0 = 2sv
	w1.Multiply(&n, sqrtADMinusOne)    // w1 = N * sqrt(ad-1)
	w2.Subtract(feOne, &sSquare)       // w2 = 1 - s²
	w3.Add(feOne, &sSquare)            // w3 = 1 + s²

	p := &EdwardsPoint{}
	p.x.Multiply(&w0, &w3)
	p.y.Multiply(&w2, &w1)
	p.z.Multiply(&w1, &w3)
	p.t.Multiply(&w0, &w2)
	return p
}
