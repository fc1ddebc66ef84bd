// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package curve25519group implements group logic for the twisted Edwards
// curve
//
//	-x^2 + y^2 = 1 + -(121665/121666)*x^2*y^2
//
// better known as the Edwards curve equivalent to Curve25519, together with
// the ristretto255 prime-order group built on top of it.
//
// Most users don't need this package, and should instead use crypto/ed25519
// for signatures or golang.org/x/crypto/curve25519 for Diffie-Hellman. This
// package is for anyone who needs the group operations themselves: EdwardsPoint
// and Scalar for the full curve, RistrettoElement for prime order group logic.
//
// All operations are constant time for secret inputs unless explicitly
// documented otherwise; the only variable-time entry point is
// VarTimeDoubleScalarBaseMult, which must only be used with public inputs.
package curve25519group

import (
	"encoding/hex"
	"fmt"

	"github.com/curve25519group/curve25519group/ctequal"
	"github.com/curve25519group/curve25519group/field"
)

// feFromHex decodes a little-endian hex encoding of a field element. It is
// only used to build package constants, and panics on malformed input.
func feFromHex(s string) *field.Element {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("curve25519group: bad constant: " + err.Error())
	}
	v, err := new(field.Element).SetBytes(b)
	if err != nil {
		panic("curve25519group: bad constant: " + err.Error())
	}
	return v
}

var (
	feOne = new(field.Element).One()

	// d is the curve constant -121665/121666.
	d = feFromHex("a3785913ca4deb75abd841414d0a700098e879777940c78c73fe6f2bee6c0352")
	// d2 = 2*d, used by the cached point forms.
	d2 = feFromHex("59f1b226949bd6eb56b183829a14e00030d1f3eef2808e19e7fcdf56dcd90624")

	// basepointX and basepointY are the affine coordinates of the Ed25519
	// basepoint B, with y = 4/5 and x the even root recovered from the curve
	// equation.
	basepointX = feFromHex("1ad5258f602d56c9b2a7259560c72c695cdcd6fd31e2a4c0fe536ecdd3366921")
	basepointY = feFromHex("5866666666666666666666666666666666666666666666666666666666666666")
)

// EdwardsPoint is a point on the curve in extended coordinates (X:Y:Z:T)
// with x = X/Z, y = Y/Z, xy = T/Z, as in https://eprint.iacr.org/2008/522.
//
// The zero value is NOT a valid point; use NewIdentityPoint to obtain the
// group identity. EdwardsPoint values are immutable once constructed by any
// of the package's operations and may be shared freely between goroutines.
type EdwardsPoint struct {
	x, y, z, t field.Element

	// Make the type not comparable with ==, so that equality checks have to
	// go through Equal, which compares the underlying affine point.
	_ incomparable
}

type incomparable [0]func()

// The three working coordinate systems used inside the scalar multiplication
// loops, named after the "P1xP1", "P2", "P3" models of the HWCD formulas.
// Doubling is cheapest on projective (P2) points and produces a completed
// (P1xP1) point; addition takes an extended (P3) point and a cached Niels
// form and also produces a completed point.

type projP1xP1 struct {
	X, Y, Z, T field.Element
}

type projP2 struct {
	X, Y, Z field.Element
}

// projCached holds (Y+X, Y-X, Z, 2dXY), the projective Niels form of a
// runtime point used as the addend of an addition.
type projCached struct {
	YplusX, YminusX, Z, T2d field.Element
}

// affineCached holds (y+x, y-x, 2dxy) with Z = 1, the affine Niels form
// used for precomputed tables.
type affineCached struct {
	YplusX, YminusX, T2d field.Element
}

// Constructors.

func (v *projP2) Zero() *projP2 {
	v.X.Zero()
	v.Y.One()
	v.Z.One()
	return v
}

// NewIdentityPoint returns a new EdwardsPoint set to the identity, (0, 1).
func NewIdentityPoint() *EdwardsPoint {
	p := &EdwardsPoint{}
	p.x.Zero()
	p.y.One()
	p.z.One()
	p.t.Zero()
	return p
}

// NewGeneratorPoint returns a new EdwardsPoint set to the canonical
// generator B, with y = 4/5 and x positive.
func NewGeneratorPoint() *EdwardsPoint {
	p := &EdwardsPoint{}
	p.x.Set(basepointX)
	p.y.Set(basepointY)
	p.z.One()
	p.t.Multiply(basepointX, basepointY)
	return p
}

func (v *projCached) Zero() *projCached {
	v.YplusX.One()
	v.YminusX.One()
	v.Z.One()
	v.T2d.Zero()
	return v
}

func (v *affineCached) Zero() *affineCached {
	v.YplusX.One()
	v.YminusX.One()
	v.T2d.Zero()
	return v
}

// Set sets v = u, and returns v.
func (v *EdwardsPoint) Set(u *EdwardsPoint) *EdwardsPoint {
	*v = *u
	return v
}

// Conversions.

func (v *projP2) FromP1xP1(p *projP1xP1) *projP2 {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	return v
}

func (v *projP2) FromP3(p *EdwardsPoint) *projP2 {
	v.X.Set(&p.x)
	v.Y.Set(&p.y)
	v.Z.Set(&p.z)
	return v
}

func (v *EdwardsPoint) fromP1xP1(p *projP1xP1) *EdwardsPoint {
	v.x.Multiply(&p.X, &p.T)
	v.y.Multiply(&p.Y, &p.Z)
	v.z.Multiply(&p.Z, &p.T)
	v.t.Multiply(&p.X, &p.Y)
	return v
}

func (v *EdwardsPoint) fromP2(p *projP2) *EdwardsPoint {
	v.x.Multiply(&p.X, &p.Z)
	v.y.Multiply(&p.Y, &p.Z)
	v.z.Square(&p.Z)
	v.t.Multiply(&p.X, &p.Y)
	return v
}

func (v *projCached) FromP3(p *EdwardsPoint) *projCached {
	v.YplusX.Add(&p.y, &p.x)
	v.YminusX.Subtract(&p.y, &p.x)
	v.Z.Set(&p.z)
	v.T2d.Multiply(&p.t, d2)
	return v
}

func (v *affineCached) FromP3(p *EdwardsPoint) *affineCached {
	v.YplusX.Add(&p.y, &p.x)
	v.YminusX.Subtract(&p.y, &p.x)
	v.T2d.Multiply(&p.t, d2)

	var invZ field.Element
	invZ.Invert(&p.z)
	v.YplusX.Multiply(&v.YplusX, &invZ)
	v.YminusX.Multiply(&v.YminusX, &invZ)
	v.T2d.Multiply(&v.T2d, &invZ)
	return v
}

// (Re)addition and subtraction.

// Add sets v = p + q, and returns v.
func (v *EdwardsPoint) Add(p, q *EdwardsPoint) *EdwardsPoint {
	var qCached projCached
	qCached.FromP3(q)
	var result projP1xP1
	result.Add(p, &qCached)
	return v.fromP1xP1(&result)
}

// Subtract sets v = p - q, and returns v.
func (v *EdwardsPoint) Subtract(p, q *EdwardsPoint) *EdwardsPoint {
	var qCached projCached
	qCached.FromP3(q)
	var result projP1xP1
	result.Sub(p, &qCached)
	return v.fromP1xP1(&result)
}

func (v *projP1xP1) Add(p *EdwardsPoint, q *projCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Subtract(&p.y, &p.x)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.t, &q.T2d)
	ZZ2.Multiply(&p.z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&ZZ2, &TT2d)
	v.T.Subtract(&ZZ2, &TT2d)
	return v
}

func (v *projP1xP1) Sub(p *EdwardsPoint, q *projCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Subtract(&p.y, &p.x)

	PP.Multiply(&YplusX, &q.YminusX) // flipped sign
	MM.Multiply(&YminusX, &q.YplusX) // flipped sign
	TT2d.Multiply(&p.t, &q.T2d)
	ZZ2.Multiply(&p.z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&ZZ2, &TT2d) // flipped sign
	v.T.Add(&ZZ2, &TT2d)      // flipped sign
	return v
}

func (v *projP1xP1) AddAffine(p *EdwardsPoint, q *affineCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Subtract(&p.y, &p.x)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.t, &q.T2d)

	Z2.Add(&p.z, &p.z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&Z2, &TT2d)
	v.T.Subtract(&Z2, &TT2d)
	return v
}

func (v *projP1xP1) SubAffine(p *EdwardsPoint, q *affineCached) *projP1xP1 {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.y, &p.x)
	YminusX.Subtract(&p.y, &p.x)

	PP.Multiply(&YplusX, &q.YminusX) // flipped sign
	MM.Multiply(&YminusX, &q.YplusX) // flipped sign
	TT2d.Multiply(&p.t, &q.T2d)

	Z2.Add(&p.z, &p.z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&Z2, &TT2d) // flipped sign
	v.T.Add(&Z2, &TT2d)      // flipped sign
	return v
}

// Doubling.

func (v *projP1xP1) Double(p *projP2) *projP1xP1 {
	var XX, YY, ZZ2, XplusYsq field.Element

	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.SquareAndDouble(&p.Z)
	XplusYsq.Add(&p.X, &p.Y)
	XplusYsq.Square(&XplusYsq)

	v.Y.Add(&YY, &XX)
	v.Z.Subtract(&YY, &XX)

	v.X.Subtract(&XplusYsq, &v.Y)
	v.T.Subtract(&ZZ2, &v.Z)
	return v
}

// Double sets v = 2 * p, and returns v.
func (v *EdwardsPoint) Double(p *EdwardsPoint) *EdwardsPoint {
	var pp projP2
	pp.FromP3(p)
	var result projP1xP1
	result.Double(&pp)
	return v.fromP1xP1(&result)
}

// Negation.

// Negate sets v = -p, and returns v.
func (v *EdwardsPoint) Negate(p *EdwardsPoint) *EdwardsPoint {
	v.x.Negate(&p.x)
	v.y.Set(&p.y)
	v.z.Set(&p.z)
	v.t.Negate(&p.t)
	return v
}

// Equal returns 1 if v is equivalent to u, and 0 otherwise. It runs in
// constant time.
func (v *EdwardsPoint) Equal(u *EdwardsPoint) int {
	var t1, t2, t3, t4 field.Element
	t1.Multiply(&v.x, &u.z)
	t2.Multiply(&u.x, &v.z)
	t3.Multiply(&v.y, &u.z)
	t4.Multiply(&u.y, &v.z)

	return t1.Equal(&t2) & t3.Equal(&t4)
}

// Constant-time operations.

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *projCached) Select(a, b *projCached, cond int) *projCached {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.Z.Select(&a.Z, &b.Z, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// Select sets v to a if cond == 1 and to b if cond == 0.
func (v *affineCached) Select(a, b *affineCached, cond int) *affineCached {
	v.YplusX.Select(&a.YplusX, &b.YplusX, cond)
	v.YminusX.Select(&a.YminusX, &b.YminusX, cond)
	v.T2d.Select(&a.T2d, &b.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *projCached) CondNeg(cond int) *projCached {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}

// CondNeg negates v if cond == 1 and leaves it unchanged if cond == 0.
func (v *affineCached) CondNeg(cond int) *affineCached {
	v.YplusX.Swap(&v.YminusX, cond)
	v.T2d.CondNegate(&v.T2d, cond)
	return v
}

// Encoding and decoding.

// CompressedEdwardsY is the 32-byte wire form of an EdwardsPoint: the
// little-endian encoding of the y coordinate, with the sign of x stored in
// the top bit of the last byte.
type CompressedEdwardsY [32]byte

// SetBytes sets c to the 32-byte encoding x. It returns an error, leaving c
// unchanged, if x is not 32 bytes. No curve validity check is performed; use
// Decompress to recover and validate the point.
func (c *CompressedEdwardsY) SetBytes(x []byte) (*CompressedEdwardsY, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: compressed point must be 32 bytes", ErrInvalidRepresentation)
	}
	copy(c[:], x)
	return c, nil
}

// Bytes returns a copy of the 32-byte encoding.
func (c *CompressedEdwardsY) Bytes() []byte {
	b := make([]byte, 32)
	copy(b, c[:])
	return b
}

// Equal returns 1 if c and other hold the same encoding, and 0 otherwise.
// It runs in constant time.
func (c *CompressedEdwardsY) Equal(other *CompressedEdwardsY) int {
	return ctequal.Bytes(c[:], other[:])
}

// String returns the lowercase hex encoding of c.
func (c *CompressedEdwardsY) String() string {
	return hex.EncodeToString(c[:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CompressedEdwardsY) MarshalBinary() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CompressedEdwardsY) UnmarshalBinary(data []byte) error {
	_, err := c.SetBytes(data)
	return err
}

// Decompress recovers the EdwardsPoint encoded by c. It returns an error if
// c does not encode a curve point: if the field element is such that x^2 =
// (y^2-1)/(dy^2+1) has no square root, or if x = 0 with the sign bit set.
func (c *CompressedEdwardsY) Decompress() (*EdwardsPoint, error) {
	return new(EdwardsPoint).SetBytes(c[:])
}

// SetBytes sets v to the point encoded by x, a 32-byte CompressedEdwardsY
// encoding, and returns v. If x does not represent a valid point, SetBytes
// returns an error and the receiver is unchanged.
func (v *EdwardsPoint) SetBytes(x []byte) (*EdwardsPoint, error) {
	// Decoding works as follows:
	//
	//   1. Interpret the low 255 bits as the field element y.
	//   2. Compute x^2 = (y^2-1) / (dy^2+1) and take the square root with
	//      SqrtRatio. If the ratio is non-square, the encoding is invalid.
	//   3. Flip the sign of the (non-negative) root to match bit 255.
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: compressed point must be 32 bytes", ErrInvalidRepresentation)
	}
	y, err := new(field.Element).SetBytes(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRepresentation, err)
	}

	// u = y² - 1, v = dy² + 1
	y2 := new(field.Element).Square(y)
	u := new(field.Element).Subtract(y2, feOne)
	vv := new(field.Element).Multiply(y2, d)
	vv.Add(vv, feOne)

	xx, wasSquare := new(field.Element).SqrtRatio(u, vv)
	if wasSquare == 0 {
		return nil, fmt.Errorf("%w: not a point on the curve", ErrInvalidEncoding)
	}

	// The root is non-negative; negate it if the sign bit disagrees. An
	// encoding of x = 0 with the sign bit set would decode to -0, which is
	// not canonical and is rejected.
	sign := int(x[31] >> 7)
	if xx.IsZero() == 1 && sign == 1 {
		return nil, fmt.Errorf("%w: negative zero x-coordinate", ErrInvalidEncoding)
	}
	xx.CondNegate(xx, sign^xx.IsNegative())

	v.x.Set(xx)
	v.y.Set(y)
	v.z.One()
	v.t.Multiply(xx, y)
	return v, nil
}

// Bytes returns the canonical 32-byte CompressedEdwardsY encoding of v.
func (v *EdwardsPoint) Bytes() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var buf [32]byte
	return v.bytes(&buf)
}

func (v *EdwardsPoint) bytes(buf *[32]byte) []byte {
	var zInv, x, y field.Element
	zInv.Invert(&v.z)
	x.Multiply(&v.x, &zInv)
	y.Multiply(&v.y, &zInv)

	copy(buf[:], y.Bytes())
	buf[31] |= byte(x.IsNegative() << 7)
	return buf[:]
}

// Compress returns the CompressedEdwardsY encoding of v.
func (v *EdwardsPoint) Compress() *CompressedEdwardsY {
	c := &CompressedEdwardsY{}
	copy(c[:], v.Bytes())
	return c
}
