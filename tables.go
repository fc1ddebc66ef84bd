// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

import (
	"sync"

	"github.com/curve25519group/curve25519group/ctequal"
)

// A projLookupTable holds the first eight multiples {1P, 2P, ..., 8P} of a
// runtime point in projective Niels form, for constant-time selection by a
// signed radix-16 digit.
type projLookupTable struct {
	points [8]projCached
}

// An affineLookupTable is the affine Niels counterpart of projLookupTable,
// used for precomputed basepoint tables.
type affineLookupTable struct {
	points [8]affineCached
}

// A nafLookupTable holds the odd multiples {1P, 3P, ..., 15P} of a runtime
// point, for variable-time indexing by width-5 NAF digits.
type nafLookupTable struct {
	points [8]projCached
}

// An affineNafLookupTable holds the odd multiples {1P, 3P, ..., 15P} in
// affine Niels form, used for the static basepoint.
type affineNafLookupTable struct {
	points [8]affineCached
}

// Builders.

func (v *projLookupTable) FromP3(q *EdwardsPoint) {
	// Goal: v.points[i] = (i+1)*Q, i.e., Q, 2Q, ..., 8Q
	// This allows lookup of -8Q, ..., -Q, 0, Q, ..., 8Q
	v.points[0].FromP3(q)
	var tmpP3 EdwardsPoint
	var tmpP1xP1 projP1xP1
	for i := 0; i < 7; i++ {
		// Compute (i+1)*Q as Q + i*Q and convert to a projCached
		// This is needlessly complicated because the API has explicit
		// receivers instead of creating stack objects and relying on RVO
		v.points[i+1].FromP3(tmpP3.fromP1xP1(tmpP1xP1.Add(q, &v.points[i])))
	}
}

func (v *affineLookupTable) FromP3(q *EdwardsPoint) {
	// Goal: v.points[i] = (i+1)*Q, i.e., Q, 2Q, ..., 8Q
	v.points[0].FromP3(q)
	var tmpP3 EdwardsPoint
	var tmpP1xP1 projP1xP1
	for i := 0; i < 7; i++ {
		v.points[i+1].FromP3(tmpP3.fromP1xP1(tmpP1xP1.AddAffine(q, &v.points[i])))
	}
}

func (v *nafLookupTable) FromP3(q *EdwardsPoint) {
	// Goal: v.points[i] = (2*i+1)*Q, i.e., Q, 3Q, 5Q, ..., 15Q
	// This allows lookup of -15Q, ..., -3Q, -Q, 0, Q, 3Q, ..., 15Q
	v.points[0].FromP3(q)
	var q2 EdwardsPoint
	q2.Double(q)
	var tmpP3 EdwardsPoint
	var tmpP1xP1 projP1xP1
	for i := 0; i < 7; i++ {
		v.points[i+1].FromP3(tmpP3.fromP1xP1(tmpP1xP1.Add(&q2, &v.points[i])))
	}
}

func (v *affineNafLookupTable) FromP3(q *EdwardsPoint) {
	// Goal: v.points[i] = (2*i+1)*Q, i.e., Q, 3Q, 5Q, ..., 15Q
	v.points[0].FromP3(q)
	var q2 EdwardsPoint
	q2.Double(q)
	var tmpP3 EdwardsPoint
	var tmpP1xP1 projP1xP1
	for i := 0; i < 7; i++ {
		v.points[i+1].FromP3(tmpP3.fromP1xP1(tmpP1xP1.AddAffine(&q2, &v.points[i])))
	}
}

// Selectors.

// SelectInto sets dest to x*Q, where -8 <= x <= 8, in constant time: every
// entry is scanned and conditionally blended, and the sign is applied by a
// conditional negation, so neither the timing nor the access pattern
// depends on x.
func (v *projLookupTable) SelectInto(dest *projCached, x int8) {
	// Compute xabs = |x|
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		// Set dest = j*Q if |x| = j
		cond := ctequal.Equal(int32(xabs), int32(j))
		dest.Select(&v.points[j-1], dest, int(cond))
	}
	// Now dest = |x|*Q, conditionally negate for x < 0
	dest.CondNeg(int(xmask & 1))
}

// SelectInto sets dest to x*Q, where -8 <= x <= 8, in constant time.
func (v *affineLookupTable) SelectInto(dest *affineCached, x int8) {
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.Zero()
	for j := 1; j <= 8; j++ {
		cond := ctequal.Equal(int32(xabs), int32(j))
		dest.Select(&v.points[j-1], dest, int(cond))
	}
	dest.CondNeg(int(xmask & 1))
}

// SelectInto sets dest to x*Q, where x is odd and 0 < x < 16. The index is
// used directly; this lookup is variable time.
func (v *nafLookupTable) SelectInto(dest *projCached, x int8) {
	*dest = v.points[x/2]
}

// SelectInto sets dest to x*Q, where x is odd and 0 < x < 16, in variable
// time.
func (v *affineNafLookupTable) SelectInto(dest *affineCached, x int8) {
	*dest = v.points[x/2]
}

// An EdwardsBasepointTable holds 32 affine Niels lookup tables for a fixed
// point B, where table i holds the multiples {1, ..., 8} of 256^i * B. It
// supports a full 64-digit signed radix-16 fixed-base scalar multiplication
// with a four-doubling ladder.
type EdwardsBasepointTable struct {
	tables [32]affineLookupTable
}

// NewEdwardsBasepointTable precomputes a fixed-base table for p.
func NewEdwardsBasepointTable(p *EdwardsPoint) *EdwardsBasepointTable {
	t := &EdwardsBasepointTable{}
	q := new(EdwardsPoint).Set(p)
	for i := 0; i < 32; i++ {
		t.tables[i].FromP3(q)
		q.MultByPow2(q, 8)
	}
	return t
}

// Mul returns x * B, where B is the table's fixed point. It runs in
// constant time.
func (t *EdwardsBasepointTable) Mul(x *Scalar) *EdwardsPoint {
	// Write x = sum(x_i * 16^i) so  x*B = sum( B*x_i*16^i )
	// as described in the Ed25519 paper
	//
	// Group even and odd coefficients
	// x*B     = x_0*16^0*B + x_2*16^2*B + ... + x_62*16^62*B
	//         + x_1*16^1*B + x_3*16^3*B + ... + x_63*16^63*B
	// x*B     = x_0*16^0*B + x_2*16^2*B + ... + x_62*16^62*B
	//    + 16*( x_1*16^0*B + x_3*16^2*B + ... + x_63*16^62*B)
	//
	// We use a lookup table for each i to get x_i*16^(2*i)*B
	// and do four doublings to multiply by 16.
	digits := x.signedRadix16()

	multiple := &affineCached{}
	tmp1 := &projP1xP1{}
	tmp2 := &projP2{}

	// Accumulate the odd components first
	v := NewIdentityPoint()
	for i := 1; i < 64; i += 2 {
		t.tables[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(v, multiple)
		v.fromP1xP1(tmp1)
	}

	// Multiply by 16
	tmp2.FromP3(v)       // tmp2 =    v in P2 coords
	tmp1.Double(tmp2)    // tmp1 =  2*v in P1xP1 coords
	tmp2.FromP1xP1(tmp1) // tmp2 =  2*v in P2 coords
	tmp1.Double(tmp2)    // tmp1 =  4*v in P1xP1 coords
	tmp2.FromP1xP1(tmp1) // tmp2 =  4*v in P2 coords
	tmp1.Double(tmp2)    // tmp1 =  8*v in P1xP1 coords
	tmp2.FromP1xP1(tmp1) // tmp2 =  8*v in P2 coords
	tmp1.Double(tmp2)    // tmp1 = 16*v in P1xP1 coords
	v.fromP1xP1(tmp1)    // now v = 16*(odd components)

	// Accumulate the even components
	for i := 0; i < 64; i += 2 {
		t.tables[i/2].SelectInto(multiple, digits[i])
		tmp1.AddAffine(v, multiple)
		v.fromP1xP1(tmp1)
	}

	return v
}

// The tables for the Ed25519 basepoint are process-wide read-only
// constants. They are built once on first use and never written afterwards.
var (
	basepointTableOnce sync.Once
	basepointTableVal  *EdwardsBasepointTable

	basepointNafTableOnce sync.Once
	basepointNafTableVal  *affineNafLookupTable
)

func basepointTable() *EdwardsBasepointTable {
	basepointTableOnce.Do(func() {
		basepointTableVal = NewEdwardsBasepointTable(NewGeneratorPoint())
	})
	return basepointTableVal
}

func basepointNafTable() *affineNafLookupTable {
	basepointNafTableOnce.Do(func() {
		basepointNafTableVal = new(affineNafLookupTable)
		basepointNafTableVal.FromP3(NewGeneratorPoint())
	})
	return basepointNafTableVal
}
