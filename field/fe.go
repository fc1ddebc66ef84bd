// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements fast arithmetic modulo 2^255-19.
//
// Element represents an element of the field GF(2^255-19), in a radix-2^25.5
// representation of ten signed limbs (bit positions 0, 26, 51, 77, 102, 128,
// 153, 179, 204, 230). This is the representation used by curve25519-dalek
// and its ports, and is bit-compatible with the Ristretto encoding built on
// top of the curve point types in the parent package.
//
// This type works similarly to math/big.Int, and all arguments and receivers
// are allowed to alias.
//
// The zero value is a valid zero element.
package field

import (
	"errors"

	"github.com/curve25519group/curve25519group/ctequal"
)

// Element is an element of GF(2^255-19). The zero value is a valid zero
// element.
type Element struct {
	// An element t represents the integer
	//   t[0] + t[1]*2^26 + t[2]*2^51 + t[3]*2^77 + t[4]*2^102 +
	//   t[5]*2^128 + t[6]*2^153 + t[7]*2^179 + t[8]*2^204 + t[9]*2^230
	//
	// Limbs are stored widened to int64 to keep every intermediate value,
	// including the unreduced sums Add/Subtract produce, far from integer
	// overflow. Between calls to reduce, limbs at even indices are expected
	// to fit about 26 signed bits and limbs at odd indices about 25, give
	// or take the one extra bit that an Add or Subtract contributes; the
	// representation is not required to be canonical, and two Elements
	// with different limbs may represent the same field value. Equal and
	// Bytes always compare and encode the canonical representative.
	l [10]int64
}

var feZero = &Element{}
var feOne = &Element{l: [10]int64{1}}

// Zero sets v = 0 and returns v.
func (v *Element) Zero() *Element {
	*v = Element{}
	return v
}

// One sets v = 1 and returns v.
func (v *Element) One() *Element {
	*v = *feOne
	return v
}

// Set sets v = a and returns v.
func (v *Element) Set(a *Element) *Element {
	*v = *a
	return v
}

func load3(in []byte) int64 {
	var r int64
	r = int64(in[0])
	r |= int64(in[1]) << 8
	r |= int64(in[2]) << 16
	return r
}

func load4(in []byte) int64 {
	var r int64
	r = int64(in[0])
	r |= int64(in[1]) << 8
	r |= int64(in[2]) << 16
	r |= int64(in[3]) << 24
	return r
}

// SetBytes sets v to x, which must be a 32-byte little-endian encoding. The
// high bit of the last byte (bit 255) is ignored, as is customary for
// Curve25519/Ed25519 field element decoding; non-canonical inputs (values in
// [2^255-19, 2^255-1]) are accepted and reduced. SetBytes returns an error,
// leaving v unchanged, if x is not 32 bytes.
func (v *Element) SetBytes(x []byte) (*Element, error) {
	if len(x) != 32 {
		return nil, errors.New("field: invalid field element input size")
	}

	h0 := load4(x[0:])
	h1 := load3(x[4:]) << 6
	h2 := load3(x[7:]) << 5
	h3 := load3(x[10:]) << 3
	h4 := load3(x[13:]) << 2
	h5 := load4(x[16:])
	h6 := load3(x[20:]) << 7
	h7 := load3(x[23:]) << 5
	h8 := load3(x[26:]) << 4
	h9 := (load3(x[29:]) & 8388607) << 2

	var carry [10]int64
	carry[9] = (h9 + 1<<24) >> 25
	h0 += carry[9] * 19
	h9 -= carry[9] << 25
	carry[1] = (h1 + 1<<24) >> 25
	h2 += carry[1]
	h1 -= carry[1] << 25
	carry[3] = (h3 + 1<<24) >> 25
	h4 += carry[3]
	h3 -= carry[3] << 25
	carry[5] = (h5 + 1<<24) >> 25
	h6 += carry[5]
	h5 -= carry[5] << 25
	carry[7] = (h7 + 1<<24) >> 25
	h8 += carry[7]
	h7 -= carry[7] << 25

	carry[0] = (h0 + 1<<25) >> 26
	h1 += carry[0]
	h0 -= carry[0] << 26
	carry[2] = (h2 + 1<<25) >> 26
	h3 += carry[2]
	h2 -= carry[2] << 26
	carry[4] = (h4 + 1<<25) >> 26
	h5 += carry[4]
	h4 -= carry[4] << 26
	carry[6] = (h6 + 1<<25) >> 26
	h7 += carry[6]
	h6 -= carry[6] << 26
	carry[8] = (h8 + 1<<25) >> 26
	h9 += carry[8]
	h8 -= carry[8] << 26

	v.l = [10]int64{h0, h1, h2, h3, h4, h5, h6, h7, h8, h9}
	return v, nil
}

// SetWideBytes sets v to x mod p, where x is a 64-byte little-endian integer.
// It returns an error, leaving v unchanged, if x is not 64 bytes.
func (v *Element) SetWideBytes(x []byte) (*Element, error) {
	if len(x) != 64 {
		return nil, errors.New("field: invalid SetWideBytes input size")
	}

	lo, _ := new(Element).SetBytes(x[:32])
	loMSB := int64(x[31] >> 7)
	hi, _ := new(Element).SetBytes(x[32:])
	hiMSB := int64(x[63] >> 7)

	// v = lo + loMSB*2^255 + hi*2^256 + hiMSB*2^511
	//   = lo + loMSB*19 + hi*2*19 + hiMSB*2*19^2   (mod p)
	carry := new(Element)
	carry.l[0] = loMSB*19 + hiMSB*2*19*19
	lo.Add(lo, carry)
	hi.mulSmall(hi, 2*19)
	return v.Add(lo, hi), nil
}

// carryPropagate brings all limbs within their target bit widths,
// propagating excess bits upward and finally folding limb 9's overflow back
// into limb 0 with the factor-19 reduction identity (2^255 ≡ 19 mod p).
func (v *Element) carryPropagate() *Element {
	l := &v.l
	c0 := (l[0] + (1 << 25)) >> 26
	l[1] += c0
	l[0] -= c0 << 26
	c4 := (l[4] + (1 << 25)) >> 26
	l[5] += c4
	l[4] -= c4 << 26

	c1 := (l[1] + (1 << 24)) >> 25
	l[2] += c1
	l[1] -= c1 << 25
	c5 := (l[5] + (1 << 24)) >> 25
	l[6] += c5
	l[5] -= c5 << 25

	c2 := (l[2] + (1 << 25)) >> 26
	l[3] += c2
	l[2] -= c2 << 26
	c6 := (l[6] + (1 << 25)) >> 26
	l[7] += c6
	l[6] -= c6 << 26

	c3 := (l[3] + (1 << 24)) >> 25
	l[4] += c3
	l[3] -= c3 << 25
	c7 := (l[7] + (1 << 24)) >> 25
	l[8] += c7
	l[7] -= c7 << 25

	c4 = (l[4] + (1 << 25)) >> 26
	l[5] += c4
	l[4] -= c4 << 26
	c8 := (l[8] + (1 << 25)) >> 26
	l[9] += c8
	l[8] -= c8 << 26

	c9 := (l[9] + (1 << 24)) >> 25
	l[0] += c9 * 19
	l[9] -= c9 << 25

	c0 = (l[0] + (1 << 25)) >> 26
	l[1] += c0
	l[0] -= c0 << 26

	return v
}

// reduce reduces v modulo p = 2^255-19 so that v.Bytes returns the unique
// integer in [0, p) that v represents.
func (v *Element) reduce() *Element {
	v.carryPropagate()
	l := &v.l

	// q = floor((v + 19) / 2^255); q is 0 when v is in [0, p), 1 when
	// v >= p, and -1 when the represented value is negative. The leading term
	// folds limb 9's contribution above bit 255 down before the chain.
	q := (19*l[9] + (1 << 24)) >> 25
	q = (l[0] + q) >> 26
	q = (l[1] + q) >> 25
	q = (l[2] + q) >> 26
	q = (l[3] + q) >> 25
	q = (l[4] + q) >> 26
	q = (l[5] + q) >> 25
	q = (l[6] + q) >> 26
	q = (l[7] + q) >> 25
	q = (l[8] + q) >> 26
	q = (l[9] + q) >> 25

	l[0] += 19 * q

	c0 := l[0] >> 26
	l[1] += c0
	l[0] -= c0 << 26
	c1 := l[1] >> 25
	l[2] += c1
	l[1] -= c1 << 25
	c2 := l[2] >> 26
	l[3] += c2
	l[2] -= c2 << 26
	c3 := l[3] >> 25
	l[4] += c3
	l[3] -= c3 << 25
	c4 := l[4] >> 26
	l[5] += c4
	l[4] -= c4 << 26
	c5 := l[5] >> 25
	l[6] += c5
	l[5] -= c5 << 25
	c6 := l[6] >> 26
	l[7] += c6
	l[6] -= c6 << 26
	c7 := l[7] >> 25
	l[8] += c7
	l[7] -= c7 << 25
	c8 := l[8] >> 26
	l[9] += c8
	l[8] -= c8 << 26
	c9 := l[9] >> 25
	l[9] -= c9 << 25
	// c9's contribution sits at bit 255 and was subtracted as q*p above, so
	// it is dropped rather than propagated.

	return v
}

// Bytes returns the canonical 32-byte little-endian encoding of v.
func (v *Element) Bytes() []byte {
	var out [32]byte
	return v.fillBytes(out[:])
}

func (v *Element) fillBytes(s []byte) []byte {
	var t Element
	t.Set(v).reduce()
	l := &t.l

	s[0] = byte(l[0] >> 0)
	s[1] = byte(l[0] >> 8)
	s[2] = byte(l[0] >> 16)
	s[3] = byte((l[0] >> 24) | (l[1] << 2))
	s[4] = byte(l[1] >> 6)
	s[5] = byte(l[1] >> 14)
	s[6] = byte((l[1] >> 22) | (l[2] << 3))
	s[7] = byte(l[2] >> 5)
	s[8] = byte(l[2] >> 13)
	s[9] = byte((l[2] >> 21) | (l[3] << 5))
	s[10] = byte(l[3] >> 3)
	s[11] = byte(l[3] >> 11)
	s[12] = byte((l[3] >> 19) | (l[4] << 6))
	s[13] = byte(l[4] >> 2)
	s[14] = byte(l[4] >> 10)
	s[15] = byte(l[4] >> 18)
	s[16] = byte(l[5] >> 0)
	s[17] = byte(l[5] >> 8)
	s[18] = byte(l[5] >> 16)
	s[19] = byte((l[5] >> 24) | (l[6] << 1))
	s[20] = byte(l[6] >> 7)
	s[21] = byte(l[6] >> 15)
	s[22] = byte((l[6] >> 23) | (l[7] << 3))
	s[23] = byte(l[7] >> 5)
	s[24] = byte(l[7] >> 13)
	s[25] = byte((l[7] >> 21) | (l[8] << 4))
	s[26] = byte(l[8] >> 4)
	s[27] = byte(l[8] >> 12)
	s[28] = byte((l[8] >> 20) | (l[9] << 6))
	s[29] = byte(l[9] >> 2)
	s[30] = byte(l[9] >> 10)
	s[31] = byte(l[9] >> 18)
	return s
}

// Equal returns 1 if v == u, and 0 otherwise, comparing canonical encodings
// in time independent of the values.
func (v *Element) Equal(u *Element) int {
	var a, b [32]byte
	v.fillBytes(a[:])
	u.fillBytes(b[:])
	return ctequal.Bytes(a[:], b[:])
}

// IsZero returns 1 if v == 0, and 0 otherwise.
func (v *Element) IsZero() int {
	var a, z [32]byte
	v.fillBytes(a[:])
	return ctequal.Bytes(a[:], z[:])
}

// IsNegative returns 1 if v, as a canonical integer, is odd, and 0
// otherwise. This is the standard definition of sign used throughout point
// decompression.
func (v *Element) IsNegative() int {
	var a [32]byte
	v.fillBytes(a[:])
	return int(a[0] & 1)
}

// Select sets v to a if cond == 1, or to b if cond == 0. cond must be 0 or 1.
func (v *Element) Select(a, b *Element, cond int) *Element {
	m := int64(cond) * -1 // 0 or all-ones
	for i := range v.l {
		v.l[i] = (m & a.l[i]) | (^m & b.l[i])
	}
	return v
}

// Swap swaps the values of v and u if cond == 1, and leaves them unchanged
// if cond == 0. cond must be 0 or 1.
func (v *Element) Swap(u *Element, cond int) {
	m := int64(cond) * -1
	for i := range v.l {
		t := m & (v.l[i] ^ u.l[i])
		v.l[i] ^= t
		u.l[i] ^= t
	}
}

// CondNegate sets v to -u if cond == 1, and to u if cond == 0. cond must be
// 0 or 1.
func (v *Element) CondNegate(u *Element, cond int) *Element {
	var neg Element
	neg.Negate(u)
	return v.Select(&neg, u, cond)
}

// Absolute sets v to the nonnegative representative of u's class and
// returns v.
func (v *Element) Absolute(u *Element) *Element {
	return v.CondNegate(u, u.IsNegative())
}

// Add sets v = a + b and returns v. Output limbs grow by about one bit
// relative to the larger of a and b; repeated Adds without an intervening
// Multiply, Square, or reduce will eventually overrun the precondition of
// those operations.
func (v *Element) Add(a, b *Element) *Element {
	for i := range v.l {
		v.l[i] = a.l[i] + b.l[i]
	}
	return v
}

// Subtract sets v = a - b and returns v. As with Add, output limbs grow by
// about one bit; the signed representation makes this safe without any
// "add 2p first" trick.
func (v *Element) Subtract(a, b *Element) *Element {
	for i := range v.l {
		v.l[i] = a.l[i] - b.l[i]
	}
	return v
}

// Negate sets v = -a and returns v.
func (v *Element) Negate(a *Element) *Element {
	return v.Subtract(feZero, a)
}

// Multiply sets v = x * y and returns v.
func (v *Element) Multiply(x, y *Element) *Element {
	feMul(v, x, y)
	return v
}

// Square sets v = x * x and returns v.
func (v *Element) Square(x *Element) *Element {
	feSquare(v, x)
	return v
}

// SquareAndDouble sets v = 2 * x * x and returns v.
func (v *Element) SquareAndDouble(x *Element) *Element {
	feSquare(v, x)
	for i := range v.l {
		v.l[i] += v.l[i]
	}
	return v.carryPropagate()
}

// mulSmall sets v = x * y for a non-negative constant y at most 2^16 or so
// (the only caller uses y = 38), skipping the full cross-product in favor
// of scaling each limb directly before a single carry chain.
func (v *Element) mulSmall(x *Element, y int64) *Element {
	for i := range v.l {
		v.l[i] = x.l[i] * y
	}
	return v.carryPropagate()
}

// Invert sets v = 1/z mod p and returns v. If z == 0, Invert sets v = 0.
//
// Uses the standard Curve25519 254-squaring, 11-multiply addition chain for
// the exponent p-2.
func (v *Element) Invert(z *Element) *Element {
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t Element

	z2.Square(z)             // 2
	t.Square(&z2)             // 4
	t.Square(&t)              // 8
	z9.Multiply(&t, z)        // 9
	z11.Multiply(&z9, &z2)    // 11
	t.Square(&z11)            // 22
	z2_5_0.Multiply(&t, &z9)  // 2^5 - 2^0

	t.Square(&z2_5_0)
	for i := 0; i < 4; i++ {
		t.Square(&t)
	}
	z2_10_0.Multiply(&t, &z2_5_0) // 2^10 - 2^0

	t.Square(&z2_10_0)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_20_0.Multiply(&t, &z2_10_0) // 2^20 - 2^0

	t.Square(&z2_20_0)
	for i := 0; i < 19; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_20_0) // 2^40 - 2^0

	t.Square(&t)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_50_0.Multiply(&t, &z2_10_0) // 2^50 - 2^0

	t.Square(&z2_50_0)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	z2_100_0.Multiply(&t, &z2_50_0) // 2^100 - 2^0

	t.Square(&z2_100_0)
	for i := 0; i < 99; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_100_0) // 2^200 - 2^0

	t.Square(&t)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_50_0) // 2^250 - 2^0

	t.Square(&t)
	t.Square(&t)
	t.Square(&t)
	t.Square(&t)
	t.Square(&t) // 2^255 - 2^5

	return v.Multiply(&t, &z11) // 2^255 - 21 = p - 2
}

// powP58 sets v = z^((p-5)/8) = z^(2^252-3) and returns v, reusing Invert's
// addition-chain shape up to the 2^250-1 power and diverging only in the
// final shift-by-2-and-multiply-by-z.
func (v *Element) powP58(z *Element) *Element {
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t Element

	z2.Square(z)
	t.Square(&z2)
	t.Square(&t)
	z9.Multiply(&t, z)
	z11.Multiply(&z9, &z2)
	t.Square(&z11)
	z2_5_0.Multiply(&t, &z9)

	t.Square(&z2_5_0)
	for i := 0; i < 4; i++ {
		t.Square(&t)
	}
	z2_10_0.Multiply(&t, &z2_5_0)

	t.Square(&z2_10_0)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_20_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_20_0)
	for i := 0; i < 19; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_20_0)

	t.Square(&t)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_50_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_50_0)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	z2_100_0.Multiply(&t, &z2_50_0)

	t.Square(&z2_100_0)
	for i := 0; i < 99; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_100_0)

	t.Square(&t)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_50_0) // 2^250 - 2^0

	t.Square(&t)
	t.Square(&t) // 2^252 - 2^2

	return v.Multiply(&t, z) // 2^252 - 3
}
