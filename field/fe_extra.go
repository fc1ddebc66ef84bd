// Copyright (c) 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

// This file contains additional functionality that is not included in the
// upstream crypto/internal/edwards25519/field package: the square-root
// helpers used by point decompression and the Ristretto encoding, all of
// which are built on top of the constant-time core in fe.go and run in
// constant time.

// sqrtM1 is a square root of -1 modulo p.
var sqrtM1 = &Element{l: [10]int64{-32595792, -7943725, 9377950, 3500415,
	12389472, -272473, -25146209, -2005654, 326686, 11406482}}

// SqrtRatio sets r to the non-negative square root of the ratio of u and v,
// following the description of sqrt_ratio_i in the Ristretto specification.
//
// SqrtRatio returns r and a flag indicating whether u/v was square. If u/v
// is square, r = sqrt(u/v). If u/v is nonsquare, r = sqrt(i*u/v), where i is
// a fixed non-square. In either case, r is the canonical (non-negative)
// representative of its class.
func (r *Element) SqrtRatio(u, v *Element) (R *Element, wasSquare int) {
	// Copy the inputs so that the receiver may alias either of them.
	u = new(Element).Set(u)
	v = new(Element).Set(v)

	var a, b Element

	// r = (u*v^3) * (u*v^7)^((p-5)/8)
	v3 := a.Square(v).Multiply(&a, v)
	v7 := b.Square(v3).Multiply(&b, v)
	r.Multiply(u, v7)
	r.powP58(r)
	r.Multiply(r, v3).Multiply(r, u)

	var check Element
	check.Square(r).Multiply(&check, v) // check = r^2 * v

	var uNeg, negUSqrtM1 Element
	uNeg.Negate(u)
	negUSqrtM1.Multiply(&uNeg, sqrtM1)

	correctSignSqrt := check.Equal(u)
	flippedSignSqrt := check.Equal(&uNeg)
	flippedSignSqrtM1 := check.Equal(&negUSqrtM1)

	rPrime := new(Element).Multiply(r, sqrtM1)
	r.Select(rPrime, r, flippedSignSqrt|flippedSignSqrtM1)

	r.Absolute(r)

	return r, correctSignSqrt | flippedSignSqrt
}

// IsSquare returns 1 if v is a square in GF(p), and 0 otherwise.
func (v *Element) IsSquare() int {
	var r Element
	_, wasSquare := r.SqrtRatio(v, feOne)
	return wasSquare
}

// Pow22523 sets v = z^((p-5)/8), and returns v. (p-5)/8 is 2^252-3.
func (v *Element) Pow22523(z *Element) *Element {
	return v.powP58(z)
}
