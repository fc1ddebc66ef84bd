// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

// ScalarBaseMult sets v = x * B, where B is the canonical generator, and
// returns v.
//
// The scalar multiplication is done in constant time.
func (v *EdwardsPoint) ScalarBaseMult(x *Scalar) *EdwardsPoint {
	return v.Set(basepointTable().Mul(x))
}

// ScalarMult sets v = x * q, and returns v. v and q may alias.
//
// The scalar multiplication is done in constant time.
func (v *EdwardsPoint) ScalarMult(x *Scalar, q *EdwardsPoint) *EdwardsPoint {
	var table projLookupTable
	table.FromP3(q)

	// Write x = sum(x_i * 16^i)
	// so  x*Q = sum( Q*x_i*16^i )
	//         = Q*x_0 + 16*(Q*x_1 + 16*( ... + Q*x_63) ... )
	//           <------compute inside out---------
	//
	// We use the lookup table to get the x_i*Q values
	// and do four doublings to compute 16*Q
	digits := x.signedRadix16()

	// Unwrap first loop iteration to save computing 16*identity
	multiple := &projCached{}
	tmp1 := &projP1xP1{}
	tmp2 := &projP2{}
	table.SelectInto(multiple, digits[63])

	v.Set(NewIdentityPoint())
	tmp1.Add(v, multiple) // tmp1 = x_63*Q in P1xP1 coords
	for i := 62; i >= 0; i-- {
		tmp2.FromP1xP1(tmp1) // tmp2 =    (prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 =  2*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  2*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 =  4*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  4*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 =  8*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  8*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 = 16*(prev) in P1xP1 coords
		v.fromP1xP1(tmp1)    //    v = 16*(prev) in P3 coords
		table.SelectInto(multiple, digits[i])
		tmp1.Add(v, multiple) // tmp1 = x_i*Q + 16*(prev) in P1xP1 coords
	}
	return v.fromP1xP1(tmp1)
}

// VarTimeDoubleScalarBaseMult sets v = a * A + b * B, where B is the
// canonical generator, and returns v.
//
// Execution time depends on the inputs. This entry point must only be used
// with public scalars and points.
func (v *EdwardsPoint) VarTimeDoubleScalarBaseMult(a *Scalar, A *EdwardsPoint, b *Scalar) *EdwardsPoint {
	// Similarly to the single variable-base approach, we compute
	// digits and use them with a lookup table.  However, because
	// we are allowed to do variable-time operations, we don't
	// need constant-time lookups or constant-time digit
	// computations.
	//
	// So we use a non-adjacent form of some width w instead of
	// radix-16.  This is like a binary representation (one digit
	// for each binary place) but we allow the digits to grow in
	// magnitude up to 2^{w-1} so that the nonzero digits are as
	// sparse as possible.  Intuitively, this "condenses" the
	// "mass" of the scalar onto sparse coefficients (meaning
	// fewer additions).

	var aTable nafLookupTable
	aTable.FromP3(A)
	bTable := basepointNafTable()

	// Because the basepoint is fixed, we can use a wider NAF
	// corresponding to a bigger table when it is convenient, but both
	// tables here hold the odd multiples below 16, so width 5 throughout.
	aNaf := a.nonAdjacentForm(5)
	bNaf := b.nonAdjacentForm(5)

	// Find the first nonzero coefficient.
	i := 255
	for j := i; j >= 0; j-- {
		if aNaf[j] != 0 || bNaf[j] != 0 {
			i = j
			break
		}
	}

	multA := &projCached{}
	multB := &affineCached{}
	tmp1 := &projP1xP1{}
	tmp2 := &projP2{}
	tmp2.Zero()

	// Move from high to low bits, doubling the accumulator
	// at each iteration and checking whether there is a nonzero
	// coefficient to look up a multiple of.
	for ; i >= 0; i-- {
		tmp1.Double(tmp2)

		// Only update v if we have a nonzero coeff to add in.
		if aNaf[i] > 0 {
			v.fromP1xP1(tmp1)
			aTable.SelectInto(multA, aNaf[i])
			tmp1.Add(v, multA)
		} else if aNaf[i] < 0 {
			v.fromP1xP1(tmp1)
			aTable.SelectInto(multA, -aNaf[i])
			tmp1.Sub(v, multA)
		}

		if bNaf[i] > 0 {
			v.fromP1xP1(tmp1)
			bTable.SelectInto(multB, bNaf[i])
			tmp1.AddAffine(v, multB)
		} else if bNaf[i] < 0 {
			v.fromP1xP1(tmp1)
			bTable.SelectInto(multB, -bNaf[i])
			tmp1.SubAffine(v, multB)
		}

		tmp2.FromP1xP1(tmp1)
	}

	return v.fromP2(tmp2)
}

// MultByPow2 sets v = 2^k * p by k repeated doublings, and returns v. It
// panics if k is negative.
func (v *EdwardsPoint) MultByPow2(p *EdwardsPoint, k int) *EdwardsPoint {
	if k < 0 {
		panic("curve25519group: called MultByPow2 with negative exponent")
	}
	if k == 0 {
		return v.Set(p)
	}
	var result projP1xP1
	var pp projP2
	pp.FromP3(p)
	for i := 0; i < k-1; i++ {
		result.Double(&pp)
		pp.FromP1xP1(&result)
	}
	// The last doubling goes directly to extended coordinates.
	result.Double(&pp)
	return v.fromP1xP1(&result)
}

// MultByCofactor sets v = 8 * p, and returns v.
func (v *EdwardsPoint) MultByCofactor(p *EdwardsPoint) *EdwardsPoint {
	return v.MultByPow2(p, 3)
}

// IsIdentity returns whether v is the group identity.
func (v *EdwardsPoint) IsIdentity() bool {
	return v.Equal(NewIdentityPoint()) == 1
}

// IsSmallOrder returns whether v is in the curve's 8-torsion subgroup, that
// is, whether 8*v is the identity.
func (v *EdwardsPoint) IsSmallOrder() bool {
	var p EdwardsPoint
	return p.MultByCofactor(v).IsIdentity()
}

// IsTorsionFree returns whether v is in the prime-order subgroup generated
// by the basepoint, that is, whether l*v is the identity.
func (v *EdwardsPoint) IsTorsionFree() bool {
	var p EdwardsPoint
	return p.multByPrimeOrder(v).IsIdentity()
}

// multByPrimeOrder sets v = l * p, where l is the order of the scalar
// field, and returns v.
func (v *EdwardsPoint) multByPrimeOrder(p *EdwardsPoint) *EdwardsPoint {
	// The sequence of 34 multiplications and 248 squarings is derived from the
	// following addition chain generated with github.com/mmcloughlin/addchain v0.4.0.
	//
	//	_10       = 2*1
	//	_11       = 1 + _10
	//	_100      = 1 + _11
	//	_110      = _10 + _100
	//	_1000     = _10 + _110
	//	_1011     = _11 + _1000
	//	_10000    = 2*_1000
	//	_100000   = 2*_10000
	//	_100110   = _110 + _100000
	//	_1000000  = 2*_100000
	//	_1010000  = _10000 + _1000000
	//	_1010011  = _11 + _1010000
	//	_1100011  = _10000 + _1010011
	//	_1100111  = _100 + _1100011
	//	_1101011  = _100 + _1100111
	//	_10010011 = _1000000 + _1010011
	//	_10010111 = _100 + _10010011
	//	_10111101 = _100110 + _10010111
	//	_11010011 = _1000000 + _10010011
	//	_11100111 = _1010000 + _10010111
	//	_11101101 = _110 + _11100111
	//	_11110101 = _1000 + _11101101
	//	i160      = ((_1011 + _11110101) << 126 + _1010011) << 9 + _10
	//	i179      = ((_11110101 + i160) << 7 + _1100111) << 9 + _11110101
	//	i209      = ((i179 << 11 + _10111101) << 8 + _11100111) << 9
	//	i232      = ((_1101011 + i209) << 6 + _1011) << 14 + _10010011
	//	i263      = ((i232 << 10 + _1100011) << 9 + _10010111) << 10
	//	return      ((_11110101 + i263) << 8 + _11010011) << 8 + _11101101
	var t0, t1, t2, t3, t4, t5, t6, t7, t8, t9, tA, tB, tC, q = new(EdwardsPoint),
		new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint),
		new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint),
		new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint), new(EdwardsPoint),
		new(EdwardsPoint).Set(p)

	tA.Add(q, q)
	t4.Add(q, tA)
	t2.Add(q, t4)
	q.Add(tA, t2)
	t1.Add(tA, q)
	t5.Add(t4, t1)
	t3.Add(t1, t1)
	t0.Add(t3, t3)
	t8.Add(q, t0)
	t0.Add(t0, t0)
	t7.Add(t3, t0)
	tB.Add(t4, t7)
	t3.Add(t3, tB)
	t9.Add(t2, t3)
	t6.Add(t2, t9)
	t4.Add(t0, tB)
	t2.Add(t2, t4)
	t8.Add(t8, t2)
	t0.Add(t0, t4)
	t7.Add(t7, t2)
	q.Add(q, t7)
	t1.Add(t1, q)
	tC.Add(t5, t1)
	for s := 0; s < 126; s++ {
		tC.Add(tC, tC)
	}
	tB.Add(tB, tC)
	for s := 0; s < 9; s++ {
		tB.Add(tB, tB)
	}
	tA.Add(tA, tB)
	tA.Add(t1, tA)
	for s := 0; s < 7; s++ {
		tA.Add(tA, tA)
	}
	t9.Add(t9, tA)
	for s := 0; s < 9; s++ {
		t9.Add(t9, t9)
	}
	t9.Add(t1, t9)
	for s := 0; s < 11; s++ {
		t9.Add(t9, t9)
	}
	t8.Add(t8, t9)
	for s := 0; s < 8; s++ {
		t8.Add(t8, t8)
	}
	t7.Add(t7, t8)
	for s := 0; s < 9; s++ {
		t7.Add(t7, t7)
	}
	t6.Add(t6, t7)
	for s := 0; s < 6; s++ {
		t6.Add(t6, t6)
	}
	t5.Add(t5, t6)
	for s := 0; s < 14; s++ {
		t5.Add(t5, t5)
	}
	t4.Add(t4, t5)
	for s := 0; s < 10; s++ {
		t4.Add(t4, t4)
	}
	t3.Add(t3, t4)
	for s := 0; s < 9; s++ {
		t3.Add(t3, t3)
	}
	t2.Add(t2, t3)
	for s := 0; s < 10; s++ {
		t2.Add(t2, t2)
	}
	t1.Add(t1, t2)
	for s := 0; s < 8; s++ {
		t1.Add(t1, t1)
	}
	t0.Add(t0, t1)
	for s := 0; s < 8; s++ {
		t0.Add(t0, t0)
	}
	return v.Add(q, t0)
}
