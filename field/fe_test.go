// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"bytes"
	"encoding/hex"
	"math/big"
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func (v Element) String() string {
	return hex.EncodeToString(v.Bytes())
}

// quickCheckConfig1024 will make each quickcheck test run (1024 * -quickchecks)
// times. The default value of -quickchecks is 100.
var quickCheckConfig1024 = &quick.Config{MaxCountScale: 1 << 10}

func generateFieldElement(rand *mathrand.Rand) Element {
	// Generation strategy: random limb values in the "reasonably reduced"
	// range produced by carry propagation, occasionally negative.
	const maskLow26Bits = (1 << 26) - 1
	const maskLow25Bits = (1 << 25) - 1
	var l [10]int64
	for i := range l {
		if i%2 == 0 {
			l[i] = int64(rand.Uint32()) & maskLow26Bits
		} else {
			l[i] = int64(rand.Uint32()) & maskLow25Bits
		}
		if rand.Intn(2) == 0 {
			l[i] = -l[i]
		}
	}
	return Element{l: l}
}

// weirdLimbs can be combined to generate a range of edge-case field elements.
// 0 and -1 are intentionally more weighted, as they combine well.
var weirdLimbs = []int64{
	0, 0, 0, 0,
	1,
	-1, -1,
	19 - 1,
	19,
	-19,
	1 << 24,
	-(1 << 24),
	(1 << 25) - 1,
	-((1 << 25) - 1),
	(1 << 26) - 1,
	-((1 << 26) - 1),
}

func generateWeirdFieldElement(rand *mathrand.Rand) Element {
	var l [10]int64
	for i := range l {
		l[i] = weirdLimbs[rand.Intn(len(weirdLimbs))]
	}
	return Element{l: l}
}

func (Element) Generate(rand *mathrand.Rand, size int) reflect.Value {
	if rand.Intn(2) == 0 {
		return reflect.ValueOf(generateWeirdFieldElement(rand))
	}
	return reflect.ValueOf(generateFieldElement(rand))
}

// isInBounds returns whether the element is within the expected limb size
// bounds after a multiplication.
func isInBounds(x *Element) bool {
	for i, l := range x.l {
		shift25, shift24 := int64(1)<<25, int64(1)<<24
		bound := int64(1.01 * float64(shift25))
		if i%2 == 1 {
			bound = int64(1.01 * float64(shift24))
		}
		if l > bound || l < -bound {
			return false
		}
	}
	return true
}

var bigP = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

func toBig(v *Element) *big.Int {
	b := v.Bytes()
	// big.Int.SetBytes is big-endian.
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return new(big.Int).SetBytes(b)
}

func fromBig(t *testing.T, n *big.Int) *Element {
	t.Helper()
	var buf [32]byte
	for i, b := range n.Bytes() {
		buf[len(n.Bytes())-i-1] = b
	}
	v, err := new(Element).SetBytes(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestSetBytesRoundTrip(t *testing.T) {
	f1 := func(in [32]byte, fe Element) bool {
		if _, err := fe.SetBytes(in[:]); err != nil {
			return false
		}

		// Mask the most significant bit as it's ignored by SetBytes.
		in[len(in)-1] &= (1 << 7) - 1

		b := fe.Bytes()
		if !bytes.Equal(in[:], b) {
			// The high bit may still have caused a reduction if the value
			// was above p; check through big.Int.
			bigIn := new(big.Int)
			for i := len(in) - 1; i >= 0; i-- {
				bigIn.Lsh(bigIn, 8).Or(bigIn, big.NewInt(int64(in[i])))
			}
			return bigIn.Mod(bigIn, bigP).Cmp(toBig(&fe)) == 0
		}
		return true
	}
	if err := quick.Check(f1, nil); err != nil {
		t.Errorf("failed bytes->FieldElement->bytes round-trip: %v", err)
	}

	f2 := func(fe, r Element) bool {
		if _, err := r.SetBytes(fe.Bytes()); err != nil {
			return false
		}

		// Intentionally not using Equal not to go through Bytes again.
		// Calling reduce because both Generate and SetBytes can produce
		// non-canonical representations.
		fe.reduce()
		r.reduce()
		return fe == r
	}
	if err := quick.Check(f2, nil); err != nil {
		t.Errorf("failed FieldElement->bytes->FieldElement round-trip: %v", err)
	}
}

func TestSetBytesLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		if _, err := new(Element).SetBytes(make([]byte, n)); err == nil {
			t.Errorf("SetBytes accepted a %d-byte input", n)
		}
	}
	if _, err := new(Element).SetWideBytes(make([]byte, 32)); err == nil {
		t.Error("SetWideBytes accepted a 32-byte input")
	}
}

func TestHighBitIgnored(t *testing.T) {
	// The high bit of the encoding is ignored on decoding, per the usual
	// Curve25519 convention.
	var in [32]byte
	in[31] = 0xff
	for i := 0; i < 31; i++ {
		in[i] = byte(i * 7)
	}
	masked := in
	masked[31] &= 0x7f

	a, _ := new(Element).SetBytes(in[:])
	b, _ := new(Element).SetBytes(masked[:])
	if a.Equal(b) != 1 {
		t.Error("SetBytes does not ignore the high bit")
	}
}

func TestAddSubNegAgainstBig(t *testing.T) {
	f := func(a, b Element) bool {
		bigA, bigB := toBig(&a), toBig(&b)

		var sum, diff, neg Element
		sum.Add(&a, &b)
		diff.Subtract(&a, &b)
		neg.Negate(&a)

		wantSum := new(big.Int).Add(bigA, bigB)
		wantSum.Mod(wantSum, bigP)
		wantDiff := new(big.Int).Sub(bigA, bigB)
		wantDiff.Mod(wantDiff, bigP)
		wantNeg := new(big.Int).Neg(bigA)
		wantNeg.Mod(wantNeg, bigP)

		return toBig(&sum).Cmp(wantSum) == 0 &&
			toBig(&diff).Cmp(wantDiff) == 0 &&
			toBig(&neg).Cmp(wantNeg) == 0
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMultiplyAgainstBig(t *testing.T) {
	f := func(a, b Element) bool {
		bigA, bigB := toBig(&a), toBig(&b)

		var prod Element
		prod.Multiply(&a, &b)

		want := new(big.Int).Mul(bigA, bigB)
		want.Mod(want, bigP)

		return toBig(&prod).Cmp(want) == 0 && isInBounds(&prod)
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMulDistributesOverAdd(t *testing.T) {
	mulDistributesOverAdd := func(x, y, z Element) bool {
		// Compute t1 = (x+y)*z
		t1 := new(Element)
		t1.Add(&x, &y)
		t1.Multiply(t1, &z)

		// Compute t2 = x*z + y*z
		t2 := new(Element)
		t3 := new(Element)
		t2.Multiply(&x, &z)
		t3.Multiply(&y, &z)
		t2.Add(t2, t3)

		return t1.Equal(t2) == 1 && isInBounds(t1) && isInBounds(t2)
	}

	if err := quick.Check(mulDistributesOverAdd, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMulAssociative(t *testing.T) {
	f := func(x, y, z Element) bool {
		t1 := new(Element).Multiply(&x, &y)
		t1.Multiply(t1, &z)
		t2 := new(Element).Multiply(&y, &z)
		t2.Multiply(&x, t2)
		return t1.Equal(t2) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSquare(t *testing.T) {
	f := func(x Element) bool {
		sq := new(Element).Square(&x)
		mul := new(Element).Multiply(&x, &x)
		return sq.Equal(mul) == 1 && isInBounds(sq)
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSquareAndDouble(t *testing.T) {
	f := func(x Element) bool {
		sd := new(Element).SquareAndDouble(&x)
		sq := new(Element).Square(&x)
		sum := new(Element).Add(sq, sq)
		return sd.Equal(sum) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestInvert(t *testing.T) {
	x := Element{l: [10]int64{1, 1, 0, 0, 0, 0, 0, 0, 0, 0}}
	one := Element{l: [10]int64{1}}
	var xinv, r Element

	xinv.Invert(&x)
	r.Multiply(&x, &xinv)
	r.reduce()

	if one != r {
		t.Errorf("inversion identity failed, got: %x", r)
	}

	var bytes [32]byte

	_, err := x.SetBytes(bytes[:])
	if err != nil {
		t.Fatal(err)
	}
	xinv.Invert(&x)
	xinv.reduce()

	zero := Element{}
	if xinv != zero {
		t.Errorf("inverting zero did not return zero")
	}

	f := func(x Element) bool {
		if x.IsZero() == 1 {
			return true
		}
		var xinv, r Element
		xinv.Invert(&x)
		r.Multiply(&x, &xinv)
		return r.Equal(&one) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSelectSwap(t *testing.T) {
	a := generateFieldElement(mathrand.New(mathrand.NewSource(1)))
	b := generateFieldElement(mathrand.New(mathrand.NewSource(2)))

	var c, d Element

	c.Select(&a, &b, 1)
	d.Select(&a, &b, 0)

	if c.Equal(&a) != 1 || d.Equal(&b) != 1 {
		t.Errorf("Select failed")
	}

	c.Swap(&d, 0)

	if c.Equal(&a) != 1 || d.Equal(&b) != 1 {
		t.Errorf("Swap failed")
	}

	c.Swap(&d, 1)

	if c.Equal(&b) != 1 || d.Equal(&a) != 1 {
		t.Errorf("Swap failed")
	}
}

func TestCondNegateAbsolute(t *testing.T) {
	f := func(x Element) bool {
		var neg, abs Element
		neg.CondNegate(&x, 0)
		if neg.Equal(&x) != 1 {
			return false
		}
		neg.CondNegate(&x, 1)
		sum := new(Element).Add(&neg, &x)
		if sum.IsZero() != 1 {
			return false
		}
		abs.Absolute(&x)
		return abs.IsNegative() == 0 && (abs.Equal(&x) == 1 || abs.Equal(&neg) == 1)
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSqrtRatio(t *testing.T) {
	// From draft-hdevalence-cfrg-ristretto-00, Appendix A.4.
	type test struct {
		u, v      string
		wasSquare int
		r         string
	}
	var tests = []test{
		// If u is 0, the function is defined to return (0, TRUE), even if v
		// is zero. Note that where used in this package, the denominator v
		// is never zero.
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000000",
			1, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// 0/1 == 0²
		{
			"0000000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			1, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// If u is non-zero and v is zero, defined to return (0, FALSE).
		{
			"0100000000000000000000000000000000000000000000000000000000000000",
			"0000000000000000000000000000000000000000000000000000000000000000",
			0, "0000000000000000000000000000000000000000000000000000000000000000",
		},
		// 2/1 is not square in this field.
		{
			"0200000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			0, "3c5ff1b5d8e4113b871bd052f9e7bcd0582804c266ffb2d4f4203eb07fdb7c54",
		},
		// 4/1 == 2²
		{
			"0400000000000000000000000000000000000000000000000000000000000000",
			"0100000000000000000000000000000000000000000000000000000000000000",
			1, "0200000000000000000000000000000000000000000000000000000000000000",
		},
		// 1/4 == (2^-1)² == (2^(p-2))² per Euler's theorem
		{
			"0100000000000000000000000000000000000000000000000000000000000000",
			"0400000000000000000000000000000000000000000000000000000000000000",
			1, "f6ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff3f",
		},
	}

	for i, tt := range tests {
		u, _ := new(Element).SetBytes(decodeHex(tt.u))
		v, _ := new(Element).SetBytes(decodeHex(tt.v))
		want, _ := new(Element).SetBytes(decodeHex(tt.r))
		got, wasSquare := new(Element).SqrtRatio(u, v)
		if got.Equal(want) != 1 || wasSquare != tt.wasSquare {
			t.Errorf("%d: got (%v, %v), want (%v, %v)", i, got, wasSquare, want, tt.wasSquare)
		}
	}
}

func TestSqrtRatioProperties(t *testing.T) {
	f := func(u, v Element) bool {
		r, wasSquare := new(Element).SqrtRatio(&u, &v)
		if r.IsNegative() == 1 {
			return false
		}

		// check = v * r²
		check := new(Element).Square(r)
		check.Multiply(check, &v)

		if u.IsZero() == 1 {
			return wasSquare == 1 && r.IsZero() == 1
		}
		if v.IsZero() == 1 {
			return wasSquare == 0 && r.IsZero() == 1
		}

		if wasSquare == 1 {
			// v*r² == u
			return check.Equal(&u) == 1
		}
		// The fallback root satisfies v*r² == i*u.
		iu := new(Element).Multiply(&u, sqrtM1)
		return check.Equal(iu) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestIsNegative(t *testing.T) {
	f := func(x Element) bool {
		b := x.Bytes()
		return x.IsNegative() == int(b[0]&1)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func decodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
