// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/curve25519group/curve25519group/field"
)

var B = NewGeneratorPoint()
var I = NewIdentityPoint()

func checkOnCurve(t *testing.T, points ...*EdwardsPoint) {
	t.Helper()
	for i, p := range points {
		var XX, YY, ZZ, ZZZZ field.Element
		XX.Square(&p.x)
		YY.Square(&p.y)
		ZZ.Square(&p.z)
		ZZZZ.Square(&ZZ)
		// -x² + y² = 1 + dx²y²
		// -(X/Z)² + (Y/Z)² = 1 + d(X/Z)²(Y/Z)²
		// -X²Z² + Y²Z² = Z⁴ + dX²Y²
		var lhs, rhs field.Element
		lhs.Subtract(&YY, &XX).Multiply(&lhs, &ZZ)
		rhs.Multiply(d, &XX).Multiply(&rhs, &YY).Add(&rhs, &ZZZZ)
		if lhs.Equal(&rhs) != 1 {
			t.Errorf("X, Y, and Z do not specify a point on the curve\nX = %v\nY = %v\nZ = %v", p.x, p.y, p.z)
		}
		// xy = T/Z
		lhs.Multiply(&p.x, &p.y)
		rhs.Multiply(&p.z, &p.t)
		if lhs.Equal(&rhs) != 1 {
			t.Errorf("point %d is not valid\nX = %v\nY = %v\nZ = %v", i, p.x, p.y, p.z)
		}
	}
}

func TestGenerator(t *testing.T) {
	// These are the coordinates of B from RFC 8032, Section 5.1, converted to
	// little endian hex.
	x := "1ad5258f602d56c9b2a7259560c72c695cdcd6fd31e2a4c0fe536ecdd3366921"
	y := "5866666666666666666666666666666666666666666666666666666666666666"
	if got := hex.EncodeToString(B.x.Bytes()); got != x {
		t.Errorf("wrong B.x: got %s, expected %s", got, x)
	}
	if got := hex.EncodeToString(B.y.Bytes()); got != y {
		t.Errorf("wrong B.y: got %s, expected %s", got, y)
	}
	if B.z.Equal(new(field.Element).One()) != 1 {
		t.Errorf("wrong B.z: got %v, expected 1", B.z)
	}
	checkOnCurve(t, B)
}

func TestGeneratorRoundTrip(t *testing.T) {
	want := "5866666666666666666666666666666666666666666666666666666666666666"
	c, err := new(CompressedEdwardsY).SetBytes(decodeHex(want))
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.Decompress()
	if err != nil {
		t.Fatal(err)
	}
	checkOnCurve(t, p)
	if got := p.Compress().String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if p.Equal(B) != 1 {
		t.Errorf("decompressed basepoint is not B")
	}
}

func TestAddSubNegOnBasePoint(t *testing.T) {
	checkLhs, checkRhs := &EdwardsPoint{}, &EdwardsPoint{}

	checkLhs.Add(B, B)
	tmpP2 := new(projP2).FromP3(B)
	tmpP1xP1 := new(projP1xP1).Double(tmpP2)
	checkRhs.fromP1xP1(tmpP1xP1)
	if checkLhs.Equal(checkRhs) != 1 {
		t.Error("B + B != [2]B")
	}
	if checkLhs.Equal(new(EdwardsPoint).Double(B)) != 1 {
		t.Error("B + B != B.Double()")
	}
	checkOnCurve(t, checkLhs, checkRhs)

	checkLhs.Subtract(B, B)
	Bneg := new(EdwardsPoint).Negate(B)
	checkRhs.Add(B, Bneg)
	if checkLhs.Equal(checkRhs) != 1 {
		t.Error("B - B != B + (-B)")
	}
	if checkLhs.Equal(I) != 1 {
		t.Error("B - B != 0")
	}
	if checkRhs.Equal(I) != 1 {
		t.Error("B + (-B) != 0")
	}
	checkOnCurve(t, checkLhs, checkRhs, Bneg)
}

func TestDoubleVectors(t *testing.T) {
	// 2*B and 16*B, from the curve25519-dalek test suite.
	two := new(EdwardsPoint).Double(B)
	if got := two.Compress().String(); got != "c9a3f86aae465f0e56513864510f3997561fa2c9e85ea21dc2292309f3cd6022" {
		t.Errorf("wrong 2*B: %s", got)
	}

	sixteen := new(EdwardsPoint).MultByPow2(B, 4)
	if got := sixteen.Compress().String(); got != "eb2767c137ab7ad8279c078eff116ab0786ead3a2e0f989f72c37f82f2969670" {
		t.Errorf("wrong 16*B: %s", got)
	}
	checkOnCurve(t, two, sixteen)
}

func TestAddCommutativeAssociative(t *testing.T) {
	// A handful of multiples of B make a good sample of subgroup points.
	points := []*EdwardsPoint{B}
	p := new(EdwardsPoint).Set(B)
	for i := 0; i < 4; i++ {
		next := new(EdwardsPoint).Double(p)
		next.Add(next, B)
		points = append(points, next)
		p = next
	}

	for _, P := range points {
		for _, Q := range points {
			pq := new(EdwardsPoint).Add(P, Q)
			qp := new(EdwardsPoint).Add(Q, P)
			if pq.Equal(qp) != 1 {
				t.Error("addition is not commutative")
			}
			for _, R := range points {
				pqR := new(EdwardsPoint).Add(pq, R)
				qr := new(EdwardsPoint).Add(Q, R)
				pQr := new(EdwardsPoint).Add(P, qr)
				if pqR.Equal(pQr) != 1 {
					t.Error("addition is not associative")
				}
			}
		}
	}
}

func TestInvalidEncodings(t *testing.T) {
	// An invalid point, x² = (y²-1)/(dy²+1) has no solution.
	invalid := "efffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	p := NewGeneratorPoint()
	if out, err := p.SetBytes(decodeHex(invalid)); err == nil {
		t.Error("expected error for invalid point")
	} else if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	} else if out != nil {
		t.Error("SetBytes did not return nil on an invalid encoding")
	}
	if p.Equal(B) != 1 {
		t.Error("the Point was modified while decoding an invalid encoding")
	}
	checkOnCurve(t, p)

	// Short and long inputs are rejected as invalid representations.
	for _, n := range []int{0, 31, 33} {
		if _, err := p.SetBytes(make([]byte, n)); !errors.Is(err, ErrInvalidRepresentation) {
			t.Errorf("expected ErrInvalidRepresentation for %d bytes, got %v", n, err)
		}
	}
}

func TestNonCanonicalPoints(t *testing.T) {
	type test struct {
		name     string
		encoding string
	}
	tests := []test{
		// Points with x = 0 and the sign bit set. With x = 0 the curve
		// equation gives y² = 1, so y = 1 or -1; the sign bit is rejected
		// because -0 is not canonical.
		{
			"y=1,sign-",
			"0100000000000000000000000000000000000000000000000000000000000080",
		},
		{
			"y=p+1,sign-",
			"eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := new(EdwardsPoint).SetBytes(decodeHex(tt.encoding)); err == nil {
				t.Error("expected an error for a non-canonical x = -0 encoding")
			}
		})
	}
}

func TestNegateFlipsSignBit(t *testing.T) {
	// Flipping bit 255 of the basepoint encoding decodes to -B.
	enc := decodeHex("5866666666666666666666666666666666666666666666666666666666666666")
	enc[31] ^= 0x80
	p, err := new(EdwardsPoint).SetBytes(enc)
	if err != nil {
		t.Fatal(err)
	}
	negB := new(EdwardsPoint).Negate(B)
	if p.Equal(negB) != 1 {
		t.Error("flipping the sign bit did not negate the point")
	}
	// X and T are negated, Y and Z unchanged.
	if negB.y.Equal(&B.y) != 1 || negB.z.Equal(&B.z) != 1 {
		t.Error("Negate modified Y or Z")
	}
	var sum EdwardsPoint
	if sum.Add(p, B).Equal(I) != 1 {
		t.Error("-B + B != 0")
	}
}

// The eight 8-torsion points, from the curve25519-dalek test suite. The
// first entry is the identity.
var eightTorsionEncodings = []string{
	"0100000000000000000000000000000000000000000000000000000000000000",
	"c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a",
	"0000000000000000000000000000000000000000000000000000000000000080",
	"26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05",
	"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
	"26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc85",
	"0000000000000000000000000000000000000000000000000000000000000000",
	"c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac03fa",
}

func eightTorsionPoints(t *testing.T) []*EdwardsPoint {
	t.Helper()
	var points []*EdwardsPoint
	for _, enc := range eightTorsionEncodings {
		p, err := new(EdwardsPoint).SetBytes(decodeHex(enc))
		if err != nil {
			t.Fatal(err)
		}
		points = append(points, p)
	}
	return points
}

func TestSmallOrder(t *testing.T) {
	for i, p := range eightTorsionPoints(t) {
		if !p.IsSmallOrder() {
			t.Errorf("8-torsion point %d not detected as small order", i)
		}
		var eight EdwardsPoint
		if !eight.MultByCofactor(p).IsIdentity() {
			t.Errorf("8 * torsion point %d is not the identity", i)
		}
	}
	if B.IsSmallOrder() {
		t.Error("the basepoint is not of small order")
	}
}

func TestTorsionFree(t *testing.T) {
	if !B.IsTorsionFree() {
		t.Error("B is torsion-free")
	}
	sum := new(EdwardsPoint).Add(B, I)
	if !sum.IsTorsionFree() {
		t.Error("B + identity is torsion-free")
	}
	for i, torsion := range eightTorsionPoints(t) {
		if torsion.IsIdentity() {
			continue
		}
		bad := new(EdwardsPoint).Add(B, torsion)
		if bad.IsTorsionFree() {
			t.Errorf("B + torsion point %d must not be torsion-free", i)
		}
	}
}

func TestIdentity(t *testing.T) {
	if !I.IsIdentity() {
		t.Error("the identity is the identity")
	}
	if B.IsIdentity() {
		t.Error("B is not the identity")
	}
	if got := I.Compress().String(); got != "0100000000000000000000000000000000000000000000000000000000000000" {
		t.Errorf("wrong identity encoding: %s", got)
	}
}

func TestCompressedEdwardsYCodec(t *testing.T) {
	c := B.Compress()
	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var c2 CompressedEdwardsY
	if err := c2.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if c.Equal(&c2) != 1 {
		t.Error("round-trip through MarshalBinary changed the encoding")
	}
	if err := c2.UnmarshalBinary(data[:16]); err == nil {
		t.Error("UnmarshalBinary accepted a short encoding")
	}
}
