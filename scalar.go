// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/curve25519group/curve25519group/ctequal"
)

// A Scalar is an integer modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// the prime order of the Curve25519 subgroup, held as a 32-byte little-endian
// encoding with the top bit always zero.
//
// The zero value is a valid zero scalar. The raw encoding is only guaranteed
// to be below l when it was produced by one of the reduction entry points
// (SetBytesModOrder, SetUniformBytes, SetCanonicalBytes) or by the arithmetic
// methods; SetBits stores unreduced bit patterns for callers that manage the
// range themselves.
type Scalar struct {
	s [32]byte
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

// SetCanonicalBytes sets s = x, where x is a 32-byte little-endian encoding
// of s, and returns s. If x is not a canonical encoding of s (the top bit is
// set, or the value is not below the group order), SetCanonicalBytes returns
// an error and the receiver is unchanged.
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: scalar must be 32 bytes", ErrInvalidRepresentation)
	}
	if x[31] > 0x7f {
		return nil, fmt.Errorf("%w: scalar has high bit set", ErrInvalidRepresentation)
	}
	if !isReduced(x) {
		return nil, fmt.Errorf("%w: non-canonical scalar", ErrInvalidEncoding)
	}
	copy(s.s[:], x)
	return s, nil
}

// scalarOrder is the group order l in little-endian 64-bit words.
var scalarOrder = [4]uint64{0x5812631a5cf5d3ed, 0x14def9dea2f79cd6, 0, 0x1000000000000000}

// isReduced returns whether the 32-byte little-endian value is below the
// group order. This comparison is on an encoding, not a secret, so it may
// run in variable time.
func isReduced(s []byte) bool {
	for i := 3; ; i-- {
		v := binary.LittleEndian.Uint64(s[i*8:])
		if v > scalarOrder[i] {
			return false
		} else if v < scalarOrder[i] {
			return true
		} else if i == 0 {
			return false
		}
	}
}

// SetBytesModOrder sets s to the 32-byte little-endian value x reduced
// modulo the group order, and returns s. It returns an error, leaving s
// unchanged, if x is not 32 bytes.
func (s *Scalar) SetBytesModOrder(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: scalar must be 32 bytes", ErrInvalidRepresentation)
	}
	var us unpackedScalar
	us.fromBytes(x)
	us.montgomeryMul(&us, &scR) // (x * R) / R = x mod l
	us.toBytes(s.s[:])
	return s, nil
}

// SetUniformBytes sets s to an uniformly distributed value given 64
// uniformly distributed random bytes, reducing the 512-bit little-endian
// value modulo the group order. It returns an error, leaving s unchanged,
// if x is not 64 bytes.
func (s *Scalar) SetUniformBytes(x []byte) (*Scalar, error) {
	if len(x) != 64 {
		return nil, fmt.Errorf("%w: uniform scalar input must be 64 bytes", ErrInvalidRepresentation)
	}
	var us unpackedScalar
	us.fromWideBytes(x)
	us.toBytes(s.s[:])
	return s, nil
}

// SetBits sets s to the 32-byte bit pattern x with the high bit forcibly
// cleared, without reducing modulo the group order, and returns s. It
// returns an error, leaving s unchanged, if x is not 32 bytes.
//
// The result is not necessarily below the group order; it is intended for
// callers implementing clamped or otherwise pre-ranged scalars.
func (s *Scalar) SetBits(x []byte) (*Scalar, error) {
	if len(x) != 32 {
		return nil, fmt.Errorf("%w: scalar must be 32 bytes", ErrInvalidRepresentation)
	}
	copy(s.s[:], x)
	s.s[31] &= 0x7f
	return s, nil
}

// Bytes returns a copy of the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := make([]byte, 32)
	copy(b, s.s[:])
	return b
}

// Equal returns 1 if s and t are equal, and 0 otherwise. It runs in
// constant time.
func (s *Scalar) Equal(t *Scalar) int {
	return ctequal.Bytes(s.s[:], t.s[:])
}

// String returns the lowercase hex encoding of s.
func (s *Scalar) String() string {
	return hex.EncodeToString(s.s[:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The stored wire
// form is re-validated: it must be 32 bytes with the top bit clear.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("%w: scalar must be 32 bytes", ErrInvalidRepresentation)
	}
	if data[31] > 0x7f {
		return fmt.Errorf("%w: scalar has high bit set", ErrInvalidRepresentation)
	}
	copy(s.s[:], data)
	return nil
}

// Add sets s = x + y mod l, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	var ux, uy unpackedScalar
	ux.fromBytes(x.s[:])
	uy.fromBytes(y.s[:])
	// The unpacked addition requires both inputs below l; x and y are not
	// guaranteed reduced (SetBits can store up to 2^255-1), so reduce both
	// on the way in.
	ux.montgomeryMul(&ux, &scR)
	uy.montgomeryMul(&uy, &scR)
	ux.add(&ux, &uy)
	ux.toBytes(s.s[:])
	return s
}

// Subtract sets s = x - y mod l, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	var ux, uy unpackedScalar
	ux.fromBytes(x.s[:])
	uy.fromBytes(y.s[:])
	ux.montgomeryMul(&ux, &scR)
	uy.montgomeryMul(&uy, &scR)
	ux.sub(&ux, &uy)
	ux.toBytes(s.s[:])
	return s
}

// Negate sets s = -x mod l, and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	return s.Subtract(NewScalar(), x)
}

// Multiply sets s = x * y mod l, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	var ux, uy unpackedScalar
	ux.fromBytes(x.s[:])
	uy.fromBytes(y.s[:])
	// ab/R, then (ab/R)*R²/R = ab.
	ux.montgomeryMul(&ux, &uy)
	ux.montgomeryMul(&ux, &scRR)
	ux.toBytes(s.s[:])
	return s
}

// MultiplyAdd sets s = x * y + z mod l, and returns s. It is bit-exact with
// s.Multiply(x, y) followed by s.Add(s, z).
func (s *Scalar) MultiplyAdd(x, y, z *Scalar) *Scalar {
	var xy Scalar
	xy.Multiply(x, y)
	return s.Add(&xy, z)
}

// An unpackedScalar is the nine-limb radix-2^29 form of a Scalar used for
// Montgomery-form modular arithmetic: the first eight limbs hold 29 bits
// each and the last holds the top 24 bits.
type unpackedScalar [9]uint32

const scalarMask = (1 << 29) - 1

// scL is the group order l in radix-2^29.
var scL = unpackedScalar{
	0x1cf5d3ed, 0x009318d2, 0x1de73596, 0x1df3bd45,
	0x0000014d, 0x00000000, 0x00000000, 0x00000000, 0x00100000,
}

// scLFactor = -l^(-1) mod 2^29, the Montgomery reduction factor.
const scLFactor = 0x12547e1b

// scR = 2^261 mod l, the Montgomery radix for nine 29-bit limbs.
var scR = unpackedScalar{
	0x114df9ed, 0x1a617303, 0x0f7c098c, 0x16793167,
	0x1ffd656e, 0x1fffffff, 0x1fffffff, 0x1fffffff, 0x000fffff,
}

// scRR = R² mod l, used to convert out of Montgomery form and to fold in
// the high half of wide inputs.
var scRR = unpackedScalar{
	0x0b5f9d12, 0x1e141b17, 0x158d7f3d, 0x143f3757,
	0x1972d781, 0x042feb7c, 0x1ceec73d, 0x1e184d1e, 0x0005046d,
}

// fromBytes unpacks a 32-byte little-endian value (all 256 bits, not
// necessarily below l) into nine limbs.
func (s *unpackedScalar) fromBytes(x []byte) *unpackedScalar {
	var words [8]uint32
	for i := 0; i < 8; i++ {
		words[i] = binary.LittleEndian.Uint32(x[i*4:])
	}

	s[0] = words[0] & scalarMask
	s[1] = ((words[0] >> 29) | (words[1] << 3)) & scalarMask
	s[2] = ((words[1] >> 26) | (words[2] << 6)) & scalarMask
	s[3] = ((words[2] >> 23) | (words[3] << 9)) & scalarMask
	s[4] = ((words[3] >> 20) | (words[4] << 12)) & scalarMask
	s[5] = ((words[4] >> 17) | (words[5] << 15)) & scalarMask
	s[6] = ((words[5] >> 14) | (words[6] << 18)) & scalarMask
	s[7] = ((words[6] >> 11) | (words[7] << 21)) & scalarMask
	s[8] = words[7] >> 8
	return s
}

// fromWideBytes sets s to the 64-byte little-endian value x reduced modulo
// l. The low 261 bits are brought out of Montgomery form with R and the
// high 251 with RR, so that lo + hi*2^261 = x mod l.
func (s *unpackedScalar) fromWideBytes(x []byte) *unpackedScalar {
	var words [16]uint32
	for i := 0; i < 16; i++ {
		words[i] = binary.LittleEndian.Uint32(x[i*4:])
	}

	var lo, hi unpackedScalar
	for i := 0; i < 9; i++ {
		bit := 29 * i
		w := words[bit/32] >> (bit % 32)
		if bit%32 > 3 {
			w |= words[bit/32+1] << (32 - bit%32)
		}
		lo[i] = w & scalarMask
	}
	for i := 0; i < 9; i++ {
		bit := 261 + 29*i
		w := words[bit/32] >> (bit % 32)
		if bit%32 > 3 && bit/32+1 < 16 {
			w |= words[bit/32+1] << (32 - bit%32)
		}
		hi[i] = w & scalarMask
	}

	lo.montgomeryMul(&lo, &scR)  // (lo * R) / R = lo
	hi.montgomeryMul(&hi, &scRR) // (hi * R²) / R = hi * R = hi * 2^261
	return s.add(&hi, &lo)
}

// toBytes packs the nine limbs into the 32-byte little-endian encoding.
func (s *unpackedScalar) toBytes(out []byte) {
	var words [8]uint32
	words[0] = s[0] | s[1]<<29
	words[1] = s[1]>>3 | s[2]<<26
	words[2] = s[2]>>6 | s[3]<<23
	words[3] = s[3]>>9 | s[4]<<20
	words[4] = s[4]>>12 | s[5]<<17
	words[5] = s[5]>>15 | s[6]<<14
	words[6] = s[6]>>18 | s[7]<<11
	words[7] = s[7]>>21 | s[8]<<8
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], words[i])
	}
}

// add sets s = a + b mod l, and returns s. Both inputs must be below l.
func (s *unpackedScalar) add(a, b *unpackedScalar) *unpackedScalar {
	var z unpackedScalar
	var carry uint32
	for i := 0; i < 9; i++ {
		carry = carry>>29 + a[i] + b[i]
		z[i] = carry & scalarMask
	}
	// a + b < 2l, so a single conditional subtraction suffices.
	return s.sub(&z, &scL)
}

// sub sets s = a - b mod l, and returns s: a per-limb subtraction with
// borrow, then a constant-time conditional add of l if the final borrow is
// set.
func (s *unpackedScalar) sub(a, b *unpackedScalar) *unpackedScalar {
	var borrow uint32
	for i := 0; i < 9; i++ {
		borrow = a[i] - (b[i] + borrow>>31)
		s[i] = borrow & scalarMask
	}

	underflowMask := (borrow>>31 ^ 1) - 1
	var carry uint32
	for i := 0; i < 9; i++ {
		carry = carry>>29 + s[i] + scL[i]&underflowMask
		s[i] = carry & scalarMask
	}
	return s
}

// mulInternal computes the full 18-limb product of a and b as seventeen
// 64-bit lanes, splitting each operand into a low five-limb and a high
// four-limb half and forming the middle lanes with the Karatsuba identity
// (a_lo+a_hi)*(b_lo+b_hi) - a_lo*b_lo - a_hi*b_hi.
func mulInternal(a, b *unpackedScalar) [17]uint64 {
	m := func(x, y uint32) uint64 { return uint64(x) * uint64(y) }

	var zlo, mid [9]uint64
	var zhi [7]uint64
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			zlo[i+j] += m(a[i], b[j])
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			zhi[i+j] += m(a[5+i], b[5+j])
		}
	}
	aa := [5]uint32{a[0] + a[5], a[1] + a[6], a[2] + a[7], a[3] + a[8], a[4]}
	bb := [5]uint32{b[0] + b[5], b[1] + b[6], b[2] + b[7], b[3] + b[8], b[4]}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			mid[i+j] += m(aa[i], bb[j])
		}
	}

	var z [17]uint64
	for k := 0; k < 9; k++ {
		z[k] = zlo[k]
	}
	for k := 0; k < 7; k++ {
		z[10+k] = zhi[k]
	}
	// The cross terms a_lo*b_hi + a_hi*b_lo land at limb offset 5. The
	// intermediate subtractions may wrap; the final lanes are nonnegative.
	for k := 0; k < 9; k++ {
		cross := mid[k] - zlo[k]
		if k < 7 {
			cross -= zhi[k]
		}
		z[5+k] += cross
	}
	return z
}

// montgomeryReduce reduces the seventeen lanes of a limb product to nine
// limbs below l, dividing by the Montgomery radix R = 2^261: the first half
// computes the adjustment factor n such that limbs + n*l is divisible by R,
// and the second half keeps the upper words of that sum.
func (s *unpackedScalar) montgomeryReduce(limbs *[17]uint64) *unpackedScalar {
	m := func(x, y uint32) uint64 { return uint64(x) * uint64(y) }

	var n unpackedScalar
	var carry uint64
	for i := 0; i < 9; i++ {
		sum := carry + limbs[i]
		for j := 0; j < i; j++ {
			sum += m(n[j], scL[i-j])
		}
		p := (uint32(sum) * scLFactor) & scalarMask
		sum += m(p, scL[0])
		carry = sum >> 29
		n[i] = p
	}

	var r unpackedScalar
	for i := 9; i < 17; i++ {
		sum := carry + limbs[i]
		for j := 0; j < 9; j++ {
			if i-j >= 1 && i-j <= 8 {
				sum += m(n[j], scL[i-j])
			}
		}
		r[i-9] = uint32(sum) & scalarMask
		carry = sum >> 29
	}
	r[8] = uint32(carry)

	// The result may still exceed l by one subtraction's worth.
	return s.sub(&r, &scL)
}

// montgomeryMul sets s = a * b / R mod l, and returns s.
func (s *unpackedScalar) montgomeryMul(a, b *unpackedScalar) *unpackedScalar {
	z := mulInternal(a, b)
	return s.montgomeryReduce(&z)
}

// Digit expansions.

// signedRadix16 returns the 64 signed radix-16 digits of s, each in
// [-8, 8], such that s = sum(digits[i] * 16^i). The scalar must have its
// high bit clear; only the last digit can reach 8.
func (s *Scalar) signedRadix16() [64]int8 {
	if s.s[31] > 127 {
		panic("curve25519group: scalar has high bit set illegally")
	}

	var digits [64]int8

	// Compute unsigned radix-16 digits:
	for i := 0; i < 32; i++ {
		digits[2*i] = int8(s.s[i] & 15)
		digits[2*i+1] = int8((s.s[i] >> 4) & 15)
	}

	// Recenter coefficients to [-8, 7], pushing the borrowed 16 into the
	// next digit. The 64th digit absorbs at most a +1 carry.
	for i := 0; i < 63; i++ {
		carry := (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}

// nonAdjacentForm computes a width-w non-adjacent form for this scalar: 256
// signed digits, all either zero or odd with magnitude below 2^(w-1), with
// any two non-zero digits at least w positions apart.
//
// This expansion leaks the digit pattern and is only used by the
// variable-time scalar multiplication routines.
func (s *Scalar) nonAdjacentForm(w uint) [256]int8 {
	// This implementation is adapted from the one
	// in curve25519-dalek and is documented there:
	// https://github.com/dalek-cryptography/curve25519-dalek/blob/f630041af28e9a405255f98a8a93adca18e4315b/src/scalar.rs#L800-L871
	if s.s[31] > 127 {
		panic("curve25519group: scalar has high bit set illegally")
	}
	if w < 2 {
		panic("curve25519group: w must be at least 2 by the definition of NAF")
	} else if w > 8 {
		panic("curve25519group: NAF digits must fit in int8")
	}

	var naf [256]int8
	var digits [5]uint64

	for i := 0; i < 4; i++ {
		digits[i] = binary.LittleEndian.Uint64(s.s[i*8:])
	}

	width := uint64(1 << w)
	windowMask := uint64(width - 1)

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		indexU64 := pos / 64
		indexBit := pos % 64
		var bitBuf uint64
		if indexBit < 64-w {
			// This window's bits are contained in a single u64
			bitBuf = digits[indexU64] >> indexBit
		} else {
			// Combine the current 64 bits with bits from the next 64
			bitBuf = (digits[indexU64] >> indexBit) | (digits[1+indexU64] << (64 - indexBit))
		}

		// Add carry into the current window
		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			// If the window value is even, preserve the carry and continue.
			// Why is the carry preserved?
			// If carry == 0 and window & 1 == 0,
			//    then the next carry should be 0
			// If carry == 1 and window & 1 == 0,
			//    then bit_buf & 1 == 1 so the next carry should be 1
			pos += 1
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(window) - int8(width)
		}

		pos += w
	}
	return naf
}
