// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctequal implements the bit-level constant-time primitives shared
// by the field, scalar, and point packages: byte/int equality and bit
// extraction whose execution time does not depend on the value of their
// inputs.
package ctequal

// Equal returns 1 if the low 8 bits of b and c are equal, and 0 otherwise.
// The high bits of b and c are ignored.
func Equal(b, c int32) int32 {
	x := uint32(uint8(b ^ c))
	// x is zero iff b and c are equal mod 256. Arrange for the result to be
	// all-1 iff x == 0, without branching on x.
	x = x - 1
	return int32((x >> 8) & 1)
}

// Bytes returns 1 if a and b have equal length and content, and 0
// otherwise. It runs in time independent of the byte values (but not of
// the lengths, which are assumed non-secret).
func Bytes(a, b []byte) int {
	if len(a) != len(b) {
		return 0
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return int(Equal(int32(v), 0))
}

// IsNegative returns 1 if the sign bit of b (as a signed byte-wide value)
// is set, and 0 otherwise.
func IsNegative(b int32) int32 {
	return (b >> 8) & 1
}

// Bit returns bit i of h, treating h as a little-endian bit sequence. It
// panics if i is out of range for h.
func Bit(h []byte, i uint) int8 {
	return int8(h[i/8] >> (i % 8) & 1)
}
