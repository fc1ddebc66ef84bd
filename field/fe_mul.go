// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

// feMul sets h = f*g. It implements the schoolbook 10x10 product described
// in the package's design notes: off-diagonal terms whose limb indices sum
// to 10 or more carry an implicit factor of 19, because 2^255 ≡ 19 (mod p);
// terms in which both limb indices are odd additionally carry a factor of
// 2, from the alternating 26/25-bit limb widths. The g limbs are
// pre-multiplied by 19 and the odd f limbs pre-doubled once each, so the
// rest of the accumulation is plain multiply-and-add.
func feMul(h, f, g *Element) {
	f0 := f.l[0]
	f1 := f.l[1]
	f2 := f.l[2]
	f3 := f.l[3]
	f4 := f.l[4]
	f5 := f.l[5]
	f6 := f.l[6]
	f7 := f.l[7]
	f8 := f.l[8]
	f9 := f.l[9]

	g0 := g.l[0]
	g1 := g.l[1]
	g2 := g.l[2]
	g3 := g.l[3]
	g4 := g.l[4]
	g5 := g.l[5]
	g6 := g.l[6]
	g7 := g.l[7]
	g8 := g.l[8]
	g9 := g.l[9]

	g1_19 := 19 * g1
	g2_19 := 19 * g2
	g3_19 := 19 * g3
	g4_19 := 19 * g4
	g5_19 := 19 * g5
	g6_19 := 19 * g6
	g7_19 := 19 * g7
	g8_19 := 19 * g8
	g9_19 := 19 * g9

	f1_2 := 2 * f1
	f3_2 := 2 * f3
	f5_2 := 2 * f5
	f7_2 := 2 * f7
	f9_2 := 2 * f9

	f0g0 := f0 * g0
	f0g1 := f0 * g1
	f0g2 := f0 * g2
	f0g3 := f0 * g3
	f0g4 := f0 * g4
	f0g5 := f0 * g5
	f0g6 := f0 * g6
	f0g7 := f0 * g7
	f0g8 := f0 * g8
	f0g9 := f0 * g9
	f1g0 := f1 * g0
	f1g1_2 := f1_2 * g1
	f1g2 := f1 * g2
	f1g3_2 := f1_2 * g3
	f1g4 := f1 * g4
	f1g5_2 := f1_2 * g5
	f1g6 := f1 * g6
	f1g7_2 := f1_2 * g7
	f1g8 := f1 * g8
	f1g9_38 := f1_2 * g9_19
	f2g0 := f2 * g0
	f2g1 := f2 * g1
	f2g2 := f2 * g2
	f2g3 := f2 * g3
	f2g4 := f2 * g4
	f2g5 := f2 * g5
	f2g6 := f2 * g6
	f2g7 := f2 * g7
	f2g8_19 := f2 * g8_19
	f2g9_19 := f2 * g9_19
	f3g0 := f3 * g0
	f3g1_2 := f3_2 * g1
	f3g2 := f3 * g2
	f3g3_2 := f3_2 * g3
	f3g4 := f3 * g4
	f3g5_2 := f3_2 * g5
	f3g6 := f3 * g6
	f3g7_38 := f3_2 * g7_19
	f3g8_19 := f3 * g8_19
	f3g9_38 := f3_2 * g9_19
	f4g0 := f4 * g0
	f4g1 := f4 * g1
	f4g2 := f4 * g2
	f4g3 := f4 * g3
	f4g4 := f4 * g4
	f4g5 := f4 * g5
	f4g6_19 := f4 * g6_19
	f4g7_19 := f4 * g7_19
	f4g8_19 := f4 * g8_19
	f4g9_19 := f4 * g9_19
	f5g0 := f5 * g0
	f5g1_2 := f5_2 * g1
	f5g2 := f5 * g2
	f5g3_2 := f5_2 * g3
	f5g4 := f5 * g4
	f5g5_38 := f5_2 * g5_19
	f5g6_19 := f5 * g6_19
	f5g7_38 := f5_2 * g7_19
	f5g8_19 := f5 * g8_19
	f5g9_38 := f5_2 * g9_19
	f6g0 := f6 * g0
	f6g1 := f6 * g1
	f6g2 := f6 * g2
	f6g3 := f6 * g3
	f6g4_19 := f6 * g4_19
	f6g5_19 := f6 * g5_19
	f6g6_19 := f6 * g6_19
	f6g7_19 := f6 * g7_19
	f6g8_19 := f6 * g8_19
	f6g9_19 := f6 * g9_19
	f7g0 := f7 * g0
	f7g1_2 := f7_2 * g1
	f7g2 := f7 * g2
	f7g3_38 := f7_2 * g3_19
	f7g4_19 := f7 * g4_19
	f7g5_38 := f7_2 * g5_19
	f7g6_19 := f7 * g6_19
	f7g7_38 := f7_2 * g7_19
	f7g8_19 := f7 * g8_19
	f7g9_38 := f7_2 * g9_19
	f8g0 := f8 * g0
	f8g1 := f8 * g1
	f8g2_19 := f8 * g2_19
	f8g3_19 := f8 * g3_19
	f8g4_19 := f8 * g4_19
	f8g5_19 := f8 * g5_19
	f8g6_19 := f8 * g6_19
	f8g7_19 := f8 * g7_19
	f8g8_19 := f8 * g8_19
	f8g9_19 := f8 * g9_19
	f9g0 := f9 * g0
	f9g1_38 := f9_2 * g1_19
	f9g2_19 := f9 * g2_19
	f9g3_38 := f9_2 * g3_19
	f9g4_19 := f9 * g4_19
	f9g5_38 := f9_2 * g5_19
	f9g6_19 := f9 * g6_19
	f9g7_38 := f9_2 * g7_19
	f9g8_19 := f9 * g8_19
	f9g9_38 := f9_2 * g9_19

	h0 := f0g0 + f1g9_38 + f2g8_19 + f3g7_38 + f4g6_19 + f5g5_38 + f6g4_19 + f7g3_38 + f8g2_19 + f9g1_38
	h1 := f0g1 + f1g0 + f2g9_19 + f3g8_19 + f4g7_19 + f5g6_19 + f6g5_19 + f7g4_19 + f8g3_19 + f9g2_19
	h2 := f0g2 + f1g1_2 + f2g0 + f3g9_38 + f4g8_19 + f5g7_38 + f6g6_19 + f7g5_38 + f8g4_19 + f9g3_38
	h3 := f0g3 + f1g2 + f2g1 + f3g0 + f4g9_19 + f5g8_19 + f6g7_19 + f7g6_19 + f8g5_19 + f9g4_19
	h4 := f0g4 + f1g3_2 + f2g2 + f3g1_2 + f4g0 + f5g9_38 + f6g8_19 + f7g7_38 + f8g6_19 + f9g5_38
	h5 := f0g5 + f1g4 + f2g3 + f3g2 + f4g1 + f5g0 + f6g9_19 + f7g8_19 + f8g7_19 + f9g6_19
	h6 := f0g6 + f1g5_2 + f2g4 + f3g3_2 + f4g2 + f5g1_2 + f6g0 + f7g9_38 + f8g8_19 + f9g7_38
	h7 := f0g7 + f1g6 + f2g5 + f3g4 + f4g3 + f5g2 + f6g1 + f7g0 + f8g9_19 + f9g8_19
	h8 := f0g8 + f1g7_2 + f2g6 + f3g5_2 + f4g4 + f5g3_2 + f6g2 + f7g1_2 + f8g0 + f9g9_38
	h9 := f0g9 + f1g8 + f2g7 + f3g6 + f4g5 + f5g4 + f6g3 + f7g2 + f8g1 + f9g0

	carryFinalize(h, h0, h1, h2, h3, h4, h5, h6, h7, h8, h9)
}

// feSquare sets h = f*f, exploiting symmetry to halve the cross-term count
// relative to feMul.
func feSquare(h, f *Element) {
	f0 := f.l[0]
	f1 := f.l[1]
	f2 := f.l[2]
	f3 := f.l[3]
	f4 := f.l[4]
	f5 := f.l[5]
	f6 := f.l[6]
	f7 := f.l[7]
	f8 := f.l[8]
	f9 := f.l[9]

	f0_2 := 2 * f0
	f1_2 := 2 * f1
	f2_2 := 2 * f2
	f3_2 := 2 * f3
	f4_2 := 2 * f4
	f5_2 := 2 * f5
	f6_2 := 2 * f6
	f7_2 := 2 * f7
	f5_38 := 38 * f5
	f6_19 := 19 * f6
	f7_38 := 38 * f7
	f8_19 := 19 * f8
	f9_38 := 38 * f9

	f0f0 := f0 * f0
	f0f1_2 := f0_2 * f1
	f0f2_2 := f0_2 * f2
	f0f3_2 := f0_2 * f3
	f0f4_2 := f0_2 * f4
	f0f5_2 := f0_2 * f5
	f0f6_2 := f0_2 * f6
	f0f7_2 := f0_2 * f7
	f0f8_2 := f0_2 * f8
	f0f9_2 := f0_2 * f9
	f1f1_2 := f1_2 * f1
	f1f2_2 := f1_2 * f2
	f1f3_4 := f1_2 * f3_2
	f1f4_2 := f1_2 * f4
	f1f5_4 := f1_2 * f5_2
	f1f6_2 := f1_2 * f6
	f1f7_4 := f1_2 * f7_2
	f1f8_2 := f1_2 * f8
	f1f9_76 := f1_2 * f9_38
	f2f2 := f2 * f2
	f2f3_2 := f2_2 * f3
	f2f4_2 := f2_2 * f4
	f2f5_2 := f2_2 * f5
	f2f6_2 := f2_2 * f6
	f2f7_2 := f2_2 * f7
	f2f8_38 := f2_2 * f8_19
	f2f9_38 := f2 * f9_38
	f3f3_2 := f3_2 * f3
	f3f4_2 := f3_2 * f4
	f3f5_4 := f3_2 * f5_2
	f3f6_2 := f3_2 * f6
	f3f7_76 := f3_2 * f7_38
	f3f8_38 := f3_2 * f8_19
	f3f9_76 := f3_2 * f9_38
	f4f4 := f4 * f4
	f4f5_2 := f4_2 * f5
	f4f6_38 := f4_2 * f6_19
	f4f7_38 := f4 * f7_38
	f4f8_38 := f4_2 * f8_19
	f4f9_38 := f4 * f9_38
	f5f5_38 := f5 * f5_38
	f5f6_38 := f5_2 * f6_19
	f5f7_76 := f5_2 * f7_38
	f5f8_38 := f5_2 * f8_19
	f5f9_76 := f5_2 * f9_38
	f6f6_19 := f6 * f6_19
	f6f7_38 := f6 * f7_38
	f6f8_38 := f6_2 * f8_19
	f6f9_38 := f6 * f9_38
	f7f7_38 := f7 * f7_38
	f7f8_38 := f7_2 * f8_19
	f7f9_76 := f7_2 * f9_38
	f8f8_19 := f8 * f8_19
	f8f9_38 := f8 * f9_38
	f9f9_38 := f9 * f9_38

	h0 := f0f0 + f1f9_76 + f2f8_38 + f3f7_76 + f4f6_38 + f5f5_38
	h1 := f0f1_2 + f2f9_38 + f3f8_38 + f4f7_38 + f5f6_38
	h2 := f0f2_2 + f1f1_2 + f3f9_76 + f4f8_38 + f5f7_76 + f6f6_19
	h3 := f0f3_2 + f1f2_2 + f4f9_38 + f5f8_38 + f6f7_38
	h4 := f0f4_2 + f1f3_4 + f2f2 + f5f9_76 + f6f8_38 + f7f7_38
	h5 := f0f5_2 + f1f4_2 + f2f3_2 + f6f9_38 + f7f8_38
	h6 := f0f6_2 + f1f5_4 + f2f4_2 + f3f3_2 + f7f9_76 + f8f8_19
	h7 := f0f7_2 + f1f6_2 + f2f5_2 + f3f4_2 + f8f9_38
	h8 := f0f8_2 + f1f7_4 + f2f6_2 + f3f5_4 + f4f4 + f9f9_38
	h9 := f0f9_2 + f1f8_2 + f2f7_2 + f3f6_2 + f4f5_2

	carryFinalize(h, h0, h1, h2, h3, h4, h5, h6, h7, h8, h9)
}

// carryFinalize runs the parallel carry chain over the raw (unbounded in
// the 52-55 bit range) ten-limb product and writes the carried result into
// h, ending with the 19x carry from limb 9 back into limb 0 and one more
// limb-0-to-1 carry as described in the design notes.
func carryFinalize(h *Element, h0, h1, h2, h3, h4, h5, h6, h7, h8, h9 int64) {
	var carry [10]int64

	carry[0] = (h0 + (1 << 25)) >> 26
	h1 += carry[0]
	h0 -= carry[0] << 26
	carry[4] = (h4 + (1 << 25)) >> 26
	h5 += carry[4]
	h4 -= carry[4] << 26

	carry[1] = (h1 + (1 << 24)) >> 25
	h2 += carry[1]
	h1 -= carry[1] << 25
	carry[5] = (h5 + (1 << 24)) >> 25
	h6 += carry[5]
	h5 -= carry[5] << 25

	carry[2] = (h2 + (1 << 25)) >> 26
	h3 += carry[2]
	h2 -= carry[2] << 26
	carry[6] = (h6 + (1 << 25)) >> 26
	h7 += carry[6]
	h6 -= carry[6] << 26

	carry[3] = (h3 + (1 << 24)) >> 25
	h4 += carry[3]
	h3 -= carry[3] << 25
	carry[7] = (h7 + (1 << 24)) >> 25
	h8 += carry[7]
	h7 -= carry[7] << 25

	carry[4] = (h4 + (1 << 25)) >> 26
	h5 += carry[4]
	h4 -= carry[4] << 26
	carry[8] = (h8 + (1 << 25)) >> 26
	h9 += carry[8]
	h8 -= carry[8] << 26

	carry[9] = (h9 + (1 << 24)) >> 25
	h0 += carry[9] * 19
	h9 -= carry[9] << 25

	carry[0] = (h0 + (1 << 25)) >> 26
	h1 += carry[0]
	h0 -= carry[0] << 26

	h.l = [10]int64{h0, h1, h2, h3, h4, h5, h6, h7, h8, h9}
}
