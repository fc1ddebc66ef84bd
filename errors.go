// Copyright (c) 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519group

import "errors"

// ErrInvalidRepresentation is returned when a byte slice handed to a
// constructor has the wrong length or violates a structural invariant, such
// as a scalar encoding with the top bit set.
var ErrInvalidRepresentation = errors.New("curve25519group: invalid representation")

// ErrInvalidEncoding is returned when a well-formed byte slice does not
// decode to a valid curve point or Ristretto element: a non-canonical field
// encoding, a non-square decompression check, or one of Ristretto's
// negativity and zero-coordinate checks.
var ErrInvalidEncoding = errors.New("curve25519group: invalid encoding")
