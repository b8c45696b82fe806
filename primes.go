// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"github.com/katzenpost/csidh/internal/fp"
	"github.com/katzenpost/csidh/internal/u512"
)

// NumPrimes is the number of small odd primes dividing p + 1.
const NumPrimes = 74

// primes is the ordered list of the small primes l_i with
// p = 4 * l_0 * ... * l_73 - 1. The order fixes the meaning of the
// exponent vector and the round robin batch assignment.
var primes = [NumPrimes]uint64{
	359, 353, 349, 347, 337, 331, 317, 313, 311,
	307, 293, 283, 281, 277, 271, 269, 263, 257, 251, 241, 239, 233, 229,
	227, 223, 211, 199, 197, 193, 191, 181, 179, 173, 167, 163, 157, 151,
	149, 139, 137, 131, 127, 113, 109, 107, 103, 101, 97, 89, 83, 79, 73,
	71, 67, 61, 59, 53, 47, 43, 41, 37, 31, 29, 23, 19, 17, 13, 11, 7, 5, 3,
	587, 373, 367,
}

// defaultBounds are the per prime exponent bounds max_i of the default
// parameter set; they sum to 404.
var defaultBounds = [NumPrimes]int8{
	2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	5, 5, 5, 5, 5, 5, 5,
	6, 6, 6, 6, 6,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8,
	9, 9, 9,
	10, 10, 10, 10,
	9, 8, 8, 8,
	7, 7, 7, 7, 7,
	6, 5,
	1, 2, 2,
}

// fullOrderX is the x-coordinate of a point of order p + 1 on the base
// curve y^2 = x^3 + x, used instead of elligator while A = 0.
var fullOrderX = [fp.Limbs]uint64{
	0x24403b2c196b9323, 0x8a8759a31723c208, 0xb4a93a543937992b, 0xcdd1f791dc7eb773,
	0xff470bd36fd7823b, 0xfbcf1fc39d553409, 0x9478a78dd697be5c, 0x0ed9b5fb0f251816,
}

var (
	fullOrderPoint fp.Element

	// hasseBound is 4 * isqrt(p); a point whose order exceeds it proves
	// the curve has p + 1 points.
	hasseBound u512.Uint512
)

func init() {
	if err := fullOrderPoint.SetLimbs(&fullOrderX); err != nil {
		panic(err)
	}

	p := u512.Uint512(fp.Modulus())
	hasseBound.MulSmall(u512.Isqrt(&p), 4)
}

// Primes returns the ordered list of small primes.
func Primes() []uint64 {
	out := make([]uint64, NumPrimes)
	copy(out, primes[:])
	return out
}

// DefaultBounds returns the exponent bounds of the default parameter set.
func DefaultBounds() [NumPrimes]int8 {
	return defaultBounds
}
