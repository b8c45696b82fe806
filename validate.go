// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"io"

	"github.com/katzenpost/csidh/internal/fp"
	"github.com/katzenpost/csidh/internal/u512"
	"github.com/katzenpost/csidh/mont"
)

// cofactorMultiples replaces P[lower] by [(p+1)/l_i] P[lower] stored in
// P[i] for every lower <= i < upper, halving the range recursively so
// each level only multiplies by the product of the other half.
func cofactorMultiples(E mont.Curve, P []mont.Point, lower, upper int) {
	if upper-lower == 1 {
		return
	}
	mid := lower + (upper-lower+1)/2

	cl, cu := u512.New(1), u512.New(1)
	for i := lower; i < mid; i++ {
		cu.MulSmall(cu, primes[i])
	}
	for i := mid; i < upper; i++ {
		cl.MulSmall(cl, primes[i])
	}

	P[mid] = mont.XMUL(E, P[lower], cu)
	P[lower] = mont.XMUL(E, P[lower], cl)

	cofactorMultiples(E, P, lower, mid)
	cofactorMultiples(E, P, mid, upper)
}

// isSingular reports whether a = 2 or a = -2.
func isSingular(a *fp.Element) bool {
	var two, minusTwo fp.Element
	two.SetUint64(2)
	minusTwo.Neg(&two)
	return a.Equal(&two)|a.Equal(&minusTwo) == 1
}

// Validate reports whether in is a supersingular curve, i.e. a valid
// public key. It never accepts an invalid key; for a valid key it samples
// points from rng until one of them has order larger than 4 sqrt(p), which
// by the Hasse bound forces the curve to have exactly p + 1 points.
// Validate only handles public data and is not constant time.
func Validate(in *PublicKey, rng io.Reader) (bool, error) {
	if isSingular(&in.a) {
		return false, nil
	}
	E := mont.NewCurve(&in.a)

	for {
		x, err := new(fp.Element).Random(rng)
		if err != nil {
			return false, err
		}
		var P [NumPrimes]mont.Point
		P[0] = mont.NewPoint(x)

		// Clear the 2-part of p + 1.
		P[0] = mont.XDBL(E, P[0])
		P[0] = mont.XDBL(E, P[0])

		cofactorMultiples(E, P[:], 0, NumPrimes)

		order := u512.New(1)
		for i := NumPrimes - 1; i >= 0; i-- {
			// Only a non-zero [(p+1)/l_i]P tells us anything.
			if P[i].IsInfinity() {
				continue
			}
			Q := mont.XMULSmall(E, P[i], primes[i])
			if !Q.IsInfinity() {
				// The order of P does not divide p + 1.
				return false, nil
			}
			order.MulSmall(order, primes[i])
			if order.Cmp(&hasseBound) > 0 {
				return true, nil
			}
		}
	}
}
