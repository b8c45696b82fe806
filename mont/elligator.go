// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package mont

import (
	"io"

	"github.com/katzenpost/csidh/internal/fp"
)

// Elligator samples a pair of points from a random field element: P with
// its x-coordinate on the curve with affine coefficient a, and Pd with its
// x-coordinate on the quadratic twist. No square roots are computed; the
// two candidates are ordered with a constant time swap driven by a single
// quadratic residuosity test.
//
// a must be non-zero; for a == 0 both candidates collapse to the 2-torsion
// point and the caller has to supply points another way.
func Elligator(rng io.Reader, a *fp.Element) (P, Pd Point, err error) {
	if a.IsZero() == 1 {
		panic("mont: elligator requires a non-zero curve coefficient")
	}

	var u2, u2m1, t, rhs fp.Element
	if _, err = u2.Random(rng); err != nil {
		return
	}
	one := fp.One()
	u2.Square(&u2)
	u2m1.Sub(&u2, &one)

	// rhs = A (u^2 - 1) (A^2 u^2 + (u^2 - 1)^2)
	t.Square(&u2m1)
	rhs.Square(a)
	rhs.Mul(&rhs, &u2)
	rhs.Add(&rhs, &t)
	rhs.Mul(&rhs, a)
	rhs.Mul(&rhs, &u2m1)

	P.X = *a
	P.Z = u2m1
	Pd.X.Neg(a)
	Pd.X.Mul(&Pd.X, &u2)
	Pd.Z = u2m1

	CondSwapPoints(&P, &Pd, 1^rhs.IsSquare())
	return
}
