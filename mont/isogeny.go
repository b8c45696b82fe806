// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package mont

import (
	"fmt"

	"github.com/katzenpost/csidh/internal/fp"
)

func checkDegree(degree uint64) {
	if degree < 3 || degree%2 == 0 {
		panic(fmt.Sprintf("mont: invalid isogeny degree %d", degree))
	}
}

// edwards returns the twisted Edwards coefficients (A + 2C, A - 2C) of E.
func edwards(E *Curve) (a, d fp.Element) {
	var c2 fp.Element
	c2.Double(&E.C)
	a.Add(&E.A, &c2)
	d.Sub(&E.A, &c2)
	return
}

// powPair raises x and y to the public exponent e using a shared
// square and multiply schedule.
func powPair(x, y *fp.Element, e uint64) {
	r1, r2 := fp.One(), fp.One()
	for ; e != 0; e >>= 1 {
		if e&1 == 1 {
			r1.Mul(&r1, x)
			r2.Mul(&r2, y)
		}
		x.Square(x)
		y.Square(y)
	}
	*x, *y = r1, r2
}

// codomain finishes an isogeny: raises the Edwards coefficients to the
// degree, scales by the eighth powers of the kernel products and returns
// the Montgomery form (2(a + d) : a - d).
func codomain(a, d, prodX, prodZ *fp.Element, degree uint64) Curve {
	powPair(a, d, degree)
	for i := 0; i < 3; i++ {
		prodX.Square(prodX)
		prodZ.Square(prodZ)
	}
	d.Mul(d, prodX)
	a.Mul(a, prodZ)

	var E Curve
	E.A.Add(a, d)
	E.C.Sub(a, d)
	E.A.Double(&E.A)
	return E
}

// Isogeny evaluates a real or dummy isogeny of odd prime degree.
//
// For dummy == 0, K generates the kernel; the result is the codomain
// curve and the images of P and Pd.
//
// For dummy == 1, P plays the role of the kernel generator instead. The
// same sequence of field operations is performed, after which the
// outputs are selected so that the curve and Pd are returned unchanged
// and P is replaced by [degree]P.
//
// The choice between the two is made with constant time selects on
// values; dummy must be 0 or 1.
func Isogeny(E Curve, P, Pd, K Point, degree uint64, dummy uint64) (Curve, Point, Point) {
	checkDegree(degree)

	var t0, t1, t2, t3, t4 fp.Element
	var pSum, pDif, pdSum, pdDif fp.Element
	var Q, Qd Point

	ea, ed := edwards(&E)

	pSum.Add(&P.X, &P.Z)
	pDif.Sub(&P.X, &P.Z)
	pdSum.Add(&Pd.X, &Pd.Z)
	pdDif.Sub(&Pd.X, &Pd.Z)

	var prodX, prodZ fp.Element
	prodX.Sub(&K.X, &K.Z)
	prodZ.Add(&K.X, &K.Z)

	t1.Mul(&prodX, &pSum)
	t0.Mul(&prodZ, &pDif)
	Q.X.Add(&t0, &t1)
	Q.Z.Sub(&t0, &t1)
	t1.Mul(&prodX, &pdSum)
	t0.Mul(&prodZ, &pdDif)
	Qd.X.Add(&t0, &t1)
	Qd.Z.Sub(&t0, &t1)

	// R is the kernel generator: K for a real isogeny, P for a dummy one.
	R, S := K, P
	CondSwapPoints(&R, &S, dummy)

	var M [3]Point
	M[0] = R
	M[1] = XDBL(E, R)

	half := degree / 2
	for i := uint64(1); i < half; i++ {
		if i >= 2 {
			M[i%3] = XADD(M[(i-1)%3], R, M[(i-2)%3])
		}

		t1.Sub(&M[i%3].X, &M[i%3].Z)
		t0.Add(&M[i%3].X, &M[i%3].Z)
		prodX.Mul(&prodX, &t1)
		prodZ.Mul(&prodZ, &t0)

		t3.Mul(&t1, &pSum)
		t4.Mul(&t0, &pDif)
		t2.Add(&t3, &t4)
		Q.X.Mul(&Q.X, &t2)
		t2.Sub(&t3, &t4)
		Q.Z.Mul(&Q.Z, &t2)

		t3.Mul(&t1, &pdSum)
		t4.Mul(&t0, &pdDif)
		t2.Add(&t3, &t4)
		Qd.X.Mul(&Qd.X, &t2)
		t2.Sub(&t3, &t4)
		Qd.Z.Mul(&Qd.Z, &t2)
	}

	// M[j] holds [j+1]R.
	h := (degree - 1) / 2
	if degree > 3 {
		M[h%3] = XADD(M[(h-1)%3], R, M[(h-2)%3])
	}
	// [(degree+1)/2]R + [(degree-1)/2]R = [degree]R.
	multiple := XADD(M[h%3], M[(h-1)%3], R)

	Q.X.Square(&Q.X)
	Q.Z.Square(&Q.Z)
	Pimg := P
	Pimg.X.Mul(&Pimg.X, &Q.X)
	Pimg.Z.Mul(&Pimg.Z, &Q.Z)

	Qd.X.Square(&Qd.X)
	Qd.Z.Square(&Qd.Z)
	PdImg := Pd
	PdImg.X.Mul(&PdImg.X, &Qd.X)
	PdImg.Z.Mul(&PdImg.Z, &Qd.Z)

	F := codomain(&ea, &ed, &prodX, &prodZ, degree)

	CondSwapCurves(&F, &E, dummy)
	CondSwapPoints(&Pimg, &multiple, dummy)
	CondSwapPoints(&PdImg, &Pd, dummy)
	return F, Pimg, PdImg
}

// LastIsogeny evaluates a real (dummy == 0) or dummy (dummy == 1)
// isogeny with kernel generated by K without computing any point images.
// A dummy isogeny returns E unchanged.
func LastIsogeny(E Curve, K Point, degree uint64, dummy uint64) Curve {
	checkDegree(degree)

	var t0, t1 fp.Element
	ea, ed := edwards(&E)

	var prodX, prodZ fp.Element
	prodX.Sub(&K.X, &K.Z)
	prodZ.Add(&K.X, &K.Z)

	var M [3]Point
	M[0] = K
	M[1] = XDBL(E, K)

	half := degree / 2
	for i := uint64(1); i < half; i++ {
		if i >= 2 {
			M[i%3] = XADD(M[(i-1)%3], K, M[(i-2)%3])
		}
		t1.Sub(&M[i%3].X, &M[i%3].Z)
		t0.Add(&M[i%3].X, &M[i%3].Z)
		prodX.Mul(&prodX, &t1)
		prodZ.Mul(&prodZ, &t0)
	}

	F := codomain(&ea, &ed, &prodX, &prodZ, degree)
	CondSwapCurves(&F, &E, dummy)
	return F
}
