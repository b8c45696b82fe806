// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// Package mont implements x-only arithmetic on Montgomery curves
// y^2 = x^3 + A x^2 + x over the CSIDH-512 field, together with the odd
// degree isogenies used by the CSIDH group action.
//
// Curves and points are projective and handled as values; no function in
// this package retains or aliases its arguments.
package mont

import (
	"github.com/katzenpost/csidh/internal/fp"
	"github.com/katzenpost/csidh/internal/u512"
)

// Point is a projective x-only point (X : Z). (1 : 0) is the point at
// infinity.
type Point struct {
	X fp.Element
	Z fp.Element
}

// Curve is a projective Montgomery coefficient (A : C), i.e. the curve
// with affine coefficient A/C.
type Curve struct {
	A fp.Element
	C fp.Element
}

// Infinity returns the point at infinity.
func Infinity() Point {
	return Point{X: fp.One(), Z: fp.Zero()}
}

// NewPoint returns the affine point (x : 1).
func NewPoint(x *fp.Element) Point {
	return Point{X: *x, Z: fp.One()}
}

// NewCurve returns the curve (a : 1).
func NewCurve(a *fp.Element) Curve {
	return Curve{A: *a, C: fp.One()}
}

// IsInfinity reports whether P is the point at infinity. This is only ever
// evaluated on points whose order is public.
func (P *Point) IsInfinity() bool {
	return P.Z.IsZero() == 1
}

// Affine returns x = X/Z.
func (P *Point) Affine() fp.Element {
	var x fp.Element
	x.Inv(&P.Z)
	x.Mul(&x, &P.X)
	return x
}

// Equal reports whether P and Q represent the same x-coordinate.
func (P *Point) Equal(Q *Point) bool {
	var l, r fp.Element
	l.Mul(&P.X, &Q.Z)
	r.Mul(&Q.X, &P.Z)
	return l.Equal(&r) == 1 && P.IsInfinity() == Q.IsInfinity()
}

// Normalize returns the affine coefficient A/C.
func (E *Curve) Normalize() fp.Element {
	var a fp.Element
	a.Inv(&E.C)
	a.Mul(&a, &E.A)
	return a
}

// a24 returns (A + 2C : 4C).
func (E *Curve) a24() Curve {
	var r Curve
	r.A.Add(&E.C, &E.C)
	r.C.Add(&r.A, &r.A)
	r.A.Add(&r.A, &E.A)
	return r
}

// CondSwapPoints swaps P and Q when c == 1.
func CondSwapPoints(P, Q *Point, c uint64) {
	fp.CondSwap(&P.X, &Q.X, c)
	fp.CondSwap(&P.Z, &Q.Z, c)
}

// CondSwapCurves swaps E and F when c == 1.
func CondSwapCurves(E, F *Curve, c uint64) {
	fp.CondSwap(&E.A, &F.A, c)
	fp.CondSwap(&E.C, &F.C, c)
}

// XDBL returns [2]P on E.
func XDBL(E Curve, P Point) Point {
	var a, b, c fp.Element
	var Q Point

	a.Add(&P.X, &P.Z)
	a.Square(&a)
	b.Sub(&P.X, &P.Z)
	b.Square(&b)
	c.Sub(&a, &b)
	b.Double(&b)
	b.Double(&b)
	b.Mul(&b, &E.C)
	Q.X.Mul(&a, &b)
	a.Double(&E.C)
	a.Add(&a, &E.A)
	a.Mul(&a, &c)
	a.Add(&a, &b)
	Q.Z.Mul(&a, &c)
	return Q
}

// XADD returns P + Q given PQ = P - Q.
func XADD(P, Q, PQ Point) Point {
	var a, b, c, d fp.Element
	var S Point

	a.Add(&P.X, &P.Z)
	b.Sub(&P.X, &P.Z)
	c.Add(&Q.X, &Q.Z)
	d.Sub(&Q.X, &Q.Z)
	a.Mul(&a, &d)
	b.Mul(&b, &c)
	c.Add(&a, &b)
	d.Sub(&a, &b)
	c.Square(&c)
	d.Square(&d)
	S.X.Mul(&PQ.Z, &c)
	S.Z.Mul(&PQ.X, &d)
	return S
}

// XDBLADD returns ([2]P, P + Q) given PQ = P - Q and a24 = (A + 2C : 4C).
func XDBLADD(P, Q, PQ Point, a24 Curve) (Point, Point) {
	var t0, t1, t2 fp.Element
	var R, S Point

	t0.Add(&P.X, &P.Z)
	t1.Sub(&P.X, &P.Z)
	R.X.Square(&t0)
	t2.Sub(&Q.X, &Q.Z)
	S.X.Add(&Q.X, &Q.Z)
	t0.Mul(&t0, &t2)
	R.Z.Square(&t1)
	t1.Mul(&t1, &S.X)
	t2.Sub(&R.X, &R.Z)
	R.Z.Mul(&R.Z, &a24.C)
	R.X.Mul(&R.X, &R.Z)
	S.X.Mul(&a24.A, &t2)
	S.Z.Sub(&t0, &t1)
	R.Z.Add(&R.Z, &S.X)
	S.X.Add(&t0, &t1)
	R.Z.Mul(&R.Z, &t2)
	S.Z.Square(&S.Z)
	S.X.Square(&S.X)
	S.Z.Mul(&S.Z, &PQ.X)
	S.X.Mul(&S.X, &PQ.Z)
	return R, S
}

// XMUL returns [k]P on E using the Montgomery ladder.
//
// The ladder branches on the bits of k. Scalars passed here are
// products of the public primes and never depend on secret data.
// P must not be the point of order 2 at (0 : 1).
func XMUL(E Curve, P Point, k *u512.Uint512) Point {
	a24 := E.a24()
	Q := Infinity()
	R := P

	i := u512.Limbs*64 - 1
	for i > 0 && k.Bit(i) == 0 {
		i--
	}
	for ; i >= 0; i-- {
		bit := k.Bit(i) == 1
		if bit {
			Q, R = R, Q
		}
		Q, R = XDBLADD(Q, R, P, a24)
		if bit {
			Q, R = R, Q
		}
	}
	return Q
}

// XMULSmall returns [k]P on E for a word sized scalar.
func XMULSmall(E Curve, P Point, k uint64) Point {
	return XMUL(E, P, u512.New(k))
}

// RHS returns x^3 + A x^2 + x for the affine curve coefficient a.
func RHS(a, x *fp.Element) fp.Element {
	var r, t fp.Element
	one := fp.One()
	r.Square(x)
	t.Mul(a, x)
	r.Add(&r, &t)
	r.Add(&r, &one)
	r.Mul(&r, x)
	return r
}
