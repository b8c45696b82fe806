// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"io"

	"github.com/katzenpost/csidh/internal/fp"
	"github.com/katzenpost/csidh/internal/u512"
	"github.com/katzenpost/csidh/mont"
)

// Action applies the class group element encoded by priv to the curve in
// and returns the resulting curve. in is not validated here; see Exchange.
//
// Every prime i gets exactly Bounds[i] isogeny evaluations, |e_i| of them
// real and the rest dummies, so the sequence of field operations does not
// depend on priv. What does vary is governed only by the points drawn from
// rng: whether a sampled point has the required order, and therefore in
// which round a prime gets its turn.
func (p *Params) Action(in *PublicKey, priv *PrivateKey, rng io.Reader) (*PublicKey, error) {
	if err := priv.checkBounds(&p.Bounds); err != nil {
		return nil, err
	}

	e := priv.e
	counter := p.Bounds
	var finished [NumPrimes]bool
	for i := range counter {
		finished[i] = counter[i] == 0
	}
	defer func() {
		for i := range e {
			e[i] = 0
		}
	}()

	k := make([]u512.Uint512, p.NumBatches)
	copy(k, p.batchFactors)
	last := make([]int, p.NumBatches)
	copy(last, p.lastIndex)
	batches := p.NumBatches

	E := mont.NewCurve(&in.a)
	m, round, done := 0, 0, 0
	merged := false

	for done < p.numIsogenies {
		m = (m + 1) % batches

		if !merged && round == p.MergeThreshold*p.NumBatches {
			merged = true
			m = 0
			batches = 1
			last[0] = NumPrimes - 1
			k[0].SetUint64(4)
			for i := range finished {
				if finished[i] {
					k[0].MulSmall(&k[0], primes[i])
				}
			}
			p.debugf("round %d: merged batches, %d of %d isogenies done", round, done, p.numIsogenies)
		}

		var P, Pd mont.Point
		if E.A.IsZero() == 1 {
			P = mont.NewPoint(&fullOrderPoint)
			var x fp.Element
			x.Neg(&fullOrderPoint)
			Pd = mont.NewPoint(&x)
		} else {
			var err error
			if P, Pd, err = mont.Elligator(rng, &E.A); err != nil {
				return nil, err
			}
		}
		P = mont.XMUL(E, P, &k[m])
		Pd = mont.XMUL(E, Pd, &k[m])

		prevSign := uint32(1)
		for i := m; i < NumPrimes; i += batches {
			if finished[i] {
				continue
			}

			cof := u512.New(1)
			for j := i + batches; j < NumPrimes; j += batches {
				if !finished[j] {
					cof.MulSmall(cof, primes[j])
				}
			}

			ec := lookup(i, e[:])
			dummy := isEqual(uint32(int32(ec)), 0)
			sign := uint32(uint8(ec) >> 7)
			flip := 1 ^ isEqual(sign, prevSign)
			prevSign = sign

			mont.CondSwapPoints(&P, &Pd, uint64(flip))
			K := mont.XMUL(E, P, cof)
			Pd = mont.XMULSmall(E, Pd, primes[i])

			if !K.IsInfinity() {
				if i == last[m] {
					E = mont.LastIsogeny(E, K, primes[i], uint64(dummy))
				} else {
					E, P, Pd = mont.Isogeny(E, P, Pd, K, primes[i], uint64(dummy))
				}
				// Step the exponent towards zero; zero stays zero.
				e[i] = int8(int32(ec) - int32(1^dummy) + int32(sign<<1))
				counter[i]--
				done++
			}

			if counter[i] == 0 {
				finished[i] = true
				k[m].MulSmall(&k[m], primes[i])
			}
		}

		a := E.Normalize()
		E = mont.NewCurve(&a)
		round++
		p.debugf("round %d: batch %d, %d of %d isogenies done", round, m, done, p.numIsogenies)
	}

	return &PublicKey{a: E.A}, nil
}
