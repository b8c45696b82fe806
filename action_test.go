// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/schwarmco/go-cartesian-product"
	"github.com/stretchr/testify/require"

	"github.com/katzenpost/csidh/internal/fp"
	"github.com/katzenpost/csidh/log"
)

// smallBounds keeps the number of isogenies low enough for quick tests
// while still touching the smallest and the largest primes.
func smallBounds() [NumPrimes]int8 {
	var b [NumPrimes]int8
	for i := range b {
		if i%6 == 0 {
			b[i] = 1
		}
	}
	b[70] = 2 // l = 3
	b[71] = 1 // l = 587
	return b
}

func smallParams(t *testing.T, batches, threshold int) *Params {
	p, err := NewParams(smallBounds(), batches, threshold)
	require.NoError(t, err)
	return p
}

func negate(priv *PrivateKey) *PrivateKey {
	neg := new(PrivateKey)
	for i, e := range priv.e {
		neg.e[i] = -e
	}
	return neg
}

func TestZeroKeyIsIdentity(t *testing.T) {
	p := smallParams(t, 3, 2)
	out, err := p.Action(Base(), NewEmptyPrivateKey(), testRNG(t))
	require.NoError(t, err)
	require.True(t, out.IsBase())
}

func TestInverseKey(t *testing.T) {
	rng := testRNG(t)
	p := smallParams(t, 3, 2)

	priv, err := p.GeneratePrivateKey(rng)
	require.NoError(t, err)
	pub, err := p.DerivePublicKey(priv, rng)
	require.NoError(t, err)

	back, err := p.Action(pub, negate(priv), rng)
	require.NoError(t, err)
	require.True(t, back.IsBase())
}

func TestCommutativity(t *testing.T) {
	rng := testRNG(t)
	p := smallParams(t, 2, 1)

	alicePriv, alicePub, err := p.GenerateKeyPair(rng)
	require.NoError(t, err)
	bobPriv, bobPub, err := p.GenerateKeyPair(rng)
	require.NoError(t, err)

	aliceShared, err := p.Action(bobPub, alicePriv, rng)
	require.NoError(t, err)
	bobShared, err := p.Action(alicePub, bobPriv, rng)
	require.NoError(t, err)
	require.True(t, aliceShared.Equal(bobShared))
}

func TestBatchMergeEquivalence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping parameter grid in short mode")
	}

	rng := testRNG(t)
	ref := smallParams(t, 1, 0)
	priv, err := ref.GeneratePrivateKey(rng)
	require.NoError(t, err)
	want, err := ref.DerivePublicKey(priv, rng)
	require.NoError(t, err)

	batches := []interface{}{1, 2, 3, 5}
	thresholds := []interface{}{0, 1, 8}

	for product := range cartesian.Iter(batches, thresholds) {
		nb, my := product[0].(int), product[1].(int)
		t.Run(fmt.Sprintf("batches=%d/merge=%d", nb, my), func(t *testing.T) {
			p := smallParams(t, nb, my)
			got, err := p.DerivePublicKey(priv, rng)
			require.NoError(t, err)
			require.True(t, want.Equal(got))
		})
	}
}

func TestActionLogsRounds(t *testing.T) {
	var buf bytes.Buffer
	backend, err := log.NewWithWriter(&buf, "DEBUG")
	require.NoError(t, err)

	p := smallParams(t, 3, 1)
	p.Logger = backend.GetLogger("csidh")

	priv, err := p.GeneratePrivateKey(testRNG(t))
	require.NoError(t, err)
	_, err = p.DerivePublicKey(priv, testRNG(t))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "merged batches")
	require.Contains(t, buf.String(), fmt.Sprintf("%d of %d isogenies done", p.NumIsogenies(), p.NumIsogenies()))
}

func TestActionRejectsOutOfRangeKey(t *testing.T) {
	p := smallParams(t, 3, 2)
	priv := NewEmptyPrivateKey()
	priv.e[1] = 1 // bound is zero
	_, err := p.Action(Base(), priv, testRNG(t))
	require.ErrorIs(t, err, ErrExponentOutOfRange)
}

func TestActionRNGFailure(t *testing.T) {
	rng := testRNG(t)
	p := smallParams(t, 3, 2)
	priv, pub, err := p.GenerateKeyPair(rng)
	require.NoError(t, err)
	require.False(t, pub.IsBase())

	_, err = p.Action(pub, priv, failingReader{})
	require.ErrorIs(t, err, errNoEntropy)
}

func TestValidate(t *testing.T) {
	rng := testRNG(t)

	ok, err := Validate(Base(), rng)
	require.NoError(t, err)
	require.True(t, ok)

	p := smallParams(t, 3, 2)
	_, pub, err := p.GenerateKeyPair(rng)
	require.NoError(t, err)
	ok, err = Validate(pub, rng)
	require.NoError(t, err)
	require.True(t, ok)

	// A random coefficient is ordinary with overwhelming probability.
	var a fp.Element
	_, err = a.Random(rng)
	require.NoError(t, err)
	ok, err = Validate(&PublicKey{a: a}, rng)
	require.NoError(t, err)
	require.False(t, ok)

	var two fp.Element
	two.SetUint64(2)
	ok, err = Validate(&PublicKey{a: two}, rng)
	require.NoError(t, err)
	require.False(t, ok)
	two.Neg(&two)
	ok, err = Validate(&PublicKey{a: two}, rng)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = Validate(Base(), failingReader{})
	require.ErrorIs(t, err, errNoEntropy)
}

func TestExchangeRejectsInvalidKey(t *testing.T) {
	rng := testRNG(t)
	p := smallParams(t, 3, 2)
	priv, err := p.GeneratePrivateKey(rng)
	require.NoError(t, err)

	var a fp.Element
	a.SetUint64(5)
	bad := &PublicKey{a: a}

	out := Base()
	ok, err := p.Exchange(out, bad, priv, rng)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, out.IsBase())

	_, err = p.DeriveSecret(priv, bad, rng)
	require.ErrorIs(t, err, ErrPublicKeyValidation)
}

// TestTwoPartyExchange runs the full default parameter set end to end.
func TestTwoPartyExchange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full size exchange in short mode")
	}

	rng := testRNG(t)
	p := DefaultParams()

	alicePriv, err := p.GeneratePrivateKey(rng)
	require.NoError(t, err)
	bobPriv, err := p.GeneratePrivateKey(rng)
	require.NoError(t, err)

	alicePub := new(PublicKey)
	ok, err := p.Exchange(alicePub, Base(), alicePriv, rng)
	require.NoError(t, err)
	require.True(t, ok)
	bobPub := new(PublicKey)
	ok, err = p.Exchange(bobPub, Base(), bobPriv, rng)
	require.NoError(t, err)
	require.True(t, ok)

	aliceShared, err := p.DeriveSecret(alicePriv, bobPub, rng)
	require.NoError(t, err)
	bobShared, err := p.DeriveSecret(bobPriv, alicePub, rng)
	require.NoError(t, err)
	require.Equal(t, aliceShared, bobShared)
	require.Len(t, aliceShared, PublicKeySize)
}
