// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"errors"
	"testing"

	"github.com/katzenpost/hpqc/rand"
	"github.com/stretchr/testify/require"
)

func testRNG(t *testing.T) *rand.DeterministicRandReader {
	seed := make([]byte, 32)
	copy(seed, []byte(t.Name()))
	rng, err := rand.NewDeterministicRandReader(seed)
	require.NoError(t, err)
	return rng
}

type failingReader struct{}

var errNoEntropy = errors.New("no entropy")

func (failingReader) Read([]byte) (int, error) {
	return 0, errNoEntropy
}

func TestGeneratePrivateKeyBounds(t *testing.T) {
	rng := testRNG(t)
	p := DefaultParams()

	seen := make(map[int8]bool)
	for n := 0; n < 200; n++ {
		priv, err := p.GeneratePrivateKey(rng)
		require.NoError(t, err)
		require.NoError(t, priv.checkBounds(&p.Bounds))
		for i, e := range priv.e {
			require.LessOrEqual(t, e, p.Bounds[i])
			require.GreaterOrEqual(t, e, -p.Bounds[i])
			seen[e] = true
		}
	}
	// Every value of the widest range shows up.
	for e := int8(-10); e <= 10; e++ {
		require.True(t, seen[e], "exponent %d never sampled", e)
	}
}

func TestGeneratePrivateKeyZeroBound(t *testing.T) {
	bounds := defaultBounds
	bounds[3] = 0
	priv, err := GeneratePrivateKey(testRNG(t), &bounds)
	require.NoError(t, err)
	require.Equal(t, int8(0), priv.e[3])
}

func TestGeneratePrivateKeyDeterministic(t *testing.T) {
	a, err := DefaultParams().GeneratePrivateKey(testRNG(t))
	require.NoError(t, err)
	b, err := DefaultParams().GeneratePrivateKey(testRNG(t))
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestGeneratePrivateKeyRNGFailure(t *testing.T) {
	_, err := DefaultParams().GeneratePrivateKey(failingReader{})
	require.ErrorIs(t, err, errNoEntropy)
}
