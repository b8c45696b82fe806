// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katzenpost/csidh/internal/fp"
)

func TestPublicKeyEncoding(t *testing.T) {
	rng := testRNG(t)

	var x fp.Element
	_, err := x.Random(rng)
	require.NoError(t, err)
	pk := &PublicKey{a: x}

	blob, err := pk.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, blob, PublicKeySize)

	pk2 := NewEmptyPublicKey()
	require.NoError(t, pk2.UnmarshalBinary(blob))
	require.True(t, pk.Equal(pk2))

	text, err := pk.MarshalText()
	require.NoError(t, err)
	pk3 := NewEmptyPublicKey()
	require.NoError(t, pk3.UnmarshalText(text))
	require.True(t, pk.Equal(pk3))

	require.ErrorIs(t, pk3.FromBytes(blob[:10]), ErrPublicKeySize)
	require.Error(t, pk3.UnmarshalText([]byte("not base64!")))

	pk3.Reset()
	require.True(t, pk3.IsBase())
	require.True(t, pk3.Equal(Base()))
	require.Equal(t, make([]byte, PublicKeySize), Base().Bytes())
}

func TestPublicKeyNonCanonical(t *testing.T) {
	// p itself, little endian.
	p := fp.Modulus()
	blob := make([]byte, PublicKeySize)
	for i, l := range p {
		for j := 0; j < 8; j++ {
			blob[8*i+j] = byte(l >> (8 * j))
		}
	}
	err := NewEmptyPublicKey().FromBytes(blob)
	require.True(t, errors.Is(err, ErrNonCanonical))

	for i := range blob {
		blob[i] = 0xff
	}
	require.ErrorIs(t, NewEmptyPublicKey().FromBytes(blob), ErrNonCanonical)
}

func TestPrivateKeyEncoding(t *testing.T) {
	priv, err := DefaultParams().GeneratePrivateKey(testRNG(t))
	require.NoError(t, err)

	blob, err := priv.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, blob, PrivateKeySize)
	for i, b := range blob {
		require.Equal(t, priv.e[i], int8(b))
	}

	priv2 := NewEmptyPrivateKey()
	require.NoError(t, priv2.UnmarshalBinary(blob))
	require.True(t, priv.Equal(priv2))

	text, err := priv.MarshalText()
	require.NoError(t, err)
	priv3 := NewEmptyPrivateKey()
	require.NoError(t, priv3.UnmarshalText(text))
	require.True(t, priv.Equal(priv3))

	require.ErrorIs(t, priv3.FromBytes(blob[1:]), ErrPrivateKeySize)

	priv3.Reset()
	require.True(t, priv3.Equal(NewEmptyPrivateKey()))
}

func TestCheckBounds(t *testing.T) {
	bounds := defaultBounds
	priv := NewEmptyPrivateKey()
	require.NoError(t, priv.checkBounds(&bounds))

	for i := range priv.e {
		priv.e[i] = bounds[i]
	}
	require.NoError(t, priv.checkBounds(&bounds))
	for i := range priv.e {
		priv.e[i] = -bounds[i]
	}
	require.NoError(t, priv.checkBounds(&bounds))

	priv.e[17] = bounds[17] + 1
	require.ErrorIs(t, priv.checkBounds(&bounds), ErrExponentOutOfRange)
	priv.e[17] = -bounds[17] - 1
	require.ErrorIs(t, priv.checkBounds(&bounds), ErrExponentOutOfRange)
	priv.e[17] = -128
	require.ErrorIs(t, priv.checkBounds(&bounds), ErrExponentOutOfRange)
}
