// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh512

import (
	"testing"

	"github.com/katzenpost/hpqc/nike/pem"
	"github.com/katzenpost/hpqc/rand"
	"github.com/stretchr/testify/require"

	"github.com/katzenpost/csidh"
)

func testScheme(t *testing.T) *scheme {
	var bounds [csidh.NumPrimes]int8
	for i := 0; i < csidh.NumPrimes; i += 8 {
		bounds[i] = 1
	}
	params, err := csidh.NewParams(bounds, 2, 2)
	require.NoError(t, err)

	seed := make([]byte, 32)
	copy(seed, []byte(t.Name()))
	rng, err := rand.NewDeterministicRandReader(seed)
	require.NoError(t, err)
	return NewScheme(params, rng).(*scheme)
}

// oneStepKey is the private key with a single 3-isogeny.
func oneStepKey(t *testing.T, s *scheme) *PrivateKey {
	raw := make([]byte, csidh.PrivateKeySize)
	raw[0] = 1
	priv, err := s.UnmarshalBinaryPrivateKey(raw)
	require.NoError(t, err)
	return priv.(*PrivateKey)
}

func TestSchemeSizes(t *testing.T) {
	s := Scheme()
	require.Equal(t, "CSIDH-512", s.Name())
	require.Equal(t, 64, s.PublicKeySize())
	require.Equal(t, 74, s.PrivateKeySize())
	require.Len(t, s.NewEmptyPublicKey().Bytes(), s.PublicKeySize())
	require.Len(t, s.NewEmptyPrivateKey().Bytes(), s.PrivateKeySize())

	priv := s.GeneratePrivateKey(rand.Reader)
	require.Len(t, priv.Bytes(), s.PrivateKeySize())
}

func TestNIKE(t *testing.T) {
	s := testScheme(t)

	alicePub, alicePriv, err := s.GenerateKeyPair()
	require.NoError(t, err)
	bobPub, bobPriv, err := s.GenerateKeyPair()
	require.NoError(t, err)

	aliceShared := s.DeriveSecret(alicePriv, bobPub)
	bobShared := s.DeriveSecret(bobPriv, alicePub)
	require.Equal(t, aliceShared, bobShared)

	require.Equal(t, alicePub.Bytes(), alicePriv.Public().Bytes())
	require.Equal(t, bobPub.Bytes(), s.DerivePublicKey(bobPriv).Bytes())
}

func TestBlindCommutes(t *testing.T) {
	s := testScheme(t)

	pub, _, err := s.GenerateKeyPair()
	require.NoError(t, err)
	x := s.GeneratePrivateKey(s.rng)
	y := s.GeneratePrivateKey(s.rng)

	xy := s.Blind(s.Blind(pub, x), y)
	yx := s.Blind(s.Blind(pub, y), x)
	require.Equal(t, xy.Bytes(), yx.Bytes())

	mutated, err := s.UnmarshalBinaryPublicKey(pub.Bytes())
	require.NoError(t, err)
	require.NoError(t, mutated.Blind(x))
	require.NoError(t, mutated.Blind(y))
	require.Equal(t, xy.Bytes(), mutated.Bytes())
}

func TestUnmarshalRejects(t *testing.T) {
	s := testScheme(t)

	// A = 5 is not supersingular.
	raw := make([]byte, csidh.PublicKeySize)
	raw[0] = 5
	_, err := s.UnmarshalBinaryPublicKey(raw)
	require.ErrorIs(t, err, csidh.ErrPublicKeyValidation)

	_, err = s.UnmarshalBinaryPublicKey(raw[:32])
	require.ErrorIs(t, err, csidh.ErrPublicKeySize)

	// Index 1 has a zero bound in the test scheme.
	rawPriv := make([]byte, csidh.PrivateKeySize)
	rawPriv[1] = 1
	_, err = s.UnmarshalBinaryPrivateKey(rawPriv)
	require.ErrorIs(t, err, csidh.ErrExponentOutOfRange)

	_, err = s.UnmarshalBinaryPrivateKey(rawPriv[:10])
	require.ErrorIs(t, err, csidh.ErrPrivateKeySize)
}

func TestDeriveSecretPanicsOnInvalidKey(t *testing.T) {
	s := testScheme(t)
	priv := oneStepKey(t, s)

	raw := make([]byte, csidh.PublicKeySize)
	raw[0] = 5
	bad := csidh.NewEmptyPublicKey()
	require.NoError(t, bad.FromBytes(raw))

	require.Panics(t, func() {
		s.DeriveSecret(priv, &PublicKey{publicKey: bad, scheme: s})
	})
}

func TestTextRoundTrip(t *testing.T) {
	s := testScheme(t)
	priv := oneStepKey(t, s)
	pub := priv.Public()

	text, err := pub.MarshalText()
	require.NoError(t, err)
	pub2 := s.NewEmptyPublicKey()
	require.NoError(t, pub2.UnmarshalText(text))
	require.Equal(t, pub.Bytes(), pub2.Bytes())

	text, err = priv.MarshalText()
	require.NoError(t, err)
	priv2 := s.NewEmptyPrivateKey()
	require.NoError(t, priv2.UnmarshalText(text))
	require.Equal(t, priv.Bytes(), priv2.Bytes())
}

func TestPEMRoundTrip(t *testing.T) {
	s := testScheme(t)
	priv := oneStepKey(t, s)
	pub := s.DerivePublicKey(priv)
	require.False(t, pub.(*PublicKey).Key().IsBase())

	pubPEM := pem.ToPublicPEMString(pub, s)
	require.Contains(t, pubPEM, "CSIDH-512 PUBLIC KEY")
	pub2, err := pem.FromPublicPEMString(pubPEM, s)
	require.NoError(t, err)
	require.Equal(t, pub.Bytes(), pub2.Bytes())

	privPEM := pem.ToPrivatePEMString(priv, s)
	priv2, err := pem.FromPrivatePEMString(privPEM, s)
	require.NoError(t, err)
	require.True(t, priv.Key().Equal(priv2.(*PrivateKey).Key()))
}

func TestNewPublicKey(t *testing.T) {
	s := testScheme(t)
	priv := oneStepKey(t, s)

	pub, err := s.params.DerivePublicKey(priv.Key(), s.rng)
	require.NoError(t, err)
	npub := NewPublicKey(s, pub)
	require.Equal(t, pub.Bytes(), npub.Bytes())
	require.Equal(t, s.DerivePublicKey(priv).Bytes(), npub.Bytes())

	base := NewPublicKey(s, csidh.Base())
	blinded := s.Blind(base, priv)
	require.Equal(t, npub.Bytes(), blinded.Bytes())

	require.Panics(t, func() { NewPublicKey(nil, pub) })
}
