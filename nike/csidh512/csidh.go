// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// Package csidh512 exposes the constant time CSIDH-512 group action as a
// hpqc NIKE scheme.
package csidh512

import (
	"io"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/rand"

	"github.com/katzenpost/csidh"
	"github.com/katzenpost/csidh/internal/instrument"
)

type scheme struct {
	params *csidh.Params
	rng    io.Reader
}

var sch = &scheme{
	params: csidh.DefaultParams(),
	rng:    rand.Reader,
}

var _ nike.PrivateKey = (*PrivateKey)(nil)
var _ nike.PublicKey = (*PublicKey)(nil)
var _ nike.Scheme = (*scheme)(nil)

// Scheme returns the NIKE scheme with the default parameters, drawing
// randomness from the hpqc rand.Reader.
func Scheme() nike.Scheme { return sch }

// NewScheme returns a NIKE scheme for the given parameters. rng is used
// for key generation, public key validation and the point sampling of
// every group action.
func NewScheme(params *csidh.Params, rng io.Reader) nike.Scheme {
	return &scheme{
		params: params,
		rng:    rng,
	}
}

func (s *scheme) Name() string {
	return csidh.Name
}

// PublicKeySize returns the size in bytes of the public key.
func (s *scheme) PublicKeySize() int {
	return csidh.PublicKeySize
}

// PrivateKeySize returns the size in bytes of the private key.
func (s *scheme) PrivateKeySize() int {
	return csidh.PrivateKeySize
}

func (s *scheme) NewEmptyPublicKey() nike.PublicKey {
	return &PublicKey{
		publicKey: csidh.NewEmptyPublicKey(),
		scheme:    s,
	}
}

func (s *scheme) NewEmptyPrivateKey() nike.PrivateKey {
	return &PrivateKey{
		privateKey: csidh.NewEmptyPrivateKey(),
		scheme:     s,
	}
}

func (s *scheme) GeneratePrivateKey(rng io.Reader) nike.PrivateKey {
	priv, err := s.params.GeneratePrivateKey(rng)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{
		privateKey: priv,
		scheme:     s,
	}
}

func (s *scheme) GenerateKeyPairFromEntropy(rng io.Reader) (nike.PublicKey, nike.PrivateKey, error) {
	priv, pub, err := s.params.GenerateKeyPair(rng)
	if err != nil {
		return nil, nil, err
	}
	instrument.KeyGenerated()
	return &PublicKey{
			publicKey: pub,
			scheme:    s,
		}, &PrivateKey{
			privateKey: priv,
			scheme:     s,
		}, nil
}

// GenerateKeyPair creates a new key pair.
func (s *scheme) GenerateKeyPair() (nike.PublicKey, nike.PrivateKey, error) {
	return s.GenerateKeyPairFromEntropy(s.rng)
}

// DeriveSecret derives a shared secret given a private key from one party
// and a public key from another. It panics if the public key is not a
// supersingular curve.
func (s *scheme) DeriveSecret(privKey nike.PrivateKey, pubKey nike.PublicKey) []byte {
	secret, err := s.params.DeriveSecret(privKey.(*PrivateKey).privateKey, pubKey.(*PublicKey).publicKey, s.rng)
	if err != nil {
		panic(err)
	}
	return secret
}

// DerivePublicKey derives a public key given a private key.
func (s *scheme) DerivePublicKey(privKey nike.PrivateKey) nike.PublicKey {
	pub, err := s.params.DerivePublicKey(privKey.(*PrivateKey).privateKey, s.rng)
	if err != nil {
		panic(err)
	}
	return &PublicKey{
		publicKey: pub,
		scheme:    s,
	}
}

// Blind applies blindingFactor to groupMember. The group action is
// commutative, so blinding twice with the same pair of factors in either
// order gives the same key.
func (s *scheme) Blind(groupMember nike.PublicKey, blindingFactor nike.PrivateKey) nike.PublicKey {
	blinded, err := s.params.Action(
		groupMember.(*PublicKey).publicKey,
		blindingFactor.(*PrivateKey).privateKey,
		s.rng,
	)
	if err != nil {
		panic(err)
	}
	return &PublicKey{
		publicKey: blinded,
		scheme:    s,
	}
}

func (s *scheme) UnmarshalBinaryPublicKey(b []byte) (nike.PublicKey, error) {
	pubkey := s.NewEmptyPublicKey()
	if err := pubkey.FromBytes(b); err != nil {
		return nil, err
	}
	return pubkey, nil
}

func (s *scheme) UnmarshalBinaryPrivateKey(b []byte) (nike.PrivateKey, error) {
	privkey := s.NewEmptyPrivateKey()
	if err := privkey.FromBytes(b); err != nil {
		return nil, err
	}
	return privkey, nil
}

type PublicKey struct {
	publicKey *csidh.PublicKey
	scheme    *scheme
}

// NewPublicKey wraps pub for use with s without validating it again. s
// must be a scheme returned by this package.
func NewPublicKey(s nike.Scheme, pub *csidh.PublicKey) *PublicKey {
	return &PublicKey{
		publicKey: pub,
		scheme:    s.(*scheme),
	}
}

// Blind replaces p with the action of blindingFactor on it.
func (p *PublicKey) Blind(blindingFactor nike.PrivateKey) error {
	blinded, err := p.scheme.params.Action(p.publicKey, blindingFactor.(*PrivateKey).privateKey, p.scheme.rng)
	if err != nil {
		return err
	}
	p.publicKey = blinded
	return nil
}

func (p *PublicKey) Reset() {
	p.publicKey.Reset()
}

func (p *PublicKey) Bytes() []byte {
	return p.publicKey.Bytes()
}

// FromBytes loads and validates a public key. Curves that are not
// supersingular are rejected with csidh.ErrPublicKeyValidation.
func (p *PublicKey) FromBytes(data []byte) error {
	pub := csidh.NewEmptyPublicKey()
	if err := pub.FromBytes(data); err != nil {
		return err
	}
	ok, err := csidh.Validate(pub, p.scheme.rng)
	if err != nil {
		return err
	}
	if !ok {
		instrument.PublicKeyRejected()
		return csidh.ErrPublicKeyValidation
	}
	p.publicKey = pub
	return nil
}

// MarshalBinary is an implementation of a method on the
// BinaryMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary is an implementation of a method on the
// BinaryUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

// MarshalText is an implementation of a method on the
// TextMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) MarshalText() ([]byte, error) {
	return p.publicKey.MarshalText()
}

// UnmarshalText is an implementation of a method on the
// TextUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) UnmarshalText(data []byte) error {
	pub := csidh.NewEmptyPublicKey()
	if err := pub.UnmarshalText(data); err != nil {
		return err
	}
	return p.FromBytes(pub.Bytes())
}

// Key returns the underlying curve.
func (p *PublicKey) Key() *csidh.PublicKey {
	return p.publicKey
}

type PrivateKey struct {
	privateKey *csidh.PrivateKey
	scheme     *scheme
}

// Public derives the public key. This runs a full group action.
func (p *PrivateKey) Public() nike.PublicKey {
	return p.scheme.DerivePublicKey(p)
}

func (p *PrivateKey) Reset() {
	p.privateKey.Reset()
}

func (p *PrivateKey) Bytes() []byte {
	return p.privateKey.Bytes()
}

// FromBytes loads a private key and checks its exponents against the
// bounds of the scheme.
func (p *PrivateKey) FromBytes(data []byte) error {
	priv := csidh.NewEmptyPrivateKey()
	if err := priv.FromBytes(data); err != nil {
		return err
	}
	if err := p.scheme.params.CheckPrivateKey(priv); err != nil {
		return err
	}
	p.privateKey = priv
	return nil
}

func (p *PrivateKey) MarshalBinary() ([]byte, error) {
	return p.privateKey.MarshalBinary()
}

func (p *PrivateKey) MarshalText() ([]byte, error) {
	return p.privateKey.MarshalText()
}

func (p *PrivateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *PrivateKey) UnmarshalText(data []byte) error {
	priv := csidh.NewEmptyPrivateKey()
	if err := priv.UnmarshalText(data); err != nil {
		return err
	}
	return p.FromBytes(priv.Bytes())
}

// Key returns the underlying exponent vector.
func (p *PrivateKey) Key() *csidh.PrivateKey {
	return p.privateKey
}
