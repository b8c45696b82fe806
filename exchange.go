// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"io"
	"time"

	"github.com/katzenpost/csidh/internal/instrument"
)

// Exchange validates peer and, if it is a supersingular curve, writes the
// action of priv on it to out and returns true. If peer is invalid, out
// is overwritten with a random field element and false is returned, so a
// caller that ignores the result still ends up with unusable output.
// Errors are only returned for a failing rng or an out of range priv.
func (p *Params) Exchange(out, peer *PublicKey, priv *PrivateKey, rng io.Reader) (bool, error) {
	ok, err := Validate(peer, rng)
	if err != nil {
		return false, err
	}
	if !ok {
		instrument.PublicKeyRejected()
		p.noticef("rejected public key that is not supersingular")
		if _, err := out.a.Random(rng); err != nil {
			return false, err
		}
		return false, nil
	}

	start := time.Now()
	res, err := p.Action(peer, priv, rng)
	if err != nil {
		return false, err
	}
	instrument.GroupAction(time.Since(start))
	*out = *res
	return true, nil
}

// DerivePublicKey returns the public key belonging to priv, i.e. the action
// of priv on the base curve.
func (p *Params) DerivePublicKey(priv *PrivateKey, rng io.Reader) (*PublicKey, error) {
	start := time.Now()
	pub, err := p.Action(Base(), priv, rng)
	if err != nil {
		return nil, err
	}
	instrument.GroupAction(time.Since(start))
	return pub, nil
}

// GenerateKeyPair samples a private key and derives its public key.
func (p *Params) GenerateKeyPair(rng io.Reader) (*PrivateKey, *PublicKey, error) {
	priv, err := p.GeneratePrivateKey(rng)
	if err != nil {
		return nil, nil, err
	}
	pub, err := p.DerivePublicKey(priv, rng)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// DeriveSecret returns the encoding of the shared curve obtained by
// applying priv to peer, or ErrPublicKeyValidation if peer is invalid.
func (p *Params) DeriveSecret(priv *PrivateKey, peer *PublicKey, rng io.Reader) ([]byte, error) {
	shared := new(PublicKey)
	ok, err := p.Exchange(shared, peer, priv, rng)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPublicKeyValidation
	}
	return shared.Bytes(), nil
}
