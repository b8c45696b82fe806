// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"

	"github.com/katzenpost/csidh/internal/fp"
)

const (
	// PublicKeySize is the size in bytes of an encoded public key.
	PublicKeySize = fp.Size

	// PrivateKeySize is the size in bytes of an encoded private key.
	PrivateKeySize = NumPrimes
)

// PublicKey is a Montgomery coefficient A, standing for the curve
// y^2 = x^3 + A x^2 + x.
type PublicKey struct {
	a fp.Element
}

// Base returns the public key of the starting curve, A = 0.
func Base() *PublicKey {
	return new(PublicKey)
}

// NewEmptyPublicKey returns an uninitialized PublicKey which is suitable
// to be loaded via FromBytes.
func NewEmptyPublicKey() *PublicKey {
	return new(PublicKey)
}

// String returns a string identifying this type as a CSIDH public key.
func (p *PublicKey) String() string {
	return "CSIDH512_PublicKey"
}

// Reset resets the PublicKey to the base curve.
func (p *PublicKey) Reset() {
	p.a.SetZero()
}

// Bytes returns the canonical little endian encoding of A.
func (p *PublicKey) Bytes() []byte {
	return p.a.Bytes()
}

// FromBytes loads a PublicKey from the given byte slice. The encoding is
// checked for size and canonicity only; use Validate to check that the
// curve is supersingular.
func (p *PublicKey) FromBytes(data []byte) error {
	if len(data) != PublicKeySize {
		return ErrPublicKeySize
	}
	if _, err := p.a.SetBytes(data); err != nil {
		if errors.Is(err, fp.ErrNonCanonical) {
			return ErrNonCanonical
		}
		return err
	}
	return nil
}

// Equal is a constant time comparison of the two public keys.
func (p *PublicKey) Equal(publicKey *PublicKey) bool {
	return hmac.Equal(p.Bytes(), publicKey.Bytes())
}

// IsBase reports whether p is the starting curve.
func (p *PublicKey) IsBase() bool {
	return p.a.IsZero() == 1
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
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

// UnmarshalText is an implementation of a method on the
// TextUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

// PrivateKey is a vector of signed exponents, one per small prime.
type PrivateKey struct {
	e [NumPrimes]int8
}

// NewEmptyPrivateKey returns an all zero PrivateKey which is suitable to
// be loaded via FromBytes.
func NewEmptyPrivateKey() *PrivateKey {
	return new(PrivateKey)
}

// String returns a string identifying this type as a CSIDH private key.
func (p *PrivateKey) String() string {
	return "CSIDH512_PrivateKey"
}

// Reset resets the PrivateKey to all zeros.
func (p *PrivateKey) Reset() {
	for i := range p.e {
		p.e[i] = 0
	}
}

// Bytes serializes the exponents, one two's complement byte each.
func (p *PrivateKey) Bytes() []byte {
	out := make([]byte, PrivateKeySize)
	for i, v := range p.e {
		out[i] = byte(v)
	}
	return out
}

// FromBytes loads a PrivateKey from the given byte slice.
func (p *PrivateKey) FromBytes(data []byte) error {
	if len(data) != PrivateKeySize {
		return ErrPrivateKeySize
	}
	for i := range p.e {
		p.e[i] = int8(data[i])
	}
	return nil
}

// Equal is a constant time comparison of the two private keys.
func (p *PrivateKey) Equal(privateKey *PrivateKey) bool {
	return hmac.Equal(p.Bytes(), privateKey.Bytes())
}

// MarshalBinary is an implementation of a method on the
// BinaryMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary is an implementation of a method on the
// BinaryUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

// MarshalText is an implementation of a method on the
// TextMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

// UnmarshalText is an implementation of a method on the
// TextUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

// checkBounds returns ErrExponentOutOfRange unless |e_i| <= bounds_i for
// every i. Only the overall verdict is branched on.
func (p *PrivateKey) checkBounds(bounds *[NumPrimes]int8) error {
	var bad int32
	for i := range p.e {
		e, b := int32(p.e[i]), int32(bounds[i])
		bad |= (b - e) | (b + e)
	}
	if bad < 0 {
		return ErrExponentOutOfRange
	}
	return nil
}
