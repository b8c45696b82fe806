// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// Package fp implements constant time arithmetic in the CSIDH-512 prime
// field, p = 4 * 3 * 5 * ... * 587 - 1.
//
// Elements are kept in Montgomery form with respect to R = 2^512 and are
// always fully reduced, so every field element has exactly one
// representation and equality can be decided on the limbs.
package fp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

// Limbs is the number of 64 bit words in an element.
const Limbs = 8

// Size is the size in bytes of an encoded element.
const Size = Limbs * 8

// ErrNonCanonical is returned when decoding an integer that is not
// smaller than p.
var ErrNonCanonical = errors.New("fp: encoding is not reduced modulo p")

// Element is a field element in Montgomery form, little endian limbs.
type Element [Limbs]uint64

var (
	// p itself.
	modulus = Element{
		0x1b81b90533c6c87b, 0xc2721bf457aca835, 0x516730cc1f0b4f25, 0xa7aac6c567f35507,
		0x5afbfcc69322c9cd, 0xb42d083aedc88c42, 0xfc8ab0d15e3e4c4a, 0x65b48e8f740f89bf,
	}

	// R mod p, the Montgomery representation of 1.
	montOne = Element{
		0xc8fc8df598726f0a, 0x7b1bc81750a6af95, 0x5d319e67c1e961b4, 0xb0aa7275301955f1,
		0x4a080672d9ba6c64, 0x97a5ef8a246ee77b, 0x06ea9e5d4383676a, 0x3496e2e117e0ec80,
	}

	// R^2 mod p, used to enter Montgomery form.
	montRSquare = Element{
		0x36905b572ffc1724, 0x67086f4525f1f27d, 0x4faf3fbfd22370ca, 0x192ea214bcc584b1,
		0x5dae03ee2f5de3d0, 0x1e9248731776b371, 0xad5f166e20e4f52d, 0x4ed759aea6f3917e,
	}

	// p - 2 and (p - 1) / 2, the public exponents of Inv and IsSquare.
	expInverse  Element
	expLegendre Element
	modulusBits int
	topLimbMask uint64
)

// -p^-1 mod 2^64.
const montInv = 0x66c1301f632e294d

func init() {
	var b uint64
	for i := 0; i < Limbs; i++ {
		sub := uint64(0)
		if i == 0 {
			sub = 2
		}
		expInverse[i], b = bits.Sub64(modulus[i], sub, b)
	}

	// p is odd, so (p - 1) / 2 is p >> 1.
	for i := 0; i < Limbs-1; i++ {
		expLegendre[i] = modulus[i]>>1 | modulus[i+1]<<63
	}
	expLegendre[Limbs-1] = modulus[Limbs-1] >> 1

	modulusBits = (Limbs-1)*64 + bits.Len64(modulus[Limbs-1])
	topLimbMask = (uint64(1) << (modulusBits - (Limbs-1)*64)) - 1
}

// Modulus returns p as little endian limbs in plain (non Montgomery) form.
func Modulus() [Limbs]uint64 {
	return modulus
}

// BitLen returns the bit length of p.
func BitLen() int {
	return modulusBits
}

// Zero returns the additive identity.
func Zero() Element {
	return Element{}
}

// One returns the multiplicative identity.
func One() Element {
	return montOne
}

// Set sets z = x and returns z.
func (z *Element) Set(x *Element) *Element {
	*z = *x
	return z
}

// SetZero sets z = 0 and returns z.
func (z *Element) SetZero() *Element {
	*z = Element{}
	return z
}

// SetOne sets z = 1 and returns z.
func (z *Element) SetOne() *Element {
	*z = montOne
	return z
}

// SetUint64 sets z to the field element v and returns z.
func (z *Element) SetUint64(v uint64) *Element {
	t := Element{v}
	return z.Mul(&t, &montRSquare)
}

// SetLimbs sets z to the integer x, given as little endian limbs in plain
// form. x must be smaller than p.
func (z *Element) SetLimbs(x *[Limbs]uint64) error {
	if !lessThanModulus(x) {
		return ErrNonCanonical
	}
	t := Element(*x)
	z.Mul(&t, &montRSquare)
	return nil
}

// Canonical returns the canonical integer representative of z as little endian
// limbs.
func (z *Element) Canonical() [Limbs]uint64 {
	var t Element
	one := Element{1}
	t.Mul(z, &one)
	return t
}

// Add sets z = x + y and returns z.
func (z *Element) Add(x, y *Element) *Element {
	var t, s Element
	var c, b uint64
	for i := 0; i < Limbs; i++ {
		t[i], c = bits.Add64(x[i], y[i], c)
	}
	for i := 0; i < Limbs; i++ {
		s[i], b = bits.Sub64(t[i], modulus[i], b)
	}
	// Keep t iff t < p, i.e. the subtraction borrowed and the addition
	// did not carry.
	_, b = bits.Sub64(c, 0, b)
	selectLimbs(z, &t, &s, b)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Element) Sub(x, y *Element) *Element {
	var t Element
	var b, c uint64
	for i := 0; i < Limbs; i++ {
		t[i], b = bits.Sub64(x[i], y[i], b)
	}
	mask := -b
	for i := 0; i < Limbs; i++ {
		z[i], c = bits.Add64(t[i], modulus[i]&mask, c)
	}
	return z
}

// Neg sets z = -x and returns z.
func (z *Element) Neg(x *Element) *Element {
	var zero Element
	return z.Sub(&zero, x)
}

// Double sets z = 2x and returns z.
func (z *Element) Double(x *Element) *Element {
	return z.Add(x, x)
}

// Mul sets z = x * y and returns z, using coarsely integrated operand
// scanning Montgomery multiplication.
func (z *Element) Mul(x, y *Element) *Element {
	var t [Limbs + 2]uint64
	for i := 0; i < Limbs; i++ {
		var c, cc, hi, lo uint64
		for j := 0; j < Limbs; j++ {
			hi, lo = bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[Limbs], cc = bits.Add64(t[Limbs], c, 0)
		t[Limbs+1] = cc

		m := t[0] * montInv
		hi, lo = bits.Mul64(m, modulus[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < Limbs; j++ {
			hi, lo = bits.Mul64(m, modulus[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[Limbs-1], cc = bits.Add64(t[Limbs], c, 0)
		t[Limbs] = t[Limbs+1] + cc
	}

	var r, s Element
	copy(r[:], t[:Limbs])
	var b uint64
	for i := 0; i < Limbs; i++ {
		s[i], b = bits.Sub64(r[i], modulus[i], b)
	}
	_, b = bits.Sub64(t[Limbs], 0, b)
	selectLimbs(z, &r, &s, b)
	return z
}

// Square sets z = x^2 and returns z.
func (z *Element) Square(x *Element) *Element {
	return z.Mul(x, x)
}

// exp sets z = x^e for a public exponent e.
func (z *Element) exp(x *Element, e *Element) *Element {
	base := *x
	acc := montOne
	for i := modulusBits - 1; i >= 0; i-- {
		acc.Square(&acc)
		if (e[i/64]>>(uint(i)%64))&1 == 1 {
			acc.Mul(&acc, &base)
		}
	}
	*z = acc
	return z
}

// Inv sets z = 1/x and returns z. The inverse of zero is zero. The
// running time does not depend on x.
func (z *Element) Inv(x *Element) *Element {
	return z.exp(x, &expInverse)
}

// IsSquare returns 1 if z is a square in F_p (zero included) and 0
// otherwise, without branching on z.
func (z *Element) IsSquare() uint64 {
	var t Element
	t.exp(z, &expLegendre)
	return t.Equal(&montOne) | t.IsZero()
}

// Equal returns 1 if z == x and 0 otherwise, in constant time.
func (z *Element) Equal(x *Element) uint64 {
	var acc uint64
	for i := 0; i < Limbs; i++ {
		acc |= z[i] ^ x[i]
	}
	return isZeroWord(acc)
}

// IsZero returns 1 if z == 0 and 0 otherwise, in constant time.
func (z *Element) IsZero() uint64 {
	var acc uint64
	for i := 0; i < Limbs; i++ {
		acc |= z[i]
	}
	return isZeroWord(acc)
}

// IsOne returns 1 if z == 1 and 0 otherwise, in constant time.
func (z *Element) IsOne() uint64 {
	return z.Equal(&montOne)
}

// CondSwap swaps x and y when c == 1 and leaves them untouched when c == 0.
func CondSwap(x, y *Element, c uint64) {
	mask := -c
	for i := 0; i < Limbs; i++ {
		t := mask & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
}

// CondAssign sets z = x when c == 1 and leaves z untouched when c == 0.
func (z *Element) CondAssign(x *Element, c uint64) *Element {
	mask := -c
	for i := 0; i < Limbs; i++ {
		z[i] ^= mask & (z[i] ^ x[i])
	}
	return z
}

// Random sets z to a uniformly random field element drawn from rng by
// rejection sampling.
func (z *Element) Random(rng io.Reader) (*Element, error) {
	var buf [Size]byte
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return nil, fmt.Errorf("fp: failed to read entropy: %w", err)
		}
		var t [Limbs]uint64
		for i := range t {
			t[i] = binary.LittleEndian.Uint64(buf[8*i:])
		}
		t[Limbs-1] &= topLimbMask
		if lessThanModulus(&t) {
			// Montgomery form is a bijection on [0, p).
			*z = Element(t)
			return z, nil
		}
	}
}

// Bytes returns the canonical 64 byte little endian encoding of z.
func (z *Element) Bytes() []byte {
	out := make([]byte, Size)
	l := z.Canonical()
	for i := range l {
		binary.LittleEndian.PutUint64(out[8*i:], l[i])
	}
	return out
}

// SetBytes decodes a 64 byte little endian integer into z. The integer
// must be smaller than p.
func (z *Element) SetBytes(b []byte) (*Element, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("fp: invalid encoding length %d", len(b))
	}
	var t [Limbs]uint64
	for i := range t {
		t[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	if err := z.SetLimbs(&t); err != nil {
		return nil, err
	}
	return z, nil
}

// String returns the canonical integer in hexadecimal.
func (z Element) String() string {
	l := z.Canonical()
	s := "0x"
	for i := Limbs - 1; i >= 0; i-- {
		s += fmt.Sprintf("%016x", l[i])
	}
	return s
}

// lessThanModulus reports whether x < p. Only used on public data or
// in ways where the result is revealed anyway (rejection sampling).
func lessThanModulus(x *[Limbs]uint64) bool {
	var b uint64
	for i := 0; i < Limbs; i++ {
		_, b = bits.Sub64(x[i], modulus[i], b)
	}
	return b == 1
}

// selectLimbs sets z = a if c == 1 and z = b if c == 0.
func selectLimbs(z, a, b *Element, c uint64) {
	mask := -c
	for i := 0; i < Limbs; i++ {
		z[i] = b[i] ^ (mask & (a[i] ^ b[i]))
	}
}

func isZeroWord(w uint64) uint64 {
	// (w | -w) has the top bit set iff w != 0.
	return 1 ^ ((w | -w) >> 63)
}
