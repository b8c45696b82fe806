// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// Package u512 provides the fixed width unsigned integers used as ladder
// scalars and cofactor products. None of these operations handle secret
// data.
package u512

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Limbs is the number of 64 bit words in a Uint512.
const Limbs = 8

// Uint512 is a 512 bit unsigned integer, little endian limbs.
type Uint512 [Limbs]uint64

// New returns a Uint512 holding v.
func New(v uint64) *Uint512 {
	return new(Uint512).SetUint64(v)
}

// SetUint64 sets z = v and returns z.
func (z *Uint512) SetUint64(v uint64) *Uint512 {
	*z = Uint512{v}
	return z
}

// MulSmall sets z = x * m mod 2^512 and returns the carry word that did
// not fit.
func (z *Uint512) MulSmall(x *Uint512, m uint64) uint64 {
	var c uint64
	for i := 0; i < Limbs; i++ {
		hi, lo := bits.Mul64(x[i], m)
		var cc uint64
		z[i], cc = bits.Add64(lo, c, 0)
		c = hi + cc
	}
	return c
}

// Sub sets z = x - y mod 2^512 and returns the borrow.
func (z *Uint512) Sub(x, y *Uint512) uint64 {
	var b uint64
	for i := 0; i < Limbs; i++ {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	return b
}

// Add sets z = x + y mod 2^512 and returns the carry.
func (z *Uint512) Add(x, y *Uint512) uint64 {
	var c uint64
	for i := 0; i < Limbs; i++ {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// Cmp returns -1, 0 or +1 depending on whether z < x, z == x or z > x.
func (z *Uint512) Cmp(x *Uint512) int {
	for i := Limbs - 1; i >= 0; i-- {
		switch {
		case z[i] < x[i]:
			return -1
		case z[i] > x[i]:
			return 1
		}
	}
	return 0
}

// Bit returns bit i of z.
func (z *Uint512) Bit(i int) uint64 {
	return (z[i/64] >> (uint(i) % 64)) & 1
}

// BitLen returns the number of significant bits of z.
func (z *Uint512) BitLen() int {
	for i := Limbs - 1; i >= 0; i-- {
		if z[i] != 0 {
			return i*64 + bits.Len64(z[i])
		}
	}
	return 0
}

// IsOne reports whether z == 1.
func (z *Uint512) IsOne() bool {
	return *z == Uint512{1}
}

// IsZero reports whether z == 0.
func (z *Uint512) IsZero() bool {
	return *z == Uint512{}
}

// Bytes returns the 64 byte little endian encoding of z.
func (z *Uint512) Bytes() []byte {
	out := make([]byte, Limbs*8)
	for i := 0; i < Limbs; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], z[i])
	}
	return out
}

// SetBytes decodes a 64 byte little endian integer into z.
func (z *Uint512) SetBytes(b []byte) (*Uint512, error) {
	if len(b) != Limbs*8 {
		return nil, fmt.Errorf("u512: invalid encoding length %d", len(b))
	}
	for i := 0; i < Limbs; i++ {
		z[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return z, nil
}

// Isqrt returns the integer square root of x, i.e. the largest r with
// r*r <= x.
func Isqrt(x *Uint512) *Uint512 {
	var res, bit Uint512
	num := *x
	n := x.BitLen()
	if n == 0 {
		return &res
	}
	s := uint(n-1) &^ 1
	bit[s/64] = 1 << (s % 64)
	for !bit.IsZero() {
		var t Uint512
		t.Add(&res, &bit)
		res.rsh(1)
		if num.Cmp(&t) >= 0 {
			num.Sub(&num, &t)
			res.Add(&res, &bit)
		}
		bit.rsh(2)
	}
	return &res
}

// rsh shifts z right by s bits, s < 64.
func (z *Uint512) rsh(s uint) {
	for i := 0; i < Limbs-1; i++ {
		z[i] = z[i]>>s | z[i+1]<<(64-s)
	}
	z[Limbs-1] >>= s
}

// String returns z in hexadecimal.
func (z Uint512) String() string {
	s := "0x"
	for i := Limbs - 1; i >= 0; i-- {
		s += fmt.Sprintf("%016x", z[i])
	}
	return s
}
