// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"fmt"
	"io"

	"github.com/katzenpost/hpqc/util"
)

// sampleBlockSize is the number of random bytes drawn at a time.
const sampleBlockSize = 64

// GeneratePrivateKey samples an exponent vector with e_i uniform in
// [-bounds_i, bounds_i], reading bytes from rng.
//
// Random bytes are interpreted as signed values and accepted when they
// fall inside the bound of the next coordinate. Accepted values are read
// back with a full scan of the block so the accepted position does not
// show up in the memory access pattern.
func GeneratePrivateKey(rng io.Reader, bounds *[NumPrimes]int8) (*PrivateKey, error) {
	priv := new(PrivateKey)
	var raw [sampleBlockSize]byte
	var buf [sampleBlockSize]int8
	defer util.ExplicitBzero(raw[:])

	for i := 0; i < NumPrimes; {
		if _, err := io.ReadFull(rng, raw[:]); err != nil {
			return nil, fmt.Errorf("%s: failed to sample private key: %w", Name, err)
		}
		for j := range raw {
			buf[j] = int8(raw[j])
		}
		for j := 0; j < sampleBlockSize; j++ {
			if buf[j] <= bounds[i] && buf[j] >= -bounds[i] {
				priv.e[i] = lookup(j, buf[:])
				i++
				if i >= NumPrimes {
					break
				}
			}
		}
	}
	for j := range buf {
		buf[j] = 0
	}
	return priv, nil
}

// GeneratePrivateKey samples a private key within the bounds of p.
func (p *Params) GeneratePrivateKey(rng io.Reader) (*PrivateKey, error) {
	return GeneratePrivateKey(rng, &p.Bounds)
}
