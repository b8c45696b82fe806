// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"fmt"

	"gopkg.in/op/go-logging.v1"

	"github.com/katzenpost/csidh/internal/u512"
)

const (
	// DefaultNumBatches is the number of prime batches of the default
	// parameter set.
	DefaultNumBatches = 3

	// DefaultMergeThreshold is the number of rounds per batch after which
	// the batches of the default parameter set are merged.
	DefaultMergeThreshold = 8
)

// Params is a group action parameter set. The exported fields are fixed
// by NewParams; construct a new Params rather than mutating them.
type Params struct {
	// Bounds holds the per prime exponent bounds max_i.
	Bounds [NumPrimes]int8

	// NumBatches is the number of batches the primes are split into
	// (round robin by index).
	NumBatches int

	// MergeThreshold is the number of rounds per batch after which all
	// remaining primes are merged into a single batch.
	MergeThreshold int

	// Logger optionally receives traces of the public round structure.
	Logger *logging.Logger

	numIsogenies int
	batchFactors []u512.Uint512
	lastIndex    []int
}

// NewParams validates a parameter set and precomputes the values derived
// from it.
func NewParams(bounds [NumPrimes]int8, numBatches, mergeThreshold int) (*Params, error) {
	p := &Params{
		Bounds:         bounds,
		NumBatches:     numBatches,
		MergeThreshold: mergeThreshold,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	for _, b := range bounds {
		p.numIsogenies += int(b)
	}
	p.batchFactors = make([]u512.Uint512, numBatches)
	p.lastIndex = make([]int, numBatches)
	for m := 0; m < numBatches; m++ {
		p.batchFactors[m] = *batchFactor(&bounds, numBatches, m)
		p.lastIndex[m] = lastIndex(numBatches, m)
	}
	return p, nil
}

// DefaultParams returns the default CSIDH-512 parameter set: the shipped
// bounds, three batches and merging after eight rounds per batch.
func DefaultParams() *Params {
	p, err := NewParams(defaultBounds, DefaultNumBatches, DefaultMergeThreshold)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Params) validate() error {
	nonZero := false
	for i, b := range p.Bounds {
		if b < 0 {
			return fmt.Errorf("%w: negative bound %d for prime %d", ErrInvalidParams, b, primes[i])
		}
		if b != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return fmt.Errorf("%w: all bounds are zero", ErrInvalidParams)
	}
	if p.NumBatches < 1 || p.NumBatches > NumPrimes {
		return fmt.Errorf("%w: batch count %d out of range", ErrInvalidParams, p.NumBatches)
	}
	if p.MergeThreshold < 0 {
		return fmt.Errorf("%w: negative merge threshold", ErrInvalidParams)
	}
	return nil
}

// NumIsogenies returns the number of real plus dummy isogenies performed by
// every group action, the sum of the bounds.
func (p *Params) NumIsogenies() int {
	return p.numIsogenies
}

// CheckPrivateKey returns ErrExponentOutOfRange if priv does not fit
// within the bounds of p.
func (p *Params) CheckPrivateKey(priv *PrivateKey) error {
	return priv.checkBounds(&p.Bounds)
}

// BatchFactor returns the initial point scaling factor of batch m: 4 times
// the product of every prime that is not handled by batch m.
func (p *Params) BatchFactor(m int) u512.Uint512 {
	return p.batchFactors[m]
}

// LastIndex returns the largest prime index of batch m. No point images
// are computed for its isogenies.
func (p *Params) LastIndex(m int) int {
	return p.lastIndex[m]
}

// batchFactor returns 4 * prod{ l_j : j mod n != m or bound_j == 0 }.
// Primes with a zero bound never need an isogeny, so they are treated as
// finished from the start.
func batchFactor(bounds *[NumPrimes]int8, n, m int) *u512.Uint512 {
	k := u512.New(4)
	for j := 0; j < NumPrimes; j++ {
		if j%n != m || bounds[j] == 0 {
			k.MulSmall(k, primes[j])
		}
	}
	return k
}

func lastIndex(n, m int) int {
	last := m
	for j := m; j < NumPrimes; j += n {
		last = j
	}
	return last
}

func (p *Params) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}

func (p *Params) noticef(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Noticef(format, args...)
	}
}
