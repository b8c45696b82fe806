// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

// isEqual returns 1 if a == b and 0 otherwise without comparing.
func isEqual(a, b uint32) uint32 {
	r := (a ^ b) & 0xff
	r |= ((a ^ b) >> 8) & 0xff
	r |= ((a ^ b) >> 16) & 0xff
	r |= ((a ^ b) >> 24) & 0xff
	r = -r
	r >>= 31
	return 1 - r
}

// cmov sets *r = a when b == 1 and leaves it alone when b == 0.
func cmov(r *int8, a int8, b uint32) {
	mask := int8(-int32(b))
	*r ^= (*r ^ a) & mask
}

// lookup returns v[pos] after touching every entry of v, so that the
// memory access pattern does not reveal pos.
func lookup(pos int, v []int8) int8 {
	r := v[0]
	for i := 1; i < len(v); i++ {
		cmov(&r, v[i], isEqual(uint32(i), uint32(pos)))
	}
	return r
}
