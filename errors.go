// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package csidh

import (
	"fmt"
)

// Name is the name of the scheme implemented by this package.
const Name = "CSIDH-512"

var (
	// ErrPublicKeyValidation indicates a public key validation failure.
	ErrPublicKeyValidation error = fmt.Errorf("%s: public key validation failure", Name)

	// ErrPublicKeySize indicates the raw data is not the correct size for a public key.
	ErrPublicKeySize error = fmt.Errorf("%s: raw public key data size is wrong", Name)

	// ErrPrivateKeySize indicates the raw data is not the correct size for a private key.
	ErrPrivateKeySize error = fmt.Errorf("%s: raw private key data size is wrong", Name)

	// ErrNonCanonical indicates a public key encoding that is not reduced modulo p.
	ErrNonCanonical error = fmt.Errorf("%s: public key is not canonically encoded", Name)

	// ErrExponentOutOfRange indicates a private key exponent exceeding its bound.
	ErrExponentOutOfRange error = fmt.Errorf("%s: private key exponent out of range", Name)

	// ErrInvalidParams indicates an unusable parameter set.
	ErrInvalidParams error = fmt.Errorf("%s: invalid parameters", Name)
)
