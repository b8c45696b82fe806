// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/katzenpost/hpqc/nike/pem"
	"github.com/katzenpost/hpqc/rand"
	"github.com/stretchr/testify/require"

	"github.com/katzenpost/csidh/nike/csidh512"
)

func TestTruncatePEMForLogging(t *testing.T) {
	scheme := csidh512.Scheme()
	priv := scheme.GeneratePrivateKey(rand.Reader)

	fullPEM := pem.ToPrivatePEMString(priv, scheme)
	truncated := TruncatePEMForLogging(fullPEM)

	lines := strings.Split(strings.TrimSpace(truncated), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "-----BEGIN CSIDH-512 PRIVATE KEY-----", lines[0])
	require.Equal(t, "...", lines[2])
	require.Less(t, len(truncated), len(fullPEM))

	shortPEM := "-----BEGIN TEST-----\n-----END TEST-----"
	require.Equal(t, shortPEM, TruncatePEMForLogging(shortPEM))
}

func TestIsUsageError(t *testing.T) {
	tests := map[string]bool{
		"unknown flag: --bogus":                    true,
		"accepts 1 arg(s), received 0":             true,
		"failed to load config file 'x.toml'":      true,
		`required flag(s) "private" not set`:       true,
		"CSIDH-512: public key validation failure": false,
		"open key.pem: no such file or directory":  false,
	}
	for msg, want := range tests {
		require.Equal(t, want, IsUsageError(errors.New(msg)), msg)
	}
}
