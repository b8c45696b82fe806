// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katzenpost/csidh"
)

func TestDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := Load(nil)
	require.NoError(err)
	require.Equal(csidh.DefaultNumBatches, cfg.Parameters.NumBatches)
	require.Equal(csidh.DefaultMergeThreshold, cfg.Parameters.MergeThreshold)
	require.Len(cfg.Parameters.Bounds, csidh.NumPrimes)
	require.Equal(DefaultLogLevel, cfg.Logging.Level)
	require.False(cfg.Metrics.Enable)

	p, err := cfg.Params(nil)
	require.NoError(err)
	require.Equal(404, p.NumIsogenies())
	require.Equal(csidh.DefaultParams().Bounds, p.Bounds)
}

func TestConfig(t *testing.T) {
	require := require.New(t)

	const basicConfig = `# A basic configuration example.
[Parameters]
NumBatches = 1
MergeThreshold = 2

[Logging]
Level = "debug"

[Metrics]
Enable = true
Address = "127.0.0.1:9000"
`

	cfg, err := Load([]byte(basicConfig))
	require.NoError(err)
	require.Equal(1, cfg.Parameters.NumBatches)
	require.Equal(2, cfg.Parameters.MergeThreshold)
	require.Equal("DEBUG", cfg.Logging.Level)
	require.Equal("127.0.0.1:9000", cfg.Metrics.Address)

	p, err := cfg.Params(nil)
	require.NoError(err)
	require.Equal(1, p.NumBatches)

	f := filepath.Join(t.TempDir(), "csidh.toml")
	require.NoError(os.WriteFile(f, []byte(basicConfig), 0600))
	cfg2, err := LoadFile(f)
	require.NoError(err)
	require.Equal(cfg, cfg2)
}

func TestInvalidConfig(t *testing.T) {
	for name, body := range map[string]string{
		"short bounds":     "[Parameters]\nBounds = [1, 2, 3]\n",
		"too many batches": "[Parameters]\nNumBatches = 75\n",
		"negative merge":   "[Parameters]\nMergeThreshold = -1\n",
		"bad level":        "[Logging]\nLevel = \"LOUD\"\n",
		"unknown key":      "[Parameters]\nColour = \"blue\"\n",
		"not toml":         "[Parameters\n",
	} {
		_, err := Load([]byte(body))
		require.Error(t, err, name)
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
