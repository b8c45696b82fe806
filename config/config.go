// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// Package config provides the configuration of the csidh tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/op/go-logging.v1"

	"github.com/katzenpost/csidh"
	"github.com/katzenpost/csidh/internal/instrument"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "NOTICE"
)

// Parameters is the group action parameter set.
type Parameters struct {
	// Bounds are the per prime exponent bounds, in prime list order. If
	// omitted the default bounds are used.
	Bounds []int

	// NumBatches is the number of batches the primes are split into.
	NumBatches int

	// MergeThreshold is the number of rounds per batch after which the
	// batches are merged.
	MergeThreshold int
}

func (pCfg *Parameters) applyDefaults() {
	if len(pCfg.Bounds) == 0 {
		b := csidh.DefaultBounds()
		pCfg.Bounds = make([]int, len(b))
		for i, v := range b {
			pCfg.Bounds[i] = int(v)
		}
	}
	if pCfg.NumBatches == 0 {
		pCfg.NumBatches = csidh.DefaultNumBatches
	}
	if pCfg.MergeThreshold == 0 {
		pCfg.MergeThreshold = csidh.DefaultMergeThreshold
	}
}

func (pCfg *Parameters) validate() error {
	if len(pCfg.Bounds) != csidh.NumPrimes {
		return fmt.Errorf("config: Parameters: Bounds must have %d entries, got %d", csidh.NumPrimes, len(pCfg.Bounds))
	}
	for i, b := range pCfg.Bounds {
		if b < 0 || b > 127 {
			return fmt.Errorf("config: Parameters: Bounds[%d] = %d is out of range", i, b)
		}
	}
	if pCfg.NumBatches < 1 || pCfg.NumBatches > csidh.NumPrimes {
		return fmt.Errorf("config: Parameters: NumBatches %d is invalid", pCfg.NumBatches)
	}
	if pCfg.MergeThreshold < 0 {
		return errors.New("config: Parameters: MergeThreshold is negative")
	}
	return nil
}

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = DefaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl // Force uppercase.
	return nil
}

// Metrics is the prometheus exposition configuration.
type Metrics struct {
	// Enable starts the metrics listener.
	Enable bool

	// Address is the listen address, defaulting to instrument.DefaultAddress.
	Address string
}

func (mCfg *Metrics) applyDefaults() {
	if mCfg.Address == "" {
		mCfg.Address = instrument.DefaultAddress
	}
}

// Config is the top level configuration.
type Config struct {
	Parameters *Parameters
	Logging    *Logging
	Metrics    *Metrics
}

// Default returns a configuration with every section set to its defaults.
func Default() *Config {
	cfg := new(Config)
	if err := cfg.FixupAndValidate(); err != nil {
		panic(err)
	}
	return cfg
}

// FixupAndValidate applies defaults to config entries and validates the
// supplied configuration. Most people should call one of the Load variants
// instead.
func (cfg *Config) FixupAndValidate() error {
	if cfg.Parameters == nil {
		cfg.Parameters = &Parameters{}
	}
	if cfg.Logging == nil {
		cfg.Logging = &Logging{Level: DefaultLogLevel}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}

	cfg.Parameters.applyDefaults()
	cfg.Metrics.applyDefaults()

	if err := cfg.Parameters.validate(); err != nil {
		return err
	}
	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	return nil
}

// Params builds the group action parameter set, logging to log if it is
// not nil.
func (cfg *Config) Params(log *logging.Logger) (*csidh.Params, error) {
	var bounds [csidh.NumPrimes]int8
	for i, b := range cfg.Parameters.Bounds {
		bounds[i] = int8(b)
	}
	p, err := csidh.NewParams(bounds, cfg.Parameters.NumBatches, cfg.Parameters.MergeThreshold)
	if err != nil {
		return nil, err
	}
	p.Logger = log
	return p, nil
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
