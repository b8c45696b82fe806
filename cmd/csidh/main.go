// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

// csidh - a command line tool for the CSIDH-512 key exchange.
package main

import (
	"fmt"
	"io"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/rand"
	"github.com/spf13/cobra"
	"gopkg.in/op/go-logging.v1"

	"github.com/katzenpost/csidh"
	"github.com/katzenpost/csidh/common"
	"github.com/katzenpost/csidh/config"
	"github.com/katzenpost/csidh/internal/instrument"
	"github.com/katzenpost/csidh/log"
	"github.com/katzenpost/csidh/nike/csidh512"
)

// env is the state shared by all subcommands, set up from the config file
// before any of them runs.
type env struct {
	configFile string

	cfg     *config.Config
	backend *log.Backend
	log     *logging.Logger
	params  *csidh.Params
	scheme  nike.Scheme
	rng     io.Reader
}

func (e *env) setup(cmd *cobra.Command, args []string) error {
	var err error
	if e.configFile == "" {
		e.cfg = config.Default()
	} else if e.cfg, err = config.LoadFile(e.configFile); err != nil {
		return fmt.Errorf("failed to load config file '%v': %v", e.configFile, err)
	}

	lCfg := e.cfg.Logging
	if e.backend, err = log.New(lCfg.File, lCfg.Level, lCfg.Disable); err != nil {
		return err
	}
	e.log = e.backend.GetLogger("csidh")

	if e.params, err = e.cfg.Params(e.backend.GetLogger("action")); err != nil {
		return err
	}
	if e.rng == nil {
		e.rng = rand.Reader
	}
	e.scheme = csidh512.NewScheme(e.params, e.rng)

	if e.cfg.Metrics.Enable {
		instrument.StartPrometheusListener(e.cfg.Metrics.Address)
		e.log.Noticef("Serving metrics on %s", e.cfg.Metrics.Address)
	}
	e.log.Debugf("%d batches, merge threshold %d, %d isogenies per action",
		e.params.NumBatches, e.params.MergeThreshold, e.params.NumIsogenies())
	return nil
}

func (e *env) teardown(cmd *cobra.Command, args []string) error {
	if e.backend == nil {
		return nil
	}
	return e.backend.Close()
}

func newRootCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csidh",
		Short: "CSIDH-512 key exchange tool",
		Long: `A tool for the CSIDH-512 commutative isogeny based key exchange.

Keys are stored as PEM files. Every group action runs in constant time with
respect to the private key, using dummy isogenies and batched primes.

The group action parameters, logging and the prometheus listener are
configured with an optional TOML file.`,
		Example: `  # Generate a keypair into alice.csidh_private.pem and alice.csidh_public.pem
  csidh genkey --out alice

  # Compute a shared secret
  csidh derive --private alice.csidh_private.pem --peer bob.csidh_public.pem

  # Run the two party demo with a custom parameter set
  csidh demo --config csidh.toml`,
		SilenceUsage:       true,
		PersistentPreRunE:  e.setup,
		PersistentPostRunE: e.teardown,
	}

	cmd.PersistentFlags().StringVarP(&e.configFile, "config", "f", "",
		"path to the configuration file (TOML format)")

	cmd.AddCommand(newGenKeyCommand(e))
	cmd.AddCommand(newPubKeyCommand(e))
	cmd.AddCommand(newDeriveCommand(e))
	cmd.AddCommand(newValidateCommand(e))
	cmd.AddCommand(newFingerprintCommand(e))
	cmd.AddCommand(newDemoCommand(e))
	cmd.AddCommand(newBenchCommand(e))

	return cmd
}

func main() {
	rootCmd := newRootCommand(new(env))
	common.ExecuteWithFang(rootCmd)
}
