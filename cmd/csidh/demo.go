// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/katzenpost/csidh"
	"github.com/katzenpost/csidh/internal/profiling"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	headStyle = lipgloss.NewStyle().Bold(true)
)

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func newDemoCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a two party key exchange and print every step",
		Long: `Generate keys for Alice and Bob, exchange public keys and check that both
sides arrive at the same shared secret. Every group action includes the
validation of its input curve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.demo(cmd.OutOrStdout())
		},
	}
}

func (e *env) demo(w io.Writer) error {
	step := func(name string, d time.Duration, blob []byte) {
		fmt.Fprintf(w, "%s (%7.3f ms):\n  %x\n\n", headStyle.Render(name), ms(d), blob)
	}
	exchange := func(name string, peer *csidh.PublicKey, priv *csidh.PrivateKey) (*csidh.PublicKey, error) {
		out := new(csidh.PublicKey)
		t0 := time.Now()
		ok, err := e.params.Exchange(out, peer, priv, e.rng)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, csidh.ErrPublicKeyValidation
		}
		step(name+" (including validation)", time.Since(t0), out.Bytes())
		return out, nil
	}

	t0 := time.Now()
	alicePriv, err := e.params.GeneratePrivateKey(e.rng)
	if err != nil {
		return err
	}
	step("Alice's private key", time.Since(t0), alicePriv.Bytes())

	t0 = time.Now()
	bobPriv, err := e.params.GeneratePrivateKey(e.rng)
	if err != nil {
		return err
	}
	step("Bob's private key", time.Since(t0), bobPriv.Bytes())

	alicePub, err := exchange("Alice's public key", csidh.Base(), alicePriv)
	if err != nil {
		return err
	}
	bobPub, err := exchange("Bob's public key", csidh.Base(), bobPriv)
	if err != nil {
		return err
	}
	aliceShared, err := exchange("Alice's shared secret", bobPub, alicePriv)
	if err != nil {
		return err
	}
	bobShared, err := exchange("Bob's shared secret", alicePub, bobPriv)
	if err != nil {
		return err
	}

	if !aliceShared.Equal(bobShared) {
		fmt.Fprintln(w, failStyle.Render("NOT EQUAL! :("))
		return errors.New("shared secrets differ")
	}
	fmt.Fprintln(w, okStyle.Render("equal :)"))
	return nil
}

func newBenchCommand(e *env) *cobra.Command {
	var iterations int
	var validate, profile, verbose bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated group actions",
		Long: `Apply freshly sampled private keys to a running public key, starting from
the base curve, and report the wall clock time per group action.`,
		Example: `  csidh bench -n 100
  csidh bench -n 100 --validate --profile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations <= 0 {
				return fmt.Errorf("invalid argument: iterations must be positive, got %d", iterations)
			}
			if profile {
				stop, err := profiling.Start(e.log, "bench")
				if err != nil {
					return err
				}
				defer stop()
			}
			return e.bench(cmd.OutOrStdout(), iterations, validate, verbose)
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "number of group actions")
	cmd.Flags().BoolVar(&validate, "validate", false, "also validate the input curve of every action")
	cmd.Flags().BoolVar(&profile, "profile", false, "stream profiles to pyroscope (pyroscope builds only)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the time of every action")
	return cmd
}

func (e *env) bench(w io.Writer, iterations int, validate, verbose bool) error {
	var total, fastest, slowest time.Duration
	pub := csidh.Base()

	for i := 0; i < iterations; i++ {
		priv, err := e.params.GeneratePrivateKey(e.rng)
		if err != nil {
			return err
		}

		t0 := time.Now()
		if validate {
			ok, err := csidh.Validate(pub, e.rng)
			if err != nil {
				return err
			}
			if !ok {
				return csidh.ErrPublicKeyValidation
			}
		}
		if pub, err = e.params.Action(pub, priv, e.rng); err != nil {
			return err
		}
		d := time.Since(t0)

		total += d
		if i == 0 || d < fastest {
			fastest = d
		}
		if d > slowest {
			slowest = d
		}
		if verbose {
			fmt.Fprintf(w, "%.3f\n", ms(d))
		}
	}

	fmt.Fprintf(w, "iterations: %d\n", iterations)
	fmt.Fprintf(w, "isogenies per action: %d\n", e.params.NumIsogenies())
	fmt.Fprintf(w, "wall-clock time: %.3f ms (min %.3f ms, max %.3f ms)\n",
		ms(total)/float64(iterations), ms(fastest), ms(slowest))
	return nil
}
