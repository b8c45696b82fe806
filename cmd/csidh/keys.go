// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/hex"
	stdpem "encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/katzenpost/hpqc/nike/pem"
	"github.com/katzenpost/qrterminal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"

	"github.com/katzenpost/csidh"
	"github.com/katzenpost/csidh/common"
	"github.com/katzenpost/csidh/nike/csidh512"
)

const (
	publicKeySuffix  = ".csidh_public.pem"
	privateKeySuffix = ".csidh_private.pem"
)

func checkKeyFilesAbsent(files ...string) error {
	for _, f := range files {
		_, err := os.Stat(f)
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists", f)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return nil
}

// publicKeyPEM encodes pub like hpqc pem does. hpqc pem refuses all zero
// blobs, which for CSIDH is the valid encoding of the base curve.
func (e *env) publicKeyPEM(pub *csidh512.PublicKey) string {
	if !pub.Key().IsBase() {
		return pem.ToPublicPEMString(pub, e.scheme)
	}
	return string(stdpem.EncodeToMemory(&stdpem.Block{
		Type:  fmt.Sprintf("%s PUBLIC KEY", strings.ToUpper(e.scheme.Name())),
		Bytes: pub.Bytes(),
	}))
}

func (e *env) loadPrivateKey(f string) (*csidh512.PrivateKey, error) {
	priv, err := pem.FromPrivatePEMFile(f, e.scheme)
	if err != nil {
		return nil, err
	}
	return priv.(*csidh512.PrivateKey), nil
}

func (e *env) loadPublicKey(f string) (*csidh512.PublicKey, error) {
	pub, err := pem.FromPublicPEMFile(f, e.scheme)
	if err != nil {
		return nil, err
	}
	npub := pub.(*csidh512.PublicKey)
	e.log.Debugf("Loaded %s:\n%s", f, common.TruncatePEMForLogging(e.publicKeyPEM(npub)))
	return npub, nil
}

func newGenKeyCommand(e *env) *cobra.Command {
	var outName string

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a new keypair",
		Long: `Generate a new keypair and write it to <out>.csidh_private.pem and
<out>.csidh_public.pem. Existing files are never overwritten.`,
		Example: `  csidh genkey --out alice`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.genKey(cmd.OutOrStdout(), outName)
		},
	}
	cmd.Flags().StringVarP(&outName, "out", "o", "out", "output keypair name")
	return cmd
}

func (e *env) genKey(w io.Writer, outName string) error {
	pubout := outName + publicKeySuffix
	privout := outName + privateKeySuffix
	if err := checkKeyFilesAbsent(privout, pubout); err != nil {
		return err
	}
	fmt.Fprintf(w, "Writing keypair to %s and %s\n", pubout, privout)

	pub, priv, err := e.scheme.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := pem.PrivateKeyToFile(privout, priv, e.scheme); err != nil {
		return err
	}
	if err := pem.PublicKeyToFile(pubout, pub, e.scheme); err != nil {
		return err
	}
	e.log.Infof("Generated public key:\n%s", common.TruncatePEMForLogging(pem.ToPublicPEMString(pub, e.scheme)))
	return nil
}

func newPubKeyCommand(e *env) *cobra.Command {
	var privFile string
	var isQRCode bool

	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Derive the public key of a private key",
		Example: `  csidh pubkey --private alice.csidh_private.pem
  csidh pubkey --private alice.csidh_private.pem --qr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.pubKey(cmd.OutOrStdout(), privFile, isQRCode)
		},
	}
	cmd.Flags().StringVarP(&privFile, "private", "p", "", "private key PEM file (required)")
	cmd.Flags().BoolVar(&isQRCode, "qr", false, "also print the base64 public key as a QR code")
	cmd.MarkFlagRequired("private")
	return cmd
}

func (e *env) pubKey(w io.Writer, privFile string, isQRCode bool) error {
	priv, err := e.loadPrivateKey(privFile)
	if err != nil {
		return err
	}
	pub, err := e.params.DerivePublicKey(priv.Key(), e.rng)
	if err != nil {
		return err
	}
	if pub.IsBase() {
		e.log.Warningf("%s is the zero private key, its public key is the base curve", privFile)
	}
	fmt.Fprint(w, e.publicKeyPEM(csidh512.NewPublicKey(e.scheme, pub)))

	if isQRCode {
		text, err := pub.MarshalText()
		if err != nil {
			return err
		}
		config := qrterminal.Config{
			Level:      qrterminal.L,
			Writer:     w,
			HalfBlocks: true,
			QuietZone:  1,
		}
		qrterminal.GenerateWithConfig(string(text), config)
	}
	return nil
}

func newDeriveCommand(e *env) *cobra.Command {
	var privFile, peerFile string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Compute the shared secret with a peer",
		Long: `Validate the peer public key and print the shared secret, the hex encoded
coefficient of the shared curve. Invalid peer keys are rejected.`,
		Example: `  csidh derive --private alice.csidh_private.pem --peer bob.csidh_public.pem`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.derive(cmd.OutOrStdout(), privFile, peerFile)
		},
	}
	cmd.Flags().StringVarP(&privFile, "private", "p", "", "private key PEM file (required)")
	cmd.Flags().StringVarP(&peerFile, "peer", "P", "", "peer public key PEM file (required)")
	cmd.MarkFlagRequired("private")
	cmd.MarkFlagRequired("peer")
	return cmd
}

func (e *env) derive(w io.Writer, privFile, peerFile string) error {
	priv, err := e.loadPrivateKey(privFile)
	if err != nil {
		return err
	}
	peer, err := e.loadPublicKey(peerFile)
	if err != nil {
		return err
	}
	secret, err := e.params.DeriveSecret(priv.Key(), peer.Key(), e.rng)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, hex.EncodeToString(secret))
	return nil
}

func newValidateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "validate <public key PEM file>",
		Short:   "Check that a public key is a supersingular curve",
		Example: `  csidh validate bob.csidh_public.pem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.validate(cmd.OutOrStdout(), args[0])
		},
	}
}

func (e *env) validate(w io.Writer, f string) error {
	_, err := e.loadPublicKey(f)
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s: valid\n", f)
		return nil
	case errors.Is(err, csidh.ErrPublicKeyValidation):
		fmt.Fprintf(w, "%s: invalid\n", f)
	}
	return err
}

func newFingerprintCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "fingerprint <public key PEM file>",
		Short:   "Print the BLAKE2b-256 fingerprint of a public key",
		Example: `  csidh fingerprint bob.csidh_public.pem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.fingerprint(cmd.OutOrStdout(), args[0])
		},
	}
}

func (e *env) fingerprint(w io.Writer, f string) error {
	pub, err := e.loadPublicKey(f)
	if err != nil {
		return err
	}
	sum := blake2b.Sum256(pub.Bytes())
	fmt.Fprintln(w, hex.EncodeToString(sum[:]))
	return nil
}
