// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-certpin/pkg/pinset"
)

// pinCmd is the parent command for pin computation.
var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Pin computation operations",
	Long: `Tools for computing certificate and public-key pins from PEM
certificate files.

Subcommands:
  show - compute and display the pins of a certificate`,
}

// pinShowCmd computes and displays pins from a PEM certificate file.
var pinShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the pins of a PEM certificate file",
	Long: `Compute and display the certificate and public-key (SPKI) digests of a
PEM-encoded certificate. The hex digests can be placed directly into a pin
policy file.`,
	RunE: runPinShow,
}

func init() {
	pinCmd.AddCommand(pinShowCmd)

	pinShowCmd.Flags().String("cert-file", "", "path to PEM certificate file (required)")
	pinShowCmd.Flags().String("algorithm", "sha-256", "digest algorithm (sha-256|sha-512)")
}

// runPinShow computes the certificate and SPKI digests of a certificate.
func runPinShow(cmd *cobra.Command, args []string) error {
	certFile, _ := cmd.Flags().GetString("cert-file")
	algoName, _ := cmd.Flags().GetString("algorithm")

	if certFile == "" {
		return fmt.Errorf("%w: --cert-file is required", ErrInvalidInput)
	}

	algorithm, err := pinset.ParseAlgorithm(algoName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	cert, err := loadCertFromPEMFile(certFile)
	if err != nil {
		return err
	}

	certDigest, err := pinset.ComputeDigest(cert, pinset.TargetCertificate, algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	spkiDigest, err := pinset.ComputeDigest(cert, pinset.TargetPublicKey, algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fmt.Printf("Subject:            %s\n", cert.Subject.String())
	fmt.Printf("Issuer:             %s\n", cert.Issuer.String())
	fmt.Printf("Certificate %s: %s\n", algorithm, hex.EncodeToString(certDigest))
	fmt.Printf("Public key  %s: %s\n", algorithm, hex.EncodeToString(spkiDigest))
	return nil
}

// loadCertFromPEMFile reads and parses the first certificate block from a
// PEM file.
func loadCertFromPEMFile(certFile string) (*x509.Certificate, error) {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFileOperation, certFile, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM data found in %s", ErrInvalidInput, certFile)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing certificate: %w", ErrInvalidInput, err)
	}

	return cert, nil
}
