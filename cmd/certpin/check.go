// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
	"github.com/jeremyhahn/go-certpin/pkg/pinconfig"
	"github.com/jeremyhahn/go-certpin/pkg/pintls"
)

// defaultCheckTimeout bounds the TLS dial for a live pin check.
const defaultCheckTimeout = 15 * time.Second

// checkCmd dials a host and evaluates its presented chain against a policy.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a live host against a pin policy",
	Long: `Dial a TLS endpoint and evaluate the certificate chain it presents
against the rules in a pin policy file. The handshake is aborted when the
evaluation rejects the chain, exactly as a pinned HTTPS client would abort
it.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("config", "", "path to pin policy file (required)")
	checkCmd.Flags().String("host", "", "endpoint to check, host:port (required)")
	checkCmd.Flags().Duration("timeout", defaultCheckTimeout, "dial timeout")
}

// runCheck performs a pinned TLS handshake against the endpoint.
func runCheck(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	hostPort, _ := cmd.Flags().GetString("host")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if configFile == "" {
		return fmt.Errorf("%w: --config is required", ErrInvalidInput)
	}
	if hostPort == "" {
		return fmt.Errorf("%w: --host is required", ErrInvalidInput)
	}
	host, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("%w: --host must be host:port: %w", ErrInvalidInput, err)
	}

	policy, err := pinconfig.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	evaluator, err := challenge.New(&challenge.Config{
		Store:         policy.Store,
		DefaultPolicy: policy.DefaultPolicy,
		Logger:        slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	slog.Debug("dialing with pin verification", "host", hostPort, "timeout", timeout)

	conn, err := pintls.DialTimeout("tcp", hostPort, timeout, &pintls.Config{
		Evaluator:  evaluator,
		ServerName: host,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCheckFailed, hostPort, err)
	}
	defer conn.Close()

	state := conn.ConnectionState()
	slog.Info("pin check passed",
		"host", hostPort,
		"tls_version", tlsVersionName(state.Version),
		"chain_length", len(state.PeerCertificates))
	return nil
}

// tlsVersionName maps a TLS version constant to its display name.
func tlsVersionName(v uint16) string {
	switch v {
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	default:
		return fmt.Sprintf("0x%04x", v)
	}
}
