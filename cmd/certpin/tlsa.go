// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-certpin/pkg/pinconfig"
	"github.com/jeremyhahn/go-certpin/pkg/tlsapin"
)

// defaultDiscoverTimeout bounds the TLSA DNS lookup.
const defaultDiscoverTimeout = 10 * time.Second

// tlsaCmd is the parent command for DANE TLSA interop.
var tlsaCmd = &cobra.Command{
	Use:   "tlsa",
	Short: "DANE TLSA interop",
	Long: `Exchange pins with DANE TLSA DNS records (RFC 6698). TLSA selectors and
matching types map directly onto pin targets and digest algorithms.

Subcommands:
  export   - render policy pins as TLSA zone-file lines
  discover - build pin rules from published TLSA records`,
}

// tlsaExportCmd renders policy pins as TLSA zone lines.
var tlsaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export policy pins as TLSA zone lines",
	Long: `Render every pin of every exact-hostname rule in a policy file as a TLSA
zone-file line for DNS publication. Wildcard rules are skipped since they
have no TLSA owner name.`,
	RunE: runTLSAExport,
}

// tlsaDiscoverCmd builds pin rules from published TLSA records.
var tlsaDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover pins from TLSA DNS records",
	Long: `Resolve the TLSA records published for a host and port and print the
equivalent pin policy rule as YAML. Only DANE-TA and DANE-EE records with
hashed association data convert; the lookup requires DNSSEC authentication
unless --no-ad is set.`,
	RunE: runTLSADiscover,
}

func init() {
	tlsaCmd.AddCommand(tlsaExportCmd)
	tlsaCmd.AddCommand(tlsaDiscoverCmd)

	tlsaExportCmd.Flags().String("config", "", "path to pin policy file (required)")
	tlsaExportCmd.Flags().Uint16("port", 443, "service port for the TLSA owner name")

	tlsaDiscoverCmd.Flags().String("host", "", "hostname to discover pins for (required)")
	tlsaDiscoverCmd.Flags().Uint16("port", 443, "service port for the TLSA owner name")
	tlsaDiscoverCmd.Flags().String("dns-server", "", "DNS resolver address (default: system resolver)")
	tlsaDiscoverCmd.Flags().Bool("dns-tls", false, "use DNS-over-TLS for the lookup")
	tlsaDiscoverCmd.Flags().Bool("no-ad", false, "accept responses without DNSSEC authentication")
}

// runTLSAExport renders the exact rules of a policy as zone lines.
func runTLSAExport(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	port, _ := cmd.Flags().GetUint16("port")

	if configFile == "" {
		return fmt.Errorf("%w: --config is required", ErrInvalidInput)
	}

	policy, err := pinconfig.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	var lines []string
	for _, rule := range policy.Store.Rules() {
		ruleLines, err := tlsapin.ExportRule(rule, port)
		if err != nil {
			slog.Warn("skipping rule", "pattern", rule.Pattern(), "reason", err)
			continue
		}
		lines = append(lines, ruleLines...)
	}

	if len(lines) == 0 {
		return fmt.Errorf("%w: policy has no exportable rules", ErrInvalidInput)
	}
	return writeOutput([]byte(strings.Join(lines, "\n") + "\n"))
}

// runTLSADiscover resolves TLSA records and prints a pin rule as YAML.
func runTLSADiscover(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetUint16("port")
	dnsServer, _ := cmd.Flags().GetString("dns-server")
	dnsTLS, _ := cmd.Flags().GetBool("dns-tls")
	noAD, _ := cmd.Flags().GetBool("no-ad")

	if host == "" {
		return fmt.Errorf("%w: --host is required", ErrInvalidInput)
	}

	resolver, err := tlsapin.NewResolver(&tlsapin.ResolverConfig{
		Server:    dnsServer,
		UseTLS:    dnsTLS,
		RequireAD: !noAD,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	sigCtx, sigStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer sigStop()

	ctx, cancel := context.WithTimeout(sigCtx, defaultDiscoverTimeout)
	defer cancel()

	rule, err := resolver.DiscoverRule(ctx, host, port)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	slog.Info("discovered pins", "host", host, "port", port, "pins", len(rule.Pins))

	entry := pinconfig.RuleEntry{
		Pattern:     rule.Pattern,
		Enforcement: rule.Enforcement.String(),
	}
	for _, pin := range rule.Pins {
		entry.Pins = append(entry.Pins, pinconfig.PinEntry{
			Target:    pin.Target.String(),
			Algorithm: pin.Algorithm.String(),
			Digest:    pin.DigestHex,
		})
	}

	out, err := yaml.Marshal(pinconfig.File{Rules: []pinconfig.RuleEntry{entry}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return writeOutput(out)
}
