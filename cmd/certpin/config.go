// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-certpin/pkg/pinconfig"
)

// configCmd is the parent command for policy file operations.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Pin policy file operations",
	Long: `Tools for working with pin policy files.

Subcommands:
  validate - parse a policy file and report its rules`,
}

// configValidateCmd validates a pin policy file.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pin policy file",
	Long: `Parse and validate a YAML pin policy file: digests must be valid hex of
the right length, hostname patterns must be unique, and every rule must
carry at least one pin. Exits non-zero when the policy would be refused at
startup.`,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)

	configValidateCmd.Flags().String("config", "", "path to pin policy file (required)")
}

// runConfigValidate loads the policy file and prints a summary.
func runConfigValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return fmt.Errorf("%w: --config is required", ErrInvalidInput)
	}

	policy, err := pinconfig.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	slog.Info("policy is valid",
		"path", configFile,
		"rules", policy.Store.Len(),
		"default_policy", policy.DefaultPolicy.String())

	for _, rule := range policy.Store.Rules() {
		fmt.Printf("%-30s %-8s %d pin(s)\n", rule.Pattern(), rule.Enforcement(), len(rule.Pins()))
	}
	return nil
}
