// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfigValidate(t *testing.T) {
	path := writePolicyFile(t, `
default_policy: reject
rules:
  - pattern: api.example.com
    enforcement: strict
    pins:
      - target: public-key
        algorithm: sha-256
        digest: `+strings.Repeat("ab", 32)+`
`)

	rootCmd.SetArgs([]string{"config", "validate", "--config", path})
	err := rootCmd.Execute()
	assert.NoError(t, err)
	rootCmd.SetArgs(nil)
	require.NoError(t, configValidateCmd.Flags().Set("config", ""))
}

func TestConfigValidate_InvalidDigest(t *testing.T) {
	path := writePolicyFile(t, `
rules:
  - pattern: api.example.com
    pins:
      - digest: deadbeef
`)

	rootCmd.SetArgs([]string{"config", "validate", "--config", path})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, ErrConfigInvalid)
	rootCmd.SetArgs(nil)
	require.NoError(t, configValidateCmd.Flags().Set("config", ""))
}

func TestConfigValidate_MissingFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"config", "validate"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, ErrInvalidInput)
	rootCmd.SetArgs(nil)
}
