// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package pinconfig loads pin policy from YAML configuration. A policy is
// a global default (applied to unpinned hostnames) plus a list of hostname
// rules, each carrying an enforcement mode and one or more pins:
//
//	default_policy: use-default-trust
//	rules:
//	  - pattern: api.example.com
//	    enforcement: strict
//	    pins:
//	      - target: public-key
//	        algorithm: sha-256
//	        digest: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
//
// Malformed configuration always fails the load; it never degrades to an
// unpinned policy.
package pinconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
	"github.com/jeremyhahn/go-certpin/pkg/pinset"
)

// File is the on-disk YAML schema.
type File struct {
	// DefaultPolicy applies to hostnames with no matching rule:
	// "use-default-trust" (empty default) or "reject".
	DefaultPolicy string `yaml:"default_policy"`

	// Rules are the hostname pin rules.
	Rules []RuleEntry `yaml:"rules"`
}

// RuleEntry is one hostname rule in the YAML schema.
type RuleEntry struct {
	// Pattern is an exact hostname or a "*." suffix wildcard.
	Pattern string `yaml:"pattern"`

	// Enforcement is "strict" (empty default), "report", or "disabled".
	Enforcement string `yaml:"enforcement"`

	// Pins are the acceptable pins for this rule.
	Pins []PinEntry `yaml:"pins"`
}

// PinEntry is one pin in the YAML schema.
type PinEntry struct {
	// Target is "certificate" or "public-key".
	Target string `yaml:"target"`

	// Algorithm is "sha-256" (empty default) or "sha-512".
	Algorithm string `yaml:"algorithm"`

	// Digest is the hex-encoded digest.
	Digest string `yaml:"digest"`
}

// Policy is the loaded, validated pin policy.
type Policy struct {
	// Store is the immutable pin store built from the rules.
	Store *pinset.Store

	// DefaultPolicy is the verdict outcome for unpinned hostnames.
	DefaultPolicy challenge.Outcome
}

// LoadFile reads and parses a YAML policy file. Errors wrap ErrConfigLoad
// or the pinset sentinel errors for malformed rules.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigLoad, err.Error())
	}
	policy, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return policy, nil
}

// Parse parses YAML policy data. Unknown fields are rejected so that a
// misspelled enforcement or digest key cannot silently weaken the policy.
func Parse(data []byte) (*Policy, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, err.Error())
	}

	defaultPolicy, err := parseDefaultPolicy(file.DefaultPolicy)
	if err != nil {
		return nil, err
	}

	rules := make([]pinset.RuleConfig, 0, len(file.Rules))
	for _, entry := range file.Rules {
		rule, err := buildRuleConfig(entry)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	store, err := pinset.Load(rules)
	if err != nil {
		return nil, err
	}

	return &Policy{Store: store, DefaultPolicy: defaultPolicy}, nil
}

// Reload parses the policy file and atomically publishes the new store
// through the handle. On error the handle keeps its current snapshot.
func Reload(handle *pinset.Handle, path string) (*Policy, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	policy, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	handle.Swap(policy.Store)
	return policy, nil
}

// buildRuleConfig converts one YAML rule entry to a pinset rule config.
func buildRuleConfig(entry RuleEntry) (pinset.RuleConfig, error) {
	enforcement, err := pinset.ParseEnforcement(entry.Enforcement)
	if err != nil {
		return pinset.RuleConfig{}, fmt.Errorf("rule %q: %w", entry.Pattern, err)
	}

	pins := make([]pinset.PinConfig, 0, len(entry.Pins))
	for _, pe := range entry.Pins {
		target, err := pinset.ParseTarget(pe.Target)
		if err != nil {
			return pinset.RuleConfig{}, fmt.Errorf("rule %q: %w", entry.Pattern, err)
		}
		algorithm, err := pinset.ParseAlgorithm(pe.Algorithm)
		if err != nil {
			return pinset.RuleConfig{}, fmt.Errorf("rule %q: %w", entry.Pattern, err)
		}
		pins = append(pins, pinset.PinConfig{
			Target:    target,
			Algorithm: algorithm,
			DigestHex: pe.Digest,
		})
	}

	return pinset.RuleConfig{
		Pattern:     entry.Pattern,
		Enforcement: enforcement,
		Pins:        pins,
	}, nil
}

// parseDefaultPolicy maps the config string to a verdict outcome. Trust is
// deliberately not accepted: trusting every unpinned host would disable
// validation entirely.
func parseDefaultPolicy(s string) (challenge.Outcome, error) {
	switch s {
	case "", "use-default-trust":
		return challenge.UseDefaultTrust, nil
	case "reject":
		return challenge.Reject, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
