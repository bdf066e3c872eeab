// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import (
	"crypto/subtle"
	"crypto/x509"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// maxHostnameLength is the maximum DNS name length per RFC 1035.
const maxHostnameLength = 253

// wildcardPrefix marks a suffix wildcard pattern.
const wildcardPrefix = "*."

// Rule is one hostname rule: a pattern, its enforcement mode, and the
// ordered set of acceptable pins. Rules are immutable after Load.
type Rule struct {
	pattern     string
	wildcard    bool
	enforcement Enforcement
	pins        []Pin
}

// Pattern returns the normalized hostname pattern, including the "*."
// prefix for wildcard rules.
func (r *Rule) Pattern() string {
	if r.wildcard {
		return wildcardPrefix + r.pattern
	}
	return r.pattern
}

// Enforcement returns the rule's mismatch policy.
func (r *Rule) Enforcement() Enforcement {
	return r.enforcement
}

// Pins returns a copy of the rule's pins.
func (r *Rule) Pins() []Pin {
	out := make([]Pin, len(r.pins))
	copy(out, r.pins)
	return out
}

// MatchesChain reports whether at least one certificate in the chain
// matches at least one of the rule's pins. Nil chain entries are skipped.
// Digests are memoized per certificate so a rule with many pins of the
// same target and algorithm hashes each certificate once.
func (r *Rule) MatchesChain(chain []*x509.Certificate) bool {
	for _, cert := range chain {
		if cert == nil {
			continue
		}
		cache := make(digestCache, 2)
		for _, pin := range r.pins {
			computed := cache.digest(cert, pin.Target, pin.Algorithm)
			if computed == nil {
				continue
			}
			if subtle.ConstantTimeCompare(computed, pin.digest) == 1 {
				return true
			}
		}
	}
	return false
}

// Store is the immutable collection of hostname rules. It is safe for
// concurrent use: all fields are written once during Load and never
// mutated afterwards.
type Store struct {
	exact map[string]*Rule

	// wildcards is ordered longest-suffix-first so that RulesFor can
	// append matches in priority order with a single pass.
	wildcards []*Rule
}

// Load builds a Store from rule configurations. It fails with
// ErrInvalidDigest, ErrDuplicateRule, ErrEmptyPinSet, or ErrInvalidPattern
// on malformed input and performs no network or disk I/O.
func Load(rules []RuleConfig) (*Store, error) {
	store := &Store{
		exact: make(map[string]*Rule, len(rules)),
	}
	seen := make(map[string]struct{}, len(rules))

	for _, rc := range rules {
		rule, err := buildRule(rc)
		if err != nil {
			return nil, err
		}

		key := rule.Pattern()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, key)
		}
		seen[key] = struct{}{}

		if rule.wildcard {
			store.wildcards = append(store.wildcards, rule)
		} else {
			store.exact[rule.pattern] = rule
		}
	}

	// Longest suffix wins; equal lengths order lexicographically so the
	// result is deterministic regardless of configuration order.
	sort.SliceStable(store.wildcards, func(i, j int) bool {
		a, b := store.wildcards[i].pattern, store.wildcards[j].pattern
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return store, nil
}

// buildRule validates and normalizes one rule configuration.
func buildRule(rc RuleConfig) (*Rule, error) {
	pattern := strings.TrimSpace(rc.Pattern)
	wildcard := strings.HasPrefix(pattern, wildcardPrefix)
	if wildcard {
		pattern = pattern[len(wildcardPrefix):]
	}

	host, err := NormalizeHostname(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, rc.Pattern)
	}

	if len(rc.Pins) == 0 {
		return nil, fmt.Errorf("%w: rule %q", ErrEmptyPinSet, rc.Pattern)
	}

	pins := make([]Pin, 0, len(rc.Pins))
	for _, pc := range rc.Pins {
		pin, err := NewPin(pc.Target, pc.Algorithm, pc.DigestHex)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Pattern, err)
		}
		pins = append(pins, pin)
	}

	return &Rule{
		pattern:     host,
		wildcard:    wildcard,
		enforcement: rc.Enforcement,
		pins:        pins,
	}, nil
}

// RulesFor returns the rules applicable to hostname in priority order: an
// exact-match rule first, then wildcard rules longest-suffix-first. The
// returned slice is empty when no rule matches or the hostname cannot be
// normalized; the caller applies its default policy in that case.
func (s *Store) RulesFor(hostname string) []*Rule {
	host, err := NormalizeHostname(hostname)
	if err != nil {
		return nil
	}

	var matched []*Rule
	if rule, ok := s.exact[host]; ok {
		matched = append(matched, rule)
	}
	for _, rule := range s.wildcards {
		// "*.example.com" matches any name under example.com but not
		// example.com itself.
		if strings.HasSuffix(host, "."+rule.pattern) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Len returns the total number of rules in the store.
func (s *Store) Len() int {
	return len(s.exact) + len(s.wildcards)
}

// Rules returns all rules in the store: exact rules sorted by pattern,
// followed by wildcard rules in lookup order. Intended for inspection and
// export, not for evaluation.
func (s *Store) Rules() []*Rule {
	out := make([]*Rule, 0, s.Len())
	names := make([]string, 0, len(s.exact))
	for name := range s.exact {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, s.exact[name])
	}
	return append(out, s.wildcards...)
}

// NormalizeHostname lowercases the hostname, strips a trailing dot, and
// applies IDNA lookup normalization so that unicode names compare equal to
// their punycode form.
func NormalizeHostname(hostname string) (string, error) {
	host := strings.TrimSuffix(strings.TrimSpace(hostname), ".")
	if host == "" || len(host) > maxHostnameLength || strings.ContainsRune(host, 0) {
		return "", ErrInvalidHostname
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidHostname, err.Error())
	}
	return strings.ToLower(ascii), nil
}
