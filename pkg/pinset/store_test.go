// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import (
	"crypto/x509"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPinConfig builds a pin config matching the given certificate.
func testPinConfig(t *testing.T, cert *x509.Certificate) PinConfig {
	t.Helper()
	return PinConfig{
		Target:    TargetPublicKey,
		Algorithm: SHA256,
		DigestHex: hexDigest(t, cert, TargetPublicKey, SHA256),
	}
}

func TestLoad_Valid(t *testing.T) {
	cert := generateTestCert(t)

	store, err := Load([]RuleConfig{
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{testPinConfig(t, cert)}},
		{Pattern: "*.example.com", Enforcement: EnforceReport, Pins: []PinConfig{testPinConfig(t, cert)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestLoad_InvalidDigest(t *testing.T) {
	_, err := Load([]RuleConfig{{
		Pattern:     "api.example.com",
		Enforcement: EnforceStrict,
		Pins:        []PinConfig{{Target: TargetPublicKey, Algorithm: SHA256, DigestHex: "zz"}},
	}})
	assert.ErrorIs(t, err, ErrInvalidDigest)
}

func TestLoad_DuplicateRule(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	_, err := Load([]RuleConfig{
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
		{Pattern: "API.example.com.", Enforcement: EnforceReport, Pins: []PinConfig{pin}},
	})
	assert.ErrorIs(t, err, ErrDuplicateRule, "patterns differing only by case or trailing dot are duplicates")
}

func TestLoad_DuplicateWildcard(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	_, err := Load([]RuleConfig{
		{Pattern: "*.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
		{Pattern: "*.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
	})
	assert.ErrorIs(t, err, ErrDuplicateRule)
}

func TestLoad_ExactAndWildcardNotDuplicates(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	store, err := Load([]RuleConfig{
		{Pattern: "example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
		{Pattern: "*.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestLoad_EmptyPinSet(t *testing.T) {
	_, err := Load([]RuleConfig{{Pattern: "api.example.com", Enforcement: EnforceStrict}})
	assert.ErrorIs(t, err, ErrEmptyPinSet)
}

func TestLoad_InvalidPattern(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	for _, pattern := range []string{"", "*.", strings.Repeat("a", 260) + ".com"} {
		_, err := Load([]RuleConfig{{Pattern: pattern, Enforcement: EnforceStrict, Pins: []PinConfig{pin}}})
		assert.ErrorIs(t, err, ErrInvalidPattern, "pattern %q", pattern)
	}
}

func TestRulesFor_ExactBeatsWildcard(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	store, err := Load([]RuleConfig{
		{Pattern: "*.example.com", Enforcement: EnforceReport, Pins: []PinConfig{pin}},
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
	})
	require.NoError(t, err)

	rules := store.RulesFor("api.example.com")
	require.Len(t, rules, 2)
	assert.Equal(t, "api.example.com", rules[0].Pattern())
	assert.Equal(t, EnforceStrict, rules[0].Enforcement())
	assert.Equal(t, "*.example.com", rules[1].Pattern())
}

func TestRulesFor_LongestSuffixFirst(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	store, err := Load([]RuleConfig{
		{Pattern: "*.example.com", Enforcement: EnforceReport, Pins: []PinConfig{pin}},
		{Pattern: "*.internal.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
	})
	require.NoError(t, err)

	rules := store.RulesFor("db.internal.example.com")
	require.Len(t, rules, 2)
	assert.Equal(t, "*.internal.example.com", rules[0].Pattern())
	assert.Equal(t, "*.example.com", rules[1].Pattern())
}

func TestRulesFor_WildcardDoesNotMatchBareSuffix(t *testing.T) {
	cert := generateTestCert(t)

	store, err := Load([]RuleConfig{
		{Pattern: "*.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{testPinConfig(t, cert)}},
	})
	require.NoError(t, err)

	assert.Empty(t, store.RulesFor("example.com"))
	assert.Len(t, store.RulesFor("deep.nested.example.com"), 1)
}

func TestRulesFor_NoMatch(t *testing.T) {
	cert := generateTestCert(t)

	store, err := Load([]RuleConfig{
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{testPinConfig(t, cert)}},
	})
	require.NoError(t, err)

	assert.Empty(t, store.RulesFor("other.example.com"))
	assert.Empty(t, store.RulesFor(""))
}

func TestRulesFor_Normalization(t *testing.T) {
	cert := generateTestCert(t)

	store, err := Load([]RuleConfig{
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{testPinConfig(t, cert)}},
	})
	require.NoError(t, err)

	assert.Len(t, store.RulesFor("API.EXAMPLE.COM."), 1)
}

func TestRule_MatchesChain(t *testing.T) {
	pinned := generateTestCert(t)
	other := generateTestCert(t)

	store, err := Load([]RuleConfig{
		{Pattern: "api.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{testPinConfig(t, pinned)}},
	})
	require.NoError(t, err)
	rule := store.RulesFor("api.example.com")[0]

	// Match anywhere in the chain, not only the leaf.
	assert.True(t, rule.MatchesChain([]*x509.Certificate{other, pinned}))
	assert.True(t, rule.MatchesChain([]*x509.Certificate{nil, pinned}))
	assert.False(t, rule.MatchesChain([]*x509.Certificate{other}))
	assert.False(t, rule.MatchesChain(nil))
}

func TestStore_RulesOrder(t *testing.T) {
	cert := generateTestCert(t)
	pin := testPinConfig(t, cert)

	store, err := Load([]RuleConfig{
		{Pattern: "*.example.com", Enforcement: EnforceReport, Pins: []PinConfig{pin}},
		{Pattern: "b.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
		{Pattern: "a.example.com", Enforcement: EnforceStrict, Pins: []PinConfig{pin}},
	})
	require.NoError(t, err)

	rules := store.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "a.example.com", rules[0].Pattern())
	assert.Equal(t, "b.example.com", rules[1].Pattern())
	assert.Equal(t, "*.example.com", rules[2].Pattern())
}

func TestNormalizeHostname(t *testing.T) {
	host, err := NormalizeHostname("API.Example.COM.")
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", host)

	_, err = NormalizeHostname("")
	assert.ErrorIs(t, err, ErrInvalidHostname)

	_, err = NormalizeHostname("bad\x00host")
	assert.ErrorIs(t, err, ErrInvalidHostname)
}

func TestParseTarget(t *testing.T) {
	for _, s := range []string{"certificate", "cert"} {
		target, err := ParseTarget(s)
		require.NoError(t, err)
		assert.Equal(t, TargetCertificate, target)
	}
	for _, s := range []string{"public-key", "spki", "PublicKey"} {
		target, err := ParseTarget(s)
		require.NoError(t, err)
		assert.Equal(t, TargetPublicKey, target)
	}
	_, err := ParseTarget("thumbprint")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestParseAlgorithm(t *testing.T) {
	algorithm, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, SHA256, algorithm)

	algorithm, err = ParseAlgorithm("SHA-512")
	require.NoError(t, err)
	assert.Equal(t, SHA512, algorithm)

	_, err = ParseAlgorithm("md5")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestParseEnforcement(t *testing.T) {
	enforcement, err := ParseEnforcement("")
	require.NoError(t, err)
	assert.Equal(t, EnforceStrict, enforcement)

	enforcement, err = ParseEnforcement("report")
	require.NoError(t, err)
	assert.Equal(t, EnforceReport, enforcement)

	enforcement, err = ParseEnforcement("off")
	require.NoError(t, err)
	assert.Equal(t, EnforceDisabled, enforcement)

	_, err = ParseEnforcement("audit")
	assert.ErrorIs(t, err, ErrUnknownEnforcement)
}
