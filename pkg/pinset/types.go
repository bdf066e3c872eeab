// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
)

// MatchTarget selects which part of a certificate a pin is computed over.
type MatchTarget uint8

const (
	// TargetCertificate pins the digest of the full DER-encoded certificate.
	TargetCertificate MatchTarget = iota

	// TargetPublicKey pins the digest of the DER-encoded
	// SubjectPublicKeyInfo (SPKI). This is the recommended target since it
	// survives certificate renewal with the same key.
	TargetPublicKey
)

// String returns the canonical configuration name for the match target.
func (t MatchTarget) String() string {
	switch t {
	case TargetCertificate:
		return "certificate"
	case TargetPublicKey:
		return "public-key"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseTarget parses a match target from its configuration name.
// Accepted values: "certificate", "cert", "public-key", "publickey", "spki".
func ParseTarget(s string) (MatchTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "certificate", "cert":
		return TargetCertificate, nil
	case "public-key", "publickey", "spki":
		return TargetPublicKey, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}

// Algorithm identifies the digest algorithm a pin was computed with.
type Algorithm uint8

const (
	// SHA256 is the default pin digest algorithm.
	SHA256 Algorithm = iota

	// SHA512 produces 64-byte digests for operators who require it.
	SHA512
)

// Size returns the digest length in bytes for the algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA512:
		return sha512.Size
	default:
		return sha256.Size
	}
}

// String returns the canonical configuration name for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha-256"
	case SHA512:
		return "sha-512"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm parses a digest algorithm from its configuration name.
// An empty string selects SHA-256.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha-256", "sha256":
		return SHA256, nil
	case "sha-512", "sha512":
		return SHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Enforcement governs what happens when a presented chain matches none of
// a rule's pins.
type Enforcement uint8

const (
	// EnforceStrict rejects the connection on a pin mismatch.
	EnforceStrict Enforcement = iota

	// EnforceReport trusts the connection on a mismatch but emits a
	// diagnostic event for telemetry.
	EnforceReport

	// EnforceDisabled trusts the connection silently, keeping the rule in
	// place for later re-activation.
	EnforceDisabled
)

// String returns the canonical configuration name for the enforcement mode.
func (e Enforcement) String() string {
	switch e {
	case EnforceStrict:
		return "strict"
	case EnforceReport:
		return "report"
	case EnforceDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseEnforcement parses an enforcement mode from its configuration name.
// An empty string selects strict enforcement.
func ParseEnforcement(s string) (Enforcement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return EnforceStrict, nil
	case "report":
		return EnforceReport, nil
	case "disabled", "off":
		return EnforceDisabled, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnforcement, s)
	}
}

// Pin is a single trusted digest. Pins are value types and must not be
// mutated after construction; NewPin copies the decoded digest bytes.
type Pin struct {
	// Target selects the certificate material the digest covers.
	Target MatchTarget

	// Algorithm is the digest algorithm.
	Algorithm Algorithm

	// digest holds the decoded digest bytes, owned by the Pin.
	digest []byte
}

// NewPin builds a Pin from a hex-encoded digest, validating that the hex
// decodes to exactly the algorithm's digest length.
func NewPin(target MatchTarget, algorithm Algorithm, digestHex string) (Pin, error) {
	raw, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(digestHex)))
	if err != nil {
		return Pin{}, fmt.Errorf("%w: %q is not valid hex", ErrInvalidDigest, digestHex)
	}
	if len(raw) != algorithm.Size() {
		return Pin{}, fmt.Errorf("%w: %s digest must be %d bytes, got %d",
			ErrInvalidDigest, algorithm, algorithm.Size(), len(raw))
	}
	return Pin{Target: target, Algorithm: algorithm, digest: raw}, nil
}

// Digest returns a copy of the pin's digest bytes.
func (p Pin) Digest() []byte {
	out := make([]byte, len(p.digest))
	copy(out, p.digest)
	return out
}

// HexDigest returns the hex-encoded digest.
func (p Pin) HexDigest() string {
	return hex.EncodeToString(p.digest)
}

// PinConfig describes one pin as supplied by the configuration loader.
type PinConfig struct {
	// Target is the match target: "certificate" or "public-key".
	Target MatchTarget

	// Algorithm is the digest algorithm.
	Algorithm Algorithm

	// DigestHex is the hex-encoded digest of the expected length.
	DigestHex string
}

// RuleConfig describes one hostname rule as supplied by the configuration
// loader: a pattern, an enforcement mode, and at least one pin.
type RuleConfig struct {
	// Pattern is an exact hostname ("api.example.com") or a suffix
	// wildcard ("*.example.com").
	Pattern string

	// Enforcement is the mismatch policy for this rule.
	Enforcement Enforcement

	// Pins are the acceptable pins; matching any one of them is sufficient.
	Pins []PinConfig
}
