// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package tlsapin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jeremyhahn/go-certpin/pkg/pinset"
)

// TLSA field values from RFC 6698 relevant to pinning.
const (
	// usageDANETA (DANE-TA) asserts a trust anchor without PKIX validation.
	usageDANETA uint8 = 2

	// usageDANEEE (DANE-EE) pins an end-entity certificate without PKIX
	// validation.
	usageDANEEE uint8 = 3

	// selectorFullCert matches the full DER-encoded certificate.
	selectorFullCert uint8 = 0

	// selectorSPKI matches the DER-encoded SubjectPublicKeyInfo.
	selectorSPKI uint8 = 1

	// matchingSHA256 and matchingSHA512 are hashed association data;
	// matching type 0 (exact bytes) has no pin equivalent.
	matchingSHA256 uint8 = 1
	matchingSHA512 uint8 = 2
)

// selectorTargets maps TLSA selectors onto pin match targets.
var selectorTargets = map[uint8]pinset.MatchTarget{
	selectorFullCert: pinset.TargetCertificate,
	selectorSPKI:     pinset.TargetPublicKey,
}

// matchingAlgorithms maps TLSA matching types onto pin digest algorithms.
var matchingAlgorithms = map[uint8]pinset.Algorithm{
	matchingSHA256: pinset.SHA256,
	matchingSHA512: pinset.SHA512,
}

// Record is one TLSA record reduced to the fields the pin model uses.
type Record struct {
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	CertData     []byte
}

// PinConfig converts the record into a pin configuration. Records with an
// exact matching type, a PKIX-constrained usage, or an unknown selector
// return ErrUnsupportedPin: only DANE-TA and DANE-EE records assert trust
// on their own, which is what a pin does.
func (r *Record) PinConfig() (pinset.PinConfig, error) {
	if r.Usage != usageDANETA && r.Usage != usageDANEEE {
		return pinset.PinConfig{}, fmt.Errorf("%w: usage %d requires PKIX validation", ErrUnsupportedPin, r.Usage)
	}
	target, ok := selectorTargets[r.Selector]
	if !ok {
		return pinset.PinConfig{}, fmt.Errorf("%w: selector %d", ErrUnsupportedPin, r.Selector)
	}
	algorithm, ok := matchingAlgorithms[r.MatchingType]
	if !ok {
		return pinset.PinConfig{}, fmt.Errorf("%w: matching type %d", ErrUnsupportedPin, r.MatchingType)
	}
	return pinset.PinConfig{
		Target:    target,
		Algorithm: algorithm,
		DigestHex: hex.EncodeToString(r.CertData),
	}, nil
}

// RuleFromRecords converts the usable subset of TLSA records into a strict
// pin rule for the hostname. It returns ErrNoUsableRecords when nothing
// converts.
func RuleFromRecords(hostname string, records []*Record) (pinset.RuleConfig, error) {
	pins := make([]pinset.PinConfig, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		pin, err := rec.PinConfig()
		if err != nil {
			continue
		}
		pins = append(pins, pin)
	}
	if len(pins) == 0 {
		return pinset.RuleConfig{}, ErrNoUsableRecords
	}
	return pinset.RuleConfig{
		Pattern:     hostname,
		Enforcement: pinset.EnforceStrict,
		Pins:        pins,
	}, nil
}

// ZoneLine formats one pin as a TLSA zone-file line for the hostname and
// port. Certificate pins publish as DANE-EE full-cert records and
// public-key pins as DANE-TA SPKI records, matching the pin's intent of
// asserting trust without PKIX validation.
func ZoneLine(hostname string, port uint16, pin pinset.Pin) (string, error) {
	if hostname == "" {
		return "", ErrInvalidHostname
	}
	if port == 0 {
		return "", ErrInvalidPort
	}

	usage := usageDANETA
	selector := selectorSPKI
	if pin.Target == pinset.TargetCertificate {
		usage = usageDANEEE
		selector = selectorFullCert
	}

	matching := matchingSHA256
	if pin.Algorithm == pinset.SHA512 {
		matching = matchingSHA512
	}

	return fmt.Sprintf("%s IN TLSA %d %d %d %s",
		tlsaName(hostname, port), usage, selector, matching, pin.HexDigest()), nil
}

// ExportRule renders every pin of a rule as TLSA zone lines. Wildcard
// rules cannot be published in DNS and return ErrInvalidHostname.
func ExportRule(rule *pinset.Rule, port uint16) ([]string, error) {
	pattern := rule.Pattern()
	if strings.HasPrefix(pattern, "*.") {
		return nil, fmt.Errorf("%w: wildcard rule %q has no TLSA owner name", ErrInvalidHostname, pattern)
	}

	pins := rule.Pins()
	lines := make([]string, 0, len(pins))
	for _, pin := range pins {
		line, err := ZoneLine(pattern, port, pin)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// tlsaName constructs the TLSA owner name "_<port>._tcp.<hostname>." per
// RFC 6698 Section 3.
func tlsaName(hostname string, port uint16) string {
	if !strings.HasSuffix(hostname, ".") {
		hostname += "."
	}
	return fmt.Sprintf("_%d._tcp.%s", port, hostname)
}
