// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package tlsapin bridges the pin model and DANE TLSA records (RFC 6698).
// TLSA selectors and matching types map directly onto pin match targets
// and digest algorithms, so pins can be discovered from DNS and published
// back as zone-file lines.
package tlsapin

import "errors"

var (
	// ErrResolverConfig is returned when the DNS resolver configuration is
	// invalid or the system resolver cannot be determined.
	ErrResolverConfig = errors.New("tlsapin: invalid resolver configuration")

	// ErrLookupFailed is returned when the TLSA DNS query fails.
	ErrLookupFailed = errors.New("tlsapin: TLSA lookup failed")

	// ErrDNSSECRequired is returned when the resolver requires DNSSEC
	// validation and the response lacks the Authenticated Data flag.
	ErrDNSSECRequired = errors.New("tlsapin: response not DNSSEC authenticated")

	// ErrNoRecords is returned when the lookup yields no TLSA records.
	ErrNoRecords = errors.New("tlsapin: no TLSA records")

	// ErrNoUsableRecords is returned when TLSA records exist but none map
	// onto the pin model (e.g., exact-match records or PKIX-constrained
	// usages only).
	ErrNoUsableRecords = errors.New("tlsapin: no TLSA records usable as pins")

	// ErrInvalidHostname is returned when the query hostname is empty or
	// malformed.
	ErrInvalidHostname = errors.New("tlsapin: invalid hostname")

	// ErrInvalidPort is returned when the query port is zero.
	ErrInvalidPort = errors.New("tlsapin: invalid port")

	// ErrUnsupportedPin is returned when a pin cannot be expressed as a
	// TLSA record.
	ErrUnsupportedPin = errors.New("tlsapin: pin not expressible as TLSA")
)
