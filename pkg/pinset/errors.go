// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package pinset implements the trusted pin store for TLS certificate and
// public-key pinning. A Store maps hostname rules (exact names or suffix
// wildcards) to sets of pins, where each pin is a cryptographic digest of
// either a full DER-encoded certificate or its SubjectPublicKeyInfo.
// Stores are immutable once built; configuration reload is performed by
// constructing a new Store and publishing it through a Handle.
package pinset

import "errors"

var (
	// ErrInvalidDigest is returned when a configured pin digest is not valid
	// hex or has the wrong length for its algorithm.
	ErrInvalidDigest = errors.New("pinset: invalid pin digest")

	// ErrDuplicateRule is returned when two rules target the identical
	// hostname pattern.
	ErrDuplicateRule = errors.New("pinset: duplicate hostname rule")

	// ErrEmptyPinSet is returned when a rule maps to zero pins.
	ErrEmptyPinSet = errors.New("pinset: rule has no pins")

	// ErrInvalidPattern is returned when a hostname pattern is empty or not
	// a valid exact hostname or suffix wildcard.
	ErrInvalidPattern = errors.New("pinset: invalid hostname pattern")

	// ErrInvalidHostname is returned when a hostname cannot be normalized
	// for rule lookup.
	ErrInvalidHostname = errors.New("pinset: invalid hostname")

	// ErrUnknownTarget is returned when a match target string is not
	// recognized.
	ErrUnknownTarget = errors.New("pinset: unknown match target")

	// ErrUnknownAlgorithm is returned when a digest algorithm string is not
	// recognized.
	ErrUnknownAlgorithm = errors.New("pinset: unknown digest algorithm")

	// ErrUnknownEnforcement is returned when an enforcement mode string is
	// not recognized.
	ErrUnknownEnforcement = errors.New("pinset: unknown enforcement mode")
)
