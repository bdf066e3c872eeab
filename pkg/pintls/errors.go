// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package pintls connects the challenge evaluator to crypto/tls. It
// builds client TLS configurations whose connection verification callback
// translates the evaluator's verdict into the transport's vocabulary:
// Trust proceeds with the presented credential, Reject aborts the
// handshake, and UseDefaultTrust falls back to standard X.509 chain
// validation.
package pintls

import "errors"

var (
	// ErrInvalidConfig indicates the TLS integration configuration is
	// missing required fields.
	ErrInvalidConfig = errors.New("pintls: invalid configuration")

	// ErrPinRejected is returned from the handshake when the evaluator
	// rejects the presented chain.
	ErrPinRejected = errors.New("pintls: certificate pin verification failed")

	// ErrMalformedChain is returned when the presented chain is empty or
	// contains data that does not parse as a certificate. Malformed input
	// always rejects; it never falls back to default trust.
	ErrMalformedChain = errors.New("pintls: malformed certificate chain")

	// ErrDefaultVerification is returned when the evaluator deferred to
	// standard validation and that validation failed.
	ErrDefaultVerification = errors.New("pintls: default certificate verification failed")
)
