// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package challenge implements the server-trust challenge evaluator: given
// a hostname and the certificate chain presented during a TLS handshake,
// it consults a pinset.Store and returns a Verdict of Trust, Reject, or
// UseDefaultTrust. Evaluation is pure in-memory digest work; it never
// blocks and is safe to call concurrently from many handshakes.
package challenge

import "errors"

var (
	// ErrInvalidConfig indicates the evaluator configuration is missing
	// required fields.
	ErrInvalidConfig = errors.New("challenge: invalid configuration")

	// ErrNoStore indicates the evaluator was constructed without a pin
	// store or store handle.
	ErrNoStore = errors.New("challenge: no pin store configured")
)
