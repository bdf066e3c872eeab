// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package challenge

import "fmt"

// Outcome is the evaluator's decision for one handshake.
type Outcome uint8

const (
	// Trust accepts the presented credential.
	Trust Outcome = iota

	// Reject cancels the handshake.
	Reject

	// UseDefaultTrust defers to the platform's standard certificate chain
	// validation instead of a pin decision.
	UseDefaultTrust
)

// String returns the outcome name for logging and telemetry.
func (o Outcome) String() string {
	switch o {
	case Trust:
		return "trust"
	case Reject:
		return "reject"
	case UseDefaultTrust:
		return "use-default-trust"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// Verdict is the result of evaluating one presented chain. Reason is a
// local diagnostic string for logging and telemetry only; it is never
// transmitted to the remote peer.
type Verdict struct {
	Outcome Outcome
	Reason  string
}
