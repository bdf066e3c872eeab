// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package challenge

import (
	"crypto/x509"
	"fmt"
	"log/slog"

	"github.com/jeremyhahn/go-certpin/pkg/pinset"
)

// Observer receives the verdict of every evaluation. Implementations must
// be safe for concurrent use and must not block; they are invoked
// synchronously inside the handshake callback path.
type Observer interface {
	ObserveVerdict(hostname string, verdict Verdict)
}

// Config configures an Evaluator.
type Config struct {
	// Handle provides the pin store snapshot for each evaluation. Either
	// Handle or Store must be set; Handle takes precedence and allows the
	// store to be swapped at runtime.
	Handle *pinset.Handle

	// Store is a fixed pin store for callers that never reload.
	Store *pinset.Store

	// DefaultPolicy applies when no rule matches the hostname. Only Reject
	// and UseDefaultTrust are meaningful; Trust would silently disable
	// validation for unpinned hosts and is rejected by New. The zero value
	// of an unset Config field is Trust, so New requires an explicit
	// choice. Callers wanting the common behavior pass UseDefaultTrust.
	DefaultPolicy Outcome

	// Logger for debug traces. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer receives every verdict for telemetry. Optional.
	Observer Observer
}

// Evaluator evaluates server-trust challenges against a pin store.
type Evaluator struct {
	handle        *pinset.Handle
	defaultPolicy Outcome
	logger        *slog.Logger
	observer      Observer
}

// New creates an Evaluator from the given config.
func New(cfg *Config) (*Evaluator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	handle := cfg.Handle
	if handle == nil {
		if cfg.Store == nil {
			return nil, ErrNoStore
		}
		handle = pinset.NewHandle(cfg.Store)
	}

	if cfg.DefaultPolicy != Reject && cfg.DefaultPolicy != UseDefaultTrust {
		return nil, fmt.Errorf("%w: default policy must be reject or use-default-trust",
			ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		handle:        handle,
		defaultPolicy: cfg.DefaultPolicy,
		logger:        logger.With("component", "challenge_evaluator"),
		observer:      cfg.Observer,
	}, nil
}

// Evaluate decides the verdict for one handshake. It captures a store
// snapshot once, so a concurrent reload never affects an evaluation in
// flight. The call is side-effect-free apart from diagnostic emission.
func (e *Evaluator) Evaluate(hostname string, chain []*x509.Certificate) Verdict {
	verdict := evaluate(e.handle.Snapshot(), hostname, chain, e.defaultPolicy)

	if verdict.Reason != "" {
		e.logger.Warn("pin evaluation",
			"hostname", hostname, "outcome", verdict.Outcome.String(), "reason", verdict.Reason)
	} else {
		e.logger.Debug("pin evaluation",
			"hostname", hostname, "outcome", verdict.Outcome.String())
	}

	if e.observer != nil {
		e.observer.ObserveVerdict(hostname, verdict)
	}
	return verdict
}

// Evaluate is the pure form of the evaluator: it consults the store and
// returns a verdict without logging or telemetry, applying UseDefaultTrust
// when no rule matches the hostname.
func Evaluate(store *pinset.Store, hostname string, chain []*x509.Certificate) Verdict {
	return evaluate(store, hostname, chain, UseDefaultTrust)
}

// evaluate implements the pinning decision sequence:
//
//  1. An empty chain is rejected unconditionally; it indicates a malformed
//     handshake, not a pinning decision.
//  2. No matching rule applies the default policy without touching the
//     chain.
//  3. A digest match between any chain certificate and any pin of any
//     matching rule trusts the chain.
//  4. Otherwise the most specific rule's enforcement governs: strict
//     rejects, report trusts with a diagnostic reason, disabled trusts
//     silently.
func evaluate(store *pinset.Store, hostname string, chain []*x509.Certificate, defaultPolicy Outcome) Verdict {
	if len(chain) == 0 {
		return Verdict{Outcome: Reject, Reason: "empty certificate chain"}
	}

	var rules []*pinset.Rule
	if store != nil {
		rules = store.RulesFor(hostname)
	}
	if len(rules) == 0 {
		if defaultPolicy == Reject {
			return Verdict{
				Outcome: Reject,
				Reason:  fmt.Sprintf("no pinning rule for %q and default policy rejects", hostname),
			}
		}
		return Verdict{Outcome: defaultPolicy}
	}

	for _, rule := range rules {
		if rule.MatchesChain(chain) {
			return Verdict{Outcome: Trust}
		}
	}

	primary := rules[0]
	switch primary.Enforcement() {
	case pinset.EnforceStrict:
		return Verdict{
			Outcome: Reject,
			Reason:  fmt.Sprintf("no pin match for %q under rule %q", hostname, primary.Pattern()),
		}
	case pinset.EnforceReport:
		return Verdict{
			Outcome: Trust,
			Reason:  fmt.Sprintf("report-only pin mismatch for %q under rule %q", hostname, primary.Pattern()),
		}
	default:
		return Verdict{Outcome: Trust}
	}
}
