// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package telemetry provides challenge.Observer implementations for
// operational visibility into pin evaluations: Prometheus counters and
// structured log events. Events carry only the hostname, outcome, and
// diagnostic reason; raw key material never appears beyond the digests
// already present in configuration.
package telemetry

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
)

// LogObserver emits a structured log event for verdicts that warrant
// operator attention: every Reject and every report-only mismatch. Each
// event carries a generated ID so log pipelines can correlate entries.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. If logger is nil, slog.Default()
// is used.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger.With("component", "pin_telemetry")}
}

// ObserveVerdict implements challenge.Observer.
func (o *LogObserver) ObserveVerdict(hostname string, verdict Verdict) {
	reportMismatch := verdict.Outcome == challenge.Trust && verdict.Reason != ""
	if verdict.Outcome != challenge.Reject && !reportMismatch {
		return
	}
	o.logger.Warn("pin verdict",
		"event_id", uuid.NewString(),
		"hostname", hostname,
		"outcome", verdict.Outcome.String(),
		"reason", verdict.Reason)
}

// Verdict aliases challenge.Verdict so observer implementations read
// naturally at call sites.
type Verdict = challenge.Verdict

// MultiObserver fans one verdict out to several observers in order.
type MultiObserver []challenge.Observer

// ObserveVerdict implements challenge.Observer.
func (m MultiObserver) ObserveVerdict(hostname string, verdict Verdict) {
	for _, obs := range m {
		if obs != nil {
			obs.ObserveVerdict(hostname, verdict)
		}
	}
}
