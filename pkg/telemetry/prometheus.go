// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
)

// Metrics is a challenge.Observer backed by Prometheus counters.
type Metrics struct {
	evaluations *prometheus.CounterVec
	mismatches  prometheus.Counter
}

// NewMetrics creates the pin evaluation counters and registers them with
// the given registerer. A nil registerer uses the default registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "certpin",
			Name:      "evaluations_total",
			Help:      "Pin evaluations by verdict outcome.",
		}, []string{"outcome"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "certpin",
			Name:      "report_mismatches_total",
			Help:      "Pin mismatches trusted under report-only enforcement.",
		}),
	}

	for _, c := range []prometheus.Collector{m.evaluations, m.mismatches} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveVerdict implements challenge.Observer.
func (m *Metrics) ObserveVerdict(hostname string, verdict Verdict) {
	m.evaluations.WithLabelValues(verdict.Outcome.String()).Inc()
	if verdict.Outcome == challenge.Trust && verdict.Reason != "" {
		m.mismatches.Inc()
	}
}
