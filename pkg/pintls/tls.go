// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pintls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
)

// Config configures the pinned TLS client integration.
type Config struct {
	// Evaluator decides the verdict for each handshake. Required.
	Evaluator *challenge.Evaluator

	// ServerName is used for evaluation and default validation when the
	// connection state carries no SNI value (e.g., connections dialed by
	// IP address). Optional.
	ServerName string

	// Roots are the trust anchors for UseDefaultTrust verdicts. Nil uses
	// the system root pool.
	Roots *x509.CertPool

	// Base is copied as the starting TLS configuration, if set.
	Base *tls.Config
}

// NewTLSConfig builds a client *tls.Config that routes every handshake
// through the challenge evaluator. Built-in certificate verification is
// disabled because the evaluator owns the trust decision, including the
// standard-validation fallback for UseDefaultTrust verdicts.
func NewTLSConfig(cfg *Config) (*tls.Config, error) {
	if cfg == nil || cfg.Evaluator == nil {
		return nil, fmt.Errorf("%w: evaluator is required", ErrInvalidConfig)
	}

	var tlsCfg tls.Config
	if cfg.Base != nil {
		tlsCfg = *cfg.Base.Clone()
	}
	if tlsCfg.MinVersion == 0 {
		tlsCfg.MinVersion = tls.VersionTLS12
	}

	evaluator := cfg.Evaluator
	roots := cfg.Roots
	fallbackName := cfg.ServerName

	tlsCfg.InsecureSkipVerify = true //nolint:gosec // Trust decisions are made by the evaluator below.
	tlsCfg.VerifyConnection = func(cs tls.ConnectionState) error {
		hostname := cs.ServerName
		if hostname == "" {
			hostname = fallbackName
		}
		return Disposition(evaluator.Evaluate(hostname, cs.PeerCertificates), hostname, cs.PeerCertificates, roots)
	}

	return &tlsCfg, nil
}

// Disposition translates a verdict into the handshake's error vocabulary.
// Trust returns nil, Reject returns ErrPinRejected (or ErrMalformedChain
// for an empty chain), and UseDefaultTrust performs standard X.509 chain
// validation against the given roots.
func Disposition(verdict challenge.Verdict, hostname string, chain []*x509.Certificate, roots *x509.CertPool) error {
	switch verdict.Outcome {
	case challenge.Trust:
		return nil
	case challenge.UseDefaultTrust:
		return verifyDefault(hostname, chain, roots)
	default:
		if len(chain) == 0 {
			return fmt.Errorf("%w: %s", ErrMalformedChain, verdict.Reason)
		}
		return fmt.Errorf("%w: %s", ErrPinRejected, verdict.Reason)
	}
}

// verifyDefault performs the platform's standard certificate validation:
// leaf chain building against the root pool with the remaining presented
// certificates as intermediates, plus hostname verification.
func verifyDefault(hostname string, chain []*x509.Certificate, roots *x509.CertPool) error {
	if len(chain) == 0 {
		return ErrMalformedChain
	}

	opts := x509.VerifyOptions{
		DNSName: hostname,
		Roots:   roots,
	}
	if len(chain) > 1 {
		opts.Intermediates = x509.NewCertPool()
		for _, cert := range chain[1:] {
			opts.Intermediates.AddCert(cert)
		}
	}

	if _, err := chain[0].Verify(opts); err != nil {
		return fmt.Errorf("%w: %w", ErrDefaultVerification, err)
	}
	return nil
}

// EvaluateRawChain evaluates a chain supplied as raw DER blobs, as handed
// to a transport's verification callback. Any blob that fails to parse
// makes the whole chain malformed and yields a Reject verdict; partial
// chains are never evaluated.
func EvaluateRawChain(evaluator *challenge.Evaluator, hostname string, rawChain [][]byte) challenge.Verdict {
	if evaluator == nil {
		return challenge.Verdict{Outcome: challenge.Reject, Reason: "no evaluator configured"}
	}

	chain := make([]*x509.Certificate, 0, len(rawChain))
	for i, raw := range rawChain {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return challenge.Verdict{
				Outcome: challenge.Reject,
				Reason:  fmt.Sprintf("certificate %d does not parse: %v", i, err),
			}
		}
		chain = append(chain, cert)
	}

	return evaluator.Evaluate(hostname, chain)
}
