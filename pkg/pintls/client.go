// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pintls

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jeremyhahn/go-certpin/pkg/challenge"
)

// DefaultClientTimeout is the default HTTP request timeout for pinned
// clients.
const DefaultClientTimeout = 10 * time.Second

// ClientConfig configures a pinned HTTP client.
type ClientConfig struct {
	// Evaluator decides the verdict for each handshake. Required.
	Evaluator *challenge.Evaluator

	// Roots are the trust anchors for UseDefaultTrust verdicts. Nil uses
	// the system root pool.
	Roots *x509.CertPool

	// Timeout is the HTTP request timeout. Defaults to
	// DefaultClientTimeout.
	Timeout time.Duration

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewHTTPClient creates an *http.Client whose every TLS handshake is
// verified by the challenge evaluator.
func NewHTTPClient(cfg *ClientConfig) (*http.Client, error) {
	if cfg == nil || cfg.Evaluator == nil {
		return nil, ErrInvalidConfig
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultClientTimeout
	}

	tlsCfg, err := NewTLSConfig(&Config{Evaluator: cfg.Evaluator, Roots: cfg.Roots})
	if err != nil {
		return nil, err
	}

	logger.Debug("pinned HTTP client created", "timeout", timeout)

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: tlsCfg,
		},
	}, nil
}

// Dial establishes a pinned TLS connection to addr ("host:port") and
// returns it after the handshake, and therefore the pin evaluation, has
// completed. The underlying type of the returned connection is *tls.Conn.
func Dial(network, addr string, cfg *Config) (*tls.Conn, error) {
	return DialTimeout(network, addr, 0, cfg)
}

// DialTimeout is Dial with a deadline covering both the TCP connect and the
// TLS handshake. A zero timeout means no deadline.
func DialTimeout(network, addr string, timeout time.Duration, cfg *Config) (*tls.Conn, error) {
	tlsCfg, err := NewTLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, network, addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
