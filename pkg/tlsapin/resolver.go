// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package tlsapin

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/jeremyhahn/go-certpin/pkg/pinset"
)

const (
	// defaultTimeout is the default DNS query timeout.
	defaultTimeout = 5 * time.Second

	// defaultDNSPort and defaultDoTPort are the standard plain-DNS and
	// DNS-over-TLS ports.
	defaultDNSPort = "53"
	defaultDoTPort = "853"

	// maxHostnameLength is the maximum DNS name length per RFC 1035.
	maxHostnameLength = 253
)

// ResolverConfig configures the TLSA pin discovery resolver.
type ResolverConfig struct {
	// Server is the DNS resolver address ("host" or "host:port"). Empty
	// uses the system resolver from /etc/resolv.conf.
	Server string

	// UseTLS enables DNS-over-TLS on port 853.
	UseTLS bool

	// TLSServerName is the SNI value for DNS-over-TLS connections.
	TLSServerName string

	// RequireAD requires the Authenticated Data flag in responses,
	// indicating the resolver validated DNSSEC signatures. Pins sourced
	// from unauthenticated DNS are attacker-controlled, so this should
	// stay enabled outside of tests.
	RequireAD bool

	// Timeout is the maximum duration for a DNS query. Default: 5s.
	Timeout time.Duration
}

// Resolver discovers pins from TLSA DNS records.
type Resolver struct {
	config *ResolverConfig
	client *dns.Client
	server string
}

// NewResolver creates a TLSA pin discovery resolver, applying defaults for
// unset fields and resolving the system nameserver when none is given.
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, ErrResolverConfig
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &dns.Client{Timeout: timeout}
	server := cfg.Server

	if cfg.UseTLS {
		client.Net = "tcp-tls"
		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.TLSServerName != "" {
			tlsCfg.ServerName = cfg.TLSServerName
		}
		client.TLSConfig = tlsCfg
		if server != "" && !strings.Contains(server, ":") {
			server += ":" + defaultDoTPort
		}
	} else {
		client.Net = "udp"
		if server != "" && !strings.Contains(server, ":") {
			server += ":" + defaultDNSPort
		}
	}

	if server == "" {
		systemCfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrResolverConfig, err.Error())
		}
		if len(systemCfg.Servers) == 0 {
			return nil, fmt.Errorf("%w: no nameservers in /etc/resolv.conf", ErrResolverConfig)
		}
		port := systemCfg.Port
		if port == "" {
			port = defaultDNSPort
		}
		server = systemCfg.Servers[0] + ":" + port
	}

	return &Resolver{config: cfg, client: client, server: server}, nil
}

// LookupRecords queries the TLSA records published for hostname and port
// at "_<port>._tcp.<hostname>." and returns them unfiltered.
func (r *Resolver) LookupRecords(ctx context.Context, hostname string, port uint16) ([]*Record, error) {
	if hostname == "" || len(hostname) > maxHostnameLength || strings.ContainsRune(hostname, 0) {
		return nil, ErrInvalidHostname
	}
	if port == 0 {
		return nil, ErrInvalidPort
	}

	msg := new(dns.Msg)
	msg.SetQuestion(tlsaName(hostname, port), dns.TypeTLSA)
	msg.SetEdns0(4096, true) // DNSSEC OK bit.
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, err.Error())
	}
	if resp == nil {
		return nil, ErrLookupFailed
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: rcode %s", ErrLookupFailed, dns.RcodeToString[resp.Rcode])
	}
	if r.config.RequireAD && !resp.AuthenticatedData {
		return nil, ErrDNSSECRequired
	}

	records := make([]*Record, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		tlsa, ok := rr.(*dns.TLSA)
		if !ok {
			continue
		}
		certData, err := hex.DecodeString(tlsa.Certificate)
		if err != nil {
			continue
		}
		records = append(records, &Record{
			Usage:        tlsa.Usage,
			Selector:     tlsa.Selector,
			MatchingType: tlsa.MatchingType,
			CertData:     certData,
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// DiscoverRule resolves TLSA records for hostname and port and converts
// the usable subset into a strict pin rule ready to merge into a policy.
func (r *Resolver) DiscoverRule(ctx context.Context, hostname string, port uint16) (pinset.RuleConfig, error) {
	records, err := r.LookupRecords(ctx, hostname, port)
	if err != nil {
		return pinset.RuleConfig{}, err
	}
	return RuleFromRecords(hostname, records)
}
