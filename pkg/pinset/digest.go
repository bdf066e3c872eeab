// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"crypto/x509"
)

// selectorFuncs maps a match target to the certificate bytes it covers.
var selectorFuncs = map[MatchTarget]func(cert *x509.Certificate) []byte{
	TargetCertificate: func(c *x509.Certificate) []byte { return c.Raw },
	TargetPublicKey:   func(c *x509.Certificate) []byte { return c.RawSubjectPublicKeyInfo },
}

// digestFuncs maps an algorithm to its digest function.
var digestFuncs = map[Algorithm]func(data []byte) []byte{
	SHA256: func(d []byte) []byte { h := sha256.Sum256(d); return h[:] },
	SHA512: func(d []byte) []byte { h := sha512.Sum512(d); return h[:] },
}

// ComputeDigest computes the digest of the selected certificate material
// under the given target and algorithm.
func ComputeDigest(cert *x509.Certificate, target MatchTarget, algorithm Algorithm) ([]byte, error) {
	if cert == nil {
		return nil, ErrInvalidDigest
	}
	selectorFn, ok := selectorFuncs[target]
	if !ok {
		return nil, ErrUnknownTarget
	}
	digestFn, ok := digestFuncs[algorithm]
	if !ok {
		return nil, ErrUnknownAlgorithm
	}
	return digestFn(selectorFn(cert)), nil
}

// Matches reports whether the certificate's digest under the pin's target
// and algorithm equals the pin's digest. The comparison is constant-time.
func (p Pin) Matches(cert *x509.Certificate) bool {
	computed, err := ComputeDigest(cert, p.Target, p.Algorithm)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(computed, p.digest) == 1
}

// digestKey identifies one computed digest within a single chain walk so
// the same (target, algorithm) pair is hashed at most once per certificate.
type digestKey struct {
	target    MatchTarget
	algorithm Algorithm
}

// digestCache memoizes per-certificate digests for one evaluation.
type digestCache map[digestKey][]byte

func (c digestCache) digest(cert *x509.Certificate, target MatchTarget, algorithm Algorithm) []byte {
	key := digestKey{target: target, algorithm: algorithm}
	if d, ok := c[key]; ok {
		return d
	}
	d, err := ComputeDigest(cert, target, algorithm)
	if err != nil {
		return nil
	}
	c[key] = d
	return d
}
