// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/hex"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestCert creates a self-signed ECDSA P-256 certificate for testing.
func generateTestCert(t *testing.T) *x509.Certificate {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(certDER)
	require.NoError(t, err)

	return cert
}

// hexDigest computes the expected hex digest for a pin config in tests.
func hexDigest(t *testing.T, cert *x509.Certificate, target MatchTarget, algorithm Algorithm) string {
	t.Helper()
	d, err := ComputeDigest(cert, target, algorithm)
	require.NoError(t, err)
	return hex.EncodeToString(d)
}

func TestComputeDigest_Certificate(t *testing.T) {
	cert := generateTestCert(t)

	d, err := ComputeDigest(cert, TargetCertificate, SHA256)
	require.NoError(t, err)

	expected := sha256.Sum256(cert.Raw)
	assert.Equal(t, expected[:], d)
}

func TestComputeDigest_PublicKey(t *testing.T) {
	cert := generateTestCert(t)

	d, err := ComputeDigest(cert, TargetPublicKey, SHA256)
	require.NoError(t, err)

	expected := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
	assert.Equal(t, expected[:], d)
}

func TestComputeDigest_SHA512(t *testing.T) {
	cert := generateTestCert(t)

	d, err := ComputeDigest(cert, TargetPublicKey, SHA512)
	require.NoError(t, err)

	expected := sha512.Sum512(cert.RawSubjectPublicKeyInfo)
	assert.Equal(t, expected[:], d)
}

func TestComputeDigest_NilCert(t *testing.T) {
	_, err := ComputeDigest(nil, TargetCertificate, SHA256)
	assert.ErrorIs(t, err, ErrInvalidDigest)
}

func TestNewPin_Valid(t *testing.T) {
	cert := generateTestCert(t)
	digest := hexDigest(t, cert, TargetPublicKey, SHA256)

	pin, err := NewPin(TargetPublicKey, SHA256, digest)
	require.NoError(t, err)
	assert.Equal(t, digest, pin.HexDigest())
	assert.True(t, pin.Matches(cert))
}

func TestNewPin_UppercaseHex(t *testing.T) {
	cert := generateTestCert(t)
	d, err := ComputeDigest(cert, TargetCertificate, SHA256)
	require.NoError(t, err)

	pin, err := NewPin(TargetCertificate, SHA256, "  "+hex.EncodeToString(d)+" ")
	require.NoError(t, err)
	assert.True(t, pin.Matches(cert))
}

func TestNewPin_InvalidHex(t *testing.T) {
	_, err := NewPin(TargetPublicKey, SHA256, "not-hex-zzzz")
	assert.ErrorIs(t, err, ErrInvalidDigest)
}

func TestNewPin_WrongLength(t *testing.T) {
	// Valid hex but 16 bytes instead of 32.
	_, err := NewPin(TargetPublicKey, SHA256, "abcdef0123456789abcdef0123456789")
	assert.ErrorIs(t, err, ErrInvalidDigest)

	// A SHA-256-length digest is invalid for SHA-512.
	cert := generateTestCert(t)
	_, err = NewPin(TargetPublicKey, SHA512, hexDigest(t, cert, TargetPublicKey, SHA256))
	assert.ErrorIs(t, err, ErrInvalidDigest)
}

func TestPin_Matches_WrongTarget(t *testing.T) {
	cert := generateTestCert(t)

	// An SPKI digest configured as a certificate pin must not match.
	pin, err := NewPin(TargetCertificate, SHA256, hexDigest(t, cert, TargetPublicKey, SHA256))
	require.NoError(t, err)
	assert.False(t, pin.Matches(cert))
}

func TestPin_DigestReturnsCopy(t *testing.T) {
	cert := generateTestCert(t)
	pin, err := NewPin(TargetPublicKey, SHA256, hexDigest(t, cert, TargetPublicKey, SHA256))
	require.NoError(t, err)

	d := pin.Digest()
	for i := range d {
		d[i] = 0
	}
	assert.True(t, pin.Matches(cert), "mutating the returned digest must not affect the pin")
}
