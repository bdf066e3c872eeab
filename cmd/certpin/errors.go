// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import "errors"

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitCheckFailed indicates a pin check or lookup operation failed.
	ExitCheckFailed = 1

	// ExitConfigError indicates a configuration or input validation error.
	ExitConfigError = 2
)

// Sentinel errors for CLI operations.
var (
	// ErrInvalidInput is returned when required input parameters are missing or invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigInvalid is returned when a pin policy file fails validation.
	ErrConfigInvalid = errors.New("policy validation failed")

	// ErrCheckFailed is returned when a live pin check fails.
	ErrCheckFailed = errors.New("pin check failed")

	// ErrLookupFailed is returned when a TLSA discovery lookup fails.
	ErrLookupFailed = errors.New("lookup failed")

	// ErrFileOperation is returned when a file read or write operation fails.
	ErrFileOperation = errors.New("file operation failed")
)
