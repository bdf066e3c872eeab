// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinconfig

import "errors"

var (
	// ErrConfigLoad is returned when the policy file cannot be read.
	ErrConfigLoad = errors.New("pinconfig: cannot read policy file")

	// ErrConfigParse is returned when the policy data is not valid YAML or
	// contains unknown fields.
	ErrConfigParse = errors.New("pinconfig: cannot parse policy")

	// ErrUnknownPolicy is returned when default_policy is not
	// "use-default-trust" or "reject".
	ErrUnknownPolicy = errors.New("pinconfig: unknown default policy")

	// ErrNilHandle is returned when Reload is called without a store handle.
	ErrNilHandle = errors.New("pinconfig: nil store handle")
)
