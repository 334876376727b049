// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import "errors"

var (
	// ErrInvalidAddressFormat is returned for malformed FS20 pair notation
	ErrInvalidAddressFormat = errors.New("invalid address format")

	// ErrInvalidDimLevel is returned for FS20 dim levels outside 0-16
	ErrInvalidDimLevel = errors.New("invalid dim level")

	// ErrInvalidTimeFormat is returned for unparseable SET CLOCK time tokens
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrOutOfRange is returned for numeric parameters outside their range
	ErrOutOfRange = errors.New("parameter out of range")
)
