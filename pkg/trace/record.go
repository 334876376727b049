// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package trace records every frame transfer attempt to a CBOR file
// and reads such files back.
package trace

import (
	"fmt"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// Direction of a transfer
type Direction uint8

const (
	// DirectionOut is a frame written to the controller
	DirectionOut Direction = 0
	// DirectionIn is a frame read from the controller
	DirectionIn Direction = 1
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "OUT"
	case DirectionIn:
		return "IN"
	default:
		return "UNKNOWN"
	}
}

// Record is one transfer attempt.
// CBOR encoding uses integer keys.
type Record struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Direction Direction `cbor:"2,keyasint"`
	Frame     []byte    `cbor:"3,keyasint"`
	Attempt   int       `cbor:"4,keyasint"`
	Error     string    `cbor:"5,keyasint,omitempty"`
}

// NewRecord creates a record for a transfer attempt, stamped now
func NewRecord(dir Direction, f lightmanager.Frame, attempt int, err error) Record {
	r := Record{
		Timestamp: time.Now(),
		Direction: dir,
		Frame:     f.Bytes(),
		Attempt:   attempt,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Format renders a record as a single line
func Format(r Record) string {
	f := lightmanager.FrameFromBytes(r.Frame)

	line := fmt.Sprintf("%s %-3s #%d [%s]",
		r.Timestamp.Format("15:04:05.000"), r.Direction, r.Attempt, f)

	if r.Error != "" {
		return line + " error: " + r.Error
	}
	if r.Direction == DirectionOut {
		return line + " " + lightmanager.FormatFrame(f)
	}
	return line
}
