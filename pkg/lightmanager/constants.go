// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package lightmanager implements the 8-byte frame protocol spoken by the
// jbmedia Light-Manager (Pro) USB controller.
//
// The controller bridges USB to FS20, Uniroll and InterTechno radio devices.
// This package builds outgoing frames, decodes the two response frames the
// controller produces (clock and temperature) and converts the FS20 pair
// notation used for housecodes and device addresses.
package lightmanager

// Program identification, reported in the session banner and help text.
const (
	ProgName = "Linux Lightmanager"
	Version  = "1.2.0008"
)

// USB identification of the Light-Manager (Pro)
const (
	VendorID  = 0x16c0
	ProductID = 0x0a32
)

// FrameSize is the size of every frame exchanged with the controller
const FrameSize = 8

// Opcodes (byte 0 of a frame)
const (
	OpClockSync   = 0x00 // second SET CLOCK frame
	OpFS20        = 0x01
	OpInterTechno = 0x05
	OpClockCommit = 0x06 // third SET CLOCK frame
	OpSetClock    = 0x08
	OpGetClock    = 0x09
	OpGetTemp     = 0x0c
	OpScene       = 0x0f
	OpUniroll     = 0x15
)

// Fixed payload bytes
const (
	fs20Trailer        = 0x03
	unirollMarker      = 0x74
	interTechnoTrailer = 0x06
	clockSyncMarker    = 0x0d
)

// TempResponse marks a valid GET TEMP response in byte 0
const TempResponse = 0xfd

// FS20 action codes
const (
	FS20Off    = 0x00
	FS20On     = 0x11
	FS20Toggle = 0x12
	FS20Up     = 0x13
	FS20Down   = 0x14
)

// FS20 dim levels
const (
	MinDimLevel = 0
	MaxDimLevel = 16
)

// Uniroll action codes
const (
	UnirollUp   = 0x01
	UnirollStop = 0x02
	UnirollDown = 0x04
)

// InterTechno action codes
const (
	InterTechnoOff    = 0x00
	InterTechnoOn     = 0x01
	InterTechnoToggle = 0x02
)

// Parameter ranges
const (
	MinUnirollAddress     = 1
	MaxUnirollAddress     = 16
	MinInterTechnoAddress = 1
	MaxInterTechnoAddress = 16
	MinScene              = 1
	MaxScene              = 254
)
