// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"fmt"
	"math"
	"time"
)

// Frame builder functions create frames ready for the transport.
// Builders taking free-form numbers validate them and return ErrOutOfRange.

// NewFS20Frame creates an FS20 frame (0x01).
// The action is one of the FS20* codes or a dim level 0-16.
func NewFS20Frame(hc HouseCode, addr Address, action byte) Frame {
	var f Frame
	f[0] = OpFS20
	f[1] = hc.High()
	f[2] = hc.Low()
	f[3] = byte(addr)
	f[4] = action
	f[6] = fs20Trailer
	return f
}

// DimLevel converts a dim value to an FS20 level.
// Percent values are scaled with round(16*value/100).
func DimLevel(value int, percent bool) (byte, error) {
	level := value
	if percent {
		level = int(math.Round(float64(MaxDimLevel) * float64(value) / 100))
	}
	if level < MinDimLevel || level > MaxDimLevel {
		return 0, fmt.Errorf("%w: %d (must be within %d-%d or 0%%-100%%)", ErrInvalidDimLevel, level, MinDimLevel, MaxDimLevel)
	}
	return byte(level), nil
}

// NewUnirollFrame creates a Uniroll frame (0x15) for jalousie 1-16
func NewUnirollFrame(addr int, action byte) (Frame, error) {
	if addr < MinUnirollAddress || addr > MaxUnirollAddress {
		return Frame{}, fmt.Errorf("%w: uniroll address %d", ErrOutOfRange, addr)
	}
	var f Frame
	f[0] = OpUniroll
	f[1] = byte(addr - 1)
	f[2] = unirollMarker
	f[3] = action
	return f, nil
}

// InterTechnoCode maps a code letter A-P (any case) to 0-15
func InterTechnoCode(letter byte) (int, error) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'P' {
		return 0, fmt.Errorf("%w: intertechno code %q", ErrOutOfRange, letter)
	}
	return int(letter - 'A'), nil
}

// NewInterTechnoFrame creates an InterTechno frame (0x05) for code 0-15 and
// channel 1-16.
func NewInterTechnoFrame(code, addr int, action byte) (Frame, error) {
	if code < 0 || code > 15 {
		return Frame{}, fmt.Errorf("%w: intertechno code %d", ErrOutOfRange, code)
	}
	if addr < MinInterTechnoAddress || addr > MaxInterTechnoAddress {
		return Frame{}, fmt.Errorf("%w: intertechno address %d", ErrOutOfRange, addr)
	}
	var f Frame
	f[0] = OpInterTechno
	f[1] = byte(code*0x10 + (addr - 1))
	f[2] = action
	f[3] = interTechnoTrailer
	return f, nil
}

// NewSceneFrame creates a scene activation frame (0x0f) for scene 1-254
func NewSceneFrame(scene int) (Frame, error) {
	if scene < MinScene || scene > MaxScene {
		return Frame{}, fmt.Errorf("%w: scene %d", ErrOutOfRange, scene)
	}
	var f Frame
	f[0] = OpScene
	f[1] = byte(scene)
	return f, nil
}

// NewGetClockFrame creates a GET CLOCK request (0x09).
// The controller answers with a clock frame, see DecodeClock.
func NewGetClockFrame() Frame {
	return Frame{OpGetClock}
}

// NewGetTempFrame creates a GET TEMP request (0x0c).
// The controller answers with a temperature frame, see DecodeTemperature.
func NewGetTempFrame() Frame {
	return Frame{OpGetTemp}
}

// PackDecimal encodes 0-99 with the tens digit in the high nibble
func PackDecimal(v int) byte {
	return byte((v/10)*0x10 + v%10)
}

// NewSetClockFrames creates the three frames that set the controller clock.
// Only the first frame carries the time; the other two are a fixed
// handshake the controller requires after it.
func NewSetClockFrames(t time.Time) ([3]Frame, error) {
	var frames [3]Frame
	if t.Year() < 2000 || t.Year() > 2099 {
		return frames, fmt.Errorf("%w: year %d not within 2000-2099", ErrInvalidTimeFormat, t.Year())
	}

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	fields := [7]int{
		t.Second(),
		t.Minute(),
		t.Hour(),
		t.Day(),
		int(t.Month()),
		weekday,
		t.Year() - 2000,
	}

	frames[0][0] = OpSetClock
	for i, v := range fields {
		frames[0][i+1] = PackDecimal(v)
	}

	frames[1][0] = OpClockSync
	frames[1][2] = clockSyncMarker

	frames[2] = Frame{OpClockCommit, 0x02, 0x01, 0x02}
	return frames, nil
}
