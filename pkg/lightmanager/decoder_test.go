// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"testing"
	"time"
)

func TestDecodeClock(t *testing.T) {
	resp := Frame{30, 45, 21, 17, 3, 7, 24, 0}
	got := DecodeClock(resp, time.UTC)
	want := time.Date(2024, time.March, 17, 21, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeClock = %v, want %v", got, want)
	}
}

func TestDecodeClock_RawPackedFields(t *testing.T) {
	// Packed decimal bytes are taken as-is: 0x30 seconds is 48
	resp := Frame{0x30, 0x00, 0x00, 0x01, 0x01, 0x01, 0x00, 0}
	got := DecodeClock(resp, time.UTC)
	want := time.Date(2000, time.January, 1, 0, 0, 48, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeClock = %v, want %v", got, want)
	}
}

func TestDecodeTemperature(t *testing.T) {
	c, ok := DecodeTemperature(Frame{0xfd, 45})
	if !ok {
		t.Fatal("DecodeTemperature ok = false, want true")
	}
	if c != 22.5 {
		t.Errorf("DecodeTemperature = %.1f, want 22.5", c)
	}

	if _, ok := DecodeTemperature(Frame{0x0c, 45}); ok {
		t.Error("DecodeTemperature ok = true for non-temperature response")
	}
}
