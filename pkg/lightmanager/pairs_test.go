// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"errors"
	"testing"
)

func TestEncodePairs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint32
	}{
		{"lowest address", "1111", 0x00},
		{"highest address", "4444", 0xff},
		{"mixed address", "1234", 0x1b},
		{"single pair", "44", 0x0f},
		{"housecode", "14213444", 0x34bf},
		{"zero housecode", "11111111", 0x0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePairs(tt.in)
			if err != nil {
				t.Fatalf("EncodePairs(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("EncodePairs(%q) = 0x%X, want 0x%X", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodePairs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"odd length", "123"},
		{"digit zero", "1011"},
		{"digit five", "1511"},
		{"letter", "1a11"},
		{"separator", "11.11"},
		{"too many pairs", "111111111111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodePairs(tt.in)
			if !errors.Is(err, ErrInvalidAddressFormat) {
				t.Errorf("EncodePairs(%q) error = %v, want ErrInvalidAddressFormat", tt.in, err)
			}
		})
	}
}

func TestDecodePairs_RoundTrip(t *testing.T) {
	// Every 2-pair string, plus a few longer ones
	var inputs []string
	digits := "1234"
	for _, a := range digits {
		for _, b := range digits {
			for _, c := range digits {
				for _, d := range digits {
					inputs = append(inputs, string([]rune{a, b, c, d}))
				}
			}
		}
	}
	inputs = append(inputs, "14213444", "44444444", "21", "111213")

	for _, s := range inputs {
		v, err := EncodePairs(s)
		if err != nil {
			t.Fatalf("EncodePairs(%q) error: %v", s, err)
		}
		if got := DecodePairs(v, len(s)/2, ""); got != s {
			t.Errorf("DecodePairs(EncodePairs(%q)) = %q", s, got)
		}
	}
}

func TestDecodePairs_Separator(t *testing.T) {
	got := DecodePairs(0x34bf, 4, ".")
	if got != "14.21.34.44" {
		t.Errorf("DecodePairs with separator = %q, want %q", got, "14.21.34.44")
	}
}

func TestParseHouseCode(t *testing.T) {
	hc, err := ParseHouseCode("12131414")
	if err != nil {
		t.Fatalf("ParseHouseCode error: %v", err)
	}
	if hc != 0x1233 {
		t.Errorf("ParseHouseCode = 0x%04X, want 0x1233", uint16(hc))
	}
	if hc.High() != 0x12 || hc.Low() != 0x33 {
		t.Errorf("High/Low = 0x%02X/0x%02X, want 0x12/0x33", hc.High(), hc.Low())
	}
	if hc.String() != "12131414" {
		t.Errorf("String() = %q, want %q", hc.String(), "12131414")
	}

	if _, err := ParseHouseCode("1111111111"); !errors.Is(err, ErrInvalidAddressFormat) {
		t.Errorf("ParseHouseCode(5 pairs) error = %v, want ErrInvalidAddressFormat", err)
	}
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("1111")
	if err != nil {
		t.Fatalf("ParseAddress error: %v", err)
	}
	if a != 0 {
		t.Errorf("ParseAddress(1111) = %d, want 0", a)
	}
	if a.String() != "1111" {
		t.Errorf("String() = %q, want 1111", a.String())
	}

	if _, err := ParseAddress("111111"); !errors.Is(err, ErrInvalidAddressFormat) {
		t.Errorf("ParseAddress(3 pairs) error = %v, want ErrInvalidAddressFormat", err)
	}
}
