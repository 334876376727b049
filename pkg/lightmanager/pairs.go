// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"fmt"
	"strings"
)

// FS20 codes are written as pairs of digits 1-4. Each pair selects one
// nibble: nibble = (d1-1)*4 + (d2-1). Pairs are packed most significant
// first, so "1234" is 0x1b and "11111111" is 0x0000.

// maxPairs is the number of nibbles that fit the 32-bit result
const maxPairs = 8

// EncodePairs converts FS20 pair notation to its packed integer value.
func EncodePairs(s string) (uint32, error) {
	if len(s) == 0 || len(s)%2 != 0 {
		return 0, fmt.Errorf("%w: %q must have an even number of digits", ErrInvalidAddressFormat, s)
	}
	if len(s)/2 > maxPairs {
		return 0, fmt.Errorf("%w: %q has more than %d pairs", ErrInvalidAddressFormat, s, maxPairs)
	}

	var v uint32
	for i := 0; i < len(s); i += 2 {
		d1 := int(s[i]) - '0'
		d2 := int(s[i+1]) - '0'
		if d1 < 1 || d1 > 4 || d2 < 1 || d2 > 4 {
			return 0, fmt.Errorf("%w: %q has digits outside 1-4", ErrInvalidAddressFormat, s)
		}
		v = v<<4 | uint32((d1-1)*4+(d2-1))
	}
	return v, nil
}

// DecodePairs renders the lowest pairs nibbles of v in FS20 pair notation,
// most significant nibble first. A non-empty sep is placed between pairs.
func DecodePairs(v uint32, pairs int, sep string) string {
	var sb strings.Builder
	for shift := 4 * (pairs - 1); shift >= 0; shift -= 4 {
		n := (v >> uint(shift)) & 0x0f
		sb.WriteByte(byte('1' + n/4))
		sb.WriteByte(byte('1' + n%4))
		if sep != "" && shift > 0 {
			sb.WriteString(sep)
		}
	}
	return sb.String()
}

// HouseCode scopes the FS20 devices a command addresses
type HouseCode uint16

// ParseHouseCode parses up to four FS20 pairs, e.g. "14213444"
func ParseHouseCode(s string) (HouseCode, error) {
	if len(s) > 8 {
		return 0, fmt.Errorf("%w: housecode %q has more than 4 pairs", ErrInvalidAddressFormat, s)
	}
	v, err := EncodePairs(s)
	if err != nil {
		return 0, err
	}
	return HouseCode(v), nil
}

// High returns the housecode's high byte
func (h HouseCode) High() byte {
	return byte(h >> 8)
}

// Low returns the housecode's low byte
func (h HouseCode) Low() byte {
	return byte(h & 0xff)
}

// String renders the housecode as 8 digits
func (h HouseCode) String() string {
	return DecodePairs(uint32(h), 4, "")
}

// Address is an FS20 device address in "ggss" notation (group, sub address)
type Address uint8

// ParseAddress parses up to two FS20 pairs, e.g. "1123"
func ParseAddress(s string) (Address, error) {
	if len(s) > 4 {
		return 0, fmt.Errorf("%w: address %q has more than 2 pairs", ErrInvalidAddressFormat, s)
	}
	v, err := EncodePairs(s)
	if err != nil {
		return 0, err
	}
	return Address(v), nil
}

// String renders the address as 4 digits
func (a Address) String() string {
	return DecodePairs(uint32(a), 2, "")
}
