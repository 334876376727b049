// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"fmt"
	"time"
)

// OpcodeName returns the human-readable name for an opcode
func OpcodeName(op byte) string {
	switch op {
	case OpClockSync:
		return "CLOCK_SYNC"
	case OpFS20:
		return "FS20"
	case OpInterTechno:
		return "INTERTECHNO"
	case OpClockCommit:
		return "CLOCK_COMMIT"
	case OpSetClock:
		return "SET_CLOCK"
	case OpGetClock:
		return "GET_CLOCK"
	case OpGetTemp:
		return "GET_TEMP"
	case OpScene:
		return "SCENE"
	case OpUniroll:
		return "UNIROLL"
	case TempResponse:
		return "TEMP_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// FormatFrame formats an outgoing frame into a human-readable line
func FormatFrame(f Frame) string {
	result := fmt.Sprintf("%s (0x%02X) [%s]", OpcodeName(f[0]), f[0], f)

	switch f[0] {
	case OpFS20:
		hc := HouseCode(uint16(f[1])<<8 | uint16(f[2]))
		result += fmt.Sprintf(" housecode=%s addr=%s action=%s", hc, Address(f[3]), formatFS20Action(f[4]))
	case OpUniroll:
		result += fmt.Sprintf(" addr=%d action=%s", int(f[1])+1, formatUnirollAction(f[3]))
	case OpInterTechno:
		result += fmt.Sprintf(" code=%c addr=%d action=%s", 'A'+(f[1]>>4), int(f[1]&0x0f)+1, formatInterTechnoAction(f[2]))
	case OpScene:
		result += fmt.Sprintf(" scene=%d", f[1])
	}
	return result
}

// FormatResponse formats a response frame read after the given request
func FormatResponse(req byte, resp Frame) string {
	switch req {
	case OpGetClock:
		return fmt.Sprintf("CLOCK [%s] %s", resp, DecodeClock(resp, time.Local).Format(AscTime))
	case OpGetTemp:
		if c, ok := DecodeTemperature(resp); ok {
			return fmt.Sprintf("TEMP [%s] %.1f°C", resp, c)
		}
		return fmt.Sprintf("TEMP [%s] (no value)", resp)
	}
	return fmt.Sprintf("RESPONSE [%s]", resp)
}

func formatFS20Action(a byte) string {
	switch a {
	case FS20On:
		return "ON"
	case FS20Toggle:
		return "TOGGLE"
	case FS20Up:
		return "UP"
	case FS20Down:
		return "DOWN"
	}
	if a == FS20Off {
		return "OFF"
	}
	if a <= MaxDimLevel {
		return fmt.Sprintf("DIM(%d)", a)
	}
	return fmt.Sprintf("0x%02X", a)
}

func formatUnirollAction(a byte) string {
	switch a {
	case UnirollUp:
		return "UP"
	case UnirollStop:
		return "STOP"
	case UnirollDown:
		return "DOWN"
	default:
		return fmt.Sprintf("0x%02X", a)
	}
}

func formatInterTechnoAction(a byte) string {
	switch a {
	case InterTechnoOff:
		return "OFF"
	case InterTechnoOn:
		return "ON"
	case InterTechnoToggle:
		return "TOGGLE"
	default:
		return fmt.Sprintf("0x%02X", a)
	}
}
