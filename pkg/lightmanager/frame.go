// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package lightmanager

import (
	"fmt"
	"strings"
)

// Frame is the fixed-size unit exchanged with the controller.
// Byte 0 is the opcode, the remaining bytes are opcode specific.
type Frame [FrameSize]byte

// Opcode returns byte 0 of the frame
func (f Frame) Opcode() byte {
	return f[0]
}

// Bytes returns a copy of the frame as a slice
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}

// String renders the frame as space separated hex bytes
func (f Frame) String() string {
	var sb strings.Builder
	for i, b := range f {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

// FrameFromBytes copies up to FrameSize bytes into a new Frame
func FrameFromBytes(b []byte) Frame {
	var f Frame
	copy(f[:], b)
	return f
}
