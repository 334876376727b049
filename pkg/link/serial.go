// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package link

import (
	"context"
	"fmt"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"go.bug.st/serial"
)

// SerialLink talks to a controller behind a USB-serial bridge.
// Frames are sent raw, 8 bytes each way.
type SerialLink struct {
	port serial.Port
}

// OpenSerial opens a serial port with 8N1 framing
func OpenSerial(portName string, baudRate int) (*SerialLink, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return &SerialLink{port: port}, nil
}

// WriteFrame writes the frame to the port
func (s *SerialLink) WriteFrame(ctx context.Context, f lightmanager.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.port.Write(f[:])
	if err != nil {
		return err
	}
	if n != lightmanager.FrameSize {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortTransfer, n, lightmanager.FrameSize)
	}
	return nil
}

// ReadFrame reads one frame, giving up at the context deadline
func (s *SerialLink) ReadFrame(ctx context.Context) (lightmanager.Frame, error) {
	buf := make([]byte, lightmanager.FrameSize)
	got := 0

	for got < len(buf) {
		timeout := serial.NoTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
			if timeout <= 0 {
				return lightmanager.Frame{}, context.DeadlineExceeded
			}
		}
		if err := s.port.SetReadTimeout(timeout); err != nil {
			return lightmanager.Frame{}, err
		}

		n, err := s.port.Read(buf[got:])
		if err != nil {
			return lightmanager.Frame{}, err
		}
		if n == 0 {
			// Read timed out
			if got == 0 {
				return lightmanager.Frame{}, ErrNoResponse
			}
			return lightmanager.Frame{}, fmt.Errorf("%w: read %d of %d bytes", ErrShortTransfer, got, lightmanager.FrameSize)
		}
		got += n
	}

	return lightmanager.FrameFromBytes(buf), nil
}

// Close closes the port
func (s *SerialLink) Close() error {
	return s.port.Close()
}
