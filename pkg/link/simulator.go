// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package link

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// errInjected is returned for transfers failed with FailWrites/FailReads
var errInjected = errors.New("simulated transfer error")

// Simulator is an in-process controller.
//
// It records every frame written, answers GET CLOCK and GET TEMP, and
// remembers the time from the last SET CLOCK. Transfer failures can be
// injected to exercise retry paths.
type Simulator struct {
	mu sync.Mutex

	now         func() time.Time
	temperature float64

	written    []lightmanager.Frame
	pending    *lightmanager.Frame
	clock      *[7]byte
	clockSetAt time.Time

	failWrites int
	failReads  int
	closed     bool
}

// SimulatorOption configures a Simulator
type SimulatorOption func(*Simulator)

// WithTemperature sets the temperature reported by GET TEMP (0.5 °C steps)
func WithTemperature(celsius float64) SimulatorOption {
	return func(s *Simulator) {
		s.temperature = celsius
	}
}

// WithNow sets the simulator's time source
func WithNow(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		s.now = now
	}
}

// NewSimulator creates a simulator reporting 21.5 °C and the host clock
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		now:         time.Now,
		temperature: 21.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailWrites makes the next n writes fail
func (s *Simulator) FailWrites(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = n
}

// FailReads makes the next n reads fail
func (s *Simulator) FailReads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = n
}

// Written returns a copy of all frames written so far
func (s *Simulator) Written() []lightmanager.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lightmanager.Frame, len(s.written))
	copy(out, s.written)
	return out
}

// WriteFrame records the frame and prepares any response
func (s *Simulator) WriteFrame(ctx context.Context, f lightmanager.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.failWrites > 0 {
		s.failWrites--
		return errInjected
	}

	s.written = append(s.written, f)

	switch f.Opcode() {
	case lightmanager.OpGetClock:
		resp := s.clockResponse()
		s.pending = &resp
	case lightmanager.OpGetTemp:
		resp := lightmanager.Frame{lightmanager.TempResponse, byte(s.temperature * 2)}
		s.pending = &resp
	case lightmanager.OpSetClock:
		var c [7]byte
		copy(c[:], f[1:8])
		s.clock = &c
		s.clockSetAt = s.now()
	}
	return nil
}

// clockResponse answers GET CLOCK with the clock fields packed decimal,
// the way the controller stores them after SET CLOCK.
func (s *Simulator) clockResponse() lightmanager.Frame {
	var resp lightmanager.Frame
	t := s.now()
	if s.clock != nil {
		// Keep running from the last SET CLOCK
		if set, err := unpackClock(*s.clock, t.Location()); err == nil {
			t = set.Add(t.Sub(s.clockSetAt))
		}
	}
	frames, err := lightmanager.NewSetClockFrames(t)
	if err != nil {
		return resp
	}
	copy(resp[:7], frames[0][1:8])
	return resp
}

func unpackClock(c [7]byte, loc *time.Location) (time.Time, error) {
	var v [7]int
	for i, b := range c {
		hi, lo := int(b>>4), int(b&0x0f)
		if hi > 9 || lo > 9 {
			return time.Time{}, lightmanager.ErrInvalidTimeFormat
		}
		v[i] = hi*10 + lo
	}
	return time.Date(2000+v[6], time.Month(v[4]), v[3], v[2], v[1], v[0], 0, loc), nil
}

// ReadFrame returns the response to the last request
func (s *Simulator) ReadFrame(ctx context.Context) (lightmanager.Frame, error) {
	if err := ctx.Err(); err != nil {
		return lightmanager.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lightmanager.Frame{}, ErrClosed
	}
	if s.failReads > 0 {
		s.failReads--
		return lightmanager.Frame{}, errInjected
	}
	if s.pending == nil {
		return lightmanager.Frame{}, ErrNoResponse
	}

	resp := *s.pending
	s.pending = nil
	return resp, nil
}

// Close marks the simulator closed. Closing twice is an error.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

// Closed reports whether Close has been called
func (s *Simulator) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
