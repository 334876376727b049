// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package transport serializes frame exchanges with the controller and
// retries failed transfers.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/lightmanager-go/lightmanager/pkg/link"
	"github.com/lightmanager-go/lightmanager/pkg/trace"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by Send after Close
var ErrClosed = errors.New("transport closed")

// Transport owns the device link.
// Only one Send runs at a time; the lock covers write and read.
type Transport struct {
	mu     sync.Mutex
	link   link.Link
	policy Policy
	log    zerolog.Logger
	rec    trace.Recorder
	stats  *Statistics
	closed bool
}

// Option configures a Transport
type Option func(*Transport)

// WithPolicy replaces DefaultPolicy
func WithPolicy(p Policy) Option {
	return func(t *Transport) {
		t.policy = p
	}
}

// WithLogger sets the logger for per-attempt debug output
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) {
		t.log = log
	}
}

// WithRecorder sends every transfer attempt to rec
func WithRecorder(rec trace.Recorder) Option {
	return func(t *Transport) {
		t.rec = rec
	}
}

// New wraps an open link
func New(l link.Link, opts ...Option) *Transport {
	t := &Transport{
		link:   l,
		policy: DefaultPolicy,
		log:    zerolog.Nop(),
		stats:  NewStatistics(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send writes f and, if expectResponse is set, reads one response frame.
//
// The read phase runs even when the write phase failed.
// A failure of either phase yields ErrExhausted.
func (t *Transport) Send(ctx context.Context, f lightmanager.Frame, expectResponse bool) (lightmanager.Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return lightmanager.Frame{}, ErrClosed
	}

	log := t.log.With().Str("opcode", lightmanager.OpcodeName(f.Opcode())).Logger()

	writes, writeErr := Retry(ctx, t.policy, func(actx context.Context, attempt int) error {
		err := t.link.WriteFrame(actx, f)
		t.record(trace.DirectionOut, f, attempt, err)
		if err != nil {
			log.Debug().Int("attempt", attempt).Err(err).Msg("write failed")
		} else {
			log.Debug().Int("attempt", attempt).Stringer("frame", f).Msg(lightmanager.FormatFrame(f))
		}
		return err
	})
	if writeErr != nil {
		log.Warn().Int("attempts", writes).Err(writeErr).Msg("write gave up")
	}

	var resp lightmanager.Frame
	var reads int
	var readErr error
	if expectResponse {
		reads, readErr = Retry(ctx, t.policy, func(actx context.Context, attempt int) error {
			in, err := t.link.ReadFrame(actx)
			t.record(trace.DirectionIn, in, attempt, err)
			if err != nil {
				log.Debug().Int("attempt", attempt).Err(err).Msg("read failed")
				return err
			}
			resp = in
			log.Debug().Int("attempt", attempt).Stringer("frame", in).Msg(lightmanager.FormatResponse(f.Opcode(), in))
			return nil
		})
		if readErr != nil {
			log.Warn().Int("attempts", reads).Err(readErr).Msg("read gave up")
		}
	}

	t.stats.update(f.Opcode(), writes, reads, writeErr, readErr, expectResponse)

	switch {
	case writeErr != nil:
		return resp, fmt.Errorf("write %s: %w", lightmanager.OpcodeName(f.Opcode()), writeErr)
	case readErr != nil:
		return resp, fmt.Errorf("read %s response: %w", lightmanager.OpcodeName(f.Opcode()), readErr)
	}
	return resp, nil
}

func (t *Transport) record(dir trace.Direction, f lightmanager.Frame, attempt int, err error) {
	if t.rec == nil {
		return
	}
	t.rec.Record(trace.NewRecord(dir, f, attempt, err))
}

// Statistics returns a snapshot of the transfer counters
func (t *Transport) Statistics() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.clone()
}

// Close waits for any Send in progress and releases the link.
// Only the first call closes the link; later calls return nil.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.link.Close()
}
