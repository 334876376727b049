// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package transport

import (
	"context"
	"errors"
	"time"
)

// Policy bounds a retried operation
type Policy struct {
	Attempts int           // total tries, at least 1
	Timeout  time.Duration // per attempt
	Delay    time.Duration // between failed attempts

	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy matches the controller firmware's expectations:
// 5 attempts of 250ms each, 250ms apart.
var DefaultPolicy = Policy{
	Attempts: 5,
	Timeout:  250 * time.Millisecond,
	Delay:    250 * time.Millisecond,
}

// ErrExhausted is returned when every attempt failed
var ErrExhausted = errors.New("retries exhausted")

// Retry calls fn until it succeeds or the policy runs out of attempts.
// Each call gets its own context bounded by p.Timeout and the attempt
// number starting at 1. It returns the number of attempts made and, on
// failure, ErrExhausted wrapping the last error from fn.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		actx, cancel := attemptContext(ctx, p.Timeout)
		lastErr = fn(actx, attempt)
		cancel()

		if lastErr == nil {
			return attempt, nil
		}
		if err := ctx.Err(); err != nil {
			return attempt, err
		}
		if attempt < attempts {
			if err := sleep(ctx, p.Delay); err != nil {
				return attempt, err
			}
		}
	}

	return attempts, errors.Join(ErrExhausted, lastErr)
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
