// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package config

import (
	"errors"
	"fmt"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid configuration")

// Validate checks configuration correctness.
// It does not mutate the configuration.
func Validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d not within 1-65535", ErrInvalid, cfg.Port)
	}

	if _, err := lightmanager.ParseHouseCode(cfg.HouseCode); err != nil {
		return fmt.Errorf("%w: housecode: %w", ErrInvalid, err)
	}

	switch cfg.Link.Kind {
	case LinkUSB, LinkSim:
	case LinkSerial:
		if cfg.Link.Device == "" {
			return fmt.Errorf("%w: serial link requires a device", ErrInvalid)
		}
		if cfg.Link.Baud <= 0 {
			return fmt.Errorf("%w: baud rate %d must be positive", ErrInvalid, cfg.Link.Baud)
		}
	default:
		return fmt.Errorf("%w: unknown link kind %q (use usb, serial or sim)", ErrInvalid, cfg.Link.Kind)
	}

	if cfg.MDNS.Enabled && cfg.MDNS.Instance == "" {
		return fmt.Errorf("%w: mdns requires an instance name", ErrInvalid)
	}

	t := cfg.Transport
	if t.Attempts < 1 {
		return fmt.Errorf("%w: transport attempts %d must be at least 1", ErrInvalid, t.Attempts)
	}
	if t.TimeoutMs <= 0 {
		return fmt.Errorf("%w: transport timeout_ms %d must be positive", ErrInvalid, t.TimeoutMs)
	}
	if t.DelayMs < 0 {
		return fmt.Errorf("%w: transport delay_ms %d must not be negative", ErrInvalid, t.DelayMs)
	}

	return nil
}
