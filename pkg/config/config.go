// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package config holds the daemon settings, loaded from an optional YAML
// file and overridden by command line flags.
package config

import (
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/transport"
)

// Link kinds
const (
	LinkUSB    = "usb"
	LinkSerial = "serial"
	LinkSim    = "sim"
)

type Config struct {
	Port      int    `yaml:"port"`
	HouseCode string `yaml:"housecode"` // FS20 pairs, e.g. "14213444"
	Debug     bool   `yaml:"debug"`
	Syslog    bool   `yaml:"syslog"`
	Daemon    bool   `yaml:"daemon"`
	Command   string `yaml:"command"` // batch mode when set

	Link      LinkConfig      `yaml:"link"`
	WebSocket string          `yaml:"websocket"` // listen address, empty disables
	MDNS      MDNSConfig      `yaml:"mdns"`
	Trace     string          `yaml:"trace"` // CBOR frame trace file, empty disables
	Transport TransportConfig `yaml:"transport"`
}

// ---- LINK ----

type LinkConfig struct {
	Kind   string `yaml:"kind"`   // usb, serial or sim
	Device string `yaml:"device"` // serial port
	Baud   int    `yaml:"baud"`
}

// ---- MDNS ----

type MDNSConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Instance  string `yaml:"instance"`
	Interface string `yaml:"interface"` // empty = all
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Attempts  int `yaml:"attempts"`
	TimeoutMs int `yaml:"timeout_ms"`
	DelayMs   int `yaml:"delay_ms"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Port:      3456,
		HouseCode: "11111111",
		Link: LinkConfig{
			Kind: LinkUSB,
			Baud: 115200,
		},
		MDNS: MDNSConfig{
			Instance: "Lightmanager",
		},
		Transport: TransportConfig{
			Attempts:  transport.DefaultPolicy.Attempts,
			TimeoutMs: int(transport.DefaultPolicy.Timeout / time.Millisecond),
			DelayMs:   int(transport.DefaultPolicy.Delay / time.Millisecond),
		},
	}
}

// Policy returns the transport retry policy
func (c *Config) Policy() transport.Policy {
	return transport.Policy{
		Attempts: c.Transport.Attempts,
		Timeout:  time.Duration(c.Transport.TimeoutMs) * time.Millisecond,
		Delay:    time.Duration(c.Transport.DelayMs) * time.Millisecond,
	}
}
