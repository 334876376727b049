// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package link provides the byte-level connection to a Light-Manager
// controller: the USB device itself, a serial bridge, or a simulator.
package link

import (
	"context"
	"errors"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// Link is an open connection to the controller.
// A Link is opened once and must not be used concurrently; the transport
// package serializes access to it.
type Link interface {
	// WriteFrame sends one frame. The context bounds the transfer.
	WriteFrame(ctx context.Context, f lightmanager.Frame) error

	// ReadFrame receives one response frame. The context bounds the transfer.
	ReadFrame(ctx context.Context) (lightmanager.Frame, error)

	// Close releases the device
	Close() error
}

var (
	// ErrDeviceNotFound is returned when no controller is attached
	ErrDeviceNotFound = errors.New("device not found")

	// ErrShortTransfer is returned when fewer than FrameSize bytes moved
	ErrShortTransfer = errors.New("short transfer")

	// ErrNoResponse is returned when the device had nothing to send
	ErrNoResponse = errors.New("no response")

	// ErrClosed is returned by operations on a closed link
	ErrClosed = errors.New("link closed")
)
