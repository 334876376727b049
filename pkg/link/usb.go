// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// Endpoint numbers on interface 0
const (
	usbEndpointOut = 0x01
	usbEndpointIn  = 0x02 // 0x82 on the wire
)

// USBLink wraps the claimed interface of a Light-Manager USB device
type USBLink struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface
	done func()
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// OpenUSB opens the first device matching vid/pid, detaches any kernel
// driver and claims interface 0.
func OpenUSB(vid, pid uint16) (*USBLink, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("cannot open device vendor %04x, product %04x: %w", vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: vendor %04x, product %04x", ErrDeviceNotFound, vid, pid)
	}

	// The HID driver usually owns the device
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("cannot detach kernel driver: %w", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("cannot claim interface: %w", err)
	}

	l := &USBLink{ctx: ctx, dev: dev, intf: intf, done: done}

	if l.out, err = intf.OutEndpoint(usbEndpointOut); err != nil {
		l.Close()
		return nil, fmt.Errorf("out endpoint: %w", err)
	}
	if l.in, err = intf.InEndpoint(usbEndpointIn); err != nil {
		l.Close()
		return nil, fmt.Errorf("in endpoint: %w", err)
	}

	return l, nil
}

// WriteFrame performs one interrupt OUT transfer
func (l *USBLink) WriteFrame(ctx context.Context, f lightmanager.Frame) error {
	if l.out == nil {
		return ErrClosed
	}
	n, err := l.out.WriteContext(ctx, f[:])
	if err != nil {
		return err
	}
	if n != lightmanager.FrameSize {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortTransfer, n, lightmanager.FrameSize)
	}
	return nil
}

// ReadFrame performs one interrupt IN transfer
func (l *USBLink) ReadFrame(ctx context.Context) (lightmanager.Frame, error) {
	if l.in == nil {
		return lightmanager.Frame{}, ErrClosed
	}
	buf := make([]byte, lightmanager.FrameSize)
	n, err := l.in.ReadContext(ctx, buf)
	if err != nil {
		return lightmanager.Frame{}, err
	}
	if n != lightmanager.FrameSize {
		return lightmanager.Frame{}, fmt.Errorf("%w: read %d of %d bytes", ErrShortTransfer, n, lightmanager.FrameSize)
	}
	return lightmanager.FrameFromBytes(buf), nil
}

// Close releases the interface and closes the device and libusb context
func (l *USBLink) Close() error {
	l.out = nil
	l.in = nil

	if l.done != nil {
		l.done()
		l.done = nil
	}

	var errs []error
	if l.dev != nil {
		errs = append(errs, l.dev.Close())
		l.dev = nil
	}
	if l.ctx != nil {
		errs = append(errs, l.ctx.Close())
		l.ctx = nil
	}
	return errors.Join(errs...)
}
