// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"fmt"

	"github.com/lightmanager-go/lightmanager/pkg/config"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/lightmanager-go/lightmanager/pkg/link"
)

// OpenDeviceLink opens the device link selected by the configuration.
// The returned string describes the link for the log.
func OpenDeviceLink(cfg *config.Config) (link.Link, string, error) {
	switch cfg.Link.Kind {
	case config.LinkUSB:
		l, err := link.OpenUSB(lightmanager.VendorID, lightmanager.ProductID)
		if err != nil {
			return nil, "", err
		}
		return l, fmt.Sprintf("USB: %04x:%04x", lightmanager.VendorID, lightmanager.ProductID), nil

	case config.LinkSerial:
		l, err := link.OpenSerial(cfg.Link.Device, cfg.Link.Baud)
		if err != nil {
			return nil, "", err
		}
		return l, fmt.Sprintf("Serial: %s @ %d baud", cfg.Link.Device, cfg.Link.Baud), nil

	case config.LinkSim:
		return link.NewSimulator(), "Simulator", nil
	}

	return nil, "", fmt.Errorf("unknown link kind %q", cfg.Link.Kind)
}
