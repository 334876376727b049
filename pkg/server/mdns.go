// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package server

import (
	"fmt"
	"net"

	"github.com/enbility/zeroconf/v3"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// mDNS service identification
const (
	ServiceType = "_lightmanager._tcp"
	Domain      = "local."
)

// Advertisement is a registered mDNS service
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise announces the command port on the local network.
// An empty iface advertises on all interfaces.
func Advertise(instance string, port int, iface string) (*Advertisement, error) {
	var ifaces []net.Interface
	if iface != "" {
		ifi, err := net.InterfaceByName(iface)
		if err != nil {
			return nil, fmt.Errorf("mdns interface %s: %w", iface, err)
		}
		ifaces = []net.Interface{*ifi}
	}

	txt := []string{
		"version=" + lightmanager.Version,
		"proto=text",
	}

	server, err := zeroconf.Register(instance, ServiceType, Domain, port, txt, ifaces)
	if err != nil {
		return nil, fmt.Errorf("failed to register mdns service: %w", err)
	}
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}
