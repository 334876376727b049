// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

//go:build windows || plan9

package cmd

import (
	"errors"
	"io"
)

func newSyslogOutput(tag string) (io.Writer, io.Closer, error) {
	return nil, nil, errors.New("syslog is not available on this platform")
}
