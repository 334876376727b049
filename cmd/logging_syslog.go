// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

//go:build !windows && !plan9

package cmd

import (
	"io"
	"log/syslog"

	"github.com/rs/zerolog"
)

// syslogWriter is what zerolog.SyslogLevelWriter needs, plus Close
type syslogWriter interface {
	zerolog.SyslogWriter
	Close() error
}

var _ syslogWriter = (*syslog.Writer)(nil)

// newSyslogOutput connects to the system logger. Events are written at
// the syslog priority matching their zerolog level.
func newSyslogOutput(tag string) (io.Writer, io.Closer, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, tag)
	if err != nil {
		return nil, nil, err
	}
	return zerolog.SyslogLevelWriter(w), w, nil
}
