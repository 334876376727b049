// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"io"
	"os"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/config"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// syslogTag identifies our messages in the system log
const syslogTag = "lightmanager"

// newLogger creates the process logger: syslog when requested, a console
// writer on a terminal, JSON otherwise. The returned closer releases the
// syslog connection.
func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	var closer io.Closer = io.NopCloser(nil)
	var out io.Writer

	switch {
	case cfg.Syslog:
		w, c, err := newSyslogOutput(syslogTag)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		out, closer = w, c
	case term.IsTerminal(int(os.Stderr.Fd())):
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	default:
		out = os.Stderr
	}

	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return log, closer, nil
}
