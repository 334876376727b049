// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package server

import (
	"bufio"
	"errors"
	"io"
)

// MaxLineLength is the longest command line accepted from a client
const MaxLineLength = 1024

// ErrLineTooLong is returned for a line exceeding MaxLineLength.
// The rest of the line is discarded.
var ErrLineTooLong = errors.New("line too long")

// lineReader splits a byte stream into lines ending at CR or LF.
// A CR LF pair ends one line, not two.
type lineReader struct {
	r      *bufio.Reader
	max    int
	lastCR bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r), max: MaxLineLength}
}

// ReadLine returns the next line without its terminator.
// An unterminated line at end of stream is dropped.
func (lr *lineReader) ReadLine() (string, error) {
	var buf []byte
	tooLong := false

	for {
		b, err := lr.r.ReadByte()
		if err != nil {
			return "", err
		}

		if b == '\n' && lr.lastCR {
			lr.lastCR = false
			continue
		}
		lr.lastCR = b == '\r'

		if b == '\r' || b == '\n' {
			if tooLong {
				return "", ErrLineTooLong
			}
			return string(buf), nil
		}

		if len(buf) >= lr.max {
			tooLong = true
			continue
		}
		buf = append(buf, b)
	}
}
