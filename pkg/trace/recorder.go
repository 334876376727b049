// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package trace

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Recorder receives transfer records
type Recorder interface {
	Record(r Record)
}

// FileRecorder appends records to a file.
// It is safe for concurrent use.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileRecorder opens path for appending, creating it if needed
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record writes r. Encoding errors are dropped; tracing never fails a transfer.
func (fr *FileRecorder) Record(r Record) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return
	}
	_ = fr.encoder.Encode(r)
}

// Close closes the file. Further records are ignored.
func (fr *FileRecorder) Close() error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return nil
	}
	fr.closed = true
	return fr.file.Close()
}

// Reader iterates over the records of a trace file
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
}

// OpenReader opens a trace file
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f)}, nil
}

// Next returns the next record, or io.EOF at the end of the file
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.decoder.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	return rec, nil
}

// Close closes the file
func (r *Reader) Close() error {
	return r.file.Close()
}

var _ Recorder = (*FileRecorder)(nil)
