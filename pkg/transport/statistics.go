// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package transport

import (
	"fmt"
	"time"
)

// Statistics tracks transfer counters and failure rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Frames         uint64 // frames sent (Send calls)
	Responses      uint64 // responses received
	WriteAttempts  uint64
	ReadAttempts   uint64
	Retries        uint64 // attempts beyond the first
	WriteFailures  uint64 // outbound phases that ran out of attempts
	ReadFailures   uint64 // inbound phases that ran out of attempts
	FramesByOpcode map[byte]uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // failures/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		FramesByOpcode: make(map[byte]uint64),
	}
}

// update records one Send
func (s *Statistics) update(opcode byte, writes, reads int, writeErr, readErr error, expectResponse bool) {
	s.Frames++
	s.FramesByOpcode[opcode]++

	s.WriteAttempts += uint64(writes)
	if writes > 1 {
		s.Retries += uint64(writes - 1)
	}
	if writeErr != nil {
		s.WriteFailures++
	}

	if expectResponse {
		s.ReadAttempts += uint64(reads)
		if reads > 1 {
			s.Retries += uint64(reads - 1)
		}
		if readErr != nil {
			s.ReadFailures++
		} else {
			s.Responses++
		}
	}

	s.LastUpdateTime = time.Now()
}

// clone returns an independent copy
func (s *Statistics) clone() Statistics {
	c := *s
	c.FramesByOpcode = make(map[byte]uint64, len(s.FramesByOpcode))
	for k, v := range s.FramesByOpcode {
		c.FramesByOpcode[k] = v
	}
	return c
}

// CalculateRates calculates frame and failure rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.Frames) / elapsed
		s.ErrorRate = float64(s.WriteFailures+s.ReadFailures) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var failPercent float64
	if s.Frames > 0 {
		failPercent = float64(s.WriteFailures+s.ReadFailures) * 100.0 / float64(s.Frames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Transport statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Frames:          %8d\n", s.Frames)
	result += fmt.Sprintf("Responses:       %8d\n", s.Responses)
	result += fmt.Sprintf("Write Attempts:  %8d\n", s.WriteAttempts)
	result += fmt.Sprintf("Read Attempts:   %8d\n", s.ReadAttempts)

	if s.Retries > 0 {
		result += fmt.Sprintf("Retries:         %8d\n", s.Retries)
	}
	if s.WriteFailures > 0 || s.ReadFailures > 0 {
		result += fmt.Sprintf("Failures:        %8d (%.1f%%)\n", s.WriteFailures+s.ReadFailures, failPercent)
		if s.WriteFailures > 0 {
			result += fmt.Sprintf("  Write:            %5d\n", s.WriteFailures)
		}
		if s.ReadFailures > 0 {
			result += fmt.Sprintf("  Read:             %5d\n", s.ReadFailures)
		}
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}
