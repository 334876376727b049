// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package command parses text command lines and executes them against
// a Light-Manager controller.
package command

import (
	"fmt"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// Command is one parsed command line
type Command interface {
	command()
}

// Help lists the available commands
type Help struct{}

// FS20 switches or dims an FS20 device
type FS20 struct {
	Address lightmanager.Address
	Action  byte // FS20* code or dim level 0-16
}

// Uniroll moves a roller shutter
type Uniroll struct {
	Address int // 1-16
	Action  byte
}

// InterTechno switches an InterTechno device
type InterTechno struct {
	Code    int // 0-15 for A-P
	Address int // 1-16
	Action  byte
}

// Scene activates a stored scene
type Scene struct {
	Number int // 1-254
}

// GetClock reads the controller clock
type GetClock struct{}

// GetTemp reads the controller temperature sensor
type GetTemp struct{}

// SetClock sets the controller clock
type SetClock struct {
	Time time.Time
}

// Wait pauses the issuing session
type Wait struct {
	Duration time.Duration
}

// Quit ends the issuing session
type Quit struct{}

// Exit ends the issuing session and the process
type Exit struct{}

// Unknown is a line whose first word matches no command
type Unknown struct {
	Word string
}

func (Help) command()        {}
func (FS20) command()        {}
func (Uniroll) command()     {}
func (InterTechno) command() {}
func (Scene) command()       {}
func (GetClock) command()    {}
func (GetTemp) command()     {}
func (SetClock) command()    {}
func (Wait) command()        {}
func (Quit) command()        {}
func (Exit) command()        {}
func (Unknown) command()     {}

// ParseError is a rejected command line.
// Msg is the reply sent to the client.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(err error, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: err}
}
