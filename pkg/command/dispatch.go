// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/rs/zerolog"
)

// Reply texts
const (
	ReplyOK       = "OK\r\n"
	ReplyUSBError = "USB communication error\r\n"
	ReplyBye      = "bye\r\n"
	Prompt        = ">"
)

// Action tells the caller what to do after a line was executed
type Action int

const (
	// ActionContinue reads the next line
	ActionContinue Action = iota
	// ActionQuit ends the issuing session
	ActionQuit
	// ActionExit ends the issuing session and the process
	ActionExit
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionQuit:
		return "quit"
	case ActionExit:
		return "exit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Sender delivers frames to the controller
type Sender interface {
	Send(ctx context.Context, f lightmanager.Frame, expectResponse bool) (lightmanager.Frame, error)
}

// Executor runs command lines
type Executor interface {
	Execute(ctx context.Context, line string) (string, Action)
}

// Dispatcher parses command lines and executes them.
// It is safe for concurrent use; the Sender serializes device access.
type Dispatcher struct {
	houseCode lightmanager.HouseCode
	sender    Sender
	parser    Parser
	location  *time.Location
	log       zerolog.Logger
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger
func WithLogger(log zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithClock sets the time source for SET CLOCK without an argument
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.parser.Now = now
	}
}

// WithLocation sets the zone used to render GET CLOCK
func WithLocation(loc *time.Location) DispatcherOption {
	return func(d *Dispatcher) {
		d.location = loc
	}
}

// NewDispatcher creates a dispatcher sending FS20 frames with housecode hc
func NewDispatcher(hc lightmanager.HouseCode, sender Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		houseCode: hc,
		sender:    sender,
		location:  time.Local,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HouseCode returns the FS20 housecode
func (d *Dispatcher) HouseCode() lightmanager.HouseCode {
	return d.houseCode
}

// Execute parses and runs one line and returns the reply text.
// Blank lines, QUIT and EXIT produce no reply.
func (d *Dispatcher) Execute(ctx context.Context, line string) (string, Action) {
	d.log.Debug().Str("input", line).Msg("Handle input string")

	cmd, err := d.parser.Parse(line)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			d.log.Debug().Err(pe.Err).Msg(pe.Msg)
			return pe.Msg + "\r\n", ActionContinue
		}
		return err.Error() + "\r\n", ActionContinue
	}

	switch c := cmd.(type) {
	case nil:
		return "", ActionContinue
	case Help:
		return HelpText(), ActionContinue
	case FS20:
		return d.send(ctx, lightmanager.NewFS20Frame(d.houseCode, c.Address, c.Action)), ActionContinue
	case Uniroll:
		f, err := lightmanager.NewUnirollFrame(c.Address, c.Action)
		if err != nil {
			return fmt.Sprintf("UNIROLL %d: wrong <addr> parameter\r\n", c.Address), ActionContinue
		}
		return d.send(ctx, f), ActionContinue
	case InterTechno:
		f, err := lightmanager.NewInterTechnoFrame(c.Code, c.Address, c.Action)
		if err != nil {
			return fmt.Sprintf("InterTechno: %d: <addr> parameter out of range (must be within 1 to 16)\r\n", c.Address), ActionContinue
		}
		return d.send(ctx, f), ActionContinue
	case Scene:
		f, err := lightmanager.NewSceneFrame(c.Number)
		if err != nil {
			return "SCENE: parameter <s> out of range (must be within range 1-254)\r\n", ActionContinue
		}
		return d.send(ctx, f), ActionContinue
	case GetClock:
		return d.getClock(ctx), ActionContinue
	case GetTemp:
		return d.getTemp(ctx), ActionContinue
	case SetClock:
		return d.setClock(ctx, c.Time), ActionContinue
	case Wait:
		return d.wait(ctx, c.Duration), ActionContinue
	case Quit:
		return "", ActionQuit
	case Exit:
		return "", ActionExit
	case Unknown:
		return fmt.Sprintf("error - unknown command '%s'\r\n", c.Word), ActionContinue
	default:
		return fmt.Sprintf("error - unknown command '%T'\r\n", c), ActionContinue
	}
}

func (d *Dispatcher) send(ctx context.Context, f lightmanager.Frame) string {
	if _, err := d.sender.Send(ctx, f, false); err != nil {
		d.log.Error().Err(err).Str("frame", f.String()).Msg("USB communication error")
		return ReplyUSBError
	}
	return ReplyOK
}

func (d *Dispatcher) getClock(ctx context.Context) string {
	resp, err := d.sender.Send(ctx, lightmanager.NewGetClockFrame(), true)
	if err != nil {
		d.log.Error().Err(err).Msg("GET CLOCK failed")
		return ReplyUSBError
	}
	return lightmanager.DecodeClock(resp, d.location).Format(lightmanager.AscTime) + "\n\r"
}

func (d *Dispatcher) getTemp(ctx context.Context) string {
	resp, err := d.sender.Send(ctx, lightmanager.NewGetTempFrame(), true)
	if err != nil {
		d.log.Error().Err(err).Msg("GET TEMP failed")
		return ReplyUSBError
	}
	celsius, ok := lightmanager.DecodeTemperature(resp)
	if !ok {
		d.log.Debug().Str("response", resp.String()).Msg("no temperature in response")
		return ""
	}
	return fmt.Sprintf("%.1f degree Celsius\r\n", celsius)
}

// setClock sends all three frames even if one fails
func (d *Dispatcher) setClock(ctx context.Context, t time.Time) string {
	frames, err := lightmanager.NewSetClockFrames(t)
	if err != nil {
		return fmt.Sprintf("SET CLOCK: wrong time format (use %s)\r\n", lightmanager.ClockFormatHelp)
	}

	failed := false
	for _, f := range frames {
		if _, err := d.sender.Send(ctx, f, false); err != nil {
			d.log.Error().Err(err).Str("frame", f.String()).Msg("SET CLOCK frame failed")
			failed = true
		}
	}
	if failed {
		return ReplyUSBError
	}
	return ReplyOK
}

// wait blocks the calling session only
func (d *Dispatcher) wait(ctx context.Context, dur time.Duration) string {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-timer.C:
		return ReplyOK
	case <-ctx.Done():
		return ""
	}
}
