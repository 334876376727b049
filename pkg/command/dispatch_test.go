// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/lightmanager-go/lightmanager/pkg/link"
	"github.com/lightmanager-go/lightmanager/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records frames and answers from a fixed response
type fakeSender struct {
	mu       sync.Mutex
	frames   []lightmanager.Frame
	response lightmanager.Frame
	err      error
	failOp   byte
}

func (f *fakeSender) Send(ctx context.Context, fr lightmanager.Frame, expectResponse bool) (lightmanager.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	if f.err != nil && (f.failOp == 0 || f.failOp == fr.Opcode()) {
		return lightmanager.Frame{}, f.err
	}
	if !expectResponse {
		return lightmanager.Frame{}, nil
	}
	return f.response, nil
}

func (f *fakeSender) sent() []lightmanager.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]lightmanager.Frame(nil), f.frames...)
}

func TestExecuteFS20(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0x1234, s)
	assert.Equal(t, lightmanager.HouseCode(0x1234), d.HouseCode())

	reply, action := d.Execute(context.Background(), "FS20 1111 ON")
	assert.Equal(t, "OK\r\n", reply)
	assert.Equal(t, ActionContinue, action)

	require.Len(t, s.sent(), 1)
	want := lightmanager.Frame{0x01, 0x12, 0x34, 0x00, 0x11, 0x00, 0x03, 0x00}
	assert.Equal(t, want, s.sent()[0])
}

func TestExecuteFrames(t *testing.T) {
	tests := []struct {
		line string
		want lightmanager.Frame
	}{
		{"UNIROLL 5 UP", lightmanager.Frame{0x15, 0x04, 0x74, 0x01}},
		{"IT B 3 ON", lightmanager.Frame{0x05, 0x12, 0x01, 0x06}},
		{"SCENE 254", lightmanager.Frame{0x0f, 0xfe}},
		{"FS20 1111 50%", lightmanager.Frame{0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x03}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := &fakeSender{}
			d := NewDispatcher(0, s)
			reply, _ := d.Execute(context.Background(), tt.line)
			if reply != ReplyOK {
				t.Fatalf("Execute(%q) = %q, want OK", tt.line, reply)
			}
			if got := s.sent(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("Execute(%q) sent %v, want [%s]", tt.line, got, tt.want)
			}
		})
	}
}

func TestExecuteParseErrorSendsNothing(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0, s)

	for _, line := range []string{"SCENE 255", "FS20 1111 17", "UNIROLL 0 UP", "SET CLOCK 12345"} {
		reply, action := d.Execute(context.Background(), line)
		assert.True(t, strings.HasSuffix(reply, "\r\n"), line)
		assert.NotEqual(t, ReplyOK, reply, line)
		assert.Equal(t, ActionContinue, action)
	}
	assert.Empty(t, s.sent())
}

func TestExecuteUSBError(t *testing.T) {
	s := &fakeSender{err: transport.ErrExhausted}
	d := NewDispatcher(0, s)

	reply, action := d.Execute(context.Background(), "SCENE 3")
	assert.Equal(t, "USB communication error\r\n", reply)
	assert.Equal(t, ActionContinue, action)
}

func TestExecuteGetTemp(t *testing.T) {
	s := &fakeSender{response: lightmanager.Frame{0xfd, 43}}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "GET TEMP")
	assert.Equal(t, "21.5 degree Celsius\r\n", reply)
	assert.Equal(t, []lightmanager.Frame{{0x0c}}, s.sent())

	s.response = lightmanager.Frame{0x00, 43}
	reply, _ = d.Execute(context.Background(), "GET TEMP")
	assert.Empty(t, reply)
}

func TestExecuteGetClock(t *testing.T) {
	// Fields are rendered as received
	s := &fakeSender{response: lightmanager.Frame{30, 45, 21, 17, 3, 7, 24, 0}}
	d := NewDispatcher(0, s, WithLocation(time.UTC))

	reply, _ := d.Execute(context.Background(), "GET CLOCK")
	assert.Equal(t, "Sun Mar 17 21:45:30 2024\n\r", reply)
}

func TestExecuteGetClockError(t *testing.T) {
	s := &fakeSender{err: errors.New("pipe")}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "GET CLOCK")
	assert.Equal(t, ReplyUSBError, reply)
}

func TestExecuteSetClock(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "SET CLOCK 031721452024.30")
	assert.Equal(t, ReplyOK, reply)

	want := []lightmanager.Frame{
		{0x08, 0x30, 0x45, 0x21, 0x17, 0x03, 0x07, 0x24},
		{0x00, 0x00, 0x0d},
		{0x06, 0x02, 0x01, 0x02},
	}
	assert.Equal(t, want, s.sent())
}

func TestExecuteSetClockSendsAllFramesOnError(t *testing.T) {
	s := &fakeSender{err: errors.New("pipe"), failOp: lightmanager.OpSetClock}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "SET CLOCK 03172145")
	assert.Equal(t, ReplyUSBError, reply)
	assert.Len(t, s.sent(), 3)
}

func TestExecuteSetClockYearOutOfRange(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "SET CLOCK 031721451999")
	assert.Equal(t, "SET CLOCK: wrong time format (use MMDDhhmm[[CC]YY][.ss])\r\n", reply)
	assert.Empty(t, s.sent())
}

func TestExecuteSetClockDefaultsToNow(t *testing.T) {
	now := time.Date(2024, time.March, 18, 8, 5, 9, 0, time.Local)
	s := &fakeSender{}
	d := NewDispatcher(0, s, WithClock(func() time.Time { return now }))

	reply, _ := d.Execute(context.Background(), "SET CLOCK")
	assert.Equal(t, ReplyOK, reply)
	require.Len(t, s.sent(), 3)
	assert.Equal(t, lightmanager.Frame{0x08, 0x09, 0x05, 0x08, 0x18, 0x03, 0x01, 0x24}, s.sent()[0])
}

func TestExecuteWait(t *testing.T) {
	d := NewDispatcher(0, &fakeSender{})

	start := time.Now()
	reply, action := d.Execute(context.Background(), "WAIT 100")
	assert.Equal(t, ReplyOK, reply)
	assert.Equal(t, ActionContinue, action)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestExecuteWaitCanceled(t *testing.T) {
	d := NewDispatcher(0, &fakeSender{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	reply, _ := d.Execute(ctx, "WAIT 10000")
	assert.Empty(t, reply)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecuteWaitDoesNotBlockDevice(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0, s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Execute(context.Background(), "WAIT 300")
	}()

	start := time.Now()
	reply, _ := d.Execute(context.Background(), "SCENE 1")
	assert.Equal(t, ReplyOK, reply)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
	<-done
}

func TestExecuteActions(t *testing.T) {
	d := NewDispatcher(0, &fakeSender{})

	tests := []struct {
		line       string
		wantReply  string
		wantAction Action
	}{
		{"", "", ActionContinue},
		{"QUIT", "", ActionQuit},
		{"Q", "", ActionQuit},
		{"EXIT", "", ActionExit},
		{"E", "", ActionExit},
		{"XYZ 1", "error - unknown command 'XYZ'\r\n", ActionContinue},
	}
	for _, tt := range tests {
		reply, action := d.Execute(context.Background(), tt.line)
		if reply != tt.wantReply || action != tt.wantAction {
			t.Errorf("Execute(%q) = (%q, %v), want (%q, %v)", tt.line, reply, action, tt.wantReply, tt.wantAction)
		}
	}
}

func TestExecuteHelp(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(0, s)

	reply, _ := d.Execute(context.Background(), "?")
	assert.Contains(t, reply, "Linux Lightmanager (1.2.0008) command list")
	assert.Contains(t, reply, "MMDDhhmm[[CC]YY][.ss]")
	assert.True(t, strings.HasSuffix(reply, "\r\n"))
	assert.Empty(t, s.sent())
}

func TestExecuteWithSimulator(t *testing.T) {
	sim := link.NewSimulator(link.WithTemperature(23))
	tr := transport.New(sim)
	defer tr.Close()
	d := NewDispatcher(0, tr)

	reply, _ := d.Execute(context.Background(), "GET TEMP")
	assert.Equal(t, "23.0 degree Celsius\r\n", reply)
}
