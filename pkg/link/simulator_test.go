// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package link

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorGetTemp(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulator(WithTemperature(22.5))

	require.NoError(t, sim.WriteFrame(ctx, lightmanager.NewGetTempFrame()))
	resp, err := sim.ReadFrame(ctx)
	require.NoError(t, err)

	celsius, ok := lightmanager.DecodeTemperature(resp)
	assert.True(t, ok)
	assert.Equal(t, 22.5, celsius)
}

func TestSimulatorGetClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 17, 21, 45, 30, 0, time.UTC)
	sim := NewSimulator(WithNow(func() time.Time { return now }))

	require.NoError(t, sim.WriteFrame(ctx, lightmanager.NewGetClockFrame()))
	resp, err := sim.ReadFrame(ctx)
	require.NoError(t, err)

	want := lightmanager.Frame{0x30, 0x45, 0x21, 0x17, 0x03, 0x07, 0x24, 0x00}
	assert.Equal(t, want, resp)
}

func TestSimulatorSetClockRunsFromSetTime(t *testing.T) {
	ctx := context.Background()
	host := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	sim := NewSimulator(WithNow(func() time.Time { return host }))

	set := time.Date(2024, time.March, 17, 21, 45, 30, 0, time.UTC)
	frames, err := lightmanager.NewSetClockFrames(set)
	require.NoError(t, err)
	for _, f := range frames {
		require.NoError(t, sim.WriteFrame(ctx, f))
	}

	host = host.Add(10 * time.Second)
	require.NoError(t, sim.WriteFrame(ctx, lightmanager.NewGetClockFrame()))
	resp, err := sim.ReadFrame(ctx)
	require.NoError(t, err)

	// 21:45:40
	assert.Equal(t, byte(0x40), resp[0])
	assert.Equal(t, byte(0x45), resp[1])
	assert.Equal(t, byte(0x21), resp[2])
	assert.Equal(t, byte(0x24), resp[6])
}

func TestSimulatorNoResponse(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulator()

	f, err := lightmanager.NewSceneFrame(3)
	require.NoError(t, err)
	require.NoError(t, sim.WriteFrame(ctx, f))

	_, err = sim.ReadFrame(ctx)
	assert.True(t, errors.Is(err, ErrNoResponse))
	assert.Equal(t, []lightmanager.Frame{f}, sim.Written())
}

func TestSimulatorInjectedFailures(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulator()
	sim.FailWrites(2)

	f := lightmanager.NewGetTempFrame()
	assert.Error(t, sim.WriteFrame(ctx, f))
	assert.Error(t, sim.WriteFrame(ctx, f))
	assert.NoError(t, sim.WriteFrame(ctx, f))
	assert.Len(t, sim.Written(), 1)

	sim.FailReads(1)
	_, err := sim.ReadFrame(ctx)
	assert.Error(t, err)
	_, err = sim.ReadFrame(ctx)
	assert.NoError(t, err)
}

func TestSimulatorClose(t *testing.T) {
	sim := NewSimulator()
	require.NoError(t, sim.Close())
	assert.True(t, sim.Closed())
	assert.ErrorIs(t, sim.Close(), ErrClosed)
	assert.ErrorIs(t, sim.WriteFrame(context.Background(), lightmanager.Frame{}), ErrClosed)
}

func TestSimulatorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator()
	assert.ErrorIs(t, sim.WriteFrame(ctx, lightmanager.NewGetTempFrame()), context.Canceled)
	assert.Empty(t, sim.Written())
}
