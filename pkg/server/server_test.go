// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lightmanager-go/lightmanager/pkg/command"
	"github.com/lightmanager-go/lightmanager/pkg/link"
	"github.com/lightmanager-go/lightmanager/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a server on a random port backed by the simulator
func startServer(t *testing.T, opts ...Option) (*Server, *link.Simulator, chan error, context.CancelFunc) {
	t.Helper()

	sim := link.NewSimulator(link.WithTemperature(21.5))
	tr := transport.New(sim)
	t.Cleanup(func() { tr.Close() })
	d := command.NewDispatcher(0, tr)

	opts = append([]Option{WithAddr("127.0.0.1:0")}, opts...)
	srv := New(d, opts...)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()
	t.Cleanup(cancel)

	return srv, sim, done, cancel
}

type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, srv *Server) *client {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := &client{t: t, conn: conn, r: bufio.NewReader(conn)}
	assert.Equal(t, Banner, c.readReply())
	return c
}

// readUntil reads until the received text ends with suffix
func (c *client) readUntil(suffix string) string {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var sb strings.Builder
	for !strings.HasSuffix(sb.String(), suffix) {
		b, err := c.r.ReadByte()
		require.NoError(c.t, err, "read so far: %q", sb.String())
		sb.WriteByte(b)
	}
	return sb.String()
}

// readReply reads one reply line and the prompt after it.
// Replies may contain '>' themselves.
func (c *client) readReply() string {
	c.t.Helper()
	return c.readUntil("\r\n" + command.Prompt)
}

func (c *client) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

// expectEOF waits for the server to close the connection
func (c *client) expectEOF() {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := c.r.ReadByte()
	assert.True(c.t, errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || isReset(err), "got %v", err)
}

func isReset(err error) bool {
	return err != nil && strings.Contains(err.Error(), "reset")
}

func TestSessionBannerAndReply(t *testing.T) {
	srv, sim, _, _ := startServer(t)
	c := dial(t, srv)

	c.send("GET TEMP")
	assert.Equal(t, "21.5 degree Celsius\r\n>", c.readReply())

	c.send("SCENE 5")
	assert.Equal(t, "OK\r\n>", c.readReply())

	c.send("")
	assert.Equal(t, command.Prompt, c.readUntil(command.Prompt))

	c.send("SCENE 255")
	assert.Equal(t, "SCENE: parameter <s> out of range (must be within range 1-254)\r\n>", c.readReply())

	assert.Len(t, sim.Written(), 2)
}

func TestQuitEndsOnlyItsSession(t *testing.T) {
	srv, _, _, _ := startServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	require.Eventually(t, func() bool { return srv.SessionCount() == 2 }, 5*time.Second, 10*time.Millisecond)

	a.send("QUIT")
	assert.Equal(t, "bye\r\n", a.readUntil("\r\n"))
	a.expectEOF()

	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	b.send("SCENE 1")
	assert.Equal(t, "OK\r\n>", b.readReply())
}

func TestExitStopsServer(t *testing.T) {
	srv, _, done, _ := startServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	a.send("EXIT")
	assert.Equal(t, "bye\r\n", a.readUntil("\r\n"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrExitRequested)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after EXIT")
	}

	b.expectEOF()
	assert.Equal(t, 0, srv.SessionCount())

	_, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	assert.Error(t, err)
}

func TestWaitDoesNotBlockOtherSessions(t *testing.T) {
	srv, _, _, _ := startServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	start := time.Now()
	a.send("WAIT 500")

	b.send("GET TEMP")
	assert.Equal(t, "21.5 degree Celsius\r\n>", b.readReply())
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	assert.Equal(t, "OK\r\n>", a.readReply())
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestContextCancelStopsServer(t *testing.T) {
	srv, _, done, cancel := startServer(t)
	c := dial(t, srv)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	c.expectEOF()
}

func TestLineTooLong(t *testing.T) {
	srv, _, _, _ := startServer(t)
	c := dial(t, srv)

	c.send(strings.Repeat("A", MaxLineLength+1))
	assert.Equal(t, "error - line too long\r\n>", c.readReply())

	c.send("SCENE 2")
	assert.Equal(t, "OK\r\n>", c.readReply())
}

func TestWebSocketSession(t *testing.T) {
	srv, _, _, _ := startServer(t, WithWebSocket("127.0.0.1:0"))

	url := "ws://" + srv.WebSocketAddr().String() + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, Banner, read())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("GET TEMP\nSCENE 3")))
	assert.Equal(t, "21.5 degree Celsius\r\n", read())
	assert.Equal(t, ">", read())
	assert.Equal(t, "OK\r\n", read())
	assert.Equal(t, ">", read())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("QUIT")))
	assert.Equal(t, "bye\r\n", read())
}
