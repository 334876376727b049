// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/lightmanager-go/lightmanager/pkg/command"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/rs/zerolog"
)

// Banner is sent when a client connects
var Banner = fmt.Sprintf("Welcome to %s (%s)\r\n%s", lightmanager.ProgName, lightmanager.Version, command.Prompt)

// stream is a line oriented client connection
type stream interface {
	ReadLine() (string, error)
	WriteString(s string) error
	Close() error
}

// Session is one connected client
type Session struct {
	ID     string
	Remote string
	Kind   string // "tcp" or "websocket"

	stream    stream
	closeOnce sync.Once
	closeErr  error
}

func newSession(kind, remote string, st stream) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Remote: remote,
		Kind:   kind,
		stream: st,
	}
}

// Close closes the client connection. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stream.Close()
	})
	return s.closeErr
}

// run reads and executes lines until the client disconnects or sends
// QUIT or EXIT. It returns the action that ended the session.
func (s *Session) run(ctx context.Context, exec command.Executor, log zerolog.Logger) command.Action {
	if err := s.stream.WriteString(Banner); err != nil {
		log.Debug().Err(err).Msg("write banner")
		return command.ActionContinue
	}

	for {
		line, err := s.stream.ReadLine()
		if errors.Is(err, ErrLineTooLong) {
			log.Warn().Int("max", MaxLineLength).Msg("line too long, discarded")
			if err := s.stream.WriteString("error - line too long\r\n" + command.Prompt); err != nil {
				return command.ActionContinue
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debug().Err(err).Msg("read")
			}
			return command.ActionContinue
		}

		reply, action := exec.Execute(ctx, line)
		if reply != "" {
			if err := s.stream.WriteString(reply); err != nil {
				log.Debug().Err(err).Msg("write reply")
				return command.ActionContinue
			}
		}

		if action != command.ActionContinue {
			_ = s.stream.WriteString(command.ReplyBye)
			return action
		}

		if err := s.stream.WriteString(command.Prompt); err != nil {
			return command.ActionContinue
		}
	}
}

// tcpStream is a session over a TCP connection
type tcpStream struct {
	conn net.Conn
	lr   *lineReader
}

func newTCPStream(conn net.Conn) *tcpStream {
	return &tcpStream{conn: conn, lr: newLineReader(conn)}
}

func (t *tcpStream) ReadLine() (string, error) {
	return t.lr.ReadLine()
}

func (t *tcpStream) WriteString(s string) error {
	_, err := t.conn.Write([]byte(s))
	return err
}

func (t *tcpStream) Close() error {
	return t.conn.Close()
}
