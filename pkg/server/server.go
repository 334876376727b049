// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

// Package server accepts client connections and runs a command session
// for each of them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/command"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultPort is the TCP port clients connect to
const DefaultPort = 3456

// ErrExitRequested is returned by Serve after a client sent EXIT
var ErrExitRequested = errors.New("exit requested by client")

// Server runs command sessions for TCP and optional WebSocket clients
type Server struct {
	exec   command.Executor
	log    zerolog.Logger
	addr   string
	wsAddr string

	ln      net.Listener
	wsLn    net.Listener
	httpSrv *http.Server

	ctx      context.Context
	mu       sync.Mutex // guards sessions and closing
	sessions map[string]*Session
	closing  bool
	active   sync.WaitGroup

	exitOnce sync.Once
	exit     chan struct{}
}

// Option configures a Server
type Option func(*Server)

// WithAddr sets the TCP listen address, ":3456" by default
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithWebSocket enables the WebSocket front-end on addr
func WithWebSocket(addr string) Option {
	return func(s *Server) {
		s.wsAddr = addr
	}
}

// WithLogger sets the server logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a server executing client lines with exec
func New(exec command.Executor, opts ...Option) *Server {
	s := &Server{
		exec:     exec,
		log:      zerolog.Nop(),
		addr:     fmt.Sprintf(":%d", DefaultPort),
		sessions: make(map[string]*Session),
		exit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the listeners. Serve calls it if needed.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln

	if s.wsAddr != "" {
		wsLn, err := net.Listen("tcp", s.wsAddr)
		if err != nil {
			ln.Close()
			s.ln = nil
			return fmt.Errorf("listen on %s: %w", s.wsAddr, err)
		}
		s.wsLn = wsLn

		mux := http.NewServeMux()
		mux.HandleFunc("/", s.handleWebSocket)
		s.httpSrv = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return nil
}

// Addr returns the TCP listen address, nil before Listen
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// WebSocketAddr returns the WebSocket listen address, nil if disabled
func (s *Server) WebSocketAddr() net.Addr {
	if s.wsLn == nil {
		return nil
	}
	return s.wsLn.Addr()
}

// SessionCount returns the number of connected clients
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Serve accepts clients until ctx is canceled or a client sends EXIT.
// All sessions are closed before it returns. After EXIT it returns
// ErrExitRequested.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.acceptLoop()
	})

	if s.httpSrv != nil {
		g.Go(func() error {
			s.log.Info().Str("addr", s.wsLn.Addr().String()).Msg("WebSocket listening")
			err := s.httpSrv.Serve(s.wsLn)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-s.exit:
		}
		s.shutdown()
		// Unblocks sessions waiting in WAIT or a transfer retry
		cancel()
		return nil
	})

	err := g.Wait()
	s.active.Wait()

	select {
	case <-s.exit:
		return ErrExitRequested
	default:
	}
	return err
}

func (s *Server) acceptLoop() error {
	s.log.Info().Str("addr", s.ln.Addr().String()).Msg("Listening")

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.isClosing() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		go s.serveSession(newSession("tcp", conn.RemoteAddr().String(), newTCPStream(conn)))
	}
}

// serveSession registers sess, runs it and unregisters it
func (s *Server) serveSession(sess *Session) {
	if !s.add(sess) {
		sess.Close()
		return
	}
	defer s.active.Done()

	log := s.log.With().Str("session", sess.ID).Str("remote", sess.Remote).Str("kind", sess.Kind).Logger()
	log.Debug().Msg("Client connected")

	action := sess.run(s.ctx, s.exec, log)

	sess.Close()
	s.remove(sess)
	log.Debug().Stringer("action", action).Msg("Client disconnected")

	if action == command.ActionExit {
		log.Info().Msg("EXIT received, shutting down")
		s.requestExit()
	}
}

func (s *Server) add(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[sess.ID] = sess
	s.active.Add(1)
	return true
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) requestExit() {
	s.exitOnce.Do(func() {
		close(s.exit)
	})
}

// shutdown stops accepting and closes every session
func (s *Server) shutdown() {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.closing = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	s.ln.Close()
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	for _, sess := range sessions {
		sess.Close()
	}
	s.log.Debug().Int("sessions", len(sessions)).Msg("server stopped")
}
