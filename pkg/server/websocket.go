// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  MaxLineLength,
	WriteBufferSize: MaxLineLength,
	// Any origin may connect
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsStream is a session over a WebSocket connection.
// A text message carries one or more lines; replies go out as text messages.
type wsStream struct {
	conn    *websocket.Conn
	pending []string
	wmu     sync.Mutex
}

func newWSStream(conn *websocket.Conn) *wsStream {
	conn.SetReadLimit(MaxLineLength * 4)
	return &wsStream{conn: conn}
}

func (w *wsStream) ReadLine() (string, error) {
	for len(w.pending) == 0 {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		lines := strings.FieldsFunc(string(data), func(r rune) bool {
			return r == '\r' || r == '\n'
		})
		if len(lines) == 0 {
			lines = []string{""}
		}
		w.pending = lines
	}

	line := w.pending[0]
	w.pending = w.pending[1:]
	if len(line) > MaxLineLength {
		return "", ErrLineTooLong
	}
	return line, nil
}

func (w *wsStream) WriteString(s string) error {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.conn.WriteMessage(websocket.TextMessage, []byte(s))
}

func (w *wsStream) Close() error {
	w.wmu.Lock()
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	w.wmu.Unlock()
	return w.conn.Close()
}

// handleWebSocket upgrades the request and runs a session on it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	s.serveSession(newSession("websocket", r.RemoteAddr, newWSStream(conn)))
}
