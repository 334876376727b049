// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/lightmanager-go/lightmanager/pkg/command"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	clientHost string
	clientPort int
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interactive command client",
	Long: `Connect to a running lightmanager daemon and send commands interactively.

Replies are coloured: OK in green, errors in red. Type QUIT or press Ctrl+D to
disconnect, EXIT to stop the daemon.`,
	Args: cobra.NoArgs,
	RunE: runClient,
}

func init() {
	clientCmd.Flags().StringVar(&clientHost, "host", "localhost", "Daemon host")
	clientCmd.Flags().IntVarP(&clientPort, "port", "p", 3456, "Daemon TCP port")
	rootCmd.AddCommand(clientCmd)
}

// replyKind classifies a reply line for colouring
type replyKind int

const (
	replyPlain replyKind = iota
	replyOK
	replyError
	replyInfo
)

func classifyReply(line string) replyKind {
	switch {
	case line == "OK":
		return replyOK
	case line == "bye", strings.HasPrefix(line, "Welcome to "):
		return replyInfo
	case strings.HasPrefix(line, "error"),
		strings.HasPrefix(line, strings.TrimSuffix(command.ReplyUSBError, "\r\n")),
		strings.Contains(line, "missing"),
		strings.Contains(line, "wrong"),
		strings.Contains(line, "unknown"),
		strings.Contains(line, "out of range"),
		strings.Contains(line, "Wrong"):
		return replyError
	}
	return replyPlain
}

// replyStyles renders reply lines, colourless when stdout is not a terminal
type replyStyles struct {
	color bool
	ok    lipgloss.Style
	err   lipgloss.Style
	info  lipgloss.Style
}

func newReplyStyles(color bool) replyStyles {
	return replyStyles{
		color: color,
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		info:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

func (s replyStyles) render(line string) string {
	if !s.color {
		return line
	}
	switch classifyReply(line) {
	case replyOK:
		return s.ok.Render(line)
	case replyError:
		return s.err.Render(line)
	case replyInfo:
		return s.info.Render(line)
	}
	return line
}

// cleanReply strips the prompt and line terminators the daemon sends.
// The GET CLOCK reply ends in "\n\r", leaving a CR before the next prompt.
func cleanReply(line string) string {
	line = strings.TrimLeft(line, "\r"+command.Prompt)
	return strings.TrimRight(line, "\r\n")
}

func runClient(cmd *cobra.Command, args []string) error {
	addr := net.JoinHostPort(clientHost, fmt.Sprint(clientPort))
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lightmanager> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	var closeOnce sync.Once
	closeReadline := func() { closeOnce.Do(func() { rl.Close() }) }
	defer closeReadline()

	styles := newReplyStyles(term.IsTerminal(int(os.Stdout.Fd())))

	// Print replies as they arrive
	done := make(chan error, 1)
	go func() {
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if text := cleanReply(line); text != "" {
				fmt.Fprintln(rl.Stdout(), styles.render(text))
			}
			if err != nil {
				done <- err
				closeReadline()
				return
			}
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// Ctrl+D
			line = "QUIT"
		}

		if _, werr := io.WriteString(conn, line+"\r\n"); werr != nil {
			break
		}
		if err != nil {
			break
		}
	}

	select {
	case err := <-done:
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	case <-time.After(2 * time.Second):
		return nil
	}
}
