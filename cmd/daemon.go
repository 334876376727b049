// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/lightmanager-go/lightmanager/pkg/command"
	"github.com/lightmanager-go/lightmanager/pkg/config"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/lightmanager-go/lightmanager/pkg/link"
	"github.com/lightmanager-go/lightmanager/pkg/server"
	"github.com/lightmanager-go/lightmanager/pkg/trace"
	"github.com/lightmanager-go/lightmanager/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	// -c runs in the foreground
	daemonConflict := cfg.Daemon && cfg.Command != ""
	if daemonConflict {
		cfg.Daemon = false
	}
	// A Go process cannot fork itself; the service manager detaches it
	// and the log goes to syslog.
	if cfg.Daemon {
		cfg.Syslog = true
	}

	log, logCloser, err := newLogger(cfg)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("logger: %w", err)}
	}
	defer logCloser.Close()

	log.Info().Msgf("Starting %s (%s)", lightmanager.ProgName, lightmanager.Version)
	for _, arg := range args {
		log.Warn().Msgf("Unknown parameter <%s>", arg)
	}
	if daemonConflict {
		log.Warn().Msg("Starting as daemon with parameter -c is not possible, disable daemon flag")
	}
	if cfg.Daemon {
		log.Info().Msg("Starting as daemon")
	}
	if cfg.Debug {
		log.Info().Msg("Debug enabled")
	}

	hc, err := lightmanager.ParseHouseCode(cfg.HouseCode)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	log.Info().Msgf("Using housecode %s (%dd, 0x%04x, FS20=%s)", cfg.HouseCode, uint16(hc), uint16(hc), hc)

	dev, linkInfo, err := OpenDeviceLink(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Cannot open device")
		return &ExitError{Code: 1, Err: err}
	}
	log.Info().Str("link", linkInfo).Msg("Device opened")

	ctx, cancel := signalContext(cmd.Context(), log)
	defer cancel()

	return run(ctx, cfg, hc, dev, log)
}

// run serves commands on the opened device and releases it.
// The exit code is the status of the release.
func run(ctx context.Context, cfg *config.Config, hc lightmanager.HouseCode, dev link.Link, log zerolog.Logger) error {
	opts := []transport.Option{
		transport.WithPolicy(cfg.Policy()),
		transport.WithLogger(log.With().Str("component", "transport").Logger()),
	}
	if cfg.Trace != "" {
		rec, err := trace.NewFileRecorder(cfg.Trace)
		if err != nil {
			dev.Close()
			return &ExitError{Code: 1, Err: fmt.Errorf("trace: %w", err)}
		}
		defer rec.Close()
		opts = append(opts, transport.WithRecorder(rec))
		log.Info().Str("file", cfg.Trace).Msg("Recording frame trace")
	}

	tr := transport.New(dev, opts...)
	dispatcher := command.NewDispatcher(hc, tr,
		command.WithLogger(log.With().Str("component", "dispatcher").Logger()))

	var serveErr error
	if cfg.Command != "" {
		log.Info().Msgf("Execute command(s) '%s'", cfg.Command)
		_, serveErr = command.RunBatch(ctx, dispatcher, cfg.Command, os.Stdout)
	} else {
		serveErr = serve(ctx, cfg, dispatcher, log)
	}

	stats := tr.Statistics()
	log.Debug().Msg(stats.String())

	if err := tr.Close(); err != nil {
		log.Error().Err(err).Msg("Cannot release device")
		return &ExitError{Code: 1, Err: err}
	}

	if serveErr != nil && !errors.Is(serveErr, server.ErrExitRequested) && !errors.Is(serveErr, context.Canceled) {
		return &ExitError{Code: 1, Err: serveErr}
	}
	return nil
}

// onListening is called with the TCP address once sessions are accepted
var onListening = func(net.Addr) {}

// serve runs the session server until EXIT or a signal
func serve(ctx context.Context, cfg *config.Config, exec command.Executor, log zerolog.Logger) error {
	opts := []server.Option{
		server.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		server.WithLogger(log.With().Str("component", "server").Logger()),
	}
	if cfg.WebSocket != "" {
		opts = append(opts, server.WithWebSocket(cfg.WebSocket))
	}

	srv := server.New(exec, opts...)
	if err := srv.Listen(); err != nil {
		return err
	}
	log.Debug().Msgf("Listening now on port %d", cfg.Port)
	onListening(srv.Addr())

	if cfg.MDNS.Enabled {
		adv, err := server.Advertise(cfg.MDNS.Instance, cfg.Port, cfg.MDNS.Interface)
		if err != nil {
			log.Warn().Err(err).Msg("mDNS advertisement failed")
		} else {
			defer adv.Shutdown()
			log.Info().Str("service", server.ServiceType).Str("instance", cfg.MDNS.Instance).Msg("Advertising via mDNS")
		}
	}

	err := srv.Serve(ctx)
	if errors.Is(err, server.ErrExitRequested) {
		log.Info().Msg("exiting")
	}
	return err
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context, log zerolog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			log.Info().Msgf("--- Terminate program %s %s (%s)", lightmanager.ProgName, lightmanager.Version, signalName(sig))
			log.Info().Msg("exiting")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "unknown"
	}
}
