// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 The Lightmanager Go Authors

package cmd

import (
	"fmt"

	"github.com/lightmanager-go/lightmanager/pkg/config"
	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
	"github.com/spf13/cobra"
)

var (
	configPath string

	// Daemon flags (-H, since -h is help)
	flagCommand   string
	flagDaemon    bool
	flagDebug     bool
	flagHouseCode string
	flagPort      int
	flagSyslog    bool

	// Device link flags
	flagLink         string
	flagSerialDevice string
	flagBaud         int

	// Front-end flags
	flagWebSocket string
	flagMDNS      bool
	flagTrace     string
)

var rootCmd = &cobra.Command{
	Use:   "lightmanager",
	Short: "Linux Lightmanager daemon",
	Long: `Lightmanager - controls a jbmedia Light-Manager (Pro) USB controller.

Text commands are translated into controller frames for FS20, Uniroll and
InterTechno radio devices. Commands come from TCP clients (default port 3456)
or, with -c, from the command line:

  lightmanager -c "FS20 1111 ON; WAIT 500; GET TEMP"

Connect with any line oriented client (telnet, nc, 'lightmanager client') and
type HELP for the command list.

Device links:
  USB:       --link usb (default)
  Serial:    --link serial --serial-device /dev/ttyUSB0 [--baud 115200]
  Simulator: --link sim`,
	Version:       lightmanager.Version,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s ({{.Version}})\nCopyright (c) 2025 The Lightmanager Go Authors\n", lightmanager.ProgName))

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file")

	flags.StringVarP(&flagCommand, "command", "c", "", "Execute command(s) separated by ';' or ',' and exit")
	flags.BoolVarP(&flagDaemon, "daemon", "d", false, "Run as daemon (log to syslog)")
	flags.BoolVarP(&flagDebug, "debug", "g", false, "Enable debug output")
	flags.StringVarP(&flagHouseCode, "housecode", "H", "11111111", "FS20 housecode (8 digits 1-4)")
	flags.IntVarP(&flagPort, "port", "p", 3456, "TCP port for client connections")
	flags.BoolVarP(&flagSyslog, "syslog", "s", false, "Log to syslog")

	flags.StringVar(&flagLink, "link", config.LinkUSB, "Device link: usb, serial or sim")
	flags.StringVar(&flagSerialDevice, "serial-device", "", "Serial port device (serial link only)")
	flags.IntVarP(&flagBaud, "baud", "b", 115200, "Baud rate (serial link only)")

	flags.StringVar(&flagWebSocket, "ws", "", "WebSocket listen address, e.g. :8080")
	flags.BoolVar(&flagMDNS, "mdns", false, "Advertise the TCP port via mDNS")
	flags.StringVar(&flagTrace, "trace", "", "Record every frame transfer to a CBOR file")
}

// ExitError carries the process exit status
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// loadConfig builds the configuration from the file and the flags set
// on the command line. Flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("command") {
		cfg.Command = flagCommand
	}
	if flags.Changed("daemon") {
		cfg.Daemon = flagDaemon
	}
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}
	if flags.Changed("housecode") {
		cfg.HouseCode = flagHouseCode
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("syslog") {
		cfg.Syslog = flagSyslog
	}
	if flags.Changed("link") {
		cfg.Link.Kind = flagLink
	}
	if flags.Changed("serial-device") {
		cfg.Link.Device = flagSerialDevice
	}
	if flags.Changed("baud") {
		cfg.Link.Baud = flagBaud
	}
	if flags.Changed("ws") {
		cfg.WebSocket = flagWebSocket
	}
	if flags.Changed("mdns") {
		cfg.MDNS.Enabled = flagMDNS
	}
	if flags.Changed("trace") {
		cfg.Trace = flagTrace
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
