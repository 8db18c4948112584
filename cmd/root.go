// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	configPath string
	verbose    bool

	cfg    Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crsflink",
	Short: "CRSF telemetry link analyzer",
	Long: `crsflink - A CLI tool for monitoring and analyzing CRSF telemetry links.

Decodes the Crossfire serial protocol spoken between flight controllers and
radio receivers: RC channels, link statistics, battery, GPS, RPM and
temperature telemetry. Provides commands for live monitoring, error
detection, frame capture and replay, and an interactive dashboard.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 420000]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the CRSFLINK_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		// Flags win over the config file
		if portName == "" {
			portName = cfg.Port
		}
		if !cmd.Flags().Changed("baud") && cfg.Baud != 0 {
			baudRate = cfg.Baud
		}
		if wsURL == "" {
			wsURL = cfg.URL
		}
		if wsUsername == "" {
			wsUsername = cfg.Username
		}

		return nil
	},
}

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", crsf.DefaultBaudRate, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: crsflink.yaml, ~/.config/crsflink/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
