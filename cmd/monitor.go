// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var monitorNoVerify bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display decoded frames in human-readable format",
	Long: `Continuously decode and display CRSF frames as they arrive.

Each frame is shown with its timestamp, frame type, destination and decoded
payload: channel values for RC_CHANNELS, voltage and capacity for BATTERY,
position for GPS, and so on. Unknown frame types are shown as a hex dump.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorNoVerify, "no-verify", false, "Skip checksum verification")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("crsflink - Frame Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := crsf.NewDecoder()
	if monitorNoVerify || cfg.SkipChecksumVerify {
		decoder.SetChecksumVerify(false)
	}
	buf := make([]byte, 256)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A WebSocket read error means the connection is permanently
			// closed, so exit gracefully
			if err == ErrConnectionClosed {
				logger.Info("Connection closed")
				return nil
			}
			logger.Error("Read error", "err", err)
			continue
		}

		decoder.Push(buf[:n])
		for {
			frame, err := decoder.Next()
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if frame == nil {
				break
			}
			fmt.Print(crsf.FormatFrame(frame))
		}
	}
}
