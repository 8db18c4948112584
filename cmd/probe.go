// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test connection by waiting for a valid CRSF frame",
	Long: `Wait for a valid CRSF frame on the connection until timeout.

This command connects to a serial port or WebSocket and waits for any valid
CRSF frame. It ignores invalid bytes and waits for a complete frame passing
the checksum.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for verifying wiring, baud rate, and receiver configuration.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runProbe(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("crsflink - Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", probeTimeout)
	fmt.Printf("Waiting for valid CRSF frame...\n\n")

	decoder := crsf.NewDecoder()

	frameChan := make(chan *crsf.Frame, 1)
	errChan := make(chan error, 1)

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			decoder.Push(buf[:n])
			for {
				frame, decodeErr := decoder.Next()
				if decodeErr != nil {
					// Ignore framing errors while hunting for sync
					continue
				}
				if frame == nil {
					break
				}
				if dropped := decoder.DroppedBytes(); dropped > 0 {
					fmt.Printf("(skipped %d invalid bytes before sync)\n", dropped)
				}
				frameChan <- frame
				return
			}
		}
	}()

	select {
	case frame := <-frameChan:
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Type: %s (0x%02X)\n", crsf.FormatFrameType(frame.Type()), uint8(frame.Type()))
		fmt.Printf("  Destination: %s (0x%02X)\n", crsf.FormatDestination(frame.Destination()), uint8(frame.Destination()))
		fmt.Printf("  Length: %d bytes\n", frame.Length())
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(probeTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", probeTimeout)
		os.Exit(1)
	}

	return nil
}
