// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var (
	showAll       bool
	statsInterval int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Detect and analyze malformed frames and errors",
	Long: `Track frame errors, malformed payloads, and anomalous values with statistics.

This command validates each frame and detects:
  - Malformed frames (payload length mismatches, invalid value counts)
  - Checksum errors and framing failures
  - Anomalous telemetry values (battery > 100%, out-of-range coordinates)
  - Degraded link quality (uplink LQ below 30%)

By default, only errors are displayed. Use --show-all to display valid frames too.

Frames are validated in real-time, with errors highlighted immediately and
periodic statistics summaries displayed at configurable intervals.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all frames (not just errors)")
	statsCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
}

// printFramingError prints a framing error in highlighted format
func printFramingError(err error) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31mFRAMING ERROR:\033[0m %v\n\n", timestamp, err)
}

// printValidationErrors prints validation errors for a frame
func printValidationErrors(frame *crsf.Frame, errors []crsf.ValidationError) {
	timestamp := frame.Timestamp().Format("15:04:05.000")
	typeName := crsf.FormatFrameType(frame.Type())

	fmt.Printf("[%s] \033[1;33mVALIDATION ERROR:\033[0m %s (0x%02X)\n", timestamp, typeName, uint8(frame.Type()))
	fmt.Printf("  Checksum: \033[1;32mOK\033[0m\n")

	for i, err := range errors {
		switch err.Type {
		case crsf.AnomalyLengthMismatch:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
			if length, ok := err.Details["length"].(int); ok {
				if expected, ok := err.Details["expected"].(string); ok {
					fmt.Printf("    Length: received=%d, expected=%s\n", length, expected)
				}
			}

		case crsf.AnomalyInvalidValue:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)

		case crsf.AnomalyLowQuality:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
			if lq, ok := err.Details["uplink_quality"].(uint8); ok {
				fmt.Printf("    Uplink LQ=%d%% (warn below 30%%)\n", lq)
			}

		default:
			fmt.Printf("  Issue %d: %s\n", i+1, err.Message)
		}
	}

	fmt.Printf("  >>> FRAME FLAGGED <<<\n\n")
}

func runStats(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("crsflink - Error Detection Mode\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Errors only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := crsf.NewDecoder()
	var stats crsf.Statistics

	// Sync tracking, framing errors are expected until the first valid frame
	synchronized := false

	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	// Channel for non-blocking reads
	serialBuf := make(chan []byte, 10)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					close(serialBuf)
					return
				}
				logger.Error("Read error", "err", err)
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			serialBuf <- data
		}
	}()

	for {
		select {
		case data, ok := <-serialBuf:
			if !ok {
				logger.Info("Connection closed")
				return nil
			}

			decoder.Push(data)
			for {
				frame, decodeErr := decoder.Next()

				if decodeErr != nil {
					if synchronized {
						stats.RecordFramingError(decodeErr)
						printFramingError(decodeErr)
					}
					continue
				}
				if frame == nil {
					break
				}

				if !synchronized {
					synchronized = true
					if dropped := decoder.DroppedBytes(); dropped > 0 {
						fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", dropped)
					} else {
						fmt.Printf("[SYNC] Synchronized\n\n")
					}
				}

				validationErrors := crsf.ValidateFrame(frame)
				stats.RecordFrame(frame.Type())
				if len(validationErrors) > 0 {
					stats.RecordPayloadError()
					printValidationErrors(frame, validationErrors)
				} else if showAll {
					fmt.Print(crsf.FormatFrame(frame))
				}
			}

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.Snapshot().String())
			fmt.Println()
		}
	}
}
