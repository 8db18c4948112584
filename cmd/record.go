// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var recordOutput string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture decoded frames to a file",
	Long: `Decode frames from the connection and append them to a capture file.

Each frame is stored with its arrival timestamp so the capture can later be
replayed with original timing using the replay command. Frames failing the
checksum are not recorded.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "capture.crsf", "Capture file to write")
}

func runRecord(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	out, err := os.Create(recordOutput)
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	defer out.Close()

	fmt.Printf("crsflink - Frame Recorder\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Output: %s\n", recordOutput)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	writer := crsf.NewCaptureWriter(out)
	decoder := crsf.NewDecoder()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	frames := 0
	readDone := make(chan error, 1)
	frameChan := make(chan *crsf.Frame, 64)

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				readDone <- err
				return
			}
			decoder.Push(buf[:n])
			for {
				frame, decodeErr := decoder.Next()
				if decodeErr != nil {
					logger.Debug("Framing error", "err", decodeErr)
					continue
				}
				if frame == nil {
					break
				}
				frameChan <- frame
			}
		}
	}()

	for {
		select {
		case frame := <-frameChan:
			if err := writer.WriteFrame(frame); err != nil {
				return err
			}
			frames++

		case err := <-readDone:
			if err != ErrConnectionClosed {
				logger.Error("Read error", "err", err)
			}
			fmt.Printf("\nRecorded %d frames to %s\n", frames, recordOutput)
			return nil

		case <-sigChan:
			fmt.Printf("\nRecorded %d frames to %s\n", frames, recordOutput)
			return nil
		}
	}
}
