// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var (
	replayInput string
	replaySpeed float64
	replayLoop  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a capture file",
	Long: `Read frames from a capture file and replay them with original timing.

When a connection is configured (--port or --url) frames are re-encoded and
written to it; otherwise they are printed to stdout in the monitor format.
The --speed factor scales inter-frame delays (2.0 = twice as fast).`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayInput, "input", "i", "capture.crsf", "Capture file to read")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed factor")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Restart from the beginning at end of capture")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("invalid speed factor %g", replaySpeed)
	}

	// Connection is optional for replay, stdout is the fallback
	var conn Connection
	if portName != "" || wsURL != "" {
		var connInfo string
		var err error
		conn, connInfo, err = OpenConnection()
		if err != nil {
			return err
		}
		defer conn.Close()
		fmt.Printf("crsflink - Replay\n")
		fmt.Printf("Connection: %s\n", connInfo)
	} else {
		fmt.Printf("crsflink - Replay (stdout)\n")
	}
	fmt.Printf("Input: %s  Speed: %gx\n\n", replayInput, replaySpeed)

	for {
		frames, err := replayOnce(conn)
		if err != nil {
			return err
		}
		if !replayLoop {
			fmt.Printf("Replayed %d frames\n", frames)
			return nil
		}
		logger.Debug("Looping capture", "frames", frames)
	}
}

func replayOnce(conn Connection) (int, error) {
	in, err := os.Open(replayInput)
	if err != nil {
		return 0, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer in.Close()

	reader := crsf.NewCaptureReader(in)
	frames := 0
	var prev time.Time

	for {
		frame, err := reader.ReadFrame()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}

		// Reproduce the recorded inter-frame gap
		if !prev.IsZero() {
			gap := frame.Timestamp().Sub(prev)
			if gap > 0 {
				time.Sleep(time.Duration(float64(gap) / replaySpeed))
			}
		}
		prev = frame.Timestamp()

		if conn != nil {
			wire, err := frame.Encode()
			if err != nil {
				return frames, err
			}
			if _, err := conn.Write(wire); err != nil {
				return frames, fmt.Errorf("write failed after %d frames: %w", frames, err)
			}
		} else {
			fmt.Print(crsf.FormatFrame(frame))
		}
		frames++
	}
}
