// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpvlab/crsflink/pkg/crsf"
)

var (
	injectTypes    string
	injectInterval int
	injectCount    int
	injectDest     string
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Send synthetic telemetry and channel frames",
	Long: `Generate and send valid CRSF frames on the connection.

Produces plausible, slowly-varying telemetry values so a downstream decoder
or dashboard has something to show. Useful for exercising a flight
controller input, a WebSocket bridge, or another crsflink instance without
real hardware.

Frame types: channels, battery, gps, rpm, temperature, linkstats`,
	RunE: runInject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
	injectCmd.Flags().StringVar(&injectTypes, "types", "channels,battery", "Comma-separated frame types to send")
	injectCmd.Flags().IntVar(&injectInterval, "interval", 20, "Interval between frames (milliseconds)")
	injectCmd.Flags().IntVar(&injectCount, "count", 0, "Number of rounds to send (0 = until interrupted)")
	injectCmd.Flags().StringVar(&injectDest, "dest", "fc", "Destination: fc or radio")
}

// injectFrame builds one synthetic payload for the given type. The round
// counter drives slow value drift.
func injectFrame(name string, round int) (crsf.FrameType, []byte, error) {
	phase := float64(round) / 50.0

	switch name {
	case "channels":
		var ch crsf.ChannelData
		for i := range ch {
			offset := math.Sin(phase+float64(i)/4) * 400
			ch[i] = uint16(1024 + int(offset))
		}
		return crsf.TypeRCChannels, ch.Pack(), nil

	case "battery":
		return crsf.TypeBattery, crsf.BatteryTelemetry{
			Voltage:   uint16(168 - round/500),
			Current:   uint16(120 + int(math.Sin(phase)*40)),
			Capacity:  uint32(round / 10),
			Remaining: uint8(100 - round/1000%101),
		}.Pack(), nil

	case "gps":
		return crsf.TypeGPS, crsf.GPSTelemetry{
			Latitude:    513000000 + int32(round*10),
			Longitude:   -1270000 + int32(round*10),
			Groundspeed: uint16(250 + int(math.Sin(phase)*100)),
			Heading:     uint16(round * 10 % 36000),
			Altitude:    uint16(1000 + 120 + round/100),
			Satellites:  12,
		}.Pack(), nil

	case "rpm":
		return crsf.TypeRPM, crsf.RPMTelemetry{
			SourceID: 0,
			Values: []int32{
				int32(5000 + int(math.Sin(phase)*500)),
				int32(5000 + int(math.Cos(phase)*500)),
			},
		}.Pack(), nil

	case "temperature":
		return crsf.TypeTemperature, crsf.TempTelemetry{
			SourceID: 0,
			Values:   []int16{int16(450 + int(math.Sin(phase)*50)), 320},
		}.Pack(), nil

	case "linkstats":
		return crsf.TypeLinkStatistics, crsf.LinkStatistics{
			UplinkRSSIAnt1:  uint8(60 + int(math.Sin(phase)*10)),
			UplinkRSSIAnt2:  uint8(65 + int(math.Cos(phase)*10)),
			UplinkQuality:   99,
			UplinkSNR:       8,
			RFProfile:       2,
			UplinkTXPower:   3,
			DownlinkRSSI:    70,
			DownlinkQuality: 100,
			DownlinkSNR:     6,
		}.Pack(), nil
	}

	return 0, nil, fmt.Errorf("unknown frame type %q", name)
}

func runInject(cmd *cobra.Command, args []string) error {
	var dest crsf.Destination
	switch injectDest {
	case "fc":
		dest = crsf.DestFlightController
	case "radio":
		dest = crsf.DestRadioTransmitter
	default:
		return fmt.Errorf("invalid destination %q (use fc or radio)", injectDest)
	}

	names := strings.Split(injectTypes, ",")
	for _, name := range names {
		if _, _, err := injectFrame(strings.TrimSpace(name), 0); err != nil {
			return err
		}
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("crsflink - Frame Injector\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Types: %s\n", injectTypes)
	fmt.Printf("Interval: %dms\n", injectInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ticker := time.NewTicker(time.Duration(injectInterval) * time.Millisecond)
	defer ticker.Stop()

	sent := 0
	for round := 0; injectCount == 0 || round < injectCount; round++ {
		<-ticker.C
		for _, name := range names {
			frameType, payload, err := injectFrame(strings.TrimSpace(name), round)
			if err != nil {
				return err
			}
			wire, err := crsf.EncodeFrame(dest, frameType, payload)
			if err != nil {
				return err
			}
			if _, err := conn.Write(wire); err != nil {
				return fmt.Errorf("write failed after %d frames: %w", sent, err)
			}
			sent++
		}
	}

	fmt.Printf("Sent %d frames\n", sent)
	return nil
}
