// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"fmt"
	"strings"
)

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f *Frame) string {
	timestamp := f.timestamp.Format("15:04:05.000")
	result := fmt.Sprintf("[%s] %s (0x%02X) dest=0x%02X len=%d\n",
		timestamp, FormatFrameType(f.frameType), uint8(f.frameType), uint8(f.dest), f.Length())
	result += formatPayload(f.frameType, f.payload)
	return result
}

// FormatFrameType returns the human-readable name for a frame type
func FormatFrameType(frameType FrameType) string {
	switch frameType {
	case TypeGPS:
		return "GPS"
	case TypeBattery:
		return "BATTERY"
	case TypeAltitude:
		return "ALTITUDE"
	case TypeRPM:
		return "RPM"
	case TypeTemperature:
		return "TEMPERATURE"
	case TypeLinkStatistics:
		return "LINK_STATISTICS"
	case TypeRCChannels:
		return "RC_CHANNELS"
	case TypeAttitude:
		return "ATTITUDE"
	default:
		return "UNKNOWN"
	}
}

// FormatDestination returns the human-readable name for a destination byte
func FormatDestination(dest Destination) string {
	switch dest {
	case DestFlightController:
		return "FLIGHT_CONTROLLER"
	case DestRadioTransmitter:
		return "RADIO_TRANSMITTER"
	default:
		return "UNKNOWN"
	}
}

func formatPayload(frameType FrameType, payload []byte) string {
	switch frameType {
	case TypeRCChannels:
		if c, err := UnpackChannels(payload); err == nil {
			var b strings.Builder
			for i, v := range c {
				if i%8 == 0 {
					b.WriteString("  ")
				}
				fmt.Fprintf(&b, "ch%-2d=%-4d ", i+1, v)
				if i%8 == 7 {
					b.WriteString("\n")
				}
			}
			return b.String()
		}

	case TypeBattery:
		if bat, err := UnpackBattery(payload); err == nil {
			return fmt.Sprintf("  %.1fV %.1fA %dmAh %d%%\n",
				float64(bat.Voltage)/10, float64(bat.Current)/10, bat.Capacity, bat.Remaining)
		}

	case TypeGPS:
		if g, err := UnpackGPS(payload); err == nil {
			return fmt.Sprintf("  lat=%.7f lon=%.7f speed=%.1fkm/h heading=%.2f alt=%dm sats=%d\n",
				float64(g.Latitude)/1e7, float64(g.Longitude)/1e7,
				float64(g.Groundspeed)/10, float64(g.Heading)/100,
				int(g.Altitude)-1000, g.Satellites)
		}

	case TypeRPM:
		if r, err := UnpackRPM(payload); err == nil {
			var b strings.Builder
			fmt.Fprintf(&b, "  source=%d", r.SourceID)
			for i, v := range r.Values {
				fmt.Fprintf(&b, " rpm%d=%d", i, v)
			}
			b.WriteString("\n")
			return b.String()
		}

	case TypeTemperature:
		if t, err := UnpackTemp(payload); err == nil {
			var b strings.Builder
			fmt.Fprintf(&b, "  source=%d", t.SourceID)
			for i, v := range t.Values {
				fmt.Fprintf(&b, " temp%d=%.1fC", i, float64(v)/10)
			}
			b.WriteString("\n")
			return b.String()
		}

	case TypeLinkStatistics:
		if s, err := UnpackLinkStatistics(payload); err == nil {
			return fmt.Sprintf("  up: rssi1=-%ddBm rssi2=-%ddBm lq=%d%% snr=%ddB ant=%d profile=%d power=%d\n"+
				"  down: rssi=-%ddBm lq=%d%% snr=%ddB\n",
				s.UplinkRSSIAnt1, s.UplinkRSSIAnt2, s.UplinkQuality, s.UplinkSNR,
				s.ActiveAntenna, s.RFProfile, s.UplinkTXPower,
				s.DownlinkRSSI, s.DownlinkQuality, s.DownlinkSNR)
		}
	}

	if len(payload) == 0 {
		return "  (no payload)\n"
	}

	// Default: hex dump
	var b strings.Builder
	b.WriteString("  Payload: ")
	for i, v := range payload {
		if i > 0 && i%16 == 0 {
			b.WriteString("\n           ")
		}
		fmt.Fprintf(&b, "%02X ", v)
	}
	b.WriteString("\n")
	return b.String()
}
