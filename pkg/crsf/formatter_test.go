// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"strings"
	"testing"
)

func TestFormatFrameType(t *testing.T) {
	tests := []struct {
		frameType FrameType
		want      string
	}{
		{TypeRCChannels, "RC_CHANNELS"},
		{TypeBattery, "BATTERY"},
		{TypeGPS, "GPS"},
		{TypeLinkStatistics, "LINK_STATISTICS"},
		{TypeRPM, "RPM"},
		{TypeTemperature, "TEMPERATURE"},
		{FrameType(0x77), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := FormatFrameType(tt.frameType); got != tt.want {
			t.Errorf("0x%02X: got %q, want %q", uint8(tt.frameType), got, tt.want)
		}
	}
}

func TestFormatFrame_Battery(t *testing.T) {
	f := NewFrame(DestFlightController, TypeBattery, BatteryTelemetry{
		Voltage: 168, Current: 253, Capacity: 2200, Remaining: 76,
	}.Pack())
	out := FormatFrame(f)
	for _, want := range []string{"BATTERY", "16.8V", "25.3A", "2200mAh", "76%"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted frame missing %q:\n%s", want, out)
		}
	}
}

func TestFormatFrame_GPSAltitudeOffset(t *testing.T) {
	f := NewFrame(DestFlightController, TypeGPS, GPSTelemetry{Altitude: 1100, Satellites: 9}.Pack())
	out := FormatFrame(f)
	if !strings.Contains(out, "alt=100m") {
		t.Errorf("altitude offset not applied:\n%s", out)
	}
}

func TestFormatFrame_UnknownHexDump(t *testing.T) {
	f := NewFrame(DestRadioTransmitter, FrameType(0x55), []byte{0xDE, 0xAD})
	out := FormatFrame(f)
	if !strings.Contains(out, "DE AD") {
		t.Errorf("expected hex dump for unknown type:\n%s", out)
	}
}
