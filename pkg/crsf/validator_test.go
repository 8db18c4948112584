// SPDX-License-Identifier: Apache-2.0

package crsf

import "testing"

func TestValidateFrame_CleanFrames(t *testing.T) {
	frames := []*Frame{
		NewFrame(DestFlightController, TypeRCChannels, ChannelData{}.Pack()),
		NewFrame(DestFlightController, TypeBattery, BatteryTelemetry{Remaining: 100}.Pack()),
		NewFrame(DestFlightController, TypeGPS, GPSTelemetry{Satellites: 12}.Pack()),
		NewFrame(DestFlightController, TypeLinkStatistics, LinkStatistics{UplinkQuality: 95, DownlinkQuality: 97}.Pack()),
		NewFrame(DestFlightController, TypeRPM, RPMTelemetry{Values: []int32{1200}}.Pack()),
		NewFrame(DestFlightController, TypeTemperature, TempTelemetry{Values: []int16{250}}.Pack()),
	}
	for _, f := range frames {
		if errs := ValidateFrame(f); len(errs) != 0 {
			t.Errorf("%s: unexpected validation errors: %v", FormatFrameType(f.Type()), errs)
		}
	}
}

func TestValidateFrame_LengthMismatch(t *testing.T) {
	f := NewFrame(DestFlightController, TypeRCChannels, make([]byte, 10))
	errs := ValidateFrame(f)
	if len(errs) != 1 || errs[0].Type != AnomalyLengthMismatch {
		t.Fatalf("expected one length mismatch, got %v", errs)
	}
}

func TestValidateFrame_AnomalousValues(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
		want  AnomalyType
	}{
		{
			name:  "battery over 100 percent",
			frame: NewFrame(DestFlightController, TypeBattery, BatteryTelemetry{Remaining: 120}.Pack()),
			want:  AnomalyInvalidValue,
		},
		{
			name:  "latitude out of range",
			frame: NewFrame(DestFlightController, TypeGPS, GPSTelemetry{Latitude: 950000000}.Pack()),
			want:  AnomalyInvalidValue,
		},
		{
			name:  "implausible satellite count",
			frame: NewFrame(DestFlightController, TypeGPS, GPSTelemetry{Satellites: 99}.Pack()),
			want:  AnomalyInvalidValue,
		},
		{
			name:  "low uplink quality",
			frame: NewFrame(DestFlightController, TypeLinkStatistics, LinkStatistics{UplinkQuality: 10, DownlinkQuality: 90}.Pack()),
			want:  AnomalyLowQuality,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateFrame(tt.frame)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Type == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected anomaly type %d in %v", tt.want, errs)
			}
		})
	}
}

func TestValidateFrame_UnknownTypeIgnored(t *testing.T) {
	f := NewFrame(DestFlightController, FrameType(0x7F), []byte{0x01})
	if errs := ValidateFrame(f); len(errs) != 0 {
		t.Errorf("unknown types should not be validated, got %v", errs)
	}
}
