// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBatteryTelemetry_WireLayout(t *testing.T) {
	b := BatteryTelemetry{
		Voltage:   168,     // 16.8 V
		Current:   253,     // 25.3 A
		Capacity:  0x12345, // mAh, 24-bit
		Remaining: 87,
	}
	payload := b.Pack()
	require.Len(t, payload, BatteryPayloadSize)
	assert.Equal(t, []byte{0x00, 0xA8, 0x00, 0xFD, 0x01, 0x23, 0x45, 87}, payload)

	decoded, err := UnpackBattery(payload)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestBatteryTelemetry_CapacityTruncatedTo24Bits(t *testing.T) {
	b := BatteryTelemetry{Capacity: 0xFF123456}
	decoded, err := UnpackBattery(b.Pack())
	require.NoError(t, err)
	assert.Equal(t, uint32(0x123456), decoded.Capacity)
}

func TestGPSTelemetry_RoundTrip(t *testing.T) {
	g := GPSTelemetry{
		Latitude:    515074000,  // 51.5074 deg
		Longitude:   -1278000,   // -0.1278 deg
		Groundspeed: 123,        // 12.3 km/h
		Heading:     27000,      // 270.00 deg
		Altitude:    1100,       // 100 m
		Satellites:  14,
	}
	payload := g.Pack()
	require.Len(t, payload, GPSPayloadSize)

	decoded, err := UnpackGPS(payload)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)

	// Big-endian placement of the first field
	assert.Equal(t, byte(515074000>>24), payload[0])
	assert.Equal(t, byte(515074000&0xFF), payload[3])
}

func TestGPSTelemetry_NegativeCoordinates(t *testing.T) {
	g := GPSTelemetry{Latitude: -337865000, Longitude: 1512093000, Satellites: 9}
	decoded, err := UnpackGPS(g.Pack())
	require.NoError(t, err)
	assert.Equal(t, int32(-337865000), decoded.Latitude)
	assert.Equal(t, int32(1512093000), decoded.Longitude)
}

func TestRPMTelemetry_SignHandling(t *testing.T) {
	tests := []struct {
		name  string
		value int32
	}{
		{"reverse spin", -1000},
		{"max positive", 8388607},
		{"min negative", -8388608},
		{"zero", 0},
		{"one", 1},
		{"minus one", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RPMTelemetry{SourceID: 2, Values: []int32{tt.value}}
			decoded, err := UnpackRPM(r.Pack())
			require.NoError(t, err)
			require.Len(t, decoded.Values, 1)
			assert.Equal(t, tt.value, decoded.Values[0])
			assert.Equal(t, uint8(2), decoded.SourceID)
		})
	}
}

func TestRPMTelemetry_WireLayout(t *testing.T) {
	r := RPMTelemetry{SourceID: 0, Values: []int32{-1}}
	// -1 as 24-bit two's complement, big-endian
	assert.Equal(t, []byte{0x00, 0xFF, 0xFF, 0xFF}, r.Pack())
}

func TestRPMTelemetry_CapacityBounds(t *testing.T) {
	values := make([]int32, 20)
	for i := range values {
		values[i] = int32(i * 100)
	}

	t.Run("19 entries fit", func(t *testing.T) {
		r := RPMTelemetry{Values: values[:19]}
		payload := r.Pack()
		assert.Len(t, payload, 1+19*3)
		decoded, err := UnpackRPM(payload)
		require.NoError(t, err)
		assert.Len(t, decoded.Values, 19)
	})

	t.Run("20 entries truncated to 19", func(t *testing.T) {
		r := RPMTelemetry{Values: values}
		payload := r.Pack()
		assert.Len(t, payload, 1+MaxRPMValues*3)
		decoded, err := UnpackRPM(payload)
		require.NoError(t, err)
		assert.Equal(t, values[:MaxRPMValues], decoded.Values)
	})

	t.Run("truncated payload still fits a frame", func(t *testing.T) {
		r := RPMTelemetry{Values: values}
		_, err := EncodeFrame(DestFlightController, TypeRPM, r.Pack())
		assert.NoError(t, err)
	})
}

func TestTempTelemetry_RoundTrip(t *testing.T) {
	tm := TempTelemetry{SourceID: 1, Values: []int16{250, -50, 0, 1000, -1000}}
	decoded, err := UnpackTemp(tm.Pack())
	require.NoError(t, err)
	assert.Equal(t, tm, decoded)
}

func TestTempTelemetry_CapacityBounds(t *testing.T) {
	values := make([]int16, 25)
	for i := range values {
		values[i] = int16(i*10 - 100)
	}
	tm := TempTelemetry{SourceID: 3, Values: values}
	payload := tm.Pack()
	assert.Len(t, payload, 1+MaxTempValues*2)

	decoded, err := UnpackTemp(payload)
	require.NoError(t, err)
	assert.Equal(t, values[:MaxTempValues], decoded.Values)
}

func TestUnpackRPM_MalformedLengths(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 5, 60} {
		_, err := UnpackRPM(make([]byte, n))
		assert.Errorf(t, err, "length %d should be rejected", n)
	}
}

func TestLinkStatistics_RoundTrip(t *testing.T) {
	s := LinkStatistics{
		UplinkRSSIAnt1:  70,
		UplinkRSSIAnt2:  85,
		UplinkQuality:   100,
		UplinkSNR:       -3,
		ActiveAntenna:   1,
		RFProfile:       2,
		UplinkTXPower:   3,
		DownlinkRSSI:    62,
		DownlinkQuality: 99,
		DownlinkSNR:     8,
	}
	payload := s.Pack()
	require.Len(t, payload, LinkStatsPayloadSize)

	decoded, err := UnpackLinkStatistics(payload)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestTelemetry_RoundTripThroughFramePipeline(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := BatteryTelemetry{
			Voltage:   rapid.Uint16().Draw(t, "voltage"),
			Current:   rapid.Uint16().Draw(t, "current"),
			Capacity:  rapid.Uint32Range(0, 0xFFFFFF).Draw(t, "capacity"),
			Remaining: rapid.Uint8Range(0, 100).Draw(t, "remaining"),
		}

		wire, err := EncodeFrame(DestRadioTransmitter, TypeBattery, b.Pack())
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}

		dec := NewDecoder()
		dec.Push(wire)
		frame, err := dec.Next()
		if err != nil || frame == nil {
			t.Fatalf("decode failed: frame=%v err=%v", frame, err)
		}

		decoded, err := UnpackBattery(frame.Payload())
		if err != nil {
			t.Fatalf("unpack failed: %v", err)
		}
		if decoded != b {
			t.Fatalf("round trip mismatch: %+v != %+v", decoded, b)
		}
	})
}
