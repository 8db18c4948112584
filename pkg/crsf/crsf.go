// SPDX-License-Identifier: Apache-2.0

// Package crsf implements the Crossfire (CRSF) serial protocol used between
// flight controllers and radio receivers.
//
// The package provides frame encoding/decoding with checksum validation,
// per-type payload codecs (RC channels, battery, GPS, RPM, temperature and
// link statistics), and a Link type that runs the receive loop, tracks the
// most recent channel and link-statistics frames, and raises failsafe when
// valid channel data stops arriving.
package crsf

import "time"

// Destination is the address byte that starts every frame.
type Destination uint8

// Recognized frame destinations
const (
	DestFlightController Destination = 0xC8
	DestRadioTransmitter Destination = 0xEA
)

// FrameType identifies the payload layout of a frame.
type FrameType uint8

// Frame types
const (
	TypeGPS            FrameType = 0x02
	TypeBattery        FrameType = 0x08
	TypeAltitude       FrameType = 0x09
	TypeRPM            FrameType = 0x0C
	TypeTemperature    FrameType = 0x0D
	TypeLinkStatistics FrameType = 0x14
	TypeRCChannels     FrameType = 0x16
	TypeAttitude       FrameType = 0x1E
)

// Frame size limits. The length byte counts type + payload + checksum, so a
// complete frame is length + 2 bytes on the wire.
const (
	MaxFrameSize   = 64
	MinFrameLength = 2
	MaxFrameLength = MaxFrameSize - 2
	MaxPayloadSize = MaxFrameLength - 2
)

// Fixed payload sizes per frame type
const (
	ChannelsPayloadSize  = 22
	BatteryPayloadSize   = 8
	GPSPayloadSize       = 15
	LinkStatsPayloadSize = 10
)

// Channel data geometry: 16 channels, 11 bits each, packed contiguously.
const (
	ChannelCount = 16
	ChannelMax   = 0x7FF
)

// Variable-length telemetry limits. The RPM cap is derived from the frame
// geometry (1 source-id byte + 3 bytes per value); the temperature cap of 20
// entries is fixed by the protocol.
const (
	rpmValueSize  = 3
	tempValueSize = 2

	MaxRPMValues  = (MaxPayloadSize - 1) / rpmValueSize
	MaxTempValues = 20
)

// CRCPolynomial is the CRC8 generator polynomial for frame checksums.
const CRCPolynomial = 0xD5

// DefaultFailsafeTimeout is how long the failsafe monitor waits for a valid
// channel frame before declaring link loss.
const DefaultFailsafeTimeout = 500 * time.Millisecond

// DefaultBaudRate is the serial rate used by CRSF receivers.
const DefaultBaudRate = 420000
