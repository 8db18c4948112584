// SPDX-License-Identifier: Apache-2.0

package crsf

import "encoding/binary"

// BatteryTelemetry carries battery sensor data.
type BatteryTelemetry struct {
	Voltage   uint16 // decivolts
	Current   uint16 // deciamps
	Capacity  uint32 // mAh, 24 bits on the wire
	Remaining uint8  // percent
}

// Pack serializes battery telemetry to its 8-byte big-endian wire layout.
// Capacity occupies three bytes; the top byte of the host value is dropped.
func (b BatteryTelemetry) Pack() []byte {
	out := make([]byte, BatteryPayloadSize)
	binary.BigEndian.PutUint16(out[0:2], b.Voltage)
	binary.BigEndian.PutUint16(out[2:4], b.Current)
	out[4] = byte(b.Capacity >> 16)
	out[5] = byte(b.Capacity >> 8)
	out[6] = byte(b.Capacity)
	out[7] = b.Remaining
	return out
}

// UnpackBattery parses an 8-byte battery payload.
func UnpackBattery(payload []byte) (BatteryTelemetry, error) {
	var b BatteryTelemetry
	if len(payload) != BatteryPayloadSize {
		return b, &PayloadSizeError{Type: TypeBattery, Size: len(payload)}
	}
	b.Voltage = binary.BigEndian.Uint16(payload[0:2])
	b.Current = binary.BigEndian.Uint16(payload[2:4])
	b.Capacity = uint32(payload[4])<<16 | uint32(payload[5])<<8 | uint32(payload[6])
	b.Remaining = payload[7]
	return b, nil
}

// GPSTelemetry carries GPS fix data.
type GPSTelemetry struct {
	Latitude    int32  // degrees * 1e7
	Longitude   int32  // degrees * 1e7
	Groundspeed uint16 // km/h * 10
	Heading     uint16 // degrees * 100
	Altitude    uint16 // meters, offset +1000
	Satellites  uint8
}

// Pack serializes GPS telemetry to its 15-byte big-endian wire layout.
func (g GPSTelemetry) Pack() []byte {
	out := make([]byte, GPSPayloadSize)
	binary.BigEndian.PutUint32(out[0:4], uint32(g.Latitude))
	binary.BigEndian.PutUint32(out[4:8], uint32(g.Longitude))
	binary.BigEndian.PutUint16(out[8:10], g.Groundspeed)
	binary.BigEndian.PutUint16(out[10:12], g.Heading)
	binary.BigEndian.PutUint16(out[12:14], g.Altitude)
	out[14] = g.Satellites
	return out
}

// UnpackGPS parses a 15-byte GPS payload.
func UnpackGPS(payload []byte) (GPSTelemetry, error) {
	var g GPSTelemetry
	if len(payload) != GPSPayloadSize {
		return g, &PayloadSizeError{Type: TypeGPS, Size: len(payload)}
	}
	g.Latitude = int32(binary.BigEndian.Uint32(payload[0:4]))
	g.Longitude = int32(binary.BigEndian.Uint32(payload[4:8]))
	g.Groundspeed = binary.BigEndian.Uint16(payload[8:10])
	g.Heading = binary.BigEndian.Uint16(payload[10:12])
	g.Altitude = binary.BigEndian.Uint16(payload[12:14])
	g.Satellites = payload[14]
	return g, nil
}

// RPMTelemetry carries motor RPM readings. Negative values mean the motor is
// spinning in reverse.
type RPMTelemetry struct {
	SourceID uint8
	Values   []int32
}

// Pack serializes RPM telemetry: source id followed by one sign-extended
// big-endian 24-bit triplet per value. Entries beyond MaxRPMValues are
// dropped.
func (r RPMTelemetry) Pack() []byte {
	values := r.Values
	if len(values) > MaxRPMValues {
		values = values[:MaxRPMValues]
	}
	out := make([]byte, 0, 1+len(values)*rpmValueSize)
	out = append(out, r.SourceID)
	for _, v := range values {
		out = append(out, byte(v>>16), byte(v>>8), byte(v))
	}
	return out
}

// UnpackRPM parses an RPM payload, sign-extending each 24-bit value from
// bit 23.
func UnpackRPM(payload []byte) (RPMTelemetry, error) {
	var r RPMTelemetry
	n := (len(payload) - 1) / rpmValueSize
	if len(payload) < 1+rpmValueSize || (len(payload)-1)%rpmValueSize != 0 || n > MaxRPMValues {
		return r, &PayloadSizeError{Type: TypeRPM, Size: len(payload)}
	}
	r.SourceID = payload[0]
	r.Values = make([]int32, 0, n)
	for i := 1; i < len(payload); i += rpmValueSize {
		raw := uint32(payload[i])<<16 | uint32(payload[i+1])<<8 | uint32(payload[i+2])
		if raw&0x800000 != 0 {
			raw |= 0xFF000000
		}
		r.Values = append(r.Values, int32(raw))
	}
	return r, nil
}

// TempTelemetry carries temperature readings in deci-degrees Celsius.
type TempTelemetry struct {
	SourceID uint8
	Values   []int16
}

// Pack serializes temperature telemetry: source id followed by one
// big-endian int16 per value. Entries beyond MaxTempValues are dropped.
func (t TempTelemetry) Pack() []byte {
	values := t.Values
	if len(values) > MaxTempValues {
		values = values[:MaxTempValues]
	}
	out := make([]byte, 0, 1+len(values)*tempValueSize)
	out = append(out, t.SourceID)
	for _, v := range values {
		out = append(out, byte(uint16(v)>>8), byte(uint16(v)))
	}
	return out
}

// UnpackTemp parses a temperature payload.
func UnpackTemp(payload []byte) (TempTelemetry, error) {
	var t TempTelemetry
	n := (len(payload) - 1) / tempValueSize
	if len(payload) < 1+tempValueSize || (len(payload)-1)%tempValueSize != 0 || n > MaxTempValues {
		return t, &PayloadSizeError{Type: TypeTemperature, Size: len(payload)}
	}
	t.SourceID = payload[0]
	t.Values = make([]int16, 0, n)
	for i := 1; i < len(payload); i += tempValueSize {
		t.Values = append(t.Values, int16(uint16(payload[i])<<8|uint16(payload[i+1])))
	}
	return t, nil
}

// LinkStatistics carries the receiver's RF link quality report. All fields
// are single bytes; RSSI values are dBm * -1.
type LinkStatistics struct {
	UplinkRSSIAnt1  uint8
	UplinkRSSIAnt2  uint8
	UplinkQuality   uint8 // packet success rate, percent
	UplinkSNR       int8  // dB
	ActiveAntenna   uint8
	RFProfile       uint8 // 0=4fps, 1=50fps, 2=150fps
	UplinkTXPower   uint8 // 0=0mW, 1=10mW, 2=25mW, 3=100mW
	DownlinkRSSI    uint8
	DownlinkQuality uint8
	DownlinkSNR     int8
}

// Pack serializes link statistics to the 10-byte wire layout.
func (s LinkStatistics) Pack() []byte {
	return []byte{
		s.UplinkRSSIAnt1,
		s.UplinkRSSIAnt2,
		s.UplinkQuality,
		byte(s.UplinkSNR),
		s.ActiveAntenna,
		s.RFProfile,
		s.UplinkTXPower,
		s.DownlinkRSSI,
		s.DownlinkQuality,
		byte(s.DownlinkSNR),
	}
}

// UnpackLinkStatistics parses a 10-byte link statistics payload.
func UnpackLinkStatistics(payload []byte) (LinkStatistics, error) {
	var s LinkStatistics
	if len(payload) != LinkStatsPayloadSize {
		return s, &PayloadSizeError{Type: TypeLinkStatistics, Size: len(payload)}
	}
	s.UplinkRSSIAnt1 = payload[0]
	s.UplinkRSSIAnt2 = payload[1]
	s.UplinkQuality = payload[2]
	s.UplinkSNR = int8(payload[3])
	s.ActiveAntenna = payload[4]
	s.RFProfile = payload[5]
	s.UplinkTXPower = payload[6]
	s.DownlinkRSSI = payload[7]
	s.DownlinkQuality = payload[8]
	s.DownlinkSNR = int8(payload[9])
	return s, nil
}
