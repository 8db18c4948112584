// SPDX-License-Identifier: Apache-2.0

package crsf

import "fmt"

// AnomalyType represents different types of frame anomalies
type AnomalyType int

const (
	AnomalyLengthMismatch AnomalyType = iota
	AnomalyInvalidValue
	AnomalyLowQuality
)

// ValidationError represents a frame validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateFrame validates frame payload structure and detects anomalous
// field values. The frame has already passed the checksum; returns an empty
// slice when nothing is wrong.
func ValidateFrame(f *Frame) []ValidationError {
	switch f.frameType {
	case TypeRCChannels:
		return validateFixedSize(f, ChannelsPayloadSize)
	case TypeBattery:
		return validateBattery(f)
	case TypeGPS:
		return validateGPS(f)
	case TypeLinkStatistics:
		return validateLinkStatistics(f)
	case TypeRPM:
		return validateCountedPayload(f, rpmValueSize, MaxRPMValues)
	case TypeTemperature:
		return validateCountedPayload(f, tempValueSize, MaxTempValues)
	}
	return nil
}

func lengthMismatch(f *Frame, expected string) []ValidationError {
	return []ValidationError{{
		Type:    AnomalyLengthMismatch,
		Message: fmt.Sprintf("%s payload length %d (expected %s)", FormatFrameType(f.frameType), len(f.payload), expected),
		Details: map[string]interface{}{"length": len(f.payload), "expected": expected},
	}}
}

func validateFixedSize(f *Frame, size int) []ValidationError {
	if len(f.payload) != size {
		return lengthMismatch(f, fmt.Sprintf("%d", size))
	}
	return nil
}

func validateBattery(f *Frame) []ValidationError {
	if errs := validateFixedSize(f, BatteryPayloadSize); errs != nil {
		return errs
	}
	b, _ := UnpackBattery(f.payload)
	if b.Remaining > 100 {
		return []ValidationError{{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("battery remaining %d%% (max 100)", b.Remaining),
			Details: map[string]interface{}{"remaining": b.Remaining},
		}}
	}
	return nil
}

func validateGPS(f *Frame) []ValidationError {
	if errs := validateFixedSize(f, GPSPayloadSize); errs != nil {
		return errs
	}
	g, _ := UnpackGPS(f.payload)
	errors := []ValidationError{}
	if g.Latitude < -900000000 || g.Latitude > 900000000 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("latitude %d out of range", g.Latitude),
			Details: map[string]interface{}{"latitude": g.Latitude},
		})
	}
	if g.Longitude < -1800000000 || g.Longitude > 1800000000 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("longitude %d out of range", g.Longitude),
			Details: map[string]interface{}{"longitude": g.Longitude},
		})
	}
	if g.Satellites > 50 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("satellite count %d implausible", g.Satellites),
			Details: map[string]interface{}{"satellites": g.Satellites},
		})
	}
	return errors
}

func validateLinkStatistics(f *Frame) []ValidationError {
	if errs := validateFixedSize(f, LinkStatsPayloadSize); errs != nil {
		return errs
	}
	s, _ := UnpackLinkStatistics(f.payload)
	errors := []ValidationError{}
	if s.UplinkQuality > 100 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("uplink quality %d%% (max 100)", s.UplinkQuality),
			Details: map[string]interface{}{"uplink_quality": s.UplinkQuality},
		})
	}
	if s.DownlinkQuality > 100 {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("downlink quality %d%% (max 100)", s.DownlinkQuality),
			Details: map[string]interface{}{"downlink_quality": s.DownlinkQuality},
		})
	}
	if s.UplinkQuality <= 100 && s.UplinkQuality < 30 {
		errors = append(errors, ValidationError{
			Type:    AnomalyLowQuality,
			Message: fmt.Sprintf("uplink quality %d%% below 30%%", s.UplinkQuality),
			Details: map[string]interface{}{"uplink_quality": s.UplinkQuality},
		})
	}
	return errors
}

func validateCountedPayload(f *Frame, valueSize, maxValues int) []ValidationError {
	n := len(f.payload) - 1
	if n < valueSize || n%valueSize != 0 || n/valueSize > maxValues {
		return lengthMismatch(f, fmt.Sprintf("1+%d*N, N in [1,%d]", valueSize, maxValues))
	}
	return nil
}
