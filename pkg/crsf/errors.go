// SPDX-License-Identifier: Apache-2.0

package crsf

import "fmt"

// FramingKind classifies recoverable wire-level faults.
type FramingKind int

// Framing fault kinds
const (
	FramingBadLength FramingKind = iota
	FramingChecksum
)

// FramingError reports a recoverable fault while recovering frame boundaries
// from the byte stream. The decoder has already discarded the offending bytes
// and resynchronized; the error exists so callers can count or log it.
type FramingError struct {
	Kind FramingKind
	msg  string
}

func (e *FramingError) Error() string {
	return e.msg
}

func badLengthError(length uint8) *FramingError {
	return &FramingError{
		Kind: FramingBadLength,
		msg:  fmt.Sprintf("invalid frame length %d (valid %d-%d)", length, MinFrameLength, MaxFrameLength),
	}
}

func checksumError(want, got byte) *FramingError {
	return &FramingError{
		Kind: FramingChecksum,
		msg:  fmt.Sprintf("checksum mismatch: expected 0x%02X, got 0x%02X", want, got),
	}
}

// EncodingLimitError reports a payload that cannot fit in a single frame.
type EncodingLimitError struct {
	Size  int
	Limit int
}

func (e *EncodingLimitError) Error() string {
	return fmt.Sprintf("payload too large: %d bytes (max %d)", e.Size, e.Limit)
}

// PayloadSizeError reports a payload whose length does not match its frame
// type's wire layout.
type PayloadSizeError struct {
	Type FrameType
	Size int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("invalid payload size %d for frame type 0x%02X", e.Size, uint8(e.Type))
}
