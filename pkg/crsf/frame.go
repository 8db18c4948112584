// SPDX-License-Identifier: Apache-2.0

package crsf

import "time"

// Frame represents one decoded protocol frame
type Frame struct {
	dest      Destination
	frameType FrameType
	payload   []byte
	timestamp time.Time
}

// NewFrame creates a frame with the given fields. The payload is used as-is,
// not copied.
func NewFrame(dest Destination, frameType FrameType, payload []byte) *Frame {
	return &Frame{
		dest:      dest,
		frameType: frameType,
		payload:   payload,
		timestamp: time.Now(),
	}
}

// Destination returns the frame's address byte
func (f *Frame) Destination() Destination {
	return f.dest
}

// Type returns the frame's type byte
func (f *Frame) Type() FrameType {
	return f.frameType
}

// Payload returns the frame's payload bytes
func (f *Frame) Payload() []byte {
	return f.payload
}

// Length returns the wire length byte: type + payload + checksum count
func (f *Frame) Length() uint8 {
	return uint8(len(f.payload) + 2)
}

// Timestamp returns the frame's decode timestamp
func (f *Frame) Timestamp() time.Time {
	return f.timestamp
}
