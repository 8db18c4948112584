// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// FrameRecord is the on-disk form of one captured frame: a CBOR map with
// integer keys, written as a self-delimiting stream so captures can be
// appended and replayed without an index.
type FrameRecord struct {
	Timestamp   time.Time `cbor:"1,keyasint"`
	Destination uint8     `cbor:"2,keyasint"`
	Type        uint8     `cbor:"3,keyasint"`
	Payload     []byte    `cbor:"4,keyasint"`
}

// CaptureWriter appends decoded frames to a CBOR capture stream.
type CaptureWriter struct {
	enc *cbor.Encoder
}

// NewCaptureWriter creates a capture writer over w.
func NewCaptureWriter(w io.Writer) *CaptureWriter {
	return &CaptureWriter{enc: cbor.NewEncoder(w)}
}

// WriteFrame appends one frame to the capture.
func (cw *CaptureWriter) WriteFrame(f *Frame) error {
	rec := FrameRecord{
		Timestamp:   f.timestamp,
		Destination: uint8(f.dest),
		Type:        uint8(f.frameType),
		Payload:     f.payload,
	}
	if err := cw.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode frame record: %w", err)
	}
	return nil
}

// CaptureReader reads frames back from a CBOR capture stream.
type CaptureReader struct {
	dec *cbor.Decoder
}

// NewCaptureReader creates a capture reader over r.
func NewCaptureReader(r io.Reader) *CaptureReader {
	return &CaptureReader{dec: cbor.NewDecoder(r)}
}

// ReadFrame reads the next captured frame. It returns io.EOF at the end of
// the stream.
func (cr *CaptureReader) ReadFrame() (*Frame, error) {
	var rec FrameRecord
	if err := cr.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode frame record: %w", err)
	}
	f := NewFrame(Destination(rec.Destination), FrameType(rec.Type), rec.Payload)
	f.timestamp = rec.Timestamp
	return f, nil
}
