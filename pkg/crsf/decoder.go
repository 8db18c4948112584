// SPDX-License-Identifier: Apache-2.0

package crsf

// Decoder recovers frame boundaries from a raw byte stream. Bytes arrive via
// Push in arbitrary chunks: a chunk may hold a partial frame, several frames,
// or garbage between frames. The cursor state survives across calls, so a
// frame split over any number of reads is reassembled without loss.
type Decoder struct {
	buf     []byte
	verify  bool
	dropped uint64
}

// NewDecoder creates a decoder with checksum verification enabled.
func NewDecoder() *Decoder {
	return &Decoder{
		buf:    make([]byte, 0, MaxFrameSize*2),
		verify: true,
	}
}

// SetChecksumVerify controls frame checksum validation. Verification is on by
// default; turning it off reproduces the permissive behavior of receivers
// that trust the link.
func (d *Decoder) SetChecksumVerify(verify bool) {
	d.verify = verify
}

// Reset discards all buffered bytes and returns to seeking sync.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

// Buffered returns the number of bytes held while waiting for a complete frame.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// DroppedBytes returns the count of bytes discarded while seeking sync.
func (d *Decoder) DroppedBytes() uint64 {
	return d.dropped
}

// Push appends raw bytes from the stream to the decoder's cursor.
func (d *Decoder) Push(p []byte) {
	d.buf = append(d.buf, p...)
}

// Next attempts to extract one frame from the buffered bytes.
//
// It returns (frame, nil) when a valid frame was decoded, (nil, nil) when
// more bytes are needed, and (nil, *FramingError) when malformed input was
// discarded. After an error the decoder has already resynchronized; callers
// should simply call Next again.
func (d *Decoder) Next() (*Frame, error) {
	// Seek a recognized destination byte; everything before it is noise.
	start := 0
	for start < len(d.buf) && !recognizedDestination(d.buf[start]) {
		start++
	}
	if start > 0 {
		d.dropped += uint64(start)
		d.buf = d.buf[start:]
	}

	if len(d.buf) < 2 {
		return nil, nil
	}

	length := d.buf[1]
	if length < MinFrameLength || length > MaxFrameLength {
		// Desync: the sync byte was a payload byte of some other frame.
		// Drop it and rescan from the next byte.
		d.dropped++
		d.buf = d.buf[1:]
		return nil, badLengthError(length)
	}

	// type + payload + checksum not fully buffered yet
	total := int(length) + 2
	if len(d.buf) < total {
		return nil, nil
	}

	body := d.buf[2 : total-1] // type + payload
	want := d.buf[total-1]
	if d.verify {
		if got := Checksum(body); got != want {
			d.buf = d.buf[total:]
			return nil, checksumError(want, got)
		}
	}

	payload := make([]byte, len(body)-1)
	copy(payload, body[1:])
	frame := NewFrame(Destination(d.buf[0]), FrameType(body[0]), payload)
	d.buf = d.buf[total:]
	return frame, nil
}

func recognizedDestination(b byte) bool {
	switch Destination(b) {
	case DestFlightController, DestRadioTransmitter:
		return true
	}
	return false
}
