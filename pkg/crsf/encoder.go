package crsf

// EncodeFrame builds a complete wire frame around the given payload:
// destination, length byte, type, payload, CRC8 over type + payload.
// It returns an error instead of writing a partial frame when the payload
// cannot fit.
func EncodeFrame(dest Destination, frameType FrameType, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, &EncodingLimitError{Size: len(payload), Limit: MaxPayloadSize}
	}

	frame := make([]byte, 0, len(payload)+4)
	frame = append(frame, byte(dest), byte(len(payload)+2), byte(frameType))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(frame[2:]))
	return frame, nil
}

// Encode serializes the frame to wire format.
func (f *Frame) Encode() ([]byte, error) {
	return EncodeFrame(f.dest, f.frameType, f.payload)
}
