// SPDX-License-Identifier: Apache-2.0

package crsf

// ChannelData holds 16 RC channel values, 11 bits each. Position is channel
// number; which channel carries which control depends on transmitter setup.
type ChannelData [ChannelCount]uint16

// Pack serializes the channels into the 22-byte wire payload: 16 contiguous
// 11-bit fields, least significant bits first, no byte alignment between
// channels. Values above ChannelMax are clamped.
func (c ChannelData) Pack() []byte {
	out := make([]byte, 0, ChannelsPayloadSize)
	var acc uint32
	var bits uint
	for _, v := range c {
		if v > ChannelMax {
			v = ChannelMax
		}
		acc |= uint32(v) << bits
		bits += 11
		for bits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			bits -= 8
		}
	}
	return out
}

// UnpackChannels parses a 22-byte channels payload.
func UnpackChannels(payload []byte) (ChannelData, error) {
	var c ChannelData
	if len(payload) != ChannelsPayloadSize {
		return c, &PayloadSizeError{Type: TypeRCChannels, Size: len(payload)}
	}

	var acc uint32
	var bits uint
	idx := 0
	for n := 0; n < ChannelCount; n++ {
		for bits < 11 {
			acc |= uint32(payload[idx]) << bits
			idx++
			bits += 8
		}
		c[n] = uint16(acc & ChannelMax)
		acc >>= 11
		bits -= 11
	}
	return c, nil
}
