// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Statistics tracks frame and error counters for one link. All methods are
// safe for concurrent use.
type Statistics struct {
	mu        sync.Mutex
	startTime time.Time

	channelFrames   uint64
	linkStatsFrames uint64
	unhandledFrames uint64
	checksumErrors  uint64
	lengthErrors    uint64
	payloadErrors   uint64
}

// StatsSnapshot is a point-in-time copy of the counters with rates
// calculated.
type StatsSnapshot struct {
	StartTime time.Time

	ChannelFrames   uint64
	LinkStatsFrames uint64
	UnhandledFrames uint64
	ChecksumErrors  uint64
	LengthErrors    uint64
	PayloadErrors   uint64

	FrameRate float64 // accepted frames/sec
	ErrorRate float64 // errors/sec
}

// RecordFrame counts one accepted frame of the given type.
func (s *Statistics) RecordFrame(frameType FrameType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	switch frameType {
	case TypeRCChannels:
		s.channelFrames++
	case TypeLinkStatistics:
		s.linkStatsFrames++
	default:
		s.unhandledFrames++
	}
}

// RecordUnhandled counts one frame of a type this core does not consume.
func (s *Statistics) RecordUnhandled(FrameType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.unhandledFrames++
}

// RecordFramingError classifies and counts a decoder error.
func (s *Statistics) RecordFramingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	var fe *FramingError
	if errors.As(err, &fe) && fe.Kind == FramingChecksum {
		s.checksumErrors++
		return
	}
	s.lengthErrors++
}

// RecordPayloadError counts a frame whose payload did not match its type's
// wire layout.
func (s *Statistics) RecordPayloadError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.payloadErrors++
}

// Reset zeroes all counters.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Time{}
	s.channelFrames = 0
	s.linkStatsFrames = 0
	s.unhandledFrames = 0
	s.checksumErrors = 0
	s.lengthErrors = 0
	s.payloadErrors = 0
}

// Snapshot returns a copy of the counters with rates calculated.
func (s *Statistics) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := StatsSnapshot{
		StartTime:       s.startTime,
		ChannelFrames:   s.channelFrames,
		LinkStatsFrames: s.linkStatsFrames,
		UnhandledFrames: s.unhandledFrames,
		ChecksumErrors:  s.checksumErrors,
		LengthErrors:    s.lengthErrors,
		PayloadErrors:   s.payloadErrors,
	}
	if !s.startTime.IsZero() {
		elapsed := time.Since(s.startTime).Seconds()
		if elapsed > 0 {
			accepted := out.ChannelFrames + out.LinkStatsFrames + out.UnhandledFrames
			errs := out.ChecksumErrors + out.LengthErrors + out.PayloadErrors
			out.FrameRate = float64(accepted) / elapsed
			out.ErrorRate = float64(errs) / elapsed
		}
	}
	return out
}

func (s *Statistics) touch() {
	if s.startTime.IsZero() {
		s.startTime = time.Now()
	}
}

// Errors returns the total error count in the snapshot.
func (ss StatsSnapshot) Errors() uint64 {
	return ss.ChecksumErrors + ss.LengthErrors + ss.PayloadErrors
}

// String returns a formatted statistics summary.
func (ss StatsSnapshot) String() string {
	result := "=== Link Statistics ===\n"
	result += fmt.Sprintf("Channel Frames:  %8d\n", ss.ChannelFrames)
	result += fmt.Sprintf("Link Stats:      %8d\n", ss.LinkStatsFrames)
	result += fmt.Sprintf("Other Frames:    %8d\n", ss.UnhandledFrames)
	if ss.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d\n", ss.ChecksumErrors)
	}
	if ss.LengthErrors > 0 {
		result += fmt.Sprintf("Length Errors:   %8d\n", ss.LengthErrors)
	}
	if ss.PayloadErrors > 0 {
		result += fmt.Sprintf("Payload Errors:  %8d\n", ss.PayloadErrors)
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", ss.FrameRate)
	if ss.Errors() > 0 {
		result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", ss.ErrorRate)
	}
	result += "=======================\n"
	return result
}
