// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// LinkConfig configures a Link. The zero value is usable: default failsafe
// timeout, checksum verification on, logging discarded.
type LinkConfig struct {
	// FailsafeTimeout is the watchdog window for channel data.
	// Zero selects DefaultFailsafeTimeout.
	FailsafeTimeout time.Duration

	// SkipChecksumVerify disables frame checksum validation, matching
	// receivers that trust the link. Leave false unless strict wire
	// compatibility with such firmware is required.
	SkipChecksumVerify bool

	// OnFrame, when set, receives every decoded frame the Link does not
	// consume itself (telemetry echoed back, unrecognized types).
	OnFrame func(*Frame)

	// Logger receives receive-loop diagnostics. Nil discards them.
	Logger *log.Logger
}

// Link drives one CRSF connection: it runs the receive loop, owns the most
// recently accepted channel and link-statistics frames, monitors failsafe,
// and encodes outbound telemetry. All accessors and Send methods may be
// called concurrently; callers always receive copies of the stored state.
type Link struct {
	conn io.ReadWriter
	dec  *Decoder
	fs   *FailsafeMonitor
	log  *log.Logger

	onFrame func(*Frame)

	mu        sync.Mutex // guards channels and linkStats
	channels  ChannelData
	linkStats LinkStatistics

	wmu sync.Mutex // serializes writes to conn

	stats Statistics

	startOnce sync.Once
	done      chan struct{}
}

// NewLink creates a Link over the given connection. The receive loop does
// not run until Start is called.
func NewLink(conn io.ReadWriter, cfg LinkConfig) *Link {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dec := NewDecoder()
	dec.SetChecksumVerify(!cfg.SkipChecksumVerify)
	return &Link{
		conn:    conn,
		dec:     dec,
		fs:      NewFailsafeMonitor(cfg.FailsafeTimeout),
		log:     logger,
		onFrame: cfg.OnFrame,
		done:    make(chan struct{}),
	}
}

// Start launches the receive loop goroutine. Calling Start more than once
// has no effect.
func (l *Link) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

// Done is closed when the receive loop has exited.
func (l *Link) Done() <-chan struct{} {
	return l.done
}

// Close stops the failsafe watchdog and closes the connection if it
// implements io.Closer, which in turn ends the receive loop.
func (l *Link) Close() error {
	l.fs.Stop()
	if c, ok := l.conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Channels returns a copy of the most recently received channel data.
// All-zero until the first valid channels frame arrives.
func (l *Link) Channels() ChannelData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channels
}

// LinkStats returns a copy of the most recently received link statistics.
func (l *Link) LinkStats() LinkStatistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.linkStats
}

// Failsafe reports whether valid channel data has stopped arriving.
func (l *Link) Failsafe() bool {
	return l.fs.Failsafe()
}

// Stats returns a snapshot of the link's frame counters.
func (l *Link) Stats() StatsSnapshot {
	return l.stats.Snapshot()
}

// SendBattery encodes and writes a battery telemetry frame.
func (l *Link) SendBattery(dest Destination, b BatteryTelemetry) error {
	return l.send(dest, TypeBattery, b.Pack())
}

// SendGPS encodes and writes a GPS telemetry frame.
func (l *Link) SendGPS(dest Destination, g GPSTelemetry) error {
	return l.send(dest, TypeGPS, g.Pack())
}

// SendRPM encodes and writes an RPM telemetry frame. Values beyond
// MaxRPMValues are dropped.
func (l *Link) SendRPM(dest Destination, sourceID uint8, values []int32) error {
	return l.send(dest, TypeRPM, RPMTelemetry{SourceID: sourceID, Values: values}.Pack())
}

// SendTemperature encodes and writes a temperature telemetry frame. Values
// beyond MaxTempValues are dropped.
func (l *Link) SendTemperature(dest Destination, t TempTelemetry) error {
	return l.send(dest, TypeTemperature, t.Pack())
}

// SendChannels encodes and writes an RC channels frame.
func (l *Link) SendChannels(dest Destination, c ChannelData) error {
	return l.send(dest, TypeRCChannels, c.Pack())
}

func (l *Link) send(dest Destination, frameType FrameType, payload []byte) error {
	frame, err := EncodeFrame(dest, frameType, payload)
	if err != nil {
		return err
	}
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if _, err := l.conn.Write(frame); err != nil {
		return err
	}
	return nil
}

// run is the receive loop. It blocks on the connection, feeds the decoder
// and dispatches frames until the connection reports an error. Malformed
// input is counted and logged, never fatal.
func (l *Link) run() {
	defer close(l.done)

	buf := make([]byte, 256)
	for {
		n, err := l.conn.Read(buf)
		if n > 0 {
			l.dec.Push(buf[:n])
			l.drain()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.log.Error("read failed", "err", err)
			}
			return
		}
	}
}

func (l *Link) drain() {
	for {
		frame, err := l.dec.Next()
		if err != nil {
			l.stats.RecordFramingError(err)
			l.log.Debug("frame discarded", "err", err)
			continue
		}
		if frame == nil {
			return
		}
		l.dispatch(frame)
	}
}

func (l *Link) dispatch(frame *Frame) {
	switch frame.Type() {
	case TypeRCChannels:
		channels, err := UnpackChannels(frame.Payload())
		if err != nil {
			l.stats.RecordPayloadError()
			l.log.Debug("bad channels payload", "err", err)
			return
		}
		l.mu.Lock()
		l.channels = channels
		l.mu.Unlock()
		l.fs.FrameReceived()
		l.stats.RecordFrame(frame.Type())

	case TypeLinkStatistics:
		stats, err := UnpackLinkStatistics(frame.Payload())
		if err != nil {
			l.stats.RecordPayloadError()
			l.log.Debug("bad link statistics payload", "err", err)
			return
		}
		l.mu.Lock()
		l.linkStats = stats
		l.mu.Unlock()
		l.stats.RecordFrame(frame.Type())

	default:
		l.stats.RecordUnhandled(frame.Type())
		if l.onFrame != nil {
			l.onFrame(frame)
		}
	}
}
