// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestLink wires a Link to one end of an in-memory pipe and returns the
// other end for the test to play receiver on.
func startTestLink(t *testing.T, cfg LinkConfig) (*Link, net.Conn) {
	t.Helper()
	local, remote := net.Pipe()
	link := NewLink(local, cfg)
	link.Start()
	t.Cleanup(func() {
		local.Close()
		remote.Close()
		link.Close()
		<-link.Done()
	})
	return link, remote
}

func writeWire(t *testing.T, conn net.Conn, wire []byte) {
	t.Helper()
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err := conn.Write(wire)
	require.NoError(t, err)
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestLink_InitialState(t *testing.T) {
	link, _ := startTestLink(t, LinkConfig{})

	assert.Equal(t, ChannelData{}, link.Channels())
	assert.Equal(t, LinkStatistics{}, link.LinkStats())
	assert.True(t, link.Failsafe(), "failsafe should hold before any frame")
}

func TestLink_ChannelsUpdateAndFailsafeClear(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	c := ChannelData{172, 992, 1811, 992, 172, 172, 172, 172, 992, 992, 992, 992, 1024, 1024, 1024, 1024}
	wire, err := EncodeFrame(DestFlightController, TypeRCChannels, c.Pack())
	require.NoError(t, err)
	writeWire(t, remote, wire)

	waitFor(t, func() bool { return link.Channels() == c }, "channel data never reached the store")
	assert.False(t, link.Failsafe(), "failsafe should clear after a valid channels frame")
	assert.Equal(t, uint64(1), link.Stats().ChannelFrames)
}

func TestLink_LinkStatsUpdate(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	s := LinkStatistics{UplinkRSSIAnt1: 55, UplinkQuality: 97, UplinkSNR: -2, DownlinkRSSI: 60}
	wire, err := EncodeFrame(DestFlightController, TypeLinkStatistics, s.Pack())
	require.NoError(t, err)
	writeWire(t, remote, wire)

	waitFor(t, func() bool { return link.LinkStats() == s }, "link statistics never reached the store")
	assert.True(t, link.Failsafe(), "link statistics must not clear failsafe")
}

func TestLink_FailsafeLifecycle(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{FailsafeTimeout: 80 * time.Millisecond})

	var c ChannelData
	wire, err := EncodeFrame(DestFlightController, TypeRCChannels, c.Pack())
	require.NoError(t, err)

	writeWire(t, remote, wire)
	waitFor(t, func() bool { return !link.Failsafe() }, "failsafe never cleared")

	time.Sleep(200 * time.Millisecond)
	assert.True(t, link.Failsafe(), "failsafe should trip after channel frames stop")

	writeWire(t, remote, wire)
	waitFor(t, func() bool { return !link.Failsafe() }, "failsafe never recovered")
}

func TestLink_CorruptFrameDoesNotUpdateState(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	c := ChannelData{500, 600, 700}
	wire, err := EncodeFrame(DestFlightController, TypeRCChannels, c.Pack())
	require.NoError(t, err)
	corrupt := append([]byte{}, wire...)
	corrupt[len(corrupt)-1] ^= 0x01
	writeWire(t, remote, corrupt)

	waitFor(t, func() bool { return link.Stats().ChecksumErrors == 1 }, "checksum error never counted")
	assert.Equal(t, ChannelData{}, link.Channels(), "corrupt frame must not update the store")
	assert.True(t, link.Failsafe())

	// The loop keeps decoding afterwards.
	writeWire(t, remote, wire)
	waitFor(t, func() bool { return link.Channels() == c }, "link did not recover after corrupt frame")
}

func TestLink_UnhandledTypeCallback(t *testing.T) {
	var mu sync.Mutex
	var seen []FrameType
	link, remote := startTestLink(t, LinkConfig{
		OnFrame: func(f *Frame) {
			mu.Lock()
			seen = append(seen, f.Type())
			mu.Unlock()
		},
	})

	wire, err := EncodeFrame(DestFlightController, TypeAttitude, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})
	require.NoError(t, err)
	writeWire(t, remote, wire)

	waitFor(t, func() bool { return link.Stats().UnhandledFrames == 1 }, "unhandled frame never counted")
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, TypeAttitude, seen[0])
}

func TestLink_SendBattery(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	b := BatteryTelemetry{Voltage: 168, Current: 45, Capacity: 2200, Remaining: 76}
	errCh := make(chan error, 1)
	go func() { errCh <- link.SendBattery(DestFlightController, b) }()

	buf := make([]byte, MaxFrameSize)
	remote.SetReadDeadline(time.Now().Add(time.Second))
	n, err := remote.Read(buf)
	require.NoError(t, err)
	require.NoError(t, <-errCh)

	dec := NewDecoder()
	dec.Push(buf[:n])
	frame, err := dec.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, TypeBattery, frame.Type())
	assert.Equal(t, DestFlightController, frame.Destination())

	decoded, err := UnpackBattery(frame.Payload())
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestLink_SendRPMTruncates(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	values := make([]int32, 25)
	for i := range values {
		values[i] = int32(1000 + i)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- link.SendRPM(DestRadioTransmitter, 1, values) }()

	buf := make([]byte, MaxFrameSize)
	remote.SetReadDeadline(time.Now().Add(time.Second))
	n, err := remote.Read(buf)
	require.NoError(t, err)
	require.NoError(t, <-errCh)

	dec := NewDecoder()
	dec.Push(buf[:n])
	frame, err := dec.Next()
	require.NoError(t, err)
	require.NotNil(t, frame)

	decoded, err := UnpackRPM(frame.Payload())
	require.NoError(t, err)
	assert.Len(t, decoded.Values, MaxRPMValues)
	assert.Equal(t, values[:MaxRPMValues], decoded.Values)
}

func TestLink_SendFailsAfterClose(t *testing.T) {
	local, remote := net.Pipe()
	link := NewLink(local, LinkConfig{})
	link.Start()
	remote.Close()
	local.Close()
	<-link.Done()

	err := link.SendGPS(DestFlightController, GPSTelemetry{Satellites: 5})
	assert.Error(t, err, "writes on a dead connection must surface to the caller")
}

func TestLink_ConcurrentReaders(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = link.Channels()
					_ = link.LinkStats()
					_ = link.Failsafe()
				}
			}
		}()
	}

	c := ChannelData{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	wire, err := EncodeFrame(DestFlightController, TypeRCChannels, c.Pack())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		writeWire(t, remote, wire)
	}

	waitFor(t, func() bool { return link.Stats().ChannelFrames == 50 }, "not all frames decoded")
	close(stop)
	wg.Wait()
	assert.Equal(t, c, link.Channels())
}

func TestLink_StartIdempotent(t *testing.T) {
	link, remote := startTestLink(t, LinkConfig{})
	link.Start()
	link.Start()

	var c ChannelData
	wire, err := EncodeFrame(DestFlightController, TypeRCChannels, c.Pack())
	require.NoError(t, err)
	writeWire(t, remote, wire)
	waitFor(t, func() bool { return link.Stats().ChannelFrames == 1 }, "frame never decoded")
}
