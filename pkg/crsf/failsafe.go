// SPDX-License-Identifier: Apache-2.0

package crsf

import (
	"sync"
	"sync/atomic"
	"time"
)

// FailsafeMonitor is a resettable watchdog that flags loss of valid channel
// data. It starts in failsafe (nothing received yet), leaves it on the first
// valid channel frame, and re-enters it when no frame arrives within the
// timeout window. The flag is a single atomic bool, safe to query from any
// goroutine.
type FailsafeMonitor struct {
	mu        sync.Mutex
	timeout   time.Duration
	timer     *time.Timer
	lastFrame time.Time
	failsafe  atomic.Bool
}

// NewFailsafeMonitor creates a monitor with the given timeout window.
// A non-positive timeout selects DefaultFailsafeTimeout.
func NewFailsafeMonitor(timeout time.Duration) *FailsafeMonitor {
	if timeout <= 0 {
		timeout = DefaultFailsafeTimeout
	}
	m := &FailsafeMonitor{timeout: timeout}
	m.failsafe.Store(true)
	m.timer = time.AfterFunc(timeout, m.expire)
	return m
}

// FrameReceived records a valid channel frame: clears the failsafe flag and
// re-arms the watchdog. The timer is reset, not recreated.
func (m *FailsafeMonitor) FrameReceived() {
	m.mu.Lock()
	m.lastFrame = time.Now()
	m.failsafe.Store(false)
	m.timer.Reset(m.timeout)
	m.mu.Unlock()
}

// Failsafe reports whether the link is considered lost.
func (m *FailsafeMonitor) Failsafe() bool {
	return m.failsafe.Load()
}

// Stop disarms the watchdog. The flag keeps its last value.
func (m *FailsafeMonitor) Stop() {
	m.mu.Lock()
	m.timer.Stop()
	m.mu.Unlock()
}

func (m *FailsafeMonitor) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	// A frame may have arrived between the timer firing and this callback
	// taking the lock; only trip when the window truly elapsed.
	elapsed := time.Since(m.lastFrame)
	if m.lastFrame.IsZero() || elapsed >= m.timeout {
		m.failsafe.Store(true)
		return
	}
	m.timer.Reset(m.timeout - elapsed)
}
