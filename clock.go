package sway

import (
	"math"
	"time"
)

// FrameInterval is the default frame clock cadence (60 Hz nominal).
const FrameInterval = 16 * time.Millisecond

// Clock is a monotonic microsecond time source. The counter wraps back to
// zero after MaxMicros.
type Clock interface {
	NowMicros() int64
	MaxMicros() int64
}

// TimerHandle identifies a scheduled repeating callback. The zero handle is
// never issued.
type TimerHandle uint64

// TimerService schedules repeating callbacks on the host's event loop.
// Callbacks are always delivered on the loop goroutine and never overlap.
// Cancel must be safe for handles that were already cancelled.
type TimerService interface {
	ScheduleRepeating(interval time.Duration, fn func()) TimerHandle
	Cancel(h TimerHandle)
}

// MonotonicClock reads the Go runtime's monotonic clock relative to the
// moment it was created.
type MonotonicClock struct {
	epoch time.Time
}

// NewMonotonicClock returns a clock whose zero is the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{epoch: time.Now()}
}

// NowMicros returns microseconds elapsed since the clock was created.
func (c *MonotonicClock) NowMicros() int64 {
	return time.Since(c.epoch).Microseconds()
}

// MaxMicros returns math.MaxInt64.
func (c *MonotonicClock) MaxMicros() int64 {
	return math.MaxInt64
}

// FrameClock drives an effect at a fixed cadence and converts the elapsed
// monotonic time between ticks into whole milliseconds.
//
// The clock is purely callback driven. Stop is idempotent and cancels the
// timer synchronously, so no tick can arrive after it returns.
type FrameClock struct {
	clock    Clock
	timers   TimerService
	interval time.Duration

	last    int64
	handle  TimerHandle
	onDelta func(deltaMs uint32)
}

// NewFrameClock creates a stopped frame clock. A non-positive interval
// selects FrameInterval.
func NewFrameClock(clock Clock, timers TimerService, interval time.Duration) *FrameClock {
	if clock == nil || timers == nil {
		panic("sway: frame clock needs a clock and a timer service")
	}
	if interval <= 0 {
		interval = FrameInterval
	}
	return &FrameClock{clock: clock, timers: timers, interval: interval}
}

// Start arms the periodic timer and records the current time. onDelta runs
// once per tick with a non-zero delta. Starting a running clock is a no-op.
func (c *FrameClock) Start(onDelta func(deltaMs uint32)) {
	if c.handle != 0 {
		return
	}
	c.onDelta = onDelta
	c.last = c.clock.NowMicros()
	c.handle = c.timers.ScheduleRepeating(c.interval, c.tick)
}

// Stop cancels the timer if one is armed.
func (c *FrameClock) Stop() {
	if c.handle == 0 {
		return
	}
	h := c.handle
	c.handle = 0
	c.onDelta = nil
	c.timers.Cancel(h)
}

// Running reports whether a timer is armed.
func (c *FrameClock) Running() bool {
	return c.handle != 0
}

// Interval returns the tick cadence.
func (c *FrameClock) Interval() time.Duration {
	return c.interval
}

// tick is the timer callback.
func (c *FrameClock) tick() {
	if c.handle == 0 {
		return
	}
	delta := c.advance()
	if delta == 0 {
		return
	}
	c.onDelta(delta)
}

// advance returns the whole milliseconds since the previous tick and moves
// the reference point forward. A counter that wrapped past MaxMicros is
// corrected by shifting the reference point down by the maximum.
func (c *FrameClock) advance() uint32 {
	now := c.clock.NowMicros()
	if now < c.last {
		c.last -= c.clock.MaxMicros()
	}
	elapsed := (now - c.last) / 1000
	c.last = now
	if elapsed > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(elapsed)
}
