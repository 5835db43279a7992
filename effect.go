package sway

import (
	"time"

	"github.com/rs/zerolog"
)

// EffectState is the lifecycle position of an effect.
type EffectState uint8

const (
	Detached         EffectState = iota // not attached to any node
	AttachedDisabled                    // attached, clock stopped
	AttachedRunning                     // attached, clock armed
	AttachedFinished                    // the model completed; re-enable or detach
)

func (s EffectState) String() string {
	switch s {
	case Detached:
		return "detached"
	case AttachedDisabled:
		return "disabled"
	case AttachedRunning:
		return "running"
	case AttachedFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Effect is a time-based visual modification applied to one node at a time.
//
// All methods must be called from the host's event-loop goroutine. Disabling
// or detaching cancels the frame clock before returning, so no tick is ever
// delivered to a node the effect no longer owns.
type Effect interface {
	// Attach binds the effect to n, releasing any previous node. Callers
	// normally use Node.AddEffect, which calls Attach.
	Attach(n *Node)
	// Detach releases the current node and stops the clock.
	Detach()

	SetEnabled(enabled bool)
	Enabled() bool
	State() EffectState

	// ComputeVolume widens the node's paint volume v to cover everything
	// the effect may still paint.
	ComputeVolume(n *Node, v Volume) Volume

	// Tick advances the effect by deltaMs. The frame clock calls it; tests
	// may call it directly.
	Tick(deltaMs uint32)

	// Dispose detaches the effect and drops its model.
	Dispose()
}

// EffectOption configures an effect at construction.
type EffectOption func(*effectOptions)

type effectOptions struct {
	clock    Clock
	timers   TimerService
	interval time.Duration
	tilesX   int
	tilesY   int
	log      *zerolog.Logger
}

// WithClock sets the monotonic time source. Defaults to a MonotonicClock.
func WithClock(c Clock) EffectOption {
	return func(o *effectOptions) { o.clock = c }
}

// WithTimers sets the service that schedules frame ticks.
func WithTimers(t TimerService) EffectOption {
	return func(o *effectOptions) { o.timers = t }
}

// WithScene uses the scene's clock and timer service.
func WithScene(s *Scene) EffectOption {
	return func(o *effectOptions) {
		o.clock = s.Clock()
		o.timers = s
	}
}

// WithFrameInterval overrides FrameInterval.
func WithFrameInterval(d time.Duration) EffectOption {
	return func(o *effectOptions) { o.interval = d }
}

// WithTiles sets the grid subdivision of a GridEffect. Ignored by other
// effects.
func WithTiles(x, y int) EffectOption {
	return func(o *effectOptions) { o.tilesX, o.tilesY = x, y }
}

// WithConfig applies the frame interval and grid tiles from cfg.
func WithConfig(cfg Config) EffectOption {
	return func(o *effectOptions) {
		o.interval = cfg.FrameInterval
		o.tilesX, o.tilesY = cfg.GridTilesX, cfg.GridTilesY
	}
}

// WithLogger overrides the package logger for one effect.
func WithLogger(l zerolog.Logger) EffectOption {
	return func(o *effectOptions) { o.log = &l }
}

func buildOptions(opts []EffectOption) effectOptions {
	o := effectOptions{interval: FrameInterval, tilesX: defaultTiles, tilesY: defaultTiles}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewMonotonicClock()
	}
	return o
}

// effectCore holds the lifecycle shared by every effect kind. The timer is
// armed if and only if state is AttachedRunning.
type effectCore struct {
	kind    string
	self    Effect
	opts    effectOptions
	frames  *FrameClock
	node    *Node
	enabled bool
	state   EffectState
}

func newEffectCore(kind string, self Effect, opts []EffectOption) effectCore {
	return effectCore{kind: kind, self: self, opts: buildOptions(opts)}
}

// Enabled reports whether the caller wants the effect to run.
func (c *effectCore) Enabled() bool {
	return c.enabled
}

// State returns the lifecycle state.
func (c *effectCore) State() EffectState {
	return c.state
}

// Node returns the attached node, or nil.
func (c *effectCore) Node() *Node {
	return c.node
}

// Running reports whether the frame clock is armed.
func (c *effectCore) Running() bool {
	return c.frames != nil && c.frames.Running()
}

func (c *effectCore) logger() *zerolog.Logger {
	if c.opts.log != nil {
		return c.opts.log
	}
	return &logger
}

func (c *effectCore) setState(s EffectState) {
	if c.state == s {
		return
	}
	ev := c.logger().Debug().Str("effect", c.kind).Stringer("from", c.state).Stringer("to", s)
	if c.node != nil {
		ev = ev.Uint32("node", c.node.ID)
	}
	ev.Msg("effect state")
	c.state = s
}

// bind points the core at n, first releasing a different previous node.
// Reports whether the node changed.
func (c *effectCore) bind(n *Node, release func(old *Node)) bool {
	if c.node == n {
		return false
	}
	if old := c.node; old != nil {
		c.stopClock()
		release(old)
		old.dropEffect(c.self)
		old.InvalidateVolume()
	}
	c.node = n
	return true
}

// startClock arms the frame clock, creating it on first use.
func (c *effectCore) startClock(onDelta func(deltaMs uint32)) {
	if c.frames == nil {
		if c.opts.timers == nil {
			panic("sway: " + c.kind + " effect has no timer service")
		}
		c.frames = NewFrameClock(c.opts.clock, c.opts.timers, c.opts.interval)
	}
	c.frames.Start(onDelta)
	c.setState(AttachedRunning)
}

func (c *effectCore) stopClock() {
	if c.frames != nil {
		c.frames.Stop()
	}
}

// halt stops the clock and moves to s, keeping the timer/state invariant.
func (c *effectCore) halt(s EffectState) {
	c.stopClock()
	if c.node == nil {
		s = Detached
	}
	c.setState(s)
}

// unbind stops the clock and forgets the node.
func (c *effectCore) unbind() {
	c.stopClock()
	c.setState(Detached)
	if c.node.dropEffect(c.self) {
		c.node.InvalidateVolume()
	}
	c.node = nil
}

// requireModel panics when an effect is enabled without a model.
func (c *effectCore) requireModel(present bool) {
	if !present {
		panic("sway: " + c.kind + " effect enabled without a model")
	}
}

// releaseModel drops a model reference, calling Release when supported.
func releaseModel(m Model) {
	if r, ok := m.(Releaser); ok {
		r.Release()
	}
}
