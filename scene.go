package sway

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the host for nodes and effects: it owns the node tree, the
// monotonic clock, and the timer service effects schedule their frame
// clocks on. Call Update and Draw from the game loop; every timer callback
// runs inside Update on the loop goroutine.
type Scene struct {
	root  *Node
	clock Clock
	cfg   Config
	debug bool

	timers     []*sceneTimer
	nextHandle TimerHandle

	vertBuf []ebiten.Vertex // reused mesh draw buffer
}

type sceneTimer struct {
	handle    TimerHandle
	interval  int64 // microseconds
	last      int64
	fn        func()
	cancelled bool
}

// NewScene creates a scene driven by a MonotonicClock.
func NewScene() *Scene {
	return NewSceneWithClock(NewMonotonicClock())
}

// NewSceneWithClock creates a scene driven by clock. Tests pass a fake
// clock to control tick timing.
func NewSceneWithClock(clock Clock) *Scene {
	return &Scene{
		root:  NewNode("root"),
		clock: clock,
		cfg:   DefaultConfig(),
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Clock returns the scene's time source.
func (s *Scene) Clock() Clock {
	return s.clock
}

// Config returns the configuration applied with ApplyConfig.
func (s *Scene) Config() Config {
	return s.cfg
}

// ApplyConfig stores cfg for effects created through the scene and applies
// its logging settings.
func (s *Scene) ApplyConfig(cfg Config) {
	s.cfg = cfg
	s.SetDebugMode(cfg.Debug)
	if !cfg.Debug {
		SetLogger(NewConsoleLogger(os.Stderr, ParseLevel(cfg.LogLevel)))
	}
}

// NewTransformEffect creates a transform effect bound to this scene's clock
// and timers with the scene configuration.
func (s *Scene) NewTransformEffect(model TransformModel, opts ...EffectOption) *TransformEffect {
	return NewTransformEffect(model, s.effectOptions(opts)...)
}

// NewGridEffect creates a grid effect bound to this scene's clock and timers
// with the scene configuration.
func (s *Scene) NewGridEffect(model GridModel, opts ...EffectOption) *GridEffect {
	return NewGridEffect(model, s.effectOptions(opts)...)
}

func (s *Scene) effectOptions(opts []EffectOption) []EffectOption {
	return append([]EffectOption{WithConfig(s.cfg), WithScene(s)}, opts...)
}

// --- TimerService ---

// ScheduleRepeating registers fn to run from Update whenever at least
// interval has passed since it last ran.
func (s *Scene) ScheduleRepeating(interval time.Duration, fn func()) TimerHandle {
	s.nextHandle++
	s.timers = append(s.timers, &sceneTimer{
		handle:   s.nextHandle,
		interval: interval.Microseconds(),
		last:     s.clock.NowMicros(),
		fn:       fn,
	})
	return s.nextHandle
}

// Cancel stops a timer. It takes effect immediately, even for a timer that
// is due later in the Update currently running. Unknown or already
// cancelled handles are ignored.
func (s *Scene) Cancel(h TimerHandle) {
	for _, t := range s.timers {
		if t.handle == h {
			t.cancelled = true
			return
		}
	}
}

// PendingTimers returns the number of live timers.
func (s *Scene) PendingTimers() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Update fires every due timer once, in scheduling order. Timers added by a
// callback first fire on a later Update.
func (s *Scene) Update() {
	now := s.clock.NowMicros()
	count := len(s.timers)
	for i := 0; i < count; i++ {
		t := s.timers[i]
		if t.cancelled {
			continue
		}
		// A clock that wrapped makes now < last; treat the timer as due.
		if now-t.last < t.interval && now >= t.last {
			continue
		}
		t.last = now
		t.fn()
	}
	s.compactTimers()
}

func (s *Scene) compactTimers() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
}

var _ TimerService = (*Scene)(nil)
