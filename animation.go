package sway

import (
	"math"
	"time"

	"cogentcore.org/core/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// extremeSamples is how many points along the remaining course of a tween
// are inspected when computing extremes.
const extremeSamples = 8

// TransformState is a snapshot of the values a TweenTransform animates.
// Opacity doubles as the model's progress.
type TransformState struct {
	Opacity  float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // radians
	OffsetX  float64
	OffsetY  float64
}

// IdentityState returns a fully opaque, untransformed state.
func IdentityState() TransformState {
	return TransformState{Opacity: 1, ScaleX: 1, ScaleY: 1}
}

func (s TransformState) fields() [6]float64 {
	return [6]float64{s.Opacity, s.ScaleX, s.ScaleY, s.Rotation, s.OffsetX, s.OffsetY}
}

func stateFromFields(f [6]float64) TransformState {
	return TransformState{f[0], f[1], f[2], f[3], f[4], f[5]}
}

// TransformTween configures a TweenTransform.
type TransformTween struct {
	From, To TransformState
	Duration time.Duration
	Ease     ease.TweenFunc // defaults to ease.Linear

	// Pivot for scale and rotation, in node-local coordinates.
	PivotX, PivotY float64
}

// TweenTransform is a TransformModel that interpolates a TransformState
// with gween tweens. It suits open/close style effects: fade, zoom, spin.
type TweenTransform struct {
	cfg     TransformTween
	tweens  [6]*gween.Tween
	current TransformState
	elapsed float32 // seconds
	dur     float32 // seconds
}

// NewTweenTransform creates a model positioned at cfg.From.
func NewTweenTransform(cfg TransformTween) *TweenTransform {
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	dur := float32(cfg.Duration.Seconds())
	if dur <= 0 {
		dur = 0.001
	}
	m := &TweenTransform{cfg: cfg, current: cfg.From, dur: dur}
	from, to := cfg.From.fields(), cfg.To.fields()
	for i := range m.tweens {
		m.tweens[i] = gween.New(float32(from[i]), float32(to[i]), dur, cfg.Ease)
	}
	return m
}

// Step advances every tween by deltaMs.
func (m *TweenTransform) Step(deltaMs uint32) bool {
	dt := float32(deltaMs) / 1000
	m.elapsed += dt

	var vals [6]float64
	allDone := true
	for i, tw := range m.tweens {
		val, finished := tw.Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	m.current = stateFromFields(vals)
	return !allDone
}

// Progress returns the current opacity clamped to [0, 1].
func (m *TweenTransform) Progress() float64 {
	return clamp01(m.current.Opacity)
}

// State returns the current interpolated values.
func (m *TweenTransform) State() TransformState {
	return m.current
}

// Matrix returns the current transform.
func (m *TweenTransform) Matrix() math32.Matrix4 {
	return m.matrixFor(m.current)
}

func (m *TweenTransform) matrixFor(s TransformState) math32.Matrix4 {
	return affineToMatrix4(composeAffine(s, m.cfg.PivotX, m.cfg.PivotY))
}

// sampleAt evaluates every field at time t (seconds) without touching the
// tweens' own clocks.
func (m *TweenTransform) sampleAt(t float32) TransformState {
	if t > m.dur {
		t = m.dur
	}
	from, to := m.cfg.From.fields(), m.cfg.To.fields()
	var out [6]float64
	for i := range out {
		b := float32(from[i])
		out[i] = float64(m.cfg.Ease(t, b, float32(to[i])-b, m.dur))
	}
	return stateFromFields(out)
}

// Extremes projects the corners through the transform at several points
// between now and the end of the tween and keeps, for each corner, the
// position furthest out in its own direction.
func (m *TweenTransform) Extremes(corners [4]Vec3) [4]Vec3 {
	ext := projectCorners(m.matrixFor(m.current), corners)
	remaining := m.dur - m.elapsed
	if remaining < 0 {
		remaining = 0
	}
	for i := 1; i <= extremeSamples; i++ {
		t := m.elapsed + remaining*float32(i)/extremeSamples
		mat := m.matrixFor(m.sampleAt(t))
		ext = widenCorners(ext, projectCorners(mat, corners))
	}
	return ext
}

// composeAffine builds Translate(pivot+offset) * Rotate * Scale *
// Translate(-pivot) as [a, b, c, d, tx, ty].
func composeAffine(s TransformState, px, py float64) [6]float64 {
	sin, cos := math.Sincos(s.Rotation)
	a := cos * s.ScaleX
	b := sin * s.ScaleX
	c := -sin * s.ScaleY
	d := cos * s.ScaleY
	tx := -(a*px + c*py) + px + s.OffsetX
	ty := -(b*px + d*py) + py + s.OffsetY
	return [6]float64{a, b, c, d, tx, ty}
}

// affineToMatrix4 embeds a 2D affine matrix in a column-major 4x4 matrix.
func affineToMatrix4(m [6]float64) math32.Matrix4 {
	return math32.Matrix4{
		float32(m[0]), float32(m[1]), 0, 0,
		float32(m[2]), float32(m[3]), 0, 0,
		0, 0, 1, 0,
		float32(m[4]), float32(m[5]), 0, 1,
	}
}

// matrix4ToAffine drops the depth and projective parts of m.
func matrix4ToAffine(m math32.Matrix4) [6]float64 {
	return [6]float64{
		float64(m[0]), float64(m[1]),
		float64(m[4]), float64(m[5]),
		float64(m[12]), float64(m[13]),
	}
}

// projectCorners applies m to each corner with perspective division.
func projectCorners(m math32.Matrix4, corners [4]Vec3) [4]Vec3 {
	var out [4]Vec3
	for i, c := range corners {
		v := math32.Vec4(float32(c.X), float32(c.Y), float32(c.Z), 1).MulMatrix4(&m)
		w := v.W
		if w == 0 {
			w = 1
		}
		out[i] = Vec3{float64(v.X / w), float64(v.Y / w), float64(v.Z / w)}
	}
	return out
}

// widenCorners keeps, per corner, the coordinate furthest in that corner's
// direction: left corners (0, 2) take the smaller X, top corners (0, 1) the
// smaller Y. Z spreads out the same way, low on the left.
func widenCorners(acc, next [4]Vec3) [4]Vec3 {
	for i := range acc {
		left := i == 0 || i == 2
		top := i == 0 || i == 1
		if left {
			acc[i].X = math.Min(acc[i].X, next[i].X)
			acc[i].Z = math.Min(acc[i].Z, next[i].Z)
		} else {
			acc[i].X = math.Max(acc[i].X, next[i].X)
			acc[i].Z = math.Max(acc[i].Z, next[i].Z)
		}
		if top {
			acc[i].Y = math.Min(acc[i].Y, next[i].Y)
		} else {
			acc[i].Y = math.Max(acc[i].Y, next[i].Y)
		}
	}
	return acc
}

// --- WaveGrid ---

// WaveConfig configures a WaveGrid.
type WaveConfig struct {
	// Source is the undeformed rectangle in parent space, usually the
	// node's paint extents when the effect starts.
	Source Box

	Amplitude float64 // initial horizontal displacement in pixels
	Waves     float64 // sine periods from top to bottom (default 1)
	Speed     float64 // phase cycles per second
	Duration  time.Duration
	Ease      ease.TweenFunc // amplitude decay curve, defaults to ease.OutQuad
}

// WaveGrid is a GridModel that shakes a rectangle horizontally with a sine
// wave whose amplitude decays to zero over the duration.
type WaveGrid struct {
	cfg     WaveConfig
	amp     *gween.Tween
	current float64
	elapsed float32
	dur     float32
}

// NewWaveGrid creates a model at full amplitude.
func NewWaveGrid(cfg WaveConfig) *WaveGrid {
	if cfg.Ease == nil {
		cfg.Ease = ease.OutQuad
	}
	if cfg.Waves == 0 {
		cfg.Waves = 1
	}
	dur := float32(cfg.Duration.Seconds())
	if dur <= 0 {
		dur = 0.001
	}
	return &WaveGrid{
		cfg:     cfg,
		amp:     gween.New(float32(cfg.Amplitude), 0, dur, cfg.Ease),
		current: cfg.Amplitude,
		dur:     dur,
	}
}

// Step advances the amplitude tween and the wave phase.
func (w *WaveGrid) Step(deltaMs uint32) bool {
	dt := float32(deltaMs) / 1000
	w.elapsed += dt
	val, finished := w.amp.Update(dt)
	w.current = float64(val)
	return !finished
}

// Progress returns the fraction of the duration elapsed.
func (w *WaveGrid) Progress() float64 {
	return clamp01(float64(w.elapsed / w.dur))
}

// Amplitude returns the current displacement amplitude.
func (w *WaveGrid) Amplitude() float64 {
	return w.current
}

// Deform maps normalized coordinates into the source rectangle and shifts
// them along X by the wave.
func (w *WaveGrid) Deform(uv Vec2) Vec2 {
	src := w.cfg.Source
	phase := 2 * math.Pi * (uv.Y*w.cfg.Waves + w.cfg.Speed*float64(w.elapsed))
	return Vec2{
		X: src.X1 + uv.X*src.Width() + w.current*math.Sin(phase),
		Y: src.Y1 + uv.Y*src.Height(),
	}
}

// Extremes widens the left corners leftward and the right corners
// rightward by the largest amplitude still to come.
func (w *WaveGrid) Extremes(corners [4]Vec3) [4]Vec3 {
	peak := math.Abs(w.current)
	b := float32(w.cfg.Amplitude)
	for i := 1; i <= extremeSamples; i++ {
		t := w.elapsed + (w.dur-w.elapsed)*float32(i)/extremeSamples
		if t > w.dur {
			t = w.dur
		}
		peak = math.Max(peak, math.Abs(float64(w.cfg.Ease(t, b, -b, w.dur))))
	}
	out := corners
	for i := range out {
		if i == 0 || i == 2 {
			out[i].X -= peak
		} else {
			out[i].X += peak
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
