package sway

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTweenTransformReachesTarget(t *testing.T) {
	m := NewTweenTransform(TransformTween{
		From:     TransformState{Opacity: 0, ScaleX: 0.5, ScaleY: 0.5, OffsetX: -20},
		To:       IdentityState(),
		Duration: time.Second,
	})

	if m.Progress() != 0 {
		t.Errorf("initial Progress = %v, want 0", m.Progress())
	}
	if !m.Step(500) {
		t.Fatal("Step at half time should report more work")
	}
	half := m.State()
	if !approxEqual(half.Opacity, 0.5, 1e-6) || !approxEqual(half.ScaleX, 0.75, 1e-6) || !approxEqual(half.OffsetX, -10, 1e-5) {
		t.Errorf("half-way state = %+v", half)
	}
	if m.Step(500) {
		t.Error("Step at the end should report completion")
	}
	if got := m.State(); got != IdentityState() {
		t.Errorf("final state = %+v, want identity", got)
	}
	if m.Progress() != 1 {
		t.Errorf("final Progress = %v, want 1", m.Progress())
	}
	if !isIdentity(m.Matrix()) {
		t.Errorf("final matrix = %v, want identity", m.Matrix())
	}
}

func TestTweenTransformEase(t *testing.T) {
	lin := NewTweenTransform(TransformTween{From: TransformState{}, To: IdentityState(), Duration: time.Second})
	out := NewTweenTransform(TransformTween{From: TransformState{}, To: IdentityState(), Duration: time.Second, Ease: ease.OutQuad})
	lin.Step(250)
	out.Step(250)
	if out.Progress() <= lin.Progress() {
		t.Errorf("OutQuad progress %v should lead linear %v early on", out.Progress(), lin.Progress())
	}
}

func TestTweenTransformMatrixPivot(t *testing.T) {
	m := NewTweenTransform(TransformTween{
		From:     TransformState{Opacity: 1, ScaleX: 2, ScaleY: 2},
		To:       TransformState{Opacity: 1, ScaleX: 2, ScaleY: 2},
		Duration: time.Second,
		PivotX:   50, PivotY: 50,
	})
	c := projectCorners(m.Matrix(), Box{0, 0, 100, 100}.Corners(0))
	want := [4]Vec3{{-50, -50, 0}, {150, -50, 0}, {-50, 150, 0}, {150, 150, 0}}
	for i := range c {
		if !approxEqual(c[i].X, want[i].X, 1e-4) || !approxEqual(c[i].Y, want[i].Y, 1e-4) {
			t.Errorf("corner %d = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestTweenTransformExtremesCoverRemainingCourse(t *testing.T) {
	m := NewTweenTransform(TransformTween{
		From:     TransformState{Opacity: 1, ScaleX: 1, ScaleY: 1},
		To:       TransformState{Opacity: 1, ScaleX: 3, ScaleY: 3},
		Duration: time.Second,
	})
	corners := Box{0, 0, 10, 10}.Corners(0)
	ext := m.Extremes(corners)

	// The end of the tween triples the box.
	if !approxEqual(ext[3].X, 30, 1e-4) || !approxEqual(ext[3].Y, 30, 1e-4) {
		t.Errorf("bottom-right extreme = %v, want (30, 30)", ext[3])
	}
	if !approxEqual(ext[0].X, 0, 1e-4) || !approxEqual(ext[0].Y, 0, 1e-4) {
		t.Errorf("top-left extreme = %v, want (0, 0)", ext[0])
	}

	m.Step(1000)
	ext = m.Extremes(corners)
	if !approxEqual(ext[3].X, 30, 1e-4) {
		t.Errorf("finished bottom-right extreme = %v, want 30", ext[3].X)
	}
}

func TestTweenTransformZeroDuration(t *testing.T) {
	m := NewTweenTransform(TransformTween{From: TransformState{}, To: IdentityState()})
	if m.Step(16) {
		t.Error("a zero-length tween should complete on the first step")
	}
}

func TestWidenCorners(t *testing.T) {
	acc := [4]Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {10, 10, 0}}
	next := [4]Vec3{{-2, 1, -1}, {8, -3, 1}, {1, 12, 0}, {12, 9, 2}}
	got := widenCorners(acc, next)
	want := [4]Vec3{{-2, 0, -1}, {10, -3, 1}, {0, 12, 0}, {12, 10, 2}}
	if got != want {
		t.Errorf("widenCorners = %v, want %v", got, want)
	}
}

func TestAffineRoundTrip(t *testing.T) {
	a := composeAffine(TransformState{ScaleX: 2, ScaleY: 3, Rotation: math.Pi / 2, OffsetX: 4, OffsetY: 5}, 0, 0)
	back := matrix4ToAffine(affineToMatrix4(a))
	for i := range a {
		if !approxEqual(a[i], back[i], 1e-6) {
			t.Errorf("element %d = %v, want %v", i, back[i], a[i])
		}
	}
}

func TestWaveGridDeform(t *testing.T) {
	w := NewWaveGrid(WaveConfig{
		Source:    Box{10, 20, 110, 70},
		Amplitude: 5,
		Duration:  time.Second,
	})
	tests := []struct {
		name string
		uv   Vec2
		want Vec2
	}{
		{"top-left, phase 0", Vec2{0, 0}, Vec2{10, 20}},
		{"quarter wave", Vec2{0, 0.25}, Vec2{15, 32.5}},
		{"bottom-right, full period", Vec2{1, 1}, Vec2{110, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Deform(tt.uv)
			if !approxEqual(got.X, tt.want.X, 1e-9) || !approxEqual(got.Y, tt.want.Y, 1e-9) {
				t.Errorf("Deform(%v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}
}

func TestWaveGridDecays(t *testing.T) {
	w := NewWaveGrid(WaveConfig{Source: Box{0, 0, 10, 10}, Amplitude: 4, Duration: time.Second})
	if !w.Step(500) {
		t.Fatal("Step at half time should report more work")
	}
	if a := w.Amplitude(); a <= 0 || a >= 4 {
		t.Errorf("half-way amplitude = %v, want within (0, 4)", a)
	}
	if !approxEqual(w.Progress(), 0.5, 1e-6) {
		t.Errorf("Progress = %v, want 0.5", w.Progress())
	}
	if w.Step(500) {
		t.Error("Step at the end should report completion")
	}
	if w.Amplitude() != 0 {
		t.Errorf("final amplitude = %v, want 0", w.Amplitude())
	}
}

func TestWaveGridExtremes(t *testing.T) {
	w := NewWaveGrid(WaveConfig{Source: Box{0, 0, 10, 10}, Amplitude: 3, Duration: time.Second})
	corners := Box{0, 0, 10, 10}.Corners(0)

	ext := w.Extremes(corners)
	want := [4]Vec3{{-3, 0, 0}, {13, 0, 0}, {-3, 10, 0}, {13, 10, 0}}
	if ext != want {
		t.Errorf("Extremes = %v, want %v", ext, want)
	}

	w.Step(1000)
	if ext := w.Extremes(corners); ext != corners {
		t.Errorf("finished Extremes = %v, want %v", ext, corners)
	}
}
