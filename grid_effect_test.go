package sway

import (
	"testing"
	"time"
)

func newGridTest(productive int) (*Scene, *fakeClock, *Node, *scriptedModel, *GridEffect) {
	s, clk := newTestScene()
	n := nodeAt(10, 10, 100, 100)
	s.Root().AddChild(n)
	model := newScriptedModel(productive)
	fx := s.NewGridEffect(model, WithTiles(2, 2))
	n.AddEffect(fx)
	return s, clk, n, model, fx
}

func TestGridEffectIdentityVolume(t *testing.T) {
	_, _, n, _, fx := newGridTest(5)
	fx.SetEnabled(true)

	got := n.PaintVolume()
	want := Volume{Origin: Vec3{-1, -1, 0}, Width: 102, Height: 102}
	if got != want {
		t.Errorf("PaintVolume = %+v, want %+v", got, want)
	}
	if !got.Contains(n.Volume()) {
		t.Error("paint volume should contain the node volume")
	}
}

func TestGridEffectVolumeNeverShrinks(t *testing.T) {
	tests := []struct {
		name     string
		extremes func([4]Vec3) [4]Vec3
	}{
		{"collapse to a point", func([4]Vec3) [4]Vec3 { return [4]Vec3{} }},
		{"inverted corners", func(c [4]Vec3) [4]Vec3 { return [4]Vec3{c[3], c[2], c[1], c[0]} }},
		{"pushed far right", func(c [4]Vec3) [4]Vec3 {
			for i := range c {
				c[i].X += 500
			}
			return c
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, n, model, fx := newGridTest(5)
			model.extremes = tt.extremes
			fx.SetEnabled(true)

			got := n.PaintVolume()
			if !got.Contains(n.Volume()) {
				t.Errorf("volume %+v does not contain %+v", got, n.Volume())
			}
			if got.Width < 1 || got.Height < 1 {
				t.Errorf("volume %+v is thinner than one unit", got)
			}
		})
	}
}

func TestGridEffectDisabledVolumeUntouched(t *testing.T) {
	_, _, n, model, _ := newGridTest(5)
	model.extremes = func([4]Vec3) [4]Vec3 { return [4]Vec3{{-100, -100, 0}, {900, -100, 0}, {-100, 900, 0}, {900, 900, 0}} }
	if got := n.PaintVolume(); got != n.Volume() {
		t.Errorf("PaintVolume = %+v, want %+v", got, n.Volume())
	}
}

func TestGridEffectAttachForcesDisabled(t *testing.T) {
	s, _ := newTestScene()
	fx := s.NewGridEffect(newScriptedModel(5))
	fx.SetEnabled(true)

	n := nodeAt(0, 0, 10, 10)
	n.AddEffect(fx)

	if fx.Enabled() || fx.State() != AttachedDisabled {
		t.Errorf("Enabled = %v, State = %v, want false, disabled", fx.Enabled(), fx.State())
	}
	if s.PendingTimers() != 0 {
		t.Errorf("pending timers = %d, want 0", s.PendingTimers())
	}
}

func TestGridEffectEnableShowsNode(t *testing.T) {
	_, _, n, _, fx := newGridTest(5)
	n.Hide()
	fx.SetEnabled(true)
	if !n.Visible {
		t.Error("enabling should show the node")
	}
}

func TestGridEffectDeformsEveryVertex(t *testing.T) {
	s, clk, _, model, fx := newGridTest(5)
	fx.SetEnabled(true)

	verts := len(fx.Mesh().Vertices)
	if verts != 9 {
		t.Fatalf("vertices = %d, want 9", verts)
	}
	if model.deforms != verts {
		t.Errorf("deforms after enable = %d, want %d", model.deforms, verts)
	}

	frame(s, clk)
	if model.deforms != 2*verts {
		t.Errorf("deforms after one tick = %d, want %d", model.deforms, 2*verts)
	}
	if len(model.deltas) != 1 || model.deltas[0] != 16 {
		t.Errorf("deltas = %v, want [16]", model.deltas)
	}
}

func TestGridEffectDeformVertexRelativeToOutputBox(t *testing.T) {
	_, _, n, model, fx := newGridTest(5)
	model.deform = func(uv Vec2) Vec2 {
		return Vec2{n.X + uv.X*n.Width, n.Y + uv.Y*n.Height}
	}
	if want := (Box{10, 10, 110, 110}); fx.OutputBox() != want {
		t.Fatalf("OutputBox = %v, want %v", fx.OutputBox(), want)
	}

	tests := []struct {
		u, v   float64
		wx, wy float64
	}{
		{0, 0, 0, 0},
		{1, 0, 100, 0},
		{0.5, 0.5, 50, 50},
		{1, 1, 100, 100},
	}
	for _, tt := range tests {
		x, y := fx.DeformVertex(tt.u, tt.v)
		if !approxEqual(x, tt.wx, 1e-9) || !approxEqual(y, tt.wy, 1e-9) {
			t.Errorf("DeformVertex(%v, %v) = (%v, %v), want (%v, %v)", tt.u, tt.v, x, y, tt.wx, tt.wy)
		}
	}

	fx.SetEnabled(true)
	br := fx.Mesh().Vertices[8]
	if br.DstX != 100 || br.DstY != 100 {
		t.Errorf("bottom-right vertex at (%v, %v), want (100, 100)", br.DstX, br.DstY)
	}
	if br.SrcX != 100 || br.SrcY != 100 {
		t.Errorf("bottom-right source at (%v, %v), want (100, 100)", br.SrcX, br.SrcY)
	}
}

func TestGridEffectOutputBoxPrefersPaintBox(t *testing.T) {
	s, _ := newTestScene()
	n := nodeAt(10, 10, 100, 100)
	n.setPaintBox(Box{8, 8, 112, 112})
	fx := s.NewGridEffect(newScriptedModel(1))
	n.AddEffect(fx)

	if want := (Box{8, 8, 112, 112}); fx.OutputBox() != want {
		t.Errorf("OutputBox = %v, want %v", fx.OutputBox(), want)
	}
}

func TestGridEffectTracksGeometry(t *testing.T) {
	_, _, n, _, fx := newGridTest(5)

	n.SetPosition(20, 30)
	if want := (Box{20, 30, 120, 130}); fx.OutputBox() != want {
		t.Errorf("after move OutputBox = %v, want %v", fx.OutputBox(), want)
	}
	n.SetSize(50, 40)
	if want := (Box{20, 30, 70, 70}); fx.OutputBox() != want {
		t.Errorf("after resize OutputBox = %v, want %v", fx.OutputBox(), want)
	}
}

func TestGridEffectReattachMovesObservers(t *testing.T) {
	_, _, n1, _, fx := newGridTest(5)
	if n1.ObserverCount() != 4 {
		t.Fatalf("observers on first node = %d, want 4", n1.ObserverCount())
	}

	n2 := nodeAt(200, 200, 20, 20)
	n2.AddEffect(fx)

	if n1.ObserverCount() != 0 {
		t.Errorf("observers left on old node = %d, want 0", n1.ObserverCount())
	}
	if n2.ObserverCount() != 4 {
		t.Errorf("observers on new node = %d, want 4", n2.ObserverCount())
	}
	if len(n1.Effects()) != 0 {
		t.Error("old node still lists the effect")
	}

	box := fx.OutputBox()
	n1.SetPosition(0, 0)
	if fx.OutputBox() != box {
		t.Errorf("moving the old node changed OutputBox to %v", fx.OutputBox())
	}
	if want := (Box{200, 200, 220, 220}); box != want {
		t.Errorf("OutputBox = %v, want %v", box, want)
	}
}

func TestGridEffectDetachRemovesObservers(t *testing.T) {
	s, _, n, _, fx := newGridTest(5)
	fx.SetEnabled(true)
	n.RemoveEffect(fx)

	if n.ObserverCount() != 0 {
		t.Errorf("observers = %d, want 0", n.ObserverCount())
	}
	if s.PendingTimers() != 0 || fx.State() != Detached {
		t.Errorf("timers = %d, State = %v, want 0, detached", s.PendingTimers(), fx.State())
	}
}

func TestGridEffectFinishes(t *testing.T) {
	s, clk, n, model, fx := newGridTest(2)
	fx.SetEnabled(true)

	frame(s, clk)
	frame(s, clk)
	if fx.State() != AttachedRunning {
		t.Fatalf("State = %v after productive steps, want running", fx.State())
	}
	frame(s, clk)

	if fx.Enabled() || fx.State() != AttachedFinished {
		t.Errorf("Enabled = %v, State = %v, want false, finished", fx.Enabled(), fx.State())
	}
	if s.PendingTimers() != 0 {
		t.Errorf("pending timers = %d, want 0", s.PendingTimers())
	}
	if got := n.PaintVolume(); got != n.Volume() {
		t.Errorf("finished effect still widens the volume to %+v", got)
	}

	frame(s, clk)
	if model.steps != 3 {
		t.Errorf("model stepped %d times, want 3", model.steps)
	}
}

func TestGridEffectSetTiles(t *testing.T) {
	_, _, _, model, fx := newGridTest(5)
	fx.SetTiles(4, 1)
	if model.deforms != 0 {
		t.Errorf("disabled effect deformed %d vertices", model.deforms)
	}

	fx.SetEnabled(true)
	before := model.deforms
	fx.SetTiles(3, 3)
	if got := model.deforms - before; got != 16 {
		t.Errorf("SetTiles while running deformed %d vertices, want 16", got)
	}
}

func TestGridEffectDispose(t *testing.T) {
	s, _, n, model, fx := newGridTest(5)
	fx.SetEnabled(true)
	fx.Dispose()

	if model.released != 1 {
		t.Errorf("released = %d, want 1", model.released)
	}
	if n.ObserverCount() != 0 || len(n.Effects()) != 0 {
		t.Errorf("observers = %d, effects = %d, want 0, 0", n.ObserverCount(), len(n.Effects()))
	}
	if s.PendingTimers() != 0 {
		t.Errorf("pending timers = %d, want 0", s.PendingTimers())
	}
}

func TestGridEffectWithWaveGrid(t *testing.T) {
	s, clk := newTestScene()
	n := nodeAt(10, 10, 100, 100)
	wave := NewWaveGrid(WaveConfig{
		Source:    Box{10, 10, 110, 110},
		Amplitude: 8,
		Speed:     1,
		Duration:  96 * time.Millisecond,
	})
	fx := s.NewGridEffect(wave, WithTiles(4, 4))
	n.AddEffect(fx)
	fx.SetEnabled(true)

	v := n.PaintVolume()
	if v.Origin.X > -8 || v.Width < 116 {
		t.Errorf("volume %+v does not cover the wave amplitude", v)
	}

	for i := 0; i < 20 && fx.Enabled(); i++ {
		frame(s, clk)
	}
	if fx.State() != AttachedFinished {
		t.Fatalf("State = %v, want finished", fx.State())
	}
	if !approxEqual(wave.Amplitude(), 0, 1e-6) {
		t.Errorf("amplitude = %v, want 0", wave.Amplitude())
	}
}

func TestGridEffectDisposeAfterDirectAttach(t *testing.T) {
	s, _ := newTestScene()
	n := nodeAt(0, 0, 10, 10)
	fx := s.NewGridEffect(newScriptedModel(5), WithTiles(1, 1))
	fx.Attach(n)
	fx.SetEnabled(true)

	fx.Dispose()

	if fx.State() != Detached || fx.Node() != nil {
		t.Errorf("State = %v, Node = %v, want detached, nil", fx.State(), fx.Node())
	}
	if fx.Running() || s.PendingTimers() != 0 {
		t.Errorf("Running = %v, timers = %d, want false, 0", fx.Running(), s.PendingTimers())
	}
	if n.ObserverCount() != 0 {
		t.Errorf("observers = %d, want 0", n.ObserverCount())
	}
}

func TestGridEffectEnableRefreshesOutputBox(t *testing.T) {
	_, _, n, _, fx := newGridTest(5)
	if want := (Box{10, 10, 110, 110}); fx.OutputBox() != want {
		t.Fatalf("OutputBox = %v, want %v", fx.OutputBox(), want)
	}

	// The host repaints into a wider box without a geometry change.
	n.setPaintBox(Box{9, 9, 111, 111})
	fx.SetEnabled(true)

	if want := (Box{9, 9, 111, 111}); fx.OutputBox() != want {
		t.Errorf("OutputBox = %v, want %v", fx.OutputBox(), want)
	}
}
