package sway

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// TransformEffect applies one matrix and an opacity taken from a
// TransformModel to its node every frame.
//
// When the model completes, the node transform is reset to identity and
// the opacity to 255 before the effect disables itself, so a host that
// tears the node down on disable never sees it half transformed.
type TransformEffect struct {
	effectCore
	model TransformModel
}

var _ Effect = (*TransformEffect)(nil)

// NewTransformEffect creates a detached, disabled effect driven by model.
// The effect keeps a reference to model until Dispose.
func NewTransformEffect(model TransformModel, opts ...EffectOption) *TransformEffect {
	e := &TransformEffect{model: model}
	e.effectCore = newEffectCore("transform", e, opts)
	return e
}

// Attach binds the effect to n. An effect that was enabled while detached
// starts running immediately.
func (e *TransformEffect) Attach(n *Node) {
	if n == nil {
		e.Detach()
		return
	}
	if !e.bind(n, func(*Node) {}) {
		return
	}
	e.setState(AttachedDisabled)
	if e.enabled {
		e.run()
	}
}

// Detach stops the clock and forgets the node. The node keeps whatever
// transform and opacity were last applied.
func (e *TransformEffect) Detach() {
	if e.node == nil {
		return
	}
	e.unbind()
}

// SetEnabled starts or stops the effect. Enabling applies the model's
// current opacity and matrix at once so the node never flashes untransformed
// before the first tick.
func (e *TransformEffect) SetEnabled(enabled bool) {
	e.enabled = enabled
	if e.node == nil {
		return
	}
	if enabled {
		e.run()
		return
	}
	if e.state == AttachedRunning {
		e.halt(AttachedDisabled)
	}
}

func (e *TransformEffect) run() {
	e.requireModel(e.model != nil)
	if e.Running() {
		return
	}
	e.startClock(e.Tick)
	e.node.SetPivot(0, 0)
	e.apply()
}

// Tick steps the model and applies the result, or finishes the effect when
// the model reports completion.
func (e *TransformEffect) Tick(deltaMs uint32) {
	if e.node == nil || e.model == nil {
		return
	}
	if !e.model.Step(deltaMs) {
		e.finish()
		return
	}
	e.apply()
}

func (e *TransformEffect) apply() {
	n := e.node
	n.SetOpacity(opacityFromProgress(e.model.Progress()))
	n.SetTransform(e.model.Matrix())
	n.QueueRedraw()
}

func (e *TransformEffect) finish() {
	n := e.node
	n.ResetTransform()
	n.SetOpacity(255)
	e.logger().Info().Str("effect", e.kind).Uint32("node", n.ID).Msg("effect completed")
	e.enabled = false
	e.halt(AttachedFinished)
}

// ComputeVolume widens v by the extremes the model reports for the corners
// of v's paint box.
func (e *TransformEffect) ComputeVolume(n *Node, v Volume) Volume {
	if !e.enabled || e.model == nil {
		return v
	}
	corners, off := cornersAndOffsetFromVolume(n, v)
	expandVolumeWithExtremes(&v, e.model.Extremes(corners), off)
	return v
}

// Paint concatenates the node transform into geom. The host calls it while
// building the node's draw options; geom then continues down the paint
// chain (node position, parent offsets).
func (e *TransformEffect) Paint(n *Node, geom *ebiten.GeoM) {
	if !e.enabled {
		return
	}
	a := matrix4ToAffine(n.Transform)
	var m ebiten.GeoM
	m.SetElement(0, 0, a[0])
	m.SetElement(1, 0, a[1])
	m.SetElement(0, 1, a[2])
	m.SetElement(1, 1, a[3])
	m.SetElement(0, 2, a[4])
	m.SetElement(1, 2, a[5])
	geom.Concat(m)
}

// Dispose detaches the effect and releases the model.
func (e *TransformEffect) Dispose() {
	e.Detach()
	e.stopClock()
	if e.model != nil {
		releaseModel(e.model)
		e.model = nil
	}
	e.enabled = false
}

// opacityFromProgress maps progress in [0, 1] to an 8-bit opacity.
func opacityFromProgress(p float64) uint8 {
	return uint8(math.Round(clamp01(p) * 255))
}
