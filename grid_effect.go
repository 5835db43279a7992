package sway

// GridEffect subdivides its node into a GridMesh and remaps every vertex
// through a GridModel each frame.
//
// The effect caches the node's output box, the parent-space rectangle the
// mesh is drawn into. The cache is refreshed on attach and whenever the
// node's position or size changes.
type GridEffect struct {
	effectCore
	model GridModel

	mesh      *GridMesh
	outputBox Box
	watched   []ObserverID
}

var _ Effect = (*GridEffect)(nil)

// NewGridEffect creates a detached, disabled effect driven by model.
// The effect keeps a reference to model until Dispose.
func NewGridEffect(model GridModel, opts ...EffectOption) *GridEffect {
	e := &GridEffect{model: model}
	e.effectCore = newEffectCore("grid", e, opts)
	e.mesh = NewGridMesh(e.opts.tilesX, e.opts.tilesY)
	return e
}

// Attach binds the effect to n, moving geometry observers off any previous
// node. Attaching always leaves the effect disabled.
func (e *GridEffect) Attach(n *Node) {
	if n == nil {
		e.Detach()
		return
	}
	changed := e.bind(n, e.unwatch)
	e.enabled = false
	e.halt(AttachedDisabled)
	if !changed {
		return
	}
	e.refreshOutputBox()
	for _, p := range [...]Property{PropX, PropY, PropWidth, PropHeight} {
		e.watched = append(e.watched, n.Observe(p, e.onGeometryChanged))
	}
}

// Detach stops the clock, removes geometry observers and forgets the node.
func (e *GridEffect) Detach() {
	if e.node == nil {
		return
	}
	e.unwatch(e.node)
	e.unbind()
}

func (e *GridEffect) unwatch(n *Node) {
	for _, id := range e.watched {
		n.Unobserve(id)
	}
	e.watched = e.watched[:0]
}

func (e *GridEffect) onGeometryChanged(n *Node, _ Property) {
	if e.node != n {
		return
	}
	e.refreshOutputBox()
}

func (e *GridEffect) refreshOutputBox() {
	e.outputBox = bestKnownPaintExtents(e.node)
	e.mesh.SetTextureSize(e.node.Width, e.node.Height)
	if img := e.node.Image; img != nil {
		b := img.Bounds()
		e.mesh.SetTextureSize(float64(b.Dx()), float64(b.Dy()))
	}
}

// OutputBox returns the cached parent-space box vertices are relative to.
func (e *GridEffect) OutputBox() Box {
	return e.outputBox
}

// Mesh returns the deformed grid.
func (e *GridEffect) Mesh() *GridMesh {
	return e.mesh
}

// SetTiles changes the grid subdivision and recomputes the mesh if the
// effect is running.
func (e *GridEffect) SetTiles(x, y int) {
	e.mesh.SetTiles(x, y)
	if e.state == AttachedRunning {
		e.invalidate()
	}
}

// SetEnabled starts or stops the effect. Enabling shows the node, since a
// deformation may start from a hidden node.
func (e *GridEffect) SetEnabled(enabled bool) {
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

func (e *GridEffect) run() {
	e.requireModel(e.model != nil)
	if e.Running() {
		return
	}
	e.startClock(e.Tick)
	e.refreshOutputBox()
	e.node.Show()
	e.invalidate()
}

// Tick steps the model. On success the mesh is recomputed; on completion
// the effect disables itself.
func (e *GridEffect) Tick(deltaMs uint32) {
	if e.node == nil || e.model == nil {
		return
	}
	if !e.model.Step(deltaMs) {
		e.logger().Info().Str("effect", e.kind).Uint32("node", e.node.ID).Msg("effect completed")
		e.enabled = false
		e.halt(AttachedFinished)
		e.node.InvalidateVolume()
		return
	}
	e.invalidate()
}

// invalidate recomputes every vertex and queues a repaint.
func (e *GridEffect) invalidate() {
	e.mesh.Deform(e.DeformVertex)
	e.node.InvalidateVolume()
}

// DeformVertex maps normalized texture coordinates to a position relative
// to the output box origin.
func (e *GridEffect) DeformVertex(u, v float64) (x, y float64) {
	p := e.model.Deform(Vec2{u, v})
	return p.X - e.outputBox.X1, p.Y - e.outputBox.Y1
}

// ComputeVolume unions into v the box spanned by the model's extremes for
// the four corners of the node's undeformed paint box. Opposite corners may
// move independently under a deformation, so each side takes the extreme
// of the two corners on it.
func (e *GridEffect) ComputeVolume(n *Node, v Volume) Volume {
	if !e.enabled || e.model == nil {
		return v
	}
	pb := paintBoxFromVolume(n, v)
	ext := extremesBox(e.model.Extremes(pb.Corners(v.Origin.Z)))
	ext.Origin.X -= n.X
	ext.Origin.Y -= n.Y
	return v.Union(ext)
}

// Dispose detaches the effect and releases the model.
func (e *GridEffect) Dispose() {
	e.Detach()
	e.stopClock()
	if e.model != nil {
		releaseModel(e.model)
		e.model = nil
	}
	e.enabled = false
}
