package sway

import "cogentcore.org/core/math32"

// Model is the animation state an effect advances once per frame. The
// effect holds a shared reference to it for as long as it is attached.
type Model interface {
	// Step advances the animation by deltaMs milliseconds. It returns false
	// once the animation has completed and the effect should tear down.
	Step(deltaMs uint32) bool

	// Progress returns the current progress in [0, 1]. Effects use it as
	// the node's opacity.
	Progress() float64

	// Extremes maps four corners (TL, TR, BL, BR) to the worst-case
	// positions they reach over the rest of the animation.
	Extremes(corners [4]Vec3) [4]Vec3
}

// TransformModel produces a single matrix for the whole node. Its Extremes
// receives corners in node-local space, matching the matrix.
type TransformModel interface {
	Model
	Matrix() math32.Matrix4
}

// GridModel remaps individual mesh vertices. Deform receives normalized
// texture coordinates in [0,1]x[0,1] and returns a position in the same
// space as the node's parent. Its Extremes receives parent-space corners.
type GridModel interface {
	Model
	Deform(uv Vec2) Vec2
}

// Releaser is implemented by models that hold resources of their own. An
// effect calls Release exactly once when it drops its reference.
type Releaser interface {
	Release()
}
