package sway

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and normalized
// texture coordinates throughout the API.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D point. Extremal points reported by animation models carry a
// Z component so that perspective-style transforms can widen the depth range.
type Vec3 struct {
	X, Y, Z float64
}

// Box is a 2D box described by its top-left (X1, Y1) and bottom-right
// (X2, Y2) corners. The coordinate system has its origin at the top-left,
// with Y increasing downward.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Width returns X2 - X1.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Origin returns the top-left corner.
func (b Box) Origin() Vec2 { return Vec2{b.X1, b.Y1} }

// Contains reports whether the point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Corners returns the four corners in the order top-left, top-right,
// bottom-left, bottom-right, all at depth z.
func (b Box) Corners(z float64) [4]Vec3 {
	return [4]Vec3{
		{b.X1, b.Y1, z},
		{b.X2, b.Y1, z},
		{b.X1, b.Y2, z},
		{b.X2, b.Y2, z},
	}
}

// Volume is a box in a node's local space that bounds everything the node
// may paint. The renderer culls and computes damage against it, so it must
// never be smaller than the node's real paint extent.
type Volume struct {
	Origin Vec3
	Width  float64
	Height float64
	Depth  float64
}

// VolumeFromBox returns a flat volume covering b at depth 0.
func VolumeFromBox(b Box) Volume {
	return Volume{
		Origin: Vec3{X: b.X1, Y: b.Y1},
		Width:  b.Width(),
		Height: b.Height(),
	}
}

// Max returns the corner opposite to Origin.
func (v Volume) Max() Vec3 {
	return Vec3{v.Origin.X + v.Width, v.Origin.Y + v.Height, v.Origin.Z + v.Depth}
}

// Box returns the planar extent of the volume.
func (v Volume) Box() Box {
	return Box{v.Origin.X, v.Origin.Y, v.Origin.X + v.Width, v.Origin.Y + v.Height}
}

// Empty reports whether the volume has no planar area.
func (v Volume) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Union returns the smallest volume containing both v and o. An empty
// volume contributes nothing.
func (v Volume) Union(o Volume) Volume {
	if v.Empty() {
		return o
	}
	if o.Empty() {
		return v
	}
	a, b := v.Max(), o.Max()
	min := Vec3{
		math.Min(v.Origin.X, o.Origin.X),
		math.Min(v.Origin.Y, o.Origin.Y),
		math.Min(v.Origin.Z, o.Origin.Z),
	}
	max := Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
	return Volume{
		Origin: min,
		Width:  max.X - min.X,
		Height: max.Y - min.Y,
		Depth:  max.Z - min.Z,
	}
}

// Contains reports whether o lies entirely inside v.
func (v Volume) Contains(o Volume) bool {
	a, b := v.Max(), o.Max()
	return o.Origin.X >= v.Origin.X && o.Origin.Y >= v.Origin.Y && o.Origin.Z >= v.Origin.Z &&
		b.X <= a.X && b.Y <= a.Y && b.Z <= a.Z
}
