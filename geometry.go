package sway

import "math"

// paintMargin pads paint boxes on every side to absorb rounding in the
// host's own box consumers.
const paintMargin = 1.0

// paintBoxFromVolume returns the parent-space box covering v, which is
// expressed relative to the node's position. The origin is floored and the
// size rounded up, so every edge is integral, and the box grows by
// paintMargin on each side.
func paintBoxFromVolume(n *Node, v Volume) Box {
	x1 := math.Floor(n.X+v.Origin.X) - paintMargin
	y1 := math.Floor(n.Y+v.Origin.Y) - paintMargin
	return Box{
		X1: x1,
		Y1: y1,
		X2: x1 + math.Ceil(v.Width) + 2*paintMargin,
		Y2: y1 + math.Ceil(v.Height) + 2*paintMargin,
	}
}

// bestKnownPaintExtents returns the box the host last painted the node into,
// or the node's logical rectangle when it has not been painted yet.
func bestKnownPaintExtents(n *Node) Box {
	if b, ok := n.PaintBox(); ok {
		return b
	}
	return Box{n.X, n.Y, n.X + n.Width, n.Y + n.Height}
}

// cornersAndOffsetFromVolume returns the corners of v's paint box in node
// space (TL, TR, BL, BR) and the offset of the paint box origin from the
// node position. The offset is handed back to expandVolumeWithExtremes to
// strip the padding again. TransformModel.Extremes receives these node-local
// corners, not parent-space ones.
func cornersAndOffsetFromVolume(n *Node, v Volume) ([4]Vec3, Vec2) {
	pb := paintBoxFromVolume(n, v)
	local := Box{pb.X1 - n.X, pb.Y1 - n.Y, pb.X2 - n.X, pb.Y2 - n.Y}
	return local.Corners(v.Origin.Z), Vec2{local.X1, local.Y1}
}

// expandVolumeWithExtremes unions into v the box spanned by the extremal
// points of the four corners produced by cornersAndOffsetFromVolume.
//
//	x1 = min(e0.x, e2.x) - off.x    x2 = max(e1.x, e3.x) + off.x
//	y1 = min(e0.y, e1.y) - off.y    y2 = max(e2.y, e3.y) + off.y
func expandVolumeWithExtremes(v *Volume, e [4]Vec3, off Vec2) {
	x1 := math.Min(e[0].X, e[2].X) - off.X
	y1 := math.Min(e[0].Y, e[1].Y) - off.Y
	x2 := math.Max(e[1].X, e[3].X) + off.X
	y2 := math.Max(e[2].Y, e[3].Y) + off.Y
	z1, z2 := zRange(e)

	*v = v.Union(Volume{
		Origin: Vec3{x1, y1, z1},
		Width:  x2 - x1,
		Height: y2 - y1,
		Depth:  z2 - z1,
	})
}

// extremesBox aggregates four extremal corners per axis: X from the left
// (0, 2) and right (1, 3) pairs, Y from the top (0, 1) and bottom (2, 3)
// pairs, Z across all four. Width and height never drop below 1.
func extremesBox(e [4]Vec3) Volume {
	x1 := math.Min(e[0].X, e[2].X)
	x2 := math.Max(e[1].X, e[3].X)
	y1 := math.Min(e[0].Y, e[1].Y)
	y2 := math.Max(e[2].Y, e[3].Y)
	z1, z2 := zRange(e)
	return Volume{
		Origin: Vec3{x1, y1, z1},
		Width:  math.Max(x2-x1, 1),
		Height: math.Max(y2-y1, 1),
		Depth:  z2 - z1,
	}
}

func zRange(e [4]Vec3) (float64, float64) {
	lo, hi := e[0].Z, e[0].Z
	for _, p := range e[1:] {
		lo = math.Min(lo, p.Z)
		hi = math.Max(hi, p.Z)
	}
	return lo, hi
}
