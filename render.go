package sway

import "github.com/hajimehoshi/ebiten/v2"

// Draw paints the visible tree onto target. Nodes whose paint volume lies
// entirely outside target are skipped. Each visited node records its paint
// box, which grid effects prefer over the node's logical rectangle.
func (s *Scene) Draw(target *ebiten.Image) {
	s.drawNode(target, s.root, 0, 0)
}

// drawNode paints n and its children. (ox, oy) is the world position of
// n's parent.
func (s *Scene) drawNode(target *ebiten.Image, n *Node, ox, oy float64) {
	if !n.Visible {
		n.redraw = false
		return
	}

	// The layout box is what the node paints into before effects.
	n.setPaintBox(Box{X1: n.X, Y1: n.Y, X2: n.X + n.Width, Y2: n.Y + n.Height})

	pv := n.PaintVolume()
	if n.Image != nil && n.Opacity > 0 && !culled(target, pv, ox+n.X, oy+n.Y) {
		if g := runningGrid(n); g != nil {
			s.drawMesh(target, n, g, ox, oy)
		} else {
			s.drawImage(target, n, ox, oy)
		}
	}
	n.redraw = false

	for _, child := range n.children {
		s.drawNode(target, child, ox+n.X, oy+n.Y)
	}
}

// drawImage runs the paint chain: pivot, effect transforms, position.
func (s *Scene) drawImage(target *ebiten.Image, n *Node, ox, oy float64) {
	var op ebiten.DrawImageOptions
	px, py := n.PivotX*n.Width, n.PivotY*n.Height
	op.GeoM.Translate(-px, -py)
	for _, e := range n.effects {
		if t, ok := e.(*TransformEffect); ok {
			t.Paint(n, &op.GeoM)
		}
	}
	op.GeoM.Translate(px, py)
	op.GeoM.Translate(ox+n.X, oy+n.Y)
	op.ColorScale.ScaleAlpha(float32(n.Opacity) / 255)
	target.DrawImage(n.Image, &op)
}

// drawMesh draws the grid effect's mesh at its output box.
func (s *Scene) drawMesh(target *ebiten.Image, n *Node, g *GridEffect, ox, oy float64) {
	mesh := g.Mesh()
	if cap(s.vertBuf) < len(mesh.Vertices) {
		s.vertBuf = make([]ebiten.Vertex, len(mesh.Vertices))
	}
	verts := s.vertBuf[:len(mesh.Vertices)]

	box := g.OutputBox()
	dx := float32(ox + box.X1)
	dy := float32(oy + box.Y1)
	alpha := float32(n.Opacity) / 255
	for i, v := range mesh.Vertices {
		v.DstX += dx
		v.DstY += dy
		v.ColorR *= alpha
		v.ColorG *= alpha
		v.ColorB *= alpha
		v.ColorA *= alpha
		verts[i] = v
	}

	var op ebiten.DrawTrianglesOptions
	target.DrawTriangles(verts, mesh.Indices, n.Image, &op)
}

// runningGrid returns the first running grid effect on n.
func runningGrid(n *Node) *GridEffect {
	for _, e := range n.effects {
		if g, ok := e.(*GridEffect); ok && g.State() == AttachedRunning {
			return g
		}
	}
	return nil
}

// culled reports whether v, placed at world position (wx, wy), misses
// target entirely.
func culled(target *ebiten.Image, v Volume, wx, wy float64) bool {
	b := target.Bounds()
	x1, y1 := wx+v.Origin.X, wy+v.Origin.Y
	return x1+v.Width < float64(b.Min.X) || x1 > float64(b.Max.X) ||
		y1+v.Height < float64(b.Min.Y) || y1 > float64(b.Max.Y)
}
