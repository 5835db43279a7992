package sway

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// defaultTiles is the default grid subdivision along each axis.
	defaultTiles = 20
	// maxTiles keeps vertex indices within uint16.
	maxTiles = 255
)

// GridMesh is a (tilesX+1) x (tilesY+1) vertex grid over a node. Each vertex
// carries normalized texture coordinates; Deform moves the vertices and the
// host draws the grid with DrawTriangles.
type GridMesh struct {
	tilesX, tilesY int

	Vertices []ebiten.Vertex
	Indices  []uint16

	tex  []Vec2 // normalized coordinates per vertex
	texW float64
	texH float64

	bounds      Box
	boundsDirty bool
}

// NewGridMesh builds an undeformed grid. Tile counts are clamped to [1, 255].
func NewGridMesh(tilesX, tilesY int) *GridMesh {
	g := &GridMesh{}
	g.SetTiles(tilesX, tilesY)
	return g
}

// Tiles returns the subdivision.
func (g *GridMesh) Tiles() (x, y int) {
	return g.tilesX, g.tilesY
}

// SetTiles rebuilds the grid with a new subdivision. Vertex positions are
// reset to the texture coordinates until the next Deform.
func (g *GridMesh) SetTiles(tilesX, tilesY int) {
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}
	tilesX = min(tilesX, maxTiles)
	tilesY = min(tilesY, maxTiles)
	g.tilesX, g.tilesY = tilesX, tilesY

	vcols := tilesX + 1
	vrows := tilesY + 1
	numVerts := vcols * vrows
	numInds := tilesX * tilesY * 6

	// Grow to high-water mark.
	if cap(g.Vertices) < numVerts {
		g.Vertices = make([]ebiten.Vertex, numVerts)
		g.tex = make([]Vec2, numVerts)
	}
	g.Vertices = g.Vertices[:numVerts]
	g.tex = g.tex[:numVerts]
	if cap(g.Indices) < numInds {
		g.Indices = make([]uint16, numInds)
	}
	g.Indices = g.Indices[:numInds]

	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			idx := r*vcols + c
			uv := Vec2{float64(c) / float64(tilesX), float64(r) / float64(tilesY)}
			g.tex[idx] = uv
			g.Vertices[idx] = ebiten.Vertex{
				DstX: float32(uv.X), DstY: float32(uv.Y),
				SrcX: float32(uv.X * g.texW), SrcY: float32(uv.Y * g.texH),
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			}
		}
	}

	ii := 0
	for r := 0; r < tilesY; r++ {
		for c := 0; c < tilesX; c++ {
			tl := uint16(r*vcols + c)
			tr := tl + 1
			bl := uint16((r+1)*vcols + c)
			br := bl + 1
			g.Indices[ii+0] = tl
			g.Indices[ii+1] = bl
			g.Indices[ii+2] = tr
			g.Indices[ii+3] = tr
			g.Indices[ii+4] = bl
			g.Indices[ii+5] = br
			ii += 6
		}
	}
	g.boundsDirty = true
}

// SetTextureSize scales the source coordinates to a w x h image.
func (g *GridMesh) SetTextureSize(w, h float64) {
	if g.texW == w && g.texH == h {
		return
	}
	g.texW, g.texH = w, h
	for i, uv := range g.tex {
		g.Vertices[i].SrcX = float32(uv.X * w)
		g.Vertices[i].SrcY = float32(uv.Y * h)
	}
}

// TexCoord returns the normalized texture coordinates of vertex (col, row).
func (g *GridMesh) TexCoord(col, row int) Vec2 {
	return g.tex[row*(g.tilesX+1)+col]
}

// Deform calls fn once per vertex with its normalized texture coordinates
// and stores the returned position.
func (g *GridMesh) Deform(fn func(u, v float64) (x, y float64)) {
	for i, uv := range g.tex {
		x, y := fn(uv.X, uv.Y)
		g.Vertices[i].DstX = float32(x)
		g.Vertices[i].DstY = float32(y)
	}
	g.boundsDirty = true
}

// Bounds returns the box spanned by the current vertex positions.
func (g *GridMesh) Bounds() Box {
	if !g.boundsDirty {
		return g.bounds
	}
	g.bounds = computeMeshBounds(g.Vertices)
	g.boundsDirty = false
	return g.bounds
}

// computeMeshBounds scans DstX/DstY of the given vertices.
func computeMeshBounds(verts []ebiten.Vertex) Box {
	if len(verts) == 0 {
		return Box{}
	}
	b := Box{
		X1: math.Inf(1), Y1: math.Inf(1),
		X2: math.Inf(-1), Y2: math.Inf(-1),
	}
	for i := range verts {
		x := float64(verts[i].DstX)
		y := float64(verts[i].DstY)
		b.X1 = math.Min(b.X1, x)
		b.Y1 = math.Min(b.Y1, y)
		b.X2 = math.Max(b.X2, x)
		b.Y2 = math.Max(b.Y2, y)
	}
	return b
}
