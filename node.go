package sway

import (
	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; sway is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Property names a node field that observers can watch.
type Property uint8

const (
	PropX      Property = iota // horizontal position
	PropY                      // vertical position
	PropWidth                  // width
	PropHeight                 // height
)

func (p Property) String() string {
	switch p {
	case PropX:
		return "x"
	case PropY:
		return "y"
	case PropWidth:
		return "width"
	case PropHeight:
		return "height"
	default:
		return "unknown"
	}
}

// ObserverID identifies a registration made with Node.Observe.
type ObserverID uint64

type observer struct {
	id   ObserverID
	prop Property
	fn   func(n *Node, p Property)
}

// --- Node ---

// Node is a positioned, sized element of the scene. Effects read and write
// its opacity, transform, visibility and paint volume while attached; the
// node never belongs to an effect.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Geometry (parent space). Use SetPosition and SetSize so observers fire.
	X, Y          float64
	Width, Height float64

	// Pivot for the node transform, normalized to the node size.
	PivotX, PivotY float64

	// Appearance
	Opacity   uint8
	Visible   bool
	Transform math32.Matrix4
	Image     *ebiten.Image

	effects []Effect

	observers  []observer
	observerID ObserverID

	// Host paint state
	paintBox    Box
	hasPaintBox bool
	redraw      bool
	volumeDirty bool

	disposed bool
}

// NewNode creates an empty, visible, fully opaque node.
func NewNode(name string) *Node {
	return &Node{
		ID:        nextNodeID(),
		Name:      name,
		Opacity:   255,
		Visible:   true,
		Transform: *math32.Identity4(),
	}
}

// NewSprite creates a node sized to img.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := NewNode(name)
	n.Image = img
	if img != nil {
		b := img.Bounds()
		n.Width = float64(b.Dx())
		n.Height = float64(b.Dy())
	}
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("sway: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	for p := n; p != nil; p = p.Parent {
		if p == child {
			panic("sway: adding child would create a cycle")
		}
	}
	child.RemoveFromParent()
	child.Parent = n
	n.children = append(n.children, child)
	n.QueueRedraw()
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("sway: child's parent is not this node")
	}
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			break
		}
	}
	child.Parent = nil
	child.clearPaintBox()
	n.QueueRedraw()
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// Dispose detaches every effect, removes the node from its parent and
// recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	for len(n.effects) > 0 {
		n.RemoveEffect(n.effects[len(n.effects)-1])
	}
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.observers = nil
	n.Image = nil
	n.disposed = true
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Geometry ---

// SetPosition moves the node and notifies PropX and PropY observers for the
// coordinates that changed. The last paint box is dropped until the next
// Draw, since it no longer matches the layout.
func (n *Node) SetPosition(x, y float64) {
	ox, oy := n.X, n.Y
	if ox == x && oy == y {
		return
	}
	n.X, n.Y = x, y
	n.clearPaintBox()
	if ox != x {
		n.notify(PropX)
	}
	if oy != y {
		n.notify(PropY)
	}
	n.QueueRedraw()
}

// SetSize resizes the node and notifies PropWidth and PropHeight observers
// for the dimensions that changed.
func (n *Node) SetSize(w, h float64) {
	ow, oh := n.Width, n.Height
	if ow == w && oh == h {
		return
	}
	n.Width, n.Height = w, h
	n.clearPaintBox()
	if ow != w {
		n.notify(PropWidth)
	}
	if oh != h {
		n.notify(PropHeight)
	}
	n.InvalidateVolume()
}

// SetPivot sets the normalized transform pivot.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.QueueRedraw()
}

// --- Appearance ---

// SetOpacity sets the 8-bit opacity.
func (n *Node) SetOpacity(o uint8) {
	if n.Opacity == o {
		return
	}
	n.Opacity = o
	n.QueueRedraw()
}

// SetTransform replaces the node transform. The transform changes what the
// node paints, so the paint volume is invalidated too.
func (n *Node) SetTransform(m math32.Matrix4) {
	n.Transform = m
	n.InvalidateVolume()
}

// ResetTransform restores the identity transform.
func (n *Node) ResetTransform() {
	n.SetTransform(*math32.Identity4())
}

// Show makes the node visible.
func (n *Node) Show() {
	if n.Visible {
		return
	}
	n.Visible = true
	n.QueueRedraw()
}

// Hide makes the node invisible.
func (n *Node) Hide() {
	if !n.Visible {
		return
	}
	n.Visible = false
	n.QueueRedraw()
}

// QueueRedraw asks the host to repaint the node on the next Draw.
func (n *Node) QueueRedraw() {
	n.redraw = true
}

// RedrawQueued reports whether a repaint is pending.
func (n *Node) RedrawQueued() bool {
	return n.redraw
}

// InvalidateVolume marks the paint volume stale and queues a redraw.
func (n *Node) InvalidateVolume() {
	n.volumeDirty = true
	n.QueueRedraw()
}

// VolumeDirty reports whether the paint volume changed since the host last
// queried it.
func (n *Node) VolumeDirty() bool {
	return n.volumeDirty
}

// --- Paint volume ---

// Volume returns the node's own paint volume in local space, before any
// effect widens it.
func (n *Node) Volume() Volume {
	return Volume{Width: n.Width, Height: n.Height}
}

// PaintVolume returns the node's volume after every enabled effect has had
// a chance to widen it. The host culls and tracks damage with this.
func (n *Node) PaintVolume() Volume {
	v := n.Volume()
	for _, e := range n.effects {
		v = e.ComputeVolume(n, v)
	}
	n.volumeDirty = false
	return v
}

// PaintBox returns the parent-space box the host last painted the node
// into. ok is false until the node has been painted.
func (n *Node) PaintBox() (b Box, ok bool) {
	return n.paintBox, n.hasPaintBox
}

func (n *Node) setPaintBox(b Box) {
	n.paintBox = b
	n.hasPaintBox = true
}

func (n *Node) clearPaintBox() {
	n.paintBox = Box{}
	n.hasPaintBox = false
}

// --- Observers ---

// Observe registers fn to run whenever p changes. fn runs synchronously on
// the goroutine that changed the property.
func (n *Node) Observe(p Property, fn func(n *Node, p Property)) ObserverID {
	n.observerID++
	n.observers = append(n.observers, observer{id: n.observerID, prop: p, fn: fn})
	return n.observerID
}

// Unobserve removes a registration. Unknown ids are ignored.
func (n *Node) Unobserve(id ObserverID) {
	for i, o := range n.observers {
		if o.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

// ObserverCount returns the number of live registrations.
func (n *Node) ObserverCount() int {
	return len(n.observers)
}

// notify runs the observers of p registered when the change happened.
// Observers removed by an earlier callback are skipped.
func (n *Node) notify(p Property) {
	if len(n.observers) == 0 {
		return
	}
	obs := append([]observer(nil), n.observers...)
	for _, o := range obs {
		if o.prop == p && n.observing(o.id) {
			o.fn(n, p)
		}
	}
}

func (n *Node) observing(id ObserverID) bool {
	for _, o := range n.observers {
		if o.id == id {
			return true
		}
	}
	return false
}

// --- Effects ---

// AddEffect attaches e to this node. An effect attached to another node is
// moved here.
func (n *Node) AddEffect(e Effect) {
	if globalDebug {
		debugCheckDisposed(n, "AddEffect")
	}
	for _, have := range n.effects {
		if have == e {
			return
		}
	}
	e.Attach(n)
	n.effects = append(n.effects, e)
	n.InvalidateVolume()
}

// RemoveEffect detaches e. No-op if e is not attached to this node.
func (n *Node) RemoveEffect(e Effect) {
	if !n.dropEffect(e) {
		return
	}
	e.Detach()
	n.InvalidateVolume()
}

// Effects returns the attached effects. The returned slice MUST NOT be mutated.
func (n *Node) Effects() []Effect {
	return n.effects
}

// dropEffect removes e from the list without calling Detach.
func (n *Node) dropEffect(e Effect) bool {
	for i, have := range n.effects {
		if have == e {
			copy(n.effects[i:], n.effects[i+1:])
			n.effects[len(n.effects)-1] = nil
			n.effects = n.effects[:len(n.effects)-1]
			return true
		}
	}
	return false
}
