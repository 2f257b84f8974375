package texgraph

import (
	"fmt"
	"math"
)

// Document extent, in document coordinates.
const (
	DocWidth  = 1024
	DocMargin = 256
)

// Bounds is an axis aligned rectangle.
type Bounds struct {
	XMin, YMin float64
	XMax, YMax float64
}

// EmptyBounds returns bounds that contain nothing and grow to fit the first
// vertex added.
func EmptyBounds() Bounds {
	return Bounds{XMin: math.Inf(1), YMin: math.Inf(1), XMax: math.Inf(-1), YMax: math.Inf(-1)}
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// Empty reports whether b has no area.
func (b Bounds) Empty() bool {
	return b.XMax <= b.XMin || b.YMax <= b.YMin
}

// Contains reports whether the point lies within b or on its edge.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// ExpandVertex returns b grown to include the point.
func (b Bounds) ExpandVertex(x, y float64) Bounds {
	return Bounds{
		XMin: min(b.XMin, x),
		YMin: min(b.YMin, y),
		XMax: max(b.XMax, x),
		YMax: max(b.YMax, y),
	}
}

// Union returns the smallest bounds containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		XMin: min(b.XMin, o.XMin),
		YMin: min(b.YMin, o.YMin),
		XMax: max(b.XMax, o.XMax),
		YMax: max(b.YMax, o.YMax),
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("Bounds(%g, %g, %g, %g)", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Bounds returns the scrollable extent of the document: a square of side
// DocWidth centered on the origin, grown to keep DocMargin around every
// node.
func (g *Graph) Bounds() Bounds {
	b := Bounds{XMin: -DocWidth / 2, YMin: -DocWidth / 2, XMax: DocWidth / 2, YMax: DocWidth / 2}
	for _, n := range g.nodes {
		b = b.ExpandVertex(n.X-DocMargin, n.Y-DocMargin)
		b = b.ExpandVertex(n.X+NodeWidth+DocMargin, n.Y+NodeHeight+DocMargin)
	}
	return b
}
