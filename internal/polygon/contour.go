package polygon

import (
	"math"

	"github.com/gogpu/glyphmesh/internal/ring"
)

// Contour is one closed loop of directed edges over a Pool.
type Contour struct {
	Edges *ring.List[Edge]
}

// NewContour returns a contour holding edges in traversal order.
func NewContour(edges ...Edge) *Contour {
	return &Contour{Edges: ring.New(edges...)}
}

// LoopContour returns the closed contour visiting vertices in order.
func LoopContour(vertices ...uint32) *Contour {
	c := NewContour()
	for i, v := range vertices {
		c.Edges.InsertLast(Edge{From: v, To: vertices[(i+1)%len(vertices)]})
	}
	return c
}

// Len returns the number of edges.
func (c *Contour) Len() int {
	return c.Edges.Len()
}

// Clone returns a deep copy.
func (c *Contour) Clone() *Contour {
	return &Contour{Edges: c.Edges.Clone()}
}

// EdgeSlice returns the edges in traversal order.
func (c *Contour) EdgeSlice() []Edge {
	return c.Edges.Values()
}

// Vertices returns the start vertex of every edge in traversal order.
func (c *Contour) Vertices() []uint32 {
	out := make([]uint32, 0, c.Len())
	for _, e := range c.Edges.All() {
		out = append(out, e.From)
	}
	return out
}

// Closed reports whether every edge ends where its successor starts.
func (c *Contour) Closed() bool {
	if c.Len() == 0 {
		return false
	}
	for h, e := range c.Edges.All() {
		if e.To != c.Edges.Value(c.Edges.Next(h)).From {
			return false
		}
	}
	return true
}

// SignedArea returns the shoelace area, positive for clockwise contours.
func (c *Contour) SignedArea(pool *Pool) float64 {
	var area float64
	for _, e := range c.Edges.All() {
		area += shoelace(pool.At(e.From), pool.At(e.To))
	}
	return area
}

// Orientation derives the winding direction from the signed area.
func (c *Contour) Orientation(pool *Pool) Orientation {
	return orientationOf(c.SignedArea(pool))
}

// Polygon is a set of contours sharing one Pool.
type Polygon []*Contour

// Area returns the filled area: clockwise contours add, holes subtract.
func (p Polygon) Area(pool *Pool) float64 {
	var area float64
	for _, c := range p {
		area += c.SignedArea(pool)
	}
	return area
}

// Clone deep-copies every contour.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

// EdgeCount returns the total number of edges.
func (p Polygon) EdgeCount() int {
	n := 0
	for _, c := range p {
		n += c.Len()
	}
	return n
}

// degenerate reports whether a loop encloses no area worth keeping.
func degenerate(pool *Pool, edges []Edge) bool {
	if len(edges) < 3 {
		return true
	}
	var area float64
	for _, e := range edges {
		area += shoelace(pool.At(e.From), pool.At(e.To))
	}
	return math.Abs(area) < minLoopArea
}

// minLoopArea drops slivers left behind by cancelled edges.
const minLoopArea = 1e-9
