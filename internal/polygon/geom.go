package polygon

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

const (
	// epsilon gates the determinants of the line-line intersection test.
	// Nearly parallel edges are treated as not intersecting.
	epsilon = 1e-6

	// onEdgeTolerance is the distance within which a point counts as lying
	// on an edge.
	onEdgeTolerance = 1e-3

	// boundsSlack absorbs rounding in bounding-box checks.
	boundsSlack = 1e-7
)

// Edge is a directed edge between two vertices of a Pool.
type Edge struct {
	From uint32
	To   uint32
}

// Reversed returns the edge traversed the other way.
func (e Edge) Reversed() Edge {
	return Edge{From: e.To, To: e.From}
}

// Inverse reports whether o is e traversed the other way.
func (e Edge) Inverse(o Edge) bool {
	return e.From == o.To && e.To == o.From
}

// SharesEndpoint reports whether e and o have a vertex in common.
func (e Edge) SharesEndpoint(o Edge) bool {
	return e.From == o.From || e.From == o.To || e.To == o.From || e.To == o.To
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}

// Curve is one quadratic Bézier segment given by vertex indices.
type Curve struct {
	Start   uint32
	Control uint32
	End     uint32
}

// Orientation is the winding direction of a closed contour.
type Orientation uint8

const (
	// CW contours enclose filled area. Their signed area is positive.
	CW Orientation = iota
	// CCW contours enclose holes. Their signed area is negative.
	CCW
)

func (o Orientation) String() string {
	switch o {
	case CW:
		return "CW"
	case CCW:
		return "CCW"
	default:
		return fmt.Sprintf("Orientation(%d)", o)
	}
}

// orientationOf maps a signed area onto an Orientation.
func orientationOf(area float64) Orientation {
	if area < 0 {
		return CCW
	}
	return CW
}

// shoelace returns the signed-area contribution of the edge a->b.
// Summed over a closed loop in y-up coordinates it is positive for
// clockwise loops.
func shoelace(a, b vec.Vec2) float64 {
	return (b.X - a.X) * (b.Y + a.Y) / 2
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func det(a, b, c, d float64) float64 {
	return a*d - b*c
}

func inBounds(p, a, b vec.Vec2, slack float64) bool {
	return p.X >= math.Min(a.X, b.X)-slack && p.X <= math.Max(a.X, b.X)+slack &&
		p.Y >= math.Min(a.Y, b.Y)-slack && p.Y <= math.Max(a.Y, b.Y)+slack
}

// Intersect returns the point where segments p1p2 and p3p4 cross.
// Parallel or nearly parallel segments, and segments where p1 lies on the
// line through p3p4, never intersect here; touches are found by OnEdge.
func Intersect(p1, p2, p3, p4 vec.Vec2) (vec.Vec2, bool) {
	det1 := det(p1.X-p2.X, p1.Y-p2.Y, p3.X-p4.X, p3.Y-p4.Y)
	det2 := det(p1.X-p3.X, p1.Y-p3.Y, p3.X-p4.X, p3.Y-p4.Y)
	if math.Abs(det1) < epsilon || math.Abs(det2) < epsilon {
		return vec.Vec2{}, false
	}
	a := det(p1.X, p1.Y, p2.X, p2.Y)
	b := det(p3.X, p3.Y, p4.X, p4.Y)
	x := vec.Vec2{
		X: det(a, p1.X-p2.X, b, p3.X-p4.X) / det1,
		Y: det(a, p1.Y-p2.Y, b, p3.Y-p4.Y) / det1,
	}
	if !inBounds(x, p1, p2, boundsSlack) || !inBounds(x, p3, p4, boundsSlack) {
		return vec.Vec2{}, false
	}
	return x, true
}

// OnEdge reports whether p lies on the segment ab: inside its bounding box
// and with a vanishing cross product against the edge direction.
func OnEdge(p, a, b vec.Vec2) bool {
	if !inBounds(p, a, b, onEdgeTolerance) {
		return false
	}
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return p.Sub(a).Length() < onEdgeTolerance
	}
	return math.Abs(cross(p.Sub(b), d))/l < onEdgeTolerance
}

// strictlyInside reports whether p lies on ab away from both endpoints and
// returns its parameter along the edge.
func strictlyInside(p, a, b vec.Vec2) (float64, bool) {
	if !OnEdge(p, a, b) {
		return 0, false
	}
	if p.Sub(a).Length() < onEdgeTolerance || p.Sub(b).Length() < onEdgeTolerance {
		return 0, false
	}
	d := b.Sub(a)
	return p.Sub(a).Dot(d) / d.Dot(d), true
}

// turn returns the signed angle from direction in to direction out.
// Positive angles turn left (counter-clockwise) in y-up coordinates.
func turn(in, out vec.Vec2) float64 {
	return math.Atan2(cross(in, out), in.Dot(out))
}

// IsOnLeftSide reports whether p lies left of the directed line a->b.
func IsOnLeftSide(a, b, p vec.Vec2) bool {
	return cross(b.Sub(a), p.Sub(a)) > 0
}

// winding returns the winding number of the closed edge loop around p,
// counting clockwise loops as +1 to match the fill convention.
func winding(pool *Pool, edges []Edge, p vec.Vec2) int {
	wn := 0
	for _, e := range edges {
		a, b := pool.At(e.From), pool.At(e.To)
		switch {
		case a.Y <= p.Y && b.Y > p.Y:
			if cross(b.Sub(a), p.Sub(a)) > 0 {
				wn++
			}
		case a.Y > p.Y && b.Y <= p.Y:
			if cross(b.Sub(a), p.Sub(a)) < 0 {
				wn--
			}
		}
	}
	return -wn
}
