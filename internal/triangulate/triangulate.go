// Package triangulate fills simple, non-crossing loops with triangles using
// the constrained Delaunay sweep from github.com/ByteArena/poly2tri-go.
//
// Loops follow the glyph orientation convention: in y-up coordinates a
// clockwise loop (positive Σ (x2−x1)(y2+y1)) bounds filled area and a
// counter-clockwise loop bounds a hole. A hole is attached to the smallest
// clockwise loop containing it. A counter-clockwise loop that no clockwise
// loop contains is filled, which is what a lobe of a resolved figure-eight
// needs.
package triangulate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ByteArena/poly2tri-go"
	"seehuhn.de/go/geom/vec"
)

// ErrTriangulation is returned when the sweep rejects its input.
var ErrTriangulation = errors.New("triangulate: constrained triangulation failed")

// nudge is how far a vertex repeated inside one sweep is moved, in the
// units of the input points.
const nudge = 1e-3

// Triangulate fills loops, given as index lists into points, and returns
// the vertex list together with three indices per triangle.
//
// The returned vertices start with points unchanged. When one sweep would
// see the same position twice (a hole touching its outer loop, say) the
// repeated occurrence is moved by a tiny amount and appended as a new
// vertex.
func Triangulate(points []vec.Vec2, loops [][]uint32) ([]vec.Vec2, []uint32, error) {
	t := &triangulation{vertices: append([]vec.Vec2(nil), points...)}

	var outers, holes []ring
	for _, l := range loops {
		r := t.clean(l)
		if len(r.idx) < 3 {
			continue
		}
		if r.area > 0 {
			outers = append(outers, r)
		} else {
			holes = append(holes, r)
		}
	}

	owned := make([][]ring, len(outers))
	for _, h := range holes {
		best := -1
		for i, o := range outers {
			if t.contains(o, h) && (best < 0 || o.area < outers[best].area) {
				best = i
			}
		}
		if best < 0 {
			outers = append(outers, h)
			owned = append(owned, nil)
			continue
		}
		owned[best] = append(owned[best], h)
	}

	for i, o := range outers {
		if err := t.sweep(o, owned[i]); err != nil {
			return nil, nil, err
		}
	}
	return t.vertices, t.indices, nil
}

// ring is one cleaned loop with its signed area.
type ring struct {
	idx  []uint32
	area float64
}

type triangulation struct {
	vertices []vec.Vec2
	indices  []uint32
}

// clean drops repeated and collinear vertices from loop, including across
// the wrap-around, and computes the signed area of what remains.
func (t *triangulation) clean(loop []uint32) ring {
	idx := loop
	for {
		idx = t.dedupe(idx)
		n := len(idx)
		if n < 3 {
			break
		}
		out := make([]uint32, 0, n)
		for i := range idx {
			prev := t.vertices[idx[(i+n-1)%n]]
			next := t.vertices[idx[(i+1)%n]]
			if !straight(prev, t.vertices[idx[i]], next) {
				out = append(out, idx[i])
			}
		}
		if len(out) == n {
			break
		}
		// Removing a vertex can make its neighbours collinear.
		idx = out
	}

	r := ring{idx: idx}
	for i := range idx {
		a, b := t.vertices[idx[i]], t.vertices[idx[(i+1)%len(idx)]]
		r.area += (b.X - a.X) * (b.Y + a.Y) / 2
	}
	return r
}

// dedupe drops every vertex at the same position as its successor.
func (t *triangulation) dedupe(idx []uint32) []uint32 {
	out := make([]uint32, 0, len(idx))
	for i, v := range idx {
		if t.vertices[v] != t.vertices[idx[(i+1)%len(idx)]] {
			out = append(out, v)
		}
	}
	return out
}

// straight reports whether cur lies on the line through prev and next.
func straight(prev, cur, next vec.Vec2) bool {
	d1, d2 := cur.Sub(prev), next.Sub(cur)
	c := d1.X*d2.Y - d1.Y*d2.X
	return math.Abs(c) <= 1e-9*d1.Length()*d2.Length()
}

// contains reports whether hole lies inside outer. Vertices on the boundary
// of outer are ignored; the rest vote.
func (t *triangulation) contains(outer, hole ring) bool {
	if -hole.area >= outer.area {
		return false
	}
	in, out := 0, 0
	for _, i := range hole.idx {
		switch t.locate(outer, t.vertices[i]) {
		case 1:
			in++
		case -1:
			out++
		}
	}
	return in > out
}

// locate returns 1 when p is strictly inside r, -1 when strictly outside and
// 0 when p is on the boundary.
func (t *triangulation) locate(r ring, p vec.Vec2) int {
	inside := false
	n := len(r.idx)
	for i := range r.idx {
		a, b := t.vertices[r.idx[i]], t.vertices[r.idx[(i+1)%n]]
		if onSegment(p, a, b) {
			return 0
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	if inside {
		return 1
	}
	return -1
}

func onSegment(p, a, b vec.Vec2) bool {
	ab, ap := b.Sub(a), p.Sub(a)
	if math.Abs(ab.X*ap.Y-ab.Y*ap.X) > 1e-9*ab.Length() {
		return false
	}
	d := ap.Dot(ab)
	return d >= 0 && d <= ab.Dot(ab)
}

// jitters are the offsets tried in turn when the sweep rejects a loop set.
// Exact collinear runs across loops trip its edge flipping; a small
// deterministic shift of the positions it sees breaks the tie. The
// vertices themselves are never moved, so a retry only changes how the
// loops are split into triangles.
var jitters = [...]float64{0, nudge / 100, nudge / 20, nudge / 5}

// sweep triangulates outer with its holes and appends the triangles.
func (t *triangulation) sweep(outer ring, holes []ring) error {
	loops := make([][]uint32, 0, 1+len(holes))
	seen := make(map[vec.Vec2]bool)
	for _, r := range append([]ring{outer}, holes...) {
		loops = append(loops, t.separate(r, seen))
	}

	var err error
	for attempt, scale := range jitters {
		var tris []uint32
		tris, err = t.sweepOnce(loops, uint64(attempt), scale)
		if err == nil {
			t.indices = append(t.indices, tris...)
			return nil
		}
	}
	return err
}

// separate returns the indices of r, with each position the sweep has seen
// already replaced by a nudged copy appended to the vertices.
func (t *triangulation) separate(r ring, seen map[vec.Vec2]bool) []uint32 {
	out := make([]uint32, len(r.idx))
	n := len(r.idx)
	for k, i := range r.idx {
		p := t.vertices[i]
		if seen[p] {
			prev := t.vertices[r.idx[(k+n-1)%n]]
			next := t.vertices[r.idx[(k+1)%n]]
			p = moved(p, prev, next)
			i = uint32(len(t.vertices))
			t.vertices = append(t.vertices, p)
		}
		seen[p] = true
		out[k] = i
	}
	return out
}

// sweepOnce runs one constrained sweep over loops, the first being the
// outer loop, and returns three indices per triangle. Every position is
// shifted by up to scale in each coordinate, drawn from a generator seeded
// with seed.
func (t *triangulation) sweepOnce(loops [][]uint32, seed uint64, scale float64) (tris []uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			tris, err = nil, fmt.Errorf("%w: %v", ErrTriangulation, r)
		}
	}()

	rng := rand.New(rand.NewPCG(seed, uint64(len(t.vertices))))
	index := make(map[*poly2tri.Point]uint32)
	convert := func(loop []uint32) []*poly2tri.Point {
		pts := make([]*poly2tri.Point, len(loop))
		for k, i := range loop {
			p := t.vertices[i]
			if scale > 0 {
				p.X += (rng.Float64()*2 - 1) * scale
				p.Y += (rng.Float64()*2 - 1) * scale
			}
			pts[k] = poly2tri.NewPoint(p.X, p.Y)
			index[pts[k]] = i
		}
		return pts
	}

	ctx := poly2tri.NewSweepContext(convert(loops[0]), false)
	for _, h := range loops[1:] {
		ctx.AddHole(convert(h))
	}
	ctx.Triangulate()

	for _, tr := range ctx.GetTriangles() {
		for _, p := range tr.Points {
			i, ok := index[p]
			if !ok {
				return nil, fmt.Errorf("%w: triangle references a point outside the input", ErrTriangulation)
			}
			tris = append(tris, i)
		}
	}
	return tris, nil
}

// moved shifts p a little towards the midpoint of its neighbours, which for
// a corner points into the region the corner bounds.
func moved(p, prev, next vec.Vec2) vec.Vec2 {
	mid := prev.Add(next).Mul(0.5)
	d := mid.Sub(p)
	l := d.Length()
	if l == 0 {
		// Straight corners were removed by clean, so this only happens for
		// spikes; step along the outgoing edge instead.
		d = next.Sub(p)
		l = d.Length()
	}
	step := math.Min(nudge, l/4)
	return p.Add(d.Mul(step / l))
}
