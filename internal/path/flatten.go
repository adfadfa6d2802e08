// Package path flattens quadratic Bézier curves into polylines.
package path

import (
	"slices"

	"seehuhn.de/go/geom/vec"
)

// DefaultThreshold is the flattening error budget: one pixel at the target
// size.
const DefaultThreshold = 1.0

// MaxDepth bounds the recursion; at depth 16 the parameter step is 2^-17.
const MaxDepth = 16

// Eval returns the point of the quadratic curve p0, p1, p2 at t.
func Eval(p0, p1, p2 vec.Vec2, t float64) vec.Vec2 {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
}

// FlattenQuad returns the sorted parameters, 0 and 1 included, at which the
// curve p0, p1, p2 is sampled so that consecutive samples stay within
// threshold of each other and of the curve between them.
//
// Only parameters are returned so the caller can evaluate them in any
// coordinate space; the control points here are usually scaled to pixels
// at the target size while the vertices live in design units.
func FlattenQuad(p0, p1, p2 vec.Vec2, threshold float64) []float64 {
	f := flattener{
		p0:        p0,
		p1:        p1,
		p2:        p2,
		threshold: threshold,
		// |p0 - 2p1 + p2| / 4 scaled by delta^2 bounds the distance between
		// a parameter span of width delta and its chord.
		bend: p0.Sub(p1.Mul(2)).Add(p2).Length() / 4,
		ts:   []float64{0, 1},
	}
	f.subdivide(0.5, 0.5, 0)
	slices.Sort(f.ts)
	return slices.Compact(f.ts)
}

type flattener struct {
	p0, p1, p2 vec.Vec2
	threshold  float64
	bend       float64
	ts         []float64
}

// subdivide adds t and recurses into each half of [t-delta, t+delta] that
// is still too coarse.
func (f *flattener) subdivide(t, delta float64, depth int) {
	f.ts = append(f.ts, t)
	if depth >= MaxDepth {
		return
	}
	mid := Eval(f.p0, f.p1, f.p2, t)
	flat := f.bend*delta*delta <= f.threshold
	left := Eval(f.p0, f.p1, f.p2, t-delta)
	if !flat || f.coarse(mid, left) {
		f.subdivide(t-delta/2, delta/2, depth+1)
	}
	right := Eval(f.p0, f.p1, f.p2, t+delta)
	if !flat || f.coarse(mid, right) {
		f.subdivide(t+delta/2, delta/2, depth+1)
	}
}

// coarse reports whether the chord between two distinct samples is longer
// than the threshold.
func (f *flattener) coarse(a, b vec.Vec2) bool {
	if a == b {
		return false
	}
	return a.Sub(b).Length() > f.threshold
}

// Points evaluates the curve at every parameter in ts.
func Points(p0, p1, p2 vec.Vec2, ts []float64) []vec.Vec2 {
	out := make([]vec.Vec2, len(ts))
	for i, t := range ts {
		out[i] = Eval(p0, p1, p2, t)
	}
	return out
}
