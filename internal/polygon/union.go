package polygon

import "seehuhn.de/go/geom/vec"

// Union merges two polygons over the same pool into one polygon of simple
// contours covering the area filled by either, under the nonzero rule.
//
// Both inputs are resolved first. Edges of one polygon are then split where
// they touch or cross edges of the other, with crossing vertices appended to
// pool. Only edges that separate filled from empty area survive: coincident
// edges running opposite ways cancel, coincident edges running the same way
// collapse to one, and edges buried inside the other polygon's fill are
// dropped. The survivors are walked from the intersections into closed
// loops. Contours that meet nothing keep their edges as they are.
//
// pool is owned by the caller for the duration of the call.
func Union(pool *Pool, first, second Polygon) (Polygon, error) {
	a, err := ResolveAll(pool, first)
	if err != nil {
		return nil, err
	}
	b, err := ResolveAll(pool, second)
	if err != nil {
		return nil, err
	}

	all := append(append(Polygon{}, a...), b...)
	arr := newArrangement(pool, all.EdgeCount())
	arr.weld(all)
	a, b = dropEmpty(a), dropEmpty(b)
	all = append(append(Polygon{}, a...), b...)

	for _, step := range []func() error{
		func() error { return arr.splitAtVertices(a, b) },
		func() error { return arr.splitAtVertices(b, a) },
		func() error { return arr.splitCrossings(a, b) },
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}

	w := newWalker(pool, unionTieBreak)
	classify(pool, all, w)
	loops, _, err := w.walk(arr.splits)
	if err != nil {
		return nil, err
	}
	out := make(Polygon, 0, len(loops))
	for _, l := range loops {
		out = append(out, NewContour(l...))
	}
	return out, nil
}

func dropEmpty(p Polygon) Polygon {
	out := p[:0]
	for _, c := range p {
		if c.Len() >= 3 {
			out = append(out, c)
		}
	}
	return out
}

type member struct {
	contour int
	forward bool
}

// classify adds to w one edge for every group of coincident edges that
// separates filled from empty area, directed so that the winding number
// grows from its left side to its right side.
//
// For a group lying on segment (lo, hi) the winding number just left and
// right of it is the winding of every other contour at the midpoint plus
// what each member contributes on either side. A member contour is simple,
// so its own interior is on its right when it is clockwise and on its left
// otherwise.
func classify(pool *Pool, contours Polygon, w *walker) {
	edges := make([][]Edge, len(contours))
	orient := make([]Orientation, len(contours))
	for i, c := range contours {
		edges[i] = c.EdgeSlice()
		orient[i] = c.Orientation(pool)
	}

	type key [2]uint32
	groups := make(map[key][]member)
	var order []key
	for ci, es := range edges {
		for _, e := range es {
			k, fwd := key{e.From, e.To}, true
			if e.From > e.To {
				k, fwd = key{e.To, e.From}, false
			}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], member{contour: ci, forward: fwd})
		}
	}

	for _, k := range order {
		ms := groups[k]
		lo, hi := pool.At(k[0]), pool.At(k[1])
		mid := vec.Vec2{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}

		other := 0
		for ci := range contours {
			if !hasMember(ms, ci) {
				other += winding(pool, edges[ci], mid)
			}
		}
		left, right := other, other
		for _, m := range ms {
			inside := 0
			if orient[m.contour] == CCW {
				inside = -1
			}
			if m.forward {
				left, right = left+inside, right+inside+1
			} else {
				left, right = left+inside+1, right+inside
			}
		}
		if (left == 0) == (right == 0) {
			continue
		}

		e := Edge{From: k[0], To: k[1]}
		if right < left {
			e = e.Reversed()
		}
		o := orient[ms[0].contour]
		for _, m := range ms {
			if m.forward == (e.From == k[0]) {
				o = orient[m.contour]
				break
			}
		}
		w.addEdge(e, o, -1)
	}
}

func hasMember(ms []member, contour int) bool {
	for _, m := range ms {
		if m.contour == contour {
			return true
		}
	}
	return false
}
