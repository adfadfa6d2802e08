package polygon

import (
	"errors"
	"slices"

	"seehuhn.de/go/geom/vec"

	"github.com/gogpu/glyphmesh/internal/ring"
)

var (
	// ErrNoOutgoingEdge is the invariant violation raised when a walk reaches
	// a vertex that should have an unused outgoing edge but has none.
	ErrNoOutgoingEdge = errors.New("polygon: no outgoing edge during contour walk")

	// ErrOpenContour is returned for a contour whose edges do not chain.
	ErrOpenContour = errors.New("polygon: contour is not closed")

	// ErrSplitLimit is returned when edge splitting does not converge.
	ErrSplitLimit = errors.New("polygon: edge split limit exceeded")
)

// arrangement splits the edges of a set of contours until they only meet at
// shared vertices. Every vertex where topology changed is recorded as a
// split point for the walk.
type arrangement struct {
	pool   *Pool
	splits map[uint32]bool
	budget int
	// inserted counts the edges split so far.
	inserted int
}

func newArrangement(pool *Pool, edges int) *arrangement {
	return &arrangement{
		pool:   pool,
		splits: make(map[uint32]bool),
		budget: 64*edges + 1024,
	}
}

// split replaces the edge at h by two edges meeting at v.
func (a *arrangement) split(c *Contour, h ring.Handle, v uint32) error {
	e := c.Edges.Value(h)
	if v == e.From || v == e.To {
		a.splits[v] = true
		return nil
	}
	if a.budget--; a.budget < 0 {
		return ErrSplitLimit
	}
	c.Edges.Set(h, Edge{From: e.From, To: v})
	c.Edges.InsertAfter(h, Edge{From: v, To: e.To})
	a.splits[v] = true
	a.inserted++
	return nil
}

// vertexSet returns the sorted vertices referenced by contours.
func vertexSet(contours []*Contour) []uint32 {
	seen := make(map[uint32]bool)
	var out []uint32
	for _, c := range contours {
		for _, e := range c.Edges.All() {
			if !seen[e.From] {
				seen[e.From] = true
				out = append(out, e.From)
			}
		}
	}
	slices.Sort(out)
	return out
}

// splitAtVertices splits every edge of targets at each vertex of sources
// lying strictly inside it. Collinear overlaps become identical or inverse
// edge pairs afterwards.
func (a *arrangement) splitAtVertices(targets, sources []*Contour) error {
	verts := vertexSet(sources)
	for _, c := range targets {
		h := c.Edges.Front()
		for i := 0; i < c.Edges.Len(); i++ {
			e := c.Edges.Value(h)
			if v, ok := a.nearestInside(e, verts); ok {
				if err := a.split(c, h, v); err != nil {
					return err
				}
			}
			h = c.Edges.Next(h)
		}
	}
	return nil
}

// nearestInside returns the vertex lying inside e closest to its start.
func (a *arrangement) nearestInside(e Edge, verts []uint32) (uint32, bool) {
	from, to := a.pool.At(e.From), a.pool.At(e.To)
	best, found := uint32(0), false
	bestT := 2.0
	for _, v := range verts {
		if v == e.From || v == e.To {
			continue
		}
		if t, ok := strictlyInside(a.pool.At(v), from, to); ok && t < bestT {
			best, bestT, found = v, t, true
		}
	}
	return best, found
}

// dropInversePairs deletes edges that cancel each other, (a,b) against
// (b,a), and records both endpoints.
func (a *arrangement) dropInversePairs(c *Contour) {
	pending := make(map[Edge][]ring.Handle)
	var doomed []ring.Handle
	for h, e := range c.Edges.All() {
		inv := e.Reversed()
		if hs := pending[inv]; len(hs) > 0 {
			doomed = append(doomed, h, hs[len(hs)-1])
			pending[inv] = hs[:len(hs)-1]
			a.splits[e.From] = true
			a.splits[e.To] = true
			continue
		}
		pending[e] = append(pending[e], h)
	}
	for _, h := range doomed {
		c.Edges.Delete(h)
	}
}

// splitCrossings splits every pair of properly crossing edges, one from
// each set, until a pass finds nothing left to split. When both sets hold
// the same contour the pairs are taken within it.
//
// A split can bend an edge across a neighbour it was already compared with.
func (a *arrangement) splitCrossings(first, second []*Contour) error {
	for {
		before := a.inserted
		if err := a.crossingPass(first, second); err != nil {
			return err
		}
		if a.inserted == before {
			return nil
		}
	}
}

func (a *arrangement) crossingPass(first, second []*Contour) error {
	for _, c1 := range first {
		h := c1.Edges.Front()
		for i := 0; i < c1.Edges.Len(); i++ {
			for _, c2 := range second {
				k := c2.Edges.Front()
				for j := 0; j < c2.Edges.Len(); j++ {
					if c1 != c2 || k != h {
						if err := a.crossPair(c1, h, c2, k); err != nil {
							return err
						}
					}
					k = c2.Edges.Next(k)
				}
			}
			h = c1.Edges.Next(h)
		}
	}
	return nil
}

func (a *arrangement) crossPair(c1 *Contour, h ring.Handle, c2 *Contour, k ring.Handle) error {
	e1, e2 := c1.Edges.Value(h), c2.Edges.Value(k)
	if e1.SharesEndpoint(e2) {
		return nil
	}
	x, ok := Intersect(a.pool.At(e1.From), a.pool.At(e1.To), a.pool.At(e2.From), a.pool.At(e2.To))
	if !ok {
		return nil
	}
	v1, near1 := a.snap(x, e1)
	v2, near2 := a.snap(x, e2)
	if near1 && near2 {
		if v1 == v2 {
			return nil
		}
		// Both edges end next to the crossing at different vertices. Route
		// the edge whose end is farther through the nearer one.
		if x.Sub(a.pool.At(v2)).Length() < x.Sub(a.pool.At(v1)).Length() {
			near1 = false
		} else {
			near2 = false
		}
	}
	switch {
	case near1:
		return a.split(c2, k, v1)
	case near2:
		return a.split(c1, h, v2)
	}
	v := a.pool.Add(x)
	if err := a.split(c1, h, v); err != nil {
		return err
	}
	return a.split(c2, k, v)
}

// snap returns the endpoint of e within DedupTolerance of x, if any.
func (a *arrangement) snap(x vec.Vec2, e Edge) (uint32, bool) {
	df := x.Sub(a.pool.At(e.From)).Length()
	dt := x.Sub(a.pool.At(e.To)).Length()
	switch {
	case df < DedupTolerance && df <= dt:
		return e.From, true
	case dt < DedupTolerance:
		return e.To, true
	}
	return 0, false
}

// weld maps vertices closer than DedupTolerance onto the lowest index among
// them and removes the zero-length edges this creates. Edge chains stay
// closed because both ends of a shared vertex map identically.
func (a *arrangement) weld(contours []*Contour) {
	verts := vertexSet(contours)
	canon := make(map[uint32]uint32, len(verts))
	var reps []uint32
	for _, v := range verts {
		canon[v] = v
		p := a.pool.At(v)
		for _, r := range reps {
			if a.pool.At(r).Sub(p).Length() < DedupTolerance {
				canon[v] = r
				break
			}
		}
		if canon[v] == v {
			reps = append(reps, v)
		}
	}
	for _, c := range contours {
		for h, e := range c.Edges.All() {
			e = Edge{From: canon[e.From], To: canon[e.To]}
			if e.From == e.To {
				c.Edges.Delete(h)
				continue
			}
			c.Edges.Set(h, e)
		}
	}
}
