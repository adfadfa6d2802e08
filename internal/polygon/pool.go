package polygon

import "seehuhn.de/go/geom/vec"

// DedupTolerance is the Euclidean distance, in font design units, below
// which Intern merges a point into an existing vertex.
const DedupTolerance = 1.0

// Pool is the append-only vertex storage shared by every contour of one
// composition. Contours refer to vertices by index only.
//
// A Pool is owned by a single composition and is not safe for concurrent use.
type Pool struct {
	points []vec.Vec2
}

// NewPool returns an empty pool with room for capacity vertices.
func NewPool(capacity int) *Pool {
	return &Pool{points: make([]vec.Vec2, 0, capacity)}
}

// Len returns the number of vertices.
func (p *Pool) Len() int {
	return len(p.points)
}

// At returns vertex i.
func (p *Pool) At(i uint32) vec.Vec2 {
	return p.points[i]
}

// Add appends v without deduplication and returns its index.
func (p *Pool) Add(v vec.Vec2) uint32 {
	p.points = append(p.points, v)
	return uint32(len(p.points) - 1)
}

// Intern returns the index of an existing vertex within DedupTolerance of v,
// appending v if there is none. The scan is linear; glyph outlines have a
// few hundred points at most.
func (p *Pool) Intern(v vec.Vec2) uint32 {
	for i, q := range p.points {
		if q.Sub(v).Length() < DedupTolerance {
			return uint32(i)
		}
	}
	return p.Add(v)
}

// Points returns a copy of all vertices in index order.
func (p *Pool) Points() []vec.Vec2 {
	out := make([]vec.Vec2, len(p.points))
	copy(out, p.points)
	return out
}
