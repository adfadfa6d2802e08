package glyphmesh

import (
	"fmt"

	"github.com/gogpu/glyphmesh/internal/path"
	"github.com/gogpu/glyphmesh/internal/polygon"
	"github.com/gogpu/glyphmesh/internal/triangulate"
	"github.com/gogpu/glyphmesh/outline"
	"seehuhn.de/go/geom/vec"
)

// composition is the state of one ComposeGlyph call. It receives the outline
// as an outline.Sink and owns the vertex pool and every contour until the
// mesh is assembled.
type composition struct {
	strategy  Strategy
	threshold float64
	// scale converts design units to pixels at the target size.
	scale float64

	pool *polygon.Pool
	// first holds the contours merged so far, second the contour being
	// decomposed.
	first  polygon.Polygon
	second *polygon.Contour
	merged bool

	contours int
	curves   []Curve
	// lines collects the decomposed line segments for the strategies that
	// skip the polygon pipeline.
	lines []Edge

	open  bool
	pen   uint32
	start uint32
}

var _ outline.Sink = (*composition)(nil)

func newComposition(strategy Strategy, threshold float64, size uint32, unitsPerEm int) *composition {
	c := &composition{
		strategy:  strategy,
		threshold: threshold,
		scale:     outline.Metrics{UnitsPerEm: unitsPerEm}.Scale(float64(size)),
		pool:      polygon.NewPool(128),
	}
	return c
}

// MoveTo closes the current contour, folds it into the merged polygon and
// starts a new one at p.
func (c *composition) MoveTo(p vec.Vec2) error {
	c.closeContour()
	if err := c.fold(); err != nil {
		return err
	}
	c.pen = c.pool.Intern(p)
	c.start = c.pen
	c.open = true
	c.contours++
	if c.strategy.usesPolygon() {
		c.second = polygon.NewContour()
	}
	return nil
}

// LineTo appends a straight edge from the pen to p.
func (c *composition) LineTo(p vec.Vec2) error {
	if !c.open {
		return fmt.Errorf("%w: LineTo", ErrNoCurrentContour)
	}
	to := c.pool.Intern(p)
	c.addEdge(c.pen, to)
	if !c.strategy.usesPolygon() && to != c.pen {
		c.lines = append(c.lines, Edge{From: c.pen, To: to})
	}
	c.pen = to
	return nil
}

// QuadTo records the curve and adds its boundary approximation.
func (c *composition) QuadTo(ctrl, p vec.Vec2) error {
	if !c.open {
		return fmt.Errorf("%w: QuadTo", ErrNoCurrentContour)
	}
	from := c.pen
	control := c.pool.Intern(ctrl)
	to := c.pool.Intern(p)
	c.curves = append(c.curves, Curve{Start: from, Control: control, End: to})

	switch c.strategy {
	case StrategyTriangulation:
		c.flatten(from, ctrl, to)
	case StrategyHybrid:
		start, end := c.pool.At(from), c.pool.At(to)
		// A control point on the right of the chord is inside the fill,
		// so the control polygon bounds the curve from outside.
		if polygon.IsOnLeftSide(end, start, ctrl) {
			c.addEdge(from, control)
			c.addEdge(control, to)
		} else {
			c.addEdge(from, to)
		}
	}
	c.pen = to
	return nil
}

// CubeTo rejects cubic segments.
func (c *composition) CubeTo(_, _, _ vec.Vec2) error {
	return ErrUnsupportedCubic
}

// flatten appends the polyline approximating the curve from the pen. The
// parameters are chosen at the target size, so the error bound is in
// pixels, while the vertices stay in design units.
func (c *composition) flatten(from uint32, ctrl vec.Vec2, to uint32) {
	p0, p2 := c.pool.At(from), c.pool.At(to)
	ts := path.FlattenQuad(p0.Mul(c.scale), ctrl.Mul(c.scale), p2.Mul(c.scale), c.threshold)
	pts := path.Points(p0, ctrl, p2, ts[1:len(ts)-1])
	prev := from
	for _, p := range pts {
		v := c.pool.Intern(p)
		c.addEdge(prev, v)
		prev = v
	}
	c.addEdge(prev, to)
}

// addEdge appends a boundary edge to the current contour. Edges whose
// endpoints were merged into one vertex are dropped.
func (c *composition) addEdge(from, to uint32) {
	if from == to || c.second == nil {
		return
	}
	c.second.Edges.InsertLast(polygon.Edge{From: from, To: to})
}

// closeContour connects the pen back to the contour's start.
func (c *composition) closeContour() {
	if !c.open {
		return
	}
	if c.pen != c.start {
		c.addEdge(c.pen, c.start)
		if !c.strategy.usesPolygon() {
			c.lines = append(c.lines, Edge{From: c.pen, To: c.start})
		}
		c.pen = c.start
	}
	c.open = false
}

// fold merges the finished contour into first. The first non-empty contour
// is taken as is; every later one goes through the union operator.
func (c *composition) fold() error {
	s := c.second
	c.second = nil
	if s == nil || s.Len() == 0 {
		return nil
	}
	if !c.merged && len(c.first) == 0 {
		c.first = polygon.Polygon{s}
		return nil
	}
	u, err := polygon.Union(c.pool, c.first, polygon.Polygon{s})
	if err != nil {
		return err
	}
	c.first = u
	c.merged = true
	return nil
}

// finish folds the last contour. A glyph that never needed a union still
// has its single contour resolved into simple loops.
func (c *composition) finish() error {
	c.closeContour()
	if err := c.fold(); err != nil {
		return err
	}
	if c.merged || len(c.first) == 0 {
		return nil
	}
	r, err := polygon.ResolveAll(c.pool, c.first)
	if err != nil {
		return err
	}
	c.first = r
	return nil
}

// assemble builds the glyph's mesh for the strategy.
func (c *composition) assemble(key GlyphKey, m Metrics) (*Glyph, error) {
	g := &Glyph{
		Key:      key,
		Strategy: c.strategy,
		Metrics:  m,
		Curves:   c.curves,
		Contours: c.contours,
	}

	switch c.strategy {
	case StrategyTriangulation, StrategyHybrid:
		vertices, triangles, err := c.triangulate()
		if err != nil {
			return nil, err
		}
		g.Mesh.Vertices = vertices
		g.Mesh.buffers[FillTriangles] = triangles
		for _, ct := range c.first {
			g.Lines = append(g.Lines, ct.EdgeSlice()...)
		}
		if c.strategy == StrategyHybrid {
			g.Mesh.buffers[CurveTriples] = curveIndices(c.curves)
		}

	case StrategyWindingNumber:
		g.Lines = c.lines
		g.Mesh.Vertices = c.pool.Points()
		if !g.IsEmpty() {
			g.Mesh.Vertices, g.Mesh.buffers[BoundingBox] = boundingBox(g.Mesh.Vertices, m)
		}
		g.Mesh.buffers[CurveTriples] = curveIndices(c.curves)
		pairs := make([]uint32, 0, 2*len(c.lines))
		for _, e := range c.lines {
			pairs = append(pairs, e.From, e.To)
		}
		g.Mesh.buffers[LinePairs] = pairs

	case StrategySDF:
		g.Lines = c.lines
		if !g.IsEmpty() {
			g.Mesh.Vertices, g.Mesh.buffers[BoundingBox] = boundingBox(nil, m)
		}

	default:
		return nil, fmt.Errorf("glyphmesh: unknown strategy %d", c.strategy)
	}
	return g, nil
}

// triangulate fills the merged contours. It returns the pool's vertices,
// extended with any copies the triangulator needed.
func (c *composition) triangulate() ([]vec.Vec2, []uint32, error) {
	loops := make([][]uint32, 0, len(c.first))
	for _, ct := range c.first {
		loops = append(loops, ct.Vertices())
	}
	return triangulate.Triangulate(c.pool.Points(), loops)
}

func curveIndices(curves []Curve) []uint32 {
	out := make([]uint32, 0, 3*len(curves))
	for _, cv := range curves {
		out = append(out, cv.Start, cv.Control, cv.End)
	}
	return out
}

// boundingBox appends the corners of the metrics' bounding box to vertices
// and returns the two triangles covering it:
//
//	1 ---- 2
//	| \    |
//	|   \  |
//	0 ---- 3
func boundingBox(vertices []vec.Vec2, m Metrics) ([]vec.Vec2, []uint32) {
	b := m.Bounds()
	n := uint32(len(vertices))
	vertices = append(vertices,
		vec.Vec2{X: b.LLx, Y: b.LLy},
		vec.Vec2{X: b.LLx, Y: b.URy},
		vec.Vec2{X: b.URx, Y: b.URy},
		vec.Vec2{X: b.URx, Y: b.LLy},
	)
	return vertices, []uint32{n, n + 3, n + 1, n + 2, n + 1, n + 3}
}
