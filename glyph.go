package glyphmesh

import (
	"fmt"

	"github.com/gogpu/glyphmesh/internal/polygon"
	"github.com/gogpu/glyphmesh/outline"
	"seehuhn.de/go/geom/vec"
)

// Edge is a directed segment between two mesh vertices.
type Edge = polygon.Edge

// Curve is a quadratic Bézier segment given by three mesh vertices.
type Curve = polygon.Curve

// Metrics describes glyph placement in font design units.
type Metrics = outline.Metrics

// GlyphKey identifies a composed glyph in a GlyphCache. Keys are equal when
// all three fields are.
type GlyphKey struct {
	Family string
	Glyph  outline.GlyphID

	// Size is the font size in pixels per em, or 0 for strategies whose
	// meshes do not depend on it.
	Size uint32
}

// String returns a readable form of the key.
func (k GlyphKey) String() string {
	return fmt.Sprintf("%s/%d@%d", k.Family, k.Glyph, k.Size)
}

// IndexBuffer names one of the index lists of a Mesh.
type IndexBuffer uint8

const (
	// FillTriangles holds three indices per filled triangle.
	FillTriangles IndexBuffer = iota

	// CurveTriples holds (start, control, end) per quadratic curve.
	CurveTriples

	// LinePairs holds (from, to) per straight boundary segment.
	LinePairs

	// BoundingBox holds the two triangles covering the glyph's bounding box.
	BoundingBox

	indexBufferCount
)

// String returns the buffer name.
func (b IndexBuffer) String() string {
	switch b {
	case FillTriangles:
		return "FillTriangles"
	case CurveTriples:
		return "CurveTriples"
	case LinePairs:
		return "LinePairs"
	case BoundingBox:
		return "BoundingBox"
	default:
		return "Unknown"
	}
}

// Mesh is the render-ready geometry of a glyph: design-unit vertices and
// index buffers into them. Meshes stored in a cache are shared; treat them
// as read-only.
type Mesh struct {
	Vertices []vec.Vec2
	buffers  [indexBufferCount][]uint32
}

// Indices returns the index buffer b, nil when the strategy left it empty.
func (m *Mesh) Indices(b IndexBuffer) []uint32 {
	if b >= indexBufferCount {
		return nil
	}
	return m.buffers[b]
}

// TriangleCount returns the number of filled triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.buffers[FillTriangles]) / 3
}

// Area returns the total area of the filled triangles.
func (m *Mesh) Area() float64 {
	idx := m.buffers[FillTriangles]
	total := 0.0
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := m.Vertices[idx[i]], m.Vertices[idx[i+1]], m.Vertices[idx[i+2]]
		cr := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		if cr < 0 {
			cr = -cr
		}
		total += cr / 2
	}
	return total
}

// Glyph is one composed glyph.
type Glyph struct {
	Key      GlyphKey
	Strategy Strategy
	Metrics  Metrics
	Mesh     Mesh

	// Lines are the straight boundary segments: the merged outline for the
	// triangulating strategies, the decomposed line segments otherwise.
	Lines []Edge

	// Curves are the quadratic segments of the outline as decomposed.
	Curves []Curve

	// Contours is the number of contours the font emitted.
	Contours int
}

// IsEmpty reports whether the glyph has no outline, as for a space.
func (g *Glyph) IsEmpty() bool {
	return g.Contours == 0
}
