// Package outline decodes glyph outlines from font files.
//
// A Font emits the contours of one glyph as MoveTo, LineTo, QuadTo and CubeTo
// calls on a Sink. Coordinates are font design units with the y axis pointing
// up, the convention of the glyf table: outer contours run clockwise and
// holes counter-clockwise.
//
// Two parsing backends are registered: "sfnt" (golang.org/x/image, the
// default) and "gotext" (github.com/go-text/typesetting). StaticFont serves
// outlines held in memory.
package outline

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// GlyphID is a glyph index within one font.
type GlyphID uint16

// Sink receives the segments of a glyph outline. Decompose stops at the
// first error a Sink returns and passes it on.
type Sink interface {
	MoveTo(p vec.Vec2) error
	LineTo(p vec.Vec2) error
	QuadTo(ctrl, p vec.Vec2) error
	CubeTo(ctrl1, ctrl2, p vec.Vec2) error
}

// Font is a source of glyph outlines.
type Font interface {
	// Family identifies the font in cache keys.
	Family() string

	// UnitsPerEm returns the size of the em square in design units.
	UnitsPerEm() int

	// GlyphIndex maps a rune through the font's character map.
	GlyphIndex(r rune) (GlyphID, bool)

	// Decompose streams the outline of gid to sink and returns its metrics.
	// A glyph without contours, such as a space, only returns metrics.
	Decompose(gid GlyphID, sink Sink) (Metrics, error)
}

// Metrics describes the placement of one glyph, in design units.
type Metrics struct {
	// AdvanceX and AdvanceY move the pen to the next glyph.
	AdvanceX, AdvanceY float64

	// Width and Height are the size of the outline's bounding box.
	Width, Height float64

	// BearingX is the left edge and BearingY the top edge of the bounding
	// box, relative to the glyph origin.
	BearingX, BearingY float64

	UnitsPerEm int
}

// Bounds returns the bounding box of the outline.
func (m Metrics) Bounds() rect.Rect {
	return rect.Rect{
		LLx: m.BearingX,
		LLy: m.BearingY - m.Height,
		URx: m.BearingX + m.Width,
		URy: m.BearingY,
	}
}

// Scale returns the factor converting design units to pixels at size.
func (m Metrics) Scale(size float64) float64 {
	if m.UnitsPerEm == 0 {
		return 0
	}
	return size / float64(m.UnitsPerEm)
}

// Op is the kind of a Segment.
type Op uint8

const (
	// OpMoveTo starts a new contour.
	OpMoveTo Op = iota

	// OpLineTo draws a straight line.
	OpLineTo

	// OpQuadTo draws a quadratic Bézier curve.
	OpQuadTo

	// OpCubeTo draws a cubic Bézier curve.
	OpCubeTo
)

// String returns a string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpQuadTo:
		return "QuadTo"
	case OpCubeTo:
		return "CubeTo"
	default:
		return "Unknown"
	}
}

// Segment is one recorded outline operation.
type Segment struct {
	Op Op

	// Points holds the operands:
	//   - MoveTo, LineTo: Points[0] is the target
	//   - QuadTo: Points[0] is the control, Points[1] the target
	//   - CubeTo: Points[0] and Points[1] are controls, Points[2] the target
	Points [3]vec.Vec2
}

// Outline is a recorded glyph, usable both as a Sink and as the source for a
// StaticFont.
type Outline struct {
	Segments []Segment
	Metrics  Metrics
}

// MoveTo implements Sink.
func (o *Outline) MoveTo(p vec.Vec2) error {
	o.Segments = append(o.Segments, Segment{Op: OpMoveTo, Points: [3]vec.Vec2{p}})
	return nil
}

// LineTo implements Sink.
func (o *Outline) LineTo(p vec.Vec2) error {
	o.Segments = append(o.Segments, Segment{Op: OpLineTo, Points: [3]vec.Vec2{p}})
	return nil
}

// QuadTo implements Sink.
func (o *Outline) QuadTo(ctrl, p vec.Vec2) error {
	o.Segments = append(o.Segments, Segment{Op: OpQuadTo, Points: [3]vec.Vec2{ctrl, p}})
	return nil
}

// CubeTo implements Sink.
func (o *Outline) CubeTo(ctrl1, ctrl2, p vec.Vec2) error {
	o.Segments = append(o.Segments, Segment{Op: OpCubeTo, Points: [3]vec.Vec2{ctrl1, ctrl2, p}})
	return nil
}

// IsEmpty reports whether the outline has no segments.
func (o *Outline) IsEmpty() bool {
	return len(o.Segments) == 0
}

// Replay sends every segment to sink in order.
func (o *Outline) Replay(sink Sink) error {
	for _, s := range o.Segments {
		var err error
		switch s.Op {
		case OpMoveTo:
			err = sink.MoveTo(s.Points[0])
		case OpLineTo:
			err = sink.LineTo(s.Points[0])
		case OpQuadTo:
			err = sink.QuadTo(s.Points[0], s.Points[1])
		case OpCubeTo:
			err = sink.CubeTo(s.Points[0], s.Points[1], s.Points[2])
		default:
			err = &FontError{Reason: "unknown segment op " + s.Op.String()}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Clone creates a deep copy of the outline.
func (o *Outline) Clone() *Outline {
	if o == nil {
		return nil
	}
	return &Outline{
		Segments: append([]Segment(nil), o.Segments...),
		Metrics:  o.Metrics,
	}
}

// Bounds computes the bounding box of the segment points, control points
// included. It returns the zero rectangle for an empty outline.
func (o *Outline) Bounds() rect.Rect {
	var b rect.Rect
	first := true
	for _, s := range o.Segments {
		n := 1
		switch s.Op {
		case OpQuadTo:
			n = 2
		case OpCubeTo:
			n = 3
		}
		for _, p := range s.Points[:n] {
			if first {
				b = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
				first = false
				continue
			}
			b.LLx = min(b.LLx, p.X)
			b.LLy = min(b.LLy, p.Y)
			b.URx = max(b.URx, p.X)
			b.URy = max(b.URy, p.Y)
		}
	}
	return b
}
