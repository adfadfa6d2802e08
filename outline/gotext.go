package outline

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"seehuhn.de/go/geom/vec"
)

// goTextFont serves outlines through github.com/go-text/typesetting.
//
// go-text reports design units with y pointing up, which is already the
// convention of this package. font.Face is not safe for concurrent use, so
// one mutex serializes every call into it.
type goTextFont struct {
	family string
	upem   int

	mu   sync.Mutex
	face *font.Face
}

func parseGoText(data []byte, family string) (Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font: %w", err)
	}
	g := &goTextFont{face: face, family: family, upem: int(face.Upem())}
	if g.upem == 0 {
		return nil, &FontError{Reason: "zero units per em"}
	}
	if g.family == "" {
		g.family = face.Describe().Family
	}
	return g, nil
}

func (g *goTextFont) Family() string  { return g.family }
func (g *goTextFont) UnitsPerEm() int { return g.upem }

func (g *goTextFont) GlyphIndex(r rune) (GlyphID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	gid, ok := g.face.NominalGlyph(r)
	if !ok || gid == 0 || gid > math.MaxUint16 {
		return 0, false
	}
	return GlyphID(gid), true
}

func (g *goTextFont) Decompose(gid GlyphID, sink Sink) (Metrics, error) {
	segments, m, err := g.load(gid)
	if err != nil {
		return Metrics{}, err
	}
	for _, seg := range segments {
		a := seg.Args
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			err = sink.MoveTo(fromSegment(a[0]))
		case ot.SegmentOpLineTo:
			err = sink.LineTo(fromSegment(a[0]))
		case ot.SegmentOpQuadTo:
			err = sink.QuadTo(fromSegment(a[0]), fromSegment(a[1]))
		case ot.SegmentOpCubeTo:
			err = sink.CubeTo(fromSegment(a[0]), fromSegment(a[1]), fromSegment(a[2]))
		}
		if err != nil {
			return Metrics{}, err
		}
	}
	return m, nil
}

func (g *goTextFont) load(gid GlyphID) ([]ot.Segment, Metrics, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var segments []ot.Segment
	switch data := g.face.GlyphData(font.GID(gid)).(type) {
	case font.GlyphOutline:
		segments = data.Segments
	case nil:
		return nil, Metrics{}, fmt.Errorf("%w: %d", ErrGlyphNotFound, gid)
	default:
		return nil, Metrics{}, &FontError{Reason: fmt.Sprintf("glyph %d is not a vector outline", gid)}
	}

	m := Metrics{
		AdvanceX:   float64(g.face.HorizontalAdvance(font.GID(gid))),
		UnitsPerEm: g.upem,
	}
	if ext, ok := g.face.GlyphExtents(font.GID(gid)); ok && len(segments) > 0 {
		m.BearingX = float64(ext.XBearing)
		m.BearingY = float64(ext.YBearing)
		m.Width = math.Abs(float64(ext.Width))
		m.Height = math.Abs(float64(ext.Height))
	}
	return segments, m, nil
}

func fromSegment(p ot.SegmentPoint) vec.Vec2 {
	return vec.Vec2{X: float64(p.X), Y: float64(p.Y)}
}
