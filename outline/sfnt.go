package outline

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
)

// sfntFont serves outlines through golang.org/x/image/font/sfnt.
//
// Glyphs are loaded at one pixel per design unit, so the 26.6 fixed point
// results are exact design coordinates. sfnt reports y pointing down; every
// coordinate is flipped on the way out.
type sfntFont struct {
	family string
	upem   int
	ppem   fixed.Int26_6

	// mu guards buf and the segment slice sfnt reuses inside it.
	mu   sync.Mutex
	font *opentype.Font
	buf  sfnt.Buffer
}

func parseSFNT(data []byte, family string) (Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font: %w", err)
	}
	s := &sfntFont{font: f, family: family}
	s.upem = int(f.UnitsPerEm())
	if s.upem == 0 {
		return nil, &FontError{Reason: "zero units per em"}
	}
	s.ppem = fixed.Int26_6(s.upem * 64)
	if s.family == "" {
		if name, err := f.Name(&s.buf, sfnt.NameIDFamily); err == nil {
			s.family = name
		}
	}
	return s, nil
}

func (s *sfntFont) Family() string  { return s.family }
func (s *sfntFont) UnitsPerEm() int { return s.upem }

func (s *sfntFont) GlyphIndex(r rune) (GlyphID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.font.GlyphIndex(&s.buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	return GlyphID(idx), true
}

func (s *sfntFont) Decompose(gid GlyphID, sink Sink) (Metrics, error) {
	segments, m, err := s.load(gid)
	if err != nil {
		return Metrics{}, err
	}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			err = sink.MoveTo(fromFixed(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			err = sink.LineTo(fromFixed(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			err = sink.QuadTo(fromFixed(seg.Args[0]), fromFixed(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			err = sink.CubeTo(fromFixed(seg.Args[0]), fromFixed(seg.Args[1]), fromFixed(seg.Args[2]))
		}
		if err != nil {
			return Metrics{}, err
		}
	}
	return m, nil
}

// load copies the glyph's segments out of the shared buffer so the sink runs
// without the lock held.
func (s *sfntFont) load(gid GlyphID) (sfnt.Segments, Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(gid) >= s.font.NumGlyphs() {
		return nil, Metrics{}, fmt.Errorf("%w: %d", ErrGlyphNotFound, gid)
	}
	idx := sfnt.GlyphIndex(gid)
	segments, err := s.font.LoadGlyph(&s.buf, idx, s.ppem, nil)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("outline: load glyph %d: %w", gid, err)
	}
	segments = append(sfnt.Segments(nil), segments...)

	bounds, advance, err := s.font.GlyphBounds(&s.buf, idx, s.ppem, font.HintingNone)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("outline: glyph %d bounds: %w", gid, err)
	}
	m := Metrics{
		AdvanceX:   fixedToFloat64(advance),
		Width:      fixedToFloat64(bounds.Max.X - bounds.Min.X),
		Height:     fixedToFloat64(bounds.Max.Y - bounds.Min.Y),
		BearingX:   fixedToFloat64(bounds.Min.X),
		BearingY:   -fixedToFloat64(bounds.Min.Y),
		UnitsPerEm: s.upem,
	}
	if len(segments) == 0 {
		m.Width, m.Height, m.BearingX, m.BearingY = 0, 0, 0, 0
	}
	return segments, m, nil
}

// fromFixed converts a y-down 26.6 point to y-up design units.
func fromFixed(p fixed.Point26_6) vec.Vec2 {
	return vec.Vec2{X: fixedToFloat64(p.X), Y: -fixedToFloat64(p.Y)}
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
