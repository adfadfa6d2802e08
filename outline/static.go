package outline

import (
	"fmt"
	"sync"
)

// StaticFont is a Font backed by outlines held in memory. It suits tests and
// callers that decode glyphs with their own rasterizer.
//
// StaticFont is safe for concurrent use.
type StaticFont struct {
	family string
	upem   int

	mu     sync.RWMutex
	glyphs map[GlyphID]*Outline
	cmap   map[rune]GlyphID
}

// NewStaticFont returns an empty font with the given family and em size.
func NewStaticFont(family string, unitsPerEm int) *StaticFont {
	return &StaticFont{
		family: family,
		upem:   unitsPerEm,
		glyphs: make(map[GlyphID]*Outline),
		cmap:   make(map[rune]GlyphID),
	}
}

// Add stores a copy of o as glyph gid and maps each rune in runes to it.
// Metrics.UnitsPerEm is filled in, and an empty bounding box is computed from
// the segments.
func (f *StaticFont) Add(gid GlyphID, o *Outline, runes ...rune) {
	c := o.Clone()
	if c == nil {
		c = &Outline{}
	}
	c.Metrics.UnitsPerEm = f.upem
	if c.Metrics.Width == 0 && c.Metrics.Height == 0 && !c.IsEmpty() {
		b := c.Bounds()
		c.Metrics.BearingX = b.LLx
		c.Metrics.BearingY = b.URy
		c.Metrics.Width = b.URx - b.LLx
		c.Metrics.Height = b.URy - b.LLy
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.glyphs[gid] = c
	for _, r := range runes {
		f.cmap[r] = gid
	}
}

// Family implements Font.
func (f *StaticFont) Family() string { return f.family }

// UnitsPerEm implements Font.
func (f *StaticFont) UnitsPerEm() int { return f.upem }

// GlyphIndex implements Font.
func (f *StaticFont) GlyphIndex(r rune) (GlyphID, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	gid, ok := f.cmap[r]
	return gid, ok
}

// Decompose implements Font.
func (f *StaticFont) Decompose(gid GlyphID, sink Sink) (Metrics, error) {
	f.mu.RLock()
	o, ok := f.glyphs[gid]
	f.mu.RUnlock()
	if !ok {
		return Metrics{}, fmt.Errorf("%w: %d", ErrGlyphNotFound, gid)
	}
	if err := o.Replay(sink); err != nil {
		return Metrics{}, err
	}
	return o.Metrics, nil
}
