package glyphmesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphmesh/outline"
)

// Sentinel errors for the glyphmesh package.
var (
	// ErrUnsupportedCubic is returned for outlines with cubic Bézier
	// segments. Only line and quadratic segments are supported.
	ErrUnsupportedCubic = errors.New("glyphmesh: cubic Bézier curves are not supported")

	// ErrCacheMiss is returned by GlyphCache.Get for an absent key.
	ErrCacheMiss = errors.New("glyphmesh: glyph not in cache")

	// ErrGlyphNotFound is returned when a font has no glyph for a rune.
	ErrGlyphNotFound = errors.New("glyphmesh: no glyph for rune")

	// ErrNilFont is returned when composing with a nil font.
	ErrNilFont = errors.New("glyphmesh: nil font")

	// ErrNoCurrentContour is returned for a line or curve segment that is
	// not preceded by a MoveTo.
	ErrNoCurrentContour = errors.New("glyphmesh: segment before MoveTo")
)

// CompositionError wraps any failure while composing one glyph.
type CompositionError struct {
	Family string
	Glyph  outline.GlyphID
	Err    error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("glyphmesh: compose glyph %d of %q: %v", e.Glyph, e.Family, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}
