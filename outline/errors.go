package outline

import "errors"

// Sentinel errors for the outline package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("outline: empty font data")

	// ErrUnknownBackend is returned by Parse for an unregistered backend name.
	ErrUnknownBackend = errors.New("outline: unknown backend")

	// ErrGlyphNotFound is returned for a glyph index the font does not have.
	ErrGlyphNotFound = errors.New("outline: glyph not found")
)

// FontError reports a font that parsed but cannot serve outlines.
type FontError struct {
	Reason string
}

func (e *FontError) Error() string {
	return "outline: " + e.Reason
}
