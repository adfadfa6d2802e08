package glyphmesh

// Strategy selects what a composed glyph's mesh contains.
type Strategy uint8

const (
	// StrategyTriangulation flattens curves at the target size and fills the
	// whole outline with triangles. Meshes depend on the size.
	StrategyTriangulation Strategy = iota

	// StrategyHybrid triangulates the outline with each curve replaced by
	// its chord, or by its control polygon when the curve bulges into the
	// fill, and hands the curves to a shader as (start, control, end)
	// triples.
	StrategyHybrid

	// StrategyWindingNumber emits a bounding-box quad plus the raw line and
	// curve segments for a per-fragment winding number test.
	StrategyWindingNumber

	// StrategySDF emits only the bounding-box quad, to be shaded from a
	// signed distance field.
	StrategySDF
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyTriangulation:
		return "Triangulation"
	case StrategyHybrid:
		return "Hybrid"
	case StrategyWindingNumber:
		return "WindingNumber"
	case StrategySDF:
		return "SDF"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	return s <= StrategySDF
}

// SizeDependent reports whether meshes built with s change with the font
// size. Only those strategies key the cache by size.
func (s Strategy) SizeDependent() bool {
	return s == StrategyTriangulation
}

// usesPolygon reports whether s needs the outline merged into simple
// contours before meshing.
func (s Strategy) usesPolygon() bool {
	return s == StrategyTriangulation || s == StrategyHybrid
}
