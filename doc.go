// Package glyphmesh turns font glyph outlines into GPU-ready meshes.
//
// # Overview
//
// A glyph outline is a set of closed contours made of straight lines and
// quadratic Bézier curves. Outlines may overlap or cross themselves, and
// holes are marked by contour orientation only. glyphmesh merges the
// contours of a glyph into simple, non-overlapping loops and builds a
// mesh for one of several rendering strategies. Results are kept in a
// least-recently-used cache.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glyphmesh"
//	    "github.com/gogpu/glyphmesh/outline"
//	)
//
//	f, err := outline.Parse(ttfBytes)
//	if err != nil {
//	    return err
//	}
//	c := glyphmesh.NewCompositor()
//	g, err := c.ComposeRune(f, 'O', 32)
//	if err != nil {
//	    return err
//	}
//	tris := g.Mesh.Indices(glyphmesh.FillTriangles)
//
// # Strategies
//
// StrategyTriangulation flattens curves at the requested size and fills the
// glyph with triangles. StrategyHybrid triangulates a coarse interior and
// leaves the curves to a fragment shader. StrategyWindingNumber and
// StrategySDF only cover the glyph's bounding box and carry the segments a
// shader evaluates per fragment.
//
// Vertices are in font design units with y pointing up. Scale them by
// size/UnitsPerEm when drawing.
//
// # Orientation
//
// Clockwise contours are filled and counter-clockwise contours cut holes,
// as in TrueType. A counter-clockwise contour that no filled contour
// encloses is filled as well.
//
// # Logging
//
// glyphmesh is silent by default. Use SetLogger to receive debug records of
// composed and evicted glyphs and warnings for glyphs that fail.
package glyphmesh
