// Package polygon implements the contour geometry behind glyph tessellation:
// a shared vertex pool, directed edges and quadratic curves over it, the
// self-intersection resolver and the two-polygon union operator.
//
// Coordinates are font design units with the y axis pointing up. A contour
// traversed clockwise has positive signed area and encloses filled area; a
// counter-clockwise contour encloses a hole. TrueType outer contours are
// clockwise under this convention.
//
// Contours store vertex indices, never points, so one Pool can grow while
// several contours refer into it.
package polygon
