// Package ring provides a circular doubly-linked list backed by an arena of
// indexed nodes.
//
// Contours are stored as rings of directed edges. The geometry passes split
// an edge in two by inserting its second half right after it while other
// code keeps walking from a different element, so handles must survive
// unrelated inserts and deletes:
//
//	l := ring.New(a, b, c)
//	h := l.Front()
//	l.InsertAfter(h, d) // a d b c; h still refers to a
//
// Deleted slots are recycled with a new generation, so a stale handle is
// detected and panics instead of silently aliasing a different element.
package ring
