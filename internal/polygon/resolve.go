package polygon

// Resolve splits a possibly self-intersecting contour into simple contours.
//
// Collinear overlaps are cut into identical pieces first and pieces that
// cancel each other are removed. Then every proper crossing gets a vertex
// of its own and both edges are split there. The remaining edges are walked
// from the split points into closed loops. A contour without split points
// comes back unchanged. The input contour is not modified; new vertices are
// appended to pool.
func Resolve(pool *Pool, c *Contour) (Polygon, error) {
	if c == nil || c.Len() == 0 {
		return nil, nil
	}
	if !c.Closed() {
		return nil, ErrOpenContour
	}
	work := c.Clone()
	self := []*Contour{work}

	a := newArrangement(pool, work.Len())
	if err := a.splitAtVertices(self, self); err != nil {
		return nil, err
	}
	a.dropInversePairs(work)
	if err := a.splitCrossings(self, self); err != nil {
		return nil, err
	}
	if work.Len() == 0 {
		return nil, nil
	}

	w := newWalker(pool, resolveTieBreak)
	w.addContour(work, work.Orientation(pool))
	loops, split, err := w.walk(a.splits)
	if err != nil {
		return nil, err
	}
	if !split {
		if degenerate(pool, work.EdgeSlice()) {
			return nil, nil
		}
		return Polygon{work}, nil
	}
	out := make(Polygon, 0, len(loops))
	for _, l := range loops {
		out = append(out, NewContour(l...))
	}
	return out, nil
}

// ResolveAll resolves every contour of p and concatenates the results.
func ResolveAll(pool *Pool, p Polygon) (Polygon, error) {
	var out Polygon
	for _, c := range p {
		r, err := Resolve(pool, c)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}
