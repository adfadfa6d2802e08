package polygon

import (
	"slices"

	"seehuhn.de/go/geom/vec"
)

// tieBreak selects how a walk chooses between several unused outgoing
// edges at a split point.
type tieBreak uint8

const (
	// resolveTieBreak traces each candidate's sub-loop ahead: all clockwise
	// takes the most clockwise turn, all counter-clockwise the most
	// counter-clockwise one, anything else the leftmost.
	resolveTieBreak tieBreak = iota

	// unionTieBreak uses the orientation of the contour each candidate came
	// from: all filled takes the leftmost turn, all holes the rightmost,
	// anything else the leftmost.
	unionTieBreak
)

type walkEdge struct {
	Edge
	orient  Orientation
	succ    int
	visited bool
}

// walker re-links a balanced edge graph into closed loops, starting from
// split points.
type walker struct {
	pool  *Pool
	mode  tieBreak
	edges []walkEdge
	out   map[uint32][]int
	split map[uint32]bool
}

func newWalker(pool *Pool, mode tieBreak) *walker {
	return &walker{
		pool:  pool,
		mode:  mode,
		out:   make(map[uint32][]int),
		split: make(map[uint32]bool),
	}
}

// addEdge registers e; succ is the index of the edge expected to follow it,
// or -1.
func (w *walker) addEdge(e Edge, orient Orientation, succ int) int {
	i := len(w.edges)
	w.edges = append(w.edges, walkEdge{Edge: e, orient: orient, succ: succ})
	w.out[e.From] = append(w.out[e.From], i)
	return i
}

// addContour registers the edges of c in ring order, linking each to its
// ring successor where the chain is intact.
func (w *walker) addContour(c *Contour, orient Orientation) {
	edges := c.EdgeSlice()
	base := len(w.edges)
	for i, e := range edges {
		next := (i + 1) % len(edges)
		succ := -1
		if edges[next].From == e.To {
			succ = base + next
		}
		w.addEdge(e, orient, succ)
	}
}

// markSplits keeps the recorded split points that still have edges and adds
// every vertex with more than one outgoing edge. It returns the split points
// in ascending order.
func (w *walker) markSplits(recorded map[uint32]bool) []uint32 {
	var pts []uint32
	for v, out := range w.out {
		if len(out) > 1 || (recorded[v] && len(out) > 0) {
			w.split[v] = true
			pts = append(pts, v)
		}
	}
	slices.Sort(pts)
	return pts
}

// walk consumes every edge into closed, simple loops. split reports whether
// any split point was found; without one every loop is an untouched input
// loop.
func (w *walker) walk(recorded map[uint32]bool) (loops [][]Edge, split bool, err error) {
	starts := w.markSplits(recorded)
	for _, s := range starts {
		for w.hasUnused(s) {
			loop, err := w.trace(s, w.pick(s, -1))
			if err != nil {
				return nil, false, err
			}
			loops = append(loops, w.simple(loop)...)
		}
	}
	// Loops that touched no split point.
	for i := range w.edges {
		if w.edges[i].visited {
			continue
		}
		loop, err := w.trace(w.edges[i].From, i)
		if err != nil {
			return nil, false, err
		}
		loops = append(loops, w.simple(loop)...)
	}
	return loops, len(starts) > 0, nil
}

func (w *walker) hasUnused(v uint32) bool {
	for _, i := range w.out[v] {
		if !w.edges[i].visited {
			return true
		}
	}
	return false
}

// trace follows edges from cur until the walk returns to start.
func (w *walker) trace(start uint32, cur int) ([]int, error) {
	var loop []int
	for steps := 0; ; steps++ {
		if cur < 0 || steps > len(w.edges) {
			return nil, ErrNoOutgoingEdge
		}
		w.edges[cur].visited = true
		loop = append(loop, cur)
		v := w.edges[cur].To
		if v == start {
			return loop, nil
		}
		if w.split[v] {
			cur = w.pick(v, cur)
		} else {
			cur = w.follow(cur)
		}
	}
}

// follow returns the unused edge continuing from cur at a plain vertex.
func (w *walker) follow(cur int) int {
	e := w.edges[cur]
	if s := e.succ; s >= 0 && !w.edges[s].visited && w.edges[s].From == e.To {
		return s
	}
	for _, i := range w.out[e.To] {
		if !w.edges[i].visited {
			return i
		}
	}
	return -1
}

// pick chooses the next edge at split point v after arriving via incoming
// (-1 at the start of a loop).
func (w *walker) pick(v uint32, incoming int) int {
	var cands []int
	for _, i := range w.out[v] {
		if !w.edges[i].visited {
			cands = append(cands, i)
		}
	}
	switch {
	case len(cands) == 0:
		return -1
	case len(cands) == 1 || incoming < 0:
		return cands[0]
	}

	in := w.direction(incoming)
	allCW, allCCW := true, true
	for _, c := range cands {
		o, known := w.candidateOrientation(v, c)
		allCW = allCW && known && o == CW
		allCCW = allCCW && known && o == CCW
	}
	leftmost := true
	switch w.mode {
	case resolveTieBreak:
		leftmost = !allCW
	case unionTieBreak:
		leftmost = !allCCW
	}

	best := cands[0]
	bestAngle := turn(in, w.direction(best))
	for _, c := range cands[1:] {
		a := turn(in, w.direction(c))
		if (leftmost && a > bestAngle) || (!leftmost && a < bestAngle) {
			best, bestAngle = c, a
		}
	}
	return best
}

func (w *walker) candidateOrientation(v uint32, c int) (Orientation, bool) {
	if w.mode == unionTieBreak {
		return w.edges[c].orient, true
	}
	return w.lookAhead(v, c)
}

// lookAhead traces the sub-loop that taking edge c from v would close,
// without consuming it. It gives up at the next split point.
func (w *walker) lookAhead(v uint32, c int) (Orientation, bool) {
	var area float64
	cur := c
	for steps := 0; steps <= len(w.edges); steps++ {
		e := w.edges[cur]
		area += shoelace(w.pool.At(e.From), w.pool.At(e.To))
		if e.To == v {
			return orientationOf(area), true
		}
		if w.split[e.To] {
			return 0, false
		}
		if cur = w.follow(cur); cur < 0 {
			return 0, false
		}
	}
	return 0, false
}

func (w *walker) direction(i int) vec.Vec2 {
	e := w.edges[i]
	return w.pool.At(e.To).Sub(w.pool.At(e.From))
}

// simple cuts a closed walk into loops that visit each vertex once.
func (w *walker) simple(loop []int) [][]Edge {
	var out [][]Edge
	var stack []Edge
	pos := make(map[uint32]int)
	for _, i := range loop {
		e := w.edges[i].Edge
		pos[e.From] = len(stack)
		stack = append(stack, e)
		j, seen := pos[e.To]
		if !seen {
			continue
		}
		cycle := slices.Clone(stack[j:])
		for _, c := range cycle {
			delete(pos, c.From)
		}
		stack = stack[:j]
		if !degenerate(w.pool, cycle) {
			out = append(out, cycle)
		}
	}
	return out
}
