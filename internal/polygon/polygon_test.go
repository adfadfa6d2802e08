package polygon

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"
)

// loop interns points and returns the closed contour through them.
func loop(pool *Pool, pts ...[2]float64) *Contour {
	idx := make([]uint32, len(pts))
	for i, p := range pts {
		idx[i] = pool.Intern(vec.Vec2{X: p[0], Y: p[1]})
	}
	return LoopContour(idx...)
}

// square returns a clockwise square (y-up) with lower-left corner (x, y).
func square(pool *Pool, x, y, size float64) *Contour {
	return loop(pool,
		[2]float64{x, y},
		[2]float64{x, y + size},
		[2]float64{x + size, y + size},
		[2]float64{x + size, y},
	)
}

func reverse(c *Contour) *Contour {
	edges := c.EdgeSlice()
	out := NewContour()
	for i := len(edges) - 1; i >= 0; i-- {
		out.Edges.InsertLast(edges[i].Reversed())
	}
	return out
}

func checkClosed(t *testing.T, p Polygon) {
	t.Helper()
	for i, c := range p {
		if !c.Closed() {
			t.Errorf("contour %d is not closed: %v", i, c.EdgeSlice())
			continue
		}
		h := c.Edges.Front()
		for n := 0; n < c.Len(); n++ {
			h = c.Edges.Next(h)
		}
		if h != c.Edges.Front() {
			t.Errorf("contour %d: %d steps did not return to the first edge", i, c.Len())
		}
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestPoolIntern(t *testing.T) {
	pool := NewPool(4)
	a := pool.Intern(vec.Vec2{X: 0, Y: 0})
	b := pool.Intern(vec.Vec2{X: 0.5, Y: 0.5})
	c := pool.Intern(vec.Vec2{X: 3, Y: 0})
	d := pool.Add(vec.Vec2{X: 0, Y: 0})

	if a != b {
		t.Errorf("Intern within tolerance = %d, want %d", b, a)
	}
	if c == a {
		t.Error("Intern merged a distant point")
	}
	if d == a || pool.Len() != 3 {
		t.Errorf("Add deduplicated: index %d, len %d", d, pool.Len())
	}
}

func TestEdgeInverse(t *testing.T) {
	e := Edge{From: 1, To: 2}
	if !e.Inverse(Edge{From: 2, To: 1}) {
		t.Error("(1,2) should be inverse of (2,1)")
	}
	if e.Inverse(e) {
		t.Error("an edge is not its own inverse")
	}
	if e.Reversed() != (Edge{From: 2, To: 1}) {
		t.Errorf("Reversed() = %v", e.Reversed())
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 vec.Vec2
		want           vec.Vec2
		ok             bool
	}{
		{
			name: "cross",
			p1:   vec.Vec2{X: 0, Y: 0}, p2: vec.Vec2{X: 10, Y: 10},
			p3: vec.Vec2{X: 0, Y: 10}, p4: vec.Vec2{X: 10, Y: 0},
			want: vec.Vec2{X: 5, Y: 5}, ok: true,
		},
		{
			name: "parallel",
			p1:   vec.Vec2{X: 0, Y: 0}, p2: vec.Vec2{X: 10, Y: 0},
			p3: vec.Vec2{X: 0, Y: 1}, p4: vec.Vec2{X: 10, Y: 1},
		},
		{
			name: "lines meet outside segments",
			p1:   vec.Vec2{X: 0, Y: 0}, p2: vec.Vec2{X: 1, Y: 1},
			p3: vec.Vec2{X: 0, Y: 10}, p4: vec.Vec2{X: 1, Y: 9},
		},
		{
			name: "start on other line",
			p1:   vec.Vec2{X: 5, Y: 0}, p2: vec.Vec2{X: 5, Y: 10},
			p3: vec.Vec2{X: 0, Y: 0}, p4: vec.Vec2{X: 10, Y: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.p1, tt.p2, tt.p3, tt.p4)
			if ok != tt.ok {
				t.Fatalf("Intersect() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (!near(got.X, tt.want.X) || !near(got.Y, tt.want.Y)) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnEdge(t *testing.T) {
	a, b := vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 10}
	if !OnEdge(vec.Vec2{X: 4, Y: 4}, a, b) {
		t.Error("(4,4) should lie on (0,0)-(10,10)")
	}
	if OnEdge(vec.Vec2{X: 4, Y: 5}, a, b) {
		t.Error("(4,5) should not lie on (0,0)-(10,10)")
	}
	if OnEdge(vec.Vec2{X: 11, Y: 11}, a, b) {
		t.Error("(11,11) is outside the bounding box")
	}
}

func TestIsOnLeftSide(t *testing.T) {
	a, b := vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}
	if !IsOnLeftSide(a, b, vec.Vec2{X: 5, Y: 1}) {
		t.Error("point above a rightward edge is on its left in y-up space")
	}
	if IsOnLeftSide(a, b, vec.Vec2{X: 5, Y: -1}) {
		t.Error("point below a rightward edge is on its right")
	}
}

func TestOrientation(t *testing.T) {
	pool := NewPool(8)
	cw := square(pool, 0, 0, 10)
	if got := cw.SignedArea(pool); !near(got, 100) {
		t.Errorf("SignedArea(cw) = %v, want 100", got)
	}
	if got := cw.Orientation(pool); got != CW {
		t.Errorf("Orientation(cw) = %v, want CW", got)
	}
	ccw := reverse(cw)
	if got := ccw.SignedArea(pool); !near(got, -100) {
		t.Errorf("SignedArea(ccw) = %v, want -100", got)
	}
	if got := ccw.Orientation(pool); got != CCW {
		t.Errorf("Orientation(ccw) = %v, want CCW", got)
	}
}

func TestResolveSimpleUnchanged(t *testing.T) {
	pool := NewPool(8)
	c := square(pool, 0, 0, 10)
	got, err := Resolve(pool, c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Resolve() returned %d contours, want 1", len(got))
	}
	want := c.EdgeSlice()
	for i, e := range got[0].EdgeSlice() {
		if e != want[i] {
			t.Errorf("edge %d = %v, want %v", i, e, want[i])
		}
	}
	if got[0] == c {
		t.Error("Resolve() must not return the input contour itself")
	}
}

func TestResolveFigureEight(t *testing.T) {
	pool := NewPool(8)
	c := loop(pool,
		[2]float64{0, 0},
		[2]float64{0, 10},
		[2]float64{10, 0},
		[2]float64{10, 10},
	)
	before := pool.Len()

	got, err := Resolve(pool, c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Resolve() returned %d contours, want 2", len(got))
	}
	checkClosed(t, got)
	if pool.Len() != before+1 {
		t.Errorf("pool grew by %d, want 1 crossing vertex", pool.Len()-before)
	}
	x := pool.At(uint32(before))
	if !near(x.X, 5) || !near(x.Y, 5) {
		t.Errorf("crossing vertex = %v, want (5,5)", x)
	}

	o0, o1 := got[0].Orientation(pool), got[1].Orientation(pool)
	if o0 == o1 {
		t.Errorf("lobes have the same orientation %v", o0)
	}
	for i, sub := range got {
		if sub.Len() != 3 {
			t.Errorf("lobe %d has %d edges, want 3", i, sub.Len())
		}
		if a := math.Abs(sub.SignedArea(pool)); !near(a, 25) {
			t.Errorf("lobe %d area = %v, want 25", i, a)
		}
	}
}

func TestResolveRemovesSpike(t *testing.T) {
	pool := NewPool(8)
	c := loop(pool,
		[2]float64{0, 0},
		[2]float64{0, 10},
		[2]float64{10, 10},
		[2]float64{15, 10},
		[2]float64{10, 10},
		[2]float64{10, 0},
	)
	got, err := Resolve(pool, c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Resolve() returned %d contours, want 1", len(got))
	}
	checkClosed(t, got)
	if got[0].Len() != 4 {
		t.Errorf("contour has %d edges, want 4", got[0].Len())
	}
	if a := got[0].SignedArea(pool); !near(a, 100) {
		t.Errorf("area = %v, want 100", a)
	}
}

func TestResolveTouchingLoops(t *testing.T) {
	pool := NewPool(8)
	c := loop(pool,
		[2]float64{0, 0},
		[2]float64{0, 10},
		[2]float64{10, 10},
		[2]float64{20, 10},
		[2]float64{20, 20},
		[2]float64{10, 20},
		[2]float64{10, 10},
		[2]float64{10, 0},
	)
	got, err := Resolve(pool, c)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Resolve() returned %d contours, want 2", len(got))
	}
	checkClosed(t, got)
	for i, sub := range got {
		if sub.Len() != 4 {
			t.Errorf("loop %d has %d edges, want 4", i, sub.Len())
		}
		if a := math.Abs(sub.SignedArea(pool)); !near(a, 100) {
			t.Errorf("loop %d area = %v, want 100", i, a)
		}
	}
}

func TestResolveOpenContour(t *testing.T) {
	pool := NewPool(4)
	c := NewContour(Edge{From: 0, To: 1}, Edge{From: 1, To: 2})
	pool.Add(vec.Vec2{})
	pool.Add(vec.Vec2{X: 1})
	pool.Add(vec.Vec2{Y: 1})
	if _, err := Resolve(pool, c); !errors.Is(err, ErrOpenContour) {
		t.Errorf("Resolve() error = %v, want ErrOpenContour", err)
	}
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name     string
		first    func(*Pool) Polygon
		second   func(*Pool) Polygon
		area     float64
		contours int
	}{
		{
			name:     "disjoint",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 20, 0, 10)} },
			area:     200,
			contours: 2,
		},
		{
			name:     "identical",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10)} },
			area:     100,
			contours: 1,
		},
		{
			name:     "overlapping",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 5, 5, 10)} },
			area:     175,
			contours: 1,
		},
		{
			name:     "sharing an edge",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 10, 0, 10)} },
			area:     200,
			contours: 1,
		},
		{
			name:     "contained",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 30)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 10, 10, 10)} },
			area:     900,
			contours: 1,
		},
		{
			name:     "bridging two contours",
			first:    func(p *Pool) Polygon { return Polygon{square(p, 0, 0, 10), square(p, 20, 0, 10)} },
			second:   func(p *Pool) Polygon { return Polygon{square(p, 5, -5, 20)} },
			area:     500,
			contours: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(16)
			got, err := Union(pool, tt.first(pool), tt.second(pool))
			if err != nil {
				t.Fatalf("Union() error = %v", err)
			}
			checkClosed(t, got)
			if len(got) != tt.contours {
				t.Errorf("Union() returned %d contours, want %d", len(got), tt.contours)
			}
			if a := got.Area(pool); !near(a, tt.area) {
				t.Errorf("Union() area = %v, want %v", a, tt.area)
			}
			for i, c := range got {
				if c.Orientation(pool) != CW {
					t.Errorf("contour %d orientation = %v, want CW", i, c.Orientation(pool))
				}
			}
		})
	}
}

func TestUnionRing(t *testing.T) {
	pool := NewPool(8)
	outer := square(pool, 0, 0, 100)
	inner := reverse(square(pool, 25, 25, 50))

	got, err := Union(pool, Polygon{outer}, Polygon{inner})
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	checkClosed(t, got)
	if len(got) != 2 {
		t.Fatalf("Union() returned %d contours, want 2", len(got))
	}
	var cw, ccw int
	for _, c := range got {
		switch c.Orientation(pool) {
		case CW:
			cw++
			if a := c.SignedArea(pool); !near(a, 10000) {
				t.Errorf("outer area = %v, want 10000", a)
			}
		case CCW:
			ccw++
			if a := c.SignedArea(pool); !near(a, -2500) {
				t.Errorf("hole area = %v, want -2500", a)
			}
		}
	}
	if cw != 1 || ccw != 1 {
		t.Errorf("got %d CW and %d CCW contours, want 1 and 1", cw, ccw)
	}
}

func TestUnionHoleBeforeOuter(t *testing.T) {
	pool := NewPool(8)
	inner := reverse(square(pool, 25, 25, 50))
	outer := square(pool, 0, 0, 100)

	got, err := Union(pool, Polygon{inner}, Polygon{outer})
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if a := got.Area(pool); !near(a, 7500) {
		t.Errorf("Union() area = %v, want 7500", a)
	}
}

func TestUnionDoesNotMutateInputs(t *testing.T) {
	pool := NewPool(8)
	a := square(pool, 0, 0, 10)
	b := square(pool, 5, 5, 10)
	wantA, wantB := a.EdgeSlice(), b.EdgeSlice()

	if _, err := Union(pool, Polygon{a}, Polygon{b}); err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if got := a.EdgeSlice(); len(got) != len(wantA) {
		t.Errorf("first input changed: %v", got)
	}
	if got := b.EdgeSlice(); len(got) != len(wantB) {
		t.Errorf("second input changed: %v", got)
	}
}

// filled reports whether p is inside poly under the nonzero rule.
func filled(pool *Pool, poly Polygon, p vec.Vec2) bool {
	w := 0
	for _, c := range poly {
		w += winding(pool, c.EdgeSlice(), p)
	}
	return w != 0
}

func segmentDistance(p, a, b vec.Vec2) float64 {
	d := b.Sub(a)
	t := 0.0
	if l := d.Dot(d); l > 0 {
		t = math.Max(0, math.Min(1, p.Sub(a).Dot(d)/l))
	}
	return p.Sub(a.Add(d.Mul(t))).Length()
}

// checkFill samples a grid over the inputs and compares nonzero fill of the
// inputs with the fill of got. Points within margin of an input edge are
// skipped, since merging nearby vertices moves the boundary slightly.
func checkFill(t *testing.T, pool *Pool, inputs, got Polygon, margin float64) {
	t.Helper()
	lo := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	var edges [][2]vec.Vec2
	for _, c := range inputs {
		for _, e := range c.EdgeSlice() {
			a, b := pool.At(e.From), pool.At(e.To)
			edges = append(edges, [2]vec.Vec2{a, b})
			lo = vec.Vec2{X: math.Min(lo.X, a.X), Y: math.Min(lo.Y, a.Y)}
			hi = vec.Vec2{X: math.Max(hi.X, a.X), Y: math.Max(hi.Y, a.Y)}
		}
	}
	mismatches := 0
	for y := lo.Y - 5.39; y <= hi.Y+5; y += 3.1 {
		for x := lo.X - 5.17; x <= hi.X+5; x += 3.3 {
			p := vec.Vec2{X: x, Y: y}
			skip := false
			for _, e := range edges {
				if segmentDistance(p, e[0], e[1]) < margin {
					skip = true
					break
				}
			}
			if skip {
				continue
			}
			if want, have := filled(pool, inputs, p), filled(pool, got, p); want != have && mismatches < 5 {
				mismatches++
				t.Errorf("fill at %v = %v, want %v", p, have, want)
			}
		}
	}
}

func TestUnionCrossingNearTwoEndpoints(t *testing.T) {
	pool := NewPool(16)
	// The left edge of the triangle ends 0.8 above the square's top edge,
	// whose start lies 0.8 left of the crossing at (10,0). The two ends are
	// more than DedupTolerance apart, so nothing merges them.
	tri := loop(pool,
		[2]float64{10, -50},
		[2]float64{10, 0.8},
		[2]float64{40, -20},
	)
	rect := loop(pool,
		[2]float64{9.2, 0},
		[2]float64{60, 0},
		[2]float64{60, -30},
		[2]float64{9.2, -30},
	)
	if tri.Orientation(pool) != CW || rect.Orientation(pool) != CW {
		t.Fatal("inputs are not clockwise")
	}

	got, err := Union(pool, Polygon{tri}, Polygon{rect})
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	checkClosed(t, got)
	checkFill(t, pool, Polygon{tri, rect}, got, 2)
}

// star returns a clockwise polygon around (cx, cy) with integer vertices.
func star(pool *Pool, rng *rand.Rand, cx, cy float64) *Contour {
	n := 5 + rng.IntN(8)
	step := 2 * math.Pi / float64(n)
	var idx []uint32
	for i := range n {
		// Decreasing angles run clockwise in y-up coordinates.
		a := -float64(i)*step + (rng.Float64()-0.5)*0.6*step
		r := 20 + rng.Float64()*80
		v := pool.Intern(vec.Vec2{
			X: math.Round(cx + r*math.Cos(a)),
			Y: math.Round(cy + r*math.Sin(a)),
		})
		if !slices.Contains(idx, v) {
			idx = append(idx, v)
		}
	}
	return LoopContour(idx...)
}

func TestUnionRandomStars(t *testing.T) {
	trials := 200
	if testing.Short() {
		trials = 20
	}
	for seed := range uint64(trials) {
		rng := rand.New(rand.NewPCG(seed, 7))
		pool := NewPool(64)
		pos := func() float64 { return rng.Float64() * 150 }
		first := Polygon{star(pool, rng, pos(), pos()), star(pool, rng, pos(), pos())}
		second := Polygon{star(pool, rng, pos(), pos())}
		if slices.ContainsFunc(append(first, second...), func(c *Contour) bool { return c.Len() < 3 }) {
			continue
		}

		got, err := Union(pool, first, second)
		if err != nil {
			t.Errorf("seed %d: Union() error = %v", seed, err)
			continue
		}
		checkClosed(t, got)
		checkFill(t, pool, append(first.Clone(), second...), got, 2)
	}
}
