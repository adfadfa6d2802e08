package triangulate

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func triangleArea(vs []vec.Vec2, idx []uint32) float64 {
	total := 0.0
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := vs[idx[i]], vs[idx[i+1]], vs[idx[i+2]]
		total += math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
	}
	return total
}

// square returns the corners of an axis-aligned square, clockwise in y-up
// coordinates.
func square(x, y, size float64) []vec.Vec2 {
	return []vec.Vec2{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
	}
}

func seq(from, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(from + i)
	}
	return out
}

func reversed(s []uint32) []uint32 {
	out := make([]uint32, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func TestTriangulate(t *testing.T) {
	ring := append(square(0, 0, 100), square(25, 25, 50)...)
	tests := []struct {
		name      string
		points    []vec.Vec2
		loops     [][]uint32
		triangles int
		area      float64
	}{
		{
			name:      "square",
			points:    square(0, 0, 10),
			loops:     [][]uint32{seq(0, 4)},
			triangles: 2,
			area:      100,
		},
		{
			name:   "square with collinear and repeated points",
			points: []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}},
			loops:  [][]uint32{seq(0, 6)},
			// Both extra points disappear, leaving the plain square.
			triangles: 2,
			area:      100,
		},
		{
			name:   "ring",
			points: ring,
			loops:  [][]uint32{seq(0, 4), reversed(seq(4, 4))},
			area:   100*100 - 50*50,
		},
		{
			name:   "hole given before its outer loop",
			points: ring,
			loops:  [][]uint32{reversed(seq(4, 4)), seq(0, 4)},
			area:   100*100 - 50*50,
		},
		{
			name:   "orphan counter-clockwise loop is filled",
			points: square(0, 0, 10),
			loops:  [][]uint32{reversed(seq(0, 4))},
			area:   100,
		},
		{
			name:   "two outer loops",
			points: append(square(0, 0, 10), square(20, 0, 10)...),
			loops:  [][]uint32{seq(0, 4), seq(4, 4)},
			area:   200,
		},
		{
			name:   "degenerate loop is skipped",
			points: []vec.Vec2{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}},
			loops:  [][]uint32{seq(0, 3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, idx, err := Triangulate(tt.points, tt.loops)
			if err != nil {
				t.Fatalf("Triangulate() error = %v", err)
			}
			if len(idx)%3 != 0 {
				t.Fatalf("len(indices) = %d, not a multiple of 3", len(idx))
			}
			if tt.triangles > 0 && len(idx)/3 != tt.triangles {
				t.Errorf("triangles = %d, want %d", len(idx)/3, tt.triangles)
			}
			if got := triangleArea(vs, idx); math.Abs(got-tt.area) > 1e-6 {
				t.Errorf("area = %v, want %v", got, tt.area)
			}
			for i, p := range tt.points {
				if vs[i] != p {
					t.Errorf("vertex %d = %v, want %v", i, vs[i], p)
				}
			}
		})
	}
}

func TestTriangulateHoleTouchingOuter(t *testing.T) {
	// A triangular hole whose corner sits on the outer square's corner.
	points := append(square(0, 0, 100), vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 50, Y: 20}, vec.Vec2{X: 20, Y: 50})
	hole := []uint32{4, 5, 6} // counter-clockwise
	vs, idx, err := Triangulate(points, [][]uint32{seq(0, 4), hole})
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	if len(vs) != len(points)+1 {
		t.Errorf("len(vertices) = %d, want %d", len(vs), len(points)+1)
	}
	holeArea := 0.5 * math.Abs(50*50-20*20)
	if got, want := triangleArea(vs, idx), 100*100-holeArea; math.Abs(got-want) > 1 {
		t.Errorf("area = %v, want about %v", got, want)
	}
}

func TestTriangulateCollinearAcrossLoops(t *testing.T) {
	// A plus sign whose hole has its left edge on the line x=30 that also
	// carries two of the outer edges.
	points := []vec.Vec2{
		{X: 0, Y: 30}, {X: 0, Y: 70}, {X: 30, Y: 70}, {X: 30, Y: 100},
		{X: 70, Y: 100}, {X: 70, Y: 70}, {X: 100, Y: 70}, {X: 100, Y: 30},
		{X: 70, Y: 30}, {X: 70, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30},
	}
	points = append(points, square(30, 40, 20)...)
	vs, idx, err := Triangulate(points, [][]uint32{seq(0, 12), reversed(seq(12, 4))})
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	if got, want := triangleArea(vs, idx), 6400.0-400; math.Abs(got-want) > 1e-6 {
		t.Errorf("area = %v, want %v", got, want)
	}
}

func TestSweepJitterKeepsVertices(t *testing.T) {
	points := square(0, 0, 10)
	for _, scale := range jitters {
		tr := &triangulation{vertices: append([]vec.Vec2(nil), points...)}
		tris, err := tr.sweepOnce([][]uint32{seq(0, 4)}, 3, scale)
		if err != nil {
			t.Fatalf("scale %v: sweepOnce() error = %v", scale, err)
		}
		if len(tris) != 6 {
			t.Fatalf("scale %v: len(indices) = %d, want 6", scale, len(tris))
		}
		for _, i := range tris {
			if i >= 4 {
				t.Errorf("scale %v: index %d out of range", scale, i)
			}
		}
		if got := triangleArea(tr.vertices, tris); math.Abs(got-100) > 1e-9 {
			t.Errorf("scale %v: area = %v, want 100", scale, got)
		}
		for i, p := range points {
			if tr.vertices[i] != p {
				t.Errorf("scale %v: vertex %d = %v, want %v", scale, i, tr.vertices[i], p)
			}
		}
	}
}
