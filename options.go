package glyphmesh

import "github.com/gogpu/glyphmesh/internal/path"

// CompositorOption configures a Compositor during creation.
//
// Example:
//
//	// Triangulated meshes with an unbounded cache
//	c := glyphmesh.NewCompositor()
//
//	// Shader-side curves, sharing a bounded cache
//	shared := glyphmesh.NewGlyphCache(512)
//	c := glyphmesh.NewCompositor(
//	    glyphmesh.WithStrategy(glyphmesh.StrategyHybrid),
//	    glyphmesh.WithCache(shared),
//	)
type CompositorOption func(*compositorOptions)

type compositorOptions struct {
	strategy  Strategy
	threshold float64
	cache     *GlyphCache
	capacity  int
	workers   int
}

func defaultCompositorOptions() compositorOptions {
	return compositorOptions{
		strategy:  StrategyTriangulation,
		threshold: path.DefaultThreshold,
		capacity:  Unbounded,
		workers:   1,
	}
}

// WithStrategy selects the mesh strategy. Invalid values are ignored.
func WithStrategy(s Strategy) CompositorOption {
	return func(o *compositorOptions) {
		if s.Valid() {
			o.strategy = s
		}
	}
}

// WithFlatteningThreshold sets the largest distance, in pixels at the target
// size, between a flattened curve and the true curve. Non-positive values
// are ignored.
func WithFlatteningThreshold(px float64) CompositorOption {
	return func(o *compositorOptions) {
		if px > 0 {
			o.threshold = px
		}
	}
}

// WithCache makes the compositor store glyphs in c, which may be shared by
// several compositors. Keys do not include the strategy, so compositors
// sharing a cache should use the same one.
func WithCache(c *GlyphCache) CompositorOption {
	return func(o *compositorOptions) {
		o.cache = c
	}
}

// WithCacheCapacity sets the capacity of the compositor's own cache. It has
// no effect together with WithCache.
func WithCacheCapacity(n int) CompositorOption {
	return func(o *compositorOptions) {
		o.capacity = n
	}
}

// WithWorkers sets how many glyphs Preload composes at once. Zero or negative
// means GOMAXPROCS; the default of 1 composes on the calling goroutine.
func WithWorkers(n int) CompositorOption {
	return func(o *compositorOptions) {
		o.workers = n
	}
}
