package glyphmesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphmesh/internal/parallel"
	"github.com/gogpu/glyphmesh/outline"
	"golang.org/x/text/unicode/norm"
)

// Compositor turns glyph outlines into meshes and caches the results.
//
// All per-glyph state lives in the call, so a Compositor is safe for
// concurrent use; its cache serializes access on its own.
type Compositor struct {
	strategy  Strategy
	threshold float64
	cache     *GlyphCache
	workers   int
}

// NewCompositor creates a compositor. Without options it triangulates with
// a one-pixel flattening threshold into an unbounded cache of its own.
func NewCompositor(opts ...CompositorOption) *Compositor {
	o := defaultCompositorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = NewGlyphCache(o.capacity)
	}
	return &Compositor{
		strategy:  o.strategy,
		threshold: o.threshold,
		cache:     o.cache,
		workers:   o.workers,
	}
}

// Strategy returns the mesh strategy.
func (c *Compositor) Strategy() Strategy {
	return c.strategy
}

// Cache returns the cache the compositor stores glyphs in.
func (c *Compositor) Cache() *GlyphCache {
	return c.cache
}

// Key returns the cache key ComposeGlyph uses. The size is dropped for
// strategies whose meshes do not depend on it.
func (c *Compositor) Key(f outline.Font, gid outline.GlyphID, size uint32) GlyphKey {
	k := GlyphKey{Family: f.Family(), Glyph: gid}
	if c.strategy.SizeDependent() {
		k.Size = size
	}
	return k
}

// ComposeGlyph returns the mesh of glyph gid of f at size pixels per em.
//
// A cached glyph is returned as is. Otherwise the outline is decomposed,
// its contours are merged into simple, non-overlapping loops and the mesh
// for the compositor's strategy is built and cached. A nil font yields
// ErrNilFont. Any other failure caches nothing and returns a
// *CompositionError.
func (c *Compositor) ComposeGlyph(f outline.Font, gid outline.GlyphID, size uint32) (*Glyph, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	key := c.Key(f, gid, size)
	if g, err := c.cache.Get(key); err == nil {
		return g, nil
	}

	log := Logger()
	log.Debug("composing glyph", "family", key.Family, "glyph", gid, "size", size, "strategy", c.strategy)

	g, err := c.compose(f, gid, size, key)
	if err != nil {
		log.Warn("glyph composition failed", "family", key.Family, "glyph", gid, "err", err)
		return nil, &CompositionError{Family: key.Family, Glyph: gid, Err: err}
	}
	c.cache.Set(key, g)

	log.Debug("glyph composed",
		"family", key.Family,
		"glyph", gid,
		"contours", g.Contours,
		"vertices", len(g.Mesh.Vertices),
		"triangles", g.Mesh.TriangleCount())
	return g, nil
}

func (c *Compositor) compose(f outline.Font, gid outline.GlyphID, size uint32, key GlyphKey) (*Glyph, error) {
	comp := newComposition(c.strategy, c.threshold, size, f.UnitsPerEm())
	m, err := f.Decompose(gid, comp)
	if err != nil {
		return nil, err
	}
	if err := comp.finish(); err != nil {
		return nil, err
	}
	return comp.assemble(key, m)
}

// ComposeRune composes the glyph f maps r to. A tab is composed as a space.
func (c *Compositor) ComposeRune(f outline.Font, r rune, size uint32) (*Glyph, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	if r == '\t' {
		r = ' '
	}
	gid, ok := f.GlyphIndex(r)
	if !ok {
		return nil, fmt.Errorf("%w: %U in %q", ErrGlyphNotFound, r, f.Family())
	}
	return c.ComposeGlyph(f, gid, size)
}

// Preload composes every distinct rune of text, after NFC normalization, so
// later lookups hit the cache. It composes as much as it can and returns
// the failures joined, in text order. See WithWorkers.
func (c *Compositor) Preload(f outline.Font, text string, size uint32) error {
	if f == nil {
		return ErrNilFont
	}
	var runes []rune
	seen := make(map[rune]bool)
	for _, r := range norm.NFC.String(text) {
		if !seen[r] {
			seen[r] = true
			runes = append(runes, r)
		}
	}

	errs := make([]error, len(runes))
	jobs := make([]func(), len(runes))
	for i, r := range runes {
		jobs[i] = func() {
			_, errs[i] = c.ComposeRune(f, r, size)
		}
	}
	if c.workers == 1 || len(jobs) < 2 {
		for _, job := range jobs {
			job()
		}
	} else {
		p := parallel.NewPool(c.workers)
		p.Run(jobs)
		p.Close()
	}
	return errors.Join(errs...)
}
