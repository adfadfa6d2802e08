package outline

import (
	"fmt"
	"sync"
)

// Backend parses font files into Fonts. Registering a Backend allows
// swapping the parsing library without touching the callers of Parse.
type Backend interface {
	// Parse parses TrueType or OpenType data. A non-empty family overrides
	// the name stored in the font.
	Parse(data []byte, family string) (Font, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(data []byte, family string) (Font, error)

// Parse implements Backend.
func (f BackendFunc) Parse(data []byte, family string) (Font, error) {
	return f(data, family)
}

// DefaultBackend is the name of the backend Parse uses unless told otherwise.
const DefaultBackend = "sfnt"

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{
		"sfnt":   BackendFunc(parseSFNT),
		"gotext": BackendFunc(parseGoText),
	}
)

// RegisterBackend makes b available to Parse under name, replacing any
// backend registered under the same name.
func RegisterBackend(name string, b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// Backends returns the registered backend names.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func backend(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Option configures Parse.
type Option func(*parseOptions)

type parseOptions struct {
	backend string
	family  string
}

// WithBackend selects a registered backend by name.
func WithBackend(name string) Option {
	return func(o *parseOptions) {
		o.backend = name
	}
}

// WithFamily overrides the family name reported by the parsed font.
func WithFamily(family string) Option {
	return func(o *parseOptions) {
		o.family = family
	}
}

// Parse parses TrueType or OpenType font data.
func Parse(data []byte, opts ...Option) (Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	o := parseOptions{backend: DefaultBackend}
	for _, opt := range opts {
		opt(&o)
	}
	b, err := backend(o.backend)
	if err != nil {
		return nil, err
	}
	return b.Parse(data, o.family)
}
