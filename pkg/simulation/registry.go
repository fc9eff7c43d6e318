package simulation

import (
	"errors"
	"fmt"

	"spectralsim/internal/models"
	"spectralsim/pkg/sensitivity"
)

// ErrUnregisteredSimulator is returned by Create for an unknown name.
var ErrUnregisteredSimulator = errors.New("simulator not registered")

// Options carries the per-request parameters a factory may use.
type Options struct {
	// Deficiency names the colour vision deficiency for the colour
	// blindness simulator. Empty selects Deuteranopia.
	Deficiency string

	// Gamma is forwarded to sensitivity driven engines. Zero means 1.
	Gamma float64

	// Workers is forwarded to sensitivity driven engines.
	Workers int

	// ConeTable overrides the embedded cone fundamentals. Nil uses the
	// embedded table.
	ConeTable *sensitivity.ConeTable
}

// Factory builds an engine for img. bands is only used by band choice.
type Factory func(img *models.Image, bands []int, opts Options) (Engine, error)

// Registry maps simulation names to factories.
//
// A Registry has no internal locking: populate it once at startup, before
// it is shared.
type Registry struct {
	factories map[string]Factory
	names     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. It starts empty; the
// composition root fills it, typically with RegisterBuiltins.
func Default() *Registry {
	return defaultRegistry
}

// Register stores f under name. A later registration replaces the factory
// but keeps the name's original position in Names.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
}

// Create builds the engine registered under name.
func (r *Registry) Create(name string, img *models.Image, bands []int, opts Options) (Engine, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredSimulator, name)
	}
	return f(img, bands, opts)
}

// Names lists registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
