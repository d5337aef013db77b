package memory

import (
	"context"

	"github.com/bnema/spaced/internal/application/port"
)

// Factory creates memory engines sharing one set of options.
type Factory struct {
	opts    Options
	created []*Engine
}

var _ port.EngineFactory = (*Factory)(nil)

// NewFactory creates a factory.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// Create returns a fresh engine. A configured script runs in the first
// engine only.
func (f *Factory) Create(_ context.Context) (port.Engine, error) {
	e := New(f.opts)
	f.opts.Script = nil
	f.created = append(f.created, e)
	return e, nil
}

// Engines returns every engine created so far, oldest first.
// Factories are used from the main loop only.
func (f *Factory) Engines() []*Engine {
	return append([]*Engine(nil), f.created...)
}

// Close destroys every engine the factory created.
func (f *Factory) Close() error {
	for _, e := range f.created {
		e.Destroy()
	}
	f.created = nil
	return nil
}
