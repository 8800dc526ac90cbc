// Package registry maps method names to operation descriptors.
// Registration happens once at startup before traffic is accepted;
// lookups after that are read-only, so no locking is taken.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/sheetgate/sheetgate/internal/session"
	"github.com/sheetgate/sheetgate/internal/validate"
)

// ErrNotFound is returned by Resolve for an unregistered method name.
var ErrNotFound = errors.New("operation not found")

// Handler executes one backend operation against the shared session.
// Handlers must phrase upstream errors with the classifiable
// vocabulary (quota, forbidden, not found, invalid) or extend the
// classifier.
type Handler func(ctx context.Context, sess *session.Session, args map[string]any) (any, error)

// Descriptor is one registered operation: its name, parameter schema,
// and handler. Name is immutable after registration.
type Descriptor struct {
	Name        string
	Description string
	Params      map[string]validate.Spec
	Handler     Handler
}

// Registry is the method-name → descriptor table.
type Registry struct {
	ops map[string]*Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ops: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Re-registering a name is a programming
// error and fails loudly rather than silently overwriting.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return errors.New("registry: descriptor has empty name")
	}
	if d.Handler == nil {
		return fmt.Errorf("registry: %s has nil handler", d.Name)
	}
	if _, exists := r.ops[d.Name]; exists {
		return fmt.Errorf("registry: %s already registered", d.Name)
	}
	r.ops[d.Name] = d
	return nil
}

// Resolve looks up a descriptor by name.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	d, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}

// Names returns all registered method names, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	return names
}
