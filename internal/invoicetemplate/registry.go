// Package invoicetemplate exposes the process-wide template schema
// registry. The registry is read-only: it is built once at startup from
// the fixed schema list and never registers templates at runtime.
package invoicetemplate

import (
	"fmt"

	"github.com/mandalorian99/invoiceable/internal/invoicetemplate/domain"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

type Registry struct {
	order []string
	byID  map[string]domain.Schema
}

// NewRegistry builds the registry from the built-in schema set.
func NewRegistry(catalog *tax.Catalog) (*Registry, error) {
	return NewRegistryFromSchemas(builtinSchemas(catalog))
}

// NewRegistryFromSchemas builds a registry from an explicit schema
// list, validating every schema. The first entry is the default.
func NewRegistryFromSchemas(schemas []domain.Schema) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(schemas)),
		byID:  make(map[string]domain.Schema, len(schemas)),
	}
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid template schema %q: %w", s.ID, err)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", s.ID)
		}
		r.order = append(r.order, s.ID)
		r.byID[s.ID] = s
	}
	return r, nil
}

// Get returns the schema for an id. ErrUnknownTemplate is recoverable:
// callers fall back to DefaultID rather than failing outright.
func (r *Registry) Get(id string) (domain.Schema, error) {
	s, ok := r.byID[id]
	if !ok {
		return domain.Schema{}, fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, id)
	}
	return s, nil
}

// List returns every schema in registration order.
func (r *Registry) List() []domain.Schema {
	out := make([]domain.Schema, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// DefaultID is the fallback template for unknown ids.
func (r *Registry) DefaultID() string {
	return r.order[0]
}
