package provider

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"metabind/internal/analyze"
	"metabind/internal/model"
)

// AttributeFactory builds an attribute from its marker.
type AttributeFactory func(mk analyze.Marker) (model.Attribute, error)

// ConstraintFactory builds a constraint from its marker.
type ConstraintFactory func(mk analyze.Marker) (model.Constraint, error)

// Registry holds attribute and constraint factories by marker key.
type Registry struct {
	mu          sync.RWMutex
	attributes  map[string]AttributeFactory
	constraints map[string]ConstraintFactory
}

// NewRegistry returns a registry with the built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{
		attributes:  make(map[string]AttributeFactory),
		constraints: make(map[string]ConstraintFactory),
	}

	for key, f := range builtinAttributes() {
		r.attributes[key] = f
	}

	for key, f := range builtinConstraints() {
		r.constraints[key] = f
	}

	return r
}

// RegisterAttribute adds an attribute factory for key.
func (r *Registry) RegisterAttribute(key string, f AttributeFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.free(key); err != nil {
		return err
	}

	r.attributes[key] = f

	return nil
}

// RegisterConstraint adds a constraint factory for key.
func (r *Registry) RegisterConstraint(key string, f ConstraintFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.free(key); err != nil {
		return err
	}

	r.constraints[key] = f

	return nil
}

func (r *Registry) free(key string) error {
	if key == "" {
		return errors.New("provider: empty marker key")
	}

	_, isAttr := r.attributes[key]
	_, isConstraint := r.constraints[key]

	if isAttr || isConstraint {
		return fmt.Errorf("provider: marker %q already registered", key)
	}

	return nil
}

// Construct builds the attributes and constraints of a marker list in
// declaration order. Unknown markers are skipped; every factory error is
// reported.
func (r *Registry) Construct(markers analyze.Markers) ([]model.Attribute, []model.Constraint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		attrs       []model.Attribute
		constraints []model.Constraint
		errs        []error
	)

	for _, mk := range markers {
		if f, ok := r.attributes[mk.Key]; ok {
			a, err := f(mk)
			if err != nil {
				errs = append(errs, fmt.Errorf("marker %s: %w", mk, err))
				continue
			}
			attrs = append(attrs, a)
			continue
		}

		if f, ok := r.constraints[mk.Key]; ok {
			c, err := f(mk)
			if err != nil {
				errs = append(errs, fmt.Errorf("marker %s: %w", mk, err))
				continue
			}
			constraints = append(constraints, c)
		}
	}

	return attrs, constraints, errors.Join(errs...)
}

// Keys returns every registered marker key, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.attributes)+len(r.constraints))
	for k := range r.attributes {
		keys = append(keys, k)
	}
	for k := range r.constraints {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
