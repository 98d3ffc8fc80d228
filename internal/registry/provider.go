package registry

import (
	"context"
	"fmt"

	"metabind/internal/analyze"
	"metabind/internal/model"
)

// StaticProvider serves one domain made of fixed types, derived through a
// registry.
type StaticProvider struct {
	reg   *Registry
	id    model.DomainIdentity
	types []*analyze.TypeInfo
}

// NewStaticProvider groups types under id.
func NewStaticProvider(reg *Registry, id model.DomainIdentity, types ...*analyze.TypeInfo) *StaticProvider {
	return &StaticProvider{reg: reg, id: id, types: types}
}

// FindAll derives the domain's roots and returns the domain model.
func (p *StaticProvider) FindAll(ctx context.Context) ([]*model.DomainModel, error) {
	roots := make([]*model.ComponentModel, 0, len(p.types))

	for _, t := range p.types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := p.reg.GetOrDerive(t)
		if err != nil {
			return nil, fmt.Errorf("domain %s: %w", p.id, err)
		}

		roots = append(roots, m)
	}

	dm, err := model.NewDomainModel(p.id, roots...)
	if err != nil {
		return nil, err
	}

	return []*model.DomainModel{dm}, nil
}

// Find returns the domain when it matches name and version.
func (p *StaticProvider) Find(ctx context.Context, name string, version int) ([]*model.DomainModel, error) {
	if p.id.Name != name || p.id.Version != version {
		return nil, nil
	}

	return p.FindAll(ctx)
}
