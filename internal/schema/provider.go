package schema

import (
	"context"

	"metabind/internal/model"
	"metabind/internal/registry"
)

// Provider serves the domains of a catalog to registry discovery. Models
// are derived through the registry on demand.
type Provider struct {
	domains []*registry.StaticProvider
}

var _ registry.ModelProvider = (*Provider)(nil)

// NewProvider creates a provider over cat, deriving through reg.
func NewProvider(reg *registry.Registry, cat *Catalog) *Provider {
	p := &Provider{}
	for _, d := range cat.Domains {
		p.domains = append(p.domains, registry.NewStaticProvider(reg, d.ID, d.Types...))
	}

	return p
}

// FindAll returns every domain of the catalog in declaration order.
func (p *Provider) FindAll(ctx context.Context) ([]*model.DomainModel, error) {
	var out []*model.DomainModel

	for _, d := range p.domains {
		dms, err := d.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		out = append(out, dms...)
	}

	return out, nil
}

// Find returns the domain matching name and version, if declared.
func (p *Provider) Find(ctx context.Context, name string, version int) ([]*model.DomainModel, error) {
	var out []*model.DomainModel

	for _, d := range p.domains {
		dms, err := d.Find(ctx, name, version)
		if err != nil {
			return nil, err
		}

		out = append(out, dms...)
	}

	return out, nil
}
