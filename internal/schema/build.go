package schema

import (
	"fmt"

	"metabind/internal/analyze"
	"metabind/internal/model"
	"metabind/primitive"
)

// Catalog is a built schema: descriptors for every declared type and the
// declared domains.
type Catalog struct {
	Graph   *analyze.TypeGraph
	Domains []Domain
}

// Domain is a domain identity with its root types.
type Domain struct {
	ID    model.DomainIdentity
	Types []*analyze.TypeInfo
}

// Type returns the descriptor of a declared type by name.
func (c *Catalog) Type(name string) (*analyze.TypeInfo, bool) {
	t := c.Graph.Lookup(name)
	return t, t != nil
}

// Build validates f and turns it into descriptors. Parents are declared
// before the types extending them.
func Build(f *File) (*Catalog, error) {
	if err := Validate(f).Error(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	b := analyze.NewBuilder(f.Namespace)

	for _, e := range f.Enums {
		b.Enum(e.Name, primitive.FromName(e.Kind), e.Markers...)
	}

	order, _, err := extendsOrder(f)
	if err != nil {
		return nil, err
	}

	for _, i := range order {
		t := f.Types[i]

		sb := b.Struct(t.Name, t.Markers...)
		if t.Extends != "" {
			sb.Extends(t.Extends)
		}

		for _, fd := range t.Fields {
			expr, err := parseType(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, fd.Name, err)
			}

			tag, err := fieldTag(fd)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, fd.Name, err)
			}

			sb.Field(fd.Name, expr.descriptor(b), tag)
		}

		for _, op := range t.Operations {
			sb.Operation(op)
		}
	}

	graph, err := b.Build()
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Graph: graph}

	for _, d := range f.Domains {
		id, err := model.ParseDomainIdentity(d.Domain)
		if err != nil {
			return nil, err
		}

		dom := Domain{ID: id}
		for _, name := range d.Types {
			dom.Types = append(dom.Types, graph.GetType(analyze.TypeID{PkgPath: f.Namespace, Name: name}))
		}

		cat.Domains = append(cat.Domains, dom)
	}

	return cat, nil
}

// Load reads, validates and builds a schema file.
func Load(path string) (*Catalog, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return Build(f)
}
