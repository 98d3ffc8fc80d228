package model

import (
	"fmt"
	"slices"

	"metabind/internal/analyze"
	"metabind/internal/codec"
)

// Builder assembles one ComponentModel. The model pointer is available before
// Build so recursive structures can reference it while under construction.
type Builder struct {
	m       *ComponentModel
	baseVia []int
	built   bool
}

// NewRoot starts the model of a whole type.
func NewRoot(name string, t *analyze.TypeInfo) *Builder {
	return &Builder{m: &ComponentModel{name: name, kind: KindObject, typ: t}}
}

// NewComponent starts the model of one component.
func NewComponent(name string, kind Kind, t *analyze.TypeInfo) *Builder {
	return &Builder{m: &ComponentModel{name: name, kind: kind, typ: t}}
}

// Model returns the model under construction.
func (b *Builder) Model() *ComponentModel { return b.m }

func (b *Builder) Aliases(aliases ...string) *Builder {
	b.m.aliases = append(b.m.aliases, aliases...)
	return b
}

func (b *Builder) Attributes(attrs ...Attribute) *Builder {
	b.m.attrs = append(b.m.attrs, attrs...)
	return b
}

func (b *Builder) Constraints(cs ...Constraint) *Builder {
	b.m.constraints = append(b.m.constraints, cs...)
	return b
}

func (b *Builder) Codec(c codec.Codec) *Builder {
	b.m.codec = c
	return b
}

func (b *Builder) Params(params analyze.Markers) *Builder {
	b.m.params = slices.Clone(params)
	return b
}

func (b *Builder) Index(index []int) *Builder {
	b.m.index = slices.Clone(index)
	return b
}

func (b *Builder) Optional(optional bool) *Builder {
	b.m.optional = optional
	return b
}

// Base sets the parent type model. via is the accessor of the parent within
// the modeled struct.
func (b *Builder) Base(parent *ComponentModel, via []int) *Builder {
	b.m.base = parent
	b.baseVia = slices.Clone(via)

	return b
}

// Ref sets the nested composite model.
func (b *Builder) Ref(nested *ComponentModel) *Builder {
	b.m.ref = nested
	return b
}

// Elem sets the element model; the element becomes owned by m.
func (b *Builder) Elem(elem *ComponentModel) *Builder {
	elem.owner = b.m
	b.m.elem = elem

	return b
}

// Key sets the map key model; the key becomes owned by m.
func (b *Builder) Key(key *ComponentModel) *Builder {
	key.owner = b.m
	b.m.key = key

	return b
}

// Add appends a locally declared component.
func (b *Builder) Add(child *ComponentModel) *Builder {
	child.owner = b.m
	b.m.children = append(b.m.children, child)

	return b
}

// Build merges inherited and local members, resolves identity and version
// and checks naming invariants.
func (b *Builder) Build() (*ComponentModel, error) {
	if b.built {
		return b.m, nil
	}

	m := b.m
	slices.Sort(m.aliases)
	m.aliases = slices.Compact(m.aliases)

	if err := b.merge(); err != nil {
		return nil, err
	}

	if err := b.checkNames(); err != nil {
		return nil, err
	}

	b.built = true

	return m, nil
}

func (b *Builder) merge() error {
	m := b.m
	local := make(map[string]struct{}, len(m.children))

	for _, c := range m.children {
		local[c.name] = struct{}{}
	}

	m.members = m.members[:0]

	if m.base != nil {
		for _, mem := range m.base.members {
			if _, shadowed := local[mem.name]; shadowed {
				continue
			}

			via := append(slices.Clone(b.baseVia), mem.Via...)
			m.members = append(m.members, Member{ComponentModel: mem.ComponentModel, Origin: OriginInherited, Via: via})
		}
	}

	for _, c := range m.children {
		m.members = append(m.members, Member{ComponentModel: c, Origin: OriginLocal})
	}

	identity, err := b.special(RoleIdentity)
	if err != nil {
		return err
	}

	version, err := b.special(RoleVersion)
	if err != nil {
		return err
	}

	m.identity, m.version = identity, version

	if m.kind.IsComposite() {
		m.kind = KindObject
		if identity != nil {
			m.kind = KindEntity
		}
	}

	return nil
}

// special resolves the single member carrying role: a local declaration
// shadows inherited ones, and no level may declare more than one.
func (b *Builder) special(role Role) (*Member, error) {
	var local, inherited []Member

	for _, mem := range b.m.members {
		if !mem.Has(role) {
			continue
		}

		if mem.Origin == OriginLocal {
			local = append(local, mem)
		} else {
			inherited = append(inherited, mem)
		}
	}

	if len(local) > 1 {
		return nil, b.conflict(role, local)
	}

	if len(local) == 1 {
		return &local[0], nil
	}

	if len(inherited) > 1 {
		return nil, b.conflict(role, inherited)
	}

	if len(inherited) == 1 {
		return &inherited[0], nil
	}

	return nil, nil
}

func (b *Builder) conflict(role Role, members []Member) error {
	paths := make([]string, len(members))
	for i, mem := range members {
		paths[i] = mem.QualifiedPath()
	}

	return NewModelError(b.m.name, fmt.Sprintf("more than one %s member", role), nil, paths...)
}

func (b *Builder) checkNames() error {
	owners := make(map[string]Member)

	claim := func(name string, mem Member) error {
		if prev, ok := owners[name]; ok && prev.ComponentModel != mem.ComponentModel {
			return NewModelError(b.m.name, fmt.Sprintf("name %q declared twice", name), nil,
				prev.QualifiedPath(), mem.QualifiedPath())
		}
		owners[name] = mem

		return nil
	}

	for _, mem := range b.m.members {
		if err := claim(mem.name, mem); err != nil {
			return err
		}
	}

	for _, mem := range b.m.members {
		for _, alias := range mem.aliases {
			if err := claim(alias, mem); err != nil {
				return err
			}
		}
	}

	return nil
}
