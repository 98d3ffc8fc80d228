package model

import (
	"slices"
	"strings"

	"metabind/internal/analyze"
	"metabind/internal/codec"
)

//go:generate go tool stringer -type=Kind,Origin,Role -linecomment -output=enum_string.go

// Kind is the variant of a component model. Scalars carry a codec, objects
// and entities carry members (entities also an identity), arrays an element
// and maps a key and an element.
type Kind int

const (
	KindInvalid Kind = iota // invalid
	KindScalar              // scalar
	KindObject              // object
	KindEntity              // entity
	KindArray               // array
	KindMap                 // map
)

// IsComposite reports whether the kind carries members.
func (k Kind) IsComposite() bool {
	return k == KindObject || k == KindEntity
}

// Origin tells where a member of a model comes from.
type Origin int

const (
	// OriginLocal members are declared by the modeled type.
	OriginLocal Origin = iota // local
	// OriginInherited members are declared by a parent type.
	OriginInherited // inherited
	// OriginComposited members are contributed by a nested model.
	OriginComposited // composited
)

// Member is a component as seen from one model.
type Member struct {
	*ComponentModel
	Origin Origin
	// Via is the accessor prefix leading from the modeled value to the struct
	// that declares the component; empty for local members.
	Via []int
}

// Accessor returns the full reflect index of the member, or nil when the
// model was not derived from a Go type.
func (m Member) Accessor() []int {
	if m.Index() == nil {
		return nil
	}

	return append(slices.Clone(m.Via), m.Index()...)
}

// ComponentModel describes one component of a type, or the type itself for
// root models.
type ComponentModel struct {
	name        string
	aliases     []string
	kind        Kind
	typ         *analyze.TypeInfo
	optional    bool
	attrs       []Attribute
	constraints []Constraint
	codec       codec.Codec
	params      analyze.Markers
	index       []int

	owner    *ComponentModel
	children []*ComponentModel
	members  []Member
	base     *ComponentModel
	ref      *ComponentModel
	elem     *ComponentModel
	key      *ComponentModel

	identity *Member
	version  *Member
}

func (m *ComponentModel) Name() string { return m.name }

// Aliases returns alternate binding names in sorted order.
func (m *ComponentModel) Aliases() []string { return slices.Clone(m.aliases) }

func (m *ComponentModel) Kind() Kind { return m.kind }

// Type returns the declared value type.
func (m *ComponentModel) Type() *analyze.TypeInfo { return m.typ }

// TypeID returns the id of the declared value type.
func (m *ComponentModel) TypeID() analyze.TypeID {
	if m.typ == nil {
		return analyze.TypeID{}
	}

	return m.typ.ID
}

// Optional reports whether the value may be absent (pointer declared).
func (m *ComponentModel) Optional() bool { return m.optional }

func (m *ComponentModel) Attributes() []Attribute { return slices.Clone(m.attrs) }

// Has reports whether the model carries an attribute with role.
func (m *ComponentModel) Has(role Role) bool {
	_, ok := m.Attribute(role)
	return ok
}

// Attribute returns the first attribute with role.
func (m *ComponentModel) Attribute(role Role) (Attribute, bool) {
	for _, a := range m.attrs {
		if a.Role == role {
			return a, true
		}
	}

	return Attribute{}, false
}

func (m *ComponentModel) Constraints() []Constraint { return slices.Clone(m.constraints) }

// Codec returns the value codec; nil for composites, arrays and maps.
func (m *ComponentModel) Codec() codec.Codec { return m.codec }

// Param implements codec.Field.
func (m *ComponentModel) Param(key string) (string, bool) {
	return m.params.Get(key)
}

// Params returns the declared markers visible to codecs.
func (m *ComponentModel) Params() analyze.Markers { return slices.Clone(m.params) }

// Index returns the reflect field index within the declaring struct.
func (m *ComponentModel) Index() []int { return m.index }

// Owner returns the containing model; nil for roots.
func (m *ComponentModel) Owner() *ComponentModel { return m.owner }

// IsRoot reports whether the model describes a whole type.
func (m *ComponentModel) IsRoot() bool { return m.owner == nil }

// Children returns the locally owned components in declaration order.
func (m *ComponentModel) Children() []*ComponentModel { return slices.Clone(m.children) }

// Base returns the parent type model of a specialized type.
func (m *ComponentModel) Base() *ComponentModel { return m.base }

// Ref returns the nested composite model of a composite-typed component.
func (m *ComponentModel) Ref() *ComponentModel { return m.ref }

// Elem returns the element model of arrays and maps.
func (m *ComponentModel) Elem() *ComponentModel { return m.elem }

// Key returns the key model of maps.
func (m *ComponentModel) Key() *ComponentModel { return m.key }

// Members returns the components reachable one level below m in declaration
// order: inherited members first, then local ones. For a component referencing
// a nested model, its members are reported as composited.
func (m *ComponentModel) Members() []Member {
	if m.ref != nil {
		nested := m.ref.members
		out := make([]Member, len(nested))
		for i, mem := range nested {
			out[i] = Member{ComponentModel: mem.ComponentModel, Origin: OriginComposited, Via: mem.Via}
		}

		return out
	}

	return slices.Clone(m.members)
}

// Member finds a member by name, then by alias.
func (m *ComponentModel) Member(name string) (Member, bool) {
	members := m.Members()

	for _, mem := range members {
		if mem.name == name {
			return mem, true
		}
	}

	for _, mem := range members {
		if slices.Contains(mem.aliases, name) {
			return mem, true
		}
	}

	return Member{}, false
}

// Identity returns the identity member, the most specialized declaration.
func (m *ComponentModel) Identity() (Member, bool) {
	if m.ref != nil {
		return m.ref.Identity()
	}

	if m.identity == nil {
		return Member{}, false
	}

	return *m.identity, true
}

// Version returns the version member, the most specialized declaration.
func (m *ComponentModel) Version() (Member, bool) {
	if m.ref != nil {
		return m.ref.Version()
	}

	if m.version == nil {
		return Member{}, false
	}

	return *m.version, true
}

// Path returns the dot-delimited position of m within its root. Element and
// key models share their owner's position.
func (m *ComponentModel) Path() string {
	if m.owner == nil {
		return ""
	}

	parent := m.owner.Path()
	if m.owner.elem == m || m.owner.key == m {
		return parent
	}

	if parent == "" {
		return m.name
	}

	return parent + "." + m.name
}

// QualifiedPath prefixes Path with the root model name.
func (m *ComponentModel) QualifiedPath() string {
	root := m
	for root.owner != nil {
		root = root.owner
	}

	if p := m.Path(); p != "" {
		return root.name + "." + p
	}

	return root.name
}

func (m *ComponentModel) String() string {
	var sb strings.Builder

	sb.WriteString(m.QualifiedPath())
	sb.WriteString(" (")
	sb.WriteString(m.kind.String())
	sb.WriteString(")")

	return sb.String()
}
