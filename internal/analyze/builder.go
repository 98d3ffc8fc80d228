package analyze

import (
	"errors"
	"fmt"
	"slices"

	"metabind/primitive"
)

// Builder declares descriptors without Go types. Structs may reference each
// other before being declared; Build reports references that never were.
type Builder struct {
	namespace string
	types     map[string]*TypeInfo
	order     []string
	errs      []error
}

// NewBuilder creates a builder whose named types live under namespace.
func NewBuilder(namespace string) *Builder {
	return &Builder{
		namespace: namespace,
		types:     make(map[string]*TypeInfo),
	}
}

// Ref returns the named type, creating an undefined placeholder when it has
// not been declared yet.
func (b *Builder) Ref(name string) *TypeInfo {
	if t, ok := b.types[name]; ok {
		return t
	}

	t := &TypeInfo{
		ID:      TypeID{PkgPath: b.namespace, Name: name},
		Kind:    TypeKindUnknown,
		Dynamic: true,
	}
	b.types[name] = t
	b.order = append(b.order, name)

	return t
}

// Struct declares a struct type. markers use tag syntax without the name item.
func (b *Builder) Struct(name string, markers ...string) *StructBuilder {
	t := b.Ref(name)
	if t.Kind != TypeKindUnknown {
		b.errs = append(b.errs, fmt.Errorf("type %q declared twice", name))
	}

	t.Kind = TypeKindStruct
	t.Markers = append(t.Markers, ParseMarkers(markers)...)

	return &StructBuilder{b: b, info: t}
}

// Enum declares a named scalar type over kind. markers use tag syntax
// without the name item.
func (b *Builder) Enum(name string, kind primitive.KindEnum, markers ...string) *TypeInfo {
	t := b.Ref(name)
	if t.Kind != TypeKindUnknown {
		b.errs = append(b.errs, fmt.Errorf("type %q declared twice", name))
	}

	t.Kind = TypeKindAlias
	t.Scalar = kind
	t.Underlying = Basic(kind)
	t.Markers = append(t.Markers, ParseMarkers(markers)...)

	return t
}

// Build validates the declarations and returns them as a graph.
func (b *Builder) Build() (*TypeGraph, error) {
	errs := slices.Clone(b.errs)
	graph := NewTypeGraph()

	for _, name := range b.order {
		t := b.types[name]
		if t.Kind == TypeKindUnknown {
			errs = append(errs, fmt.Errorf("type %q referenced but never declared", name))
			continue
		}

		graph.Add(t)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return graph, nil
}

// StructBuilder adds members to a declared struct.
type StructBuilder struct {
	b    *Builder
	info *TypeInfo
}

// Type returns the struct descriptor.
func (s *StructBuilder) Type() *TypeInfo {
	return s.info
}

// Extends makes the struct a specialization of the named type.
func (s *StructBuilder) Extends(name string) *StructBuilder {
	if s.info.Parent != nil {
		s.b.errs = append(s.b.errs, fmt.Errorf("type %q extends more than one type", s.info.ID.Name))
		return s
	}

	s.info.Parent = s.b.Ref(name)

	return s
}

// Field adds a data member. tag uses the `meta` tag syntax.
func (s *StructBuilder) Field(name string, t *TypeInfo, tag string) *StructBuilder {
	if _, ok := s.info.Field(name); ok {
		s.b.errs = append(s.b.errs, fmt.Errorf("type %q: member %q declared twice", s.info.ID.Name, name))
		return s
	}

	rename, markers, operation := ParseTag(tag)
	s.info.Fields = append(s.info.Fields, FieldInfo{
		Name:      name,
		Type:      t,
		Markers:   markers,
		Rename:    rename,
		Operation: operation,
	})

	return s
}

// Operation adds a behavior member, excluded from data.
func (s *StructBuilder) Operation(name string) *StructBuilder {
	s.info.Fields = append(s.info.Fields, FieldInfo{
		Name:      name,
		Type:      &TypeInfo{Kind: TypeKindUnknown, Dynamic: true},
		Operation: true,
	})

	return s
}

// Basic returns a descriptor of a scalar kind.
func Basic(kind primitive.KindEnum) *TypeInfo {
	t := &TypeInfo{
		ID:      TypeID{Name: kind.Name()},
		Kind:    TypeKindBasic,
		Scalar:  kind,
		GoType:  kind.ReflectType(),
		Dynamic: true,
	}

	if kind == primitive.KindTime || kind == primitive.KindDuration {
		t.Kind = TypeKindExternal
	}

	return t
}

// SliceOf returns a descriptor of a sequence of elem.
func SliceOf(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{ID: TypeID{Name: "[]" + elem.ID.Name}, Kind: TypeKindSlice, ElemType: elem, Dynamic: true}
}

// MapOf returns a descriptor of a map from key to elem.
func MapOf(key, elem *TypeInfo) *TypeInfo {
	return &TypeInfo{
		ID:       TypeID{Name: "map[" + key.ID.Name + "]" + elem.ID.Name},
		Kind:     TypeKindMap,
		KeyType:  key,
		ElemType: elem,
		Dynamic:  true,
	}
}

// PointerTo returns a descriptor of an optional elem.
func PointerTo(elem *TypeInfo) *TypeInfo {
	return &TypeInfo{ID: TypeID{Name: "*" + elem.ID.Name}, Kind: TypeKindPointer, ElemType: elem, Dynamic: true}
}
