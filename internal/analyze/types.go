package analyze

import (
	"reflect"

	"metabind/internal/common"
	"metabind/primitive"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "metabind/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package alias qualified name, e.g. "store.Order".
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// IsZero reports whether the id is unset.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, []byte, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindAlias              // named type wrapping a basic type
	TypeKindExternal           // opaque scalar type (time.Time, time.Duration)
	TypeKindInterface          // interface type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a type to be modeled.
type TypeInfo struct {
	ID          TypeID             // Unique identifier; unnamed types use their type string
	Kind        TypeKind           // Kind of type
	Scalar      primitive.KindEnum // Storage kind of basic, alias and external types
	Underlying  *TypeInfo          // For alias types, the underlying basic type
	ElemType    *TypeInfo          // For pointers, slices, arrays and maps, the element type
	KeyType     *TypeInfo          // For maps, the key type
	Fields      []FieldInfo        // For structs, members in declaration order
	Markers     Markers            // Type-level markers
	Parent      *TypeInfo          // Specialized (embedded) parent struct, if any
	ParentIndex []int              // Accessor index of the embedded parent
	GoType      reflect.Type       // The Go type; nil for declared types
	Dynamic     bool               // True if declared through a Builder
}

// IsNamed returns true if this type has a package-qualified name.
func (t *TypeInfo) IsNamed() bool {
	return t.ID.PkgPath != "" && t.ID.Name != ""
}

// IsScalar reports whether values of the type are carried by a single codec.
func (t *TypeInfo) IsScalar() bool {
	switch t.Kind {
	case TypeKindBasic, TypeKindAlias, TypeKindExternal:
		return true
	default:
		return false
	}
}

// Deref follows pointer types to the first non-pointer type.
func (t *TypeInfo) Deref() *TypeInfo {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// TypeName returns the type-level name override, or the type's own name.
func (t *TypeInfo) TypeName() string {
	if name, ok := t.Markers.Get(MarkerName); ok && name != "" {
		return name
	}

	return t.ID.Name
}

// Field returns the member with the given Go name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// FieldInfo describes a struct member.
type FieldInfo struct {
	Name      string            // Go (or declared) member name
	Type      *TypeInfo         // Declared value type
	Tag       reflect.StructTag // Raw struct tag
	Markers   Markers           // Parsed markers, name item excluded
	Rename    string            // Explicit component name, empty if derived
	Embedded  bool              // Whether the member is embedded (anonymous)
	Operation bool              // Whether the member is an operation (excluded from data)
	Index     []int             // reflect accessor index; nil for declared types
}

// TypeGraph holds descriptors by id.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Order keeps insertion order for deterministic iteration.
	Order []TypeID
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types: make(map[TypeID]*TypeInfo),
	}
}

// Add records t; adding the same id twice keeps the first descriptor.
func (g *TypeGraph) Add(t *TypeInfo) {
	if _, ok := g.Types[t.ID]; ok {
		return
	}

	g.Types[t.ID] = t
	g.Order = append(g.Order, t.ID)
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup resolves a type by full id string ("metabind/store.Order"),
// short name ("store.Order") or bare name ("Order") when unambiguous.
func (g *TypeGraph) Lookup(name string) *TypeInfo {
	var found *TypeInfo

	for _, id := range g.Order {
		switch name {
		case id.String(), id.Short():
			return g.Types[id]
		case id.Name:
			if found != nil {
				return nil
			}
			found = g.Types[id]
		}
	}

	return found
}

// All returns descriptors in insertion order.
func (g *TypeGraph) All() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(g.Order))
	for _, id := range g.Order {
		out = append(out, g.Types[id])
	}

	return out
}
