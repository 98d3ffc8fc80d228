package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"metabind/primitive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// SourceLoader builds descriptors from Go source packages that are not
// compiled into the running program. The descriptors carry no reflect type
// and no accessor index, so data is bound to their models from documents
// and records only.
type SourceLoader struct {
	dir       string
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewSourceLoader creates a loader resolving patterns relative to dir. An
// empty dir means the current directory.
func NewSourceLoader(dir string) *SourceLoader {
	return &SourceLoader{
		dir:       dir,
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// LoadPackages loads the specified packages and adds their exported named
// types to the graph. Patterns are standard Go package patterns
// (e.g., "./store", "metabind/warehouse").
func (l *SourceLoader) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		l.processPackage(pkg)
	}

	return l.graph, nil
}

// Graph returns the current type graph.
func (l *SourceLoader) Graph() *TypeGraph {
	return l.graph
}

func (l *SourceLoader) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		// Generic types have no single shape
		if named, ok := typeName.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}

		l.graph.Add(l.analyzeType(typeName.Type()))
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (l *SourceLoader) analyzeType(t types.Type) *TypeInfo {
	if cached, ok := l.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		ID:      TypeID{Name: types.TypeString(t, packageName)},
		Dynamic: true,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	l.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		l.analyzeNamedType(tt, info)

	case *types.Basic:
		l.analyzeBasic(tt, info)

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = l.analyzeType(tt.Elem())

	case *types.Slice:
		if isByte(tt.Elem()) {
			info.Kind = TypeKindBasic
			info.Scalar = primitive.KindBytes
			info.GoType = primitive.KindBytes.ReflectType()
			break
		}
		info.Kind = TypeKindSlice
		info.ElemType = l.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = l.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = l.analyzeType(tt.Key())
		info.ElemType = l.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		l.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// channels, functions, tuples and type parameters
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (l *SourceLoader) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() != nil {
		info.ID = TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
	}

	if info.ID.PkgPath == "time" {
		switch obj.Name() {
		case "Time":
			info.Kind = TypeKindExternal
			info.Scalar = primitive.KindTime
			return
		case "Duration":
			info.Kind = TypeKindExternal
			info.Scalar = primitive.KindDuration
			return
		}
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		l.analyzeStructFields(ut, info)

	case *types.Basic:
		// Named type over a basic type (e.g., type OrderStatus string)
		kind := basicKind(ut)
		if kind == 0 {
			info.Kind = TypeKindUnknown
			return
		}
		info.Kind = TypeKindAlias
		info.Scalar = kind
		info.Underlying = l.analyzeType(ut)

	default:
		// Named collections and interfaces take the shape of what they wrap
		u := l.analyzeType(ut)
		info.Kind = u.Kind
		info.Scalar = u.Scalar
		info.GoType = u.GoType
		info.ElemType = u.ElemType
		info.KeyType = u.KeyType
	}
}

func (l *SourceLoader) analyzeBasic(b *types.Basic, info *TypeInfo) {
	kind := basicKind(b)
	if kind == 0 {
		info.Kind = TypeKindUnknown
		return
	}

	info.ID = TypeID{Name: kind.Name()}
	info.Kind = TypeKindBasic
	info.Scalar = kind
	info.GoType = kind.ReflectType()
}

// analyzeStructFields extracts members from a struct type. The first
// embedded struct becomes the parent; the blank field carries type markers.
func (l *SourceLoader) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Name() == "_" {
			rename, markers, _ := ParseTag(tag.Get(TagKey))
			if rename != "" {
				info.Markers = append(info.Markers, Marker{Key: MarkerName, Value: rename})
			}
			info.Markers = append(info.Markers, markers...)
			continue
		}

		if !field.Exported() && !field.Embedded() {
			continue
		}

		rename, markers, operation := ParseTag(tag.Get(TagKey))
		fieldType := l.analyzeType(field.Type())

		if field.Embedded() && !operation && info.Parent == nil && fieldType.Kind == TypeKindStruct {
			info.Parent = fieldType
			continue
		}

		if !field.Exported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:      field.Name(),
			Type:      fieldType,
			Tag:       tag,
			Markers:   markers,
			Rename:    rename,
			Embedded:  field.Embedded(),
			Operation: operation,
		})
	}
}

func basicKind(b *types.Basic) primitive.KindEnum {
	switch b.Kind() {
	case types.Int:
		return primitive.KindInt
	case types.Int8:
		return primitive.KindInt8
	case types.Int16:
		return primitive.KindInt16
	case types.Int32:
		return primitive.KindInt32
	case types.Int64:
		return primitive.KindInt64
	case types.Uint:
		return primitive.KindUint
	case types.Uint8:
		return primitive.KindUint8
	case types.Uint16:
		return primitive.KindUint16
	case types.Uint32:
		return primitive.KindUint32
	case types.Uint64:
		return primitive.KindUint64
	case types.Float32:
		return primitive.KindFloat32
	case types.Float64:
		return primitive.KindFloat64
	case types.Bool:
		return primitive.KindBool
	case types.String:
		return primitive.KindString
	default:
		return 0
	}
}

func isByte(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

func packageName(p *types.Package) string {
	return p.Name()
}
