package analyze

import (
	"reflect"
	"sync"

	"metabind/primitive"
)

// Analyzer builds descriptors from Go types.
type Analyzer struct {
	mu        sync.Mutex
	typeCache map[reflect.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		typeCache: make(map[reflect.Type]*TypeInfo),
	}
}

var defaultAnalyzer = NewAnalyzer()

// Of returns the descriptor of T from the process-wide analyzer.
func Of[T any]() *TypeInfo {
	return defaultAnalyzer.Analyze(reflect.TypeFor[T]())
}

// TypeOf returns the descriptor of v's dynamic type, or nil for a nil v.
func TypeOf(v any) *TypeInfo {
	if v == nil {
		return nil
	}

	return defaultAnalyzer.Analyze(reflect.TypeOf(v))
}

// Analyze returns the descriptor of t. Repeated calls return the same
// *TypeInfo for the same type.
func (a *Analyzer) Analyze(t reflect.Type) *TypeInfo {
	if t == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.analyzeType(t)
}

// analyzeType recursively analyzes a reflect.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t reflect.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		ID:     typeID(t),
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	if scalar := primitive.FromReflectType(t); scalar != 0 {
		a.analyzeScalar(t, scalar, info)
		return info
	}

	switch t.Kind() {
	case reflect.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(t.Elem())

	case reflect.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(t.Elem())

	case reflect.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(t.Elem())

	case reflect.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(t.Key())
		info.ElemType = a.analyzeType(t.Elem())

	case reflect.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(t, info)

	case reflect.Interface:
		info.Kind = TypeKindInterface

	default:
		// channels, functions, complex numbers and unsafe pointers
		info.Kind = TypeKindUnknown
	}

	return info
}

func (a *Analyzer) analyzeScalar(t reflect.Type, scalar primitive.KindEnum, info *TypeInfo) {
	switch scalar {
	case primitive.KindTime, primitive.KindDuration:
		info.Kind = TypeKindExternal
		info.Scalar = scalar

	case primitive.KindPrimitiveEnum:
		// Named type over a basic type (e.g., type OrderStatus string)
		info.Kind = TypeKindAlias
		info.Scalar = primitive.Underlying(t)
		info.Underlying = a.analyzeType(info.Scalar.ReflectType())

	default:
		info.Kind = TypeKindBasic
		info.Scalar = scalar
	}
}

// analyzeStructFields extracts members from a struct type. The first
// embedded struct becomes the parent; the blank field carries type markers.
func (a *Analyzer) analyzeStructFields(t reflect.Type, info *TypeInfo) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(TagKey)

		if field.Name == "_" {
			rename, markers, _ := ParseTag(tag)
			if rename != "" {
				info.Markers = append(info.Markers, Marker{Key: MarkerName, Value: rename})
			}
			info.Markers = append(info.Markers, markers...)
			continue
		}

		// Only exported fields are reachable through reflect
		if !field.IsExported() && !field.Anonymous {
			continue
		}

		rename, markers, operation := ParseTag(tag)
		fieldType := a.analyzeType(field.Type)

		if field.Anonymous && !operation && info.Parent == nil && fieldType.Deref().Kind == TypeKindStruct &&
			field.Type.Kind() == reflect.Struct {
			info.Parent = fieldType
			info.ParentIndex = field.Index
			continue
		}

		if !field.IsExported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:      field.Name,
			Type:      fieldType,
			Tag:       field.Tag,
			Markers:   markers,
			Rename:    rename,
			Embedded:  field.Anonymous,
			Operation: operation,
			Index:     field.Index,
		})
	}
}

func typeID(t reflect.Type) TypeID {
	if t.Name() != "" {
		return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
	}

	return TypeID{Name: t.String()}
}
