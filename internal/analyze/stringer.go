package analyze

import (
	"strconv"
)

// TypeString returns a readable rendering of a descriptor, e.g.
// "[]*Order", "map[string]int64" or "store.Status".
func TypeString(t *TypeInfo) string {
	return typeString(t, 0)
}

func typeString(t *TypeInfo, depth int) string {
	if t == nil {
		return "<nil>"
	}

	// Named types terminate recursion for self-referencing graphs.
	if t.ID.PkgPath != "" || t.Dynamic && t.Kind == TypeKindStruct {
		return t.ID.Short()
	}

	if depth > 16 {
		return "..."
	}

	switch t.Kind {
	case TypeKindBasic, TypeKindExternal:
		return t.Scalar.Name()

	case TypeKindStruct:
		return "struct{...}"

	case TypeKindPointer:
		return "*" + typeString(t.ElemType, depth+1)

	case TypeKindSlice:
		return "[]" + typeString(t.ElemType, depth+1)

	case TypeKindArray:
		if t.GoType != nil {
			return "[" + strconv.Itoa(t.GoType.Len()) + "]" + typeString(t.ElemType, depth+1)
		}
		return "[]" + typeString(t.ElemType, depth+1)

	case TypeKindMap:
		return "map[" + typeString(t.KeyType, depth+1) + "]" + typeString(t.ElemType, depth+1)

	case TypeKindAlias:
		return typeString(t.Underlying, depth+1)

	case TypeKindInterface:
		return "any"

	default:
		if t.ID.Name != "" {
			return t.ID.Name
		}
		return "<unknown>"
	}
}
