package introspect

import (
	"metabind/internal/analyze"
)

// shape selects how a declared type is modeled.
type shape int

const (
	shapeUnknown shape = iota
	shapeScalar
	shapeComposite
	shapeArray
	shapeMap
	shapeDynamic
)

// dispatch classifies a dereferenced descriptor. Struct types carrying a
// codec become scalars; a field-level codec does the same in derivePosition.
func (in *Introspector) dispatch(t *analyze.TypeInfo) shape {
	switch t.Kind {
	case analyze.TypeKindBasic, analyze.TypeKindAlias, analyze.TypeKindExternal:
		return shapeScalar

	case analyze.TypeKindStruct:
		if t.Markers.Has(analyze.MarkerCodec) {
			return shapeScalar
		}

		if _, ok := in.codecs.ForType(t.ID); ok && t.IsNamed() {
			return shapeScalar
		}

		return shapeComposite

	case analyze.TypeKindSlice, analyze.TypeKindArray:
		return shapeArray

	case analyze.TypeKindMap:
		return shapeMap

	case analyze.TypeKindInterface:
		return shapeDynamic

	default:
		return shapeUnknown
	}
}
