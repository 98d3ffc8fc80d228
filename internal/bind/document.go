package bind

import (
	"fmt"
	"reflect"
	"slices"

	"metabind/internal/diagnostic"
	"metabind/internal/model"
	"metabind/primitive"
)

// documentCategories are the conversions applied to document values to reach
// the declared scalar kind. Integer narrowing stays range checked.
const documentCategories = primitive.CategoryLenient | primitive.CategoryUnsafeNumber | primitive.CategoryTimestamp

func documentOf(rv reflect.Value) map[string]any {
	if doc, ok := rv.Interface().(map[string]any); ok {
		return doc
	}

	doc := make(map[string]any, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		doc[it.Key().String()] = it.Value().Interface()
	}

	return doc
}

// walkDocument binds the members of composite model m from doc. Every key
// matching a member name or alias binds under the member's path; the rest
// is sparse.
func (s *state) walkDocument(m *model.ComponentModel, doc map[string]any, prefix string, pos position) {
	consumed := make(map[string]bool, len(doc))

	for _, mem := range m.Members() {
		path := join(prefix, mem.Name())

		if mem.Has(model.RoleSparse) {
			continue
		}

		for _, key := range append([]string{mem.Name()}, mem.Aliases()...) {
			v, ok := doc[key]
			if !ok {
				continue
			}

			consumed[key] = true

			if mem.Has(model.RoleTransient) {
				continue
			}

			s.bindDocValue(mem.ComponentModel, path, v, pos)
		}
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if !consumed[k] {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	for _, k := range keys {
		path := join(prefix, k)
		s.unmapped(path, pos.key, valueSparse(path, pos.key, doc[k]))
	}
}

func (s *state) bindDocValue(c *model.ComponentModel, path string, v any, pos position) {
	if v == nil {
		return
	}

	switch c.Kind() {
	case model.KindArray:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			s.mismatch(path, pos, v, "array")
			return
		}

		for i := range rv.Len() {
			s.bindDocValue(c.Elem(), path, rv.Index(i).Interface(), position{key: pos.key, ordinal: i})
		}

	case model.KindMap:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			s.mismatch(path, pos, v, "map")
			return
		}

		entries := documentOf(rv)
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			s.bindDocValue(c.Elem(), path, entries[k], position{key: k, ordinal: pos.ordinal})
		}

	default:
		if ref := c.Ref(); ref != nil {
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
				s.mismatch(path, pos, v, "document")
				return
			}
			s.walkDocument(ref, documentOf(rv), path, pos)
			return
		}

		if err := resolvable(c); err != nil {
			s.failed(diagnostic.CodeUnresolvedCodec, path, err)
			s.bd.sparse = append(s.bd.sparse, valueSparse(path, pos.key, v))
			return
		}

		value, err := coerce(c, v)
		if err != nil {
			s.failed(diagnostic.CodeDecodeFailed, path, err)
			s.bd.sparse = append(s.bd.sparse, valueSparse(path, pos.key, v))
			return
		}

		s.bound(c, path, value, pos)
	}
}

func (s *state) mismatch(path string, pos position, v any, want string) {
	s.failed(diagnostic.CodeDecodeFailed, path, fmt.Errorf("expected %s, got %T", want, v))
	s.bd.sparse = append(s.bd.sparse, valueSparse(path, pos.key, v))
}

// coerce converts a document value to the declared kind of c. Values of
// types with no scalar kind are kept as they are.
func coerce(c *model.ComponentModel, v any) (any, error) {
	info := c.Type()
	if info == nil {
		return v, nil
	}

	kind := info.Deref().Scalar
	if !kind.IsValid() || !primitive.FromValue(v).IsValid() {
		return v, nil
	}

	return primitive.Convert(v, kind, documentCategories)
}
