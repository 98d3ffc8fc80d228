package bind

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"metabind/internal/diagnostic"
	"metabind/internal/model"
)

// walkStruct binds the members of composite model m from struct value v.
func (s *state) walkStruct(m *model.ComponentModel, v reflect.Value, prefix string, pos position) {
	for _, mem := range m.Members() {
		path := join(prefix, mem.Name())

		if mem.Has(model.RoleTransient) {
			continue
		}

		fv, err := field(v, mem.Accessor())
		if err != nil {
			s.failed(diagnostic.CodeAccessorFailed, path, err)
			continue
		}

		if mem.Has(model.RoleSparse) {
			s.catchAll(prefix, fv)
			continue
		}

		s.bindValue(mem.ComponentModel, path, fv, pos)
	}
}

func field(v reflect.Value, index []int) (fv reflect.Value, err error) {
	if len(index) == 0 {
		return reflect.Value{}, errors.New("no accessor")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("accessor %v: %v", index, r)
		}
	}()

	return v.FieldByIndexErr(index)
}

// bindValue binds v at the position of component c.
func (s *state) bindValue(c *model.ComponentModel, path string, v reflect.Value, pos position) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}

		if v.Kind() == reflect.Pointer {
			ptr := v.Pointer()
			if s.active[ptr] {
				s.bd.diags.AddWarning("cycle", "instance graph cycle cut", s.modelName(), path)
				return
			}

			s.active[ptr] = true
			defer delete(s.active, ptr)
		}

		v = v.Elem()
	}

	switch c.Kind() {
	case model.KindArray:
		if (v.Kind() == reflect.Slice && v.IsNil()) || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return
		}

		for i := range v.Len() {
			s.bindValue(c.Elem(), path, v.Index(i), position{key: pos.key, ordinal: i})
		}

	case model.KindMap:
		if v.Kind() != reflect.Map || v.IsNil() {
			return
		}

		type entry struct {
			key string
			val reflect.Value
		}

		entries := make([]entry, 0, v.Len())
		for it := v.MapRange(); it.Next(); {
			entries = append(entries, entry{key: keyText(c.Key(), it.Key().Interface()), val: it.Value()})
		}

		slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

		for _, e := range entries {
			s.bindValue(c.Elem(), path, e.val, position{key: e.key, ordinal: pos.ordinal})
		}

	default:
		if ref := c.Ref(); ref != nil {
			if v.Kind() != reflect.Struct {
				s.failed(diagnostic.CodeAccessorFailed, path,
					fmt.Errorf("expected struct for %s, got %s", ref.Name(), v.Type()))
				return
			}
			s.walkStruct(ref, v, path, pos)
			return
		}

		if err := resolvable(c); err != nil {
			s.failed(diagnostic.CodeUnresolvedCodec, path, err)
			s.bd.sparse = append(s.bd.sparse, valueSparse(path, pos.key, v.Interface()))
			return
		}

		s.bound(c, path, v.Interface(), pos)
	}
}

// catchAll turns the contents of a sparse catch-all field into sparse data.
func (s *state) catchAll(prefix string, v reflect.Value) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return
	}

	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })

	for _, k := range keys {
		path := join(prefix, k.String())
		s.bd.sparse = append(s.bd.sparse, valueSparse(path, "", v.MapIndex(k).Interface()))
	}
}
