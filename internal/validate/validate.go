package validate

import (
	"errors"
	"strings"

	"metabind/internal/bind"
	"metabind/internal/model"
)

// Validate reports required and identity members without bound data, and
// data bound against another model. Members of composites are checked only
// where the composite itself is present.
func Validate(m *model.ComponentModel, bd *bind.BoundData) error {
	if bd == nil {
		return &ModelConstraintError{Model: m.Name(), Mismatch: "nothing"}
	}

	if bd.Model() != m {
		return &ModelConstraintError{Model: m.Name(), Mismatch: bd.Model().Name()}
	}

	var missing []string

	walk(m, bd, "", func(mem model.Member, path string) {
		if required(mem) && !bd.Has(path) {
			missing = append(missing, path)
		}
	})

	if len(missing) > 0 {
		return &ModelConstraintError{Model: m.Name(), Missing: missing}
	}

	return nil
}

func required(mem model.Member) bool {
	return mem.Has(model.RoleRequired) || mem.Has(model.RoleIdentity)
}

// ValidateData runs every constraint of every member. Scalars are checked
// per bound value, arrays as []any and maps as map[string]any. Nothing
// short-circuits.
func ValidateData(m *model.ComponentModel, bd *bind.BoundData) error {
	if bd == nil {
		return nil
	}

	var violations []Violation

	check := func(c *model.ComponentModel, path string, v any, ordinal int, key string) {
		for _, cons := range c.Constraints() {
			if !cons.Check(c, v) {
				violations = append(violations, Violation{
					Path: path, Constraint: cons.Name(), Value: v, Ordinal: ordinal, Key: key,
				})
			}
		}
	}

	walk(m, bd, "", func(mem model.Member, path string) {
		c := mem.ComponentModel
		if len(c.Constraints()) == 0 {
			return
		}

		switch {
		case c.Kind() == model.KindArray && c.Elem().Ref() == nil:
			check(c, path, arrayValue(bd, path), bind.NoOrdinal, "")
		case c.Kind() == model.KindMap && c.Elem().Ref() == nil:
			check(c, path, mapValue(bd, path), bind.NoOrdinal, "")
		case c.Kind() == model.KindScalar:
			bound := bd.Get(path)
			if len(bound) == 0 {
				check(c, path, nil, bind.NoOrdinal, "")
				return
			}
			for _, b := range bound {
				check(c, path, b.Value, b.Ordinal, b.Key)
			}
		default:
			check(c, path, compositeValue(bd, path), bind.NoOrdinal, "")
		}
	})

	if len(violations) > 0 {
		return &DataConstraintError{Model: m.Name(), Violations: violations}
	}

	return nil
}

// ValidateInstance binds v to m and runs both validations.
func ValidateInstance(m *model.ComponentModel, v any) (*bind.BoundData, error) {
	bd, err := bind.Bind(m, v)
	if err != nil {
		return nil, err
	}

	return bd, errors.Join(Validate(m, bd), ValidateData(m, bd))
}

// walk visits every member of m in declaration order, descending into
// composites that have bound data. Transient and sparse members are skipped.
func walk(m *model.ComponentModel, bd *bind.BoundData, prefix string, fn func(mem model.Member, path string)) {
	for _, mem := range m.Members() {
		if mem.Has(model.RoleTransient) || mem.Has(model.RoleSparse) {
			continue
		}

		path := mem.Name()
		if prefix != "" {
			path = prefix + "." + mem.Name()
		}

		fn(mem, path)

		c := mem.ComponentModel
		if c.Kind() == model.KindArray || c.Kind() == model.KindMap {
			c = c.Elem()
		}

		if ref := c.Ref(); ref != nil && bd.Has(path) {
			walk(ref, bd, path, fn)
		}
	}
}

func arrayValue(bd *bind.BoundData, path string) any {
	bound := bd.Get(path)
	if len(bound) == 0 {
		return nil
	}

	out := make([]any, len(bound))
	for i, b := range bound {
		out[i] = b.Value
	}

	return out
}

func mapValue(bd *bind.BoundData, path string) any {
	bound := bd.Get(path)
	if len(bound) == 0 {
		return nil
	}

	out := make(map[string]any, len(bound))
	for _, b := range bound {
		out[b.Key] = b.Value
	}

	return out
}

// compositeValue gathers the first value bound at each path below a
// composite, keyed by the relative path.
func compositeValue(bd *bind.BoundData, path string) any {
	if !bd.Has(path) {
		return nil
	}

	prefix := path + "."
	out := map[string]any{}

	for _, p := range bd.Paths() {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			out[rest], _ = bd.Value(p)
		}
	}

	return out
}
