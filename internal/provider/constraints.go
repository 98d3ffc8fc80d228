package provider

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"metabind/internal/analyze"
	"metabind/internal/model"
	"metabind/primitive"
	"metabind/utils"
)

// Marker keys of the built-in constraints.
const (
	MarkerNotNull  = "notnull"
	MarkerNotEmpty = "notempty"
	MarkerMin      = "min"
	MarkerMax      = "max"
	MarkerRange    = "range"
	MarkerMinLen   = "minlen"
	MarkerMaxLen   = "maxlen"
	MarkerPattern  = "pattern"
	MarkerOneOf    = "oneof"
)

var errMissingArg = errors.New("argument required")

// Stateless constraints are shared by every component declaring them.
var (
	notNull  = model.NewConstraint(MarkerNotNull, func(_ *model.ComponentModel, v any) bool { return !isNil(v) })
	notEmpty = model.NewConstraint(MarkerNotEmpty, func(_ *model.ComponentModel, v any) bool {
		n, ok := length(v)
		return !isNil(v) && (!ok || n > 0)
	})
)

func builtinConstraints() map[string]ConstraintFactory {
	return map[string]ConstraintFactory{
		MarkerNotNull:  func(analyze.Marker) (model.Constraint, error) { return notNull, nil },
		MarkerNotEmpty: func(analyze.Marker) (model.Constraint, error) { return notEmpty, nil },
		MarkerMin:      bound(func(limit, x float64) bool { return x >= limit }),
		MarkerMax:      bound(func(limit, x float64) bool { return x <= limit }),
		MarkerRange:    rangeConstraint,
		MarkerMinLen:   lengthBound(func(limit, n int) bool { return n >= limit }),
		MarkerMaxLen:   lengthBound(func(limit, n int) bool { return n <= limit }),
		MarkerPattern:  pattern,
		MarkerOneOf:    oneOf,
	}
}

// bound constraints pass absent values; non-numeric values fail.
func bound(ok func(limit, x float64) bool) ConstraintFactory {
	return func(mk analyze.Marker) (model.Constraint, error) {
		limit, err := parseNumber(mk.Value)
		if err != nil {
			return nil, err
		}

		return model.NewConstraint(mk.String(), func(_ *model.ComponentModel, v any) bool {
			if isNil(v) {
				return true
			}

			x, isNum := number(v)

			return isNum && ok(limit, x)
		}), nil
	}
}

func rangeConstraint(mk analyze.Marker) (model.Constraint, error) {
	lo, hi := utils.Unpack2(strings.SplitN(mk.Value, "..", 2))
	if lo == "" || hi == "" {
		return nil, fmt.Errorf("want lo..hi, got %q", mk.Value)
	}

	minimum, err := parseNumber(lo)
	if err != nil {
		return nil, err
	}

	maximum, err := parseNumber(hi)
	if err != nil {
		return nil, err
	}

	if minimum > maximum {
		return nil, fmt.Errorf("empty range %q", mk.Value)
	}

	return model.NewConstraint(mk.String(), func(_ *model.ComponentModel, v any) bool {
		if isNil(v) {
			return true
		}

		x, ok := number(v)

		return ok && utils.IsInRange(minimum, x, maximum)
	}), nil
}

func lengthBound(ok func(limit, n int) bool) ConstraintFactory {
	return func(mk analyze.Marker) (model.Constraint, error) {
		if mk.Value == "" {
			return nil, errMissingArg
		}

		limit, err := strconv.Atoi(mk.Value)
		if err != nil {
			return nil, err
		}

		if limit < 0 {
			return nil, fmt.Errorf("negative length %d", limit)
		}

		return model.NewConstraint(mk.String(), func(_ *model.ComponentModel, v any) bool {
			if isNil(v) {
				return true
			}

			n, hasLen := length(v)

			return hasLen && ok(limit, n)
		}), nil
	}
}

func pattern(mk analyze.Marker) (model.Constraint, error) {
	if mk.Value == "" {
		return nil, errMissingArg
	}

	re, err := regexp.Compile(mk.Value)
	if err != nil {
		return nil, err
	}

	return model.NewConstraint(mk.String(), func(_ *model.ComponentModel, v any) bool {
		if isNil(v) {
			return true
		}

		s, ok := text(v)

		return ok && re.MatchString(s)
	}), nil
}

func oneOf(mk analyze.Marker) (model.Constraint, error) {
	allowed := analyze.Markers{mk}.Values(mk.Key)
	if len(allowed) == 0 {
		return nil, errMissingArg
	}

	return model.NewConstraint(mk.String(), func(_ *model.ComponentModel, v any) bool {
		if isNil(v) {
			return true
		}

		s, ok := text(v)
		if !ok {
			return false
		}

		for _, a := range allowed {
			if a == s {
				return true
			}
		}

		return false
	}), nil
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, errMissingArg
	}

	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func number(v any) (float64, bool) {
	kind := primitive.FromValue(v)
	if !kind.IsNumber() {
		return 0, false
	}

	x, err := primitive.Convert(v, primitive.KindFloat64, primitive.CategorySafeNumber|primitive.CategoryUnsafeNumber)
	if err != nil {
		return 0, false
	}

	return x.(float64), true
}

func text(v any) (string, bool) {
	s, err := primitive.Convert(v, primitive.KindString, primitive.CategoryAll)
	if err != nil {
		return "", false
	}

	return s.(string), true
}

// length measures strings in runes and collections in elements.
func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}
