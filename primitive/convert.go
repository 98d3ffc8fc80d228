package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotAllowed is returned when a conversion pair is outside the allowed categories.
	ErrNotAllowed = errors.New("conversion not allowed")
	// ErrOverflow is returned when a numeric value does not fit the target kind.
	ErrOverflow = errors.New("value out of range")
)

// FromValue returns the storage kind of v, or zero when v is not a scalar.
func FromValue(v any) KindEnum {
	if v == nil {
		return 0
	}

	return Underlying(reflect.TypeOf(v))
}

// Convert converts v into the canonical Go value of kind to. The pair must be
// part of allowed; integer narrowing is range checked regardless of category.
func Convert(v any, to KindEnum, allowed CategoryEnum) (any, error) {
	from := FromValue(v)
	if !from.IsValid() {
		return nil, fmt.Errorf("%w: %T is not a scalar", ErrNotAllowed, v)
	}

	if !Allowed(from, to, allowed) {
		return nil, fmt.Errorf("%w: %s to %s", ErrNotAllowed, from, to)
	}

	rv := reflect.ValueOf(v)

	if from == to {
		// Named scalar types collapse to their canonical Go type.
		return rv.Convert(to.ReflectType()).Interface(), nil
	}

	switch {
	case from.IsNumber() && to.IsNumber():
		return convertNumber(rv, from, to)
	case to == KindString:
		return formatText(rv, from)
	case from == KindString:
		return parseText(rv.String(), to)
	case to == KindBool:
		return numberToBool(rv, from)
	case from == KindBool:
		n := 0
		if rv.Bool() {
			n = 1
		}
		return convertNumber(reflect.ValueOf(n), KindInt, to)
	case to == KindTime && from.IsInteger():
		sec, err := toInt64(rv, from)
		if err != nil {
			return nil, err
		}
		return time.Unix(sec, 0).UTC(), nil
	case from == KindTime:
		return convertNumber(reflect.ValueOf(rv.Interface().(time.Time).Unix()), KindInt64, to)
	case to == KindDuration && from.IsInteger():
		ns, err := toInt64(rv, from)
		if err != nil {
			return nil, err
		}
		return time.Duration(ns), nil
	case to == KindDuration && from.IsFloat():
		return time.Duration(rv.Float() * float64(time.Second)), nil
	case from == KindDuration && to.IsFloat():
		return convertNumber(reflect.ValueOf(time.Duration(rv.Int()).Seconds()), KindFloat64, to)
	case from == KindDuration:
		return convertNumber(reflect.ValueOf(rv.Int()), KindInt64, to)
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrNotAllowed, from, to)
}

func convertNumber(rv reflect.Value, from, to KindEnum) (any, error) {
	target := to.ReflectType()

	switch {
	case to.IsFloat():
		var f float64
		switch {
		case from.IsSigned():
			f = float64(rv.Int())
		case from.IsUnsigned():
			f = float64(rv.Uint())
		default:
			f = rv.Float()
		}
		if to == KindFloat32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%w: %v as %s", ErrOverflow, f, to)
		}
		return reflect.ValueOf(f).Convert(target).Interface(), nil

	case to.IsSigned():
		n, err := toInt64(rv, from)
		if err != nil {
			return nil, err
		}
		if bits := to.Bits(); bits < 64 && (n < int64(-1)<<(bits-1) || n > int64(1)<<(bits-1)-1) {
			return nil, fmt.Errorf("%w: %d as %s", ErrOverflow, n, to)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil

	default:
		u, err := toUint64(rv, from)
		if err != nil {
			return nil, err
		}
		if bits := to.Bits(); bits < 64 && u > uint64(1)<<bits-1 {
			return nil, fmt.Errorf("%w: %d as %s", ErrOverflow, u, to)
		}
		return reflect.ValueOf(u).Convert(target).Interface(), nil
	}
}

func toInt64(rv reflect.Value, from KindEnum) (int64, error) {
	switch {
	case from.IsSigned():
		return rv.Int(), nil
	case from.IsUnsigned():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d as int64", ErrOverflow, u)
		}
		return int64(u), nil
	default:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrOverflow, f)
		}
		return int64(f), nil
	}
}

func toUint64(rv reflect.Value, from KindEnum) (uint64, error) {
	switch {
	case from.IsUnsigned():
		return rv.Uint(), nil
	case from.IsSigned():
		n := rv.Int()
		if n < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrOverflow, n)
		}
		return uint64(n), nil
	default:
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrOverflow, f)
		}
		return uint64(f), nil
	}
}

func numberToBool(rv reflect.Value, from KindEnum) (any, error) {
	n, err := toInt64(rv, from)
	if err != nil {
		return nil, err
	}

	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, fmt.Errorf("%w: %d is not a boolean", ErrOverflow, n)
	}
}

func formatText(rv reflect.Value, from KindEnum) (any, error) {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(rv.Int(), 10), nil
	case from.IsUnsigned():
		return strconv.FormatUint(rv.Uint(), 10), nil
	case from.IsFloat():
		return strconv.FormatFloat(rv.Float(), 'g', -1, from.Bits()), nil
	}

	switch from {
	case KindBool:
		return strconv.FormatBool(rv.Bool()), nil
	case KindTime:
		return rv.Interface().(time.Time).Format(time.RFC3339Nano), nil
	case KindDuration:
		return time.Duration(rv.Int()).String(), nil
	case KindBytes:
		return string(rv.Bytes()), nil
	default:
		return rv.String(), nil
	}
}

// ParseText parses the textual form of a scalar into the canonical value of kind to.
func ParseText(s string, to KindEnum) (any, error) {
	return parseText(s, to)
}

func parseText(s string, to KindEnum) (any, error) {
	s = strings.TrimSpace(s)

	switch {
	case to.IsSigned():
		n, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(to.ReflectType()).Interface(), nil
	case to.IsUnsigned():
		u, err := strconv.ParseUint(s, 10, to.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(u).Convert(to.ReflectType()).Interface(), nil
	case to.IsFloat():
		f, err := strconv.ParseFloat(s, to.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(to.ReflectType()).Interface(), nil
	}

	switch to {
	case KindBool:
		return parseBool(s)
	case KindString:
		return s, nil
	case KindTime:
		return time.Parse(time.RFC3339Nano, s)
	case KindDuration:
		return time.ParseDuration(s)
	case KindBytes:
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("%w: string to %s", ErrNotAllowed, to)
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
