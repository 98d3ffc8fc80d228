package primitive

import (
	"math"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the scalar shapes a codec knows how to carry.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindBytes
	KindPrimitiveEnum // named integer, boolean or string type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// IsValid reports whether k is one of the declared kinds.
func (k KindEnum) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}

// Bits returns the storage width of a numeric kind.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	bytesType    = reflect.TypeOf([]byte(nil))
)

// FromReflectType returns the kind of a predeclared scalar type, KindTime and
// KindDuration for the time package types, KindPrimitiveEnum for named
// integer, boolean and string types, and zero for everything else.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	case bytesType:
		return KindBytes
	}

	k := FromReflectKind(rtype.Kind())
	if k == 0 {
		return 0
	}

	if rtype.PkgPath() != "" && rtype.Name() != "" {
		return KindPrimitiveEnum
	}

	return k
}

// Underlying returns the kind of the storage type behind rtype, looking
// through named types. time.Time and time.Duration keep their own kinds.
func Underlying(rtype reflect.Type) KindEnum {
	switch k := FromReflectType(rtype); k {
	case KindPrimitiveEnum:
		return FromReflectKind(rtype.Kind())
	default:
		return k
	}
}

// FromReflectKind maps a reflect.Kind onto the matching scalar kind.
func FromReflectKind(kind reflect.Kind) KindEnum {
	switch kind {
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return 0
	}
}

var kindNames = map[string]KindEnum{
	"int":      KindInt,
	"int8":     KindInt8,
	"int16":    KindInt16,
	"int32":    KindInt32,
	"int64":    KindInt64,
	"uint":     KindUint,
	"uint8":    KindUint8,
	"byte":     KindUint8,
	"uint16":   KindUint16,
	"uint32":   KindUint32,
	"uint64":   KindUint64,
	"float32":  KindFloat32,
	"float64":  KindFloat64,
	"bool":     KindBool,
	"string":   KindString,
	"time":     KindTime,
	"duration": KindDuration,
	"bytes":    KindBytes,
}

// FromName resolves a lower-case scalar type name as used in schema files.
func FromName(name string) KindEnum {
	return kindNames[name]
}

// Name returns the schema name of k, the inverse of FromName.
func (k KindEnum) Name() string {
	for name, kind := range kindNames {
		if kind == k && name != "byte" {
			return name
		}
	}

	return ""
}

// ReflectType returns the canonical Go type carrying values of kind k.
func (k KindEnum) ReflectType() reflect.Type {
	switch k {
	case KindInt:
		return reflect.TypeOf(int(0))
	case KindInt8:
		return reflect.TypeOf(int8(0))
	case KindInt16:
		return reflect.TypeOf(int16(0))
	case KindInt32:
		return reflect.TypeOf(int32(0))
	case KindInt64:
		return reflect.TypeOf(int64(0))
	case KindUint:
		return reflect.TypeOf(uint(0))
	case KindUint8:
		return reflect.TypeOf(uint8(0))
	case KindUint16:
		return reflect.TypeOf(uint16(0))
	case KindUint32:
		return reflect.TypeOf(uint32(0))
	case KindUint64:
		return reflect.TypeOf(uint64(0))
	case KindFloat32:
		return reflect.TypeOf(float32(0))
	case KindFloat64:
		return reflect.TypeOf(float64(0))
	case KindBool:
		return reflect.TypeOf(false)
	case KindString:
		return reflect.TypeOf("")
	case KindTime:
		return timeType
	case KindDuration:
		return durationType
	case KindBytes:
		return bytesType
	default:
		return nil
	}
}
