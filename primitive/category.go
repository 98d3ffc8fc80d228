package primitive

import "maps"

// CategoryEnum is a bit set of conversion families.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryBinaryText                            // string <-> []byte: UTF-8 bytes of a string

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryLenient is the set used for best-effort coercion of unmapped data.
	CategoryLenient = CategorySafeNumber | CategoryTextNumber | CategoryTextualBool |
		CategoryNumericBool | CategoryDatetime | CategoryDuration | CategoryBinaryText
)

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})

	safe := map[ConversionPair]struct{}{}
	unsafe := map[ConversionPair]struct{}{}
	text := map[ConversionPair]struct{}{}
	numBool := map[ConversionPair]struct{}{}
	stamp := map[ConversionPair]struct{}{}
	nanos := map[ConversionPair]struct{}{}

	for from := KindEnum(1); int(from) < KindTotal; from++ {
		if !from.IsNumber() {
			continue
		}

		text[ConversionPair{from, KindString}] = struct{}{}
		text[ConversionPair{KindString, from}] = struct{}{}

		if from.IsInteger() {
			numBool[ConversionPair{from, KindBool}] = struct{}{}
			numBool[ConversionPair{KindBool, from}] = struct{}{}
			stamp[ConversionPair{from, KindTime}] = struct{}{}
			stamp[ConversionPair{KindTime, from}] = struct{}{}

			if from != KindUint64 && from != KindUint {
				nanos[ConversionPair{from, KindDuration}] = struct{}{}
				nanos[ConversionPair{KindDuration, from}] = struct{}{}
			}
		}

		for to := KindEnum(1); int(to) < KindTotal; to++ {
			if !to.IsNumber() {
				continue
			}

			pair := ConversionPair{from, to}
			if isSafeNumber(from, to) {
				safe[pair] = struct{}{}
			} else {
				unsafe[pair] = struct{}{}
			}
		}
	}

	conversionPairs[CategorySafeNumber] = safe
	conversionPairs[CategoryUnsafeNumber] = unsafe
	conversionPairs[CategoryTextNumber] = text
	conversionPairs[CategoryNumericBool] = numBool
	conversionPairs[CategoryTimestamp] = stamp
	conversionPairs[CategoryNanoseconds] = nanos

	conversionPairs[CategoryTextualBool] = map[ConversionPair]struct{}{
		{KindString, KindBool}: {},
		{KindBool, KindString}: {},
	}
	conversionPairs[CategoryDatetime] = map[ConversionPair]struct{}{
		{KindString, KindTime}: {},
		{KindTime, KindString}: {},
	}
	conversionPairs[CategoryDuration] = map[ConversionPair]struct{}{
		{KindString, KindDuration}: {},
		{KindDuration, KindString}: {},
	}
	conversionPairs[CategorySeconds] = map[ConversionPair]struct{}{
		{KindFloat32, KindDuration}: {},
		{KindFloat64, KindDuration}: {},
		{KindDuration, KindFloat32}: {},
		{KindDuration, KindFloat64}: {},
	}
	conversionPairs[CategoryBinaryText] = map[ConversionPair]struct{}{
		{KindString, KindBytes}: {},
		{KindBytes, KindString}: {},
	}
}

// isSafeNumber reports whether every value of from is representable in to.
// int and uint are treated as 64 bits wide only when widening into them is
// guaranteed on every platform, so they accept at most 32-bit sources.
func isSafeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	switch {
	case to.IsFloat():
		if from.IsFloat() {
			return from.Bits() <= to.Bits()
		}
		// float32 carries a 24-bit mantissa, float64 a 53-bit one.
		mantissa := 24
		if to == KindFloat64 {
			mantissa = 53
		}
		return from != KindInt && from != KindUint && from.Bits() < mantissa

	case from.IsFloat():
		return false

	case from.IsSigned() && to.IsUnsigned():
		return false

	case from.IsUnsigned() && to.IsSigned():
		return from != KindUint && portableBits(from) < portableBits(to)

	default:
		return portableBits(from) <= portableBits(to)
	}
}

func portableBits(k KindEnum) int {
	switch k {
	case KindInt, KindUint:
		return 32
	default:
		return k.Bits()
	}
}

// Allowed reports whether converting from one kind to another is part of any
// category in the allowed set.
func Allowed(from, to KindEnum, allowed CategoryEnum) bool {
	if from == to && from.IsValid() {
		return true
	}

	pair := ConversionPair{from, to}

	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if allowed&category == 0 {
			continue
		}

		if _, ok := conversionPairs[category][pair]; ok {
			return true
		}
	}

	return false
}

// Pairs returns every conversion pair enabled by the allowed set.
func Pairs(allowed CategoryEnum) map[ConversionPair]struct{} {
	res := map[ConversionPair]struct{}{}

	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if allowed&category == 0 {
			continue
		}

		maps.Copy(res, conversionPairs[category])
	}

	return res
}
