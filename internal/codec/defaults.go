package codec

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"metabind/primitive"
)

// Names of the built-in codecs.
const (
	NameBool     = "bool"
	NameString   = "string"
	NameBytes    = "bytes"
	NameTime     = "time"
	NameDuration = "duration"
	NameVarint   = "varint"
	NameUvarint  = "uvarint"
	NameHex      = "hex"
	NameUnix     = "unix"
)

// ParamLayout overrides the text layout of the time codec.
const ParamLayout = "layout"

// numberInput is the conversion set accepted when encoding numbers. Narrowing
// is range checked by primitive.Convert.
const numberInput = primitive.CategorySafeNumber | primitive.CategoryUnsafeNumber

func convert(c Codec, f Field, v any, kind primitive.KindEnum, accept primitive.CategoryEnum) (any, error) {
	out, err := primitive.Convert(v, kind, accept)
	if err != nil {
		return nil, encodeErr(c, f, v, err)
	}

	return out, nil
}

func write(c Codec, f Field, v any, w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return encodeErr(c, f, v, err)
	}

	return nil
}

func fixedWidth(c Codec, f Field, win Window, width int) ([]byte, error) {
	if win.Len() != width {
		return nil, decodeErr(c, f, win.Len(), fmt.Errorf("window is %d bytes, want %d", win.Len(), width))
	}

	return win.Bytes(), nil
}

type boolCodec struct{}

func (boolCodec) Name() string { return NameBool }

func (c boolCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	b, err := convert(c, f, v, primitive.KindBool, primitive.CategoryNone)
	if err != nil {
		return err
	}

	out := []byte{0}
	if b.(bool) {
		out[0] = 1
	}

	return write(c, f, v, w, out)
}

func (c boolCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, 1)
	if err != nil {
		return nil, err
	}

	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, decodeErr(c, f, b[0], fmt.Errorf("invalid boolean byte %#x", b[0]))
	}
}

func (c boolCodec) EncodeText(f Field, v any) (string, error) {
	b, err := convert(c, f, v, primitive.KindBool, primitive.CategoryNone)
	if err != nil {
		return "", err
	}

	return strconv.FormatBool(b.(bool)), nil
}

func (c boolCodec) DecodeText(f Field, s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return b, nil
}

// intCodec writes integers as fixed-width big-endian two's complement. int and
// uint always take 8 bytes.
type intCodec struct {
	kind primitive.KindEnum
}

func (c intCodec) Name() string { return c.kind.Name() }

func (c intCodec) width() int {
	if c.kind == primitive.KindInt || c.kind == primitive.KindUint {
		return 8
	}

	return c.kind.Bits() / 8
}

func (c intCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	n, err := convert(c, f, v, c.kind, numberInput)
	if err != nil {
		return err
	}

	var bits uint64
	if c.kind.IsSigned() {
		bits = uint64(asInt64(n))
	} else {
		bits = asUint64(n)
	}

	buf := binary.BigEndian.AppendUint64(nil, bits)

	return write(c, f, v, w, buf[8-c.width():])
}

func (c intCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, c.width())
	if err != nil {
		return nil, err
	}

	var bits uint64
	for _, x := range b {
		bits = bits<<8 | uint64(x)
	}

	if c.kind.IsUnsigned() {
		return primitive.Convert(bits, c.kind, numberInput)
	}

	// sign-extend from the encoded width
	shift := 64 - 8*len(b)
	n := int64(bits<<shift) >> shift

	return primitive.Convert(n, c.kind, numberInput)
}

func (c intCodec) EncodeText(f Field, v any) (string, error) {
	n, err := convert(c, f, v, c.kind, numberInput)
	if err != nil {
		return "", err
	}

	if c.kind.IsSigned() {
		return strconv.FormatInt(asInt64(n), 10), nil
	}

	return strconv.FormatUint(asUint64(n), 10), nil
}

func (c intCodec) DecodeText(f Field, s string) (any, error) {
	n, err := primitive.ParseText(s, c.kind)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return n, nil
}

type floatCodec struct {
	kind primitive.KindEnum
}

func (c floatCodec) Name() string { return c.kind.Name() }

func (c floatCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	x, err := convert(c, f, v, c.kind, numberInput)
	if err != nil {
		return err
	}

	if c.kind == primitive.KindFloat32 {
		return write(c, f, v, w, binary.BigEndian.AppendUint32(nil, math.Float32bits(x.(float32))))
	}

	return write(c, f, v, w, binary.BigEndian.AppendUint64(nil, math.Float64bits(x.(float64))))
}

func (c floatCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, c.kind.Bits()/8)
	if err != nil {
		return nil, err
	}

	if c.kind == primitive.KindFloat32 {
		return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
	}

	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (c floatCodec) EncodeText(f Field, v any) (string, error) {
	x, err := convert(c, f, v, c.kind, numberInput)
	if err != nil {
		return "", err
	}

	if c.kind == primitive.KindFloat32 {
		return strconv.FormatFloat(float64(x.(float32)), 'g', -1, 32), nil
	}

	return strconv.FormatFloat(x.(float64), 'g', -1, 64), nil
}

func (c floatCodec) DecodeText(f Field, s string) (any, error) {
	x, err := primitive.ParseText(s, c.kind)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return x, nil
}

// stringCodec stores UTF-8 and consumes its entire window.
type stringCodec struct{}

func (stringCodec) Name() string { return NameString }

func (c stringCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	s, err := c.EncodeText(f, v)
	if err != nil {
		return err
	}

	return write(c, f, v, w, []byte(s))
}

func (c stringCodec) DecodeBinary(f Field, win Window) (any, error) {
	b := win.Bytes()
	if !utf8.Valid(b) {
		return nil, decodeErr(c, f, win.Len(), fmt.Errorf("invalid UTF-8"))
	}

	return string(b), nil
}

func (c stringCodec) EncodeText(f Field, v any) (string, error) {
	s, err := convert(c, f, v, primitive.KindString, primitive.CategoryBinaryText)
	if err != nil {
		return "", err
	}

	if !utf8.ValidString(s.(string)) {
		return "", encodeErr(c, f, v, fmt.Errorf("invalid UTF-8"))
	}

	return s.(string), nil
}

func (stringCodec) DecodeText(_ Field, s string) (any, error) {
	return s, nil
}

// bytesCodec stores raw bytes; the text form is standard base64.
type bytesCodec struct{}

func (bytesCodec) Name() string { return NameBytes }

func (c bytesCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	b, err := convert(c, f, v, primitive.KindBytes, primitive.CategoryBinaryText)
	if err != nil {
		return err
	}

	return write(c, f, v, w, b.([]byte))
}

func (bytesCodec) DecodeBinary(_ Field, win Window) (any, error) {
	return append([]byte(nil), win.Bytes()...), nil
}

func (c bytesCodec) EncodeText(f Field, v any) (string, error) {
	b, err := convert(c, f, v, primitive.KindBytes, primitive.CategoryBinaryText)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b.([]byte)), nil
}

func (c bytesCodec) DecodeText(f Field, s string) (any, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return b, nil
}

// hexCodec stores raw bytes with a hexadecimal text form.
type hexCodec struct {
	bytesCodec
}

func (hexCodec) Name() string { return NameHex }

func (c hexCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	b, err := convert(c, f, v, primitive.KindBytes, primitive.CategoryBinaryText)
	if err != nil {
		return err
	}

	return write(c, f, v, w, b.([]byte))
}

func (c hexCodec) EncodeText(f Field, v any) (string, error) {
	b, err := convert(c, f, v, primitive.KindBytes, primitive.CategoryBinaryText)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b.([]byte)), nil
}

func (c hexCodec) DecodeText(f Field, s string) (any, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return b, nil
}

// timeCodec stores Unix nanoseconds; text uses RFC 3339 or the layout param.
type timeCodec struct{}

func (timeCodec) Name() string { return NameTime }

func (c timeCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	t, err := convert(c, f, v, primitive.KindTime, primitive.CategoryNone)
	if err != nil {
		return err
	}

	return write(c, f, v, w, binary.BigEndian.AppendUint64(nil, uint64(t.(time.Time).UnixNano())))
}

func (c timeCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, 8)
	if err != nil {
		return nil, err
	}

	return time.Unix(0, int64(binary.BigEndian.Uint64(b))).UTC(), nil
}

func (c timeCodec) EncodeText(f Field, v any) (string, error) {
	t, err := convert(c, f, v, primitive.KindTime, primitive.CategoryNone)
	if err != nil {
		return "", err
	}

	return t.(time.Time).Format(layout(f)), nil
}

func (c timeCodec) DecodeText(f Field, s string) (any, error) {
	t, err := time.Parse(layout(f), s)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return t, nil
}

func layout(f Field) string {
	if l, ok := Param(f, ParamLayout); ok && l != "" {
		return l
	}

	return time.RFC3339Nano
}

// unixCodec stores time as Unix seconds in 8 bytes.
type unixCodec struct{}

func (unixCodec) Name() string { return NameUnix }

func (c unixCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	t, err := convert(c, f, v, primitive.KindTime, primitive.CategoryTimestamp)
	if err != nil {
		return err
	}

	return write(c, f, v, w, binary.BigEndian.AppendUint64(nil, uint64(t.(time.Time).Unix())))
}

func (c unixCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, 8)
	if err != nil {
		return nil, err
	}

	return time.Unix(int64(binary.BigEndian.Uint64(b)), 0).UTC(), nil
}

func (c unixCodec) EncodeText(f Field, v any) (string, error) {
	t, err := convert(c, f, v, primitive.KindTime, primitive.CategoryTimestamp)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(t.(time.Time).Unix(), 10), nil
}

func (c unixCodec) DecodeText(f Field, s string) (any, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return time.Unix(sec, 0).UTC(), nil
}

type durationCodec struct{}

func (durationCodec) Name() string { return NameDuration }

func (c durationCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	d, err := convert(c, f, v, primitive.KindDuration, primitive.CategoryNanoseconds)
	if err != nil {
		return err
	}

	return write(c, f, v, w, binary.BigEndian.AppendUint64(nil, uint64(d.(time.Duration))))
}

func (c durationCodec) DecodeBinary(f Field, win Window) (any, error) {
	b, err := fixedWidth(c, f, win, 8)
	if err != nil {
		return nil, err
	}

	return time.Duration(int64(binary.BigEndian.Uint64(b))), nil
}

func (c durationCodec) EncodeText(f Field, v any) (string, error) {
	d, err := convert(c, f, v, primitive.KindDuration, primitive.CategoryNanoseconds)
	if err != nil {
		return "", err
	}

	return d.(time.Duration).String(), nil
}

func (c durationCodec) DecodeText(f Field, s string) (any, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, decodeErr(c, f, s, err)
	}

	return d, nil
}

// varintCodec stores signed integers as zig-zag varints filling the window.
type varintCodec struct{}

func (varintCodec) Name() string { return NameVarint }

func (c varintCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	n, err := convert(c, f, v, primitive.KindInt64, numberInput)
	if err != nil {
		return err
	}

	return write(c, f, v, w, binary.AppendVarint(nil, n.(int64)))
}

func (c varintCodec) DecodeBinary(f Field, win Window) (any, error) {
	n, read := binary.Varint(win.Bytes())
	if read <= 0 || read != win.Len() {
		return nil, decodeErr(c, f, win.Len(), fmt.Errorf("malformed varint"))
	}

	return n, nil
}

func (c varintCodec) EncodeText(f Field, v any) (string, error) {
	return intCodec{kind: primitive.KindInt64}.EncodeText(f, v)
}

func (c varintCodec) DecodeText(f Field, s string) (any, error) {
	return intCodec{kind: primitive.KindInt64}.DecodeText(f, s)
}

type uvarintCodec struct{}

func (uvarintCodec) Name() string { return NameUvarint }

func (c uvarintCodec) EncodeBinary(f Field, v any, w io.Writer) error {
	n, err := convert(c, f, v, primitive.KindUint64, numberInput)
	if err != nil {
		return err
	}

	return write(c, f, v, w, binary.AppendUvarint(nil, n.(uint64)))
}

func (c uvarintCodec) DecodeBinary(f Field, win Window) (any, error) {
	n, read := binary.Uvarint(win.Bytes())
	if read <= 0 || read != win.Len() {
		return nil, decodeErr(c, f, win.Len(), fmt.Errorf("malformed uvarint"))
	}

	return n, nil
}

func (c uvarintCodec) EncodeText(f Field, v any) (string, error) {
	return intCodec{kind: primitive.KindUint64}.EncodeText(f, v)
}

func (c uvarintCodec) DecodeText(f Field, s string) (any, error) {
	return intCodec{kind: primitive.KindUint64}.DecodeText(f, s)
}

// unresolved fails every transform.
type unresolved struct{}

// Unresolved is the placeholder given to components whose codec could not be
// resolved when unresolved codecs are allowed.
var Unresolved Codec = unresolved{}

func (unresolved) Name() string { return "unresolved" }

func (c unresolved) EncodeBinary(f Field, v any, _ io.Writer) error {
	return encodeErr(c, f, v, ErrUnresolved)
}

func (c unresolved) DecodeBinary(f Field, win Window) (any, error) {
	return nil, decodeErr(c, f, win.Len(), ErrUnresolved)
}

func (c unresolved) EncodeText(f Field, v any) (string, error) {
	return "", encodeErr(c, f, v, ErrUnresolved)
}

func (c unresolved) DecodeText(f Field, s string) (any, error) {
	return nil, decodeErr(c, f, s, ErrUnresolved)
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return n.(int64)
	}
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	default:
		return n.(uint64)
	}
}
