package codec

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/analyze"
	"metabind/primitive"
)

type field struct {
	name   string
	params map[string]string
}

func (f field) Name() string { return f.name }

func (f field) Param(key string) (string, bool) {
	v, ok := f.params[key]
	return v, ok
}

func roundTrip(t *testing.T, c Codec, v any) any {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.EncodeBinary(field{name: "f"}, v, &buf))

	got, err := c.DecodeBinary(field{name: "f"}, WindowOf(buf.Bytes()))
	require.NoError(t, err)

	return got
}

func TestDefaults_RoundTrip(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		kind  primitive.KindEnum
		value any
	}{
		{primitive.KindBool, true},
		{primitive.KindBool, false},
		{primitive.KindInt32, int32(0)},
		{primitive.KindInt32, int32(2147483647)},
		{primitive.KindInt32, int32(-1)},
		{primitive.KindInt8, int8(-128)},
		{primitive.KindUint16, uint16(65535)},
		{primitive.KindInt, -42},
		{primitive.KindUint64, uint64(1) << 63},
		{primitive.KindFloat32, float32(1.5)},
		{primitive.KindFloat64, -0.125},
		{primitive.KindString, ""},
		{primitive.KindString, "héllo"},
		{primitive.KindBytes, []byte{0, 1, 0xff}},
		{primitive.KindTime, time.Date(2024, 2, 29, 12, 30, 0, 17, time.UTC)},
		{primitive.KindDuration, 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c, ok := r.ForKind(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.value, roundTrip(t, c, tt.value))

			text, err := c.EncodeText(nil, tt.value)
			require.NoError(t, err)
			back, err := c.DecodeText(nil, text)
			require.NoError(t, err)
			assert.Equal(t, tt.value, back)
		})
	}
}

func TestInt_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, intCodec{kind: primitive.KindInt32}.EncodeBinary(nil, int32(-1), &buf))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf.Bytes())

	buf.Reset()
	require.NoError(t, intCodec{kind: primitive.KindInt}.EncodeBinary(nil, 1, &buf))
	assert.Len(t, buf.Bytes(), 8)
}

func TestInt_AcceptsFittingValues(t *testing.T) {
	c := intCodec{kind: primitive.KindInt16}

	assert.Equal(t, int16(7), roundTrip(t, c, int64(7)))
	assert.Equal(t, int16(44), roundTrip(t, c, uint8(44)))

	err := c.EncodeBinary(field{name: "qty"}, int64(1)<<20, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrDataTransform)
	require.ErrorIs(t, err, primitive.ErrOverflow)

	var dte *DataTransformError
	require.True(t, errors.As(err, &dte))
	assert.Equal(t, "qty", dte.Field)
	assert.Equal(t, OpEncode, dte.Op)

	err = c.EncodeBinary(nil, "12", &bytes.Buffer{})
	require.ErrorIs(t, err, primitive.ErrNotAllowed)
}

func TestDecode_WindowNotMoved(t *testing.T) {
	buf := []byte{0xAA, 0x00, 0x00, 0x01, 0x00, 'h', 'i'}

	win, err := NewWindow(buf, 1, 4)
	require.NoError(t, err)

	n, err := intCodec{kind: primitive.KindInt32}.DecodeBinary(nil, win)
	require.NoError(t, err)
	assert.Equal(t, int32(256), n)

	// the same window decodes again
	n, err = intCodec{kind: primitive.KindInt32}.DecodeBinary(nil, win)
	require.NoError(t, err)
	assert.Equal(t, int32(256), n)

	tail, err := NewWindow(buf, 5, 2)
	require.NoError(t, err)
	s, err := stringCodec{}.DecodeBinary(nil, tail)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = NewWindow(buf, 5, 3)
	require.ErrorIs(t, err, ErrWindow)

	_, err = win.Sub(2, 4)
	require.ErrorIs(t, err, ErrWindow)

	_, err = intCodec{kind: primitive.KindInt16}.DecodeBinary(nil, win)
	require.ErrorIs(t, err, ErrDataTransform)
}

func TestWindow_BytesCapped(t *testing.T) {
	buf := []byte("abcdef")
	win, err := NewWindow(buf, 0, 3)
	require.NoError(t, err)

	b := append(win.Bytes(), 'X')
	assert.Equal(t, "abcX", string(b))
	assert.Equal(t, "abcdef", string(buf))
}

func TestNamedCodecs(t *testing.T) {
	r := NewRegistry()

	varint, err := r.New(NameVarint)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), roundTrip(t, varint, -300))

	uvarint, err := r.New(NameUvarint)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), roundTrip(t, uvarint, uint32(300)))

	hx, err := r.New(NameHex)
	require.NoError(t, err)
	text, err := hx.EncodeText(nil, []byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, "dead", text)

	unix, err := r.New(NameUnix)
	require.NoError(t, err)
	at := time.Unix(1700000000, 0).UTC()
	assert.Equal(t, at, roundTrip(t, unix, at))

	_, err = r.New("nope")
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func TestTime_LayoutParam(t *testing.T) {
	f := field{name: "day", params: map[string]string{ParamLayout: time.DateOnly}}
	c := timeCodec{}

	text, err := c.EncodeText(f, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", text)

	got, err := c.DecodeText(f, "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestString_InvalidUTF8(t *testing.T) {
	_, err := stringCodec{}.DecodeBinary(nil, WindowOf([]byte{0xff, 0xfe}))
	require.ErrorIs(t, err, ErrDataTransform)
}

func TestUnresolved(t *testing.T) {
	err := Unresolved.EncodeBinary(field{name: "x"}, 1, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnresolved)

	_, err = Unresolved.DecodeText(nil, "1")
	require.ErrorIs(t, err, ErrDataTransform)
}

func TestRegistry_Bindings(t *testing.T) {
	r := NewRegistry()
	id := analyze.TypeID{PkgPath: "shop", Name: "Cents"}

	require.ErrorIs(t, r.Bind(id, "money"), ErrUnknownCodec)
	require.NoError(t, r.Register("money", func() Codec { return varintCodec{} }))
	require.Error(t, r.Register("money", func() Codec { return varintCodec{} }))
	require.NoError(t, r.Bind(id, "money"))

	c, ok := r.ForType(id)
	require.True(t, ok)
	assert.Equal(t, NameVarint, c.Name())

	_, ok = r.ForType(analyze.TypeID{Name: "Other"})
	assert.False(t, ok)

	require.NoError(t, r.SetDefault(primitive.KindInt64, NameVarint))
	c, _ = r.ForKind(primitive.KindInt64)
	assert.Equal(t, NameVarint, c.Name())

	assert.Contains(t, r.Names(), "money")
	assert.Contains(t, r.Names(), "int32")
}
