package bind

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/analyze"
	"metabind/internal/diagnostic"
	"metabind/internal/introspect"
	"metabind/internal/model"
	"metabind/primitive"
)

type line struct {
	SKU string `meta:"sku,alias=code"`
	Qty int32  `meta:",min=1"`
}

type order struct {
	ID     int64 `meta:",id"`
	Rev    int32 `meta:",version"`
	Buyer  string `meta:",alias=client|customer"`
	Lines  []line
	Labels map[string]string
	Note   *string
	Cache  string         `meta:",transient"`
	Extra  map[string]any `meta:",sparse"`
}

type event struct {
	Kind string
	At   time.Time
}

type node struct {
	Name string `meta:",id"`
	Next *node
}

func modelOf[T any](t *testing.T) *model.ComponentModel {
	t.Helper()

	m, err := introspect.New(nil, nil).Derive(analyze.Of[T]())
	require.NoError(t, err)

	return m
}

func sampleOrder() *order {
	return &order{
		ID:     7,
		Rev:    2,
		Buyer:  "ann",
		Lines:  []line{{SKU: "a", Qty: 1}, {SKU: "b", Qty: 2}},
		Labels: map[string]string{"y": "2", "x": "1"},
		Cache:  "ignored",
		Extra:  map[string]any{"legacy": "v"},
	}
}

func TestBind_Struct(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, "7", bd.Identity())
	ver, ok := bd.Version()
	require.True(t, ok)
	assert.Equal(t, "2", ver)

	raw, _ := bd.VersionValue()
	assert.Equal(t, int32(2), raw)

	assert.Equal(t, []string{"id", "rev", "buyer", "lines.sku", "lines.qty", "labels"}, bd.Paths(),
		spew.Sdump(bd.Paths()))

	qty := bd.Get("lines.qty")
	require.Len(t, qty, 2)
	assert.Equal(t, int32(1), qty[0].Value)
	assert.Equal(t, 0, qty[0].Ordinal)
	assert.Equal(t, int32(2), qty[1].Value)
	assert.Equal(t, 1, qty[1].Ordinal)

	labels := bd.Get("labels")
	require.Len(t, labels, 2)
	assert.Equal(t, "x", labels[0].Key)
	assert.Equal(t, "1", labels[0].Value)
	assert.Equal(t, NoOrdinal, labels[0].Ordinal)

	buyer := bd.Get("buyer")
	require.Len(t, buyer, 1)
	assert.Equal(t, NoOrdinal, buyer[0].Ordinal)

	_, ok = bd.Value("note")
	assert.False(t, ok)
	_, ok = bd.Value("cache")
	assert.False(t, ok)

	sparse := bd.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, "legacy", sparse[0].Path)
	assert.Equal(t, []byte("v"), sparse[0].Bytes())

	diags := bd.Diagnostics()
	assert.True(t, diags.IsValid())
	assert.True(t, bd.Has("lines"))
	assert.Same(t, m, bd.Model())
}

func TestBind_DocumentKeepsUnmappedData(t *testing.T) {
	m := modelOf[order](t)

	doc := map[string]any{
		"id":     9,
		"client": "bob",
		"lines":  []any{map[string]any{"code": "s1", "qty": 3}},
		"colour": "red",
	}

	bd, err := Bind(m, doc)
	require.NoError(t, err)

	assert.Equal(t, "9", bd.Identity())
	assert.Equal(t, 4, bd.Len())

	v, ok := bd.Value("id")
	require.True(t, ok)
	assert.Equal(t, int64(9), v)

	v, _ = bd.Value("buyer")
	assert.Equal(t, "bob", v)
	v, _ = bd.Value("lines.sku")
	assert.Equal(t, "s1", v)
	v, _ = bd.Value("lines.qty")
	assert.Equal(t, int32(3), v)

	sparse := bd.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, "colour", sparse[0].Path)
	orig, ok := sparse[0].Value()
	require.True(t, ok)
	assert.Equal(t, "red", orig)

	diags := bd.Diagnostics()
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnmapped, diags.Warnings[0].Code)
}

func TestBind_AliasesAccumulate(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, map[string]any{"id": 1, "buyer": "a", "customer": "b"})
	require.NoError(t, err)

	buyer := bd.Get("buyer")
	require.Len(t, buyer, 2)
	assert.Equal(t, "a", buyer[0].Value)
	assert.Equal(t, "b", buyer[1].Value)
}

func TestBind_Suggestion(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, map[string]any{"id": 1, "buyr": "x"})
	require.NoError(t, err)

	sparse := bd.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, "buyer", sparse[0].Suggestion)
	assert.Equal(t, []string{"buyer"}, bd.Diagnostics().Warnings[0].Suggestions)
}

func TestBind_FieldFailureIsDiagnostic(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, map[string]any{"id": 1, "rev": "abc"})
	require.NoError(t, err)

	_, ok := bd.Version()
	assert.False(t, ok)

	diags := bd.Diagnostics()
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeDecodeFailed, diags.Errors[0].Code)
	assert.Equal(t, "rev", diags.Errors[0].Path)

	sparse := bd.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, "rev", sparse[0].Path)
	assert.Equal(t, []byte("abc"), sparse[0].Bytes())
}

func TestBind_MissingIdentity(t *testing.T) {
	m := modelOf[order](t)

	_, err := Bind(m, map[string]any{"buyer": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataBind))

	var bindErr *DataBindError
	require.True(t, errors.As(err, &bindErr))
	assert.Equal(t, "id", bindErr.Path)
}

func TestBind_Unreadable(t *testing.T) {
	m := modelOf[order](t)

	for _, instance := range []any{nil, 42, event{}, (*order)(nil)} {
		_, err := Bind(m, instance)
		assert.ErrorIs(t, err, ErrDataBind, "%T", instance)
	}
}

func TestBind_GeneratedIdentity(t *testing.T) {
	m := modelOf[event](t)
	e := event{Kind: "created", At: time.Unix(10, 0).UTC()}

	bd, err := Bind(m, e)
	require.NoError(t, err)
	_, err = uuid.Parse(bd.Identity())
	assert.NoError(t, err)

	bd, err = New(WithIdentityFunc(func() string { return "fixed" })).Bind(m, e)
	require.NoError(t, err)
	assert.Equal(t, "fixed", bd.Identity())
}

func TestBind_CycleIsCut(t *testing.T) {
	m := modelOf[node](t)

	n := &node{Name: "a"}
	n.Next = n

	bd, err := Bind(m, n)
	require.NoError(t, err)

	v, ok := bd.Value("next.name")
	require.True(t, ok)
	assert.Equal(t, "a", v)

	warnings := bd.Diagnostics().Warnings
	require.Len(t, warnings, 1)
	assert.Equal(t, "cycle", warnings[0].Code)
}

func TestEncode_RoundTrip(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, sampleOrder())
	require.NoError(t, err)

	rec, err := Encode(bd)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rec.Encode(&buf))

	back, err := New().BindStream(m, &buf)
	require.NoError(t, err)

	assert.Equal(t, bd.Identity(), back.Identity())
	assert.Equal(t, bd.Paths(), back.Paths())

	for _, path := range bd.Paths() {
		want, got := bd.Get(path), back.Get(path)
		require.Len(t, got, len(want), path)

		for i := range want {
			assert.Equal(t, want[i].Value, got[i].Value, path)
			assert.Equal(t, want[i].Key, got[i].Key, path)
			assert.Equal(t, want[i].Ordinal, got[i].Ordinal, path)
		}
	}

	sparse := back.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, "legacy", sparse[0].Path)
	assert.Equal(t, []byte("v"), sparse[0].Bytes())
	_, ok := sparse[0].Value()
	assert.False(t, ok)
}

func TestBindRecord_BadEntry(t *testing.T) {
	m := modelOf[order](t)

	bd, err := Bind(m, &order{ID: 3})
	require.NoError(t, err)

	rec, err := Encode(bd)
	require.NoError(t, err)
	rec.Add("rev", "", []byte{1})

	back, err := BindRecord(m, rec)
	require.NoError(t, err)

	diags := back.Diagnostics()
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeDecodeFailed, diags.Errors[0].Code)

	sparse := back.Sparse()
	require.Len(t, sparse, 1)
	assert.Equal(t, []byte{1}, sparse[0].Bytes())
}

func TestBindStream_Garbage(t *testing.T) {
	m := modelOf[order](t)

	_, err := New().BindStream(m, bytes.NewReader([]byte{0x05}))
	assert.ErrorIs(t, err, ErrDataBind)
}

func TestSparseField_Text(t *testing.T) {
	sf := rawSparse("x", "", []byte{0xe9})

	s, err := sf.String("ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "é", s)

	_, err = sf.String("")
	assert.Error(t, err)

	_, err = sf.String("no-such-charset")
	assert.Error(t, err)
}

func TestSparseField_Coerce(t *testing.T) {
	v, err := valueSparse("n", "", "42").Coerce(primitive.KindInt32)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	v, err = rawSparse("b", "", []byte("yes")).Coerce(primitive.KindBool)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = rawSparse("b", "", []byte("maybe")).Coerce(primitive.KindBool)
	assert.Error(t, err)
}
