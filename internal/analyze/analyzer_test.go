package analyze

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/primitive"
)

type status string

type base struct {
	_       struct{} `meta:"Base,domain=test:1"`
	ID      int64    `meta:",id"`
	Created time.Time
}

type node struct {
	base
	Name     string            `meta:"label,notnull,alias=title"`
	Children []*node           `meta:"kids"`
	Tags     map[string]string
	State    status
	Payload  []byte
	Total    func() int        `meta:"-"`
	hidden   int
}

func TestAnalyzer_Struct(t *testing.T) {
	a := NewAnalyzer()
	info := a.Analyze(reflect.TypeFor[node]())
	require.NotNil(t, info)

	assert.Equal(t, TypeKindStruct, info.Kind)
	assert.Equal(t, "node", info.ID.Name)
	assert.Equal(t, "metabind/internal/analyze", info.ID.PkgPath)

	require.NotNil(t, info.Parent)
	assert.Equal(t, "base", info.Parent.ID.Name)
	assert.Equal(t, []int{0}, info.ParentIndex)
	assert.Equal(t, "Base", info.Parent.TypeName())
	assert.True(t, info.Parent.Markers.Has(MarkerDomain))

	names := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Name", "Children", "Tags", "State", "Payload", "Total"}, names)

	name, ok := info.Field("Name")
	require.True(t, ok)
	assert.Equal(t, "label", name.Rename)
	assert.Equal(t, []string{"title"}, name.Markers.Values(MarkerAlias))

	total, ok := info.Field("Total")
	require.True(t, ok)
	assert.True(t, total.Operation)
}

func TestAnalyzer_Recursive(t *testing.T) {
	a := NewAnalyzer()
	info := a.Analyze(reflect.TypeFor[node]())

	children, ok := info.Field("Children")
	require.True(t, ok)
	require.Equal(t, TypeKindSlice, children.Type.Kind)
	require.Equal(t, TypeKindPointer, children.Type.ElemType.Kind)
	assert.Same(t, info, children.Type.ElemType.ElemType)
	assert.Same(t, info, a.Analyze(reflect.TypeFor[node]()))
}

func TestAnalyzer_Scalars(t *testing.T) {
	info := Of[node]()

	state, _ := info.Field("State")
	assert.Equal(t, TypeKindAlias, state.Type.Kind)
	assert.Equal(t, primitive.KindString, state.Type.Scalar)

	payload, _ := info.Field("Payload")
	assert.Equal(t, TypeKindBasic, payload.Type.Kind)
	assert.Equal(t, primitive.KindBytes, payload.Type.Scalar)

	created, _ := info.Parent.Field("Created")
	assert.Equal(t, TypeKindExternal, created.Type.Kind)
	assert.Equal(t, primitive.KindTime, created.Type.Scalar)

	tags, _ := info.Field("Tags")
	assert.Equal(t, TypeKindMap, tags.Type.Kind)
	assert.Equal(t, "map[string]string", TypeString(tags.Type))
}

func TestTypeOf(t *testing.T) {
	assert.Nil(t, TypeOf(nil))
	assert.Same(t, Of[node](), TypeOf(node{}))
	assert.Equal(t, TypeKindPointer, TypeOf(&node{}).Kind)
}
