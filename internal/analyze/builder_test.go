package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/primitive"
)

func TestBuilder_ForwardReference(t *testing.T) {
	b := NewBuilder("shop")

	b.Struct("Order", "domain=shop:1").
		Field("ID", Basic(primitive.KindInt64), ",id").
		Field("Lines", SliceOf(b.Ref("Line")), "items").
		Operation("Total")
	b.Struct("Line").
		Field("SKU", Basic(primitive.KindString), ",notnull")
	b.Struct("Rush").Extends("Order")

	graph, err := b.Build()
	require.NoError(t, err)

	order := graph.Lookup("Order")
	require.NotNil(t, order)
	assert.True(t, order.Dynamic)
	assert.Equal(t, "shop", order.ID.PkgPath)

	lines, ok := order.Field("Lines")
	require.True(t, ok)
	assert.Same(t, graph.Lookup("shop.Line"), lines.Type.ElemType)
	assert.Equal(t, "[]shop.Line", TypeString(lines.Type))

	assert.Same(t, order, graph.Lookup("Rush").Parent)
	assert.Len(t, graph.All(), 3)
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder("shop")
	b.Struct("Order").
		Field("Customer", b.Ref("Customer"), "").
		Field("ID", Basic(primitive.KindInt64), "").
		Field("ID", Basic(primitive.KindInt64), "")
	b.Struct("Order")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Customer" referenced but never declared`)
	assert.Contains(t, err.Error(), `member "ID" declared twice`)
	assert.Contains(t, err.Error(), `"Order" declared twice`)
}

func TestTypeGraph_LookupAmbiguous(t *testing.T) {
	g := NewTypeGraph()
	g.Add(&TypeInfo{ID: TypeID{PkgPath: "a", Name: "X"}})
	g.Add(&TypeInfo{ID: TypeID{PkgPath: "b", Name: "X"}})

	assert.Nil(t, g.Lookup("X"))
	assert.NotNil(t, g.Lookup("a.X"))
	assert.NotNil(t, g.Lookup("b.X"))
}
