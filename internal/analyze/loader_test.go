package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/primitive"
)

func TestSourceLoader_LoadPackages(t *testing.T) {
	loader := NewSourceLoader("")
	graph, err := loader.LoadPackages("metabind/store", "metabind/warehouse")
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Contains(t, graph.Types, TypeID{PkgPath: "metabind/store", Name: "Order"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: "metabind/warehouse", Name: "Order"})

	// Bare names are ambiguous across the two packages
	assert.Nil(t, graph.Lookup("Order"))
	assert.NotNil(t, graph.Lookup("store.Order"))
	assert.Same(t, graph.Lookup("store.Product"), graph.Lookup("metabind/store.Product"))
}

func TestSourceLoader_StoreOrderFields(t *testing.T) {
	graph, err := NewSourceLoader("").LoadPackages("metabind/store")
	require.NoError(t, err)

	order := graph.GetType(TypeID{PkgPath: "metabind/store", Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, TypeKindStruct, order.Kind)
	assert.True(t, order.Dynamic)
	assert.Nil(t, order.GoType)

	names := make([]string, 0, len(order.Fields))
	for _, f := range order.Fields {
		names = append(names, f.Name)
		assert.Nil(t, f.Index, f.Name)
	}
	assert.Equal(t, []string{"ID", "CustomerID", "Status", "TotalCents", "Items", "OrderedAt", "Notes", "Session"}, names)

	id, ok := order.Field("ID")
	require.True(t, ok)
	assert.True(t, id.Markers.Has("id"))
	assert.Equal(t, reflect.StructTag(`meta:",id"`), id.Tag)

	status, _ := order.Field("Status")
	assert.Equal(t, TypeKindAlias, status.Type.Kind)
	assert.Equal(t, primitive.KindString, status.Type.Scalar)
	assert.Equal(t, "OrderStatus", status.Type.ID.Name)

	items, _ := order.Field("Items")
	assert.Equal(t, TypeKindSlice, items.Type.Kind)
	assert.Equal(t, "OrderItem", items.Type.ElemType.ID.Name)

	orderedAt, _ := order.Field("OrderedAt")
	assert.Equal(t, TypeKindExternal, orderedAt.Type.Kind)
	assert.Equal(t, primitive.KindTime, orderedAt.Type.Scalar)

	notes, _ := order.Field("Notes")
	assert.Equal(t, TypeKindMap, notes.Type.Kind)
	assert.Equal(t, primitive.KindString, notes.Type.KeyType.Scalar)
}

func TestSourceLoader_EmbeddedParent(t *testing.T) {
	graph, err := NewSourceLoader("").LoadPackages("metabind/store")
	require.NoError(t, err)

	product := graph.Lookup("store.Product")
	require.NotNil(t, product)
	require.NotNil(t, product.Parent)
	assert.Equal(t, "Audit", product.Parent.ID.Name)
	assert.Nil(t, product.ParentIndex)

	_, ok := product.Field("Audit")
	assert.False(t, ok, "embedded parent is not a member")

	sku, ok := product.Field("SKU")
	require.True(t, ok)
	assert.Equal(t, "sku", sku.Rename)
}

func TestSourceLoader_RecursiveTypes(t *testing.T) {
	graph, err := NewSourceLoader("").LoadPackages("metabind/warehouse")
	require.NoError(t, err)

	order := graph.Lookup("warehouse.Order")
	item := graph.Lookup("warehouse.OrderItem")
	require.NotNil(t, order)
	require.NotNil(t, item)

	back, ok := item.Field("Order")
	require.True(t, ok)
	assert.Equal(t, TypeKindPointer, back.Type.Kind)
	assert.Same(t, order, back.Type.ElemType)
}

func TestSourceLoader_Errors(t *testing.T) {
	_, err := NewSourceLoader("").LoadPackages("metabind/does/not/exist")
	require.Error(t, err)
}
