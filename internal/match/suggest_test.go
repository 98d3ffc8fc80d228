package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	known := []string{"id", "customerId", "status", "items.sku", "items.quantity"}

	got := Suggest("customer_id", known, DefaultMinScore, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "customerId", got[0].Path)
	assert.InDelta(t, 1.0, got[0].Score, 0.001)

	got = Suggest("items.quantty", known, DefaultMinScore, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "items.quantity", got[0].Path)

	assert.Empty(t, Suggest("zzz", known, DefaultMinScore, 3))
}

func TestSuggest_Limit(t *testing.T) {
	known := []string{"name", "names", "nam"}

	got := Suggest("name", known, 0.5, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "name", got[0].Path)
}
