package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeIdent(t *testing.T) {
	cases := map[string][]string{
		"CustomerID":      {"customer", "id"},
		"shipping_addr":   {"shipping", "addr"},
		"items.unitPrice": {"items", "unit", "price"},
		"JSONPayload":     {"json", "payload"},
		"readURL":         {"read", "url"},
		"ABcD":            {"a", "bc", "d"},
		"inventory-count": {"inventory", "count"},
		"x":               {"x"},
		"":                nil,
	}

	for in, want := range cases {
		assert.Equal(t, want, TokenizeIdent(in), in)
	}
}

func TestTokenizeCamelCase_KeepsCase(t *testing.T) {
	assert.Equal(t, []string{"Unit", "Price"}, tokenizeCamelCase("UnitPrice"))
	assert.Equal(t, []string{"SKU"}, tokenizeCamelCase("SKU"))
	assert.Equal(t, []string{"place", "ID"}, tokenizeCamelCase("place_ID"))
}

func TestNormalizeIdent(t *testing.T) {
	for _, in := range []string{"totalCents", "TotalCents", "total_cents", "TOTAL-CENTS", "total cents"} {
		assert.Equal(t, "totalcents", NormalizeIdent(in), in)
	}

	assert.Equal(t, "inventorycount", NormalizeIdent("inventoryCount"))
	assert.Empty(t, NormalizeIdent(""))
}

func TestNormalizeIdentWithSuffixStrip(t *testing.T) {
	cases := map[string]string{
		"ProductID":         "product",
		"productIds":        "product",
		"placedAt":          "placed",
		"ShippedUTC":        "shipped",
		"ModifiedTimestamp": "modified",
		"ID":                "id",
		"at":                "at",
		"quantity":          "quantity",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeIdentWithSuffixStrip(in), in)
	}
}
