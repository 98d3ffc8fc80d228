package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "sku", 3},
		{"buyer", "buyer", 0},
		{"buyr", "buyer", 1},
		{"qty", "qtys", 1},
		{"labels", "label", 1},
		{"status", "state", 2},
		{"kitten", "sitting", 3},
		{"Email", "email", 1},
		{"pricecents", "totalcents", 5},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b), "%q -> %q", tc.a, tc.b)
		assert.Equal(t, tc.want, Levenshtein(tc.b, tc.a), "%q -> %q", tc.b, tc.a)
	}
}

func TestLevenshtein_Runes(t *testing.T) {
	assert.Equal(t, 1, Levenshtein("héllo", "hello"))
	assert.Equal(t, 0, Levenshtein("日本", "日本"))
	assert.Equal(t, 2, Levenshtein("日本", ""))
}

func TestLevenshteinNormalized(t *testing.T) {
	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 0.0, LevenshteinNormalized("", "id"), 1e-9)
	assert.InDelta(t, 0.8, LevenshteinNormalized("buyr", "buyer"), 1e-9)
	assert.InDelta(t, 0.5, LevenshteinNormalized("ab", "ac"), 1e-9)
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	assert.InDelta(t, 1.0, NormalizedLevenshteinScore("customer_id", "CustomerID"), 1e-9)
	assert.InDelta(t, 1.0, NormalizedLevenshteinScore("unitPrice", "UNIT-PRICE"), 1e-9)
	assert.Less(t, NormalizedLevenshteinScore("sku", "description"), DefaultMinScore)
}

func TestNormalizedLevenshteinScoreWithSuffixStrip(t *testing.T) {
	plain := NormalizedLevenshteinScore("productId", "product")
	stripped := NormalizedLevenshteinScoreWithSuffixStrip("productId", "product")

	assert.Less(t, plain, 1.0)
	assert.InDelta(t, 1.0, stripped, 1e-9)
}

func BenchmarkNormalizedLevenshteinScore(b *testing.B) {
	for b.Loop() {
		NormalizedLevenshteinScore("shippingAddress.postalCode", "shipping_address.postcode")
	}
}
