package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		input string
		style NameStyle
		want  string
	}{
		{"CustomerID", NameStyleCamel, "customerId"},
		{"ID", NameStyleCamel, "id"},
		{"XMLPayload", NameStyleCamel, "xmlPayload"},
		{"TotalCents", NameStyleSnake, "total_cents"},
		{"OrderedAt", NameStyleGo, "OrderedAt"},
		{"Name", NameStyleCamel, "name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.style)+"_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.input, tt.style))
		})
	}
}

func TestParseNameStyle(t *testing.T) {
	s, err := ParseNameStyle("")
	require.NoError(t, err)
	assert.Equal(t, NameStyleCamel, s)

	s, err = ParseNameStyle("snake")
	require.NoError(t, err)
	assert.Equal(t, NameStyleSnake, s)

	_, err = ParseNameStyle("kebab")
	require.Error(t, err)
}
