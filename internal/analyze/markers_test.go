package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		rename    string
		markers   Markers
		operation bool
	}{
		{name: "empty", tag: ""},
		{name: "name only", tag: "orderId", rename: "orderId"},
		{
			name:    "markers without name",
			tag:     ",id,min=1",
			markers: Markers{{Key: "id"}, {Key: "min", Value: "1"}},
		},
		{
			name:    "quoted value with comma",
			tag:     "code,pattern='^[A-Z]{2,3}$',notnull",
			rename:  "code",
			markers: Markers{{Key: "pattern", Value: "^[A-Z]{2,3}$"}, {Key: "notnull"}},
		},
		{name: "dash", tag: "-", operation: true},
		{
			name:      "operation marker",
			tag:       "total,op",
			rename:    "total",
			markers:   Markers{{Key: "op"}},
			operation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rename, markers, op := ParseTag(tt.tag)
			assert.Equal(t, tt.rename, rename)
			assert.Equal(t, tt.markers, markers)
			assert.Equal(t, tt.operation, op)
		})
	}
}

func TestMarkers_Values(t *testing.T) {
	m := ParseMarkers([]string{"alias=sku|code", "alias=ref", "notnull"})

	assert.Equal(t, []string{"sku", "code", "ref"}, m.Values(MarkerAlias))
	assert.Nil(t, m.Values("notnull"))
	assert.True(t, m.Has("notnull"))
	assert.False(t, m.Has("id"))

	v, ok := m.Get(MarkerAlias)
	require.True(t, ok)
	assert.Equal(t, "sku|code", v)
}

func TestMarkers_String(t *testing.T) {
	m := Markers{{Key: "id"}, {Key: "min", Value: "1"}, {Key: "pattern", Value: "a, b"}}
	assert.Equal(t, "id,min=1,pattern='a, b'", m.String())

	_, parsed, _ := ParseTag("x," + m.String())
	assert.Equal(t, m, parsed)
}
