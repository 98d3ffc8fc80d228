package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceHelpers(t *testing.T) {
	v, ok := First([]string{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = First([]string{})
	assert.False(t, ok)

	assert.Equal(t, []string{"b", "a", "c"}, Dedupe([]string{"b", "a", "b", "c", "a"}))
	assert.Equal(t, "store", PkgAlias("metabind/store"))
	assert.Empty(t, PkgAlias(""))
}
