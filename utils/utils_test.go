package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(1, 1, 3))
	assert.True(t, IsInRange(1.5, 2.0, 2.0))
	assert.False(t, IsInRange(1, 4, 3))
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2([]string{"x", "y", "z"})
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)

	a, b = Unpack2([]string{"x"})
	assert.Equal(t, "x", a)
	assert.Empty(t, b)
}
