package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedOpGenerator_ReturnsSameToken(t *testing.T) {
	gen := NewFixedOpGenerator("op-123")

	assert.Equal(t, "op-123", gen.Generate())
	assert.Equal(t, "op-123", gen.Generate())
}

func TestFixedOpGenerator_EmptyTokenDefault(t *testing.T) {
	gen := NewFixedOpGenerator("")
	assert.Equal(t, "test-op", gen.Generate())
}
