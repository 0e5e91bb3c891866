package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix(UUID_PREFIX_INVOICE)
	assert.True(t, strings.HasPrefix(id, UUID_PREFIX_INVOICE+"_"))
	assert.NotEqual(t, id, GenerateUUIDWithPrefix(UUID_PREFIX_INVOICE))
}

func TestGenerateUUIDWithEmptyPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix("")
	assert.NotEmpty(t, id)
	assert.NotContains(t, id, "_")
}

func TestGenerateShortIDWithPrefix(t *testing.T) {
	id := GenerateShortIDWithPrefix("FT-")
	assert.True(t, strings.HasPrefix(id, "FT-"))
	assert.LessOrEqual(t, len(id), 12)
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestGenerateShortIDPrefixTooLong(t *testing.T) {
	assert.Empty(t, GenerateShortIDWithPrefix("TWELVECHARS-X"))
}
