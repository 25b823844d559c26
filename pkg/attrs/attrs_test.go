package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type principal string

func (p principal) String() string { return string(p) }

func TestExtractString(t *testing.T) {
	args := []any{"token", "HAT-a1a1a1", "nonce", uint64(3), "caller", principal("erd1caller")}

	assert.Equal(t, "HAT-a1a1a1", ExtractString(args, "token"))
	assert.Equal(t, "erd1caller", ExtractString(args, "caller"))
	assert.Empty(t, ExtractString(args, "nonce"))
	assert.Empty(t, ExtractString(args, "missing"))
	assert.Empty(t, ExtractString([]any{"dangling"}, "dangling"))
}
