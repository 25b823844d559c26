package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey(t *testing.T) {
	assert.Equal(t, "ratelimit:write:caller:erd1alice", BucketKey(ClassWrite, "caller", "erd1alice"))
	assert.Equal(t, "ratelimit:read:ip:__1", BucketKey(ClassRead, "ip", "::1"))
}
