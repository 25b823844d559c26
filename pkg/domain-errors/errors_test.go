package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(errStore, CodeInternal, "failed to load registration")

	require.ErrorIs(t, err, errStore)
	assert.Equal(t, "failed to load registration: store unavailable", err.Error())
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestIsMatchesCodeAndMessage(t *testing.T) {
	err := fmt.Errorf("customize: %w", New(CodeForbidden, "caller is not the owner"))

	require.ErrorIs(t, err, New(CodeForbidden, "caller is not the owner"))
	assert.NotErrorIs(t, err, New(CodeForbidden, "other message"))
	assert.True(t, Is(err, CodeForbidden))
	assert.False(t, Is(err, CodeConflict))
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := New(CodeInvariantViolation, "name is reserved")
	outer := Wrap(inner, CodeValidation, "invalid registration")

	assert.True(t, HasCode(outer, CodeInvariantViolation))
	assert.True(t, HasCode(outer, CodeValidation))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.Equal(t, CodeValidation, CodeOf(outer))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errStore))
	assert.False(t, HasCode(nil, CodeInternal))
}
