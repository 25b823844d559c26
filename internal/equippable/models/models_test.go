package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

func TestNewRegistration(t *testing.T) {
	now := time.Now()

	t.Run("defaults nonce to the first SFT nonce", func(t *testing.T) {
		reg, err := NewRegistration("HAT-a1a1a1", attributes.NewSlot("Hat"), "Pirate Hat", 0, now)
		require.NoError(t, err)
		assert.Equal(t, DefaultItemNonce, reg.Nonce)
		assert.Equal(t, "hat", reg.Slot.String())
		assert.Equal(t, "HAT-a1a1a1-01", reg.Ref().String())
	})

	t.Run("rejects reserved name", func(t *testing.T) {
		_, err := NewRegistration("HAT-a1a1a1", attributes.NewSlot("hat"), "unequipped", 1, now)
		require.ErrorIs(t, err, attributes.ErrReservedName)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects separator in slot", func(t *testing.T) {
		_, err := NewRegistration("HAT-a1a1a1", attributes.NewSlot("h;at"), "Pirate Hat", 1, now)
		require.ErrorIs(t, err, attributes.ErrInvalidSlot)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		_, err := NewRegistration("", attributes.NewSlot("hat"), "Pirate Hat", 1, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}
