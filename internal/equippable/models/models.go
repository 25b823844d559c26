package models

import (
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

// DefaultItemNonce is the SFT nonce used when an item is resolved by name only.
const DefaultItemNonce uint64 = 1

// Registration binds an item collection to the slot it occupies.
//
// Invariants:
//   - Token is never the equippable collection
//   - Slot passes attributes.ValidateSlot
//   - Name passes attributes.ValidateName
//   - A token is bound to exactly one slot for its lifetime
type Registration struct {
	Token        domain.TokenID
	Slot         attributes.Slot
	Name         string
	Nonce        uint64
	RegisteredAt time.Time
}

// Ref is the ledger unit a name-only item resolves to.
func (r Registration) Ref() attributes.TokenRef {
	return attributes.TokenRef{Token: r.Token, Nonce: r.Nonce}
}

// NewRegistration validates the registration invariants that do not need the store.
func NewRegistration(token domain.TokenID, slot attributes.Slot, name string, nonce uint64, now time.Time) (*Registration, error) {
	if token.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "item token is required")
	}
	if err := attributes.ValidateSlot(slot); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid slot")
	}
	if err := attributes.ValidateName(name); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid item name")
	}
	if nonce == 0 {
		nonce = DefaultItemNonce
	}
	return &Registration{Token: token, Slot: slot, Name: name, Nonce: nonce, RegisteredAt: now}, nil
}

// Payment is one token transfer attached to a call.
type Payment struct {
	Token  domain.TokenID
	Nonce  uint64
	Amount uint64
}

func (p Payment) Ref() attributes.TokenRef {
	return attributes.TokenRef{Token: p.Token, Nonce: p.Nonce}
}

// CustomizeResult describes the equippable minted by a customize call.
type CustomizeResult struct {
	Token      domain.TokenID
	Nonce      uint64
	Attributes string
	Returned   []attributes.TokenRef
	Absorbed   []attributes.TokenRef
}

// RegisterItem is one entry of a RegisterItems call, validated by NewRegistration.
type RegisterItem struct {
	Token domain.TokenID
	Slot  string
	Name  string
	Nonce uint64
}
