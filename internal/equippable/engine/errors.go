package engine

import "errors"

var (
	ErrUnknownSlot          = errors.New("engine: slot is not part of the universe")
	ErrEmptySlotUnequip     = errors.New("engine: cannot unequip an empty slot")
	ErrUnregisteredItem     = errors.New("engine: token is not registered as an item")
	ErrSelfEquip            = errors.New("engine: cannot equip an equippable onto an equippable")
	ErrItemWithoutIdentity  = errors.New("engine: equipped item does not resolve to a registered token")
	ErrNoOperationRequested = errors.New("engine: no item to equip and no slot to unequip")
	ErrSessionClosed        = errors.New("engine: session is finalized or aborted")
)
