package attributes

import "slices"

// Universe decides which slots an equippable may carry.
type Universe interface {
	// Contains reports whether slot belongs to the universe.
	Contains(slot Slot) bool
	// Mandatory lists slots always present in canonical form, sorted. Nil when open.
	Mandatory() []Slot
}

// PenguinSlots is the closed slot list of the penguin collection.
var PenguinSlots = []string{"background", "beak", "clothes", "eyes", "hat", "skin", "weapon"}

// FixedUniverse is a closed slot list known at build time. Every slot is
// emitted when encoding, empty ones as "unequipped".
type FixedUniverse struct {
	slots []Slot
	index map[Slot]struct{}
}

func NewFixedUniverse(names ...string) *FixedUniverse {
	u := &FixedUniverse{index: make(map[Slot]struct{}, len(names))}
	for _, name := range names {
		slot := NewSlot(name)
		if _, dup := u.index[slot]; dup || slot.IsZero() {
			continue
		}
		u.index[slot] = struct{}{}
		u.slots = append(u.slots, slot)
	}
	slices.SortFunc(u.slots, Slot.Compare)
	return u
}

func (u *FixedUniverse) Contains(slot Slot) bool {
	_, ok := u.index[slot]
	return ok
}

func (u *FixedUniverse) Mandatory() []Slot {
	return u.slots
}

// RegisteredUniverse is the set of slots known to the item registry at the
// time it was built. Only slots present in a Set are encoded.
type RegisteredUniverse struct {
	index map[Slot]struct{}
}

func NewRegisteredUniverse(slots ...Slot) *RegisteredUniverse {
	u := &RegisteredUniverse{index: make(map[Slot]struct{}, len(slots))}
	for _, slot := range slots {
		u.index[slot] = struct{}{}
	}
	return u
}

func (u *RegisteredUniverse) Contains(slot Slot) bool {
	_, ok := u.index[slot]
	return ok
}

func (u *RegisteredUniverse) Mandatory() []Slot {
	return nil
}

type openUniverse struct{}

func (openUniverse) Contains(slot Slot) bool { return !slot.IsZero() }
func (openUniverse) Mandatory() []Slot       { return nil }

// OpenUniverse accepts any valid slot.
var OpenUniverse Universe = openUniverse{}
