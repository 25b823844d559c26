package attributes

import "slices"

type slotValue struct {
	item   Item
	filled bool
}

// Entry is one slot of a Set. Filled is false for an explicitly empty slot.
type Entry struct {
	Slot   Slot
	Item   Item
	Filled bool
}

// Set maps slots to their optional items. Slots absent from the set are
// implicitly empty; cleared slots are kept so they encode as "unequipped".
type Set struct {
	values map[Slot]slotValue
}

func NewSet() *Set {
	return &Set{values: make(map[Slot]slotValue)}
}

// Put places item in slot, replacing any previous value.
func (s *Set) Put(slot Slot, item Item) {
	s.values[slot] = slotValue{item: item, filled: true}
}

// Clear marks slot as explicitly empty.
func (s *Set) Clear(slot Slot) {
	s.values[slot] = slotValue{}
}

// Get returns the item in slot, if any.
func (s *Set) Get(slot Slot) (Item, bool) {
	v := s.values[slot]
	return v.item, v.filled
}

func (s *Set) IsEmpty(slot Slot) bool {
	return !s.values[slot].filled
}

// Has reports whether slot has an entry, filled or explicitly empty.
func (s *Set) Has(slot Slot) bool {
	_, ok := s.values[slot]
	return ok
}

func (s *Set) Len() int {
	return len(s.values)
}

// Entries returns every entry sorted by slot.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.values))
	for slot, v := range s.values {
		out = append(out, Entry{Slot: slot, Item: v.item, Filled: v.filled})
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Slot.Compare(b.Slot) })
	return out
}

func (s *Set) Clone() *Set {
	c := NewSet()
	for slot, v := range s.values {
		c.values[slot] = v
	}
	return c
}

// Equal compares two sets slot by slot; an absent slot equals an empty one.
func (s *Set) Equal(other *Set) bool {
	for slot, v := range s.values {
		if !sameValue(v, other.values[slot]) {
			return false
		}
	}
	for slot, v := range other.values {
		if !sameValue(v, s.values[slot]) {
			return false
		}
	}
	return true
}

func sameValue(a, b slotValue) bool {
	if !a.filled || !b.filled {
		return a.filled == b.filled
	}
	return a.item == b.item
}
