package attributes

import "strings"

// Encode renders set in canonical form: entries sorted by slot, joined by ';'.
// A closed universe contributes all of its slots. Output longer than the
// codec's bound fails with ErrBufferTooLarge.
func (c *Codec) Encode(set *Set) ([]byte, error) {
	entries, err := c.collect(set)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(';')
		}
		if c.style == SlotStyleCapitalized {
			b.WriteString(e.Slot.Display())
		} else {
			b.WriteString(e.Slot.String())
		}
		b.WriteByte(':')
		if e.Filled {
			b.WriteString(e.Item.String())
		} else {
			b.WriteString(EmptySlotLiteral)
		}
		if b.Len() > c.maxSize {
			return nil, ErrBufferTooLarge
		}
	}
	return []byte(b.String()), nil
}

func (c *Codec) collect(set *Set) ([]Entry, error) {
	if set == nil {
		set = NewSet()
	}
	for i, e := range set.Entries() {
		if err := ValidateSlot(e.Slot); err != nil {
			return nil, &EntryError{Index: i, Entry: e.Slot.String(), Err: err}
		}
		if !c.universe.Contains(e.Slot) {
			return nil, &EntryError{Index: i, Entry: e.Slot.String(), Err: ErrUnknownSlot}
		}
		if e.Filled {
			if err := ValidateName(e.Item.Name()); err != nil {
				return nil, &EntryError{Index: i, Entry: e.Slot.String(), Err: err}
			}
		}
	}

	mandatory := c.universe.Mandatory()
	if mandatory == nil {
		return set.Entries(), nil
	}
	full := set.Clone()
	for _, slot := range mandatory {
		if !full.Has(slot) {
			full.Clear(slot)
		}
	}
	return full.Entries(), nil
}
