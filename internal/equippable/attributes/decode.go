package attributes

import (
	"strconv"
	"strings"

	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
)

const maxNonceDigits = 16

// Decode parses a canonical or reordered attribute string. Empty input yields
// a set where every mandatory slot of the universe is empty.
func (c *Codec) Decode(data []byte) (*Set, error) {
	set := NewSet()
	if len(data) > 0 {
		for i, raw := range strings.Split(string(data), ";") {
			slot, item, filled, err := parseEntry(raw)
			if err != nil {
				return nil, &EntryError{Index: i, Entry: raw, Err: err}
			}
			if !c.universe.Contains(slot) {
				return nil, &EntryError{Index: i, Entry: raw, Err: ErrUnknownSlot}
			}
			if set.Has(slot) {
				return nil, &EntryError{Index: i, Entry: raw, Err: ErrDuplicateSlot}
			}
			if filled {
				set.Put(slot, item)
			} else {
				set.Clear(slot)
			}
		}
	}

	for _, slot := range c.universe.Mandatory() {
		if !set.Has(slot) {
			set.Clear(slot)
		}
	}
	return set, nil
}

func parseEntry(raw string) (Slot, Item, bool, error) {
	slotText, value, ok := strings.Cut(raw, ":")
	if !ok {
		return Slot{}, Item{}, false, ErrMalformedEntry
	}
	slot := NewSlot(slotText)
	if ValidateSlot(slot) != nil {
		return Slot{}, Item{}, false, ErrMalformedEntry
	}
	if value == EmptySlotLiteral {
		return slot, Item{}, false, nil
	}
	item, err := parseItem(value)
	if err != nil {
		return Slot{}, Item{}, false, err
	}
	return slot, item, true, nil
}

// parseItem splits "Name (TOKEN-HEX)" on the last " (" and the last '-', since
// names and token identifiers may themselves contain spaces and dashes.
func parseItem(value string) (Item, error) {
	if !strings.HasSuffix(value, ")") {
		item, err := NewItem(value)
		if err != nil {
			return Item{}, ErrMalformedEntry
		}
		return item, nil
	}

	open := strings.LastIndex(value, " (")
	if open < 0 {
		return Item{}, ErrMalformedEntry
	}
	name := value[:open]
	identity := value[open+2 : len(value)-1]

	dash := strings.LastIndexByte(identity, '-')
	if dash <= 0 {
		return Item{}, ErrMalformedEntry
	}
	token, err := domain.ParseTokenID(identity[:dash])
	if err != nil {
		return Item{}, ErrMalformedEntry
	}
	nonce, err := parseNonce(identity[dash+1:])
	if err != nil {
		return Item{}, ErrMalformedEntry
	}

	item, err := NewTokenItem(name, TokenRef{Token: token, Nonce: nonce})
	if err != nil {
		return Item{}, ErrMalformedEntry
	}
	return item, nil
}

func parseNonce(hex string) (uint64, error) {
	if hex == "" || len(hex) > maxNonceDigits {
		return 0, ErrMalformedEntry
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return 0, ErrMalformedEntry
		}
	}
	return strconv.ParseUint(hex, 16, 64)
}
