package attributes

import (
	"fmt"
	"strings"

	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
)

const (
	// EmptySlotLiteral is the value written for an unequipped slot.
	EmptySlotLiteral = "unequipped"

	MaxNameLength = 128
)

// TokenRef identifies one on-ledger item unit: a collection and a nonce.
type TokenRef struct {
	Token domain.TokenID
	Nonce uint64
}

// String renders TOKEN-NONCEHEX with the nonce as at least two lower-case hex digits.
func (r TokenRef) String() string {
	return fmt.Sprintf("%s-%02x", r.Token, r.Nonce)
}

// Item is the content of an occupied slot: a display name and, when the item
// resolves to a ledger asset, its token reference. Items are built with
// NewItem or NewTokenItem and never mutated.
type Item struct {
	name   string
	ref    TokenRef
	hasRef bool
}

// NewItem builds a name-only item.
func NewItem(name string) (Item, error) {
	if err := ValidateName(name); err != nil {
		return Item{}, err
	}
	if strings.HasSuffix(name, ")") {
		return Item{}, ErrAmbiguousName
	}
	return Item{name: name}, nil
}

// NewTokenItem builds an item that resolves to a ledger asset.
func NewTokenItem(name string, ref TokenRef) (Item, error) {
	if err := ValidateName(name); err != nil {
		return Item{}, err
	}
	if _, err := domain.ParseTokenID(ref.Token.String()); err != nil {
		return Item{}, fmt.Errorf("item token: %w", err)
	}
	return Item{name: name, ref: ref, hasRef: true}, nil
}

// ValidateName applies the rules every display name must satisfy.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case len(name) > MaxNameLength:
		return ErrNameTooLong
	case strings.ContainsAny(name, ":;"):
		return ErrInvalidCharacter
	case name == EmptySlotLiteral:
		return ErrReservedName
	}
	return nil
}

func (i Item) Name() string {
	return i.name
}

// Ref returns the token reference and whether the item carries one.
func (i Item) Ref() (TokenRef, bool) {
	return i.ref, i.hasRef
}

// String renders the item as it appears on the wire.
func (i Item) String() string {
	if !i.hasRef {
		return i.name
	}
	return i.name + " (" + i.ref.String() + ")"
}
