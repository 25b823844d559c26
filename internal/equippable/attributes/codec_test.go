package attributes

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
)

type CodecSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) item(name string) Item {
	item, err := NewItem(name)
	s.Require().NoError(err)
	return item
}

func (s *CodecSuite) tokenItem(name, token string, nonce uint64) Item {
	item, err := NewTokenItem(name, TokenRef{Token: domain.TokenID(token), Nonce: nonce})
	s.Require().NoError(err)
	return item
}

// =============================================================================
// Encoding
// =============================================================================

func (s *CodecSuite) TestEncodeCanonicalOrder() {
	s.Run("sorts slots regardless of insertion order", func() {
		set := NewSet()
		set.Put(NewSlot("weapon"), s.item("Gun"))
		set.Put(NewSlot("hat"), s.item("Pirate Hat"))

		out, err := Encode(set)
		s.Require().NoError(err)
		s.Equal("hat:Pirate Hat;weapon:Gun", string(out))
	})

	s.Run("byte identical for any insertion order", func() {
		a := NewSet()
		a.Put(NewSlot("hat"), s.tokenItem("Pirate Hat", "HAT-a1a1a1", 1))
		a.Put(NewSlot("Background"), s.tokenItem("Sky", "BG-c3c3c3", 10))
		a.Clear(NewSlot("weapon"))

		b := NewSet()
		b.Clear(NewSlot("WEAPON"))
		b.Put(NewSlot("background"), s.tokenItem("Sky", "BG-c3c3c3", 10))
		b.Put(NewSlot("HAT"), s.tokenItem("Pirate Hat", "HAT-a1a1a1", 1))

		outA, err := Encode(a)
		s.Require().NoError(err)
		outB, err := Encode(b)
		s.Require().NoError(err)
		s.Equal(string(outA), string(outB))
		s.Equal("background:Sky (BG-c3c3c3-0a);hat:Pirate Hat (HAT-a1a1a1-01);weapon:unequipped", string(outA))
	})

	s.Run("empty set encodes to empty string", func() {
		out, err := Encode(NewSet())
		s.Require().NoError(err)
		s.Empty(out)
	})
}

func (s *CodecSuite) TestEncodeHexNonce() {
	set := NewSet()
	set.Put(NewSlot("hat"), s.tokenItem("Pirate Hat", "HAT-a1a1a1", 6000))

	out, err := Encode(set)
	s.Require().NoError(err)
	s.Equal("hat:Pirate Hat (HAT-a1a1a1-1770)", string(out))
}

func (s *CodecSuite) TestEncodeFixedUniverse() {
	codec := NewCodec(NewFixedUniverse(PenguinSlots...), WithSlotStyle(SlotStyleCapitalized))

	s.Run("every slot is emitted", func() {
		set := NewSet()
		set.Put(NewSlot("hat"), s.tokenItem("Pirate Hat", "HAT-a1a1a1", 1))

		out, err := codec.Encode(set)
		s.Require().NoError(err)
		s.Equal("Background:unequipped;Beak:unequipped;Clothes:unequipped;Eyes:unequipped;"+
			"Hat:Pirate Hat (HAT-a1a1a1-01);Skin:unequipped;Weapon:unequipped", string(out))
	})

	s.Run("slot outside the universe is rejected", func() {
		set := NewSet()
		set.Put(NewSlot("aura"), s.item("Glow"))

		_, err := codec.Encode(set)
		s.ErrorIs(err, ErrUnknownSlot)
	})
}

func (s *CodecSuite) TestEncodeSizeBound() {
	s.Run("exceeding the bound fails instead of truncating", func() {
		set := NewSet()
		for _, slot := range []string{"a", "b", "c", "d", "e"} {
			set.Put(NewSlot(slot), s.item(strings.Repeat("x", 100)))
		}
		out, err := Encode(set)
		s.ErrorIs(err, ErrBufferTooLarge)
		s.Nil(out)
	})

	s.Run("exactly at the bound succeeds", func() {
		set := NewSet()
		set.Put(NewSlot("a"), s.item(strings.Repeat("x", 100)))
		codec := NewCodec(OpenUniverse, WithMaxSize(102))

		out, err := codec.Encode(set)
		s.Require().NoError(err)
		s.Len(out, 102)
	})

	s.Run("zero item is rejected", func() {
		set := NewSet()
		set.Put(NewSlot("hat"), Item{})
		_, err := Encode(set)
		s.ErrorIs(err, ErrEmptyName)
	})
}

// =============================================================================
// Decoding
// =============================================================================

func (s *CodecSuite) TestDecode() {
	s.Run("empty input yields empty set", func() {
		set, err := Decode(nil)
		s.Require().NoError(err)
		s.Zero(set.Len())
	})

	s.Run("empty input fills mandatory slots", func() {
		codec := NewCodec(NewFixedUniverse(PenguinSlots...))
		set, err := codec.Decode([]byte(""))
		s.Require().NoError(err)
		s.Equal(len(PenguinSlots), set.Len())
		s.True(set.IsEmpty(NewSlot("hat")))
	})

	s.Run("unequipped literal is an empty slot", func() {
		set, err := Decode([]byte("Hat:unequipped"))
		s.Require().NoError(err)
		s.True(set.Has(NewSlot("hat")))
		s.True(set.IsEmpty(NewSlot("hat")))
	})

	s.Run("accepts any order and case", func() {
		set, err := Decode([]byte("Weapon:Gun (WEAPON-b2b2b2-0a);hat:Pirate Hat (HAT-a1a1a1-01)"))
		s.Require().NoError(err)

		hat, ok := set.Get(NewSlot("hat"))
		s.Require().True(ok)
		s.Equal("Pirate Hat", hat.Name())
		ref, ok := hat.Ref()
		s.Require().True(ok)
		s.Equal(domain.TokenID("HAT-a1a1a1"), ref.Token)
		s.Equal(uint64(1), ref.Nonce)

		weapon, _ := set.Get(NewSlot("WEAPON"))
		ref, _ = weapon.Ref()
		s.Equal(uint64(10), ref.Nonce)
	})

	s.Run("splits on the last space-paren and the last dash", func() {
		set, err := Decode([]byte("hat:Hat (of doom) (MY-HAT-a1a1a1-1770)"))
		s.Require().NoError(err)

		hat, _ := set.Get(NewSlot("hat"))
		s.Equal("Hat (of doom)", hat.Name())
		ref, _ := hat.Ref()
		s.Equal(domain.TokenID("MY-HAT-a1a1a1"), ref.Token)
		s.Equal(uint64(6000), ref.Nonce)
	})

	s.Run("name-only items decode", func() {
		set, err := Decode([]byte("hat:Pirate Hat;weapon:Gun"))
		s.Require().NoError(err)
		hat, _ := set.Get(NewSlot("hat"))
		_, hasRef := hat.Ref()
		s.False(hasRef)
		s.Equal("Pirate Hat", hat.Name())
	})
}

func (s *CodecSuite) TestDecodeRejects() {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate slot", "hat:A;weapon:B;HAT:C", ErrDuplicateSlot},
		{"missing colon", "hat", ErrMalformedEntry},
		{"empty entry", "hat:A;;weapon:B", ErrMalformedEntry},
		{"trailing separator", "hat:A;", ErrMalformedEntry},
		{"empty slot", ":A", ErrMalformedEntry},
		{"empty value", "hat:", ErrMalformedEntry},
		{"closing paren without opener", "hat:A)", ErrMalformedEntry},
		{"missing nonce dash", "hat:A (HAT)", ErrMalformedEntry},
		{"empty nonce", "hat:A (HAT-)", ErrMalformedEntry},
		{"empty token", "hat:A (-01)", ErrMalformedEntry},
		{"upper-case hex", "hat:A (HAT-0A)", ErrMalformedEntry},
		{"non hex nonce", "hat:A (HAT-zz)", ErrMalformedEntry},
		{"prefixed nonce", "hat:A (HAT-0x1)", ErrMalformedEntry},
		{"nonce overflow", "hat:A (HAT-11111111111111111)", ErrMalformedEntry},
		{"reserved name with identity", "hat:unequipped (HAT-01)", ErrMalformedEntry},
		{"separator inside value", "hat:A:B", ErrMalformedEntry},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := Decode([]byte(tt.input))
			s.Require().ErrorIs(err, tt.want)

			var entryErr *EntryError
			s.True(errors.As(err, &entryErr))
			s.True(IsCodecError(err))
		})
	}

	s.Run("unknown slot in closed universe", func() {
		codec := NewCodec(NewFixedUniverse(PenguinSlots...))
		_, err := codec.Decode([]byte("aura:Glow"))
		s.ErrorIs(err, ErrUnknownSlot)
	})

	s.Run("unknown slot in registered universe", func() {
		codec := NewCodec(NewRegisteredUniverse(NewSlot("hat")))
		_, err := codec.Decode([]byte("hat:A;weapon:B"))
		s.ErrorIs(err, ErrUnknownSlot)
	})
}

// =============================================================================
// Round trip and equality
// =============================================================================

func (s *CodecSuite) TestRoundTrip() {
	codecs := map[string]*Codec{
		"open":       NewCodec(OpenUniverse),
		"penguin":    NewCodec(NewFixedUniverse(PenguinSlots...), WithSlotStyle(SlotStyleCapitalized)),
		"registered": NewCodec(NewRegisteredUniverse(NewSlot("hat"), NewSlot("weapon"), NewSlot("skin"))),
	}
	for name, codec := range codecs {
		s.Run(name, func() {
			set := NewSet()
			set.Put(NewSlot("weapon"), s.tokenItem("Gun", "WEAPON-b2b2b2", 6000))
			set.Put(NewSlot("Hat"), s.tokenItem("Pirate Hat", "HAT-a1a1a1", 1))
			set.Clear(NewSlot("skin"))

			out, err := codec.Encode(set)
			s.Require().NoError(err)
			decoded, err := codec.Decode(out)
			s.Require().NoError(err)
			s.True(set.Equal(decoded), "decoded %q", out)

			again, err := codec.Encode(decoded)
			s.Require().NoError(err)
			s.Equal(string(out), string(again))
		})
	}
}

func (s *CodecSuite) TestEqual() {
	a := NewSet()
	a.Put(NewSlot("hat"), s.item("Pirate Hat"))
	a.Clear(NewSlot("weapon"))

	b := NewSet()
	b.Put(NewSlot("HAT"), s.item("Pirate Hat"))

	s.True(a.Equal(b), "absent slot equals empty slot")
	s.True(b.Equal(a))

	b.Put(NewSlot("weapon"), s.item("Gun"))
	s.False(a.Equal(b))

	clone := b.Clone()
	clone.Clear(NewSlot("weapon"))
	s.False(clone.Equal(b))
	s.True(clone.Equal(a))
}
