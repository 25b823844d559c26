package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

const (
	penguinToken = domain.TokenID("PENGUIN-a1b2c3")
	hatToken     = domain.TokenID("HAT-a1a1a1")
	capToken     = domain.TokenID("CAP-c4c4c4")
	weaponToken  = domain.TokenID("WEAPON-b2b2b2")
	auraToken    = domain.TokenID("AURA-d5d5d5")
)

type fakeRegistry struct {
	byToken map[domain.TokenID]*models.Registration
	err     error
}

func (f *fakeRegistry) FindByToken(_ context.Context, token domain.TokenID) (*models.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	if reg, ok := f.byToken[token]; ok {
		return reg, nil
	}
	return nil, sentinel.ErrNotFound
}

func (f *fakeRegistry) FindBySlotAndName(_ context.Context, slot attributes.Slot, name string) (*models.Registration, error) {
	for _, reg := range f.byToken {
		if reg.Slot == slot && reg.Name == name {
			return reg, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

type EngineSuite struct {
	suite.Suite
	ctx      context.Context
	registry *fakeRegistry
	universe attributes.Universe
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = &fakeRegistry{byToken: map[domain.TokenID]*models.Registration{
		hatToken:    {Token: hatToken, Slot: attributes.NewSlot("hat"), Name: "Pirate Hat", Nonce: 1},
		capToken:    {Token: capToken, Slot: attributes.NewSlot("hat"), Name: "Cap", Nonce: 1},
		weaponToken: {Token: weaponToken, Slot: attributes.NewSlot("weapon"), Name: "Gun", Nonce: 1},
		auraToken:   {Token: auraToken, Slot: attributes.NewSlot("aura"), Name: "Glow", Nonce: 1},
	}}
	s.universe = attributes.NewFixedUniverse(attributes.PenguinSlots...)
}

func (s *EngineSuite) ref(token domain.TokenID, nonce uint64) attributes.TokenRef {
	return attributes.TokenRef{Token: token, Nonce: nonce}
}

func (s *EngineSuite) decode(raw string) *attributes.Set {
	set, err := attributes.NewCodec(s.universe).Decode([]byte(raw))
	s.Require().NoError(err)
	return set
}

func (s *EngineSuite) encode(set *attributes.Set) string {
	out, err := attributes.NewCodec(attributes.OpenUniverse).Encode(set)
	s.Require().NoError(err)
	return string(out)
}

// =============================================================================
// Unequip
// =============================================================================

func (s *EngineSuite) TestUnequip() {
	s.Run("clears slot and schedules return", func() {
		session := Load(penguinToken, s.decode("hat:Pirate Hat (HAT-a1a1a1-01)"), s.universe, s.registry)

		plan, err := session.Apply(s.ctx, []attributes.Slot{attributes.NewSlot("Hat")}, nil)
		s.Require().NoError(err)
		s.True(plan.Attributes.IsEmpty(attributes.NewSlot("hat")))
		s.Equal([]attributes.TokenRef{s.ref(hatToken, 1)}, plan.Returns())
		s.Empty(plan.Burns())
		s.Equal(StateFinalized, session.State())
	})

	s.Run("empty slot fails", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Unequip(s.ctx, attributes.NewSlot("hat"))
		s.ErrorIs(err, ErrEmptySlotUnequip)
		s.Equal(StateAborted, session.State())
	})

	s.Run("double unequip aborts the whole call without effects", func() {
		session := Load(penguinToken, s.decode("hat:Pirate Hat (HAT-a1a1a1-01)"), s.universe, s.registry)
		hat := attributes.NewSlot("hat")

		plan, err := session.Apply(s.ctx, []attributes.Slot{hat, hat}, nil)
		s.ErrorIs(err, ErrEmptySlotUnequip)
		s.Nil(plan.Attributes)
		s.Empty(plan.Effects)

		_, err = session.Finalize()
		s.ErrorIs(err, ErrSessionClosed)
	})

	s.Run("unknown slot fails", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Unequip(s.ctx, attributes.NewSlot("aura"))
		s.ErrorIs(err, ErrUnknownSlot)
	})

	s.Run("name-only item resolves through the registry", func() {
		set := attributes.NewSet()
		item, err := attributes.NewItem("Pirate Hat")
		s.Require().NoError(err)
		set.Put(attributes.NewSlot("hat"), item)
		session := Load(penguinToken, set, attributes.OpenUniverse, s.registry)

		plan, err := session.Apply(s.ctx, []attributes.Slot{attributes.NewSlot("hat")}, nil)
		s.Require().NoError(err)
		s.Equal([]attributes.TokenRef{s.ref(hatToken, 1)}, plan.Returns())
	})

	s.Run("name-only item without registration fails", func() {
		set := attributes.NewSet()
		item, err := attributes.NewItem("Mystery Hat")
		s.Require().NoError(err)
		set.Put(attributes.NewSlot("hat"), item)
		session := Load(penguinToken, set, attributes.OpenUniverse, s.registry)

		err = session.Unequip(s.ctx, attributes.NewSlot("hat"))
		s.ErrorIs(err, ErrItemWithoutIdentity)
	})
}

// =============================================================================
// Equip
// =============================================================================

func (s *EngineSuite) TestEquip() {
	s.Run("fills empty slot and schedules burn", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		plan, err := session.Apply(s.ctx, nil, []attributes.TokenRef{s.ref(hatToken, 3)})
		s.Require().NoError(err)
		item, ok := plan.Attributes.Get(attributes.NewSlot("hat"))
		s.Require().True(ok)
		s.Equal("Pirate Hat (HAT-a1a1a1-03)", item.String())
		s.Equal([]attributes.TokenRef{s.ref(hatToken, 3)}, plan.Burns())
		s.Empty(plan.Returns())
	})

	s.Run("displaces the current occupant", func() {
		session := Load(penguinToken, s.decode("hat:Pirate Hat (HAT-a1a1a1-01)"), s.universe, s.registry)

		plan, err := session.Apply(s.ctx, nil, []attributes.TokenRef{s.ref(capToken, 2)})
		s.Require().NoError(err)
		item, _ := plan.Attributes.Get(attributes.NewSlot("hat"))
		s.Equal("Cap (CAP-c4c4c4-02)", item.String())
		s.Equal([]Effect{
			{Kind: EffectReturn, Ref: s.ref(hatToken, 1)},
			{Kind: EffectBurn, Ref: s.ref(capToken, 2)},
		}, plan.Effects)
	})

	s.Run("same slot twice in one call keeps the last item", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		plan, err := session.Apply(s.ctx, nil, []attributes.TokenRef{s.ref(hatToken, 1), s.ref(capToken, 1)})
		s.Require().NoError(err)
		item, _ := plan.Attributes.Get(attributes.NewSlot("hat"))
		s.Equal("Cap", item.Name())
		s.Equal([]attributes.TokenRef{s.ref(hatToken, 1)}, plan.Returns())
		s.Equal([]attributes.TokenRef{s.ref(hatToken, 1), s.ref(capToken, 1)}, plan.Burns())
	})

	s.Run("unregistered item fails", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Equip(s.ctx, s.ref("SHOE-e6e6e6", 1))
		s.ErrorIs(err, ErrUnregisteredItem)
		s.Equal(StateAborted, session.State())
	})

	s.Run("equippable cannot be equipped", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Equip(s.ctx, s.ref(penguinToken, 7))
		s.ErrorIs(err, ErrSelfEquip)
	})

	s.Run("slot outside the universe fails", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Equip(s.ctx, s.ref(auraToken, 1))
		s.ErrorIs(err, ErrUnknownSlot)
	})

	s.Run("registry failure propagates", func() {
		s.registry.err = errors.New("connection reset")
		defer func() { s.registry.err = nil }()
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		err := session.Equip(s.ctx, s.ref(hatToken, 1))
		s.Error(err)
		s.NotErrorIs(err, ErrUnregisteredItem)
	})
}

// =============================================================================
// Customize composition
// =============================================================================

func (s *EngineSuite) TestApply() {
	s.Run("nothing requested", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)

		_, err := session.Apply(s.ctx, nil, nil)
		s.ErrorIs(err, ErrNoOperationRequested)
		s.Equal(StateAborted, session.State())
	})

	s.Run("unequips run before equips", func() {
		session := Load(penguinToken, s.decode("hat:Pirate Hat (HAT-a1a1a1-01);weapon:Gun (WEAPON-b2b2b2-01)"), s.universe, s.registry)

		plan, err := session.Apply(s.ctx,
			[]attributes.Slot{attributes.NewSlot("weapon")},
			[]attributes.TokenRef{s.ref(capToken, 5)},
		)
		s.Require().NoError(err)
		s.Equal([]Effect{
			{Kind: EffectReturn, Ref: s.ref(weaponToken, 1)},
			{Kind: EffectReturn, Ref: s.ref(hatToken, 1)},
			{Kind: EffectBurn, Ref: s.ref(capToken, 5)},
		}, plan.Effects)
		s.Equal("background:unequipped;beak:unequipped;clothes:unequipped;eyes:unequipped;"+
			"hat:Cap (CAP-c4c4c4-05);skin:unequipped;weapon:unequipped", s.encode(plan.Attributes))
	})

	s.Run("loaded set is not modified", func() {
		original := s.decode("hat:Pirate Hat (HAT-a1a1a1-01)")
		session := Load(penguinToken, original, s.universe, s.registry)

		_, err := session.Apply(s.ctx, []attributes.Slot{attributes.NewSlot("hat")}, nil)
		s.Require().NoError(err)
		s.False(original.IsEmpty(attributes.NewSlot("hat")))
	})

	s.Run("calls after finalize are rejected", func() {
		session := Load(penguinToken, s.decode(""), s.universe, s.registry)
		_, err := session.Finalize()
		s.Require().NoError(err)

		s.ErrorIs(session.Equip(s.ctx, s.ref(hatToken, 1)), ErrSessionClosed)
	})
}
