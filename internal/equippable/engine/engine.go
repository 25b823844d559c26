// Package engine applies equip and unequip operations to one equippable's
// attributes and produces the ledger effects to execute afterwards.
//
// A Session moves Loaded -> Mutating -> Finalized. The first failed operation
// moves it to Aborted and every later call fails with ErrSessionClosed. The
// engine never touches the ledger: callers execute the returned Plan only
// after Finalize succeeds, so an aborted session has no effect at all.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

type State int

const (
	StateLoaded State = iota
	StateMutating
	StateFinalized
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMutating:
		return "mutating"
	case StateFinalized:
		return "finalized"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Registry resolves items. Both lookups return sentinel.ErrNotFound when absent.
type Registry interface {
	FindByToken(ctx context.Context, token domain.TokenID) (*models.Registration, error)
	FindBySlotAndName(ctx context.Context, slot attributes.Slot, name string) (*models.Registration, error)
}

type EffectKind int

const (
	// EffectReturn mints one unit of the item and sends it to the caller.
	EffectReturn EffectKind = iota + 1
	// EffectBurn destroys the unit absorbed into the equippable.
	EffectBurn
)

// Effect is one deferred ledger operation, kept in operation order.
type Effect struct {
	Kind EffectKind
	Ref  attributes.TokenRef
}

// Plan is the outcome of a finalized session.
type Plan struct {
	Attributes *attributes.Set
	Effects    []Effect
}

func (p Plan) Returns() []attributes.TokenRef {
	return p.refs(EffectReturn)
}

func (p Plan) Burns() []attributes.TokenRef {
	return p.refs(EffectBurn)
}

func (p Plan) refs(kind EffectKind) []attributes.TokenRef {
	var out []attributes.TokenRef
	for _, e := range p.Effects {
		if e.Kind == kind {
			out = append(out, e.Ref)
		}
	}
	return out
}

// Session holds a private copy of one equippable's attributes.
type Session struct {
	base     domain.TokenID
	set      *attributes.Set
	universe attributes.Universe
	registry Registry
	state    State
	effects  []Effect
}

// Load starts a session. set is copied; the caller's value is never modified.
func Load(base domain.TokenID, set *attributes.Set, universe attributes.Universe, registry Registry) *Session {
	if set == nil {
		set = attributes.NewSet()
	}
	return &Session{
		base:     base,
		set:      set.Clone(),
		universe: universe,
		registry: registry,
		state:    StateLoaded,
	}
}

func (s *Session) State() State {
	return s.state
}

// Unequip clears slot and schedules the held item for return.
func (s *Session) Unequip(ctx context.Context, slot attributes.Slot) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.abortOn(s.unequip(ctx, slot))
}

// Equip places the item identified by ref into its registered slot,
// displacing the current occupant, and schedules ref for burning.
func (s *Session) Equip(ctx context.Context, ref attributes.TokenRef) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.abortOn(s.equip(ctx, ref))
}

// Apply runs every unequip in order, then every equip in order, then finalizes.
func (s *Session) Apply(ctx context.Context, unequips []attributes.Slot, equips []attributes.TokenRef) (Plan, error) {
	if len(unequips) == 0 && len(equips) == 0 {
		s.state = StateAborted
		return Plan{}, ErrNoOperationRequested
	}
	for _, slot := range unequips {
		if err := s.Unequip(ctx, slot); err != nil {
			return Plan{}, err
		}
	}
	for _, ref := range equips {
		if err := s.Equip(ctx, ref); err != nil {
			return Plan{}, err
		}
	}
	return s.Finalize()
}

// Finalize closes the session and hands out the resulting attributes and effects.
func (s *Session) Finalize() (Plan, error) {
	if err := s.begin(); err != nil {
		return Plan{}, err
	}
	s.state = StateFinalized
	return Plan{Attributes: s.set, Effects: s.effects}, nil
}

func (s *Session) begin() error {
	if s.state == StateFinalized || s.state == StateAborted {
		return ErrSessionClosed
	}
	s.state = StateMutating
	return nil
}

func (s *Session) abortOn(err error) error {
	if err != nil {
		s.state = StateAborted
	}
	return err
}

func (s *Session) unequip(ctx context.Context, slot attributes.Slot) error {
	if !s.universe.Contains(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	item, filled := s.set.Get(slot)
	if !filled {
		return fmt.Errorf("%w: %q", ErrEmptySlotUnequip, slot)
	}

	ref, err := s.identity(ctx, slot, item)
	if err != nil {
		return err
	}
	s.set.Clear(slot)
	s.effects = append(s.effects, Effect{Kind: EffectReturn, Ref: ref})
	return nil
}

func (s *Session) identity(ctx context.Context, slot attributes.Slot, item attributes.Item) (attributes.TokenRef, error) {
	if ref, ok := item.Ref(); ok {
		return ref, nil
	}
	reg, err := s.registry.FindBySlotAndName(ctx, slot, item.Name())
	if errors.Is(err, sentinel.ErrNotFound) {
		return attributes.TokenRef{}, fmt.Errorf("%w: %s in %q", ErrItemWithoutIdentity, item.Name(), slot)
	}
	if err != nil {
		return attributes.TokenRef{}, fmt.Errorf("resolve item %s: %w", item.Name(), err)
	}
	return reg.Ref(), nil
}

func (s *Session) equip(ctx context.Context, ref attributes.TokenRef) error {
	if ref.Token == s.base {
		return ErrSelfEquip
	}
	reg, err := s.registry.FindByToken(ctx, ref.Token)
	if errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnregisteredItem, ref.Token)
	}
	if err != nil {
		return fmt.Errorf("lookup item %s: %w", ref.Token, err)
	}
	if !s.universe.Contains(reg.Slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, reg.Slot)
	}

	item, err := attributes.NewTokenItem(reg.Name, ref)
	if err != nil {
		return err
	}
	if !s.set.IsEmpty(reg.Slot) {
		if err := s.unequip(ctx, reg.Slot); err != nil {
			return err
		}
	}
	s.set.Put(reg.Slot, item)
	s.effects = append(s.effects, Effect{Kind: EffectBurn, Ref: ref})
	return nil
}
