package registry

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

type slotName struct {
	slot attributes.Slot
	name string
}

// InMemory is a registry store guarded by a RWMutex. It implements
// tx.Snapshotter so a MemoryTransactor can roll back failed batches.
type InMemory struct {
	mu      sync.RWMutex
	byToken map[domain.TokenID]models.Registration
	byName  map[slotName]domain.TokenID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byToken: make(map[domain.TokenID]models.Registration),
		byName:  make(map[slotName]domain.TokenID),
	}
}

// Save upserts reg by token. Another token holding the same slot and name
// fails with sentinel.ErrConflict.
func (s *InMemory) Save(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotName{slot: reg.Slot, name: reg.Name}
	if owner, ok := s.byName[key]; ok && owner != reg.Token {
		return sentinel.ErrConflict
	}
	if previous, ok := s.byToken[reg.Token]; ok {
		delete(s.byName, slotName{slot: previous.Slot, name: previous.Name})
	}
	s.byToken[reg.Token] = *reg
	s.byName[key] = reg.Token
	return nil
}

func (s *InMemory) FindByToken(_ context.Context, token domain.TokenID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &reg, nil
}

func (s *InMemory) FindBySlotAndName(_ context.Context, slot attributes.Slot, name string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.byName[slotName{slot: slot, name: name}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	reg := s.byToken[token]
	return &reg, nil
}

// List returns registrations ordered by slot then name.
func (s *InMemory) List(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Registration, 0, len(s.byToken))
	for _, reg := range s.byToken {
		out = append(out, &reg)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Slot.Compare(out[j].Slot); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ListSlots returns the distinct registered slots in canonical order.
func (s *InMemory) ListSlots(_ context.Context) ([]attributes.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[attributes.Slot]struct{})
	var out []attributes.Slot
	for _, reg := range s.byToken {
		if _, ok := seen[reg.Slot]; ok {
			continue
		}
		seen[reg.Slot] = struct{}{}
		out = append(out, reg.Slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out, nil
}

func (s *InMemory) Snapshot() func() {
	s.mu.RLock()
	byToken := maps.Clone(s.byToken)
	byName := maps.Clone(s.byName)
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.byToken = byToken
		s.byName = byName
	}
}
