package service

import (
	"context"
	"errors"
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

// RegisterItems binds item collections to slots. The batch is atomic: the
// first rejected entry discards every registration of the call.
func (s *Service) RegisterItems(ctx context.Context, caller domain.Principal, items []models.RegisterItem) ([]*models.Registration, error) {
	ctx, span := tracer.Start(ctx, "equippable.RegisterItems")
	defer span.End()
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRegister(start)
		}
	}()

	if err := s.requireOwner(caller); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no item to register")
	}

	var saved []*models.Registration
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		saved = make([]*models.Registration, 0, len(items))
		for _, item := range items {
			reg, err := s.registerItem(ctx, item)
			if err != nil {
				return err
			}
			saved = append(saved, reg)
		}
		// Audited only once the whole batch is accepted.
		for _, reg := range saved {
			s.logAudit(ctx, string(audit.EventItemRegistered),
				"caller", caller,
				"subject", reg.Token,
				"detail", reg.Slot.String()+":"+reg.Name,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ItemsRegistered.Add(float64(len(saved)))
	}
	return saved, nil
}

func (s *Service) registerItem(ctx context.Context, item models.RegisterItem) (*models.Registration, error) {
	if item.Token == s.cfg.Equippable {
		return nil, dErrors.Wrap(ErrCannotRegisterEquippable, dErrors.CodeValidation, "cannot register the equippable")
	}
	reg, err := models.NewRegistration(item.Token, attributes.NewSlot(item.Slot), item.Name, item.Nonce, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid registration")
		}
		return nil, err
	}
	if err := s.requireRoles(ctx, reg.Token, ports.RoleAddQuantity, ports.RoleBurn); err != nil {
		return nil, err
	}

	existing, err := s.registry.FindByToken(ctx, reg.Token)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	case existing.Slot != reg.Slot:
		return nil, dErrors.Wrap(ErrDuplicateRegistration, dErrors.CodeConflict,
			"item "+reg.Token.String()+" is already registered to slot "+existing.Slot.String())
	default:
		reg.RegisteredAt = existing.RegisteredAt
	}

	if err := s.registry.Save(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(ErrSlotNameTaken, dErrors.CodeConflict, "slot and name already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	return reg, nil
}

// LookupItem returns the registration of token.
func (s *Service) LookupItem(ctx context.Context, token domain.TokenID) (*models.Registration, error) {
	reg, err := s.registry.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

// ListItems returns every registration ordered by slot then name.
func (s *Service) ListItems(ctx context.Context) ([]*models.Registration, error) {
	regs, err := s.registry.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}
