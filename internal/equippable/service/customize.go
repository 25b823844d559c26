package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/engine"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	pstrings "github.com/Estar-Games/sc-customize-nft/pkg/platform/strings"
)

// Customize unequips unequipSlots, then equips the paid items, and replaces
// the paid equippable with a newly minted one carrying the resulting
// attributes. payments[0] is the equippable; the rest are items to equip.
//
// Either every effect happens or none: validation, role and custody checks
// all run before the first ledger write, and the whole call runs in one
// transaction.
func (s *Service) Customize(ctx context.Context, caller domain.Principal, payments []models.Payment, unequipSlots []string) (*models.CustomizeResult, error) {
	ctx, span := tracer.Start(ctx, "equippable.Customize", trace.WithAttributes(
		attribute.String("caller", caller.String()),
		attribute.Int("payments", len(payments)),
		attribute.Int("unequip_slots", len(unequipSlots)),
	))
	defer span.End()
	start := time.Now()

	result, err := s.customize(ctx, caller, payments, unequipSlots)
	s.recordCustomization(start, result, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int64("minted_nonce", int64(result.Nonce)))
	return result, nil
}

func (s *Service) customize(ctx context.Context, caller domain.Principal, payments []models.Payment, unequipSlots []string) (*models.CustomizeResult, error) {
	if err := s.requireRoles(ctx, s.cfg.Equippable, ports.RoleCreate, ports.RoleBurn); err != nil {
		return nil, err
	}
	equippable, items, err := s.splitPayments(payments)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && len(unequipSlots) == 0 {
		return nil, dErrors.Wrap(engine.ErrNoOperationRequested, dErrors.CodeValidation, "nothing to customize")
	}

	slots := make([]attributes.Slot, len(unequipSlots))
	for i, raw := range unequipSlots {
		slots[i] = attributes.NewSlot(raw)
	}
	equips := make([]attributes.TokenRef, len(items))
	for i, item := range items {
		equips[i] = item.Ref()
	}

	var result *models.CustomizeResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.Receive(ctx, caller, payments); err != nil {
			if errors.Is(err, sentinel.ErrInsufficientBalance) {
				return dErrors.Wrap(err, dErrors.CodeValidation, "caller does not hold the paid tokens")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to receive payments")
		}

		data, err := s.ledger.TokenData(ctx, equippable.Token, equippable.Nonce)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "equippable nonce not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read equippable")
		}

		codec, err := s.Codec(ctx)
		if err != nil {
			return err
		}
		set, err := codec.Decode(data.Attributes)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeCorruptState, "stored attributes are invalid")
		}

		session := engine.Load(s.cfg.Equippable, set, codec.Universe(), s.registry)
		plan, err := session.Apply(ctx, slots, equips)
		if err != nil {
			return translateEngineError(err)
		}
		encoded, err := codec.Encode(plan.Attributes)
		if err != nil {
			return translateEngineError(err)
		}

		if err := s.checkPlan(ctx, plan); err != nil {
			return err
		}
		if err := s.executeEffects(ctx, caller, plan); err != nil {
			return err
		}

		nonce, err := s.replaceEquippable(ctx, caller, data, encoded)
		if err != nil {
			return err
		}

		result = &models.CustomizeResult{
			Token:      s.cfg.Equippable,
			Nonce:      nonce,
			Attributes: string(encoded),
			Returned:   plan.Returns(),
			Absorbed:   plan.Burns(),
		}
		s.logAudit(ctx, string(audit.EventEquippableCustomized),
			"caller", caller,
			"subject", attributes.TokenRef{Token: s.cfg.Equippable, Nonce: nonce},
			"detail", string(encoded),
			"previous_nonce", equippable.Nonce,
		)
		for _, ref := range result.Returned {
			s.logAudit(ctx, string(audit.EventItemReturned), "caller", caller, "subject", ref)
		}
		for _, ref := range result.Absorbed {
			s.logAudit(ctx, string(audit.EventItemAbsorbed), "caller", caller, "subject", ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// splitPayments validates the payment layout: the equippable first with
// amount one, then items with amount one each.
func (s *Service) splitPayments(payments []models.Payment) (models.Payment, []models.Payment, error) {
	if len(payments) == 0 {
		return models.Payment{}, nil, dErrors.Wrap(ErrNoPayment, dErrors.CodeValidation, "the equippable must be sent")
	}
	first := payments[0]
	if first.Token != s.cfg.Equippable {
		return models.Payment{}, nil, dErrors.Wrap(ErrFirstPaymentNotEquippable, dErrors.CodeValidation,
			fmt.Sprintf("first payment must be %s", s.cfg.Equippable))
	}
	if first.Amount != 1 {
		return models.Payment{}, nil, dErrors.Wrap(ErrEquippableQuantity, dErrors.CodeValidation, "equippable amount must be 1")
	}

	items := payments[1:]
	for _, item := range items {
		if item.Token == s.cfg.Equippable {
			return models.Payment{}, nil, dErrors.Wrap(ErrMoreThanOneEquippable, dErrors.CodeValidation, "only one equippable can be sent")
		}
		if item.Amount != 1 {
			return models.Payment{}, nil, dErrors.Wrap(ErrItemQuantity, dErrors.CodeValidation,
				fmt.Sprintf("amount of %s must be 1", item.Ref()))
		}
	}
	return first, items, nil
}

// checkPlan verifies roles and custody for every effect before any of them run.
func (s *Service) checkPlan(ctx context.Context, plan engine.Plan) error {
	tokens := make([]domain.TokenID, 0, len(plan.Effects))
	for _, e := range plan.Effects {
		tokens = append(tokens, e.Ref.Token)
	}
	for _, token := range pstrings.Dedupe(tokens) {
		if err := s.requireRoles(ctx, token, ports.RoleAddQuantity, ports.RoleBurn); err != nil {
			return err
		}
	}

	for _, ref := range pstrings.Dedupe(plan.Returns()) {
		balance, err := s.ledger.BalanceOf(ctx, s.cfg.Custody, ref.Token, ref.Nonce)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read custody balance")
		}
		if balance < 1 {
			return dErrors.Wrap(ErrInsufficientCustody, dErrors.CodeConflict,
				fmt.Sprintf("custody holds no %s", ref))
		}
	}
	return nil
}

func (s *Service) executeEffects(ctx context.Context, caller domain.Principal, plan engine.Plan) error {
	for _, e := range plan.Effects {
		switch e.Kind {
		case engine.EffectBurn:
			if err := s.ledger.Burn(ctx, e.Ref.Token, e.Ref.Nonce, 1); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to burn %s", e.Ref))
			}
		case engine.EffectReturn:
			_, err := s.ledger.Mint(ctx, ports.MintRequest{Token: e.Ref.Token, Nonce: e.Ref.Nonce, Quantity: 1})
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to mint %s", e.Ref))
			}
			if err := s.ledger.Transfer(ctx, caller, e.Ref.Token, e.Ref.Nonce, 1); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to return %s", e.Ref))
			}
		}
	}
	return nil
}

// replaceEquippable mints the customized equippable, burns the paid one and
// sends the new nonce to caller.
func (s *Service) replaceEquippable(ctx context.Context, caller domain.Principal, old *ports.TokenData, encoded []byte) (uint64, error) {
	uris, err := s.resolveURIs(ctx, string(encoded), old.Name)
	if err != nil {
		return 0, err
	}

	nonce, err := s.ledger.Mint(ctx, ports.MintRequest{
		Token:      s.cfg.Equippable,
		Quantity:   1,
		Name:       old.Name,
		Attributes: encoded,
		URIs:       uris,
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint the customized equippable")
	}
	if err := s.ledger.Burn(ctx, s.cfg.Equippable, old.Nonce, 1); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to burn the previous equippable")
	}
	if err := s.ledger.Transfer(ctx, caller, s.cfg.Equippable, nonce, 1); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send the customized equippable")
	}
	return nonce, nil
}

// resolveURIs returns the rendered image URI for the new attributes. A
// missing render is not fatal: the token is minted without URIs.
func (s *Service) resolveURIs(ctx context.Context, encoded string, name string) ([]string, error) {
	if s.uris == nil {
		return nil, nil
	}
	uri, err := s.uris.URIOf(ctx, encoded, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "no rendered image for attributes",
			"attributes", encoded,
			"name", name,
		)
		s.logAudit(ctx, string(audit.EventRenderURIMissing), "subject", name, "detail", encoded)
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve image uri")
	}
	return []string{uri}, nil
}

func (s *Service) recordCustomization(start time.Time, result *models.CustomizeResult, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveCustomize(start)
	if err != nil {
		s.metrics.RecordCustomization(string(dErrors.CodeOf(err)), 0, 0)
		return
	}
	s.metrics.RecordCustomization("ok", len(result.Returned), len(result.Absorbed))
}
