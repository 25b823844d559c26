package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

// Fill deposits one unit of a registered item into custody so it can later
// be returned to a caller who unequips it. After the deposit custody must
// hold exactly one unit of that nonce.
func (s *Service) Fill(ctx context.Context, caller domain.Principal, payment models.Payment) error {
	ctx, span := tracer.Start(ctx, "equippable.Fill")
	defer span.End()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if payment.Amount == 0 {
		return dErrors.Wrap(ErrFillAmount, dErrors.CodeValidation, "fill amount must be positive")
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.registry.FindByToken(ctx, payment.Token); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(ErrCannotFillUnregisteredItem, dErrors.CodeValidation,
					fmt.Sprintf("%s is not a registered item", payment.Token))
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
		}

		if err := s.ledger.Receive(ctx, caller, []models.Payment{payment}); err != nil {
			if errors.Is(err, sentinel.ErrInsufficientBalance) {
				return dErrors.Wrap(err, dErrors.CodeValidation, "caller does not hold the paid tokens")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to receive payment")
		}

		balance, err := s.ledger.BalanceOf(ctx, s.cfg.Custody, payment.Token, payment.Nonce)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read custody balance")
		}
		if balance != 1 {
			return dErrors.Wrap(ErrFillBalance, dErrors.CodeConflict,
				fmt.Sprintf("custody would hold %d of %s", balance, payment.Ref()))
		}

		s.logAudit(ctx, string(audit.EventItemFilled),
			"caller", caller,
			"subject", payment.Ref(),
		)
		if s.metrics != nil {
			s.metrics.ItemsFilled.Inc()
		}
		return nil
	})
}
