package handler

import (
	"fmt"
	"strings"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

const (
	maxRegisterItems = 100
	maxPayments      = 32
	maxUnequipSlots  = 32
)

// PaymentRequest is one token transfer attached to a call.
type PaymentRequest struct {
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce"`
	Amount uint64 `json:"amount"`
}

func (p PaymentRequest) parse(field string) (models.Payment, error) {
	token, err := domain.ParseTokenID(strings.TrimSpace(p.Token))
	if err != nil {
		return models.Payment{}, dErrors.Wrap(err, dErrors.CodeValidation, field+".token is invalid")
	}
	if p.Nonce == 0 {
		return models.Payment{}, dErrors.New(dErrors.CodeValidation, field+".nonce is required")
	}
	return models.Payment{Token: token, Nonce: p.Nonce, Amount: p.Amount}, nil
}

// RegisterItemsRequest is the HTTP request body for POST /items.
type RegisterItemsRequest struct {
	Items []RegisterItemRequest `json:"items"`

	parsed []models.RegisterItem
}

type RegisterItemRequest struct {
	Token string `json:"token"`
	Slot  string `json:"slot"`
	Name  string `json:"name"`
	Nonce uint64 `json:"nonce,omitempty"`
}

// Validate implements httputil.Validatable. Slot and name rules are enforced
// by the service so they stay identical for every entry point.
func (r *RegisterItemsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items is required")
	}
	if len(r.Items) > maxRegisterItems {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d items per request", maxRegisterItems))
	}

	r.parsed = make([]models.RegisterItem, len(r.Items))
	for i, item := range r.Items {
		token, err := domain.ParseTokenID(strings.TrimSpace(item.Token))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("items[%d].token is invalid", i))
		}
		r.parsed[i] = models.RegisterItem{
			Token: token,
			Slot:  strings.TrimSpace(item.Slot),
			Name:  item.Name,
			Nonce: item.Nonce,
		}
	}
	return nil
}

// ParsedItems returns the validated items.
func (r *RegisterItemsRequest) ParsedItems() []models.RegisterItem {
	return r.parsed
}

// CustomizeRequest is the HTTP request body for POST /customize. The first
// payment is the equippable; the others are the items to equip.
type CustomizeRequest struct {
	Payments []PaymentRequest `json:"payments"`
	Unequip  []string         `json:"unequip"`

	parsed []models.Payment
}

func (r *CustomizeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Payments) > maxPayments {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d payments per request", maxPayments))
	}
	if len(r.Unequip) > maxUnequipSlots {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d slots to unequip", maxUnequipSlots))
	}

	r.parsed = make([]models.Payment, len(r.Payments))
	for i, p := range r.Payments {
		payment, err := p.parse(fmt.Sprintf("payments[%d]", i))
		if err != nil {
			return err
		}
		r.parsed[i] = payment
	}
	for i, slot := range r.Unequip {
		r.Unequip[i] = strings.TrimSpace(slot)
	}
	return nil
}

// ParsedPayments returns the validated payments in request order.
func (r *CustomizeRequest) ParsedPayments() []models.Payment {
	return r.parsed
}

// FillRequest is the HTTP request body for POST /fill.
type FillRequest struct {
	Payment PaymentRequest `json:"payment"`

	parsed models.Payment
}

func (r *FillRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	payment, err := r.Payment.parse("payment")
	if err != nil {
		return err
	}
	r.parsed = payment
	return nil
}

func (r *FillRequest) ParsedPayment() models.Payment {
	return r.parsed
}
