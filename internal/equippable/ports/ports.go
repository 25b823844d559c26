// Package ports declares the collaborators the equippable service drives.
// Ledger, role and token-data adapters live in store/ledger; the render
// service satisfies URIResolver.
package ports

import (
	"context"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
)

// Role is a ledger permission granted to the service on a token collection.
type Role string

const (
	RoleCreate      Role = "create"
	RoleBurn        Role = "burn"
	RoleAddQuantity Role = "add_quantity"
)

// MintRequest creates units in custody. Nonce 0 creates a new nonce carrying
// Name, Attributes and URIs; a non-zero Nonce adds Quantity to that nonce.
type MintRequest struct {
	Token      domain.TokenID
	Nonce      uint64
	Quantity   uint64
	Name       string
	Attributes []byte
	URIs       []string
}

// TokenData is the ledger record of one nonce.
type TokenData struct {
	Token      domain.TokenID
	Nonce      uint64
	Name       string
	Attributes []byte
	URIs       []string
}

// AssetLedger moves units held in the service's custody. Burn and Transfer
// fail with sentinel.ErrInsufficientBalance when custody holds too few units.
type AssetLedger interface {
	Mint(ctx context.Context, req MintRequest) (uint64, error)
	Burn(ctx context.Context, token domain.TokenID, nonce uint64, quantity uint64) error
	BalanceOf(ctx context.Context, holder domain.Principal, token domain.TokenID, nonce uint64) (uint64, error)
	Transfer(ctx context.Context, to domain.Principal, token domain.TokenID, nonce uint64, quantity uint64) error
}

// TokenReader returns sentinel.ErrNotFound for unknown nonces.
type TokenReader interface {
	TokenData(ctx context.Context, token domain.TokenID, nonce uint64) (*TokenData, error)
}

// PaymentReceiver credits the payments attached to a call to custody.
// It fails with sentinel.ErrInsufficientBalance when the caller does not hold them.
type PaymentReceiver interface {
	Receive(ctx context.Context, from domain.Principal, payments []models.Payment) error
}

type RoleCheck interface {
	HasRole(ctx context.Context, token domain.TokenID, role Role) (bool, error)
}

// Transactor runs fn as one atomic unit: every ledger and registry write made
// through ctx is discarded when fn returns an error.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// URIResolver returns the rendered image URI of an attribute combination.
// It returns sentinel.ErrNotFound when no URI was recorded.
type URIResolver interface {
	URIOf(ctx context.Context, attributes string, name string) (string, error)
}
