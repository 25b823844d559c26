package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	txcontext "github.com/Estar-Games/sc-customize-nft/pkg/platform/tx"
)

// PostgresStore is the ledger backed by ledger_tokens, ledger_balances and
// ledger_roles. Multi-statement operations rely on the caller's transaction.
type PostgresStore struct {
	db      *sql.DB
	custody domain.Principal
}

func NewPostgres(db *sql.DB, custody domain.Principal) *PostgresStore {
	return &PostgresStore{db: db, custody: custody}
}

func (s *PostgresStore) Mint(ctx context.Context, req ports.MintRequest) (uint64, error) {
	if req.Quantity == 0 {
		return 0, errZeroQuantity
	}
	execer := txcontext.Pick(ctx, s.db)

	nonce := req.Nonce
	if nonce == 0 {
		var err error
		nonce, err = s.create(ctx, execer, ports.TokenData{
			Token:      req.Token,
			Name:       req.Name,
			Attributes: req.Attributes,
			URIs:       req.URIs,
		})
		if err != nil {
			return 0, err
		}
	} else {
		var exists bool
		err := execer.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM ledger_tokens WHERE token = $1 AND nonce = $2)
		`, req.Token.String(), int64(nonce)).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check token nonce: %w", err)
		}
		if !exists {
			return 0, fmt.Errorf("mint %s-%02x: %w", req.Token, nonce, sentinel.ErrNotFound)
		}
	}

	if err := credit(ctx, execer, s.custody, req.Token, nonce, req.Quantity); err != nil {
		return 0, err
	}
	return nonce, nil
}

func (s *PostgresStore) Burn(ctx context.Context, token domain.TokenID, nonce uint64, quantity uint64) error {
	return debit(ctx, txcontext.Pick(ctx, s.db), s.custody, token, nonce, quantity)
}

func (s *PostgresStore) BalanceOf(ctx context.Context, holder domain.Principal, token domain.TokenID, nonce uint64) (uint64, error) {
	var amount int64
	err := txcontext.Pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT amount FROM ledger_balances
		WHERE holder = $1 AND token = $2 AND nonce = $3
	`, holder.String(), token.String(), int64(nonce)).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return uint64(amount), nil
}

func (s *PostgresStore) Transfer(ctx context.Context, to domain.Principal, token domain.TokenID, nonce uint64, quantity uint64) error {
	execer := txcontext.Pick(ctx, s.db)
	if err := debit(ctx, execer, s.custody, token, nonce, quantity); err != nil {
		return err
	}
	return credit(ctx, execer, to, token, nonce, quantity)
}

func (s *PostgresStore) TokenData(ctx context.Context, token domain.TokenID, nonce uint64) (*ports.TokenData, error) {
	data := ports.TokenData{Token: token, Nonce: nonce}
	var uris []string
	err := txcontext.Pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT name, attributes, uris FROM ledger_tokens
		WHERE token = $1 AND nonce = $2
	`, token.String(), int64(nonce)).Scan(&data.Name, &data.Attributes, pq.Array(&uris))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read token data: %w", err)
	}
	data.URIs = uris
	return &data, nil
}

func (s *PostgresStore) Receive(ctx context.Context, from domain.Principal, payments []models.Payment) error {
	execer := txcontext.Pick(ctx, s.db)
	for _, p := range payments {
		if p.Amount == 0 {
			continue
		}
		if err := debit(ctx, execer, from, p.Token, p.Nonce, p.Amount); err != nil {
			return err
		}
		if err := credit(ctx, execer, s.custody, p.Token, p.Nonce, p.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) HasRole(ctx context.Context, token domain.TokenID, role ports.Role) (bool, error) {
	var ok bool
	err := txcontext.Pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM ledger_roles WHERE token = $1 AND role = $2)
	`, token.String(), string(role)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return ok, nil
}

// GrantRole gives the custody account role on token.
func (s *PostgresStore) GrantRole(ctx context.Context, token domain.TokenID, role ports.Role) error {
	_, err := txcontext.Pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO ledger_roles (token, role) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, token.String(), string(role))
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// CreateToken creates a new nonce of token held by holder.
func (s *PostgresStore) CreateToken(ctx context.Context, holder domain.Principal, data ports.TokenData, quantity uint64) (uint64, error) {
	if quantity == 0 {
		return 0, errZeroQuantity
	}
	execer := txcontext.Pick(ctx, s.db)
	nonce, err := s.create(ctx, execer, data)
	if err != nil {
		return 0, err
	}
	if err := credit(ctx, execer, holder, data.Token, nonce, quantity); err != nil {
		return 0, err
	}
	return nonce, nil
}

func (s *PostgresStore) create(ctx context.Context, execer txcontext.Execer, data ports.TokenData) (uint64, error) {
	uris := data.URIs
	if uris == nil {
		uris = []string{}
	}
	attrs := data.Attributes
	if attrs == nil {
		attrs = []byte{}
	}
	var nonce int64
	err := execer.QueryRowContext(ctx, `
		INSERT INTO ledger_tokens (token, nonce, name, attributes, uris)
		SELECT $1, COALESCE(MAX(nonce), 0) + 1, $2, $3, $4
		FROM ledger_tokens WHERE token = $1
		RETURNING nonce
	`, data.Token.String(), data.Name, attrs, pq.Array(uris)).Scan(&nonce)
	if err != nil {
		return 0, fmt.Errorf("create token nonce: %w", err)
	}
	return uint64(nonce), nil
}

func credit(ctx context.Context, execer txcontext.Execer, holder domain.Principal, token domain.TokenID, nonce uint64, quantity uint64) error {
	_, err := execer.ExecContext(ctx, `
		INSERT INTO ledger_balances (holder, token, nonce, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (holder, token, nonce)
		DO UPDATE SET amount = ledger_balances.amount + EXCLUDED.amount
	`, holder.String(), token.String(), int64(nonce), int64(quantity))
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

func debit(ctx context.Context, execer txcontext.Execer, holder domain.Principal, token domain.TokenID, nonce uint64, quantity uint64) error {
	if quantity == 0 {
		return errZeroQuantity
	}
	res, err := execer.ExecContext(ctx, `
		UPDATE ledger_balances SET amount = amount - $4
		WHERE holder = $1 AND token = $2 AND nonce = $3 AND amount >= $4
	`, holder.String(), token.String(), int64(nonce), int64(quantity))
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s-%02x held by %s: %w", token, nonce, holder, sentinel.ErrInsufficientBalance)
	}
	return nil
}
