package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/postgres"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	txcontext "github.com/Estar-Games/sc-customize-nft/pkg/platform/tx"

	"github.com/lib/pq"
)

// PostgresStore persists registrations in item_registrations. Writes join
// the transaction carried in context when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectRegistration = `
	SELECT token, slot, name, nonce, registered_at
	FROM item_registrations
`

func (s *PostgresStore) Save(ctx context.Context, reg *models.Registration) error {
	_, err := txcontext.Pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO item_registrations (token, slot, name, nonce, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token) DO UPDATE
		SET slot = EXCLUDED.slot, name = EXCLUDED.name, nonce = EXCLUDED.nonce
	`, reg.Token.String(), reg.Slot.String(), reg.Name, int64(reg.Nonce), reg.RegisteredAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByToken(ctx context.Context, token domain.TokenID) (*models.Registration, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx, selectRegistration+`WHERE token = $1`, token.String())
	return scanRegistration(row)
}

func (s *PostgresStore) FindBySlotAndName(ctx context.Context, slot attributes.Slot, name string) (*models.Registration, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx,
		selectRegistration+`WHERE slot = $1 AND name = $2`, slot.String(), name)
	return scanRegistration(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Registration, error) {
	rows, err := txcontext.Pick(ctx, s.db).QueryContext(ctx, selectRegistration+`ORDER BY slot COLLATE "C", name`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return out, nil
}

// ListSlots returns the distinct registered slots in canonical order.
func (s *PostgresStore) ListSlots(ctx context.Context) ([]attributes.Slot, error) {
	var names []string
	err := txcontext.Pick(ctx, s.db).QueryRowContext(ctx, `
		SELECT COALESCE(array_agg(DISTINCT slot ORDER BY slot COLLATE "C"), '{}')
		FROM item_registrations
	`).Scan(pq.Array(&names))
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	slots := make([]attributes.Slot, len(names))
	for i, name := range names {
		slots[i] = attributes.NewSlot(name)
	}
	return slots, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (*models.Registration, error) {
	var (
		reg   models.Registration
		token string
		slot  string
		nonce int64
	)
	err := row.Scan(&token, &slot, &reg.Name, &nonce, &reg.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	reg.Token = domain.TokenID(token)
	reg.Slot = attributes.NewSlot(slot)
	reg.Nonce = uint64(nonce)
	return &reg, nil
}
