package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/store/registry"
	"github.com/Estar-Games/sc-customize-nft/internal/platform/config"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
)

var knownRoles = map[string]ports.Role{
	string(ports.RoleCreate):      ports.RoleCreate,
	string(ports.RoleBurn):        ports.RoleBurn,
	string(ports.RoleAddQuantity): ports.RoleAddQuantity,
}

// seedCatalogue writes the catalogue through the same transactor the
// services use. Registrations and roles are idempotent; token balances are
// only seeded into memory storage, where every start is a fresh ledger.
func seedCatalogue(ctx context.Context, st *storage, cat config.Catalogue, mode config.StorageMode, log *slog.Logger) error {
	items, err := catalogueItems(cat.Items)
	if err != nil {
		return err
	}

	err = st.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := registry.Seed(ctx, st.registry, items, time.Now().UTC()); err != nil {
			return err
		}
		for _, entry := range cat.Roles {
			token, err := domain.ParseTokenID(entry.Token)
			if err != nil {
				return fmt.Errorf("role token %q: %w", entry.Token, err)
			}
			for _, name := range entry.Roles {
				role, ok := knownRoles[name]
				if !ok {
					return fmt.Errorf("role token %s: unknown role %q", token, name)
				}
				if err := st.ledger.GrantRole(ctx, token, role); err != nil {
					return err
				}
			}
		}
		if mode != config.StorageMemory {
			return nil
		}
		for _, seed := range cat.Tokens {
			if err := createSeedToken(ctx, st.ledger, seed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if mode != config.StorageMemory && len(cat.Tokens) > 0 {
		log.Warn("catalogue tokens are only seeded in memory storage mode", "skipped", len(cat.Tokens))
	}
	log.Info("catalogue seeded", "items", len(items), "roles", len(cat.Roles))
	return nil
}

func catalogueItems(entries []config.CatalogueItem) ([]models.RegisterItem, error) {
	items := make([]models.RegisterItem, 0, len(entries))
	for _, entry := range entries {
		token, err := domain.ParseTokenID(entry.Token)
		if err != nil {
			return nil, fmt.Errorf("catalogue item %q: %w", entry.Token, err)
		}
		items = append(items, models.RegisterItem{Token: token, Slot: entry.Slot, Name: entry.Name, Nonce: entry.Nonce})
	}
	return items, nil
}

func createSeedToken(ctx context.Context, led catalogueLedger, seed config.SeedToken) error {
	token, err := domain.ParseTokenID(seed.Token)
	if err != nil {
		return fmt.Errorf("seed token %q: %w", seed.Token, err)
	}
	holder, err := domain.ParsePrincipal(seed.Holder)
	if err != nil {
		return fmt.Errorf("seed token %s holder: %w", token, err)
	}
	_, err = led.CreateToken(ctx, holder, ports.TokenData{
		Token:      token,
		Name:       seed.Name,
		Attributes: []byte(seed.Attributes),
		URIs:       seed.URIs,
	}, seed.Quantity)
	if err != nil {
		return fmt.Errorf("seed token %s: %w", token, err)
	}
	return nil
}
