package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
)

type saver interface {
	Save(ctx context.Context, reg *models.Registration) error
}

// Seed writes catalogue registrations at startup. Entries are validated like
// registrations made through the API; an invalid entry aborts seeding.
func Seed(ctx context.Context, store saver, items []models.RegisterItem, now time.Time) error {
	for i, item := range items {
		reg, err := models.NewRegistration(item.Token, attributes.NewSlot(item.Slot), item.Name, item.Nonce, now)
		if err != nil {
			return fmt.Errorf("catalogue item %d (%s): %w", i, item.Token, err)
		}
		if err := store.Save(ctx, reg); err != nil {
			return fmt.Errorf("catalogue item %d (%s): %w", i, item.Token, err)
		}
	}
	return nil
}
