package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pstrings "github.com/Estar-Games/sc-customize-nft/pkg/platform/strings"
)

// Catalogue is the startup data loaded from CUSTOMIZE_CATALOGUE.
type Catalogue struct {
	// Slots fixes the slot universe. Empty means the registered slots.
	Slots []string `yaml:"slots"`
	// SlotStyle is "lower" or "capitalized".
	SlotStyle string          `yaml:"slot_style"`
	Items     []CatalogueItem `yaml:"items"`
	Roles     []CatalogueRole `yaml:"roles"`
	Tokens    []SeedToken     `yaml:"tokens"`
}

// CatalogueItem is one item registration.
type CatalogueItem struct {
	Token string `yaml:"token"`
	Slot  string `yaml:"slot"`
	Name  string `yaml:"name"`
	Nonce uint64 `yaml:"nonce"`
}

// CatalogueRole grants ledger roles on a token to the service.
type CatalogueRole struct {
	Token string   `yaml:"token"`
	Roles []string `yaml:"roles"`
}

// SeedToken creates a nonce and credits Quantity units to Holder.
type SeedToken struct {
	Token      string   `yaml:"token"`
	Name       string   `yaml:"name"`
	Attributes string   `yaml:"attributes"`
	URIs       []string `yaml:"uris"`
	Holder     string   `yaml:"holder"`
	Quantity   uint64   `yaml:"quantity"`
}

// LoadCatalogue reads the catalogue at path. An empty path yields an empty
// catalogue; a missing file is an error.
func LoadCatalogue(path string) (Catalogue, error) {
	var cat Catalogue
	if path == "" {
		return cat, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("reading catalogue %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return cat, fmt.Errorf("parsing catalogue %s: %w", path, err)
	}
	cat.Slots = pstrings.TrimList(cat.Slots)
	switch cat.SlotStyle {
	case "", "lower", "capitalized":
	default:
		return cat, fmt.Errorf("catalogue %s: unknown slot_style %q", path, cat.SlotStyle)
	}
	return cat, nil
}

// Capitalized reports whether slot names are written in display form.
func (c Catalogue) Capitalized() bool {
	return c.SlotStyle == "capitalized"
}
