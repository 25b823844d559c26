package handler

import (
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/equippable/models"
)

type RegistrationResponse struct {
	Token        string    `json:"token"`
	Slot         string    `json:"slot"`
	Name         string    `json:"name"`
	Nonce        uint64    `json:"nonce"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RegistrationListResponse struct {
	Items []RegistrationResponse `json:"items"`
}

type TokenRefResponse struct {
	Token string `json:"token"`
	Nonce uint64 `json:"nonce"`
}

// CustomizeResponse is the HTTP response for POST /customize.
type CustomizeResponse struct {
	Token      string             `json:"token"`
	Nonce      uint64             `json:"nonce"`
	Attributes string             `json:"attributes"`
	Returned   []TokenRefResponse `json:"returned"`
	Absorbed   []TokenRefResponse `json:"absorbed"`
}

func toRegistrationResponse(reg *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		Token:        reg.Token.String(),
		Slot:         reg.Slot.String(),
		Name:         reg.Name,
		Nonce:        reg.Nonce,
		RegisteredAt: reg.RegisteredAt,
	}
}

func toRegistrationList(regs []*models.Registration) *RegistrationListResponse {
	resp := &RegistrationListResponse{Items: make([]RegistrationResponse, 0, len(regs))}
	for _, reg := range regs {
		resp.Items = append(resp.Items, toRegistrationResponse(reg))
	}
	return resp
}

func toRefs(refs []attributes.TokenRef) []TokenRefResponse {
	out := make([]TokenRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, TokenRefResponse{Token: ref.Token.String(), Nonce: ref.Nonce})
	}
	return out
}

// FromResult converts a customization result to its HTTP response.
func FromResult(result *models.CustomizeResult) *CustomizeResponse {
	return &CustomizeResponse{
		Token:      result.Token.String(),
		Nonce:      result.Nonce,
		Attributes: result.Attributes,
		Returned:   toRefs(result.Returned),
		Absorbed:   toRefs(result.Absorbed),
	}
}
