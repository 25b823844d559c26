package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

const maxAssignments = 100

// EnqueueRequest is the HTTP request body for POST /render/queue.
// Fee is a decimal string so that amounts above 2^53 survive JSON clients.
type EnqueueRequest struct {
	Attributes string `json:"attributes"`
	Name       string `json:"name"`
	Fee        string `json:"fee"`

	parsedFee uint64
}

func (r *EnqueueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	fee, err := strconv.ParseUint(strings.TrimSpace(r.Fee), 10, 64)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "fee must be a decimal amount")
	}
	r.parsedFee = fee
	return nil
}

func (r *EnqueueRequest) ParsedFee() uint64 {
	return r.parsedFee
}

type URIAssignmentRequest struct {
	Attributes string `json:"attributes"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
}

// SetURIsRequest is the HTTP request body for POST /render/uris.
type SetURIsRequest struct {
	URIs []URIAssignmentRequest `json:"uris"`
}

func (r *SetURIsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.URIs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "uris is required")
	}
	if len(r.URIs) > maxAssignments {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d uris per request", maxAssignments))
	}
	for i := range r.URIs {
		r.URIs[i].Name = strings.TrimSpace(r.URIs[i].Name)
		r.URIs[i].URI = strings.TrimSpace(r.URIs[i].URI)
		if r.URIs[i].Name == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("uris[%d].name is required", i))
		}
	}
	return nil
}

func (r *SetURIsRequest) Assignments() []models.URIAssignment {
	out := make([]models.URIAssignment, len(r.URIs))
	for i, u := range r.URIs {
		out[i] = models.URIAssignment{Attributes: u.Attributes, Name: u.Name, URI: u.URI}
	}
	return out
}

// AuthorizeSetterRequest is the HTTP request body for POST /render/setters.
type AuthorizeSetterRequest struct {
	Principal string `json:"principal"`

	parsed domain.Principal
}

func (r *AuthorizeSetterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	principal, err := domain.ParsePrincipal(r.Principal)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "principal is invalid")
	}
	r.parsed = principal
	return nil
}

func (r *AuthorizeSetterRequest) ParsedPrincipal() domain.Principal {
	return r.parsed
}
