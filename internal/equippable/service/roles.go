package service

import (
	"context"
	"fmt"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/ports"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
)

var roleErrors = map[ports.Role]error{
	ports.RoleCreate:      ErrMissingCreateRole,
	ports.RoleBurn:        ErrMissingBurnRole,
	ports.RoleAddQuantity: ErrMissingAddQuantityRole,
}

// requireRoles checks roles in order and reports the first one missing.
func (s *Service) requireRoles(ctx context.Context, token domain.TokenID, roles ...ports.Role) error {
	for _, role := range roles {
		ok, err := s.roles.HasRole(ctx, token, role)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token roles")
		}
		if !ok {
			return dErrors.Wrap(roleErrors[role], dErrors.CodeForbidden, fmt.Sprintf("missing %s role on %s", role, token))
		}
	}
	return nil
}
