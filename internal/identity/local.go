package identity

import (
	"context"
	"fmt"

	"techrent/internal/domain/rental"
	"techrent/internal/pkg/jwt"
)

// LocalResolver accepts HS256 tokens issued by the auth module. The role is read from
// the role source on every request so that role changes apply without re-login.
type LocalResolver struct {
	tokens *jwt.Service
	roles  RoleSource
}

func NewLocalResolver(tokens *jwt.Service, roles RoleSource) *LocalResolver {
	return &LocalResolver{tokens: tokens, roles: roles}
}

func (r *LocalResolver) Resolve(ctx context.Context, token string) (*rental.Actor, error) {
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role := rental.ParseRole(claims.Role)
	if r.roles != nil {
		role, err = r.roles.RoleOf(ctx, claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return &rental.Actor{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}
