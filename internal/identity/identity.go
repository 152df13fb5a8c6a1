// Package identity turns bearer tokens into rental actors. Tokens are either issued by
// this service (local) or by a hosted Supabase project.
package identity

import (
	"context"
	"errors"

	"techrent/internal/domain/rental"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnavailable  = errors.New("identity provider unavailable")
)

// Resolver verifies a bearer token and returns who it belongs to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*rental.Actor, error)
}

// RoleSource looks up a user's role. Users without a stored role are plain users.
type RoleSource interface {
	RoleOf(ctx context.Context, userID string) (rental.Role, error)
}

// StaticRoles is a RoleSource backed by a map, used by seeds and tests.
type StaticRoles map[string]rental.Role

func (s StaticRoles) RoleOf(_ context.Context, userID string) (rental.Role, error) {
	if r, ok := s[userID]; ok {
		return r, nil
	}
	return rental.RoleUser, nil
}
