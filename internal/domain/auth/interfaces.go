package auth

import (
	"context"

	"techrent/internal/domain/rental"
)

// UserRepositoryInterface is what the auth service needs from user storage.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User, role rental.Role) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// RoleStore persists role assignments. The local repository and the hosted
// user_roles table both implement it.
type RoleStore interface {
	RoleOf(ctx context.Context, userID string) (rental.Role, error)
	SetRole(ctx context.Context, userID string, role rental.Role) error
}

type tokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
}
