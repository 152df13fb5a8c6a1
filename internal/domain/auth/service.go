package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"techrent/internal/domain/rental"
)

// Service contains the account and role logic. users is nil when identities come from
// the hosted provider; registration and login are then unavailable.
type Service struct {
	users  UserRepositoryInterface
	roles  RoleStore
	tokens tokenIssuer
	now    func() time.Time
}

func NewService(users UserRepositoryInterface, roles RoleStore, tokens tokenIssuer) *Service {
	return &Service{
		users:  users,
		roles:  roles,
		tokens: tokens,
		now:    time.Now,
	}
}

// LocalEnabled reports whether register and login are served.
func (s *Service) LocalEnabled() bool {
	return s.users != nil && s.tokens != nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if !s.LocalEnabled() {
		return nil, ErrLocalAuthDisabled
	}

	email := normalizeEmail(req.Email)
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailAlreadyExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user, rental.RoleUser); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user, rental.RoleUser)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if !s.LocalEnabled() {
		return nil, ErrLocalAuthDisabled
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := s.roles.RoleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issue(user, role)
}

func (s *Service) issue(user *User, role rental.Role) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		User:        toPublic(user, role),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

// Me describes the actor. Users known only to the hosted provider are described from
// their token.
func (s *Service) Me(ctx context.Context, actor *rental.Actor) (*UserPublic, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}

	if s.users != nil {
		user, err := s.users.GetByID(ctx, actor.UserID)
		if err == nil {
			p := toPublic(user, actor.Role)
			return &p, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}

	return &UserPublic{ID: actor.UserID, Email: actor.Email, Role: actor.Role}, nil
}

// SetRole grants or revokes the admin role.
func (s *Service) SetRole(ctx context.Context, actor *rental.Actor, userID, role string) error {
	if !actor.Authenticated() {
		return rental.ErrAuthenticationRequired
	}
	if !actor.IsAdmin() {
		return rental.ErrForbidden
	}

	r := rental.Role(role)
	if r != rental.RoleUser && r != rental.RoleAdmin {
		return ErrInvalidRole
	}
	if userID == "" {
		return ErrUserNotFound
	}

	return s.roles.SetRole(ctx, userID, r)
}
