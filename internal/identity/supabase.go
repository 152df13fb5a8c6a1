package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/supabase-community/supabase-go"

	"techrent/internal/domain/rental"
)

const userRolesTable = "user_roles"

type supabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwtlib.RegisteredClaims
}

// SupabaseResolver verifies access tokens issued by a Supabase project against the
// project's JWKS and reads the role from its user_roles table.
type SupabaseResolver struct {
	keyfunc jwtlib.Keyfunc
	roles   RoleSource
	close   func()
}

// NewSupabaseResolver fetches the project JWKS and keeps it refreshed in the background
// until Close is called.
func NewSupabaseResolver(ctx context.Context, supabaseURL string, roles RoleSource) (*SupabaseResolver, error) {
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}

	r := newSupabaseResolver(jwks.Keyfunc, roles)
	r.close = jwks.EndBackground
	return r, nil
}

func newSupabaseResolver(kf jwtlib.Keyfunc, roles RoleSource) *SupabaseResolver {
	return &SupabaseResolver{keyfunc: kf, roles: roles, close: func() {}}
}

func (r *SupabaseResolver) Resolve(ctx context.Context, token string) (*rental.Actor, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &supabaseClaims{}, r.keyfunc,
		jwtlib.WithValidMethods([]string{"RS256", "ES256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*supabaseClaims)
	if !ok || claims.Subject == "" || claims.Role == "anon" {
		return nil, ErrInvalidToken
	}

	role, err := r.roles.RoleOf(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &rental.Actor{UserID: claims.Subject, Email: claims.Email, Role: role}, nil
}

func (r *SupabaseResolver) Close() { r.close() }

// SupabaseRoles reads roles from the project's user_roles table through PostgREST.
type SupabaseRoles struct {
	client *supabase.Client
}

func NewSupabaseRoles(url, key string) (*SupabaseRoles, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &SupabaseRoles{client: client}, nil
}

func (s *SupabaseRoles) RoleOf(_ context.Context, userID string) (rental.Role, error) {
	raw, _, err := s.client.From(userRolesTable).
		Select("role", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("query %s: %w", userRolesTable, err)
	}

	var rows []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return "", fmt.Errorf("decode %s: %w", userRolesTable, err)
	}
	if len(rows) == 0 {
		return rental.RoleUser, nil
	}
	return rental.ParseRole(rows[0].Role), nil
}

// SetRole upserts the user's row. The anon key needs a policy allowing it, or the
// client must be built with the service role key.
func (s *SupabaseRoles) SetRole(_ context.Context, userID string, role rental.Role) error {
	row := map[string]any{
		"user_id":    userID,
		"role":       string(role),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	_, _, err := s.client.From(userRolesTable).Upsert(row, "user_id", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("upsert %s: %w", userRolesTable, err)
	}
	return nil
}
