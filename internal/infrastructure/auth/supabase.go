package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	supa "github.com/supabase-community/supabase-go"

	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// RemoteUserFunc asks the auth server who owns a token.
type RemoteUserFunc func(ctx context.Context, token string) (*domain.Principal, error)

// SupabaseVerifier resolves Supabase access tokens. Tokens are checked locally against the
// project's JWT secret first; the Auth API is consulted only when that fails or no secret is set.
type SupabaseVerifier struct {
	secret []byte
	remote RemoteUserFunc
}

func NewSupabaseVerifier(jwtSecret string, remote RemoteUserFunc) *SupabaseVerifier {
	v := &SupabaseVerifier{remote: remote}
	if jwtSecret != "" {
		v.secret = []byte(jwtSecret)
	}
	return v
}

func (v *SupabaseVerifier) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if v.secret != nil {
		if p, err := v.resolveLocal(token); err == nil {
			return p, nil
		}
	}
	if v.remote == nil {
		return nil, domerrors.ErrInvalidToken
	}
	return v.remote(ctx, token)
}

type supabaseClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (v *SupabaseVerifier) resolveLocal(token string) (*domain.Principal, error) {
	claims := &supabaseClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domerrors.ErrInvalidToken
	}
	// anon and service_role keys are JWTs too but carry no user
	if claims.Role != "authenticated" {
		return nil, domerrors.ErrInvalidToken
	}
	id, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	return &domain.Principal{ID: id, Email: claims.Email}, nil
}

// SupabaseRemoteUser builds a RemoteUserFunc over the Supabase Auth API.
func SupabaseRemoteUser(client *supa.Client) RemoteUserFunc {
	return func(ctx context.Context, token string) (*domain.Principal, error) {
		user, err := client.Auth.WithToken(token).GetUser()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domerrors.ErrInvalidToken, err)
		}
		return &domain.Principal{ID: domain.NewUserID(user.ID), Email: user.Email}, nil
	}
}
