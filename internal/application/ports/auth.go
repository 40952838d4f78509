package ports

import (
	"context"

	"github.com/dahroug-h/EECE27team/internal/domain"
)

// PrincipalResolver turns a bearer token into the authenticated principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}

// TokenIssuer signs access tokens for principals signed in through our own OAuth flow.
type TokenIssuer interface {
	IssueAccessToken(principal domain.Principal, expiresInSeconds int64) (string, error)
}
