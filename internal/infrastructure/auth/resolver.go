package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// principalNamespace scopes provider identities; changing it reassigns every principal id.
var principalNamespace = uuid.MustParse("8f6b0c8e-3f0e-4b8a-9d59-6a1f2a3c9e41")

// PrincipalIDFor returns the stable id of an OAuth identity.
func PrincipalIDFor(provider, providerUserID string) domain.UserID {
	return domain.NewUserID(uuid.NewSHA1(principalNamespace, []byte(provider+":"+providerUserID)))
}

// Chain tries resolvers in order and returns the first principal found.
type Chain []ports.PrincipalResolver

func (c Chain) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	var unavailable error
	for _, r := range c {
		p, err := r.Resolve(ctx, token)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, domerrors.ErrStoreUnavailable) && unavailable == nil {
			unavailable = err
		}
	}
	if unavailable != nil {
		return nil, unavailable
	}
	return nil, domerrors.ErrInvalidToken
}

var _ ports.PrincipalResolver = Chain(nil)
var _ ports.PrincipalResolver = (*TokenIssuer)(nil)
var _ ports.PrincipalResolver = (*SupabaseVerifier)(nil)
var _ ports.TokenIssuer = (*TokenIssuer)(nil)
