package identity

import (
	"context"
	"net/url"
	"strings"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// SetupProfilePath is where principals without a profile are sent.
const SetupProfilePath = "/setup-profile"

// Gate maps a principal to its profile and stops mutating operations for principals without one.
type Gate struct {
	profiles ports.ProfileRepository
}

// NewGate builds the gate.
func NewGate(profiles ports.ProfileRepository) *Gate {
	return &Gate{profiles: profiles}
}

// RequireProfile returns the principal's profile. A nil principal yields ErrUnauthenticated; a principal
// without a profile yields *domerrors.ProfileRequiredError carrying destination.
func (g *Gate) RequireProfile(ctx context.Context, principal *domain.Principal, destination string) (*domain.Profile, error) {
	if principal == nil || principal.ID.IsZero() {
		return nil, domerrors.ErrUnauthenticated
	}
	profile, err := g.profiles.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, domerrors.Unavailable("get profile", err)
	}
	if profile == nil {
		dest := SafeDestination(destination)
		return nil, &domerrors.ProfileRequiredError{
			Destination: dest,
			SetupPath:   SetupProfilePath + "?redirect=" + url.QueryEscape(dest),
		}
	}
	return profile, nil
}

// SafeDestination keeps same-site relative paths and replaces anything else with "/".
func SafeDestination(dest string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" || !strings.HasPrefix(dest, "/") {
		return "/"
	}
	if strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "/\\") {
		return "/"
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return dest
}
