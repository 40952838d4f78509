package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// TokenSource extracts a token from somewhere other than the Authorization header (e.g. a session cookie).
type TokenSource func(r *http.Request) string

// Authenticator resolves the request principal from a Bearer token, falling back to the session.
// Requests without any token pass through anonymously.
type Authenticator struct {
	resolver ports.PrincipalResolver
	fallback TokenSource
}

func NewAuthenticator(resolver ports.PrincipalResolver, fallback TokenSource) *Authenticator {
	return &Authenticator{resolver: resolver, fallback: fallback}
}

func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, fromHeader := bearerToken(r)
		if token == "" && !fromHeader && m.fallback != nil {
			token = m.fallback(r)
		}
		if token == "" {
			if fromHeader {
				writeErr(w, http.StatusUnauthorized, "invalid_token", "malformed authorization header")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		principal, err := m.resolver.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, domerrors.ErrStoreUnavailable) {
				writeErr(w, http.StatusServiceUnavailable, "store_unavailable", "authentication provider unavailable")
				return
			}
			writeErr(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// bearerToken reports the token and whether an Authorization header was present at all.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// RequirePrincipal rejects anonymous requests with 401.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) == nil {
			writeErr(w, http.StatusUnauthorized, "unauthorized", domerrors.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
