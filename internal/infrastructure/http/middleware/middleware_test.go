package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

type resolverFunc func(ctx context.Context, token string) (*domain.Principal, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	return f(ctx, token)
}

var alice = &domain.Principal{ID: domain.NewUserID(uuid.New()), Email: "alice@example.com"}

func staticResolver(token string) resolverFunc {
	return func(_ context.Context, got string) (*domain.Principal, error) {
		if got == token {
			return alice, nil
		}
		return nil, domerrors.ErrInvalidToken
	}
}

// echoPrincipal writes the principal's email, or "anonymous".
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if p := PrincipalFromContext(r.Context()); p != nil {
		_, _ = w.Write([]byte(p.Email))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestAuthenticator(t *testing.T) {
	session := func(r *http.Request) string { return "good" }
	h := NewAuthenticator(staticResolver("good"), session).Handler(echoPrincipal)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"bearer", "Bearer good", http.StatusOK, "alice@example.com"},
		{"lowercase scheme", "bearer good", http.StatusOK, "alice@example.com"},
		{"session fallback", "", http.StatusOK, "alice@example.com"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthenticatorAnonymous(t *testing.T) {
	h := NewAuthenticator(staticResolver("good"), nil).Handler(echoPrincipal)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticatorProviderDown(t *testing.T) {
	down := resolverFunc(func(context.Context, string) (*domain.Principal, error) {
		return nil, domerrors.Unavailable("verify token", assert.AnError)
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	NewAuthenticator(down, nil).Handler(echoPrincipal).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequirePrincipal(t *testing.T) {
	h := RequirePrincipal(echoPrincipal)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, req.WithContext(WithPrincipal(req.Context(), alice)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrincipalRateLimiter(t *testing.T) {
	mw, err := NewPrincipalRateLimiter("2-M")
	require.NoError(t, err)
	h := mw(echoPrincipal)

	send := func(p *domain.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(WithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send(alice))
	assert.Equal(t, http.StatusOK, send(alice))
	assert.Equal(t, http.StatusTooManyRequests, send(alice))
	assert.Equal(t, http.StatusOK, send(nil), "anonymous requests are not keyed by principal")

	_, err = NewPrincipalRateLimiter("lots")
	assert.Error(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	mw, err := NewIPRateLimiter("1-M")
	require.NoError(t, err)
	h := mw(echoPrincipal)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://team.example"})(echoPrincipal)

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "https://team.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://team.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureHeaders(t *testing.T) {
	h := NewSecure(SecureOptions(true))(echoPrincipal)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
