package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/auth"
)

const oauthRedirectKey = "teammatch_redirect"

// InitOAuthProviders registers Goth providers and the state cookie store. Call once at startup.
func InitOAuthProviders(callbackBaseURL, sessionSecret, googleClientID, googleClientSecret string, secureCookie bool) {
	if googleClientID != "" && googleClientSecret != "" {
		callbackURL := callbackBaseURL + "/auth/google/callback"
		goth.UseProviders(google.New(googleClientID, googleClientSecret, callbackURL, "email", "profile"))
	}
	if sessionSecret != "" {
		store := sessions.NewCookieStore([]byte(sessionSecret))
		store.Options.HttpOnly = true
		store.Options.Secure = secureCookie
		store.Options.SameSite = http.SameSiteLaxMode
		gothic.Store = store
	}
}

// OAuthHandler signs principals in through a Goth provider and keeps their token in the session.
type OAuthHandler struct {
	issuer   ports.TokenIssuer
	expiry   int64
	sessions *Sessions
	profiles *identity.GetProfile
	log      zerolog.Logger
}

func NewOAuthHandler(issuer ports.TokenIssuer, expirySeconds int64, sessions *Sessions, profiles *identity.GetProfile, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{issuer: issuer, expiry: expirySeconds, sessions: sessions, profiles: profiles, log: log}
}

// withProvider copies the chi provider param into the query, where gothic looks for it.
func withProvider(r *http.Request, provider string) *http.Request {
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", provider)
	r2.URL.RawQuery = q.Encode()
	return r2
}

// Begin redirects to the provider. ?redirect=/path is remembered for the callback.
func (h *OAuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if _, err := goth.GetProvider(provider); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown provider")
		return
	}
	dest := identity.SafeDestination(r.URL.Query().Get("redirect"))
	if err := gothic.StoreInSession(oauthRedirectKey, dest, r, w); err != nil {
		h.log.Error().Err(err).Msg("store oauth redirect")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	authURL, err := gothic.GetAuthURL(w, withProvider(r, provider))
	if err != nil {
		h.log.Error().Err(err).Str("provider", provider).Msg("build oauth url")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// Callback completes the exchange, stores the access token and sends the browser on, via profile
// setup when the principal has no profile yet.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	// read before CompleteUserAuth, which clears the gothic session
	dest, _ := gothic.GetFromSession(oauthRedirectKey, r)
	dest = identity.SafeDestination(dest)

	gothUser, err := gothic.CompleteUserAuth(w, withProvider(r, provider))
	if err != nil {
		AuditLog(h.log, r, "sign_in", provider, "", false, err.Error())
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "oauth failed")
		return
	}
	principal := domain.Principal{
		ID:    auth.PrincipalIDFor(gothUser.Provider, gothUser.UserID),
		Email: gothUser.Email,
	}
	token, err := h.issuer.IssueAccessToken(principal, h.expiry)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if err := h.sessions.Save(w, r, token); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	profile, err := h.profiles.Execute(r.Context(), principal.ID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if profile == nil {
		dest = identity.SetupProfilePath + "?redirect=" + url.QueryEscape(dest)
	}
	AuditLog(h.log, r, "sign_in", provider, principal.ID.String(), true, "")
	http.Redirect(w, r, dest, http.StatusFound)
}

// Logout clears the session cookie. Bearer tokens stay valid until they expire.
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.log.Warn().Err(err).Msg("clear session")
	}
	_ = gothic.Logout(w, r)
	AuditLog(h.log, r, "sign_out", "", "", true, "")
	w.WriteHeader(http.StatusNoContent)
}
