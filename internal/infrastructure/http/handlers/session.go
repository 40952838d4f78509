package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName     = "teammatch_session"
	sessionTokenKey = "access_token"
)

// Sessions keeps the access token issued at OAuth sign-in in an encrypted cookie.
type Sessions struct {
	store sessions.Store
}

// NewSessions returns a cookie-backed session store. maxAge is in seconds.
func NewSessions(secret []byte, secureCookie bool, maxAge int) *Sessions {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: cs}
}

// Token returns the stored access token or "" (it satisfies middleware.TokenSource).
func (s *Sessions) Token(r *http.Request) string {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	tok, _ := sess.Values[sessionTokenKey].(string)
	return tok
}

func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionTokenKey] = token
	return sess.Save(r, w)
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
