package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsRoundTrip(t *testing.T) {
	s := NewSessions([]byte("0123456789abcdef0123456789abcdef"), false, 3600)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok-1"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "tok-1", s.Token(req))

	rec = httptest.NewRecorder()
	require.NoError(t, s.Clear(rec, req))
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestSessionsRejectForeignCookie(t *testing.T) {
	a := NewSessions([]byte("0123456789abcdef0123456789abcdef"), false, 3600)
	b := NewSessions([]byte("fedcba9876543210fedcba9876543210"), false, 3600)

	rec := httptest.NewRecorder()
	require.NoError(t, a.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok-1"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, b.Token(req))
	assert.Empty(t, b.Token(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("3f1c8d0e-8a55-4c43-9a51-0f6cbb1e2b11"))
	assert.False(t, isUUID("3f1c8d0e8a554c439a510f6cbb1e2b11"))
	assert.False(t, isUUID("team-alpha"))
}
