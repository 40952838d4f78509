package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	mw "github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
)

// AuditLog logs sign-in and sign-out events and counts them for Prometheus.
func AuditLog(log zerolog.Logger, r *http.Request, event, provider, userID string, success bool, errMsg string) {
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev.
		Str("event", event).
		Str("provider", provider).
		Str("user_id", userID).
		Str("ip", clientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("auth_audit")
	mw.RecordAuthEvent(event, provider, success)
}

// clientIP returns the first X-Forwarded-For hop, else RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
