package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler serves /health with store and optional Redis checks.
type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler creates a health handler; redisClient may be nil.
func NewHealthHandler(store PingFunc, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{checks: map[string]PingFunc{"store": store}}
	if redisClient != nil {
		h.checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return h
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	allOK := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "down: " + err.Error()
			allOK = false
			continue
		}
		checks[name] = "ok"
	}

	if !allOK {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "one or more checks failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}
