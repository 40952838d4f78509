package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/handlers"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	HealthHandler       *handlers.HealthHandler
	ProfileHandler      *handlers.ProfileHandler
	ProjectsHandler     *handlers.ProjectsHandler
	ApplicationsHandler *handlers.ApplicationsHandler
	OAuthHandler        *handlers.OAuthHandler // nil when no OAuth provider is configured
	Authenticator       *middleware.Authenticator
	Log                 zerolog.Logger
	Secure              func(http.Handler) http.Handler
	CORS                func(http.Handler) http.Handler
	IPRateLimit         func(http.Handler) http.Handler
	PrincipalRateLimit  func(http.Handler) http.Handler
	APIVersion          string
	Metrics             bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.APIVersion != "" {
		r.Use(middleware.APIVersion(cfg.APIVersion))
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.OAuthHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/logout", cfg.OAuthHandler.Logout)
			r.Get("/{provider}", cfg.OAuthHandler.Begin)
			r.Get("/{provider}/callback", cfg.OAuthHandler.Callback)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Authenticator.Handler)
		if cfg.PrincipalRateLimit != nil {
			r.Use(cfg.PrincipalRateLimit)
		}
		r.Use(chimid.AllowContentType("application/json"))

		// Reads open to anonymous visitors.
		r.Get("/projects", cfg.ProjectsHandler.List)
		r.Get("/projects/{project}", cfg.ProjectsHandler.Get)
		r.Get("/projects/{project}/applicants", cfg.ApplicationsHandler.Applicants)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrincipal)
			r.Get("/me", cfg.ProfileHandler.Me)
			r.Put("/profile", cfg.ProfileHandler.Put)
			r.Post("/projects", cfg.ProjectsHandler.Create)
			r.Delete("/projects/{project}", cfg.ProjectsHandler.Delete)
			r.Get("/projects/{project}/application", cfg.ApplicationsHandler.Mine)
			r.Post("/projects/{project}/applications", cfg.ApplicationsHandler.Apply)
			r.Delete("/applications/{id}", cfg.ApplicationsHandler.Withdraw)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}
