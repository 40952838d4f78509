package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
)

// ProfileHandler serves the signed-in principal and profile setup.
type ProfileHandler struct {
	create *identity.CreateProfile
	get    *identity.GetProfile
	log    zerolog.Logger
}

func NewProfileHandler(create *identity.CreateProfile, get *identity.GetProfile, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{create: create, get: get, log: log}
}

type meResponse struct {
	ID        string       `json:"id"`
	Email     string       `json:"email,omitempty"`
	Profile   *profileJSON `json:"profile"`
	SetupPath string       `json:"setup_path,omitempty"`
}

// Me returns the principal and its profile; profile is null until setup is done.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	profile, err := h.get.Execute(r.Context(), principal.ID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	resp := meResponse{ID: principal.ID.String(), Email: principal.Email, Profile: toProfileJSON(profile)}
	if profile == nil {
		resp.SetupPath = identity.SetupProfilePath
	}
	writeJSON(w, http.StatusOK, resp)
}

type profileRequest struct {
	FullName       string `json:"full_name"`
	Section        string `json:"section"`
	WhatsAppNumber string `json:"whatsapp_number"`
}

type profileResponse struct {
	Profile  *profileJSON `json:"profile"`
	Redirect string       `json:"redirect"`
}

// Put creates or replaces the profile. ?redirect= is echoed back, sanitized, so the client can
// resume where the gate stopped it.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.create.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), identity.CreateProfileInput{
		FullName:       req.FullName,
		Section:        req.Section,
		WhatsAppNumber: req.WhatsAppNumber,
	})
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Profile:  toProfileJSON(profile),
		Redirect: identity.SafeDestination(r.URL.Query().Get("redirect")),
	})
}
