package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ledger"
	"github.com/dahroug-h/EECE27team/internal/application/project"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
)

// ApplicationsHandler serves the application ledger.
type ApplicationsHandler struct {
	lookup   projectLookup
	gate     *identity.Gate
	apply    *ledger.Apply
	withdraw *ledger.Withdraw
	list     *ledger.ListApplicants
	mine     *ledger.GetUserApplication
	log      zerolog.Logger
}

func NewApplicationsHandler(
	get *project.GetProject,
	gate *identity.Gate,
	apply *ledger.Apply,
	withdraw *ledger.Withdraw,
	list *ledger.ListApplicants,
	mine *ledger.GetUserApplication,
	log zerolog.Logger,
) *ApplicationsHandler {
	return &ApplicationsHandler{
		lookup:   projectLookup{get: get},
		gate:     gate,
		apply:    apply,
		withdraw: withdraw,
		list:     list,
		mine:     mine,
		log:      log,
	}
}

// Applicants lists a project's applicants newest first. ?q= filters by name, ?section= by section.
func (h *ApplicationsHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup.resolve(r.Context(), chi.URLParam(r, projectParam))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	filter := ledger.ApplicantFilter{
		Query:   r.URL.Query().Get("q"),
		Section: domain.Section(r.URL.Query().Get("section")),
	}
	if filter.Section != "" && !filter.Section.Valid() {
		writeDomainErr(w, r, h.log, domerrors.NewValidation("section", "must be one of 1, 2, 3, 4"))
		return
	}
	views, err := h.list.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), p, filter)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]applicantJSON, 0, len(views))
	for _, v := range views {
		out = append(out, toApplicantJSON(v))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applicants": out})
}

// Mine returns the caller's application for the project, or null.
func (h *ApplicationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	p, err := h.lookup.resolve(r.Context(), chi.URLParam(r, projectParam))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if _, err := h.gate.RequireProfile(r.Context(), principal, ledger.ProjectPath(p)); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	app, err := h.mine.Execute(r.Context(), p.ID, principal.ID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"application": toApplicationJSON(app)})
}

// Apply is idempotent: 201 when a row was created, 200 with the existing row otherwise.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup.resolve(r.Context(), chi.URLParam(r, projectParam))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	app, created, err := h.apply.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), p.ID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		middleware.RecordLedgerTransition(middleware.TransitionApplied)
	} else {
		middleware.RecordLedgerTransition(middleware.TransitionReapplied)
	}
	writeJSON(w, status, toApplicationJSON(app))
}

// Withdraw deletes the caller's application. Unknown ids succeed.
func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !isUUID(raw) {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid application id")
		return
	}
	id, _ := domain.ParseApplicationID(raw)
	removed, err := h.withdraw.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if removed {
		middleware.RecordLedgerTransition(middleware.TransitionWithdrawn)
	}
	w.WriteHeader(http.StatusNoContent)
}
