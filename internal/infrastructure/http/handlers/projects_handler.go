package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/ledger"
	"github.com/dahroug-h/EECE27team/internal/application/project"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
)

const projectParam = "project"

// projectLookup resolves the {project} path segment, which is either a slug or a project id.
type projectLookup struct {
	get *project.GetProject
}

func (l projectLookup) resolve(ctx context.Context, ref string) (*domain.Project, error) {
	var (
		p   *domain.Project
		err error
	)
	if isUUID(ref) {
		id, _ := domain.ParseProjectID(ref)
		p, err = l.get.ByID(ctx, id)
	} else {
		p, err = l.get.BySlug(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return p, nil
}

// ProjectsHandler serves the project directory.
type ProjectsHandler struct {
	lookup projectLookup
	list   *project.ListProjects
	create *project.CreateProject
	del    *project.DeleteProject
	count  *ledger.ApplicantCount
	log    zerolog.Logger
}

func NewProjectsHandler(
	get *project.GetProject,
	list *project.ListProjects,
	create *project.CreateProject,
	del *project.DeleteProject,
	count *ledger.ApplicantCount,
	log zerolog.Logger,
) *ProjectsHandler {
	return &ProjectsHandler{lookup: projectLookup{get: get}, list: list, create: create, del: del, count: count, log: log}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.list.Execute(r.Context())
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]projectJSON, 0, len(summaries))
	for _, s := range summaries {
		n := s.ApplicantCount
		out = append(out, toProjectJSON(s.Project, &n))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": out})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input project.CreateProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}
	p, err := h.create.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), input)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	middleware.RecordProjectEvent("created")
	w.Header().Set("Location", "/projects/"+p.Slug)
	zero := 0
	writeJSON(w, http.StatusCreated, toProjectJSON(p, &zero))
}

// Get returns one project by slug or id with its applicant count.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup.resolve(r.Context(), chi.URLParam(r, projectParam))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	n, err := h.count.Execute(r.Context(), p.ID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectJSON(p, &n))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.lookup.resolve(r.Context(), chi.URLParam(r, projectParam))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if err := h.del.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), p.ID); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	middleware.RecordProjectEvent("deleted")
	w.WriteHeader(http.StatusNoContent)
}
