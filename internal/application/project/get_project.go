package project

import (
	"context"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// GetProject looks projects up by slug or id. No authorization is required.
type GetProject struct {
	projects ports.ProjectRepository
}

// NewGetProject builds the use case.
func NewGetProject(projects ports.ProjectRepository) *GetProject {
	return &GetProject{projects: projects}
}

// BySlug returns nil, nil when no project has the slug.
func (uc *GetProject) BySlug(ctx context.Context, slug string) (*domain.Project, error) {
	if !IsSlug(slug) {
		return nil, nil
	}
	p, err := uc.projects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, domerrors.Unavailable("get project by slug", err)
	}
	return p, nil
}

// ByID returns nil, nil when the project does not exist.
func (uc *GetProject) ByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, domerrors.Unavailable("get project", err)
	}
	return p, nil
}

// ListProjects returns every project newest first with its live applicant count.
type ListProjects struct {
	projects ports.ProjectRepository
}

// NewListProjects builds the use case.
func NewListProjects(projects ports.ProjectRepository) *ListProjects {
	return &ListProjects{projects: projects}
}

func (uc *ListProjects) Execute(ctx context.Context) ([]*domain.ProjectSummary, error) {
	list, err := uc.projects.ListWithApplicantCounts(ctx)
	if err != nil {
		return nil, domerrors.Unavailable("list projects", err)
	}
	return list, nil
}
