package ledger

import (
	"context"
	"strings"

	"github.com/dahroug-h/EECE27team/internal/application/contact"
	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// ApplicantFilter narrows an applicant listing. Zero values match everything.
type ApplicantFilter struct {
	// Query matches a case-insensitive substring of the applicant's full name.
	Query   string
	Section domain.Section
}

func (f ApplicantFilter) match(p *domain.Profile) bool {
	if f.Section != "" && p.Section != f.Section {
		return false
	}
	q := strings.TrimSpace(f.Query)
	return q == "" || strings.Contains(strings.ToLower(p.FullName), strings.ToLower(q))
}

// ApplicantView is one row of a project's applicant list.
type ApplicantView struct {
	Application *domain.Application
	Profile     *domain.Profile
	// ContactLink is empty when the stored number has no digits.
	ContactLink string
}

// ListApplicants returns a project's applicants newest first. Anonymous callers may read the
// list; a signed-in viewer must have a profile, since the page they land on offers to apply.
type ListApplicants struct {
	apps ports.ApplicationRepository
	gate *identity.Gate
}

func NewListApplicants(apps ports.ApplicationRepository, gate *identity.Gate) *ListApplicants {
	return &ListApplicants{apps: apps, gate: gate}
}

func (uc *ListApplicants) Execute(ctx context.Context, viewer *domain.Principal, project *domain.Project, filter ApplicantFilter) ([]ApplicantView, error) {
	if viewer != nil {
		if _, err := uc.gate.RequireProfile(ctx, viewer, ProjectPath(project)); err != nil {
			return nil, err
		}
	}
	rows, err := uc.apps.ListApplicants(ctx, project.ID)
	if err != nil {
		return nil, domerrors.Unavailable("list applicants", err)
	}
	out := make([]ApplicantView, 0, len(rows))
	for _, r := range rows {
		if !filter.match(r.Profile) {
			continue
		}
		link, _ := contact.WhatsAppLink(r.Profile.WhatsAppNumber)
		out = append(out, ApplicantView{Application: r.Application, Profile: r.Profile, ContactLink: link})
	}
	return out, nil
}

// GetUserApplication reports whether a principal has applied to a project.
type GetUserApplication struct {
	apps ports.ApplicationRepository
}

func NewGetUserApplication(apps ports.ApplicationRepository) *GetUserApplication {
	return &GetUserApplication{apps: apps}
}

// Execute returns nil, nil when there is no application.
func (uc *GetUserApplication) Execute(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Application, error) {
	a, err := uc.apps.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		return nil, domerrors.Unavailable("get application", err)
	}
	return a, nil
}

// ApplicantCount counts a project's applicants. It always equals the unfiltered ListApplicants length.
type ApplicantCount struct {
	apps ports.ApplicationRepository
}

func NewApplicantCount(apps ports.ApplicationRepository) *ApplicantCount {
	return &ApplicantCount{apps: apps}
}

func (uc *ApplicantCount) Execute(ctx context.Context, projectID domain.ProjectID) (int, error) {
	n, err := uc.apps.CountByProject(ctx, projectID)
	if err != nil {
		return 0, domerrors.Unavailable("count applicants", err)
	}
	return n, nil
}
