package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"github.com/dahroug-h/EECE27team/internal/domain"
)

var newestFirst = &postgrest.OrderOpts{Ascending: false}

type profileRepo struct{ c *postgrest.Client }

// profileUpsert omits created_at so a conflicting update keeps the stored value.
type profileUpsert struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Section        string `json:"section"`
	WhatsAppNumber string `json:"whatsapp_number"`
	UpdatedAt      string `json:"updated_at"`
}

func (r *profileRepo) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	var rows []profileRow
	_, err := r.c.From(tableProfiles).
		Upsert(profileUpsert{
			ID:             p.ID.String(),
			Email:          p.Email,
			FullName:       p.FullName,
			Section:        string(p.Section),
			WhatsAppNumber: p.WhatsAppNumber,
			UpdatedAt:      p.UpdatedAt.Format(timeLayout),
		}, "id", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapError("upsert profile", err)
	}
	if len(rows) == 0 {
		return nil, mapError("upsert profile", fmt.Errorf("no row returned"))
	}
	return rows[0].toDomain()
}

func (r *profileRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	var rows []profileRow
	if _, err := r.c.From(tableProfiles).Select("*", "", false).Eq("id", id.String()).ExecuteTo(&rows); err != nil {
		return nil, mapError("get profile", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain()
}

type projectRepo struct{ c *postgrest.Client }

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	row := projectRow{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		TeamSize:    p.TeamSize,
		CreatorID:   p.CreatorID.String(),
		CreatedAt:   p.CreatedAt,
	}
	if _, _, err := r.c.From(tableProjects).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return mapError("create project", err)
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	return r.getBy("id", id.String())
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return r.getBy("slug", slug)
}

func (r *projectRepo) getBy(column, value string) (*domain.Project, error) {
	var rows []projectRow
	if _, err := r.c.From(tableProjects).Select("*", "", false).Eq(column, value).ExecuteTo(&rows); err != nil {
		return nil, mapError("get project", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain()
}

func (r *projectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, count, err := r.c.From(tableProjects).Select("id", "exact", true).Eq("slug", slug).Execute()
	if err != nil {
		return false, mapError("check slug", err)
	}
	return count > 0, nil
}

type projectWithCount struct {
	projectRow
	Applications []struct {
		Count int `json:"count"`
	} `json:"applications"`
}

func (r *projectRepo) ListWithApplicantCounts(ctx context.Context) ([]*domain.ProjectSummary, error) {
	var rows []projectWithCount
	_, err := r.c.From(tableProjects).
		Select("*, applications(count)", "", false).
		Order("created_at", newestFirst).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapError("list projects", err)
	}
	out := make([]*domain.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		n := 0
		if len(row.Applications) > 0 {
			n = row.Applications[0].Count
		}
		out = append(out, &domain.ProjectSummary{Project: p, ApplicantCount: n})
	}
	return out, nil
}

// Delete relies on applications.project_id ON DELETE CASCADE for atomic removal.
func (r *projectRepo) Delete(ctx context.Context, id domain.ProjectID) error {
	if _, _, err := r.c.From(tableProjects).Delete("minimal", "").Eq("id", id.String()).Execute(); err != nil {
		return mapError("delete project", err)
	}
	return nil
}

type applicationRepo struct{ c *postgrest.Client }

func (r *applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	row := applicationRow{
		ID:        a.ID.String(),
		ProjectID: a.ProjectID.String(),
		UserID:    a.UserID.String(),
		CreatedAt: a.CreatedAt,
	}
	if _, _, err := r.c.From(tableApplications).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return mapError("create application", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	var rows []applicationRow
	if _, err := r.c.From(tableApplications).Select("*", "", false).Eq("id", id.String()).ExecuteTo(&rows); err != nil {
		return nil, mapError("get application", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain()
}

func (r *applicationRepo) GetByProjectAndUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Application, error) {
	var rows []applicationRow
	_, err := r.c.From(tableApplications).Select("*", "", false).
		Eq("project_id", projectID.String()).
		Eq("user_id", userID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapError("get application", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain()
}

func (r *applicationRepo) DeleteOwned(ctx context.Context, id domain.ApplicationID, userID domain.UserID) error {
	_, _, err := r.c.From(tableApplications).Delete("minimal", "").
		Eq("id", id.String()).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return mapError("delete application", err)
	}
	return nil
}

type applicantRow struct {
	applicationRow
	Profile profileRow `json:"profiles"`
}

func (r *applicationRepo) ListApplicants(ctx context.Context, projectID domain.ProjectID) ([]*domain.Applicant, error) {
	var rows []applicantRow
	_, err := r.c.From(tableApplications).
		Select("id, project_id, user_id, created_at, profiles!inner(*)", "", false).
		Eq("project_id", projectID.String()).
		Order("created_at", newestFirst).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapError("list applicants", err)
	}
	out := make([]*domain.Applicant, 0, len(rows))
	for _, row := range rows {
		app, err := row.applicationRow.toDomain()
		if err != nil {
			return nil, err
		}
		profile, err := row.Profile.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.Applicant{Application: app, Profile: profile})
	}
	return out, nil
}

func (r *applicationRepo) CountByProject(ctx context.Context, projectID domain.ProjectID) (int, error) {
	_, count, err := r.c.From(tableApplications).
		Select("id, profiles!inner(id)", "exact", true).
		Eq("project_id", projectID.String()).
		Execute()
	if err != nil {
		return 0, mapError("count applicants", err)
	}
	return int(count), nil
}

const timeLayout = "2006-01-02T15:04:05.999999Z07:00"

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, mapError("decode "+field, err)
	}
	return id, nil
}

func (row profileRow) toDomain() (*domain.Profile, error) {
	id, err := parseID("profile id", row.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:             domain.NewUserID(id),
		Email:          row.Email,
		FullName:       row.FullName,
		Section:        domain.Section(row.Section),
		WhatsAppNumber: row.WhatsAppNumber,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (row projectRow) toDomain() (*domain.Project, error) {
	id, err := parseID("project id", row.ID)
	if err != nil {
		return nil, err
	}
	creator, err := parseID("creator id", row.CreatorID)
	if err != nil {
		return nil, err
	}
	return &domain.Project{
		ID:          domain.NewProjectID(id),
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Description,
		TeamSize:    row.TeamSize,
		CreatorID:   domain.NewUserID(creator),
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (row applicationRow) toDomain() (*domain.Application, error) {
	id, err := parseID("application id", row.ID)
	if err != nil {
		return nil, err
	}
	pid, err := parseID("project id", row.ProjectID)
	if err != nil {
		return nil, err
	}
	uid, err := parseID("user id", row.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.Application{
		ID:        domain.NewApplicationID(id),
		ProjectID: domain.NewProjectID(pid),
		UserID:    domain.NewUserID(uid),
		CreatedAt: row.CreatedAt,
	}, nil
}
