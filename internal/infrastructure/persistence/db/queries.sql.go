package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const upsertProfile = `
INSERT INTO profiles (id, email, full_name, section, whatsapp_number, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name,
    section = EXCLUDED.section,
    whatsapp_number = EXCLUDED.whatsapp_number,
    updated_at = EXCLUDED.updated_at
RETURNING id, email, full_name, section, whatsapp_number, created_at, updated_at
`

type UpsertProfileParams struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	Section        string
	WhatsappNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (Profile, error) {
	row := q.db.QueryRow(ctx, upsertProfile,
		arg.ID, arg.Email, arg.FullName, arg.Section, arg.WhatsappNumber, arg.CreatedAt, arg.UpdatedAt,
	)
	var i Profile
	err := row.Scan(&i.ID, &i.Email, &i.FullName, &i.Section, &i.WhatsappNumber, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getProfileByID = `
SELECT id, email, full_name, section, whatsapp_number, created_at, updated_at
FROM profiles WHERE id = $1
`

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfileByID, id)
	var i Profile
	err := row.Scan(&i.ID, &i.Email, &i.FullName, &i.Section, &i.WhatsappNumber, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createProject = `
INSERT INTO projects (id, slug, name, description, team_size, creator_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateProjectParams struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description pgtype.Text
	TeamSize    pgtype.Int4
	CreatorID   uuid.UUID
	CreatedAt   time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) error {
	_, err := q.db.Exec(ctx, createProject,
		arg.ID, arg.Slug, arg.Name, arg.Description, arg.TeamSize, arg.CreatorID, arg.CreatedAt,
	)
	return err
}

const getProjectByID = `
SELECT id, slug, name, description, team_size, creator_id, created_at
FROM projects WHERE id = $1
`

func (q *Queries) GetProjectByID(ctx context.Context, id uuid.UUID) (Project, error) {
	row := q.db.QueryRow(ctx, getProjectByID, id)
	var i Project
	err := row.Scan(&i.ID, &i.Slug, &i.Name, &i.Description, &i.TeamSize, &i.CreatorID, &i.CreatedAt)
	return i, err
}

const getProjectBySlug = `
SELECT id, slug, name, description, team_size, creator_id, created_at
FROM projects WHERE slug = $1
`

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	row := q.db.QueryRow(ctx, getProjectBySlug, slug)
	var i Project
	err := row.Scan(&i.ID, &i.Slug, &i.Name, &i.Description, &i.TeamSize, &i.CreatorID, &i.CreatedAt)
	return i, err
}

const slugExists = `SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1)`

func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	row := q.db.QueryRow(ctx, slugExists, slug)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listProjectsWithCounts = `
SELECT p.id, p.slug, p.name, p.description, p.team_size, p.creator_id, p.created_at,
       COUNT(pr.id)::int AS applicant_count
FROM projects p
LEFT JOIN applications a ON a.project_id = p.id
LEFT JOIN profiles pr ON pr.id = a.user_id
GROUP BY p.id
ORDER BY p.created_at DESC, p.id DESC
`

type ListProjectsWithCountsRow struct {
	Project
	ApplicantCount int32
}

func (q *Queries) ListProjectsWithCounts(ctx context.Context) ([]ListProjectsWithCountsRow, error) {
	rows, err := q.db.Query(ctx, listProjectsWithCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListProjectsWithCountsRow
	for rows.Next() {
		var i ListProjectsWithCountsRow
		if err := rows.Scan(
			&i.ID, &i.Slug, &i.Name, &i.Description, &i.TeamSize, &i.CreatorID, &i.CreatedAt,
			&i.ApplicantCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteApplicationsByProject = `DELETE FROM applications WHERE project_id = $1`

func (q *Queries) DeleteApplicationsByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteApplicationsByProject, projectID)
	return err
}

const deleteProject = `DELETE FROM projects WHERE id = $1`

func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteProject, id)
	return err
}

const createApplication = `
INSERT INTO applications (id, project_id, user_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT ON CONSTRAINT applications_project_user_key DO NOTHING
`

type CreateApplicationParams struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// CreateApplication returns the number of inserted rows; zero means the pair already existed.
func (q *Queries) CreateApplication(ctx context.Context, arg CreateApplicationParams) (int64, error) {
	tag, err := q.db.Exec(ctx, createApplication, arg.ID, arg.ProjectID, arg.UserID, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getApplicationByID = `
SELECT id, project_id, user_id, created_at FROM applications WHERE id = $1
`

func (q *Queries) GetApplicationByID(ctx context.Context, id uuid.UUID) (Application, error) {
	row := q.db.QueryRow(ctx, getApplicationByID, id)
	var i Application
	err := row.Scan(&i.ID, &i.ProjectID, &i.UserID, &i.CreatedAt)
	return i, err
}

const getApplicationByProjectAndUser = `
SELECT id, project_id, user_id, created_at FROM applications
WHERE project_id = $1 AND user_id = $2
`

type GetApplicationByProjectAndUserParams struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

func (q *Queries) GetApplicationByProjectAndUser(ctx context.Context, arg GetApplicationByProjectAndUserParams) (Application, error) {
	row := q.db.QueryRow(ctx, getApplicationByProjectAndUser, arg.ProjectID, arg.UserID)
	var i Application
	err := row.Scan(&i.ID, &i.ProjectID, &i.UserID, &i.CreatedAt)
	return i, err
}

const deleteOwnedApplication = `DELETE FROM applications WHERE id = $1 AND user_id = $2`

type DeleteOwnedApplicationParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteOwnedApplication(ctx context.Context, arg DeleteOwnedApplicationParams) error {
	_, err := q.db.Exec(ctx, deleteOwnedApplication, arg.ID, arg.UserID)
	return err
}

const listApplicants = `
SELECT a.id, a.project_id, a.user_id, a.created_at,
       p.id, p.email, p.full_name, p.section, p.whatsapp_number, p.created_at, p.updated_at
FROM applications a
JOIN profiles p ON p.id = a.user_id
WHERE a.project_id = $1
ORDER BY a.created_at DESC, a.id DESC
`

type ListApplicantsRow struct {
	Application Application
	Profile     Profile
}

func (q *Queries) ListApplicants(ctx context.Context, projectID uuid.UUID) ([]ListApplicantsRow, error) {
	rows, err := q.db.Query(ctx, listApplicants, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListApplicantsRow
	for rows.Next() {
		var i ListApplicantsRow
		if err := rows.Scan(
			&i.Application.ID, &i.Application.ProjectID, &i.Application.UserID, &i.Application.CreatedAt,
			&i.Profile.ID, &i.Profile.Email, &i.Profile.FullName, &i.Profile.Section,
			&i.Profile.WhatsappNumber, &i.Profile.CreatedAt, &i.Profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countApplicants = `
SELECT COUNT(*)::int FROM applications a
JOIN profiles p ON p.id = a.user_id
WHERE a.project_id = $1
`

func (q *Queries) CountApplicants(ctx context.Context, projectID uuid.UUID) (int32, error) {
	row := q.db.QueryRow(ctx, countApplicants, projectID)
	var n int32
	err := row.Scan(&n)
	return n, err
}
