package postgres

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/db"
)

type ProjectRepository struct {
	q     *db.Queries
	store *Store
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	params := db.CreateProjectParams{
		ID:        p.ID.UUID,
		Slug:      p.Slug,
		Name:      p.Name,
		CreatorID: p.CreatorID.UUID,
		CreatedAt: p.CreatedAt,
	}
	if p.Description != nil {
		params.Description = pgtype.Text{String: *p.Description, Valid: true}
	}
	if p.TeamSize != nil {
		if *p.TeamSize < 1 || *p.TeamSize > math.MaxInt32 {
			return domerrors.NewValidation("team_size", "out of range")
		}
		params.TeamSize = pgtype.Int4{Int32: int32(*p.TeamSize), Valid: true}
	}
	if err := r.q.CreateProject(ctx, params); err != nil {
		return mapError("create project", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	p, err := r.q.GetProjectByID(ctx, id.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get project", err)
	}
	return dbProjectToDomain(p), nil
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	p, err := r.q.GetProjectBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get project by slug", err)
	}
	return dbProjectToDomain(p), nil
}

func (r *ProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ok, err := r.q.SlugExists(ctx, slug)
	if err != nil {
		return false, mapError("check slug", err)
	}
	return ok, nil
}

func (r *ProjectRepository) ListWithApplicantCounts(ctx context.Context) ([]*domain.ProjectSummary, error) {
	rows, err := r.q.ListProjectsWithCounts(ctx)
	if err != nil {
		return nil, mapError("list projects", err)
	}
	out := make([]*domain.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.ProjectSummary{
			Project:        dbProjectToDomain(row.Project),
			ApplicantCount: int(row.ApplicantCount),
		})
	}
	return out, nil
}

// Delete removes applications and then the project in one transaction. The FK cascade covers
// rows inserted by writers that bypass this store.
func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	return r.store.WithinTx(ctx, func(tx ports.Store) error {
		q := tx.(*Store).q
		if err := q.DeleteApplicationsByProject(ctx, id.UUID); err != nil {
			return mapError("delete applications", err)
		}
		if err := q.DeleteProject(ctx, id.UUID); err != nil {
			return mapError("delete project", err)
		}
		return nil
	})
}

func dbProjectToDomain(p db.Project) *domain.Project {
	out := &domain.Project{
		ID:        domain.NewProjectID(p.ID),
		Slug:      p.Slug,
		Name:      p.Name,
		CreatorID: domain.NewUserID(p.CreatorID),
		CreatedAt: p.CreatedAt,
	}
	if p.Description.Valid {
		d := p.Description.String
		out.Description = &d
	}
	if p.TeamSize.Valid {
		n := int(p.TeamSize.Int32)
		out.TeamSize = &n
	}
	return out
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
