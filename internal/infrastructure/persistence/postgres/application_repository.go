package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/db"
)

type ApplicationRepository struct {
	q *db.Queries
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	n, err := r.q.CreateApplication(ctx, db.CreateApplicationParams{
		ID:        a.ID.UUID,
		ProjectID: a.ProjectID.UUID,
		UserID:    a.UserID.UUID,
		CreatedAt: a.CreatedAt,
	})
	if err != nil {
		return mapError("create application", err)
	}
	if n == 0 {
		return domerrors.ErrDuplicateApplication
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	a, err := r.q.GetApplicationByID(ctx, id.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get application", err)
	}
	return dbApplicationToDomain(a), nil
}

func (r *ApplicationRepository) GetByProjectAndUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Application, error) {
	a, err := r.q.GetApplicationByProjectAndUser(ctx, db.GetApplicationByProjectAndUserParams{
		ProjectID: projectID.UUID,
		UserID:    userID.UUID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get application", err)
	}
	return dbApplicationToDomain(a), nil
}

func (r *ApplicationRepository) DeleteOwned(ctx context.Context, id domain.ApplicationID, userID domain.UserID) error {
	if err := r.q.DeleteOwnedApplication(ctx, db.DeleteOwnedApplicationParams{ID: id.UUID, UserID: userID.UUID}); err != nil {
		return mapError("delete application", err)
	}
	return nil
}

func (r *ApplicationRepository) ListApplicants(ctx context.Context, projectID domain.ProjectID) ([]*domain.Applicant, error) {
	rows, err := r.q.ListApplicants(ctx, projectID.UUID)
	if err != nil {
		return nil, mapError("list applicants", err)
	}
	out := make([]*domain.Applicant, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.Applicant{
			Application: dbApplicationToDomain(row.Application),
			Profile:     dbProfileToDomain(row.Profile),
		})
	}
	return out, nil
}

func (r *ApplicationRepository) CountByProject(ctx context.Context, projectID domain.ProjectID) (int, error) {
	n, err := r.q.CountApplicants(ctx, projectID.UUID)
	if err != nil {
		return 0, mapError("count applicants", err)
	}
	return int(n), nil
}

func dbApplicationToDomain(a db.Application) *domain.Application {
	return &domain.Application{
		ID:        domain.NewApplicationID(a.ID),
		ProjectID: domain.NewProjectID(a.ProjectID),
		UserID:    domain.NewUserID(a.UserID),
		CreatedAt: a.CreatedAt,
	}
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)
