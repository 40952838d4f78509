package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/db"
)

type ProfileRepository struct {
	q *db.Queries
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	row, err := r.q.UpsertProfile(ctx, db.UpsertProfileParams{
		ID:             p.ID.UUID,
		Email:          p.Email,
		FullName:       p.FullName,
		Section:        string(p.Section),
		WhatsappNumber: p.WhatsAppNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	})
	if err != nil {
		return nil, mapError("upsert profile", err)
	}
	return dbProfileToDomain(row), nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	row, err := r.q.GetProfileByID(ctx, id.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get profile", err)
	}
	return dbProfileToDomain(row), nil
}

func dbProfileToDomain(p db.Profile) *domain.Profile {
	return &domain.Profile{
		ID:             domain.NewUserID(p.ID),
		Email:          p.Email,
		FullName:       p.FullName,
		Section:        domain.Section(p.Section),
		WhatsAppNumber: p.WhatsappNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)
