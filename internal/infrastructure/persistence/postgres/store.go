// Package postgres implements ports.Store over a pgx connection pool.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/db"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	slugConstraint = "projects_slug_key"
	pairConstraint = "applications_project_user_key"
	userFKey       = "applications_user_id_fkey"
)

type Store struct {
	pool *pgxpool.Pool
	q    *db.Queries
	tx   pgx.Tx
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: db.New(pool)}
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, domerrors.Unavailable("open pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domerrors.Unavailable("ping database", err)
	}
	return pool, nil
}

func (s *Store) Profiles() ports.ProfileRepository         { return &ProfileRepository{q: s.q} }
func (s *Store) Projects() ports.ProjectRepository         { return &ProjectRepository{q: s.q, store: s} }
func (s *Store) Applications() ports.ApplicationRepository { return &ApplicationRepository{q: s.q} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domerrors.Unavailable("begin transaction", err)
	}
	defer tx.Rollback(ctx)
	if err := fn(&Store{pool: s.pool, q: s.q.WithTx(tx), tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return domerrors.Unavailable("ping database", err)
	}
	return nil
}

// mapError turns constraint violations into domain errors and everything else into ErrStoreUnavailable.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == slugConstraint:
			return domerrors.ErrSlugTaken
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == pairConstraint:
			return domerrors.ErrDuplicateApplication
		case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == userFKey:
			return domerrors.ErrProfileNotFound
		case pgErr.Code == pgForeignKeyViolation && pgErr.TableName == "applications":
			return domerrors.ErrProjectNotFound
		}
	}
	return domerrors.Unavailable(op, err)
}

var _ ports.Store = (*Store)(nil)
