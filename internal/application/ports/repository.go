package ports

import (
	"context"

	"github.com/dahroug-h/EECE27team/internal/domain"
)

// ProfileRepository defines persistence for profiles, keyed by principal id.
type ProfileRepository interface {
	// Upsert inserts or replaces the profile for profile.ID. CreatedAt of an existing row is kept.
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	// GetByID returns nil, nil when no profile exists.
	GetByID(ctx context.Context, id domain.UserID) (*domain.Profile, error)
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	// Create returns domerrors.ErrSlugTaken when the slug unique constraint is violated.
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListWithApplicantCounts returns projects newest first with live counts.
	ListWithApplicantCounts(ctx context.Context) ([]*domain.ProjectSummary, error)
	// Delete removes the project and every application that references it as one unit.
	Delete(ctx context.Context, id domain.ProjectID) error
}

// ApplicationRepository defines persistence for applications. It is the only writer of application rows.
type ApplicationRepository interface {
	// Create returns domerrors.ErrDuplicateApplication when (project_id, user_id) already exists.
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error)
	GetByProjectAndUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Application, error)
	// DeleteOwned removes the application only if it belongs to userID. Missing rows are not an error.
	DeleteOwned(ctx context.Context, id domain.ApplicationID, userID domain.UserID) error
	// ListApplicants joins applications with profiles, newest first.
	ListApplicants(ctx context.Context, projectID domain.ProjectID) ([]*domain.Applicant, error)
	CountByProject(ctx context.Context, projectID domain.ProjectID) (int, error)
}

// Store groups the repositories over one consistency domain.
type Store interface {
	Profiles() ProfileRepository
	Projects() ProjectRepository
	Applications() ApplicationRepository
	// WithinTx runs fn against a Store bound to a single transaction. The transaction commits
	// when fn returns nil and rolls back otherwise. Stores without transactions run fn directly.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
