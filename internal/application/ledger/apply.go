// Package ledger records which principals applied to which projects.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/events"
	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// ProjectPath is where a principal resumes after profile setup interrupted an action on p.
func ProjectPath(p *domain.Project) string {
	return "/projects/" + p.Slug
}

// Apply registers the caller's interest in a project. Applying twice is not an error.
type Apply struct {
	store  ports.Store
	gate   *identity.Gate
	events ports.EventPublisher
	log    zerolog.Logger
}

// NewApply builds the use case.
func NewApply(store ports.Store, gate *identity.Gate, pub ports.EventPublisher, log zerolog.Logger) *Apply {
	return &Apply{store: store, gate: gate, events: pub, log: log}
}

// Execute returns the caller's application for projectID and whether this call created it.
func (uc *Apply) Execute(ctx context.Context, principal *domain.Principal, projectID domain.ProjectID) (*domain.Application, bool, error) {
	if principal == nil || principal.ID.IsZero() {
		return nil, false, domerrors.ErrUnauthenticated
	}
	project, err := uc.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, false, domerrors.Unavailable("get project", err)
	}
	if project == nil {
		return nil, false, domerrors.ErrProjectNotFound
	}
	if _, err := uc.gate.RequireProfile(ctx, principal, ProjectPath(project)); err != nil {
		return nil, false, err
	}
	if project.CreatorID == principal.ID {
		return nil, false, domerrors.ErrSelfApplication
	}

	apps := uc.store.Applications()
	existing, err := apps.GetByProjectAndUser(ctx, projectID, principal.ID)
	if err != nil {
		return nil, false, domerrors.Unavailable("get application", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	app := &domain.Application{
		ID:        domain.NewApplicationID(uuid.New()),
		ProjectID: projectID,
		UserID:    principal.ID,
		CreatedAt: time.Now().UTC(),
	}
	switch err := apps.Create(ctx, app); {
	case err == nil:
	case errors.Is(err, domerrors.ErrDuplicateApplication):
		// lost a race with a concurrent apply by the same principal
		existing, err := apps.GetByProjectAndUser(ctx, projectID, principal.ID)
		if err != nil {
			return nil, false, domerrors.Unavailable("get application", err)
		}
		if existing == nil {
			return nil, false, domerrors.ErrDuplicateApplication
		}
		return existing, false, nil
	case errors.Is(err, domerrors.ErrProjectNotFound):
		// project deleted between the lookup and the insert
		return nil, false, domerrors.ErrProjectNotFound
	case errors.Is(err, domerrors.ErrProfileNotFound):
		return nil, false, domerrors.ErrProfileNotFound
	default:
		return nil, false, domerrors.Unavailable("create application", err)
	}

	uc.log.Info().
		Str("application_id", app.ID.String()).
		Str("project_id", projectID.String()).
		Str("user_id", principal.ID.String()).
		Msg("application created")
	events.Publish(ctx, uc.events, uc.log, ports.Event{
		Name:          ports.EventApplicationCreated,
		ProjectID:     projectID.String(),
		ProjectSlug:   project.Slug,
		UserID:        principal.ID.String(),
		ApplicationID: app.ID.String(),
	})
	return app, true, nil
}
