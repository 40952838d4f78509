package project

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/events"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// DeleteProject removes a project and its applications. Only the creator may call it.
type DeleteProject struct {
	store  ports.Store
	events ports.EventPublisher
	log    zerolog.Logger
}

// NewDeleteProject builds the use case.
func NewDeleteProject(store ports.Store, pub ports.EventPublisher, log zerolog.Logger) *DeleteProject {
	return &DeleteProject{store: store, events: pub, log: log}
}

// Execute checks ownership and deletes inside one transaction so a concurrent reader never
// sees the project without its applications or the reverse.
func (uc *DeleteProject) Execute(ctx context.Context, principal *domain.Principal, projectID domain.ProjectID) error {
	if principal == nil || principal.ID.IsZero() {
		return domerrors.ErrUnauthenticated
	}
	var slug string
	err := uc.store.WithinTx(ctx, func(tx ports.Store) error {
		p, err := tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return domerrors.Unavailable("get project", err)
		}
		if p == nil {
			return domerrors.ErrProjectNotFound
		}
		if p.CreatorID != principal.ID {
			return domerrors.ErrNotCreator
		}
		slug = p.Slug
		if err := tx.Projects().Delete(ctx, projectID); err != nil {
			return domerrors.Unavailable("delete project", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().
		Str("project_id", projectID.String()).
		Str("user_id", principal.ID.String()).
		Msg("project deleted")
	events.Publish(ctx, uc.events, uc.log, ports.Event{
		Name:        ports.EventProjectDeleted,
		ProjectID:   projectID.String(),
		ProjectSlug: slug,
		UserID:      principal.ID.String(),
	})
	return nil
}
