package ledger

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/events"
	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// Withdraw removes the caller's own application.
type Withdraw struct {
	store  ports.Store
	gate   *identity.Gate
	events ports.EventPublisher
	log    zerolog.Logger
}

// NewWithdraw builds the use case.
func NewWithdraw(store ports.Store, gate *identity.Gate, pub ports.EventPublisher, log zerolog.Logger) *Withdraw {
	return &Withdraw{store: store, gate: gate, events: pub, log: log}
}

// Execute reports whether this call removed the application. A missing application is a
// successful no-op (false, nil). Another principal's application yields ErrNotApplicationOwner
// and is left in place.
func (uc *Withdraw) Execute(ctx context.Context, principal *domain.Principal, id domain.ApplicationID) (bool, error) {
	if _, err := uc.gate.RequireProfile(ctx, principal, "/"); err != nil {
		return false, err
	}
	var withdrawn *domain.Application
	err := uc.store.WithinTx(ctx, func(tx ports.Store) error {
		app, err := tx.Applications().GetByID(ctx, id)
		if err != nil {
			return domerrors.Unavailable("get application", err)
		}
		if app == nil {
			return nil
		}
		if app.UserID != principal.ID {
			return domerrors.ErrNotApplicationOwner
		}
		if err := tx.Applications().DeleteOwned(ctx, id, principal.ID); err != nil {
			return domerrors.Unavailable("delete application", err)
		}
		withdrawn = app
		return nil
	})
	if err != nil || withdrawn == nil {
		return false, err
	}
	uc.log.Info().
		Str("application_id", id.String()).
		Str("project_id", withdrawn.ProjectID.String()).
		Str("user_id", principal.ID.String()).
		Msg("application withdrawn")
	events.Publish(ctx, uc.events, uc.log, ports.Event{
		Name:          ports.EventApplicationWithdrawn,
		ProjectID:     withdrawn.ProjectID.String(),
		UserID:        principal.ID.String(),
		ApplicationID: id.String(),
	})
	return true, nil
}
