package project

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/events"
	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 5000
	MaxTeamSize          = 1000
	// maxSlugConflicts bounds retries when the insert loses a race on the slug unique index.
	maxSlugConflicts = 5
)

// CreateProjectInput is the new project form. Description and TeamSize are optional.
// Limits mirror MaxNameLength, MaxDescriptionLength and MaxTeamSize.
type CreateProjectInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	TeamSize    *int    `json:"team_size" validate:"omitempty,min=1,max=1000"`
}

// CreateProject creates a project owned by the calling principal.
type CreateProject struct {
	store    ports.Store
	gate     *identity.Gate
	events   ports.EventPublisher
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCreateProject builds the use case.
func NewCreateProject(store ports.Store, gate *identity.Gate, pub ports.EventPublisher, log zerolog.Logger) *CreateProject {
	return &CreateProject{store: store, gate: gate, events: pub, validate: newValidator(), log: log}
}

// Execute validates input, allocates a slug and inserts the project in one transaction.
func (uc *CreateProject) Execute(ctx context.Context, principal *domain.Principal, input CreateProjectInput) (*domain.Project, error) {
	if _, err := uc.gate.RequireProfile(ctx, principal, "/create"); err != nil {
		return nil, err
	}
	project, err := uc.buildProject(principal.ID, input)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		err = uc.store.WithinTx(ctx, func(tx ports.Store) error {
			s, err := AllocateSlug(ctx, tx.Projects().SlugExists, project.Name)
			if err != nil {
				return err
			}
			project.Slug = s
			return tx.Projects().Create(ctx, project)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domerrors.ErrSlugTaken) {
			return nil, domerrors.Unavailable("create project", err)
		}
		uc.log.Warn().Str("slug", project.Slug).Int("attempt", attempt).Msg("slug taken by concurrent create; retrying")
		if attempt >= maxSlugConflicts {
			return nil, domerrors.ErrSlugExhausted
		}
	}
	uc.log.Info().
		Str("project_id", project.ID.String()).
		Str("slug", project.Slug).
		Str("user_id", principal.ID.String()).
		Msg("project created")
	events.Publish(ctx, uc.events, uc.log, ports.Event{
		Name:        ports.EventProjectCreated,
		ProjectID:   project.ID.String(),
		ProjectSlug: project.Slug,
		UserID:      principal.ID.String(),
	})
	return project, nil
}

func (uc *CreateProject) buildProject(creator domain.UserID, input CreateProjectInput) (*domain.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Description != nil {
		d := strings.TrimSpace(*input.Description)
		input.Description = &d
		if d == "" {
			input.Description = nil
		}
	}
	if err := uc.validate.Struct(&input); err != nil {
		return nil, validationError(err)
	}
	return &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		TeamSize:    input.TeamSize,
		CreatorID:   creator,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domerrors.NewValidation("", err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domerrors.NewValidation(fe.Field(), "is required")
	case "max":
		if fe.Field() == "team_size" {
			return domerrors.NewValidation(fe.Field(), "must be at most "+fe.Param())
		}
		return domerrors.NewValidation(fe.Field(), "is too long")
	case "min":
		return domerrors.NewValidation(fe.Field(), "must be a positive integer")
	default:
		return domerrors.NewValidation(fe.Field(), "is invalid")
	}
}
