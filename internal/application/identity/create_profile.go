package identity

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// CreateProfileInput is the submitted setup form.
type CreateProfileInput struct {
	FullName       string `validate:"required,max=120"`
	Section        string `validate:"required,section"`
	WhatsAppNumber string `validate:"required,whatsapp"`
}

// CreateProfile stores the caller's profile. Resubmission replaces the previous values.
type CreateProfile struct {
	profiles ports.ProfileRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCreateProfile builds the use case.
func NewCreateProfile(profiles ports.ProfileRepository, log zerolog.Logger) *CreateProfile {
	return &CreateProfile{profiles: profiles, validate: NewValidator(), log: log}
}

// Execute validates input and upserts the profile keyed by the principal id.
func (uc *CreateProfile) Execute(ctx context.Context, principal *domain.Principal, input CreateProfileInput) (*domain.Profile, error) {
	if principal == nil || principal.ID.IsZero() {
		return nil, domerrors.ErrUnauthenticated
	}
	input.FullName = strings.TrimSpace(input.FullName)
	input.Section = strings.TrimSpace(input.Section)
	input.WhatsAppNumber = strings.TrimSpace(input.WhatsAppNumber)
	if err := uc.validate.Struct(&input); err != nil {
		return nil, validationError(err)
	}
	now := time.Now().UTC()
	stored, err := uc.profiles.Upsert(ctx, &domain.Profile{
		ID:             principal.ID,
		Email:          principal.Email,
		FullName:       input.FullName,
		Section:        domain.Section(input.Section),
		WhatsAppNumber: input.WhatsAppNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, domerrors.Unavailable("upsert profile", err)
	}
	uc.log.Info().Str("user_id", principal.ID.String()).Str("section", input.Section).Msg("profile saved")
	return stored, nil
}

// GetProfile looks up a profile by principal id.
type GetProfile struct {
	profiles ports.ProfileRepository
}

// NewGetProfile builds the use case.
func NewGetProfile(profiles ports.ProfileRepository) *GetProfile {
	return &GetProfile{profiles: profiles}
}

// Execute returns nil, nil when the principal has no profile yet.
func (uc *GetProfile) Execute(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, domerrors.Unavailable("get profile", err)
	}
	return p, nil
}
