package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/memory"
)

func newPrincipal() *domain.Principal {
	return &domain.Principal{ID: domain.NewUserID(uuid.New()), Email: "student@example.com"}
}

func validInput() CreateProfileInput {
	return CreateProfileInput{FullName: "  Mona Hassan ", Section: "2", WhatsAppNumber: "012-345 6789"}
}

func TestRequireProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	gate := NewGate(store.Profiles())
	principal := newPrincipal()

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := gate.RequireProfile(ctx, nil, "/p/x")
		assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
		assert.ErrorIs(t, err, domerrors.ErrUnauthorized)
	})

	t.Run("missing profile redirects with destination", func(t *testing.T) {
		_, err := gate.RequireProfile(ctx, principal, "/p/team-alpha")
		var redirect *domerrors.ProfileRequiredError
		require.True(t, errors.As(err, &redirect))
		assert.Equal(t, "/p/team-alpha", redirect.Destination)
		assert.Equal(t, "/setup-profile?redirect=%2Fp%2Fteam-alpha", redirect.SetupPath)
	})

	t.Run("passes once profile exists", func(t *testing.T) {
		_, err := NewCreateProfile(store.Profiles(), zerolog.Nop()).Execute(ctx, principal, validInput())
		require.NoError(t, err)
		p, err := gate.RequireProfile(ctx, principal, "/")
		require.NoError(t, err)
		assert.Equal(t, "Mona Hassan", p.FullName)
	})
}

func TestSafeDestination(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/p/team":              "/p/team",
		"/p/team?tab=2":        "/p/team?tab=2",
		"https://evil.example": "/",
		"//evil.example/x":     "/",
		"/\\evil.example":      "/",
		"relative/path":        "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeDestination(in), in)
	}
}

func TestCreateProfileUpserts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewCreateProfile(store.Profiles(), zerolog.Nop())
	principal := newPrincipal()

	first, err := uc.Execute(ctx, principal, validInput())
	require.NoError(t, err)
	assert.Equal(t, principal.ID, first.ID)
	assert.Equal(t, principal.Email, first.Email)

	in := validInput()
	in.Section = "4"
	second, err := uc.Execute(ctx, principal, in)
	require.NoError(t, err)
	assert.Equal(t, domain.Section4, second.Section)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

	got, err := NewGetProfile(store.Profiles()).Execute(ctx, principal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Section4, got.Section)
}

func TestCreateProfileValidation(t *testing.T) {
	ctx := context.Background()
	uc := NewCreateProfile(memory.NewStore().Profiles(), zerolog.Nop())
	principal := newPrincipal()

	cases := []struct {
		name  string
		edit  func(*CreateProfileInput)
		field string
	}{
		{"blank name", func(in *CreateProfileInput) { in.FullName = "   " }, "full_name"},
		{"unknown section", func(in *CreateProfileInput) { in.Section = "7" }, "section"},
		{"letters in number", func(in *CreateProfileInput) { in.WhatsAppNumber = "call me" }, "whatsapp_number"},
		{"too few digits", func(in *CreateProfileInput) { in.WhatsAppNumber = "12-34" }, "whatsapp_number"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validInput()
			c.edit(&in)
			_, err := uc.Execute(ctx, principal, in)
			var ve *domerrors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, c.field, ve.Field)
		})
	}

	_, err := uc.Execute(ctx, nil, validInput())
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}

func TestValidPhoneNumber(t *testing.T) {
	assert.True(t, ValidPhoneNumber("01234567890"))
	assert.True(t, ValidPhoneNumber("+20 (123) 456-7890"))
	assert.False(t, ValidPhoneNumber("0123"))
	assert.False(t, ValidPhoneNumber("0123456789012345678"))
	assert.False(t, ValidPhoneNumber("0123x456789"))
}
