package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

func TestWhatsAppLink(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"012-345 6789", "https://wa.me/200123456789"},
		{"+20 100 123 4567", "https://wa.me/201001234567"},
		{"(010) 1234.5678", "https://wa.me/2001012345678"},
		{"201001234567", "https://wa.me/201001234567"},
	}
	for _, tc := range cases {
		got, err := WhatsAppLink(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestWhatsAppLinkNoDigits(t *testing.T) {
	for _, in := range []string{"", "   ", "call me"} {
		_, err := WhatsAppLink(in)
		assert.ErrorIs(t, err, domerrors.ErrValidation, in)
	}
}
