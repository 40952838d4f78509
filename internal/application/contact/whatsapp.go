// Package contact builds outbound contact links for applicants.
package contact

import (
	"strings"

	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// CountryCode is prepended to numbers that do not already carry it.
const CountryCode = "20"

const waBase = "https://wa.me/"

// WhatsAppLink turns a free-form phone number into a wa.me deep link.
func WhatsAppLink(number string) (string, error) {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", domerrors.NewValidation("whatsapp_number", "contains no digits")
	}
	if !strings.HasPrefix(digits, CountryCode) {
		digits = CountryCode + digits
	}
	return waBase + digits, nil
}
