package identity

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// Contact number limits, counted in digits.
const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 15
)

var fieldNames = map[string]string{
	"FullName":       "full_name",
	"Section":        "section",
	"WhatsAppNumber": "whatsapp_number",
}

// NewValidator returns a validator with the profile tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		return domain.Section(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("whatsapp", func(fl validator.FieldLevel) bool {
		return ValidPhoneNumber(fl.Field().String())
	})
	return v
}

// ValidPhoneNumber accepts digits with common separators and an optional leading "+".
func ValidPhoneNumber(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= MinPhoneDigits && digits <= MaxPhoneDigits
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domerrors.NewValidation("", err.Error())
	}
	fe := verrs[0]
	field := fieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return domerrors.NewValidation(field, "is required")
	case "max":
		return domerrors.NewValidation(field, "must be at most "+fe.Param()+" characters")
	case "section":
		return domerrors.NewValidation(field, "must be one of 1, 2, 3, 4")
	case "whatsapp":
		return domerrors.NewValidation(field, "is not a valid phone number")
	default:
		return domerrors.NewValidation(field, "is invalid")
	}
}
