package domain

import (
	"github.com/google/uuid"
)

// UserID is a value object for principal identity. A profile shares its owner's UserID.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// ParseUserID parses the canonical string form.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID{UUID: id}, nil
}

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// IsZero reports whether the id is unset.
func (u UserID) IsZero() bool { return u.UUID == uuid.Nil }

// Principal is the authenticated identity issuing a request.
type Principal struct {
	ID    UserID
	Email string
}
