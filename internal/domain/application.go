package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationID is a value object for application identity.
type ApplicationID struct{ uuid.UUID }

// NewApplicationID creates a new ApplicationID from uuid.
func NewApplicationID(id uuid.UUID) ApplicationID { return ApplicationID{UUID: id} }

// ParseApplicationID parses the canonical string form.
func ParseApplicationID(s string) (ApplicationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ApplicationID{}, err
	}
	return ApplicationID{UUID: id}, nil
}

// String returns the canonical string form.
func (a ApplicationID) String() string { return a.UUID.String() }

// Application marks a user as available for a project. (ProjectID, UserID) is unique.
type Application struct {
	ID        ApplicationID
	ProjectID ProjectID
	UserID    UserID
	CreatedAt time.Time
}

// Applicant is an application joined with the applicant's profile.
type Applicant struct {
	Application *Application
	Profile     *Profile
}
