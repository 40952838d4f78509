package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// ParseProjectID parses the canonical string form.
func ParseProjectID(s string) (ProjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProjectID{}, err
	}
	return ProjectID{UUID: id}, nil
}

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// Project is a posted team. Slug is assigned once at creation and never changes.
type Project struct {
	ID          ProjectID
	Slug        string
	Name        string
	Description *string
	TeamSize    *int
	CreatorID   UserID
	CreatedAt   time.Time
}

// ProjectSummary is a project annotated with its live applicant count.
// The count is computed at read time and is not part of Project.
type ProjectSummary struct {
	Project        *Project
	ApplicantCount int
}
