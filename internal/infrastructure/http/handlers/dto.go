package handlers

import (
	"time"

	"github.com/dahroug-h/EECE27team/internal/application/ledger"
	"github.com/dahroug-h/EECE27team/internal/domain"
)

type profileJSON struct {
	ID             string    `json:"id"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name"`
	Section        string    `json:"section"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toProfileJSON(p *domain.Profile) *profileJSON {
	if p == nil {
		return nil
	}
	return &profileJSON{
		ID:             p.ID.String(),
		Email:          p.Email,
		FullName:       p.FullName,
		Section:        string(p.Section),
		WhatsAppNumber: p.WhatsAppNumber,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type projectJSON struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	TeamSize       *int      `json:"team_size"`
	CreatorID      string    `json:"creator_id"`
	CreatedAt      time.Time `json:"created_at"`
	ApplicantCount *int      `json:"applicant_count,omitempty"`
}

func toProjectJSON(p *domain.Project, count *int) projectJSON {
	return projectJSON{
		ID:             p.ID.String(),
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		TeamSize:       p.TeamSize,
		CreatorID:      p.CreatorID.String(),
		CreatedAt:      p.CreatedAt,
		ApplicantCount: count,
	}
}

type applicationJSON struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toApplicationJSON(a *domain.Application) *applicationJSON {
	if a == nil {
		return nil
	}
	return &applicationJSON{
		ID:        a.ID.String(),
		ProjectID: a.ProjectID.String(),
		UserID:    a.UserID.String(),
		CreatedAt: a.CreatedAt,
	}
}

// applicantJSON omits the applicant's email; creators reach applicants through ContactLink.
type applicantJSON struct {
	Application *applicationJSON `json:"application"`
	Profile     struct {
		ID             string `json:"id"`
		FullName       string `json:"full_name"`
		Section        string `json:"section"`
		WhatsAppNumber string `json:"whatsapp_number"`
	} `json:"profile"`
	ContactLink string `json:"contact_link,omitempty"`
}

func toApplicantJSON(v ledger.ApplicantView) applicantJSON {
	out := applicantJSON{Application: toApplicationJSON(v.Application), ContactLink: v.ContactLink}
	out.Profile.ID = v.Profile.ID.String()
	out.Profile.FullName = v.Profile.FullName
	out.Profile.Section = string(v.Profile.Section)
	out.Profile.WhatsAppNumber = v.Profile.WhatsAppNumber
	return out
}
