// Package supabase implements ports.Store against a Supabase project through its PostgREST API.
// PostgREST has no client transactions: WithinTx runs fn directly, the unique constraints catch
// lost races and ON DELETE CASCADE keeps project deletion atomic.
package supabase

import (
	"context"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

const (
	tableProfiles     = "profiles"
	tableProjects     = "projects"
	tableApplications = "applications"
)

type Store struct {
	client *postgrest.Client
}

// NewClient builds a PostgREST client authenticated with the service key.
func NewClient(supabaseURL, serviceKey string) (*postgrest.Client, error) {
	client := postgrest.NewClient(strings.TrimRight(supabaseURL, "/")+"/rest/v1", "", map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	})
	if client.ClientError != nil {
		return nil, domerrors.Unavailable("init postgrest client", client.ClientError)
	}
	return client, nil
}

func NewStore(client *postgrest.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Profiles() ports.ProfileRepository         { return &profileRepo{c: s.client} }
func (s *Store) Projects() ports.ProjectRepository         { return &projectRepo{c: s.client} }
func (s *Store) Applications() ports.ApplicationRepository { return &applicationRepo{c: s.client} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	return fn(s)
}

func (s *Store) Ping(ctx context.Context) error {
	if _, _, err := s.client.From(tableProfiles).Select("id", "", true).Limit(1, "").Execute(); err != nil {
		return domerrors.Unavailable("ping postgrest", err)
	}
	return nil
}

// mapError recognises Postgres error codes in PostgREST error responses.
func mapError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "23505") && strings.Contains(msg, "projects_slug_key"):
		return domerrors.ErrSlugTaken
	case strings.Contains(msg, "23505") && strings.Contains(msg, "applications_project_user_key"):
		return domerrors.ErrDuplicateApplication
	case strings.Contains(msg, "23503") && strings.Contains(msg, "applications_user_id_fkey"):
		return domerrors.ErrProfileNotFound
	case strings.Contains(msg, "23503") && strings.Contains(msg, "applications_project_id_fkey"):
		return domerrors.ErrProjectNotFound
	}
	return domerrors.Unavailable(op, err)
}

type profileRow struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Section        string    `json:"section"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type projectRow struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	TeamSize    *int      `json:"team_size"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type applicationRow struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

var _ ports.Store = (*Store)(nil)
