// Package memory is an in-process Store for development and tests. It enforces the same
// uniqueness and cascade rules as the SQL schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

type state struct {
	profiles     map[domain.UserID]domain.Profile
	projects     map[domain.ProjectID]domain.Project
	applications map[domain.ApplicationID]domain.Application
}

func newState() *state {
	return &state{
		profiles:     make(map[domain.UserID]domain.Profile),
		projects:     make(map[domain.ProjectID]domain.Project),
		applications: make(map[domain.ApplicationID]domain.Application),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.applications {
		c.applications[k] = v
	}
	return c
}

// Store keeps all rows in maps guarded by one mutex. A transaction works on a copy that
// replaces the live state on commit.
type Store struct {
	mu   *sync.Mutex
	root **state
	tx   *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	st := newState()
	return &Store{mu: &sync.Mutex{}, root: &st}
}

// view runs fn on the state visible to s, locking unless s is a transaction.
func (s *Store) view(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(*s.root)
}

func (s *Store) Profiles() ports.ProfileRepository         { return profileRepo{s} }
func (s *Store) Projects() ports.ProjectRepository         { return projectRepo{s} }
func (s *Store) Applications() ports.ApplicationRepository { return applicationRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := (*s.root).clone()
	if err := fn(&Store{mu: s.mu, root: s.root, tx: work}); err != nil {
		return err
	}
	*s.root = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

type profileRepo struct{ s *Store }

func (r profileRepo) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	var out domain.Profile
	err := r.s.view(func(st *state) error {
		row := *p
		if existing, ok := st.profiles[p.ID]; ok {
			row.CreatedAt = existing.CreatedAt
		}
		st.profiles[p.ID] = row
		out = row
		return nil
	})
	return &out, err
}

func (r profileRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	var out *domain.Profile
	err := r.s.view(func(st *state) error {
		if p, ok := st.profiles[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

type projectRepo struct{ s *Store }

func (r projectRepo) Create(ctx context.Context, p *domain.Project) error {
	return r.s.view(func(st *state) error {
		for _, existing := range st.projects {
			if existing.Slug == p.Slug {
				return domerrors.ErrSlugTaken
			}
		}
		st.projects[p.ID] = *p
		return nil
	})
}

func (r projectRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	var out *domain.Project
	err := r.s.view(func(st *state) error {
		if p, ok := st.projects[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r projectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	var out *domain.Project
	err := r.s.view(func(st *state) error {
		for _, p := range st.projects {
			if p.Slug == slug {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r projectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	p, err := r.GetBySlug(ctx, slug)
	return p != nil, err
}

func (r projectRepo) ListWithApplicantCounts(ctx context.Context) ([]*domain.ProjectSummary, error) {
	var out []*domain.ProjectSummary
	err := r.s.view(func(st *state) error {
		counts := make(map[domain.ProjectID]int)
		for _, a := range st.applications {
			// Same join as ListApplicants.
			if _, ok := st.profiles[a.UserID]; ok {
				counts[a.ProjectID]++
			}
		}
		out = make([]*domain.ProjectSummary, 0, len(st.projects))
		for _, p := range st.projects {
			p := p
			out = append(out, &domain.ProjectSummary{Project: &p, ApplicantCount: counts[p.ID]})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Project, out[j].Project
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(a.ID.String(), b.ID.String()) > 0
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, err
}

func (r projectRepo) Delete(ctx context.Context, id domain.ProjectID) error {
	return r.s.view(func(st *state) error {
		for aid, a := range st.applications {
			if a.ProjectID == id {
				delete(st.applications, aid)
			}
		}
		delete(st.projects, id)
		return nil
	})
}

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.projects[a.ProjectID]; !ok {
			return domerrors.ErrProjectNotFound
		}
		if _, ok := st.profiles[a.UserID]; !ok {
			return domerrors.ErrProfileNotFound
		}
		for _, existing := range st.applications {
			if existing.ProjectID == a.ProjectID && existing.UserID == a.UserID {
				return domerrors.ErrDuplicateApplication
			}
		}
		st.applications[a.ID] = *a
		return nil
	})
}

func (r applicationRepo) GetByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	var out *domain.Application
	err := r.s.view(func(st *state) error {
		if a, ok := st.applications[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r applicationRepo) GetByProjectAndUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Application, error) {
	var out *domain.Application
	err := r.s.view(func(st *state) error {
		for _, a := range st.applications {
			if a.ProjectID == projectID && a.UserID == userID {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r applicationRepo) DeleteOwned(ctx context.Context, id domain.ApplicationID, userID domain.UserID) error {
	return r.s.view(func(st *state) error {
		if a, ok := st.applications[id]; ok && a.UserID == userID {
			delete(st.applications, id)
		}
		return nil
	})
}

func (r applicationRepo) ListApplicants(ctx context.Context, projectID domain.ProjectID) ([]*domain.Applicant, error) {
	var out []*domain.Applicant
	err := r.s.view(func(st *state) error {
		for _, a := range st.applications {
			if a.ProjectID != projectID {
				continue
			}
			p, ok := st.profiles[a.UserID]
			if !ok {
				continue
			}
			a := a
			out = append(out, &domain.Applicant{Application: &a, Profile: &p})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Application, out[j].Application
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(a.ID.String(), b.ID.String()) > 0
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, err
}

func (r applicationRepo) CountByProject(ctx context.Context, projectID domain.ProjectID) (int, error) {
	applicants, err := r.ListApplicants(ctx, projectID)
	return len(applicants), err
}

var _ ports.Store = (*Store)(nil)
