package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/application/project"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/memory"
)

type recorder struct {
	mu     sync.Mutex
	events []ports.Event
}

func (r *recorder) Publish(_ context.Context, ev ports.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}

type env struct {
	store    *memory.Store
	gate     *identity.Gate
	events   *recorder
	apply    *Apply
	withdraw *Withdraw
	list     *ListApplicants
	mine     *GetUserApplication
	count    *ApplicantCount
	create   *project.CreateProject
	delete   *project.DeleteProject
	projects *project.ListProjects
}

func newEnv() *env {
	store := memory.NewStore()
	gate := identity.NewGate(store.Profiles())
	rec := &recorder{}
	log := zerolog.Nop()
	return &env{
		store:    store,
		gate:     gate,
		events:   rec,
		apply:    NewApply(store, gate, rec, log),
		withdraw: NewWithdraw(store, gate, rec, log),
		list:     NewListApplicants(store.Applications(), gate),
		mine:     NewGetUserApplication(store.Applications()),
		count:    NewApplicantCount(store.Applications()),
		create:   project.NewCreateProject(store, gate, rec, log),
		delete:   project.NewDeleteProject(store, rec, log),
		projects: project.NewListProjects(store.Projects()),
	}
}

func (e *env) student(t *testing.T, name string, section domain.Section, phone string) *domain.Principal {
	t.Helper()
	p := &domain.Principal{ID: domain.NewUserID(uuid.New()), Email: name + "@example.com"}
	_, err := identity.NewCreateProfile(e.store.Profiles(), zerolog.Nop()).Execute(context.Background(), p,
		identity.CreateProfileInput{FullName: name, Section: string(section), WhatsAppNumber: phone})
	require.NoError(t, err)
	return p
}

func (e *env) project(t *testing.T, owner *domain.Principal, name string) *domain.Project {
	t.Helper()
	p, err := e.create.Execute(context.Background(), owner, project.CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func (e *env) assertCount(t *testing.T, p *domain.Project, want int) {
	t.Helper()
	n, err := e.count.Execute(context.Background(), p.ID)
	require.NoError(t, err)
	all, err := e.list.Execute(context.Background(), nil, p, ApplicantFilter{})
	require.NoError(t, err)
	assert.Equal(t, want, n)
	assert.Len(t, all, n)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	p := e.project(t, owner, "Team Alpha")

	first, created, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.True(t, created)
	second, created, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	e.assertCount(t, p, 1)
	assert.Equal(t, []string{ports.EventProjectCreated, ports.EventApplicationCreated}, e.events.names())

	got, err := e.mine.Execute(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestApplyRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	p := e.project(t, owner, "Solo")

	_, _, err := e.apply.Execute(ctx, owner, p.ID)
	assert.ErrorIs(t, err, domerrors.ErrSelfApplication)
	assert.ErrorIs(t, err, domerrors.ErrUnauthorized)

	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	_, _, err = e.apply.Execute(ctx, bob, domain.NewProjectID(uuid.New()))
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	_, _, err = e.apply.Execute(ctx, nil, p.ID)
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)

	stranger := &domain.Principal{ID: domain.NewUserID(uuid.New())}
	_, _, err = e.apply.Execute(ctx, stranger, p.ID)
	var redirect *domerrors.ProfileRequiredError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/projects/"+p.Slug, redirect.Destination)

	e.assertCount(t, p, 0)
}

func TestConcurrentApplyKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	p := e.project(t, owner, "Busy")

	const n = 16
	ids := make([]domain.ApplicationID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app, _, err := e.apply.Execute(ctx, bob, p.ID)
			assert.NoError(t, err)
			if app != nil {
				ids[i] = app.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	e.assertCount(t, p, 1)
}

// hidingStore makes the first pre-insert lookup miss, as if another request inserted the
// row right after it.
type hidingStore struct {
	*memory.Store
	hidden bool
}

func (s *hidingStore) Applications() ports.ApplicationRepository {
	return &hidingApps{ApplicationRepository: s.Store.Applications(), parent: s}
}

type hidingApps struct {
	ports.ApplicationRepository
	parent *hidingStore
}

func (h *hidingApps) GetByProjectAndUser(ctx context.Context, pid domain.ProjectID, uid domain.UserID) (*domain.Application, error) {
	if !h.parent.hidden {
		h.parent.hidden = true
		return nil, nil
	}
	return h.ApplicationRepository.GetByProjectAndUser(ctx, pid, uid)
}

func TestApplyAbsorbsDuplicateInsert(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	p := e.project(t, owner, "Race")
	existing, _, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)

	racy := NewApply(&hidingStore{Store: e.store}, e.gate, nil, zerolog.Nop())
	app, created, err := racy.Execute(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, app.ID)
	e.assertCount(t, p, 1)
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	eve := e.student(t, "Eve", domain.Section3, "01222222222")
	p := e.project(t, owner, "Team")

	app, _, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)

	removed, err := e.withdraw.Execute(ctx, eve, app.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotApplicationOwner)
	assert.False(t, removed)
	e.assertCount(t, p, 1)

	stranger := &domain.Principal{ID: domain.NewUserID(uuid.New())}
	_, err = e.withdraw.Execute(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, domerrors.ErrProfileRequired)
	e.assertCount(t, p, 1)

	removed, err = e.withdraw.Execute(ctx, bob, app.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = e.withdraw.Execute(ctx, bob, app.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second withdraw changes nothing")
	removed, err = e.withdraw.Execute(ctx, bob, domain.NewApplicationID(uuid.New()))
	require.NoError(t, err)
	assert.False(t, removed)
	e.assertCount(t, p, 0)

	mine, err := e.mine.Execute(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, mine)

	// re-applying after a withdraw creates a fresh row
	again, created, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, app.ID, again.ID)

	assert.Equal(t, []string{
		ports.EventProjectCreated,
		ports.EventApplicationCreated,
		ports.EventApplicationWithdrawn,
		ports.EventApplicationCreated,
	}, e.events.names())
}

func TestListApplicantsOrderFilterAndLinks(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	amal := e.student(t, "Amal Hassan", domain.Section2, "012-345 6789")
	omar := e.student(t, "Omar Hassan", domain.Section3, "+20 111 222 3333")
	sara := e.student(t, "Sara", domain.Section2, "01555555555")
	p := e.project(t, owner, "Team")

	for _, who := range []*domain.Principal{amal, omar, sara} {
		_, _, err := e.apply.Execute(ctx, who, p.ID)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := e.list.Execute(ctx, nil, p, ApplicantFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sara", all[0].Profile.FullName)
	assert.Equal(t, "Omar Hassan", all[1].Profile.FullName)
	assert.Equal(t, "Amal Hassan", all[2].Profile.FullName)
	assert.Equal(t, "https://wa.me/200123456789", all[2].ContactLink)
	assert.Equal(t, "https://wa.me/201112223333", all[1].ContactLink)

	hassan, err := e.list.Execute(ctx, owner, p, ApplicantFilter{Query: "hASSan"})
	require.NoError(t, err)
	assert.Len(t, hassan, 2)

	sec2, err := e.list.Execute(ctx, owner, p, ApplicantFilter{Query: "hassan", Section: domain.Section2})
	require.NoError(t, err)
	require.Len(t, sec2, 1)
	assert.Equal(t, amal.ID, sec2[0].Profile.ID)

	stranger := &domain.Principal{ID: domain.NewUserID(uuid.New())}
	_, err = e.list.Execute(ctx, stranger, p, ApplicantFilter{})
	var redirect *domerrors.ProfileRequiredError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, "/projects/team", redirect.Destination)
}

func TestCountsTrackLedgerThroughDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := e.student(t, "Owner", domain.Section1, "01000000000")
	bob := e.student(t, "Bob", domain.Section2, "01111111111")
	eve := e.student(t, "Eve", domain.Section3, "01222222222")
	p := e.project(t, owner, "Team")
	other := e.project(t, owner, "Other")

	_, _, err := e.apply.Execute(ctx, bob, p.ID)
	require.NoError(t, err)
	_, _, err = e.apply.Execute(ctx, eve, p.ID)
	require.NoError(t, err)
	_, _, err = e.apply.Execute(ctx, eve, other.ID)
	require.NoError(t, err)

	summaries, err := e.projects.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	counts := map[domain.ProjectID]int{}
	for _, s := range summaries {
		counts[s.Project.ID] = s.ApplicantCount
	}
	assert.Equal(t, 2, counts[p.ID])
	assert.Equal(t, 1, counts[other.ID])

	require.NoError(t, e.delete.Execute(ctx, owner, p.ID))
	e.assertCount(t, p, 0)
	e.assertCount(t, other, 1)
	mine, err := e.mine.Execute(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, mine)
}
