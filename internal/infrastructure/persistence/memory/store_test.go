package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/domain"
	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

func seedProject(t *testing.T, s *Store, slug string, createdAt time.Time) *domain.Project {
	t.Helper()
	p := &domain.Project{
		ID:        domain.NewProjectID(uuid.New()),
		Slug:      slug,
		Name:      slug,
		CreatorID: domain.NewUserID(uuid.New()),
		CreatedAt: createdAt,
	}
	require.NoError(t, s.Projects().Create(context.Background(), p))
	return p
}

func seedProfile(t *testing.T, s *Store) domain.UserID {
	t.Helper()
	id := domain.NewUserID(uuid.New())
	_, err := s.Profiles().Upsert(context.Background(), &domain.Profile{ID: id, FullName: "Student", Section: domain.Section1})
	require.NoError(t, err)
	return id
}

func TestProjectSlugUnique(t *testing.T) {
	s := NewStore()
	seedProject(t, s, "team-alpha", time.Now())
	err := s.Projects().Create(context.Background(), &domain.Project{ID: domain.NewProjectID(uuid.New()), Slug: "team-alpha"})
	assert.ErrorIs(t, err, domerrors.ErrSlugTaken)
}

func TestApplicationPairUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProject(t, s, "p", time.Now())
	user := seedProfile(t, s)

	first := &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: p.ID, UserID: user, CreatedAt: time.Now()}
	require.NoError(t, s.Applications().Create(ctx, first))
	second := &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: p.ID, UserID: user, CreatedAt: time.Now()}
	assert.ErrorIs(t, s.Applications().Create(ctx, second), domerrors.ErrDuplicateApplication)

	n, err := s.Applications().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProject(t, s, "p", time.Now())
	other := seedProject(t, s, "q", time.Now())
	user := seedProfile(t, s)
	a := &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: p.ID, UserID: user}
	b := &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: other.ID, UserID: user}
	require.NoError(t, s.Applications().Create(ctx, a))
	require.NoError(t, s.Applications().Create(ctx, b))

	require.NoError(t, s.Projects().Delete(ctx, p.ID))

	got, err := s.Applications().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	kept, err := s.Applications().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx ports.Store) error {
		require.NoError(t, tx.Projects().Create(ctx, &domain.Project{ID: domain.NewProjectID(uuid.New()), Slug: "gone"}))
		exists, err := tx.Projects().SlugExists(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, exists)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := s.Projects().SlugExists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListOrdersNewestFirst(t *testing.T) {
	s := NewStore()
	now := time.Now()
	seedProject(t, s, "old", now.Add(-time.Hour))
	seedProject(t, s, "new", now)

	list, err := s.Projects().ListWithApplicantCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Project.Slug)
	assert.Equal(t, "old", list[1].Project.Slug)
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id := domain.NewUserID(uuid.New())
	first := time.Now().Add(-24 * time.Hour)
	_, err := s.Profiles().Upsert(ctx, &domain.Profile{ID: id, FullName: "A", CreatedAt: first, UpdatedAt: first})
	require.NoError(t, err)
	got, err := s.Profiles().Upsert(ctx, &domain.Profile{ID: id, FullName: "B", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "B", got.FullName)
	assert.True(t, got.CreatedAt.Equal(first))
}

func TestApplicationRequiresApplicantProfile(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProject(t, s, "p", time.Now())
	user := seedProfile(t, s)
	require.NoError(t, s.Applications().Create(ctx, &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: p.ID, UserID: user}))

	ghost := &domain.Application{ID: domain.NewApplicationID(uuid.New()), ProjectID: p.ID, UserID: domain.NewUserID(uuid.New())}
	err := s.Applications().Create(ctx, ghost)
	assert.ErrorIs(t, err, domerrors.ErrProfileNotFound)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	n, err := s.Applications().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	list, err := s.Projects().ListWithApplicantCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, n)
	assert.Equal(t, n, list[0].ApplicantCount)
}
