package project

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

var urlSafe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Team Alpha!":         "team-alpha",
		"Team Alpha?":         "team-alpha",
		"  --Hello   World--": "hello-world",
		"C++ & Go":            "c-go",
		"ML_2024 / Vision":    "ml-2024-vision",
		"already-a-slug":      "already-a-slug",
		"!!!":                 "",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestBaseSlugFallbacks(t *testing.T) {
	for _, name := range []string{"!!!", "   ", "مشروع التخرج", "🚀"} {
		base := BaseSlug(name)
		assert.NotEmpty(t, base, name)
		assert.Regexp(t, urlSafe, base, name)
	}
	assert.True(t, strings.HasPrefix(BaseSlug("!!!"), "project-"))
	assert.NotEqual(t, BaseSlug("!!!"), BaseSlug("!!!"))
}

func TestAllocateSlugProbesSequentially(t *testing.T) {
	taken := map[string]bool{"team-alpha": true, "team-alpha-2": true, "team-alpha-3": true}
	var tried []string
	exists := func(_ context.Context, s string) (bool, error) {
		tried = append(tried, s)
		return taken[s], nil
	}
	got, err := AllocateSlug(context.Background(), exists, "Team Alpha!")
	require.NoError(t, err)
	assert.Equal(t, "team-alpha-4", got)
	assert.Equal(t, []string{"team-alpha", "team-alpha-2", "team-alpha-3", "team-alpha-4"}, tried)
}

func TestAllocateSlugStoreFailure(t *testing.T) {
	exists := func(context.Context, string) (bool, error) { return false, errors.New("connection reset") }
	_, err := AllocateSlug(context.Background(), exists, "x")
	assert.ErrorIs(t, err, domerrors.ErrStoreUnavailable)
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("team-alpha-2"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("Team"))
	assert.False(t, IsSlug("-team"))
	assert.False(t, IsSlug("team_alpha"))
	assert.False(t, IsSlug("../etc"))
}
