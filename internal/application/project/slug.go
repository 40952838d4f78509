package project

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	domerrors "github.com/dahroug-h/EECE27team/internal/domain/errors"
)

// SlugExistsFunc reports whether a slug is already used by a project.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Normalize lowercases name and collapses every run outside [a-z0-9] into one hyphen,
// trimming hyphens at both ends.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// BaseSlug derives the slug stem for name. Names without ASCII alphanumerics are
// transliterated first; if that still yields nothing a random stem is generated.
func BaseSlug(name string) string {
	if base := Normalize(name); base != "" {
		return base
	}
	if base := Normalize(slug.Make(name)); base != "" {
		return base
	}
	return "project-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// AllocateSlug tries base, base-2, base-3, ... until exists reports a free slug.
// The search has no upper bound; it stops only on success or store failure.
func AllocateSlug(ctx context.Context, exists SlugExistsFunc, name string) (string, error) {
	base := BaseSlug(name)
	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", domerrors.Unavailable("check slug", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// IsSlug reports whether s has the shape of an allocated slug.
func IsSlug(s string) bool {
	return slug.IsSlug(s) && !strings.Contains(s, "_")
}
