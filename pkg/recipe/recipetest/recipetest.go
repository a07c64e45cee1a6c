// Package recipetest provides helpers for testing recipes against Java
// source snippets.
package recipetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/specvital/migrate/pkg/recipe"
)

// Run executes r on source and returns the rewritten text.
func Run(t *testing.T, r recipe.Recipe, source string) string {
	t.Helper()
	result, err := recipe.Execute(context.Background(), r, "src/test/java/FooTest.java", []byte(source))
	require.NoError(t, err)
	return string(result.After)
}

// RewritesTo checks that r turns before into after and that running it again
// on after changes nothing.
func RewritesTo(t *testing.T, r recipe.Recipe, before, after string) {
	t.Helper()

	got := Run(t, r, before)
	if diff := cmp.Diff(after, got); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", r.Name(), diff)
		return
	}

	again := Run(t, r, got)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("%s is not idempotent (-first +second):\n%s", r.Name(), diff)
	}
}

// Unchanged checks that r leaves source byte for byte identical.
func Unchanged(t *testing.T, r recipe.Recipe, source string) {
	t.Helper()
	RewritesTo(t, r, source, source)
}
