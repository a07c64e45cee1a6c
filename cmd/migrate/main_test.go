package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/specvital/migrate/pkg/config"
	"github.com/specvital/migrate/pkg/domain"
	"github.com/specvital/migrate/pkg/recipe"
)

const ignoredTest = `import org.junit.Ignore;

class FooTest {
    @Ignore
    void t() {
    }
}
`

const disabledTest = `import org.junit.jupiter.api.Disabled;

class FooTest {
    @Disabled
    void t() {
    }
}
`

func newTestApp() *app {
	a := newApp()
	a.newLogger = func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }
	return a
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), newTestApp(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func projectWith(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readProjectFile(t *testing.T, root, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(content)
}

func TestListCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "specvital.junit5.JUnit4to5Migration")
	assert.Contains(t, stdout, "specvital.hamcrest.HamcrestMatcherToAssertJ")
	assert.Contains(t, stdout, "specvital.testcontainers.GetHostMigration")
}

func TestDescribeCommand(t *testing.T) {
	t.Run("should list the children of a composite", func(t *testing.T) {
		stdout, _, err := runCLI(t, "describe", "JUnit4to5Migration")

		require.NoError(t, err)
		assert.Contains(t, stdout, "specvital.junit5.JUnit4to5Migration\n")
		assert.Contains(t, stdout, "  - specvital.junit5.AssertToAssertions\n")
		assert.Contains(t, stdout, "  - specvital.junit5.UpdateTestAnnotation\n")
	})

	t.Run("should fail for an unknown recipe", func(t *testing.T) {
		_, _, err := runCLI(t, "describe", "NoSuchRecipe")

		assert.ErrorIs(t, err, recipe.ErrUnknownRecipe)
	})
}

func TestRunCommand(t *testing.T) {
	t.Run("should rewrite files in place", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{"FooTest.java": ignoredTest})

		// When
		stdout, _, err := runCLI(t, "run", "--recipe", "IgnoreToDisabled", root)

		// Then
		require.NoError(t, err)
		assert.Equal(t, disabledTest, readProjectFile(t, root, "FooTest.java"))
		assert.Contains(t, stdout, "changed  FooTest.java\n")
		assert.Contains(t, stdout, "1 of 1 files changed (+0 ~2 -0), 0 failed\n")
	})

	t.Run("should print diffs in dry-run mode", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{"FooTest.java": ignoredTest})

		// When
		stdout, _, err := runCLI(t, "run", "--recipe", "IgnoreToDisabled", "--dry-run", root)

		// Then
		require.NoError(t, err)
		assert.Equal(t, ignoredTest, readProjectFile(t, root, "FooTest.java"))
		assert.Contains(t, stdout, "--- a/FooTest.java\n")
		assert.Contains(t, stdout, "+    @Disabled\n")
		assert.Contains(t, stdout, "would change")
	})

	t.Run("should let flags override the project file", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{
			config.FileName: "recipes:\n  - specvital.junit5.IgnoreToDisabled\ndryRun: true\n",
			"FooTest.java":  ignoredTest,
		})

		// When
		_, _, err := runCLI(t, "run", "--dry-run=false", root)

		// Then
		require.NoError(t, err)
		assert.Equal(t, disabledTest, readProjectFile(t, root, "FooTest.java"))
	})

	t.Run("should fail without a recipe", func(t *testing.T) {
		root := projectWith(t, map[string]string{"FooTest.java": ignoredTest})

		_, _, err := runCLI(t, "run", root)

		assert.ErrorIs(t, err, errNoRecipe)
	})

	t.Run("should print a JSON report", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{"FooTest.java": ignoredTest})

		// When
		stdout, _, err := runCLI(t, "run", "--recipe", "IgnoreToDisabled", "--dry-run", "--json", root)

		// Then
		require.NoError(t, err)
		var report domain.Report
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, "specvital.junit5.IgnoreToDisabled", report.Recipe)
		require.Len(t, report.Files, 1)
		assert.Equal(t, domain.FileStatusChanged, report.Files[0].Status)
		assert.Equal(t, domain.DiffStat{Changed: 2}, report.Files[0].Stat)
	})

	t.Run("should load composites from recipe files", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{
			"FooTest.java": ignoredTest,
			"recipes.yaml": "type: specvital/recipe\nname: com.example.Cleanup\nrecipeList:\n  - IgnoreToDisabled\n",
		})

		// When
		_, _, err := runCLI(t, "run",
			"--recipe-file", filepath.Join(root, "recipes.yaml"),
			"--recipe", "com.example.Cleanup",
			root,
		)

		// Then
		require.NoError(t, err)
		assert.Equal(t, disabledTest, readProjectFile(t, root, "FooTest.java"))
	})

	t.Run("should report failed files on stderr", func(t *testing.T) {
		// Given
		root := projectWith(t, map[string]string{
			"BrokenTest.java": "import org.junit.Ignore;\nclass BrokenTest { int x = ; }\n",
		})

		// When
		_, stderr, err := runCLI(t, "run", "--recipe", "IgnoreToDisabled", root)

		// Then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 files failed")
		assert.Contains(t, stderr, "[parse] BrokenTest.java")
	})
}

func TestSelectRecipe(t *testing.T) {
	a := newTestApp()

	t.Run("should return a single recipe as is", func(t *testing.T) {
		rec, err := a.selectRecipe([]string{"IgnoreToDisabled"})

		require.NoError(t, err)
		assert.Equal(t, "specvital.junit5.IgnoreToDisabled", rec.Name())
	})

	t.Run("should combine several recipes in order", func(t *testing.T) {
		rec, err := a.selectRecipe([]string{"GetHostMigration", "IgnoreToDisabled"})

		require.NoError(t, err)
		composite, ok := rec.(recipe.Composite)
		require.True(t, ok)
		require.Len(t, composite.Recipes(), 2)
		assert.Equal(t, "specvital.testcontainers.GetHostMigration", composite.Recipes()[0].Name())
	})
}
