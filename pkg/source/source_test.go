package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalSource(t *testing.T) {
	t.Run("should resolve root to an absolute path", func(t *testing.T) {
		tmpDir := t.TempDir()

		src, err := NewLocalSource(tmpDir)

		require.NoError(t, err)
		defer src.Close()
		assert.True(t, filepath.IsAbs(src.Root()))
	})

	t.Run("should reject a missing path", func(t *testing.T) {
		_, err := NewLocalSource("/non/existent/path")

		assert.Error(t, err)
	})

	t.Run("should reject a regular file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "Foo.java")
		require.NoError(t, os.WriteFile(file, []byte("class Foo {}"), 0o644))

		_, err := NewLocalSource(file)

		assert.ErrorIs(t, err, ErrNotDirectory)
	})
}

func TestLocalSource_OpenAndWrite(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o755))
	path := filepath.Join("src", "FooTest.java")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, path), []byte("before"), 0o600))

	src, err := NewLocalSource(tmpDir)
	require.NoError(t, err)
	defer src.Close()

	t.Run("should read relative paths", func(t *testing.T) {
		r, err := src.Open(context.Background(), path)
		require.NoError(t, err)
		defer r.Close()

		content, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "before", string(content))
	})

	t.Run("should replace content and keep the mode", func(t *testing.T) {
		require.NoError(t, src.WriteFile(context.Background(), path, []byte("after")))

		content, err := os.ReadFile(filepath.Join(tmpDir, path))
		require.NoError(t, err)
		assert.Equal(t, "after", string(content))

		info, err := os.Stat(filepath.Join(tmpDir, path))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		entries, err := os.ReadDir(filepath.Join(tmpDir, "src"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("should refuse paths outside the root", func(t *testing.T) {
		_, err := src.Open(context.Background(), filepath.Join("..", "etc", "passwd"))
		assert.ErrorIs(t, err, ErrOutsideRoot)

		err = src.WriteFile(context.Background(), "/tmp/x.java", nil)
		assert.ErrorIs(t, err, ErrOutsideRoot)
	})

	t.Run("should honor cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.Open(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
