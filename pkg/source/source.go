// Package source abstracts the file tree a migration runs against.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDirectory is returned when the source root is not a directory.
	ErrNotDirectory = errors.New("source: root is not a directory")
	// ErrOutsideRoot is returned for paths that escape the source root.
	ErrOutsideRoot = errors.New("source: path escapes root")
)

// Source provides read access to files below a root directory.
// Paths passed to Open are relative to Root().
type Source interface {
	Root() string
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Close() error
}

// Writer is implemented by sources that accept rewritten files.
type Writer interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// LocalSource is a Source backed by a directory on the local filesystem.
type LocalSource struct {
	root string
}

// NewLocalSource returns a source rooted at path, which must be an existing
// directory.
func NewLocalSource(path string) (*LocalSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return &LocalSource{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *LocalSource) Root() string {
	return s.root
}

// Open opens the file at the root-relative path.
func (s *LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// WriteFile replaces the file at the root-relative path, keeping its mode.
// The content is written to a temporary file first and renamed into place.
func (s *LocalSource) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(full); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Close releases the source. Local sources hold no resources.
func (s *LocalSource) Close() error {
	return nil
}

func (s *LocalSource) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	full := filepath.Join(s.root, path)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return full, nil
}
