// Package runner applies a recipe to every Java source file below a root.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/migrate/pkg/diff"
	"github.com/specvital/migrate/pkg/domain"
	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
	"github.com/specvital/migrate/pkg/source"
)

const (
	// DefaultWorkers indicates that the runner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default run timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for processing (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during discovery.
var DefaultSkipPatterns = []string{
	".git",
	".gradle",
	".idea",
	".mvn",
	"build",
	"node_modules",
	"out",
	"target",
}

var (
	// ErrRunCancelled is returned when a run is cancelled via context.
	ErrRunCancelled = errors.New("runner: run cancelled")
	// ErrRunTimeout is returned when a run exceeds the timeout duration.
	ErrRunTimeout = errors.New("runner: run timeout")
	// ErrReadOnlySource is returned when changes must be written to a source
	// that does not implement source.Writer.
	ErrReadOnlySource = errors.New("runner: source is read-only")
)

// Phases reported in RunError.
const (
	PhaseDiscovery = "discovery"
	PhaseRead      = "read"
	PhaseParse     = "parse"
	PhaseRecipe    = "recipe"
	PhaseWrite     = "write"
)

// Runner discovers Java files and migrates them with a recipe.
type Runner struct {
	options *Options
}

// RunResult contains the outcome of a run.
type RunResult struct {
	// Report lists every changed or failed file, sorted by path.
	Report *domain.Report

	// Errors contains non-fatal errors encountered during the run.
	Errors []RunError

	// Stats summarizes the run.
	Stats RunStats
}

// RunError represents an error that occurred during a specific phase of a run.
type RunError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase is one of the Phase constants.
	Phase string
}

// Error implements the error interface.
func (e RunError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e RunError) Unwrap() error {
	return e.Err
}

// RunStats provides statistics about a run.
type RunStats struct {
	// FilesScanned is the number of Java files discovered.
	FilesScanned int

	// FilesChanged is the number of files the recipe rewrote.
	FilesChanged int

	// FilesFailed is the number of files that could not be processed.
	FilesFailed int

	// Lines sums the diff stats of all changed files.
	Lines diff.Stats

	// Duration is the total run duration.
	Duration time.Duration
}

type fileOutcome struct {
	result *domain.FileResult
	err    *RunError
}

// NewRunner creates a runner with the given options.
func NewRunner(opts ...Option) *Runner {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Runner{options: options}
}

// Run applies rec to every Java file of src. Unless the runner is in dry-run
// mode, changed files are written back through src, which must then
// implement source.Writer.
//
// The caller is responsible for calling src.Close() when done.
func (r *Runner) Run(ctx context.Context, src source.Source, rec recipe.Recipe) (*RunResult, error) {
	startTime := time.Now()
	logger := r.options.Logger.With(zap.String("recipe", rec.Name()))

	var writer source.Writer
	if !r.options.DryRun {
		w, ok := src.(source.Writer)
		if !ok {
			return nil, ErrReadOnlySource
		}
		writer = w
	}

	ctx, cancel := context.WithTimeout(ctx, r.options.Timeout)
	defer cancel()

	result := &RunResult{
		Report: &domain.Report{
			Files:    []domain.FileResult{},
			Recipe:   rec.Name(),
			RootPath: src.Root(),
		},
		Errors: []RunError{},
	}

	files, errs := r.discoverFiles(ctx, src)
	for _, err := range errs {
		logger.Warn("discovery error", zap.Error(err))
		result.Errors = append(result.Errors, RunError{
			Err:   err,
			Phase: PhaseDiscovery,
		})
	}
	result.Stats.FilesScanned = len(files)
	logger.Debug("discovered files", zap.Int("count", len(files)))

	if len(files) > 0 {
		outcomes := r.processFilesParallel(ctx, src, writer, rec, files, logger)
		for _, o := range outcomes {
			if o.err != nil {
				result.Errors = append(result.Errors, *o.err)
				result.Stats.FilesFailed++
			}
			if o.result == nil {
				continue
			}
			result.Report.Files = append(result.Report.Files, *o.result)
			if o.result.Status == domain.FileStatusChanged {
				result.Stats.FilesChanged++
				result.Stats.Lines.Add(diff.Stats{
					Files:   1,
					Added:   o.result.Stat.Added,
					Changed: o.result.Stat.Changed,
					Deleted: o.result.Stat.Deleted,
				})
			}
		}
	}

	result.Stats.Duration = time.Since(startTime)
	logger.Info("run finished",
		zap.Int("scanned", result.Stats.FilesScanned),
		zap.Int("changed", result.Stats.FilesChanged),
		zap.Int("failed", result.Stats.FilesFailed),
		zap.Bool("dryRun", r.options.DryRun),
		zap.Duration("duration", result.Stats.Duration),
	)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrRunTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrRunCancelled
		}
	}

	return result, nil
}

// discoverFiles walks the source root to find Java files.
// Returns relative paths from the source root for consistent Source.Open() usage.
func (r *Runner) discoverFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), r.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, rootPath, skipSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if !javaast.IsJavaSource(path) {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}

		if len(r.options.Patterns) > 0 && !matchesAnyPattern(relPath, r.options.Patterns) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", path, err))
			return nil
		}
		if info.Size() > r.options.MaxFileSize {
			return nil
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

func (r *Runner) processFilesParallel(
	ctx context.Context,
	src source.Source,
	writer source.Writer,
	rec recipe.Recipe,
	files []string,
	logger *zap.Logger,
) []fileOutcome {
	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu       sync.Mutex
		outcomes = make([]fileOutcome, 0, len(files))
	)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			outcome := r.processFile(gCtx, src, writer, rec, file)
			if outcome.result == nil && outcome.err == nil {
				return nil
			}
			if outcome.err != nil {
				logger.Warn("file failed",
					zap.String("path", file),
					zap.String("phase", outcome.err.Phase),
					zap.Error(outcome.err.Err),
				)
			} else if outcome.result != nil {
				logger.Debug("file changed",
					zap.String("path", file),
					zap.Strings("recipes", outcome.result.Recipes),
				)
			}

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomePath(outcomes[i]) < outcomePath(outcomes[j])
	})

	return outcomes
}

func outcomePath(o fileOutcome) string {
	switch {
	case o.result != nil:
		return o.result.Path
	case o.err != nil:
		return o.err.Path
	}
	return ""
}

// processFile returns a zero outcome for files the recipe leaves unchanged.
func (r *Runner) processFile(ctx context.Context, src source.Source, writer source.Writer, rec recipe.Recipe, path string) fileOutcome {
	content, err := readFileFromSource(ctx, src, path)
	if err != nil {
		return failed(path, PhaseRead, err)
	}

	executed, err := recipe.Execute(ctx, rec, path, content)
	if err != nil {
		phase := PhaseRecipe
		if errors.Is(err, recipe.ErrSyntax) {
			phase = PhaseParse
		}
		return failed(path, phase, err)
	}
	if !executed.Changed() {
		return fileOutcome{}
	}

	unified, err := diff.Unified(filepath.ToSlash(path), executed.Before, executed.After)
	if err != nil {
		return failed(path, PhaseRecipe, fmt.Errorf("render diff: %w", err))
	}
	stats, err := diff.ParseStats(unified)
	if err != nil {
		return failed(path, PhaseRecipe, fmt.Errorf("diff stats: %w", err))
	}

	fileResult := &domain.FileResult{
		Diff:     unified,
		Language: domain.LanguageJava,
		Path:     path,
		Recipes:  executed.Applied,
		Stat: domain.DiffStat{
			Added:   stats.Added,
			Changed: stats.Changed,
			Deleted: stats.Deleted,
		},
		Status: domain.FileStatusChanged,
	}

	if writer != nil {
		if err := writer.WriteFile(ctx, path, executed.After); err != nil {
			fileResult.Status = domain.FileStatusFailed
			return fileOutcome{
				result: fileResult,
				err:    &RunError{Err: err, Path: path, Phase: PhaseWrite},
			}
		}
	}

	return fileOutcome{result: fileResult}
}

func failed(path, phase string, err error) fileOutcome {
	return fileOutcome{
		result: &domain.FileResult{
			Language: domain.LanguageJava,
			Path:     path,
			Status:   domain.FileStatusFailed,
		},
		err: &RunError{Err: err, Path: path, Phase: phase},
	}
}

// readFileFromSource reads a file from source using relative path.
func readFileFromSource(ctx context.Context, src source.Source, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}

	return content, nil
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func shouldSkipDir(path, rootPath string, skipSet map[string]bool) bool {
	if path == rootPath {
		return false
	}
	return skipSet[filepath.Base(path)]
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	slashPath := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, slashPath); matched {
			return true
		}
	}
	return false
}

// Run is a convenience function that creates a runner and runs rec over src.
func Run(ctx context.Context, src source.Source, rec recipe.Recipe, opts ...Option) (*RunResult, error) {
	return NewRunner(opts...).Run(ctx, src, rec)
}
