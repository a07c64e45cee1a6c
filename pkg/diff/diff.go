// Package diff renders the unified diff of a rewritten file and summarizes
// unified diffs into line statistics.
package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	godiff "github.com/sourcegraph/go-diff/diff"
)

// ContextLines is the number of unchanged lines around each hunk.
const ContextLines = 3

// Unified returns the unified diff between before and after, labelled with
// a/path and b/path. Identical inputs produce "".
func Unified(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  ContextLines,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return text, nil
}

// Stats counts the files and lines a diff touches. A removed line directly
// followed by an added one counts as a single changed line.
type Stats struct {
	Files   int
	Added   int
	Changed int
	Deleted int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Files += other.Files
	s.Added += other.Added
	s.Changed += other.Changed
	s.Deleted += other.Deleted
}

// ParseStats summarizes a (multi-file) unified diff.
func ParseStats(unified string) (Stats, error) {
	if unified == "" {
		return Stats{}, nil
	}
	files, err := godiff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return Stats{}, fmt.Errorf("parse diff: %w", err)
	}

	var stats Stats
	for _, f := range files {
		st := f.Stat()
		stats.Files++
		stats.Added += int(st.Added)
		stats.Changed += int(st.Changed)
		stats.Deleted += int(st.Deleted)
	}
	return stats, nil
}
