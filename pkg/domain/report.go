package domain

// DiffStat counts changed lines in a rewritten file.
type DiffStat struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
}

// FileResult describes what happened to a single source file.
type FileResult struct {
	// Diff is the unified diff between the original and rewritten source.
	// Empty when the file is unchanged.
	Diff string `json:"diff,omitempty"`
	// Language is the programming language of this file.
	Language Language `json:"language"`
	// Path is the file path relative to the report root.
	Path string `json:"path"`
	// Recipes lists the recipes that changed this file, in execution order.
	Recipes []string `json:"recipes,omitempty"`
	// Stat summarizes the diff.
	Stat DiffStat `json:"stat"`
	// Status is the outcome for this file.
	Status FileStatus `json:"status"`
}

// Report represents the result of running a recipe over a project.
type Report struct {
	// Files contains one entry per changed or failed file.
	Files []FileResult `json:"files"`
	// Recipe is the name of the recipe that was run.
	Recipe string `json:"recipe"`
	// RootPath is the root directory path of the migrated project.
	RootPath string `json:"rootPath"`
}

// CountChanged returns the number of changed files.
func (r Report) CountChanged() int {
	count := 0
	for _, f := range r.Files {
		if f.Status == FileStatusChanged {
			count++
		}
	}
	return count
}

// TotalStat sums the diff stats of all files.
func (r Report) TotalStat() DiffStat {
	var total DiffStat
	for _, f := range r.Files {
		total.Added += f.Stat.Added
		total.Changed += f.Stat.Changed
		total.Deleted += f.Stat.Deleted
	}
	return total
}
