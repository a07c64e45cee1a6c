package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/specvital/migrate/pkg/config"
	"github.com/specvital/migrate/pkg/recipe"
	"github.com/specvital/migrate/pkg/runner"
	"github.com/specvital/migrate/pkg/source"
)

// selectionName names the composite built when several recipes are activated at once.
const selectionName = "specvital.cli.Selection"

var errNoRecipe = errors.New("no recipe selected: pass --recipe or set recipes in " + config.FileName)

type runFlags struct {
	dryRun      bool
	exclude     []string
	include     []string
	json        bool
	maxFileSize int64
	recipeFiles []string
	recipes     []string
	timeout     time.Duration
	workers     int
}

func (a *app) runCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Apply recipes to the Java files below path",
		Long: `Applies the selected recipes to every Java file below path
(default: the current directory) and writes the results back.

Settings are read from ` + config.FileName + ` in path when present;
flags override them.

Example:
  migrate run --recipe JUnit4to5Migration ./my-service
  migrate run --recipe MigrateHamcrestToAssertJ --dry-run .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.run(cmd, root, &flags)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&flags.recipes, "recipe", "r", nil, "recipe to activate (repeatable)")
	f.StringArrayVar(&flags.recipeFiles, "recipe-file", nil, "YAML file declaring composite recipes (repeatable)")
	f.StringArrayVar(&flags.include, "include", nil, "doublestar pattern files must match (repeatable)")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "directory name to skip (repeatable)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print diffs without writing files")
	f.BoolVar(&flags.json, "json", false, "print the report as JSON")
	f.IntVar(&flags.workers, "workers", runner.DefaultWorkers, "concurrent files (0 uses GOMAXPROCS)")
	f.DurationVar(&flags.timeout, "timeout", runner.DefaultTimeout, "timeout for the whole run")
	f.Int64Var(&flags.maxFileSize, "max-file-size", runner.DefaultMaxFileSize, "skip files larger than this many bytes")

	return cmd
}

func (a *app) run(cmd *cobra.Command, root string, flags *runFlags) error {
	cfg, err := config.Find(root)
	if err != nil {
		return err
	}
	mergeFlags(cmd, cfg, flags)

	for _, file := range cfg.RecipeFiles {
		loaded, err := recipe.LoadCompositeFile(a.registry, file)
		if err != nil {
			return err
		}
		a.logger.Debug("loaded recipe file", zap.String("path", file), zap.Int("recipes", len(loaded)))
	}

	rec, err := a.selectRecipe(cfg.Recipes)
	if err != nil {
		return err
	}

	src, err := source.NewLocalSource(root)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	result, runErr := runner.Run(cmd.Context(), src, rec,
		runner.WithDryRun(cfg.DryRun),
		runner.WithExcludePatterns(cfg.Exclude),
		runner.WithLogger(a.logger),
		runner.WithMaxFileSize(cfg.MaxFileSize),
		runner.WithPatterns(cfg.Include),
		runner.WithTimeout(cfg.Timeout),
		runner.WithWorkers(cfg.Workers),
	)
	if result == nil {
		return runErr
	}

	if flags.json {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		writeText(cmd.OutOrStdout(), result, cfg.DryRun)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
	}

	if runErr != nil {
		return runErr
	}
	if result.Stats.FilesFailed > 0 {
		return fmt.Errorf("%d files failed", result.Stats.FilesFailed)
	}
	return nil
}

// mergeFlags overrides cfg with every flag set on the command line.
func mergeFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	f := cmd.Flags()
	if f.Changed("recipe") {
		cfg.Recipes = flags.recipes
	}
	if f.Changed("include") {
		cfg.Include = flags.include
	}
	if f.Changed("exclude") {
		cfg.Exclude = flags.exclude
	}
	if f.Changed("workers") {
		cfg.Workers = flags.workers
	}
	if f.Changed("timeout") {
		cfg.Timeout = flags.timeout
	}
	if f.Changed("max-file-size") {
		cfg.MaxFileSize = flags.maxFileSize
	}
	if f.Changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	cfg.RecipeFiles = append(cfg.RecipeFiles, flags.recipeFiles...)
}

func (a *app) selectRecipe(names []string) (recipe.Recipe, error) {
	if len(names) == 0 {
		return nil, errNoRecipe
	}

	recipes := make([]recipe.Recipe, 0, len(names))
	for _, name := range names {
		rec, err := a.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	if len(recipes) == 1 {
		return recipes[0], nil
	}
	return recipe.NewComposite(selectionName, "Selected recipes", "Recipes activated on the command line.", recipes...), nil
}

func writeJSON(w io.Writer, result *runner.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Report)
}

func writeText(w io.Writer, result *runner.RunResult, dryRun bool) {
	for _, file := range result.Report.Files {
		if dryRun {
			fmt.Fprint(w, file.Diff)
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", file.Status, file.Path)
	}

	lines := result.Stats.Lines
	verb := "changed"
	if dryRun {
		verb = "would change"
	}
	fmt.Fprintf(w, "%d of %d files %s (+%d ~%d -%d), %d failed\n",
		result.Stats.FilesChanged, result.Stats.FilesScanned, verb,
		lines.Added, lines.Changed, lines.Deleted, result.Stats.FilesFailed)
}
