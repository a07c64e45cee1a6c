// Command migrate rewrites Java test sources with migration recipes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/specvital/migrate/pkg/recipe"
	_ "github.com/specvital/migrate/pkg/recipes/all"
)

// app holds state shared by all subcommands.
type app struct {
	logger   *zap.Logger
	registry *recipe.Registry
	verbose  bool

	// newLogger builds the logger once flags are parsed.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func newApp() *app {
	return &app{
		registry:  recipe.DefaultRegistry(),
		newLogger: productionLogger,
	}
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate Java test sources with rewrite recipes",
		Long: `migrate applies source-to-source recipes to Java test code:
JUnit 4 to JUnit 5, Hamcrest to AssertJ or JUnit 5 assertions,
and Testcontainers cleanups.

Recipes are named by their fully qualified name or by the last segment
of it. Run "migrate list" to see every available recipe.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.runCommand())
	root.AddCommand(a.listCommand())
	root.AddCommand(a.describeCommand())
	return root
}

func execute(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
