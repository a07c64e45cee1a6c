package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specvital/migrate/pkg/recipe"
)

func (a *app) listCommand() *cobra.Command {
	var recipeFiles []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadRecipeFiles(recipeFiles); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, rec := range a.registry.All() {
				fmt.Fprintf(tw, "%s\t%s\n", rec.Name(), rec.DisplayName())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringArrayVar(&recipeFiles, "recipe-file", nil, "YAML file declaring composite recipes (repeatable)")
	return cmd
}

func (a *app) describeCommand() *cobra.Command {
	var recipeFiles []string

	cmd := &cobra.Command{
		Use:   "describe [recipe]",
		Short: "Show a recipe and, for composites, the recipes it runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadRecipeFiles(recipeFiles); err != nil {
				return err
			}

			rec, err := a.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			describe(cmd.OutOrStdout(), rec, 0)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&recipeFiles, "recipe-file", nil, "YAML file declaring composite recipes (repeatable)")
	return cmd
}

func (a *app) loadRecipeFiles(files []string) error {
	for _, file := range files {
		if _, err := recipe.LoadCompositeFile(a.registry, file); err != nil {
			return err
		}
	}
	return nil
}

func describe(w io.Writer, rec recipe.Recipe, depth int) {
	indent := fmt.Sprintf("%*s", depth*2, "")
	if depth == 0 {
		fmt.Fprintf(w, "%s\n  %s\n", rec.Name(), rec.DisplayName())
		if rec.Description() != "" {
			fmt.Fprintf(w, "\n  %s\n", rec.Description())
		}
	} else {
		fmt.Fprintf(w, "%s- %s\n", indent, rec.Name())
	}

	c, ok := rec.(recipe.Composite)
	if !ok {
		return
	}
	if depth == 0 {
		fmt.Fprintf(w, "\n  Recipes:\n")
	}
	for _, child := range c.Recipes() {
		describe(w, child, depth+1)
	}
}
