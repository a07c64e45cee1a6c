// Package all registers every built-in recipe and the composites declared in
// recipes.yaml.
// Usage: _ "github.com/specvital/migrate/pkg/recipes/all"
package all

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/specvital/migrate/pkg/recipe"
	_ "github.com/specvital/migrate/pkg/recipes/hamcrest"
	_ "github.com/specvital/migrate/pkg/recipes/junit5"
	_ "github.com/specvital/migrate/pkg/recipes/testcontainers"
)

//go:embed recipes.yaml
var compositesYAML []byte

func init() {
	if _, err := recipe.LoadComposites(recipe.DefaultRegistry(), bytes.NewReader(compositesYAML)); err != nil {
		panic(fmt.Sprintf("load built-in composite recipes: %v", err))
	}
}
