package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CompositeType is the document type of declarative recipes.
const CompositeType = "specvital/recipe"

// CompositeRecipe runs a list of recipes in order.
type CompositeRecipe struct {
	name        string
	displayName string
	description string
	recipes     []Recipe
}

// NewComposite builds a composite from already constructed recipes.
func NewComposite(name, displayName, description string, recipes ...Recipe) *CompositeRecipe {
	return &CompositeRecipe{name: name, displayName: displayName, description: description, recipes: recipes}
}

func (c *CompositeRecipe) Name() string        { return c.name }
func (c *CompositeRecipe) DisplayName() string { return c.displayName }
func (c *CompositeRecipe) Description() string { return c.description }
func (c *CompositeRecipe) Recipes() []Recipe   { return c.recipes }

type compositeSpec struct {
	Type        string   `yaml:"type"`
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"displayName"`
	Description string   `yaml:"description"`
	RecipeList  []string `yaml:"recipeList"`
}

// LoadCompositeFile loads declarative recipes from a YAML file into reg.
func LoadCompositeFile(reg *Registry, path string) ([]*CompositeRecipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe file %s: %w", path, err)
	}
	defer f.Close()

	composites, err := LoadComposites(reg, f)
	if err != nil {
		return nil, fmt.Errorf("load recipe file %s: %w", path, err)
	}
	return composites, nil
}

// LoadComposites decodes a multi-document YAML stream of declarative recipes
// and registers them in reg. Entries of a recipeList may name recipes from the
// same stream or recipes already registered; any other name fails the load
// and nothing is registered.
func LoadComposites(reg *Registry, r io.Reader) ([]*CompositeRecipe, error) {
	specs, err := decodeComposites(r)
	if err != nil {
		return nil, err
	}

	staged := make(map[string]*CompositeRecipe, len(specs))
	composites := make([]*CompositeRecipe, 0, len(specs))
	for _, spec := range specs {
		if _, dup := staged[spec.Name]; dup {
			return nil, fmt.Errorf("recipe %s declared twice", spec.Name)
		}
		c := &CompositeRecipe{name: spec.Name, displayName: spec.DisplayName, description: spec.Description}
		staged[spec.Name] = c
		composites = append(composites, c)
	}

	for i, spec := range specs {
		c := composites[i]
		for _, childName := range spec.RecipeList {
			if child, ok := staged[childName]; ok {
				c.recipes = append(c.recipes, child)
				continue
			}
			child, err := reg.Lookup(childName)
			if err != nil {
				return nil, fmt.Errorf("recipe %s: %w", spec.Name, err)
			}
			c.recipes = append(c.recipes, child)
		}
	}

	for _, c := range composites {
		if err := checkCycle(c, nil); err != nil {
			return nil, err
		}
	}

	for _, c := range composites {
		reg.Register(c)
	}
	return composites, nil
}

func decodeComposites(r io.Reader) ([]compositeSpec, error) {
	dec := yaml.NewDecoder(r)
	var specs []compositeSpec
	for {
		var spec compositeSpec
		err := dec.Decode(&spec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode recipe document: %w", err)
		}
		if spec.Type == "" && spec.Name == "" && len(spec.RecipeList) == 0 {
			continue
		}
		if err := validateComposite(spec); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func validateComposite(spec compositeSpec) error {
	if spec.Type != CompositeType {
		return fmt.Errorf("recipe %q: unsupported type %q", spec.Name, spec.Type)
	}
	if spec.Name == "" {
		return errors.New("recipe name is required")
	}
	if len(spec.RecipeList) == 0 {
		return fmt.Errorf("recipe %s: recipeList is empty", spec.Name)
	}
	return nil
}

func checkCycle(r Recipe, path []string) error {
	for _, name := range path {
		if name == r.Name() {
			return fmt.Errorf("recipe %s includes itself", name)
		}
	}
	c, ok := r.(Composite)
	if !ok {
		return nil
	}
	path = append(path, r.Name())
	for _, child := range c.Recipes() {
		if err := checkCycle(child, path); err != nil {
			return err
		}
	}
	return nil
}
