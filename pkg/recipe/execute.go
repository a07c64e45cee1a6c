package recipe

import (
	"bytes"
	"context"
	"fmt"
)

// MaxCycles bounds how often a recipe is re-run on its own output. Later
// cycles pick up shapes that earlier rewrites exposed.
const MaxCycles = 3

// Result is the outcome of executing a recipe on one file.
type Result struct {
	Path   string
	Before []byte
	After  []byte
	// Applied lists the visitors that changed the file, in first-change order.
	Applied []string
}

// Changed reports whether the recipe modified the file.
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Before, r.After)
}

// Execute runs r on source until it stops changing or MaxCycles is reached.
func Execute(ctx context.Context, r Recipe, path string, source []byte) (*Result, error) {
	result := &Result{Path: path, Before: source, After: source}
	seen := make(map[string]bool)

	current := source
	for cycle := 0; cycle < MaxCycles; cycle++ {
		next, err := run(ctx, r, path, current, func(name string) {
			if !seen[name] {
				seen[name] = true
				result.Applied = append(result.Applied, name)
			}
		})
		if err != nil {
			return nil, err
		}
		if bytes.Equal(next, current) {
			break
		}
		current = next
	}

	result.After = current
	return result, nil
}

func run(ctx context.Context, r Recipe, path string, source []byte, applied func(string)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch rec := r.(type) {
	case Visitor:
		next, err := visit(ctx, rec, path, source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Name(), err)
		}
		if !bytes.Equal(next, source) {
			applied(rec.Name())
		}
		return next, nil
	case Composite:
		current := source
		for _, child := range rec.Recipes() {
			next, err := run(ctx, child, path, current, applied)
			if err != nil {
				return nil, err
			}
			current = next
		}
		return current, nil
	default:
		return nil, fmt.Errorf("recipe %s is neither a visitor nor a composite", r.Name())
	}
}

func visit(ctx context.Context, v Visitor, path string, source []byte) ([]byte, error) {
	if !v.Applicable(source) {
		return source, nil
	}

	file, err := ParseSource(ctx, path, source)
	if err != nil {
		return nil, err
	}
	changes := &ChangeSet{}
	err = v.Visit(file, changes)
	file.Close()
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return source, nil
	}

	edited, err := ApplyEdits(source, changes.Edits())
	if err != nil {
		return nil, err
	}
	return fixImports(ctx, path, edited, changes)
}
