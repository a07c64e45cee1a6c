// Package recipe is the rewrite engine that migration recipes plug into.
//
// A recipe inspects one parsed Java compilation unit and records the
// replacements and import changes it wants in a [ChangeSet]. The engine
// applies them as byte-range edits so everything the recipe did not touch,
// including comments and formatting, is preserved exactly.
package recipe

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/domain"
	"github.com/specvital/migrate/pkg/parser"
	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/parser/tspool"
)

const methodNamesQuery = `(method_declaration name: (identifier) @name)`

var (
	// ErrUnknownRecipe is returned when a recipe name is not registered.
	ErrUnknownRecipe = errors.New("recipe: unknown recipe")
	// ErrOverlappingEdits is returned when a recipe records two edits for intersecting ranges.
	ErrOverlappingEdits = errors.New("recipe: overlapping edits")
	// ErrSyntax is returned for sources the Java grammar cannot parse cleanly.
	ErrSyntax = errors.New("recipe: syntax error")
)

// SyntaxError reports where the Java grammar first failed. It matches
// ErrSyntax with errors.Is.
type SyntaxError struct {
	Location domain.Location
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at %s:%d:%d", ErrSyntax, e.Location.File, e.Location.StartLine, e.Location.StartCol+1)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func newSyntaxError(root *sitter.Node, path string) *SyntaxError {
	bad := root
	parser.WalkTree(root, func(n *sitter.Node) bool {
		if bad != root {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	return &SyntaxError{Location: parser.GetLocation(bad, path)}
}

// Recipe is a named migration rule.
type Recipe interface {
	// Name returns the fully qualified activation name (e.g. "specvital.junit5.AssertToAssertions").
	Name() string
	// DisplayName returns a short human readable title.
	DisplayName() string
	// Description explains what the recipe changes.
	Description() string
}

// Visitor is a recipe that rewrites individual compilation units.
type Visitor interface {
	Recipe
	// Applicable is a cheap textual precondition. Files it rejects are not parsed.
	Applicable(source []byte) bool
	// Visit inspects file and records changes. Shapes the recipe does not
	// support are left alone; returning an error means the recipe itself is broken.
	Visit(file *SourceFile, changes *ChangeSet) error
}

// Composite is a recipe made of other recipes run in order.
type Composite interface {
	Recipe
	// Recipes returns the children in execution order.
	Recipes() []Recipe
}

// SourceFile is a parsed Java compilation unit handed to visitors.
type SourceFile struct {
	Path    string
	Source  []byte
	Root    *sitter.Node
	Imports *javaast.ImportSet

	tree         *sitter.Tree
	localMethods map[string]bool
}

// ParseSource parses source as Java. The caller must Close the result.
func ParseSource(ctx context.Context, path string, source []byte) (*SourceFile, error) {
	tree, err := parser.Parse(ctx, domain.LanguageJava, javaast.SanitizeSource(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		err := newSyntaxError(root, path)
		tree.Close()
		return nil, err
	}
	imports, err := javaast.ParseImports(root, source)
	if err != nil {
		tree.Close()
		return nil, fmt.Errorf("read imports of %s: %w", path, err)
	}

	return &SourceFile{
		Path:    path,
		Source:  source,
		Root:    root,
		Imports: imports,
		tree:    tree,
	}, nil
}

// Close releases the syntax tree.
func (f *SourceFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the source text of node.
func (f *SourceFile) Text(node *sitter.Node) string {
	return parser.GetNodeText(node, f.Source)
}

// DeclaresMethod reports whether a class in this file declares a method named name.
func (f *SourceFile) DeclaresMethod(name string) bool {
	if f.localMethods == nil {
		f.localMethods = f.methodNames(methodNamesQuery)
	}
	return f.localMethods[name]
}

// methodNames collects declared method names with query, walking the tree
// instead when the query cannot be compiled.
func (f *SourceFile) methodNames(query string) map[string]bool {
	names := make(map[string]bool)
	results, err := tspool.QueryWithCache(f.Root, f.Source, domain.LanguageJava, query)
	if err != nil {
		f.Walk(func(n *sitter.Node) bool {
			if n.Type() == javaast.NodeMethodDeclaration {
				names[f.Text(n.ChildByFieldName("name"))] = true
			}
			return true
		})
		return names
	}
	for _, r := range results {
		names[f.Text(r.Captures["name"])] = true
	}
	return names
}

// Walk visits nodes in source order. Returning false from visit skips the
// node's children, which is how visitors avoid editing inside a node they
// already replaced.
func (f *SourceFile) Walk(visit func(node *sitter.Node) bool) {
	parser.WalkTree(f.Root, visit)
}

// MethodCalls visits every method_invocation in source order. Returning
// false skips the call's arguments.
func (f *SourceFile) MethodCalls(visit func(call *sitter.Node) bool) {
	f.Walk(func(n *sitter.Node) bool {
		if n.Type() != javaast.NodeMethodInvocation {
			return true
		}
		return visit(n)
	})
}

// Info implements the descriptive part of Recipe for embedding.
type Info struct {
	name        string
	displayName string
	description string
}

// NewInfo returns the metadata of a recipe.
func NewInfo(name, displayName, description string) Info {
	return Info{name: name, displayName: displayName, description: description}
}

func (i Info) Name() string        { return i.name }
func (i Info) DisplayName() string { return i.displayName }
func (i Info) Description() string { return i.description }
