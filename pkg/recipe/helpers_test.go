package recipe

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

func parseFile(t *testing.T, source string) *SourceFile {
	t.Helper()
	file, err := ParseSource(context.Background(), "Test.java", []byte(source))
	require.NoError(t, err)
	t.Cleanup(file.Close)
	return file
}

func findCalls(file *SourceFile, name string) []*sitter.Node {
	var calls []*sitter.Node
	file.MethodCalls(func(call *sitter.Node) bool {
		if javaast.CallName(call, file.Source) == name {
			calls = append(calls, call)
		}
		return true
	})
	return calls
}

func findCall(t *testing.T, file *SourceFile, name string) *sitter.Node {
	t.Helper()
	calls := findCalls(file, name)
	require.NotEmpty(t, calls, "no call to %s", name)
	return calls[0]
}

type funcVisitor struct {
	name       string
	applicable func([]byte) bool
	visit      func(*SourceFile, *ChangeSet) error
}

func (v *funcVisitor) Name() string        { return v.name }
func (v *funcVisitor) DisplayName() string { return v.name }
func (v *funcVisitor) Description() string { return "test visitor " + v.name }

func (v *funcVisitor) Applicable(source []byte) bool {
	if v.applicable == nil {
		return true
	}
	return v.applicable(source)
}

func (v *funcVisitor) Visit(file *SourceFile, changes *ChangeSet) error {
	return v.visit(file, changes)
}

type namedRecipe string

func (n namedRecipe) Name() string        { return string(n) }
func (n namedRecipe) DisplayName() string { return string(n) }
func (n namedRecipe) Description() string { return "" }
