package hamcrest

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

// RemoveIsMatcher drops the decorative is(...) around another matcher:
// assertThat(x, is(m)) becomes assertThat(x, m).
type RemoveIsMatcher struct {
	recipe.Info
}

func NewRemoveIsMatcher() *RemoveIsMatcher {
	return &RemoveIsMatcher{Info: recipe.NewInfo(
		namePrefix+"RemoveIsMatcher",
		"Remove Hamcrest `is(Matcher)`",
		"Remove Hamcrest `is(Matcher)` wrappers, which only add to the description.",
	)}
}

func (r *RemoveIsMatcher) Applicable(source []byte) bool {
	return usesHamcrest(source)
}

func (r *RemoveIsMatcher) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	changed := false
	file.MethodCalls(func(call *sitter.Node) bool {
		if !assertThatMatcher.Matches(file, call) {
			return true
		}
		args := javaast.Arguments(call)
		if len(args) != 2 && len(args) != 3 {
			return true
		}

		wrapper := javaast.Unparenthesize(args[len(args)-1])
		if !recipe.IsHamcrestMatcher(file, wrapper) || javaast.CallName(wrapper, file.Source) != "is" {
			return true
		}
		wrapped := javaast.Arguments(wrapper)
		if len(wrapped) != 1 || !recipe.IsHamcrestMatcher(file, wrapped[0]) {
			return true
		}

		changes.Replace(wrapper, file.Text(wrapped[0]))
		changed = true
		return false
	})
	if !changed {
		return nil
	}

	for _, imp := range file.Imports.Imports {
		if !imp.Static || !strings.HasPrefix(imp.Path, "org.hamcrest.") {
			continue
		}
		switch {
		case imp.Wildcard:
			changes.MaybeRemoveStaticWildcard(imp.Path, recipe.HamcrestMatcherNames()...)
		case imp.SimpleName() == "is":
			changes.MaybeRemoveImport(imp)
		}
	}
	return nil
}
