// Package hamcrest implements recipes that migrate Hamcrest assertions to
// AssertJ or to JUnit 5 assertions.
package hamcrest

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

const (
	namePrefix = "specvital.hamcrest."

	assertjAssertions = "org.assertj.core.api.Assertions"
	jupiterAssertions = "org.junit.jupiter.api.Assertions"
)

var assertThatMatcher = recipe.MustMethodMatcher("org.hamcrest.MatcherAssert assertThat(..)")

func init() {
	recipe.Register(NewHamcrestMatcherToAssertJ())
	recipe.Register(NewAssertThatBooleanToAssertJ())
	recipe.Register(NewHamcrestMatcherToJUnit5())
	recipe.Register(NewAssertThatBooleanToJUnit5())
	recipe.Register(NewRemoveIsMatcher())
}

func usesHamcrest(source []byte) bool {
	return bytes.Contains(source, []byte("org.hamcrest"))
}

// booleanAssertion splits assertThat(reason, condition). The condition must
// be known to be boolean, otherwise the call could be the matcher overload.
func booleanAssertion(file *recipe.SourceFile, call *sitter.Node) (reason, condition *sitter.Node, ok bool) {
	args := javaast.Arguments(call)
	if len(args) != 2 {
		return nil, nil, false
	}
	if javaast.InferKind(args[1], file.Source) != javaast.KindBoolean {
		return nil, nil, false
	}
	return args[0], args[1], true
}

// hasNestedMatcher reports whether any argument is itself a matcher, as in
// hasItem(equalTo(x)). Those overloads have no direct equivalent.
func hasNestedMatcher(file *recipe.SourceFile, args []*sitter.Node) bool {
	for _, arg := range args {
		if recipe.IsHamcrestMatcher(file, arg) {
			return true
		}
	}
	return false
}

// removeHamcrestImports asks for every Hamcrest import to be dropped once
// nothing uses it any more.
func removeHamcrestImports(file *recipe.SourceFile, changes *recipe.ChangeSet) {
	members := append(recipe.HamcrestMatcherNames(), "assertThat")
	for _, imp := range file.Imports.Imports {
		if !strings.HasPrefix(imp.Path, "org.hamcrest.") {
			continue
		}
		switch {
		case imp.Static && imp.Wildcard:
			changes.MaybeRemoveStaticWildcard(imp.Path, members...)
		case imp.Wildcard:
		default:
			changes.MaybeRemoveImport(imp)
		}
	}
}

func texts(file *recipe.SourceFile, nodes []*sitter.Node) string {
	return recipe.Varargs(javaast.ArgumentTexts(nodes, file.Source))
}
