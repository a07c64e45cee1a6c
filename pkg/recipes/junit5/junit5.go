// Package junit5 implements recipes that migrate JUnit 4 tests to JUnit 5:
// assertion and assumption calls, lifecycle annotations and @Test attributes.
package junit5

import (
	"bytes"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

const (
	namePrefix = "specvital.junit5."

	junit4Assert       = "org.junit.Assert"
	junit4Assume       = "org.junit.Assume"
	junit4Test         = "org.junit.Test"
	jupiterAssertions  = "org.junit.jupiter.api.Assertions"
	jupiterAssumptions = "org.junit.jupiter.api.Assumptions"
	jupiterTest        = "org.junit.jupiter.api.Test"
	jupiterTimeout     = "org.junit.jupiter.api.Timeout"
	hamcrestAssert     = "org.hamcrest.MatcherAssert"
	timeUnit           = "java.util.concurrent.TimeUnit"
)

func init() {
	recipe.Register(NewUseHamcrestAssertThat())
	recipe.Register(NewAssertToAssertions())
	recipe.Register(NewAssumeToAssumptions())
	recipe.Register(NewUpdateBeforeAfterAnnotations())
	recipe.Register(NewIgnoreToDisabled())
	recipe.Register(NewUpdateTestAnnotation())
}

func usesJUnit4(source []byte) bool {
	return bytes.Contains(source, []byte("org.junit"))
}

// messageShape describes where a JUnit 4 method takes its optional message.
// plain and message are the arities without and with a leading message;
// ambiguous is an arity that fits both readings, 0 if there is none.
type messageShape struct {
	plain     int
	message   int
	ambiguous int
}

var (
	conditionShape = messageShape{plain: 1, message: 2}
	pairShape      = messageShape{plain: 2, message: 3}
	deltaShape     = messageShape{plain: 2, message: 4, ambiguous: 3}
	failShape      = messageShape{plain: 0, message: 1}
)

// classifyMessage reports whether the first of args is the optional message.
// ok is false when neither reading can be proven.
func classifyMessage(file *recipe.SourceFile, shape messageShape, args []*sitter.Node) (message, ok bool) {
	switch n := len(args); {
	case n == shape.plain:
		return false, true
	case n == shape.message:
		return true, true
	case shape.ambiguous == 0 || n != shape.ambiguous:
		return false, false
	}

	switch javaast.InferKind(args[0], file.Source) {
	case javaast.KindString:
		return true, true
	case javaast.KindNumeric, javaast.KindBoolean, javaast.KindObject:
		return false, true
	}
	// The delta overloads end in a primitive tolerance.
	switch javaast.InferKind(args[len(args)-1], file.Source) {
	case javaast.KindString, javaast.KindBoolean, javaast.KindObject, javaast.KindNull:
		return true, true
	}
	return false, false
}

// messageLast returns the argument texts with a leading message moved to the end.
func messageLast(file *recipe.SourceFile, args []*sitter.Node, message bool) []string {
	texts := javaast.ArgumentTexts(args, file.Source)
	if !message || len(texts) < 2 {
		return texts
	}
	reordered := make([]string, 0, len(texts))
	reordered = append(reordered, texts[1:]...)
	return append(reordered, texts[0])
}

// removeOwnerImports asks for the imports of owner to be dropped once no
// remaining code uses them.
func removeOwnerImports(changes *recipe.ChangeSet, owner string, members []string) {
	changes.MaybeRemoveImport(javaast.NewImport(owner))
	for _, m := range members {
		changes.MaybeRemoveImport(javaast.NewStaticImport(owner, m))
	}
	changes.MaybeRemoveStaticWildcard(owner, members...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
