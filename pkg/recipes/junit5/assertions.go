package junit5

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

var (
	junit4AssertCall  = recipe.MustMethodMatcher(junit4Assert + " *(..)")
	junit4AssertThat  = recipe.MustMethodMatcher(junit4Assert + " assertThat(..)")
	junit4AssumeCall  = recipe.MustMethodMatcher(junit4Assume + " *(..)")
	jupiterCall       = recipe.NewTemplate("#{}#{}(#{})")
	junit4AssertNames = []string{
		"assertArrayEquals", "assertEquals", "assertFalse", "assertNotEquals", "assertNotNull",
		"assertNotSame", "assertNull", "assertSame", "assertThat", "assertThrows", "assertTrue", "fail",
	}
	junit4AssumeNames = []string{"assumeFalse", "assumeNoException", "assumeNotNull", "assumeThat", "assumeTrue"}
)

var assertShapes = map[string]messageShape{
	"assertEquals":      deltaShape,
	"assertNotEquals":   deltaShape,
	"assertArrayEquals": deltaShape,
	"assertTrue":        conditionShape,
	"assertFalse":       conditionShape,
	"assertNull":        conditionShape,
	"assertNotNull":     conditionShape,
	"assertSame":        pairShape,
	"assertNotSame":     pairShape,
	"fail":              failShape,
}

var assumeShapes = map[string]messageShape{
	"assumeTrue":  conditionShape,
	"assumeFalse": conditionShape,
}

// UseHamcrestAssertThat points JUnit 4's deprecated Assert.assertThat at
// Hamcrest's MatcherAssert, which JUnit 5 leaves as the matcher entry point.
type UseHamcrestAssertThat struct {
	recipe.Info
}

func NewUseHamcrestAssertThat() *UseHamcrestAssertThat {
	return &UseHamcrestAssertThat{Info: recipe.NewInfo(
		namePrefix+"UseHamcrestAssertThat",
		"Use `MatcherAssert#assertThat(..)`",
		"JUnit 4's `Assert#assertThat(..)` is deprecated. Calls are redirected to `org.hamcrest.MatcherAssert#assertThat(..)`.",
	)}
}

func (r *UseHamcrestAssertThat) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

func (r *UseHamcrestAssertThat) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	plan := recipe.NewCallPlan(file)
	file.MethodCalls(func(call *sitter.Node) bool {
		if !junit4AssertThat.Matches(file, call) {
			return true
		}
		args := file.Text(call.ChildByFieldName("arguments"))
		plan.Rewrite(call, hamcrestAssert, "assertThat", javaast.CallObject(call) != nil, func(prefix string) (string, error) {
			return prefix + "assertThat" + args, nil
		})
		return false
	})
	if plan.Len() == 0 {
		return nil
	}
	if err := plan.Commit(changes); err != nil {
		return err
	}
	removeOwnerImports(changes, junit4Assert, junit4AssertNames)
	return nil
}

// AssertToAssertions migrates org.junit.Assert calls to
// org.junit.jupiter.api.Assertions, moving the optional message from the first
// to the last argument.
type AssertToAssertions struct {
	recipe.Info
}

func NewAssertToAssertions() *AssertToAssertions {
	return &AssertToAssertions{Info: recipe.NewInfo(
		namePrefix+"AssertToAssertions",
		"JUnit 4 `Assert` to JUnit Jupiter `Assertions`",
		"Change JUnit 4's `org.junit.Assert` into JUnit Jupiter's `org.junit.jupiter.api.Assertions`.",
	)}
}

func (r *AssertToAssertions) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

func (r *AssertToAssertions) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	changed, err := migrateMessageCalls(file, changes, junit4AssertCall, assertShapes, jupiterAssertions)
	if err != nil || !changed {
		return err
	}
	removeOwnerImports(changes, junit4Assert, junit4AssertNames)
	return nil
}

// AssumeToAssumptions migrates assumeTrue and assumeFalse from
// org.junit.Assume to org.junit.jupiter.api.Assumptions. The other Assume
// methods have no Jupiter counterpart and are left alone.
type AssumeToAssumptions struct {
	recipe.Info
}

func NewAssumeToAssumptions() *AssumeToAssumptions {
	return &AssumeToAssumptions{Info: recipe.NewInfo(
		namePrefix+"AssumeToAssumptions",
		"JUnit 4 `Assume` to JUnit Jupiter `Assumptions`",
		"Change JUnit 4's `org.junit.Assume` into JUnit Jupiter's `org.junit.jupiter.api.Assumptions`.",
	)}
}

func (r *AssumeToAssumptions) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

func (r *AssumeToAssumptions) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	changed, err := migrateMessageCalls(file, changes, junit4AssumeCall, assumeShapes, jupiterAssumptions)
	if err != nil || !changed {
		return err
	}
	removeOwnerImports(changes, junit4Assume, junit4AssumeNames)
	return nil
}

// migrateMessageCalls rewrites every call matched by matcher whose name has a
// shape to the same method on owner. It reports whether any call was rewritten.
func migrateMessageCalls(
	file *recipe.SourceFile,
	changes *recipe.ChangeSet,
	matcher *recipe.MethodMatcher,
	shapes map[string]messageShape,
	owner string,
) (bool, error) {
	plan := recipe.NewCallPlan(file)
	file.MethodCalls(func(call *sitter.Node) bool {
		if !matcher.Matches(file, call) {
			return true
		}
		name := javaast.CallName(call, file.Source)
		shape, ok := shapes[name]
		if !ok {
			plan.Decline(call)
			return true
		}
		args := javaast.Arguments(call)
		message, ok := classifyMessage(file, shape, args)
		if !ok {
			plan.Decline(call)
			return true
		}
		texts := messageLast(file, args, message)
		plan.Rewrite(call, owner, name, javaast.CallObject(call) != nil, func(prefix string) (string, error) {
			return jupiterCall.Apply(prefix, name, recipe.Varargs(texts))
		})
		return false
	})
	if plan.Len() == 0 {
		return false, nil
	}
	if err := plan.Commit(changes); err != nil {
		return false, err
	}
	return true, nil
}
