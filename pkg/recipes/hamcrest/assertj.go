package hamcrest

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

const anyArgs = -1

type assertjRule struct {
	method  string
	negated string // empty when AssertJ has no negated form
	args    int    // number of matcher arguments, anyArgs for varargs
}

var assertjRules = map[string]assertjRule{
	"equalTo":                   {"isEqualTo", "isNotEqualTo", 1},
	"sameInstance":              {"isSameAs", "isNotSameAs", 1},
	"theInstance":               {"isSameAs", "isNotSameAs", 1},
	"nullValue":                 {"isNull", "isNotNull", 0},
	"notNullValue":              {"isNotNull", "isNull", 0},
	"instanceOf":                {"isInstanceOf", "isNotInstanceOf", 1},
	"isA":                       {"isInstanceOf", "isNotInstanceOf", 1},
	"any":                       {"isInstanceOf", "isNotInstanceOf", 1},
	"greaterThan":               {"isGreaterThan", "", 1},
	"greaterThanOrEqualTo":      {"isGreaterThanOrEqualTo", "", 1},
	"lessThan":                  {"isLessThan", "", 1},
	"lessThanOrEqualTo":         {"isLessThanOrEqualTo", "", 1},
	"closeTo":                   {"isCloseTo", "isNotCloseTo", 2},
	"containsString":            {"contains", "doesNotContain", 1},
	"startsWith":                {"startsWith", "doesNotStartWith", 1},
	"endsWith":                  {"endsWith", "doesNotEndWith", 1},
	"equalToIgnoringCase":       {"isEqualToIgnoringCase", "isNotEqualToIgnoringCase", 1},
	"equalToIgnoringWhiteSpace": {"isEqualToIgnoringWhitespace", "isNotEqualToIgnoringWhitespace", 1},
	"emptyString":               {"isEmpty", "isNotEmpty", 0},
	"isEmptyString":             {"isEmpty", "isNotEmpty", 0},
	"emptyOrNullString":         {"isNullOrEmpty", "", 0},
	"isEmptyOrNullString":       {"isNullOrEmpty", "", 0},
	"blankString":               {"isBlank", "isNotBlank", 0},
	"hasSize":                   {"hasSize", "", 1},
	"empty":                     {"isEmpty", "isNotEmpty", 0},
	"emptyIterable":             {"isEmpty", "isNotEmpty", 0},
	"emptyArray":                {"isEmpty", "isNotEmpty", 0},
	"hasItem":                   {"contains", "doesNotContain", 1},
	"hasItems":                  {"contains", "", anyArgs},
	"contains":                  {"containsExactly", "", anyArgs},
	"containsInAnyOrder":        {"containsExactlyInAnyOrder", "", anyArgs},
	"arrayWithSize":             {"hasSize", "", 1},
	"arrayContaining":           {"containsExactly", "", anyArgs},
	"arrayContainingInAnyOrder": {"containsExactlyInAnyOrder", "", anyArgs},
	"hasKey":                    {"containsKey", "doesNotContainKey", 1},
	"hasValue":                  {"containsValue", "doesNotContainValue", 1},
	"hasEntry":                  {"containsEntry", "doesNotContainEntry", 2},
	"hasToString":               {"hasToString", "doesNotHaveToString", 1},
	"in":                        {"isIn", "isNotIn", 1},
	"isIn":                      {"isIn", "isNotIn", 1},
	"oneOf":                     {"isIn", "isNotIn", anyArgs},
	"isOneOf":                   {"isIn", "isNotIn", anyArgs},
}

var (
	assertjChain   = recipe.NewTemplate("#{}assertThat(#{any(java.lang.Object)})#{}.#{}(#{})")
	assertjAs      = recipe.NewTemplate(".as(#{any(String)})")
	assertjCloseTo = recipe.NewTemplate("#{any(double)}, #{}within(#{any(double)})")
)

// HamcrestMatcherToAssertJ rewrites assertThat(actual, matcher) into an
// AssertJ assertion chain.
type HamcrestMatcherToAssertJ struct {
	recipe.Info
}

func NewHamcrestMatcherToAssertJ() *HamcrestMatcherToAssertJ {
	return &HamcrestMatcherToAssertJ{Info: recipe.NewInfo(
		namePrefix+"HamcrestMatcherToAssertJ",
		"Migrate Hamcrest `assertThat(Object, Matcher)` to AssertJ",
		"Rewrites Hamcrest matcher assertions into the equivalent AssertJ `assertThat(actual)` chain.",
	)}
}

func (r *HamcrestMatcherToAssertJ) Applicable(source []byte) bool {
	return usesHamcrest(source)
}

func (r *HamcrestMatcherToAssertJ) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	plan := recipe.NewCallPlan(file)
	file.MethodCalls(func(call *sitter.Node) bool {
		if !assertThatMatcher.Matches(file, call) {
			return true
		}
		render, extras, ok := r.convert(file, call)
		if !ok {
			plan.Decline(call)
			return true
		}
		plan.Rewrite(call, assertjAssertions, "assertThat", javaast.CallObject(call) != nil, render, extras...)
		return false
	})
	if plan.Len() == 0 {
		return nil
	}
	if err := plan.Commit(changes); err != nil {
		return err
	}
	removeHamcrestImports(file, changes)
	return nil
}

func (r *HamcrestMatcherToAssertJ) convert(file *recipe.SourceFile, call *sitter.Node) (recipe.RenderFunc, []string, bool) {
	roles, ok := recipe.ClassifyAssertion(file, call)
	if !ok {
		return nil, nil, false
	}
	rule, ok := assertjRules[roles.MatcherName]
	if !ok {
		return nil, nil, false
	}
	method := rule.method
	if roles.Negated {
		method = rule.negated
	}
	if method == "" {
		return nil, nil, false
	}
	if rule.args != anyArgs && len(roles.MatcherArgs) != rule.args {
		return nil, nil, false
	}
	if hasNestedMatcher(file, roles.MatcherArgs) {
		return nil, nil, false
	}

	actual := file.Text(roles.Actual)
	description := ""
	if roles.Reason != nil {
		var err error
		if description, err = assertjAs.Apply(file.Text(roles.Reason)); err != nil {
			return nil, nil, false
		}
	}

	var extras []string
	if roles.MatcherName == "closeTo" {
		extras = append(extras, "within")
	}

	render := func(prefix string) (string, error) {
		args := texts(file, roles.MatcherArgs)
		if roles.MatcherName == "closeTo" {
			var err error
			args, err = assertjCloseTo.Apply(
				file.Text(roles.MatcherArgs[0]), prefix, file.Text(roles.MatcherArgs[1]))
			if err != nil {
				return "", err
			}
		}
		return assertjChain.Apply(prefix, actual, description, method, args)
	}
	return render, extras, true
}

// AssertThatBooleanToAssertJ rewrites assertThat(reason, condition) into
// assertThat(condition).as(reason).isTrue().
type AssertThatBooleanToAssertJ struct {
	recipe.Info
}

func NewAssertThatBooleanToAssertJ() *AssertThatBooleanToAssertJ {
	return &AssertThatBooleanToAssertJ{Info: recipe.NewInfo(
		namePrefix+"AssertThatBooleanToAssertJ",
		"Migrate Hamcrest `assertThat(boolean, String)` to AssertJ",
		"Rewrites `assertThat(String reason, boolean assertion)` into `assertThat(assertion).as(reason).isTrue()`.",
	)}
}

func (r *AssertThatBooleanToAssertJ) Applicable(source []byte) bool {
	return usesHamcrest(source)
}

var assertjBoolean = recipe.NewTemplate("#{}assertThat(#{any(boolean)}).as(#{any(String)}).isTrue()")

func (r *AssertThatBooleanToAssertJ) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	plan := recipe.NewCallPlan(file)
	file.MethodCalls(func(call *sitter.Node) bool {
		if !assertThatMatcher.Matches(file, call) {
			return true
		}
		reason, condition, ok := booleanAssertion(file, call)
		if !ok {
			plan.Decline(call)
			return true
		}
		reasonText, conditionText := file.Text(reason), file.Text(condition)
		plan.Rewrite(call, assertjAssertions, "assertThat", javaast.CallObject(call) != nil, func(prefix string) (string, error) {
			return assertjBoolean.Apply(prefix, conditionText, reasonText)
		})
		return false
	})
	if plan.Len() == 0 {
		return nil
	}
	if err := plan.Commit(changes); err != nil {
		return err
	}
	removeHamcrestImports(file, changes)
	return nil
}
