package hamcrest

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

// junit5Assertion is the outcome of mapping one matcher: the Assertions
// method to call and its arguments before the optional message.
type junit5Assertion struct {
	method string
	args   []string
}

type junit5Rule func(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool)

var comparisonOperators = map[string]string{
	"greaterThan":          ">",
	"greaterThanOrEqualTo": ">=",
	"lessThan":             "<",
	"lessThanOrEqualTo":    "<=",
}

var receiverMethods = map[string]string{
	"containsString":      "contains",
	"startsWith":          "startsWith",
	"endsWith":            "endsWith",
	"equalToIgnoringCase": "equalsIgnoreCase",
	"hasItem":             "contains",
	"hasKey":              "containsKey",
	"hasValue":            "containsValue",
}

var junit5Rules = map[string]junit5Rule{
	"equalTo":       pairRule("assertEquals", "assertNotEquals"),
	"sameInstance":  pairRule("assertSame", "assertNotSame"),
	"theInstance":   pairRule("assertSame", "assertNotSame"),
	"nullValue":     unaryRule("assertNull", "assertNotNull"),
	"notNullValue":  unaryRule("assertNotNull", "assertNull"),
	"instanceOf":    instanceOfRule,
	"isA":           instanceOfRule,
	"closeTo":       closeToRule,
	"hasSize":       projectedRule("size()"),
	"hasToString":   projectedRule("toString()"),
	"empty":         emptyRule,
	"emptyString":   emptyRule,
	"isEmptyString": emptyRule,
}

func init() {
	for name := range receiverMethods {
		junit5Rules[name] = receiverRule
	}
	for name := range comparisonOperators {
		junit5Rules[name] = comparisonRule
	}
}

func choose(negated bool, positive, negative string) string {
	if negated {
		return negative
	}
	return positive
}

func truth(negated bool) string {
	return choose(negated, "assertTrue", "assertFalse")
}

// pairRule maps matcher(expected) to method(expected, actual).
func pairRule(positive, negative string) junit5Rule {
	return func(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
		if len(roles.MatcherArgs) != 1 {
			return junit5Assertion{}, false
		}
		return junit5Assertion{
			method: choose(negated, positive, negative),
			args:   []string{file.Text(roles.MatcherArgs[0]), file.Text(roles.Actual)},
		}, true
	}
}

// unaryRule maps matcher() to method(actual).
func unaryRule(positive, negative string) junit5Rule {
	return func(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
		if len(roles.MatcherArgs) != 0 {
			return junit5Assertion{}, false
		}
		return junit5Assertion{
			method: choose(negated, positive, negative),
			args:   []string{file.Text(roles.Actual)},
		}, true
	}
}

func instanceOfRule(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
	if negated || len(roles.MatcherArgs) != 1 {
		return junit5Assertion{}, false
	}
	return junit5Assertion{
		method: "assertInstanceOf",
		args:   []string{file.Text(roles.MatcherArgs[0]), file.Text(roles.Actual)},
	}, true
}

func closeToRule(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
	if len(roles.MatcherArgs) != 2 {
		return junit5Assertion{}, false
	}
	return junit5Assertion{
		method: choose(negated, "assertEquals", "assertNotEquals"),
		args: []string{
			file.Text(roles.MatcherArgs[0]),
			file.Text(roles.Actual),
			file.Text(roles.MatcherArgs[1]),
		},
	}, true
}

// projectedRule maps matcher(expected) to assertEquals(expected, actual.<call>).
func projectedRule(call string) junit5Rule {
	return func(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
		if len(roles.MatcherArgs) != 1 {
			return junit5Assertion{}, false
		}
		return junit5Assertion{
			method: choose(negated, "assertEquals", "assertNotEquals"),
			args: []string{
				file.Text(roles.MatcherArgs[0]),
				javaast.ReceiverText(roles.Actual, file.Source) + "." + call,
			},
		}, true
	}
}

func emptyRule(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
	if len(roles.MatcherArgs) != 0 {
		return junit5Assertion{}, false
	}
	return junit5Assertion{
		method: truth(negated),
		args:   []string{javaast.ReceiverText(roles.Actual, file.Source) + ".isEmpty()"},
	}, true
}

func receiverRule(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
	if len(roles.MatcherArgs) != 1 {
		return junit5Assertion{}, false
	}
	method := receiverMethods[roles.MatcherName]
	return junit5Assertion{
		method: truth(negated),
		args: []string{
			javaast.ReceiverText(roles.Actual, file.Source) + "." + method + "(" + file.Text(roles.MatcherArgs[0]) + ")",
		},
	}, true
}

// comparisonRule uses operators when both sides are numeric and compareTo
// when both are known reference types. Anything else is ambiguous. Negated
// comparisons decline: !(a > b) and a <= b disagree on NaN, and Hamcrest
// orders through compareTo.
func comparisonRule(file *recipe.SourceFile, roles recipe.AssertionRoles, negated bool) (junit5Assertion, bool) {
	if negated || len(roles.MatcherArgs) != 1 {
		return junit5Assertion{}, false
	}
	op := comparisonOperators[roles.MatcherName]
	actual, expected := roles.Actual, roles.MatcherArgs[0]
	actualKind := javaast.InferKind(actual, file.Source)
	expectedKind := javaast.InferKind(expected, file.Source)

	var condition string
	switch {
	case actualKind == javaast.KindNumeric && expectedKind == javaast.KindNumeric:
		condition = operand(file, actual) + " " + op + " " + operand(file, expected)
	case isReference(actualKind) && isReference(expectedKind):
		condition = javaast.ReceiverText(actual, file.Source) + ".compareTo(" + file.Text(expected) + ") " + op + " 0"
	default:
		return junit5Assertion{}, false
	}
	return junit5Assertion{method: "assertTrue", args: []string{condition}}, true
}

func isReference(kind javaast.Kind) bool {
	return kind == javaast.KindString || kind == javaast.KindObject
}

func operand(file *recipe.SourceFile, expr *sitter.Node) string {
	if expr.Type() == javaast.NodeBinaryExpression || expr.Type() == "ternary_expression" ||
		expr.Type() == "assignment_expression" || expr.Type() == javaast.NodeLambdaExpression ||
		expr.Type() == "cast_expression" || expr.Type() == "instanceof_expression" {
		return "(" + file.Text(expr) + ")"
	}
	return file.Text(expr)
}

// HamcrestMatcherToJUnit5 rewrites assertThat(actual, matcher) into JUnit 5
// Assertions calls. The reason, if any, becomes the trailing message.
type HamcrestMatcherToJUnit5 struct {
	recipe.Info
}

func NewHamcrestMatcherToJUnit5() *HamcrestMatcherToJUnit5 {
	return &HamcrestMatcherToJUnit5{Info: recipe.NewInfo(
		namePrefix+"HamcrestMatcherToJUnit5",
		"Migrate Hamcrest `assertThat(Object, Matcher)` to JUnit 5 assertions",
		"Rewrites Hamcrest matcher assertions into `org.junit.jupiter.api.Assertions` calls where an equivalent exists.",
	)}
}

func (r *HamcrestMatcherToJUnit5) Applicable(source []byte) bool {
	return usesHamcrest(source)
}

var junit5Call = recipe.NewTemplate("#{}#{}(#{})")

func (r *HamcrestMatcherToJUnit5) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	plan := recipe.NewCallPlan(file)
	file.MethodCalls(func(call *sitter.Node) bool {
		if !assertThatMatcher.Matches(file, call) {
			return true
		}
		assertion, ok := r.convert(file, call)
		if !ok {
			plan.Decline(call)
			return true
		}
		plan.Rewrite(call, jupiterAssertions, assertion.method, javaast.CallObject(call) != nil, func(prefix string) (string, error) {
			return junit5Call.Apply(prefix, assertion.method, recipe.Varargs(assertion.args))
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

func (r *HamcrestMatcherToJUnit5) convert(file *recipe.SourceFile, call *sitter.Node) (junit5Assertion, bool) {
	roles, ok := recipe.ClassifyAssertion(file, call)
	if !ok {
		return junit5Assertion{}, false
	}
	rule, ok := junit5Rules[roles.MatcherName]
	if !ok || hasNestedMatcher(file, roles.MatcherArgs) {
		return junit5Assertion{}, false
	}
	assertion, ok := rule(file, roles, roles.Negated)
	if !ok {
		return junit5Assertion{}, false
	}
	if roles.Reason != nil {
		assertion.args = append(assertion.args, file.Text(roles.Reason))
	}
	return assertion, true
}

// AssertThatBooleanToJUnit5 rewrites assertThat(reason, condition) into
// assertTrue(condition, reason).
type AssertThatBooleanToJUnit5 struct {
	recipe.Info
}

func NewAssertThatBooleanToJUnit5() *AssertThatBooleanToJUnit5 {
	return &AssertThatBooleanToJUnit5{Info: recipe.NewInfo(
		namePrefix+"AssertThatBooleanToJUnit5",
		"Migrate Hamcrest `assertThat(boolean, String)` to JUnit 5",
		"Rewrites `assertThat(String reason, boolean assertion)` into `assertTrue(assertion, reason)`.",
	)}
}

func (r *AssertThatBooleanToJUnit5) Applicable(source []byte) bool {
	return usesHamcrest(source)
}

var junit5True = recipe.NewTemplate("#{}assertTrue(#{any(boolean)}, #{any(String)})")

func (r *AssertThatBooleanToJUnit5) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
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
		plan.Rewrite(call, jupiterAssertions, "assertTrue", javaast.CallObject(call) != nil, func(prefix string) (string, error) {
			return junit5True.Apply(prefix, conditionText, reasonText)
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
