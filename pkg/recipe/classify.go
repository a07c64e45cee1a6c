package recipe

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

var hamcrestFactory = MustMethodMatcher("org.hamcrest..* *(..)")

// hamcrestNames are the public factory methods of org.hamcrest.Matchers and
// CoreMatchers. Calls resolved through a static wildcard import are only
// treated as matchers when their name is listed here.
var hamcrestNames = []string{
	"allOf", "any", "anyOf", "anything", "array", "arrayContaining", "arrayContainingInAnyOrder",
	"arrayWithSize", "blankOrNullString", "blankString", "both", "closeTo", "comparesEqualTo",
	"contains", "containsInAnyOrder", "containsInRelativeOrder", "containsString",
	"containsStringIgnoringCase", "describedAs", "either", "empty", "emptyArray", "emptyCollectionOf",
	"emptyIterable", "emptyIterableOf", "emptyOrNullString", "emptyString", "endsWith",
	"endsWithIgnoringCase", "equalTo", "equalToCompressingWhiteSpace", "equalToIgnoringCase",
	"equalToIgnoringWhiteSpace", "equalToObject", "eventFrom", "every", "everyItem", "greaterThan",
	"greaterThanOrEqualTo", "hasEntry", "hasItem", "hasItemInArray", "hasItems", "hasKey",
	"hasLength", "hasProperty", "hasSize", "hasToString", "hasValue", "hasXPath", "in", "instanceOf",
	"is", "isA", "isEmptyOrNullString", "isEmptyString", "isIn", "isOneOf", "iterableWithSize",
	"lessThan", "lessThanOrEqualTo", "matchesPattern", "matchesRegex", "not", "notANumber",
	"notNullValue", "nullValue", "oneOf", "sameInstance", "samePropertyValuesAs", "startsWith",
	"startsWithIgnoringCase", "stringContainsInOrder", "theInstance", "typeCompatibleWith",
}

var hamcrestNameSet = func() map[string]bool {
	set := make(map[string]bool, len(hamcrestNames))
	for _, name := range hamcrestNames {
		set[name] = true
	}
	return set
}()

// HamcrestMatcherNames returns the names of the Hamcrest matcher factories.
func HamcrestMatcherNames() []string {
	return append([]string(nil), hamcrestNames...)
}

// AssertionRoles are the parts of a Hamcrest style assertThat call.
type AssertionRoles struct {
	// Reason is the optional leading description, nil when absent.
	Reason *sitter.Node
	Actual *sitter.Node
	// Matcher is the matcher call after unwrapping is/not. It is nil when a
	// plain value was wrapped, in which case MatcherName is "equalTo".
	Matcher     *sitter.Node
	MatcherName string
	MatcherArgs []*sitter.Node
	Negated     bool
}

// IsHamcrestMatcher reports whether node is a call to a Hamcrest matcher factory.
func IsHamcrestMatcher(file *SourceFile, node *sitter.Node) bool {
	node = javaast.Unparenthesize(node)
	if !hamcrestNameSet[javaast.CallName(node, file.Source)] {
		return false
	}
	return hamcrestFactory.Matches(file, node)
}

// ClassifyAssertion splits assertThat([reason,] actual, matcher) into its
// roles. is(m) and not(m) are unwrapped once; is(v) and not(v) of a plain value
// mean equalTo(v). It returns false for any shape it does not understand.
func ClassifyAssertion(file *SourceFile, call *sitter.Node) (AssertionRoles, bool) {
	var roles AssertionRoles

	args := javaast.Arguments(call)
	var matcher *sitter.Node
	switch len(args) {
	case 3:
		roles.Reason, roles.Actual, matcher = args[0], args[1], args[2]
	case 2:
		roles.Actual, matcher = args[0], args[1]
	default:
		return roles, false
	}

	matcher = javaast.Unparenthesize(matcher)
	if !IsHamcrestMatcher(file, matcher) {
		return roles, false
	}

	name := javaast.CallName(matcher, file.Source)
	if name != "is" && name != "not" {
		roles.Matcher = matcher
		roles.MatcherName = name
		roles.MatcherArgs = javaast.Arguments(matcher)
		return roles, true
	}

	roles.Negated = name == "not"
	wrapped := javaast.Arguments(matcher)
	if len(wrapped) != 1 {
		return roles, false
	}
	inner := javaast.Unparenthesize(wrapped[0])

	if inner.Type() == javaast.NodeMethodInvocation {
		if IsHamcrestMatcher(file, inner) {
			innerName := javaast.CallName(inner, file.Source)
			if innerName == "is" || innerName == "not" {
				return roles, false
			}
			roles.Matcher = inner
			roles.MatcherName = innerName
			roles.MatcherArgs = javaast.Arguments(inner)
			return roles, true
		}
		// Any other call may return a custom matcher.
		return roles, false
	}
	if holdsMatcher(file, inner) {
		return roles, false
	}

	if inner.Type() == javaast.NodeClassLiteral {
		// is(Foo.class) is the old spelling of instanceOf.
		if roles.Negated {
			return roles, false
		}
		roles.MatcherName = "instanceOf"
		roles.MatcherArgs = []*sitter.Node{inner}
		return roles, true
	}

	roles.MatcherName = "equalTo"
	roles.MatcherArgs = []*sitter.Node{inner}
	return roles, true
}

// holdsMatcher reports whether expr names a variable or field declared with a
// matcher type, or initialized from a Hamcrest factory.
func holdsMatcher(file *SourceFile, expr *sitter.Node) bool {
	var name string
	switch expr.Type() {
	case javaast.NodeIdentifier:
		name = file.Text(expr)
	case javaast.NodeFieldAccess:
		object := expr.ChildByFieldName("object")
		if object == nil || object.Type() != "this" {
			return false
		}
		name = file.Text(expr.ChildByFieldName("field"))
	default:
		return false
	}

	decl := javaast.FindDeclaration(expr, name, file.Source)
	if decl == nil {
		return false
	}
	if isMatcherType(file, decl.Type) {
		return true
	}
	if decl.Value != nil {
		value := javaast.Unparenthesize(decl.Value)
		return value.Type() == javaast.NodeMethodInvocation && IsHamcrestMatcher(file, value)
	}
	return false
}

func isMatcherType(file *SourceFile, typeName string) bool {
	if idx := strings.Index(typeName, "<"); idx >= 0 {
		typeName = typeName[:idx]
	}
	if strings.HasSuffix(javaast.SimpleName(strings.TrimSpace(typeName)), "Matcher") {
		return true
	}
	for _, fqn := range file.ResolveType(typeName) {
		if strings.HasPrefix(fqn, "org.hamcrest.") {
			return true
		}
	}
	return false
}
