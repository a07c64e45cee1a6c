package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

// ErrInvalidPattern is returned for malformed method patterns.
var ErrInvalidPattern = errors.New("recipe: invalid method pattern")

type argPattern struct {
	rest bool // ".."
	kind javaast.Kind
}

// MethodMatcher selects method invocations by declaring type, name and
// arguments, e.g. "org.hamcrest.MatcherAssert assertThat(..)" or
// "org.junit..Assert assert*(String, ..)".
//
// In the type, "*" matches within one dotted segment and ".." spans any number
// of segments. Argument tokens are "..", "*" or a type name checked against the
// inferred kind of the argument.
type MethodMatcher struct {
	pattern  string
	typeGlob string
	nameGlob string
	args     []argPattern
}

// NewMethodMatcher compiles pattern.
func NewMethodMatcher(pattern string) (*MethodMatcher, error) {
	typePart, rest, ok := strings.Cut(strings.TrimSpace(pattern), " ")
	if !ok || typePart == "" {
		return nil, fmt.Errorf("%w: %q: missing declaring type", ErrInvalidPattern, pattern)
	}
	rest = strings.TrimSpace(rest)
	open := strings.Index(rest, "(")
	if open <= 0 || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("%w: %q: expected name(args)", ErrInvalidPattern, pattern)
	}

	m := &MethodMatcher{
		pattern:  pattern,
		typeGlob: typeGlob(typePart),
		nameGlob: strings.TrimSpace(rest[:open]),
	}
	if !doublestar.ValidatePattern(m.typeGlob) || !doublestar.ValidatePattern(m.nameGlob) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	argList := strings.TrimSpace(rest[open+1 : len(rest)-1])
	if argList == "" {
		return m, nil
	}
	for _, token := range strings.Split(argList, ",") {
		token = strings.TrimSpace(token)
		switch token {
		case "":
			return nil, fmt.Errorf("%w: %q: empty argument", ErrInvalidPattern, pattern)
		case "..":
			m.args = append(m.args, argPattern{rest: true})
		case "*":
			m.args = append(m.args, argPattern{kind: javaast.KindUnknown})
		default:
			m.args = append(m.args, argPattern{kind: javaast.KindOfType(token)})
		}
	}
	return m, nil
}

// MustMethodMatcher is like NewMethodMatcher but panics on error.
func MustMethodMatcher(pattern string) *MethodMatcher {
	m, err := NewMethodMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// typeGlob maps a dotted type pattern onto a slash separated doublestar glob.
func typeGlob(pattern string) string {
	if pattern == "*" || pattern == ".." {
		return "**"
	}
	const deep = "\x00"
	glob := strings.ReplaceAll(pattern, "..", deep)
	glob = strings.ReplaceAll(glob, ".", "/")
	return strings.ReplaceAll(glob, deep, "/**/")
}

func (m *MethodMatcher) String() string {
	return m.pattern
}

// MatchesType reports whether fqn satisfies the declaring type pattern.
func (m *MethodMatcher) MatchesType(fqn string) bool {
	ok, _ := doublestar.Match(m.typeGlob, strings.ReplaceAll(fqn, ".", "/"))
	return ok
}

// MatchesName reports whether name satisfies the method name pattern.
func (m *MethodMatcher) MatchesName(name string) bool {
	ok, _ := doublestar.Match(m.nameGlob, name)
	return ok
}

// Matches reports whether call is an invocation this matcher selects.
func (m *MethodMatcher) Matches(file *SourceFile, call *sitter.Node) bool {
	_, ok := m.DeclaringType(file, call)
	return ok
}

// DeclaringType returns the matching declaring type of call.
func (m *MethodMatcher) DeclaringType(file *SourceFile, call *sitter.Node) (string, bool) {
	if call == nil || call.Type() != javaast.NodeMethodInvocation {
		return "", false
	}
	if !m.MatchesName(javaast.CallName(call, file.Source)) {
		return "", false
	}
	if !m.matchArgs(javaast.Arguments(call), file.Source) {
		return "", false
	}
	for _, owner := range DeclaringTypes(file, call) {
		if m.MatchesType(owner) {
			return owner, true
		}
	}
	return "", false
}

func (m *MethodMatcher) matchArgs(args []*sitter.Node, source []byte) bool {
	return matchArgs(m.args, args, source)
}

func matchArgs(patterns []argPattern, args []*sitter.Node, source []byte) bool {
	if len(patterns) == 0 {
		return len(args) == 0
	}
	if patterns[0].rest {
		for skip := 0; skip <= len(args); skip++ {
			if matchArgs(patterns[1:], args[skip:], source) {
				return true
			}
		}
		return false
	}
	if len(args) == 0 || !kindCompatible(patterns[0].kind, javaast.InferKind(args[0], source)) {
		return false
	}
	return matchArgs(patterns[1:], args[1:], source)
}

// kindCompatible is lenient: an argument whose kind cannot be inferred
// matches any declared type.
func kindCompatible(want, got javaast.Kind) bool {
	switch {
	case want == javaast.KindUnknown, want == javaast.KindObject:
		return true
	case got == javaast.KindUnknown:
		return true
	case got == javaast.KindNull:
		return want == javaast.KindString
	}
	return want == got
}
