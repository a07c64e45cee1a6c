package junit5

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
	"github.com/specvital/migrate/pkg/parser/javaast"
	"github.com/specvital/migrate/pkg/recipe"
)

var lifecycleAnnotations = map[string]string{
	"org.junit.Before":      "org.junit.jupiter.api.BeforeEach",
	"org.junit.After":       "org.junit.jupiter.api.AfterEach",
	"org.junit.BeforeClass": "org.junit.jupiter.api.BeforeAll",
	"org.junit.AfterClass":  "org.junit.jupiter.api.AfterAll",
}

var ignoreAnnotation = map[string]string{
	"org.junit.Ignore": "org.junit.jupiter.api.Disabled",
}

func isAnnotation(n *sitter.Node) bool {
	return n.Type() == javaast.NodeAnnotation || n.Type() == javaast.NodeMarkerAnnotation
}

// annotates reports whether ann refers to the annotation type fqn.
func annotates(file *recipe.SourceFile, ann *sitter.Node, fqn string) bool {
	for _, candidate := range file.ResolveType(javaast.GetAnnotationName(ann, file.Source)) {
		if candidate == fqn {
			return true
		}
	}
	return false
}

// renameAnnotation points ann at the type to, keeping it qualified if it was.
func renameAnnotation(file *recipe.SourceFile, changes *recipe.ChangeSet, ann *sitter.Node, to string) {
	name := ann.ChildByFieldName("name")
	if strings.Contains(file.Text(name), ".") {
		changes.Replace(name, to)
		return
	}
	if simple := javaast.SimpleName(to); file.Text(name) != simple {
		changes.Replace(name, simple)
	}
	changes.AddImport(javaast.NewImport(to))
}

// renameAnnotations applies renames (old type to new type) to every
// annotation in file and reports whether any was renamed.
func renameAnnotations(file *recipe.SourceFile, changes *recipe.ChangeSet, renames map[string]string) bool {
	from := sortedKeys(renames)
	renamed := false
	file.Walk(func(n *sitter.Node) bool {
		if !isAnnotation(n) {
			return true
		}
		for _, old := range from {
			if annotates(file, n, old) {
				renameAnnotation(file, changes, n, renames[old])
				renamed = true
				break
			}
		}
		return false
	})
	if renamed {
		for _, old := range from {
			changes.MaybeRemoveImport(javaast.NewImport(old))
		}
	}
	return renamed
}

// UpdateBeforeAfterAnnotations replaces the JUnit 4 lifecycle annotations
// with their JUnit Jupiter counterparts.
type UpdateBeforeAfterAnnotations struct {
	recipe.Info
}

func NewUpdateBeforeAfterAnnotations() *UpdateBeforeAfterAnnotations {
	return &UpdateBeforeAfterAnnotations{Info: recipe.NewInfo(
		namePrefix+"UpdateBeforeAfterAnnotations",
		"Migrate JUnit 4 lifecycle annotations to JUnit Jupiter",
		"Replace JUnit 4's `@Before`, `@BeforeClass`, `@After`, and `@AfterClass` annotations with their JUnit Jupiter equivalents.",
	)}
}

func (r *UpdateBeforeAfterAnnotations) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

func (r *UpdateBeforeAfterAnnotations) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	renameAnnotations(file, changes, lifecycleAnnotations)
	return nil
}

// IgnoreToDisabled replaces @Ignore with @Disabled, keeping the reason.
type IgnoreToDisabled struct {
	recipe.Info
}

func NewIgnoreToDisabled() *IgnoreToDisabled {
	return &IgnoreToDisabled{Info: recipe.NewInfo(
		namePrefix+"IgnoreToDisabled",
		"Use JUnit Jupiter `@Disabled`",
		"Migrates JUnit 4.x `@Ignore` to JUnit Jupiter `@Disabled`.",
	)}
}

func (r *IgnoreToDisabled) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

func (r *IgnoreToDisabled) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	renameAnnotations(file, changes, ignoreAnnotation)
	return nil
}

// UpdateTestAnnotation replaces org.junit.Test with the Jupiter annotation.
// Jupiter's @Test has no attributes, so `expected` becomes an assertThrows
// around the method body and `timeout` becomes @Timeout. A file using any
// other attribute is left untouched.
type UpdateTestAnnotation struct {
	recipe.Info
}

func NewUpdateTestAnnotation() *UpdateTestAnnotation {
	return &UpdateTestAnnotation{Info: recipe.NewInfo(
		namePrefix+"UpdateTestAnnotation",
		"Migrate JUnit 4 `@Test` annotations to JUnit 5",
		"Update usages of JUnit 4's `@org.junit.Test` annotation to JUnit 5's `org.junit.jupiter.api.Test` annotation.",
	)}
}

func (r *UpdateTestAnnotation) Applicable(source []byte) bool {
	return usesJUnit4(source)
}

// testAnnotation is one @Test occurrence and the attributes it carries.
type testAnnotation struct {
	node     *sitter.Node
	method   *sitter.Node
	expected *sitter.Node
	timeout  *sitter.Node
}

func (r *UpdateTestAnnotation) Visit(file *recipe.SourceFile, changes *recipe.ChangeSet) error {
	tests, ok := collectTests(file)
	if !ok || len(tests) == 0 {
		return nil
	}

	for _, t := range tests {
		qualified := strings.Contains(javaast.GetAnnotationName(t.node, file.Source), ".")
		name := javaast.SimpleName(jupiterTest)
		if qualified {
			name = jupiterTest
		} else {
			changes.AddImport(javaast.NewImport(jupiterTest))
		}

		if t.node.Type() == javaast.NodeMarkerAnnotation {
			if qualified {
				changes.Replace(t.node.ChildByFieldName("name"), name)
			}
			continue
		}

		text := "@" + name
		if t.timeout != nil {
			text += annotationSeparator(file.Source, t.node.StartByte()) +
				fmt.Sprintf("@Timeout(value = %s, unit = TimeUnit.MILLISECONDS)", file.Text(t.timeout))
			changes.AddImport(javaast.NewImport(jupiterTimeout))
			changes.AddImport(javaast.NewImport(timeUnit))
		}
		changes.Replace(t.node, text)

		if t.expected != nil {
			body := t.method.ChildByFieldName("body")
			changes.Replace(body, wrapInAssertThrows(file, changes, t.method, body, file.Text(t.expected)))
		}
	}
	changes.MaybeRemoveImport(javaast.NewImport(junit4Test))
	return nil
}

// collectTests finds every org.junit.Test annotation. ok is false when one of
// them cannot be migrated, which declines the whole file.
func collectTests(file *recipe.SourceFile) ([]testAnnotation, bool) {
	var tests []testAnnotation
	ok := true
	file.Walk(func(n *sitter.Node) bool {
		if !ok {
			return false
		}
		if !isAnnotation(n) {
			return true
		}
		if !annotates(file, n, junit4Test) {
			return false
		}
		t, supported := inspectTest(file, n)
		if !supported {
			ok = false
			return false
		}
		tests = append(tests, t)
		return false
	})
	return tests, ok
}

func inspectTest(file *recipe.SourceFile, ann *sitter.Node) (testAnnotation, bool) {
	t := testAnnotation{node: ann}
	if ann.Type() == javaast.NodeMarkerAnnotation {
		return t, true
	}
	for key, value := range javaast.AnnotationArguments(ann, file.Source) {
		switch key {
		case "expected":
			t.expected = value
		case "timeout":
			t.timeout = value
		default:
			return t, false
		}
	}
	if t.expected == nil {
		return t, true
	}

	if t.expected.Type() != javaast.NodeClassLiteral {
		return t, false
	}
	// annotation -> modifiers -> method_declaration
	if modifiers := ann.Parent(); modifiers != nil {
		t.method = modifiers.Parent()
	}
	if t.method == nil || t.method.Type() != javaast.NodeMethodDeclaration || t.method.ChildByFieldName("body") == nil {
		return t, false
	}
	if containsTextBlock(t.method.ChildByFieldName("body")) {
		// Re-indenting the body would change the text block's content.
		return t, false
	}
	return t, true
}

func containsTextBlock(node *sitter.Node) bool {
	found := false
	parser.WalkTree(node, func(n *sitter.Node) bool {
		if n.Type() == javaast.NodeTextBlock {
			found = true
		}
		return !found
	})
	return found
}

// wrapInAssertThrows returns the replacement for body that runs the original
// statements inside assertThrows(expected, () -> { ... }).
func wrapInAssertThrows(file *recipe.SourceFile, changes *recipe.ChangeSet, method, body *sitter.Node, expected string) string {
	prefix := ""
	if existing, ok := file.Imports.StaticMember("assertThrows"); file.DeclaresMethod("assertThrows") || (ok && existing.Owner() != jupiterAssertions) {
		prefix = javaast.SimpleName(jupiterAssertions) + "."
		changes.AddImport(javaast.NewImport(jupiterAssertions))
	} else {
		changes.AddImport(javaast.NewStaticImport(jupiterAssertions, "assertThrows"))
	}

	base := lineIndent(file.Source, method.StartByte())
	unit := indentUnit(file, body, base)
	inner := indentLines(file.Text(body), unit)

	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString(base + unit)
	fmt.Fprintf(&b, "%sassertThrows(%s, () -> %s);\n", prefix, expected, inner)
	b.WriteString(base + "}")
	return b.String()
}

// lineIndent returns the whitespace that starts the line containing pos.
func lineIndent(source []byte, pos uint32) string {
	start := pos
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := start
	for end < uint32(len(source)) && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	return string(source[start:end])
}

// indentUnit guesses one level of indentation from the first statement of
// body, falling back to four spaces.
func indentUnit(file *recipe.SourceFile, body *sitter.Node, base string) string {
	for _, stmt := range parser.NamedChildren(body) {
		indent := lineIndent(file.Source, stmt.StartByte())
		if len(indent) > len(base) && strings.HasPrefix(indent, base) {
			return indent[len(base):]
		}
		break
	}
	return "    "
}

// indentLines indents every non-empty line of text after the first by unit.
func indentLines(text, unit string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = unit + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// annotationSeparator puts a new annotation on its own line when the one at
// pos starts its line, and on the same line otherwise.
func annotationSeparator(source []byte, pos uint32) string {
	indent := lineIndent(source, pos)
	start := pos
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	if uint32(len(indent)) == pos-start {
		return "\n" + indent
	}
	return " "
}
