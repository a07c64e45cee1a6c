package javaast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
)

// CallName returns the invoked method name of a method_invocation node.
func CallName(call *sitter.Node, source []byte) string {
	if call == nil || call.Type() != NodeMethodInvocation {
		return ""
	}
	return parser.GetNodeText(call.ChildByFieldName("name"), source)
}

// CallObject returns the receiver of a method_invocation, or nil when the
// method is invoked without one.
func CallObject(call *sitter.Node) *sitter.Node {
	if call == nil {
		return nil
	}
	return call.ChildByFieldName("object")
}

// Arguments returns the argument expressions of a method_invocation or
// object_creation_expression, skipping comments.
func Arguments(call *sitter.Node) []*sitter.Node {
	if call == nil {
		return nil
	}
	list := call.ChildByFieldName("arguments")
	if list == nil {
		return nil
	}

	var args []*sitter.Node
	for _, child := range parser.NamedChildren(list) {
		if IsComment(child) {
			continue
		}
		args = append(args, child)
	}
	return args
}

// ArgumentTexts returns the source text of each argument.
func ArgumentTexts(args []*sitter.Node, source []byte) []string {
	texts := make([]string, len(args))
	for i, arg := range args {
		texts[i] = parser.GetNodeText(arg, source)
	}
	return texts
}

// Unparenthesize strips any number of enclosing parentheses from an expression.
func Unparenthesize(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == NodeParenthesized {
		var inner *sitter.Node
		for _, child := range parser.NamedChildren(node) {
			if !IsComment(child) {
				inner = child
				break
			}
		}
		if inner == nil {
			return node
		}
		node = inner
	}
	return node
}

// IsPrimary reports whether expr can be used as a method receiver without
// adding parentheses.
func IsPrimary(expr *sitter.Node) bool {
	switch expr.Type() {
	case NodeIdentifier, NodeFieldAccess, NodeMethodInvocation, NodeParenthesized,
		NodeStringLiteral, NodeTextBlock, NodeObjectCreation, NodeClassLiteral,
		"array_access", "this", "super", "array_creation_expression":
		return true
	}
	return false
}

// ReceiverText returns the expression text suitable for use as a method
// receiver, parenthesizing it when needed.
func ReceiverText(expr *sitter.Node, source []byte) string {
	text := parser.GetNodeText(expr, source)
	if IsPrimary(expr) {
		return text
	}
	return "(" + text + ")"
}

// DottedName returns the text of a receiver made only of identifiers and dots
// (e.g. "Assert" or "org.junit.Assert"). Returns false for any other shape.
func DottedName(node *sitter.Node, source []byte) (string, bool) {
	switch node.Type() {
	case NodeIdentifier:
		return parser.GetNodeText(node, source), true
	case NodeFieldAccess:
		object, ok := DottedName(node.ChildByFieldName("object"), source)
		if !ok {
			return "", false
		}
		field := node.ChildByFieldName("field")
		if field == nil || field.Type() != NodeIdentifier {
			return "", false
		}
		return object + "." + parser.GetNodeText(field, source), true
	case NodeScopedIdentifier:
		return parser.GetNodeText(node, source), true
	}
	return "", false
}

