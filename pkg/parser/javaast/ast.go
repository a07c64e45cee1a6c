// Package javaast provides Java AST traversal utilities shared by migration recipes.
package javaast

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
)

// Java AST node types.
const (
	NodeProgram                = "program"
	NodePackageDeclaration     = "package_declaration"
	NodeImportDeclaration      = "import_declaration"
	NodeClassDeclaration       = "class_declaration"
	NodeClassBody              = "class_body"
	NodeMethodDeclaration      = "method_declaration"
	NodeConstructorDeclaration = "constructor_declaration"
	NodeFieldDeclaration       = "field_declaration"
	NodeLocalVariable          = "local_variable_declaration"
	NodeVariableDeclarator     = "variable_declarator"
	NodeFormalParameters       = "formal_parameters"
	NodeFormalParameter        = "formal_parameter"
	NodeBlock                  = "block"
	NodeLambdaExpression       = "lambda_expression"
	NodeMethodInvocation       = "method_invocation"
	NodeObjectCreation         = "object_creation_expression"
	NodeArgumentList           = "argument_list"
	NodeAnnotation             = "annotation"
	NodeMarkerAnnotation       = "marker_annotation"
	NodeAnnotationArgumentList = "annotation_argument_list"
	NodeElementValuePair       = "element_value_pair"
	NodeModifiers              = "modifiers"
	NodeIdentifier             = "identifier"
	NodeScopedIdentifier       = "scoped_identifier"
	NodeFieldAccess            = "field_access"
	NodeTypeIdentifier         = "type_identifier"
	NodeScopedTypeIdentifier   = "scoped_type_identifier"
	NodeGenericType            = "generic_type"
	NodeStringLiteral          = "string_literal"
	NodeTextBlock              = "text_block"
	NodeClassLiteral           = "class_literal"
	NodeParenthesized          = "parenthesized_expression"
	NodeBinaryExpression       = "binary_expression"
	NodeExpressionStatement    = "expression_statement"
)

// IsComment reports whether node is a comment. Grammar versions differ in
// whether comments are a single node type or split into line/block kinds.
func IsComment(node *sitter.Node) bool {
	switch node.Type() {
	case "comment", "line_comment", "block_comment":
		return true
	}
	return false
}

// GetAnnotationName extracts the annotation name as written, e.g. "Test" from
// @Test or "org.junit.Test" from @org.junit.Test.
func GetAnnotationName(annotation *sitter.Node, source []byte) string {
	if annotation == nil {
		return ""
	}
	return parser.GetNodeText(annotation.ChildByFieldName("name"), source)
}

// SimpleName returns the last segment of a dotted name.
func SimpleName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// GetClassName extracts the class name from a class_declaration node.
func GetClassName(node *sitter.Node, source []byte) string {
	return parser.GetNodeText(node.ChildByFieldName("name"), source)
}

// AnnotationArguments returns the element_value_pair entries of an annotation
// keyed by element name. A single unnamed value is stored under "value".
func AnnotationArguments(annotation *sitter.Node, source []byte) map[string]*sitter.Node {
	args := annotation.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}

	result := make(map[string]*sitter.Node)
	for _, child := range parser.NamedChildren(args) {
		if IsComment(child) {
			continue
		}
		if child.Type() == NodeElementValuePair {
			key := parser.GetNodeText(child.ChildByFieldName("key"), source)
			result[key] = child.ChildByFieldName("value")
			continue
		}
		result["value"] = child
	}
	return result
}

// SanitizeSource removes NULL bytes from source code that would cause tree-sitter parsing failures.
// Some files (e.g., OSS-Fuzz test data) contain NULL bytes in string literals which cause
// tree-sitter to produce ERROR nodes instead of valid AST.
func SanitizeSource(source []byte) []byte {
	if !bytes.Contains(source, []byte{0}) {
		return source
	}
	return bytes.ReplaceAll(source, []byte{0}, []byte{' '})
}
