package javaast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
)

// Kind is a coarse classification of an expression's static type, inferred
// from literals, operators and visible declarations. It is not a type checker:
// anything it cannot see is KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindNumeric
	KindBoolean
	KindNull
	// KindObject is a known reference type other than String and the boxed primitives.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

var (
	numericTypes = map[string]bool{
		"byte": true, "short": true, "int": true, "long": true, "float": true, "double": true, "char": true,
		"Byte": true, "Short": true, "Integer": true, "Long": true, "Float": true, "Double": true, "Character": true,
	}

	stringMethods = map[string]bool{
		"toString": true, "getMessage": true, "getLocalizedMessage": true, "substring": true,
		"trim": true, "strip": true, "toLowerCase": true, "toUpperCase": true, "concat": true,
		"repeat": true, "format": true, "formatted": true, "getSimpleName": true,
	}

	numericMethods = map[string]bool{
		"size": true, "length": true, "hashCode": true, "compareTo": true, "indexOf": true,
		"lastIndexOf": true, "intValue": true, "longValue": true, "doubleValue": true,
	}

	booleanMethods = map[string]bool{
		"equals": true, "equalsIgnoreCase": true, "isEmpty": true, "isBlank": true, "contains": true,
		"containsKey": true, "startsWith": true, "endsWith": true, "isPresent": true, "hasNext": true,
		"matches": true,
	}
)

// KindOfType classifies a declared type name.
func KindOfType(typeName string) Kind {
	typeName = strings.TrimSpace(typeName)
	if idx := strings.Index(typeName, "<"); idx >= 0 {
		typeName = typeName[:idx]
	}
	if typeName == "" || typeName == "var" {
		return KindUnknown
	}
	if strings.HasSuffix(typeName, "]") {
		return KindObject
	}
	simple := SimpleName(typeName)
	switch {
	case simple == "String":
		return KindString
	case numericTypes[simple]:
		return KindNumeric
	case simple == "boolean" || simple == "Boolean":
		return KindBoolean
	}
	return KindObject
}

// InferKind classifies the static type of expr.
func InferKind(expr *sitter.Node, source []byte) Kind {
	if expr == nil {
		return KindUnknown
	}

	switch expr.Type() {
	case NodeStringLiteral, NodeTextBlock:
		return KindString
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal",
		"character_literal":
		return KindNumeric
	case "true", "false", "instanceof_expression":
		return KindBoolean
	case "null_literal":
		return KindNull
	case NodeClassLiteral, NodeLambdaExpression, "method_reference", "array_creation_expression":
		return KindObject
	case NodeParenthesized:
		inner := Unparenthesize(expr)
		if inner == expr {
			return KindUnknown
		}
		return InferKind(inner, source)
	case "cast_expression":
		return KindOfType(parser.GetNodeText(expr.ChildByFieldName("type"), source))
	case NodeObjectCreation:
		return KindOfType(parser.GetNodeText(expr.ChildByFieldName("type"), source))
	case "unary_expression":
		if parser.GetNodeText(expr.ChildByFieldName("operator"), source) == "!" {
			return KindBoolean
		}
		return KindNumeric
	case NodeBinaryExpression:
		return inferBinary(expr, source)
	case "ternary_expression":
		consequence := InferKind(expr.ChildByFieldName("consequence"), source)
		if consequence == InferKind(expr.ChildByFieldName("alternative"), source) {
			return consequence
		}
		return KindUnknown
	case NodeIdentifier:
		return kindOfDeclaration(expr, parser.GetNodeText(expr, source), source)
	case NodeFieldAccess:
		object := expr.ChildByFieldName("object")
		if object == nil || object.Type() != "this" {
			return KindUnknown
		}
		body := parser.FindAncestor(expr, NodeClassBody)
		if body == nil {
			return KindUnknown
		}
		if decl := findField(body, parser.GetNodeText(expr.ChildByFieldName("field"), source), source); decl != nil {
			return KindOfType(decl.Type)
		}
		return KindUnknown
	case NodeMethodInvocation:
		name := CallName(expr, source)
		switch {
		case stringMethods[name]:
			return KindString
		case numericMethods[name]:
			return KindNumeric
		case booleanMethods[name]:
			return KindBoolean
		}
	}
	return KindUnknown
}

func inferBinary(expr *sitter.Node, source []byte) Kind {
	op := parser.GetNodeText(expr.ChildByFieldName("operator"), source)
	left := InferKind(expr.ChildByFieldName("left"), source)
	right := InferKind(expr.ChildByFieldName("right"), source)

	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return KindBoolean
	case "+":
		if left == KindString || right == KindString {
			return KindString
		}
		if left == KindNumeric && right == KindNumeric {
			return KindNumeric
		}
	case "&", "|", "^":
		if left == KindBoolean || right == KindBoolean {
			return KindBoolean
		}
		return KindNumeric
	case "-", "*", "/", "%", "<<", ">>", ">>>":
		return KindNumeric
	}
	return KindUnknown
}

func kindOfDeclaration(at *sitter.Node, name string, source []byte) Kind {
	decl := FindDeclaration(at, name, source)
	if decl == nil {
		return KindUnknown
	}
	if kind := KindOfType(decl.Type); kind != KindUnknown {
		return kind
	}
	if decl.Value != nil {
		return InferKind(decl.Value, source)
	}
	return KindUnknown
}

// Declaration is a variable, parameter or field visible at some position.
type Declaration struct {
	Name  string
	Type  string
	Value *sitter.Node
	Field bool
}

// FindDeclaration looks up the declaration of name visible from at, walking
// enclosing blocks, parameter lists and class bodies outward. Locals must be
// declared before at.
func FindDeclaration(at *sitter.Node, name string, source []byte) *Declaration {
	if at == nil || name == "" {
		return nil
	}

	pos := at.StartByte()
	for scope := at.Parent(); scope != nil; scope = scope.Parent() {
		var decl *Declaration
		switch scope.Type() {
		case NodeBlock, "constructor_body", "switch_block_statement_group":
			decl = findLocal(scope, name, pos, source)
		case NodeMethodDeclaration, NodeConstructorDeclaration, NodeLambdaExpression:
			decl = findParameter(scope.ChildByFieldName("parameters"), name, source)
		case "for_statement":
			decl = findLocalIn(scope.ChildByFieldName("init"), name, source)
		case "enhanced_for_statement":
			if parser.GetNodeText(scope.ChildByFieldName("name"), source) == name {
				decl = &Declaration{Name: name, Type: parser.GetNodeText(scope.ChildByFieldName("type"), source)}
			}
		case "catch_clause":
			decl = findCatchParameter(scope, name, source)
		case "try_with_resources_statement":
			decl = findResource(scope.ChildByFieldName("resources"), name, source)
		case NodeClassBody, "enum_body":
			decl = findField(scope, name, source)
		}
		if decl != nil {
			return decl
		}
	}
	return nil
}

func findLocal(block *sitter.Node, name string, before uint32, source []byte) *Declaration {
	for _, child := range parser.NamedChildren(block) {
		if child.StartByte() >= before {
			break
		}
		if child.Type() != NodeLocalVariable {
			continue
		}
		if decl := findLocalIn(child, name, source); decl != nil {
			return decl
		}
	}
	return nil
}

func findLocalIn(declaration *sitter.Node, name string, source []byte) *Declaration {
	if declaration == nil || (declaration.Type() != NodeLocalVariable && declaration.Type() != NodeFieldDeclaration) {
		return nil
	}
	typeText := parser.GetNodeText(declaration.ChildByFieldName("type"), source)
	for _, child := range parser.NamedChildren(declaration) {
		if child.Type() != NodeVariableDeclarator {
			continue
		}
		if parser.GetNodeText(child.ChildByFieldName("name"), source) != name {
			continue
		}
		declType := typeText
		if dims := child.ChildByFieldName("dimensions"); dims != nil {
			declType += parser.GetNodeText(dims, source)
		}
		return &Declaration{
			Name:  name,
			Type:  declType,
			Value: child.ChildByFieldName("value"),
			Field: declaration.Type() == NodeFieldDeclaration,
		}
	}
	return nil
}

func findParameter(params *sitter.Node, name string, source []byte) *Declaration {
	if params == nil {
		return nil
	}
	if params.Type() == NodeIdentifier {
		// Single untyped lambda parameter.
		if parser.GetNodeText(params, source) == name {
			return &Declaration{Name: name}
		}
		return nil
	}
	for _, param := range parser.NamedChildren(params) {
		switch param.Type() {
		case NodeFormalParameter, "spread_parameter":
			paramName := param.ChildByFieldName("name")
			if paramName == nil {
				if declarator := parser.FindChildByType(param, NodeVariableDeclarator); declarator != nil {
					paramName = declarator.ChildByFieldName("name")
				}
			}
			if parser.GetNodeText(paramName, source) == name {
				typeText := parser.GetNodeText(param.ChildByFieldName("type"), source)
				if typeText == "" {
					typeText = firstTypeText(param, source)
				}
				if param.Type() == "spread_parameter" {
					typeText += "[]"
				}
				return &Declaration{Name: name, Type: typeText}
			}
		case NodeIdentifier:
			if parser.GetNodeText(param, source) == name {
				return &Declaration{Name: name}
			}
		}
	}
	return nil
}

func firstTypeText(node *sitter.Node, source []byte) string {
	for _, child := range parser.NamedChildren(node) {
		switch child.Type() {
		case NodeTypeIdentifier, NodeGenericType, NodeScopedTypeIdentifier, "integral_type",
			"floating_point_type", "boolean_type", "array_type":
			return parser.GetNodeText(child, source)
		}
	}
	return ""
}

func findCatchParameter(clause *sitter.Node, name string, source []byte) *Declaration {
	param := parser.FindChildByType(clause, "catch_formal_parameter")
	if param == nil || parser.GetNodeText(param.ChildByFieldName("name"), source) != name {
		return nil
	}
	return &Declaration{Name: name, Type: parser.GetNodeText(parser.FindChildByType(param, "catch_type"), source)}
}

func findResource(resources *sitter.Node, name string, source []byte) *Declaration {
	for _, res := range parser.NamedChildren(resources) {
		if res.Type() != "resource" {
			continue
		}
		if parser.GetNodeText(res.ChildByFieldName("name"), source) == name {
			return &Declaration{
				Name:  name,
				Type:  parser.GetNodeText(res.ChildByFieldName("type"), source),
				Value: res.ChildByFieldName("value"),
			}
		}
	}
	return nil
}

func findField(body *sitter.Node, name string, source []byte) *Declaration {
	for _, child := range parser.NamedChildren(body) {
		if child.Type() != NodeFieldDeclaration {
			continue
		}
		if decl := findLocalIn(child, name, source); decl != nil {
			return decl
		}
	}
	return nil
}
