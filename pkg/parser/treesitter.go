// Package parser provides language-neutral helpers over tree-sitter syntax trees.
package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/domain"
	"github.com/specvital/migrate/pkg/parser/tspool"
)

const MaxTreeDepth = tspool.MaxTreeDepth

// Parse parses source for lang with a fresh parser.
// Caller must close the returned tree.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	return tspool.Parse(ctx, lang, source)
}

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	if start > end || end > sourceLen {
		return ""
	}

	return string(source[start:end])
}

// GetLocation converts a tree-sitter node position to a [domain.Location].
// Line numbers are converted to 1-based indexing.
func GetLocation(node *sitter.Node, filename string) domain.Location {
	start := node.StartPoint()
	end := node.EndPoint()

	return domain.Location{
		File:      filename,
		StartLine: int(start.Row) + 1, // Convert to 1-based
		EndLine:   int(end.Row) + 1,
		StartCol:  int(start.Column),
		EndCol:    int(end.Column),
	}
}

// FindChildByType returns the first direct child with the given node type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// NamedChildren returns the named children of node, in source order.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// FindAncestor returns the closest ancestor of node whose type is one of types.
func FindAncestor(node *sitter.Node, types ...string) *sitter.Node {
	for current := node.Parent(); current != nil; current = current.Parent() {
		for _, t := range types {
			if current.Type() == t {
				return current
			}
		}
	}
	return nil
}

func walkTreeWithDepth(node *sitter.Node, visitor func(*sitter.Node) bool, depth int) {
	if depth > tspool.MaxTreeDepth {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTreeWithDepth(node.Child(i), visitor, depth+1)
	}
}

// WalkTree recursively visits all nodes in the AST.
// The visitor function returns false to stop traversing into children.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	walkTreeWithDepth(node, visitor, 0)
}
