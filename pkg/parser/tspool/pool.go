// Package tspool provides tree-sitter parsers for concurrent parsing.
//
// This package centralizes parser management to:
//   - Provide consistent parser creation across components
//   - Ensure thread-safe language initialization
//
// Note: Parser pooling is disabled due to tree-sitter cancellation flag issues.
// When a context is cancelled during ParseCtx, the parser's internal cancel flag
// is set but not properly reset, causing subsequent parses to fail with
// "operation limit was hit". Creating fresh parsers avoids this issue.
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/specvital/migrate/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	javaLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		javaLang = java.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given domain language.
// Returns nil for unsupported languages.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguageJava:
		return javaLang
	default:
		return nil
	}
}

// Get returns a parser for the given language.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) (*sitter.Parser, error) {
	sitterLang := GetLanguage(lang)
	if sitterLang == nil {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(sitterLang)
	return parser, nil
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser, err := Get(lang)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
