package javaast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/domain"
	"github.com/specvital/migrate/pkg/parser"
	"github.com/specvital/migrate/pkg/parser/tspool"
)

const importQuery = `(import_declaration) @import`

// Import is a single Java import declaration.
type Import struct {
	// Path is the imported name without "import", "static", ".*" or ";".
	// For static imports it includes the member: "org.junit.Assert.assertEquals".
	Path string
	// Static is true for "import static".
	Static bool
	// Wildcard is true for on-demand imports ending in ".*".
	Wildcard bool
	// Node is the import_declaration node, nil for imports built by recipes.
	Node *sitter.Node
}

// NewImport returns a single-type import of fqn.
func NewImport(fqn string) Import {
	return Import{Path: fqn}
}

// NewStaticImport returns a single static import of member on typeName.
func NewStaticImport(typeName, member string) Import {
	return Import{Path: typeName + "." + member, Static: true}
}

// NewStaticWildcard returns "import static typeName.*".
func NewStaticWildcard(typeName string) Import {
	return Import{Path: typeName, Static: true, Wildcard: true}
}

// SimpleName is the name the import brings into scope. Empty for wildcards.
func (i Import) SimpleName() string {
	if i.Wildcard {
		return ""
	}
	return SimpleName(i.Path)
}

// Owner returns the type a static import reads members from, or the package
// of a single-type import.
func (i Import) Owner() string {
	if i.Wildcard {
		return i.Path
	}
	if idx := strings.LastIndex(i.Path, "."); idx >= 0 {
		return i.Path[:idx]
	}
	return ""
}

// Same reports whether both values declare the same import.
func (i Import) Same(other Import) bool {
	return i.Path == other.Path && i.Static == other.Static && i.Wildcard == other.Wildcard
}

// String renders the import declaration.
func (i Import) String() string {
	var b strings.Builder
	b.WriteString("import ")
	if i.Static {
		b.WriteString("static ")
	}
	b.WriteString(i.Path)
	if i.Wildcard {
		b.WriteString(".*")
	}
	b.WriteString(";")
	return b.String()
}

// ImportSet is the ordered list of imports of one compilation unit.
type ImportSet struct {
	Imports []Import
}

// ParseImports collects the import declarations under root.
func ParseImports(root *sitter.Node, source []byte) (*ImportSet, error) {
	results, err := tspool.QueryWithCache(root, source, domain.LanguageJava, importQuery)
	if err != nil {
		return nil, err
	}

	set := &ImportSet{}
	for _, r := range results {
		node := r.Captures["import"]
		if node == nil {
			continue
		}
		if imp, ok := parseImport(node, source); ok {
			set.Imports = append(set.Imports, imp)
		}
	}
	return set, nil
}

func parseImport(node *sitter.Node, source []byte) (Import, bool) {
	imp := Import{Node: node}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "static":
			imp.Static = true
		case "asterisk":
			imp.Wildcard = true
		case NodeScopedIdentifier, NodeIdentifier:
			imp.Path = parser.GetNodeText(child, source)
		}
	}
	return imp, imp.Path != ""
}

// Has reports whether the set contains imp.
func (s *ImportSet) Has(imp Import) bool {
	for _, existing := range s.Imports {
		if existing.Same(imp) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether any import path starts with prefix.
func (s *ImportSet) HasPrefix(prefix string) bool {
	for _, imp := range s.Imports {
		if strings.HasPrefix(imp.Path, prefix) {
			return true
		}
	}
	return false
}

// StaticMember returns the single static import that brings member into
// scope, if any.
func (s *ImportSet) StaticMember(member string) (Import, bool) {
	for _, imp := range s.Imports {
		if imp.Static && !imp.Wildcard && imp.SimpleName() == member {
			return imp, true
		}
	}
	return Import{}, false
}

// StaticWildcards returns the owners of all "import static X.*" declarations.
func (s *ImportSet) StaticWildcards() []string {
	var owners []string
	for _, imp := range s.Imports {
		if imp.Static && imp.Wildcard {
			owners = append(owners, imp.Path)
		}
	}
	return owners
}

// ResolveType returns the fully qualified candidates for a simple type name
// as seen from this compilation unit. A single-type import is authoritative;
// otherwise every on-demand package is a candidate, followed by java.lang.
func (s *ImportSet) ResolveType(simple string) []string {
	for _, imp := range s.Imports {
		if !imp.Static && !imp.Wildcard && imp.SimpleName() == simple {
			return []string{imp.Path}
		}
	}

	var candidates []string
	for _, imp := range s.Imports {
		if !imp.Static && imp.Wildcard {
			candidates = append(candidates, imp.Path+"."+simple)
		}
	}
	return append(candidates, "java.lang."+simple)
}
