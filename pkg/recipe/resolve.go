package recipe

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
	"github.com/specvital/migrate/pkg/parser/javaast"
)

// DeclaringTypes returns the fully qualified types that may declare the
// method invoked by call, most likely first. An empty result means the call
// could not be attributed and must not be matched.
func DeclaringTypes(file *SourceFile, call *sitter.Node) []string {
	if call == nil || call.Type() != javaast.NodeMethodInvocation {
		return nil
	}

	object := javaast.CallObject(call)
	if object == nil {
		return unqualifiedOwners(file, javaast.CallName(call, file.Source))
	}
	return receiverTypes(file, javaast.Unparenthesize(object))
}

func unqualifiedOwners(file *SourceFile, name string) []string {
	if file.DeclaresMethod(name) {
		return []string{file.localType()}
	}
	if imp, ok := file.Imports.StaticMember(name); ok {
		return []string{imp.Owner()}
	}
	return file.Imports.StaticWildcards()
}

func receiverTypes(file *SourceFile, object *sitter.Node) []string {
	switch object.Type() {
	case javaast.NodeIdentifier:
		name := file.Text(object)
		if decl := javaast.FindDeclaration(object, name, file.Source); decl != nil {
			return file.ResolveType(decl.Type)
		}
		if startsUpper(name) {
			return file.Imports.ResolveType(name)
		}
		return nil
	case javaast.NodeFieldAccess:
		if this := object.ChildByFieldName("object"); this != nil && this.Type() == "this" {
			field := file.Text(object.ChildByFieldName("field"))
			if decl := javaast.FindDeclaration(object, field, file.Source); decl != nil && decl.Field {
				return file.ResolveType(decl.Type)
			}
			return nil
		}
		dotted, ok := javaast.DottedName(object, file.Source)
		if !ok {
			return nil
		}
		return file.resolveDotted(dotted)
	case javaast.NodeScopedIdentifier:
		return file.resolveDotted(file.Text(object))
	case javaast.NodeObjectCreation:
		return file.ResolveType(file.Text(object.ChildByFieldName("type")))
	}
	return nil
}

// resolveDotted treats a name whose first segment is lowercase as a fully
// qualified type and anything else as a type followed by nested types.
func (f *SourceFile) resolveDotted(dotted string) []string {
	first, rest, _ := strings.Cut(dotted, ".")
	if !startsUpper(first) {
		return []string{dotted}
	}
	candidates := f.Imports.ResolveType(first)
	for i := range candidates {
		candidates[i] += "." + rest
	}
	return candidates
}

// ResolveType returns the fully qualified candidates for a type name as
// written in this file, e.g. a declared type or an annotation name.
func (f *SourceFile) ResolveType(typeName string) []string {
	typeName = strings.TrimSpace(typeName)
	if idx := strings.Index(typeName, "<"); idx >= 0 {
		typeName = typeName[:idx]
	}
	if typeName == "" || typeName == "var" || strings.HasSuffix(typeName, "]") {
		return nil
	}
	if strings.Contains(typeName, ".") {
		return f.resolveDotted(typeName)
	}
	if !startsUpper(typeName) {
		return nil
	}
	return f.Imports.ResolveType(typeName)
}

func (f *SourceFile) localType() string {
	name := ""
	parser.WalkTree(f.Root, func(n *sitter.Node) bool {
		if name != "" {
			return false
		}
		if n.Type() == javaast.NodeClassDeclaration {
			name = javaast.GetClassName(n, f.Source)
			return false
		}
		return true
	})
	if pkg := f.PackageName(); pkg != "" {
		return pkg + "." + name
	}
	return name
}

// PackageName returns the declared package, or "" for the default package.
func (f *SourceFile) PackageName() string {
	pkg := parser.FindChildByType(f.Root, javaast.NodePackageDeclaration)
	if pkg == nil {
		return ""
	}
	for _, child := range parser.NamedChildren(pkg) {
		if child.Type() == javaast.NodeScopedIdentifier || child.Type() == javaast.NodeIdentifier {
			return f.Text(child)
		}
	}
	return ""
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
