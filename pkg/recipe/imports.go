package recipe

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser"
	"github.com/specvital/migrate/pkg/parser/javaast"
)

// References returns the set of identifier texts an import could bind:
// everything outside the package and import declarations except member names
// selected from an explicit receiver.
func References(file *SourceFile) map[string]bool {
	refs := make(map[string]bool)

	var collect func(n *sitter.Node) bool
	collect = func(n *sitter.Node) bool {
		switch n.Type() {
		case javaast.NodeImportDeclaration, javaast.NodePackageDeclaration:
			return false
		case javaast.NodeIdentifier, javaast.NodeTypeIdentifier:
			refs[file.Text(n)] = true
		case javaast.NodeMethodInvocation:
			if object := javaast.CallObject(n); object != nil {
				parser.WalkTree(object, collect)
				parser.WalkTree(n.ChildByFieldName("type_arguments"), collect)
				parser.WalkTree(n.ChildByFieldName("arguments"), collect)
				return false
			}
		case javaast.NodeFieldAccess:
			parser.WalkTree(n.ChildByFieldName("object"), collect)
			return false
		}
		return true
	}
	file.Walk(collect)
	return refs
}

// fixImports applies the import requests recorded in changes to the rewritten
// source. Removals run first so insertions are positioned against the imports
// that survive.
func fixImports(ctx context.Context, path string, source []byte, changes *ChangeSet) ([]byte, error) {
	source, err := removeImports(ctx, path, source, changes)
	if err != nil {
		return nil, err
	}
	return addImports(ctx, path, source, changes.adds)
}

func removeImports(ctx context.Context, path string, source []byte, changes *ChangeSet) ([]byte, error) {
	if len(changes.removes) == 0 {
		return source, nil
	}

	file, err := ParseSource(ctx, path, source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	refs := References(file)

	// A requested import shadows an old one with the same simple name: the
	// recipe that asked for it has rewritten every use of the old one.
	shadowed := make(map[string]bool)
	for _, imp := range changes.adds {
		if !imp.Wildcard {
			shadowed[shadowKey(imp.Static, imp.SimpleName())] = true
		}
	}
	used := func(static bool, name string) bool {
		return refs[name] && !shadowed[shadowKey(static, name)]
	}
	orphans := orphanCalls(file, shadowed)

	var nodes []*sitter.Node
	removed := make(map[uint32]bool)
	for _, rm := range changes.removes {
		for _, existing := range file.Imports.Imports {
			start := existing.Node.StartByte()
			if !existing.Same(rm.imp) || removed[start] {
				continue
			}
			if stillReferenced(existing, rm.members, used) {
				continue
			}
			if existing.Wildcard && servesOrphan(rm.members, orphans) {
				continue
			}
			removed[start] = true
			nodes = append(nodes, existing.Node)
		}
	}
	if len(nodes) == 0 {
		return source, nil
	}
	return ApplyEdits(source, removalEdits(source, nodes))
}

// orphanCalls returns the names of unqualified calls that neither a local
// method nor a single static import explains. Only an on-demand static
// import can provide them.
func orphanCalls(file *SourceFile, shadowed map[string]bool) map[string]bool {
	orphans := make(map[string]bool)
	file.MethodCalls(func(call *sitter.Node) bool {
		if javaast.CallObject(call) != nil {
			return true
		}
		name := javaast.CallName(call, file.Source)
		if shadowed[shadowKey(true, name)] || file.DeclaresMethod(name) {
			return true
		}
		if _, ok := file.Imports.StaticMember(name); ok {
			return true
		}
		orphans[name] = true
		return true
	})
	return orphans
}

// servesOrphan reports whether an on-demand import declaring members may
// still provide one of the orphan calls. Calls that another static wildcard
// serves do not pin it.
func servesOrphan(members []string, orphans map[string]bool) bool {
	if len(members) == 0 {
		return len(orphans) > 0
	}
	for _, m := range members {
		if orphans[m] {
			return true
		}
	}
	return false
}

func shadowKey(static bool, name string) string {
	if static {
		return "static " + name
	}
	return name
}

func stillReferenced(imp javaast.Import, members []string, used func(static bool, name string) bool) bool {
	if !imp.Wildcard {
		return used(imp.Static, imp.SimpleName())
	}
	if len(members) == 0 {
		// Without a member list an on-demand import can never be proven unused.
		return true
	}
	for _, m := range members {
		if used(true, m) {
			return true
		}
	}
	return false
}

// removalEdits deletes the lines of nodes. Adjacent lines are merged, and a
// block that sat between two blank lines takes one of them along.
func removalEdits(source []byte, nodes []*sitter.Node) []Edit {
	var ranges []Edit
	for _, n := range nodes {
		start, end := lineRange(source, n)
		ranges = append(ranges, Edit{Start: start, End: end})
	}
	sortEdits(ranges)

	var merged []Edit
	for _, r := range ranges {
		if len(merged) > 0 && merged[len(merged)-1].End >= r.Start {
			if r.End > merged[len(merged)-1].End {
				merged[len(merged)-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	for i, r := range merged {
		if !isLineStart(source, r.Start) || !isLineStart(source, r.End) {
			continue
		}
		prevBlank := r.Start == 0 || (r.Start >= 2 && source[r.Start-2] == '\n')
		nextBlank := int(r.End) < len(source) && source[r.End] == '\n'
		if prevBlank && nextBlank {
			merged[i].End++
		}
	}
	return merged
}

func isLineStart(source []byte, pos uint32) bool {
	return pos == 0 || int(pos) == len(source) || source[pos-1] == '\n'
}

// lineRange widens node to its whole line, including the trailing newline,
// when nothing else shares the line.
func lineRange(source []byte, node *sitter.Node) (uint32, uint32) {
	start, end := node.StartByte(), node.EndByte()

	lineStart := start
	for lineStart > 0 && (source[lineStart-1] == ' ' || source[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && source[lineStart-1] != '\n' {
		return start, end
	}

	lineEnd := end
	for int(lineEnd) < len(source) && (source[lineEnd] == ' ' || source[lineEnd] == '\t' || source[lineEnd] == '\r') {
		lineEnd++
	}
	switch {
	case int(lineEnd) == len(source):
		return lineStart, lineEnd
	case source[lineEnd] == '\n':
		return lineStart, lineEnd + 1
	}
	return start, end
}

func addImports(ctx context.Context, path string, source []byte, adds []javaast.Import) ([]byte, error) {
	if len(adds) == 0 {
		return source, nil
	}

	file, err := ParseSource(ctx, path, source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	refs := References(file)
	var missing []javaast.Import
	for _, imp := range adds {
		if file.Imports.Has(imp) || coveredByWildcard(file.Imports, imp) {
			continue
		}
		if !imp.Wildcard && !refs[imp.SimpleName()] {
			continue
		}
		missing = append(missing, imp)
	}
	if len(missing) == 0 {
		return source, nil
	}
	return ApplyEdits(source, insertImports(file, missing))
}

func coveredByWildcard(set *javaast.ImportSet, imp javaast.Import) bool {
	if imp.Wildcard {
		return false
	}
	for _, existing := range set.Imports {
		if existing.Wildcard && existing.Static == imp.Static && existing.Path == imp.Owner() {
			return true
		}
	}
	return false
}

// nextLineStart returns the offset just after the newline ending node's line.
func nextLineStart(source []byte, node *sitter.Node) uint32 {
	pos := node.EndByte()
	for int(pos) < len(source) && source[pos] != '\n' {
		pos++
	}
	if int(pos) < len(source) {
		pos++
	}
	return pos
}

func lineStartOf(source []byte, node *sitter.Node) uint32 {
	pos := node.StartByte()
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

// insertImports places each missing import after the last existing import of
// its group (static or not) that sorts before it. A group that does not exist
// yet is opened next to the other one, separated by a blank line.
func insertImports(file *SourceFile, missing []javaast.Import) []Edit {
	sort.SliceStable(missing, func(i, j int) bool {
		if missing[i].Static != missing[j].Static {
			return !missing[i].Static
		}
		return missing[i].String() < missing[j].String()
	})

	source := file.Source
	existing := file.Imports.Imports
	if len(existing) == 0 {
		return []Edit{insertWithoutImports(file, missing)}
	}

	var edits []Edit
	var newGroup []javaast.Import
	for _, imp := range missing {
		var group []javaast.Import
		for _, e := range existing {
			if e.Static == imp.Static {
				group = append(group, e)
			}
		}
		if len(group) == 0 {
			newGroup = append(newGroup, imp)
			continue
		}

		line := imp.String() + "\n"
		anchor := -1
		for i, e := range group {
			if e.String() < imp.String() {
				anchor = i
			}
		}
		if anchor < 0 {
			pos := lineStartOf(source, group[0].Node)
			edits = append(edits, Edit{Start: pos, End: pos, Text: line})
			continue
		}
		pos := nextLineStart(source, group[anchor].Node)
		edits = append(edits, Edit{Start: pos, End: pos, Text: line})
	}

	if len(newGroup) > 0 {
		var b strings.Builder
		for _, imp := range newGroup {
			b.WriteString(imp.String())
			b.WriteString("\n")
		}
		if newGroup[0].Static {
			pos := nextLineStart(source, existing[len(existing)-1].Node)
			text := "\n" + b.String()
			if int(pos) == len(source) && source[pos-1] != '\n' {
				text = "\n" + text
			}
			edits = append(edits, Edit{Start: pos, End: pos, Text: text})
		} else {
			pos := lineStartOf(source, existing[0].Node)
			edits = append(edits, Edit{Start: pos, End: pos, Text: b.String() + "\n"})
		}
	}
	return edits
}

func insertWithoutImports(file *SourceFile, missing []javaast.Import) Edit {
	var lines []string
	for i, imp := range missing {
		if imp.Static && i > 0 && !missing[i-1].Static {
			lines = append(lines, "")
		}
		lines = append(lines, imp.String())
	}
	block := strings.Join(lines, "\n")

	if pkg := parser.FindChildByType(file.Root, javaast.NodePackageDeclaration); pkg != nil {
		pos := nextLineStart(file.Source, pkg)
		return Edit{Start: pos, End: pos, Text: "\n" + block + "\n"}
	}
	return Edit{Start: 0, End: 0, Text: block + "\n\n"}
}
