package recipe

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

// RenderFunc produces replacement text. prefix is "" when the target method
// is statically imported, or "Owner." when it must be qualified.
type RenderFunc func(prefix string) (string, error)

type plannedCall struct {
	node      *sitter.Node
	owner     string
	member    string
	qualified bool
	render    RenderFunc
	extras    []string
}

// CallPlan defers the rewrites of one visit so the import style can be chosen
// once every candidate is known. When an unqualified call to a name declined,
// adding a static import of the new method under that name would change what
// the declined call binds to, so converted calls are qualified instead.
type CallPlan struct {
	file     *SourceFile
	declined map[string]bool
	calls    []plannedCall
}

// NewCallPlan returns an empty plan for file.
func NewCallPlan(file *SourceFile) *CallPlan {
	return &CallPlan{file: file, declined: make(map[string]bool)}
}

// Decline records that call is left unchanged.
func (p *CallPlan) Decline(call *sitter.Node) {
	if call != nil && javaast.CallObject(call) == nil {
		p.declined[javaast.CallName(call, p.file.Source)] = true
	}
}

// Rewrite schedules replacing node with render's output. owner.member is the
// new target method and extras are other members of owner the output uses;
// qualified keeps the call qualified regardless of conflicts.
func (p *CallPlan) Rewrite(node *sitter.Node, owner, member string, qualified bool, render RenderFunc, extras ...string) {
	p.calls = append(p.calls, plannedCall{
		node:      node,
		owner:     owner,
		member:    member,
		qualified: qualified,
		render:    render,
		extras:    extras,
	})
}

// Len returns the number of scheduled rewrites.
func (p *CallPlan) Len() int {
	return len(p.calls)
}

// Commit records every scheduled rewrite and the imports it needs.
func (p *CallPlan) Commit(changes *ChangeSet) error {
	for _, c := range p.calls {
		prefix := ""
		var imports []javaast.Import
		switch {
		case (c.qualified || p.conflicts(c.member)) && p.typeClash(c.owner):
			prefix = c.owner + "."
		case c.qualified || p.conflicts(c.member):
			prefix = javaast.SimpleName(c.owner) + "."
			imports = append(imports, javaast.NewImport(c.owner))
		default:
			imports = append(imports, javaast.NewStaticImport(c.owner, c.member))
			for _, extra := range c.extras {
				imports = append(imports, javaast.NewStaticImport(c.owner, extra))
			}
		}

		text, err := c.render(prefix)
		if err != nil {
			return err
		}
		changes.Replace(c.node, text)
		for _, imp := range imports {
			changes.AddImport(imp)
		}
	}
	return nil
}

func (p *CallPlan) conflicts(member string) bool {
	return p.declined[member] || p.file.DeclaresMethod(member)
}

// typeClash reports whether another type with owner's simple name is imported.
func (p *CallPlan) typeClash(owner string) bool {
	simple := javaast.SimpleName(owner)
	for _, imp := range p.file.Imports.Imports {
		if !imp.Static && !imp.Wildcard && imp.SimpleName() == simple && imp.Path != owner {
			return true
		}
	}
	return false
}
