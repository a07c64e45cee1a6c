package recipe

import (
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/migrate/pkg/parser/javaast"
)

// Edit replaces the byte range [Start, End) of a source with Text.
// Start == End is an insertion.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

type importRemoval struct {
	imp     javaast.Import
	members []string
}

// ChangeSet accumulates the edits and import requests of one recipe visit.
type ChangeSet struct {
	edits   []Edit
	adds    []javaast.Import
	removes []importRemoval
}

// Replace replaces the full text of node.
func (c *ChangeSet) Replace(node *sitter.Node, text string) {
	c.ReplaceRange(node.StartByte(), node.EndByte(), text)
}

// ReplaceRange replaces the byte range [start, end).
func (c *ChangeSet) ReplaceRange(start, end uint32, text string) {
	c.edits = append(c.edits, Edit{Start: start, End: end, Text: text})
}

// Insert inserts text at offset.
func (c *ChangeSet) Insert(offset uint32, text string) {
	c.ReplaceRange(offset, offset, text)
}

// AddImport requests imp. It is only added if the rewritten file references
// its simple name and does not import it already.
func (c *ChangeSet) AddImport(imp javaast.Import) {
	for _, existing := range c.adds {
		if existing.Same(imp) {
			return
		}
	}
	c.adds = append(c.adds, imp)
}

// MaybeRemoveImport requests removal of imp once nothing in the rewritten
// file references its simple name.
func (c *ChangeSet) MaybeRemoveImport(imp javaast.Import) {
	c.removes = append(c.removes, importRemoval{imp: imp})
}

// MaybeRemoveStaticWildcard requests removal of "import static owner.*" once
// none of members is referenced by the rewritten file.
func (c *ChangeSet) MaybeRemoveStaticWildcard(owner string, members ...string) {
	c.removes = append(c.removes, importRemoval{imp: javaast.NewStaticWildcard(owner), members: members})
}

// Empty reports whether the visit recorded nothing.
func (c *ChangeSet) Empty() bool {
	return len(c.edits) == 0 && len(c.adds) == 0 && len(c.removes) == 0
}

// Edits returns the recorded edits sorted by position.
func (c *ChangeSet) Edits() []Edit {
	edits := make([]Edit, len(c.edits))
	copy(edits, c.edits)
	sortEdits(edits)
	return edits
}

func sortEdits(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})
}

// ApplyEdits applies edits to source and returns the new source. Edits must
// not overlap; insertions may share a position with each other and with the
// start or end of a replacement.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), source...), nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sortEdits(sorted)

	size := len(source)
	for _, e := range sorted {
		size += len(e.Text) - int(e.End-e.Start)
	}
	if size < 0 {
		size = 0
	}
	result := make([]byte, 0, size)

	last := uint32(0)
	for _, e := range sorted {
		if e.End < e.Start || int(e.End) > len(source) {
			return nil, fmt.Errorf("edit [%d,%d) out of range for %d bytes", e.Start, e.End, len(source))
		}
		if e.Start < last {
			return nil, fmt.Errorf("%w: [%d,%d) starts before %d", ErrOverlappingEdits, e.Start, e.End, last)
		}
		result = append(result, source[last:e.Start]...)
		result = append(result, e.Text...)
		last = e.End
	}
	result = append(result, source[last:]...)
	return result, nil
}
