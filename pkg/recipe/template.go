package recipe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrTemplateArity is returned when a template is applied to the wrong
// number of arguments.
var ErrTemplateArity = errors.New("recipe: template argument count mismatch")

var placeholderRe = regexp.MustCompile(`#\{(?:([A-Za-z_][A-Za-z0-9_]*):)?(?:any\(([A-Za-z0-9_.<>\[\]]*)\))?\}`)

type templatePart struct {
	literal string
	slot    int // -1 for literal parts
}

// Template is a replacement fragment with ordered placeholders: "#{}",
// "#{any()}", "#{any(String)}". A named placeholder such as "#{x:any()}" may
// occur several times and binds a single argument.
type Template struct {
	code  string
	parts []templatePart
	slots int
}

// NewTemplate compiles code.
func NewTemplate(code string) *Template {
	t := &Template{code: code}
	named := make(map[string]int)

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(code, -1) {
		if loc[0] > last {
			t.parts = append(t.parts, templatePart{literal: code[last:loc[0]], slot: -1})
		}
		slot := t.slots
		if loc[2] >= 0 {
			name := code[loc[2]:loc[3]]
			if existing, ok := named[name]; ok {
				slot = existing
			} else {
				named[name] = slot
				t.slots++
			}
		} else {
			t.slots++
		}
		t.parts = append(t.parts, templatePart{slot: slot})
		last = loc[1]
	}
	if last < len(code) {
		t.parts = append(t.parts, templatePart{literal: code[last:], slot: -1})
	}
	return t
}

// Arity is the number of arguments Apply expects.
func (t *Template) Arity() int {
	return t.slots
}

func (t *Template) String() string {
	return t.code
}

// Apply substitutes args into the placeholders in order.
func (t *Template) Apply(args ...string) (string, error) {
	if len(args) != t.slots {
		return "", fmt.Errorf("%w: %q wants %d, got %d", ErrTemplateArity, t.code, t.slots, len(args))
	}

	var b strings.Builder
	for _, part := range t.parts {
		if part.slot < 0 {
			b.WriteString(part.literal)
			continue
		}
		b.WriteString(args[part.slot])
	}
	return b.String(), nil
}

// Varargs joins argument texts the way they are bound to a single
// placeholder.
func Varargs(texts []string) string {
	return strings.Join(texts, ", ")
}
