package syntax

import "strings"

// Binding is a single `name = value;` entry inside an attribute set, a
// binding set of a `let`, or a scope layer.
//
// Nested marks the attrpath form: `a.b.c = v;` parses into a chain of
// nested bindings whose intermediates all have Nested set, terminated by a
// plain leaf. The chain renders back as attrpath syntax; a binding whose
// value is a braced attribute set keeps Nested unset and renders braces.
// The two shapes are never normalized into each other.
type Binding struct {
	Meta

	// Name is a single attrpath segment, quoted if it is not a bare
	// identifier.
	Name string

	Value Expr

	// Nested selects attrpath rendering (see type comment).
	Nested bool

	// ValueOnNewline preserves a value that sat on its own line after `=`.
	ValueOnNewline bool
}

// NewBinding returns a plain `name = value;` binding.
func NewBinding(name string, value Expr) *Binding {
	return &Binding{Name: name, Value: value}
}

// Rebuild implements Expr. Attrpath chains expand into one line per leaf.
func (b *Binding) Rebuild(indent int, inline bool) string {
	if b.Nested {
		if leaves, ok := b.attrpathLeaves(); ok {
			return b.rebuildLeaves(leaves, indent, inline)
		}
	}

	return b.rebuildSimple(b.Name, indent, inline, &b.Meta)
}

// attrpathLeaves flattens the nested chain under an attrpath binding into
// leaf bindings carrying their full dotted names. It reports false when the
// chain contains anything but bindings, in which case the binding renders
// in brace form instead.
func (b *Binding) attrpathLeaves() ([]*Binding, bool) {
	set, ok := b.Value.(*AttrSet)
	if !ok {
		return nil, false
	}

	var leaves []*Binding

	for _, item := range set.Values {
		child, ok := item.(*Binding)
		if !ok {
			return nil, false
		}

		if child.Nested {
			sub, ok := child.attrpathLeaves()
			if !ok {
				return nil, false
			}

			leaves = append(leaves, sub...)

			continue
		}

		clone := *child
		leaves = append(leaves, &clone)
	}

	if len(leaves) == 0 {
		return nil, false
	}

	for _, leaf := range leaves {
		leaf.Name = b.prefixFor(leaf)
	}

	return leaves, true
}

// prefixFor computes the dotted name of a leaf below this chain root.
func (b *Binding) prefixFor(leaf *Binding) string {
	// The leaf name was already extended by deeper recursion levels; only
	// this level's segment is prepended here.
	return b.Name + "." + leaf.Name
}

// rebuildLeaves renders the expanded attrpath lines. The chain root's
// leading trivia applies to the first line and its trailing trivia to the
// last, so comments stay put when a chain gains or loses leaves.
func (b *Binding) rebuildLeaves(leaves []*Binding, indent int, inline bool) string {
	rendered := make([]string, 0, len(leaves))

	for i, leaf := range leaves {
		meta := Meta{Before: leaf.Before, After: leaf.After}

		if i == 0 {
			meta.Before = append(append([]Trivia{}, b.Before...), leaf.Before...)
		}

		if i == len(leaves)-1 {
			meta.After = append(append([]Trivia{}, leaf.After...), b.After...)
		}

		rendered = append(rendered, leaf.rebuildSimple(leaf.Name, indent, inline, &meta))
	}

	if inline {
		return strings.Join(rendered, " ")
	}

	return strings.Join(rendered, "\n")
}

// rebuildSimple renders `name = value;` with the trivia of meta, honoring
// the semicolon placement rule: a trailing inline comment on the value
// pushes the semicolon onto the next line.
func (b *Binding) rebuildSimple(name string, indent int, inline bool, meta *Meta) string {
	value := b.Value

	valueMeta := value.trivia()
	inlineComments, restAfter := splitInlineComments(valueMeta.After)

	onNewline := b.ValueOnNewline
	if !onNewline && hasCommentTrivia(valueMeta.Before) {
		onNewline = true
	}

	savedAfter := valueMeta.After
	valueMeta.After = nil

	var valueStr string
	if onNewline {
		valueStr = "\n" + value.Rebuild(indent+indentStep, false)
	} else {
		valueStr = " " + value.Rebuild(indent, true)
	}

	valueMeta.After = savedAfter

	core := name + " =" + valueStr

	if len(inlineComments) > 0 {
		comments := make([]string, 0, len(inlineComments))
		for _, comment := range inlineComments {
			comments = append(comments, comment.render(0))
		}

		core += " " + strings.Join(comments, " ") + "\n" + strings.Repeat(" ", indent) + ";"
	} else {
		core += ";"
	}

	before := renderLeading(meta.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	return applyTrailing(before+indentation+core, append(append([]Trivia{}, restAfter...), meta.After...), indent)
}
