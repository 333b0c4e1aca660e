package syntax

import "strings"

// listMultilineThreshold is the element count at which an auto-layout list
// switches to one element per line.
const listMultilineThreshold = 4

// List is a Nix list expression.
type List struct {
	Meta

	Elements []Expr
	Layout   Layout

	// InnerTrivia holds trivia inside the brackets of an empty list.
	InnerTrivia []Trivia
}

// NewList returns a list with automatic layout.
func NewList(elements ...Expr) *List { return &List{Elements: elements} }

// multiline resolves the layout tri-state for rendering.
func (l *List) multiline() bool {
	switch l.Layout {
	case LayoutMultiline:
		return true
	case LayoutInline:
		return false
	}

	if len(l.Elements) == 0 {
		return len(l.InnerTrivia) > 0
	}

	if len(l.InnerTrivia) > 0 || len(l.Elements) >= listMultilineThreshold {
		return true
	}

	for _, elem := range l.Elements {
		if elem.trivia().hasTrivia() || rendersMultiline(elem) {
			return true
		}
	}

	return false
}

// Rebuild implements Expr.
func (l *List) Rebuild(indent int, inline bool) string {
	if len(l.Elements) == 0 {
		return l.rebuildEmpty(indent, inline)
	}

	indented := indent + indentStep

	if !l.multiline() {
		items := make([]string, 0, len(l.Elements))
		for _, elem := range l.Elements {
			items = append(items, elem.Rebuild(indented, true))
		}

		return l.addTrivia("[ "+strings.Join(items, " ")+" ]", indent, inline)
	}

	items := make([]string, 0, len(l.Elements))
	for _, elem := range l.Elements {
		items = append(items, elem.Rebuild(indented, false))
	}

	body := strings.Join(items, "\n")

	closing := "\n"
	if strings.HasSuffix(body, "\n") {
		closing = ""
	}

	before := renderLeading(l.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	out := before + indentation + "[\n" + body + closing + strings.Repeat(" ", indent) + "]"

	return applyTrailing(out, l.After, indent)
}

func (l *List) rebuildEmpty(indent int, inline bool) string {
	if len(l.InnerTrivia) == 0 {
		return l.addTrivia("[ ]", indent, inline)
	}

	inner := renderLeading(l.InnerTrivia, indent+indentStep)

	closing := ""
	if inner != "" && !strings.HasSuffix(inner, "\n") {
		closing = "\n"
	}

	before := renderLeading(l.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	out := before + indentation + "[\n" + inner + closing + strings.Repeat(" ", indent) + "]"

	return applyTrailing(out, l.After, indent)
}
