package syntax

import "strings"

// Layout selects how a container renders its children.
type Layout uint8

// Layout states. Auto lets the rebuilder decide from content; Multiline and
// Inline pin the decision, which parsing uses to preserve the source layout.
const (
	LayoutAuto Layout = iota
	LayoutMultiline
	LayoutInline
)

// indentStep is the RFC-0166 indentation unit.
const indentStep = 2

// Expr is a Nix expression node. The set of implementations is closed;
// rebuild and edit logic dispatch on the concrete type.
type Expr interface {
	// Rebuild serializes the node. indent is the column of the node's first
	// line; inline suppresses the node's own leading indentation (the caller
	// already placed it mid-line).
	Rebuild(indent int, inline bool) string

	// trivia returns the node's attached trivia for shared helpers.
	trivia() *Meta
}

// Meta carries the trivia owned by an expression. Every variant embeds it.
type Meta struct {
	// Before holds trivia preceding the node: comments on the lines above
	// and the blank-line / line-break separation from the previous sibling.
	Before []Trivia
	// After holds trivia following the node on the same line (inline
	// comments) or bound to its trailing position.
	After []Trivia
}

func (m *Meta) trivia() *Meta { return m }

// LeadingOf returns the Before sequence of an expression.
func LeadingOf(e Expr) []Trivia { return e.trivia().Before }

// TrailingOf returns the After sequence of an expression.
func TrailingOf(e Expr) []Trivia { return e.trivia().After }

// PrependBefore inserts trivia at the front of the node's Before sequence.
func PrependBefore(e Expr, items ...Trivia) {
	m := e.trivia()
	m.Before = append(append([]Trivia{}, items...), m.Before...)
}

// AppendBefore appends trivia to the node's Before sequence.
func AppendBefore(e Expr, items ...Trivia) {
	m := e.trivia()
	m.Before = append(m.Before, items...)
}

// AppendAfter appends trivia to the node's After sequence.
func AppendAfter(e Expr, items ...Trivia) {
	m := e.trivia()
	m.After = append(m.After, items...)
}

// SetBefore replaces the node's Before sequence.
func SetBefore(e Expr, items []Trivia) { e.trivia().Before = items }

// addTrivia wraps a node's own text with its leading and trailing trivia,
// inserting indentation unless the caller renders mid-line.
func (m *Meta) addTrivia(text string, indent int, inline bool) string {
	before := renderLeading(m.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	return applyTrailing(before+indentation+text, m.After, indent)
}

// hasTrivia reports whether the node owns any trivia at all.
func (m *Meta) hasTrivia() bool {
	return len(m.Before) > 0 || len(m.After) > 0
}

// rendersMultiline reports whether an expression produces more than one line
// when rendered inline. Containers use it for automatic layout selection.
func rendersMultiline(e Expr) bool {
	return strings.Contains(e.Rebuild(0, true), "\n")
}
