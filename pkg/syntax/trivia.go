package syntax

import "strings"

// TriviaKind discriminates the trivia variants.
type TriviaKind uint8

// Trivia variants.
const (
	TriviaComment TriviaKind = iota
	TriviaMultilineComment
	TriviaLineBreak
	TriviaBlankLine
)

// Trivia is a single unit of non-semantic source text: a comment, a line
// break, or a blank line. Every unit is owned by exactly one expression,
// either in its Before or its After sequence.
type Trivia struct {
	Kind TriviaKind
	// Text is the comment body without the `#` or `/* */` markers. For
	// multiline comments it is the verbatim inner text, spacing included.
	Text string
	// Inline marks a comment that shares a line with a preceding token.
	Inline bool
	// SpaceAfterHash distinguishes `# text` from `#text`.
	SpaceAfterHash bool
	// Shebang marks a `#!` line.
	Shebang bool
	// Doc marks a `/** ... */` documentation comment.
	Doc bool
}

// LineBreak returns a single line-break trivia unit.
func LineBreak() Trivia { return Trivia{Kind: TriviaLineBreak} }

// BlankLine returns a blank-line trivia unit (a run of two or more
// consecutive line breaks in the source).
func BlankLine() Trivia { return Trivia{Kind: TriviaBlankLine} }

// NewComment returns a single-line `# text` comment unit.
func NewComment(text string) Trivia {
	return Trivia{Kind: TriviaComment, Text: text, SpaceAfterHash: true}
}

// IsComment reports whether the unit is a single-line or multiline comment.
func (t Trivia) IsComment() bool {
	return t.Kind == TriviaComment || t.Kind == TriviaMultilineComment
}

// IsLayout reports whether the unit is a pure layout marker.
func (t Trivia) IsLayout() bool {
	return t.Kind == TriviaLineBreak || t.Kind == TriviaBlankLine
}

// String renders the comment text with its markers. Layout markers render
// empty; their effect comes from the formatting helpers below.
func (t Trivia) String() string {
	switch t.Kind {
	case TriviaComment:
		if t.Shebang {
			return "#!" + t.Text
		}

		prefix := "#"
		if t.SpaceAfterHash {
			prefix = "# "
		}

		lines := strings.Split(t.Text, "\n")
		rendered := make([]string, 0, len(lines))

		for _, line := range lines {
			if line == "" {
				rendered = append(rendered, "#")
				continue
			}

			rendered = append(rendered, prefix+line)
		}

		return strings.Join(rendered, "\n")
	case TriviaMultilineComment:
		// Verbatim inner text: parsed comments round-trip exactly.
		opening := "/*"
		if t.Doc {
			opening = "/**"
		}

		return opening + t.Text + "*/"
	default:
		return ""
	}
}

// render emits the unit at the given indent, honoring inline placement.
func (t Trivia) render(indent int) string {
	if t.Inline {
		indent = 0
	}

	switch t.Kind {
	case TriviaComment, TriviaMultilineComment:
		return strings.Repeat(" ", indent) + t.String()
	default:
		return ""
	}
}

// renderLeading converts a Before sequence to text. Each comment sits on its
// own line at the given indent; blank-line markers add an empty line; plain
// line breaks are implied by the line-per-item layout and render empty. The
// result either is empty or ends with a newline.
func renderLeading(trivia []Trivia, indent int) string {
	if len(trivia) == 0 {
		return ""
	}

	var b strings.Builder

	for _, item := range trivia {
		switch item.Kind {
		case TriviaBlankLine:
			b.WriteString("\n")
		case TriviaLineBreak:
			// Implied by the surrounding line layout.
		default:
			b.WriteString(item.render(indent))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// trimTrailingLayoutNewline drops the final newline of a rendered trailing
// sequence unless the last unit explicitly demands one.
func trimTrailingLayoutNewline(trivia []Trivia, rendered string) string {
	if len(trivia) == 0 {
		return rendered
	}

	if !trivia[len(trivia)-1].IsLayout() && strings.HasSuffix(rendered, "\n") {
		return strings.TrimSuffix(rendered, "\n")
	}

	return rendered
}

// applyTrailing appends an After sequence to an already-formatted node. A
// leading inline comment stays on the node's line; everything else moves to
// the following lines.
func applyTrailing(rebuilt string, after []Trivia, indent int) string {
	if len(after) == 0 {
		return rebuilt
	}

	if after[0].IsComment() && after[0].Inline {
		out := rebuilt + " " + after[0].render(0)

		trailing := renderLeading(after[1:], indent)
		trailing = trimTrailingLayoutNewline(after[1:], trailing)

		if trailing != "" {
			out += "\n" + trailing
		}

		return out
	}

	trailing := renderLeading(after, indent)
	trailing = trimTrailingLayoutNewline(after, trailing)

	if trailing == "" {
		return rebuilt
	}

	return rebuilt + "\n" + trailing
}

// hasCommentTrivia reports whether any unit in the sequence is a comment.
func hasCommentTrivia(trivia []Trivia) bool {
	for _, item := range trivia {
		if item.IsComment() {
			return true
		}
	}

	return false
}

// splitInlineComments separates the trailing inline comments of a value's
// After sequence from the remaining units. The rebuilder uses the split to
// decide semicolon placement for bindings.
func splitInlineComments(after []Trivia) (inline, rest []Trivia) {
	for _, item := range after {
		if item.IsComment() && item.Inline {
			inline = append(inline, item)
			continue
		}

		rest = append(rest, item)
	}

	return inline, rest
}
