package parser

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// gapText returns the source text between two byte offsets.
func (c *converter) gapText(from, to uint) string {
	if from >= to || int(to) > len(c.src) {
		return ""
	}

	return string(c.src[from:to])
}

// hasNewline reports whether a gap spans more than one line.
func hasNewline(gap string) bool { return strings.Contains(gap, "\n") }

// hasBlankLine reports whether a whitespace gap contains a blank line: two
// newlines separated only by spaces or tabs.
func hasBlankLine(gap string) bool {
	first := strings.IndexByte(gap, '\n')
	if first < 0 {
		return false
	}

	for i := first + 1; i < len(gap); i++ {
		switch gap[i] {
		case ' ', '\t':
		case '\n':
			return true
		default:
			// Comment text never appears in gaps; anything else means the
			// gap crossed a token, which resets the blank-line scan.
			next := strings.IndexByte(gap[i:], '\n')
			if next < 0 {
				return false
			}

			i += next
		}
	}

	return false
}

// appendGapTrivia classifies the whitespace between two offsets: a blank
// line collapses to a single BlankLine unit, any other newline to a
// LineBreak, and pure alignment spacing is discarded.
func (c *converter) appendGapTrivia(list *[]syntax.Trivia, from, to uint) {
	gap := c.gapText(from, to)

	switch {
	case hasBlankLine(gap):
		*list = append(*list, syntax.BlankLine())
	case hasNewline(gap):
		*list = append(*list, syntax.LineBreak())
	}
}

// comment converts a comment node to a trivia unit, preserving its shape:
// `#` vs `# `, shebang lines, and `/* */` bodies verbatim.
func (c *converter) comment(n sitter.Node) syntax.Trivia {
	text := c.text(n)

	if strings.HasPrefix(text, "/*") {
		doc := strings.HasPrefix(text, "/**") && len(text) > len("/**/")
		openerLen := 2

		if doc {
			openerLen = 3
		}

		inner := strings.TrimSuffix(text[openerLen:], "*/")

		return syntax.Trivia{Kind: syntax.TriviaMultilineComment, Text: inner, Doc: doc}
	}

	if strings.HasPrefix(text, "#!") {
		return syntax.Trivia{Kind: syntax.TriviaComment, Text: text[2:], Shebang: true}
	}

	body := strings.TrimPrefix(text, "#")
	spaceAfterHash := strings.HasPrefix(body, " ")

	if spaceAfterHash {
		body = body[1:]
	}

	return syntax.Trivia{Kind: syntax.TriviaComment, Text: body, SpaceAfterHash: spaceAfterHash}
}
