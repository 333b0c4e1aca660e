// Package edit implements the path-based edit API over parsed documents:
// SetValue and RemoveValue interpret an NPATH - a dotted attribute path with
// an optional @-prefixed scope selector - and apply the mutation while
// preserving surrounding trivia.
package edit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// bareIdentRe matches NPATH segments usable without quoting; a hyphen is
// allowed anywhere but first.
var bareIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'\-]*$`)

// Segment is one component of an NPATH.
type Segment struct {
	Name   string
	Quoted bool
}

// format renders the segment as it appears as a binding name.
func (s Segment) format() string {
	if s.Quoted {
		return `"` + syntax.EscapeString(s.Name, true) + `"`
	}

	return s.Name
}

// NPath is a parsed path specification: an optional run of `@` selecting a
// scope layer (one `@` is the innermost), followed by dotted segments.
type NPath struct {
	ScopeDepth int
	Segments   []Segment
}

// Formatted returns the segments as binding names, quoted where required.
func (p NPath) Formatted() []string {
	out := make([]string, 0, len(p.Segments))
	for _, segment := range p.Segments {
		out = append(out, segment.format())
	}

	return out
}

// ParseNPath parses the `(@+)? segment ( "." segment )*` grammar. Bare
// segments must be identifiers; quoted segments use `"..."` with `\` and `"`
// escaped.
func ParseNPath(npath string) (NPath, error) {
	if npath == "" {
		return NPath{}, fmt.Errorf("%w: empty path", syntax.ErrInvalidSegment)
	}

	depth := 0
	for depth < len(npath) && npath[depth] == '@' {
		depth++
	}

	rest := npath[depth:]
	if rest == "" {
		return NPath{}, fmt.Errorf("%w: scope selector without a binding name", syntax.ErrInvalidSegment)
	}

	segments, err := parseSegments(rest)
	if err != nil {
		return NPath{}, err
	}

	return NPath{ScopeDepth: depth, Segments: segments}, nil
}

func parseSegments(text string) ([]Segment, error) {
	var (
		segments []Segment
		buffer   strings.Builder
		inQuotes bool
		quoted   bool
		escape   bool
	)

	finalize := func() error {
		name := buffer.String()

		if !quoted {
			if name == "" {
				return fmt.Errorf("%w: empty segment", syntax.ErrInvalidSegment)
			}

			if !bareIdentRe.MatchString(name) {
				return fmt.Errorf("%w: %q is not a bare identifier", syntax.ErrInvalidSegment, name)
			}
		}

		segments = append(segments, Segment{Name: name, Quoted: quoted})
		buffer.Reset()

		quoted = false

		return nil
	}

	for _, ch := range text {
		if inQuotes {
			if escape {
				switch ch {
				case 'n':
					buffer.WriteByte('\n')
				case 'r':
					buffer.WriteByte('\r')
				case 't':
					buffer.WriteByte('\t')
				case '"', '\\':
					buffer.WriteRune(ch)
				default:
					buffer.WriteByte('\\')
					buffer.WriteRune(ch)
				}

				escape = false

				continue
			}

			switch ch {
			case '\\':
				escape = true
			case '"':
				inQuotes = false
				quoted = true
			default:
				buffer.WriteRune(ch)
			}

			continue
		}

		switch ch {
		case '.':
			if err := finalize(); err != nil {
				return nil, err
			}
		case '"':
			if buffer.Len() > 0 {
				return nil, fmt.Errorf("%w: quote inside a bare segment", syntax.ErrInvalidSegment)
			}

			inQuotes = true
		default:
			buffer.WriteRune(ch)
		}
	}

	if escape {
		return nil, fmt.Errorf("%w: dangling escape", syntax.ErrInvalidSegment)
	}

	if inQuotes {
		return nil, fmt.Errorf("%w: unterminated quoted segment", syntax.ErrInvalidSegment)
	}

	if err := finalize(); err != nil {
		return nil, err
	}

	return segments, nil
}
