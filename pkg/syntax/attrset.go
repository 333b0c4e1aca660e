package syntax

import "strings"

// ScopeLayer is one `let ... in` binding layer wrapping an attribute set.
type ScopeLayer struct {
	// Bindings holds *Binding and *Inherit entries in source order.
	Bindings []Expr

	// Multiline preserves whether the layer was written across lines.
	Multiline bool
}

// AttrSet is a Nix attribute set. Its Values hold *Binding and *Inherit
// entries in source order. ScopeStack carries the `let ... in` layers that
// wrap the set when rendered, ordered outermost first; empty layers are
// never rendered and the edit layer prunes them.
type AttrSet struct {
	Meta

	Values    []Expr
	Recursive bool
	Layout    Layout

	// InnerTrivia holds trivia inside the braces of an empty set.
	InnerTrivia []Trivia

	ScopeStack []*ScopeLayer

	// ctx is the non-owning resolution context accumulated while walking to
	// this set from the source file.
	ctx *Resolver
}

// NewAttrSet returns an attribute set with automatic layout from ordered
// key/value pairs.
func NewAttrSet(pairs ...Pair) (*AttrSet, error) {
	set := &AttrSet{}

	for _, pair := range pairs {
		value, err := Coerce(pair.Value)
		if err != nil {
			return nil, err
		}

		set.Values = append(set.Values, &Binding{Name: FormatSegment(pair.Key), Value: value})
	}

	return set, nil
}

// multiline resolves the layout tri-state.
func (s *AttrSet) multiline() bool {
	switch s.Layout {
	case LayoutMultiline:
		return true
	case LayoutInline:
		return false
	}

	if len(s.Values) == 0 {
		return len(s.InnerTrivia) > 0
	}

	if len(s.InnerTrivia) > 0 || len(s.Values) > 1 {
		return true
	}

	for _, item := range s.Values {
		if item.trivia().hasTrivia() || rendersMultiline(item) {
			return true
		}
	}

	return false
}

// Rebuild implements Expr.
func (s *AttrSet) Rebuild(indent int, inline bool) string {
	if len(s.ScopeStack) > 0 {
		return s.rebuildScoped(indent, inline)
	}

	prefix := ""
	if s.Recursive {
		prefix = "rec "
	}

	if len(s.Values) == 0 {
		return s.rebuildEmpty(prefix, indent, inline)
	}

	indented := indent + indentStep

	if !s.multiline() {
		items := make([]string, 0, len(s.Values))
		for _, item := range s.Values {
			items = append(items, item.Rebuild(indented, true))
		}

		return s.addTrivia(prefix+"{ "+strings.Join(items, " ")+" }", indent, inline)
	}

	items := make([]string, 0, len(s.Values))
	for _, item := range s.Values {
		items = append(items, item.Rebuild(indented, false))
	}

	body := strings.Join(items, "\n")

	closing := "\n"
	if strings.HasSuffix(body, "\n") {
		closing = ""
	}

	before := renderLeading(s.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	out := before + indentation + prefix + "{\n" + body + closing + strings.Repeat(" ", indent) + "}"

	return applyTrailing(out, s.After, indent)
}

func (s *AttrSet) rebuildEmpty(prefix string, indent int, inline bool) string {
	if len(s.InnerTrivia) == 0 {
		return s.addTrivia(prefix+"{ }", indent, inline)
	}

	inner := renderLeading(s.InnerTrivia, indent+indentStep)

	closing := ""
	if inner != "" && !strings.HasSuffix(inner, "\n") {
		closing = "\n"
	}

	before := renderLeading(s.Before, indent)

	indentation := ""
	if !inline {
		indentation = strings.Repeat(" ", indent)
	}

	out := before + indentation + prefix + "{\n" + inner + closing + strings.Repeat(" ", indent) + "}"

	return applyTrailing(out, s.After, indent)
}

// rebuildScoped renders the set's `let ... in` layers outermost first, then
// the set itself.
func (s *AttrSet) rebuildScoped(indent int, inline bool) string {
	var b strings.Builder

	b.WriteString(renderLeading(s.Before, indent))

	pad := strings.Repeat(" ", indent)
	midline := inline

	for _, layer := range s.ScopeStack {
		if len(layer.Bindings) == 0 {
			continue
		}

		lead := pad
		if midline {
			lead = ""
		}

		if layer.Multiline {
			b.WriteString(lead + "let\n")

			for _, binding := range layer.Bindings {
				b.WriteString(binding.Rebuild(indent+indentStep, false))
				b.WriteString("\n")
			}

			b.WriteString(pad + "in\n")

			midline = false

			continue
		}

		items := make([]string, 0, len(layer.Bindings))
		for _, binding := range layer.Bindings {
			items = append(items, binding.Rebuild(indent, true))
		}

		b.WriteString(lead + "let " + strings.Join(items, " ") + " in ")

		midline = true
	}

	body := *s
	body.ScopeStack = nil
	body.Before = nil
	body.After = nil

	b.WriteString(body.Rebuild(indent, midline))

	return applyTrailing(b.String(), s.After, indent)
}

// Scope returns the innermost scope layer, or nil when the set has none.
func (s *AttrSet) Scope() *ScopeLayer {
	if len(s.ScopeStack) == 0 {
		return nil
	}

	return s.ScopeStack[len(s.ScopeStack)-1]
}

// PushScope appends a new innermost scope layer and returns it.
func (s *AttrSet) PushScope() *ScopeLayer {
	layer := &ScopeLayer{Multiline: true}
	s.ScopeStack = append(s.ScopeStack, layer)

	return layer
}

// PruneScopes drops scope layers that lost their last binding.
func (s *AttrSet) PruneScopes() {
	kept := s.ScopeStack[:0]

	for _, layer := range s.ScopeStack {
		if len(layer.Bindings) > 0 {
			kept = append(kept, layer)
		}
	}

	s.ScopeStack = kept
}
