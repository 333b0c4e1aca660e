package syntax

import "strings"

// Let is a `let ... in` expression whose body is not an attribute set.
// When the body is (or resolves to) an attribute set, the parser folds the
// layer onto that set's ScopeStack instead, so edits can prune it.
type Let struct {
	Meta

	// Bindings holds *Binding and *Inherit entries in source order.
	Bindings []Expr

	Body Expr

	Multiline bool
}

// Rebuild implements Expr.
func (l *Let) Rebuild(indent int, inline bool) string {
	if !l.Multiline {
		items := make([]string, 0, len(l.Bindings))
		for _, binding := range l.Bindings {
			items = append(items, binding.Rebuild(indent, true))
		}

		core := "let " + strings.Join(items, " ") + " in " + l.Body.Rebuild(indent, true)

		return l.addTrivia(core, indent, inline)
	}

	var b strings.Builder

	b.WriteString(renderLeading(l.Before, indent))

	pad := strings.Repeat(" ", indent)

	lead := pad
	if inline {
		lead = ""
	}

	b.WriteString(lead + "let\n")

	for _, binding := range l.Bindings {
		b.WriteString(binding.Rebuild(indent+indentStep, false))
		b.WriteString("\n")
	}

	b.WriteString(pad + "in\n")
	b.WriteString(l.Body.Rebuild(indent, false))

	return applyTrailing(b.String(), l.After, indent)
}

// With is a `with env; body` expression.
type With struct {
	Meta

	Environment Expr
	Body        Expr

	// BodyOnNewline preserves a body that sat on its own line.
	BodyOnNewline bool
}

// Rebuild implements Expr.
func (w *With) Rebuild(indent int, inline bool) string {
	head := "with " + w.Environment.Rebuild(indent, true) + ";"

	if w.BodyOnNewline {
		before := renderLeading(w.Before, indent)

		indentation := ""
		if !inline {
			indentation = strings.Repeat(" ", indent)
		}

		out := before + indentation + head + "\n" + w.Body.Rebuild(indent, false)

		return applyTrailing(out, w.After, indent)
	}

	return w.addTrivia(head+" "+w.Body.Rebuild(indent, true), indent, inline)
}

// Assert is an `assert cond; body` expression.
type Assert struct {
	Meta

	Condition Expr
	Body      Expr

	// BodyOnNewline preserves a body that sat on its own line.
	BodyOnNewline bool
}

// Rebuild implements Expr.
func (a *Assert) Rebuild(indent int, inline bool) string {
	head := "assert " + a.Condition.Rebuild(indent, true) + ";"

	if a.BodyOnNewline {
		before := renderLeading(a.Before, indent)

		indentation := ""
		if !inline {
			indentation = strings.Repeat(" ", indent)
		}

		out := before + indentation + head + "\n" + a.Body.Rebuild(indent, false)

		return applyTrailing(out, a.After, indent)
	}

	return a.addTrivia(head+" "+a.Body.Rebuild(indent, true), indent, inline)
}

// If is an `if cond then x else y` expression.
type If struct {
	Meta

	Condition   Expr
	Consequence Expr
	Alternative Expr

	Multiline bool
}

// Rebuild implements Expr.
func (i *If) Rebuild(indent int, inline bool) string {
	if !i.Multiline {
		core := "if " + i.Condition.Rebuild(indent, true) +
			" then " + i.Consequence.Rebuild(indent, true) +
			" else " + i.Alternative.Rebuild(indent, true)

		return i.addTrivia(core, indent, inline)
	}

	pad := strings.Repeat(" ", indent)

	core := "if " + i.Condition.Rebuild(indent, true) + " then\n" +
		i.Consequence.Rebuild(indent+indentStep, false) + "\n" +
		pad + "else\n" +
		i.Alternative.Rebuild(indent+indentStep, false)

	return i.addTrivia(core, indent, inline)
}
