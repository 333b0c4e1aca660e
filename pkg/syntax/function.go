package syntax

import "strings"

// Formal is one named function parameter, optionally with a default.
type Formal struct {
	Meta

	Name    string
	Default Expr
}

// Formals is the destructuring parameter set of a function definition:
// `{ a, b ? 1, ... } @ args`.
type Formals struct {
	Params   []*Formal
	Ellipsis bool

	// At names the whole argument set (`args @ { ... }` or `{ ... } @ args`).
	At *Identifier

	// AtBeforeFormals places the `@` name before the braces.
	AtBeforeFormals bool

	Multiline bool
}

// Function is a function definition. Param is either a *Identifier for the
// simple `x: body` form or a *Formals for the destructuring form.
type Function struct {
	Meta

	Param  any
	Output Expr

	// BodyOnNewline preserves a body that sat on its own line after the colon.
	BodyOnNewline bool
}

func (f *Formals) render(indent int) string {
	if !f.Multiline {
		parts := make([]string, 0, len(f.Params)+1)
		for _, param := range f.Params {
			parts = append(parts, param.render(indent, true))
		}

		if f.Ellipsis {
			parts = append(parts, "...")
		}

		if len(parts) == 0 {
			return "{ }"
		}

		return "{ " + strings.Join(parts, ", ") + " }"
	}

	pad := strings.Repeat(" ", indent)

	var b strings.Builder

	b.WriteString("{\n")

	for _, param := range f.Params {
		b.WriteString(renderLeading(param.Before, indent+indentStep))
		b.WriteString(strings.Repeat(" ", indent+indentStep))
		b.WriteString(param.render(indent+indentStep, true))
		b.WriteString(",")

		if len(param.After) > 0 {
			b.WriteString(applyTrailing("", param.After, indent+indentStep))
		}

		b.WriteString("\n")
	}

	if f.Ellipsis {
		b.WriteString(strings.Repeat(" ", indent+indentStep) + "...\n")
	}

	b.WriteString(pad + "}")

	return b.String()
}

func (p *Formal) render(indent int, inline bool) string {
	out := p.Name

	if p.Default != nil {
		out += " ? " + p.Default.Rebuild(indent, true)
	}

	return out
}

// Rebuild implements Expr.
func (f *Function) Rebuild(indent int, inline bool) string {
	var head string

	switch param := f.Param.(type) {
	case *Identifier:
		head = param.Name + ":"
	case *Formals:
		formals := param.render(indent)

		switch {
		case param.At != nil && param.AtBeforeFormals:
			head = param.At.Name + " @ " + formals + ":"
		case param.At != nil:
			head = formals + " @ " + param.At.Name + ":"
		default:
			head = formals + ":"
		}
	default:
		head = ":"
	}

	if f.BodyOnNewline {
		before := renderLeading(f.Before, indent)

		indentation := ""
		if !inline {
			indentation = strings.Repeat(" ", indent)
		}

		out := before + indentation + head + "\n" + f.Output.Rebuild(indent, false)

		return applyTrailing(out, f.After, indent)
	}

	return f.addTrivia(head+" "+f.Output.Rebuild(indent, true), indent, inline)
}

// Apply is a function call: `fn argument`.
type Apply struct {
	Meta

	Fn       Expr
	Argument Expr

	// ArgOnNewline preserves an argument that sat on its own line.
	ArgOnNewline bool
}

// Rebuild implements Expr.
func (a *Apply) Rebuild(indent int, inline bool) string {
	fn := a.Fn.Rebuild(indent, true)

	if a.ArgOnNewline {
		before := renderLeading(a.Before, indent)

		indentation := ""
		if !inline {
			indentation = strings.Repeat(" ", indent)
		}

		out := before + indentation + fn + "\n" + a.Argument.Rebuild(indent+indentStep, false)

		return applyTrailing(out, a.After, indent)
	}

	return a.addTrivia(fn+" "+a.Argument.Rebuild(indent, true), indent, inline)
}
