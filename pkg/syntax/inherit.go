package syntax

import "strings"

// Inherit is an `inherit a b;` or `inherit (expr) a b;` entry.
type Inherit struct {
	Meta

	Names []*Identifier

	// From is the parenthesized source expression, nil for plain inherits.
	From Expr
}

// Rebuild implements Expr.
func (in *Inherit) Rebuild(indent int, inline bool) string {
	names := make([]string, 0, len(in.Names))
	for _, name := range in.Names {
		names = append(names, name.Rebuild(0, true))
	}

	core := "inherit"

	if in.From != nil {
		core += " (" + in.From.Rebuild(indent, true) + ")"
	}

	if len(names) > 0 {
		core += " " + strings.Join(names, " ")
	}

	return in.addTrivia(core+";", indent, inline)
}

// Declares reports whether the inherit binds the given name.
func (in *Inherit) Declares(name string) bool {
	for _, id := range in.Names {
		if id.Name == name {
			return true
		}
	}

	return false
}
