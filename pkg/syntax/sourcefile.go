package syntax

import "strings"

// SourceFile is a whole parsed Nix file: exactly one top-level expression
// plus the file's trailing trivia (final newline, end-of-file comments).
type SourceFile struct {
	Expr Expr

	// Trailing holds trivia after the top-level expression's last token.
	Trailing []Trivia
}

// Rebuild reassembles the file. On an unedited tree the result matches the
// parsed input byte-for-byte (modulo the normalizations the parser applies).
func (f *SourceFile) Rebuild() string {
	out := ""
	if f.Expr != nil {
		out = f.Expr.Rebuild(0, false)
	}

	if len(f.Trailing) == 0 {
		return out
	}

	trailing := renderLeading(f.Trailing, 0)
	trailing = trimTrailingLayoutNewline(f.Trailing, trailing)

	if trailing != "" {
		prefix := ""
		if out != "" {
			prefix = "\n"
		}

		return out + prefix + trailing
	}

	if f.Trailing[len(f.Trailing)-1].IsLayout() && !strings.HasSuffix(out, "\n") {
		return out + "\n"
	}

	return out
}

// EnsureTrailingNewline makes the rebuilt file end with a newline. The edit
// layer calls it when a scope layer is created or removed.
func (f *SourceFile) EnsureTrailingNewline() {
	if len(f.Trailing) == 0 {
		f.Trailing = []Trivia{LineBreak()}
	}
}

// Get returns the value bound to key in the file's editable attribute set.
func (f *SourceFile) Get(key string) (Expr, error) {
	target, err := TargetSet(f)
	if err != nil {
		return nil, err
	}

	return target.Get(key)
}

// Set binds key to a value (a host scalar or an Expr) in the file's editable
// attribute set.
func (f *SourceFile) Set(key string, value any) error {
	target, err := TargetSet(f)
	if err != nil {
		return err
	}

	return target.Set(key, value)
}

// Remove deletes the binding for key from the file's editable attribute set.
func (f *SourceFile) Remove(key string) error {
	target, err := TargetSet(f)
	if err != nil {
		return err
	}

	return target.Remove(key)
}
