package edit

import (
	"fmt"

	"github.com/hoh/nix-manipulator/pkg/parser"
	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// SetValue parses valueSource as a single Nix expression and assigns it at
// npath inside the document, returning the rebuilt source. A leading `@`
// targets the innermost scope layer (auto-created when absent), `@@` the
// next outer one, and so on; outer layers must already exist.
func SetValue(file *syntax.SourceFile, npath, valueSource string) (string, error) {
	value, err := parser.ParseValue(valueSource)
	if err != nil {
		return "", err
	}

	path, err := ParseNPath(npath)
	if err != nil {
		return "", err
	}

	target, err := syntax.TargetSet(file)
	if err != nil {
		return "", err
	}

	if path.ScopeDepth > 0 {
		if err := setInScope(file, target, path, value); err != nil {
			return "", err
		}

		return file.Rebuild(), nil
	}

	if err := target.SetPath(path.Formatted(), value); err != nil {
		return "", err
	}

	return file.Rebuild(), nil
}

// RemoveValue removes the binding at npath and returns the rebuilt source.
// Removing the last binding of a scope layer prunes its `let ... in` wrapper.
func RemoveValue(file *syntax.SourceFile, npath string) (string, error) {
	path, err := ParseNPath(npath)
	if err != nil {
		return "", err
	}

	target, err := syntax.TargetSet(file)
	if err != nil {
		return "", err
	}

	if path.ScopeDepth > 0 {
		if err := removeInScope(file, target, path); err != nil {
			return "", err
		}

		return file.Rebuild(), nil
	}

	if err := target.RemovePath(path.Formatted()); err != nil {
		return "", err
	}

	return file.Rebuild(), nil
}

func setInScope(file *syntax.SourceFile, target *syntax.AttrSet, path NPath, value syntax.Expr) error {
	if path.ScopeDepth == 1 && len(target.ScopeStack) == 0 {
		target.PushScope()
		file.EnsureTrailingNewline()
	}

	if path.ScopeDepth > len(target.ScopeStack) {
		return fmt.Errorf("%w: depth %d exceeds %d layer(s)",
			syntax.ErrScopeMissing, path.ScopeDepth, len(target.ScopeStack))
	}

	layer := target.ScopeStack[len(target.ScopeStack)-path.ScopeDepth]

	wrapper := layerSet(layer)
	if err := wrapper.SetPath(path.Formatted(), value); err != nil {
		return err
	}

	layer.Bindings = wrapper.Values

	return nil
}

func removeInScope(file *syntax.SourceFile, target *syntax.AttrSet, path NPath) error {
	if path.ScopeDepth > len(target.ScopeStack) {
		return fmt.Errorf("%w: depth %d exceeds %d layer(s)",
			syntax.ErrScopeMissing, path.ScopeDepth, len(target.ScopeStack))
	}

	layer := target.ScopeStack[len(target.ScopeStack)-path.ScopeDepth]

	wrapper := layerSet(layer)
	if err := wrapper.RemovePath(path.Formatted()); err != nil {
		return err
	}

	layer.Bindings = wrapper.Values

	if len(layer.Bindings) == 0 {
		target.PruneScopes()
		file.EnsureTrailingNewline()
	}

	return nil
}

// layerSet exposes a scope layer through the attribute-set mapping API.
func layerSet(layer *syntax.ScopeLayer) *syntax.AttrSet {
	layout := syntax.LayoutInline
	if layer.Multiline {
		layout = syntax.LayoutMultiline
	}

	return &syntax.AttrSet{Values: layer.Bindings, Layout: layout}
}
