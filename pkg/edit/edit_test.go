package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoh/nix-manipulator/pkg/parser"
	"github.com/hoh/nix-manipulator/pkg/syntax"
)

func mustParse(t *testing.T, source string) *syntax.SourceFile {
	t.Helper()

	file, err := parser.ParseString(source)
	require.NoError(t, err)

	return file
}

func TestSetValueReplacesBinding(t *testing.T) {
	t.Parallel()

	file := mustParse(t, `{ version = "0.1.0"; }`)

	out, err := SetValue(file, "version", `"1.2.3"`)
	require.NoError(t, err)
	assert.Equal(t, `{ version = "1.2.3"; }`, out)
}

func TestSetValueCreatesInnermostScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo = 1; }")

	out, err := SetValue(file, "@bar", "2")
	require.NoError(t, err)
	assert.Equal(t, "let\n  bar = 2;\nin\n{ foo = 1; }\n", out)
}

func TestRemoveValuePrunesScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "let\n  bar = 2;\nin\n{ foo = 1; }\n")

	out, err := RemoveValue(file, "@bar")
	require.NoError(t, err)
	assert.Equal(t, "{ foo = 1; }\n", out)
}

func TestSetValueQuotedSegment(t *testing.T) {
	t.Parallel()

	file := mustParse(t, `{ foo = { "bar.baz" = 1; }; }`)

	out, err := SetValue(file, `foo."bar.baz"`, "2")
	require.NoError(t, err)
	assert.Equal(t, `{ foo = { "bar.baz" = 2; }; }`, out)
}

func TestSetValueOuterScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "let\n  a = 1;\nin\nlet\n  b = 2;\nin\n{ c = a + b; }\n")

	out, err := SetValue(file, "@@a", "10")
	require.NoError(t, err)
	assert.Equal(t, "let\n  a = 10;\nin\nlet\n  b = 2;\nin\n{ c = a + b; }\n", out)
}

func TestSetValueExtendsAttrpath(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo.bar = 1; }")

	out, err := SetValue(file, "foo.baz", "2")
	require.NoError(t, err)
	assert.Equal(t, "{ foo.bar = 1; foo.baz = 2; }", out)
}

func TestSetValueAppendsNewBinding(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{\n  foo = 1;\n}\n")

	out, err := SetValue(file, "bar", "2")
	require.NoError(t, err)
	assert.Equal(t, "{\n  foo = 1;\n  bar = 2;\n}\n", out)
}

func TestMutationLocality(t *testing.T) {
	t.Parallel()

	source := "{\n  keep = 1; # note\n\n  other = [ 1 2 ];\n  target = 3;\n}\n"
	file := mustParse(t, source)

	out, err := SetValue(file, "target", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "  keep = 1; # note\n")
	assert.Contains(t, out, "\n\n  other = [ 1 2 ];\n")
	assert.Contains(t, out, "  target = 4;\n")
	assert.Equal(t, strings.Replace(source, "target = 3", "target = 4", 1), out)
}

func TestSetValueThroughFunction(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ pkgs }:\n{\n  foo = 1;\n}\n")

	out, err := SetValue(file, "foo", "2")
	require.NoError(t, err)
	assert.Equal(t, "{ pkgs }:\n{\n  foo = 2;\n}\n", out)
}

func TestSetValueThroughAssertion(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "assert true; { foo = 1; }")

	out, err := SetValue(file, "foo", "2")
	require.NoError(t, err)
	assert.Equal(t, "assert true; { foo = 2; }", out)
}

func TestSetValueScopeKeepsExistingLayer(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "let\n  bar = 2;\nin\n{ foo = 1; }\n")

	out, err := SetValue(file, "@baz", "3")
	require.NoError(t, err)
	assert.Equal(t, "let\n  bar = 2;\n  baz = 3;\nin\n{ foo = 1; }\n", out)
}

func TestRemoveValueAttrpathLeafPrunesParents(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ keep = 1; a.b.c = 2; }")

	out, err := RemoveValue(file, "a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "{ keep = 1; }", out)
}

func TestRemoveValueKeepsNonEmptyScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "let\n  a = 1;\n  b = 2;\nin\n{ c = 3; }\n")

	out, err := RemoveValue(file, "@a")
	require.NoError(t, err)
	assert.Equal(t, "let\n  b = 2;\nin\n{ c = 3; }\n", out)
}

func TestSetValueRejectsInvalidValue(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo = 1; }")

	_, err := SetValue(file, "foo", "{ broken")
	assert.ErrorIs(t, err, parser.ErrParse)
}

func TestSetValueMissingOuterScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo = 1; }")

	_, err := SetValue(file, "@@bar", "2")
	assert.ErrorIs(t, err, syntax.ErrScopeMissing)
}

func TestRemoveValueMissingScope(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo = 1; }")

	_, err := RemoveValue(file, "@foo")
	assert.ErrorIs(t, err, syntax.ErrScopeMissing)
}

func TestRemoveValueMissingKey(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo = 1; }")

	_, err := RemoveValue(file, "bar")
	assert.ErrorIs(t, err, syntax.ErrKeyMissing)
}

func TestSetValueShapeError(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "42")

	_, err := SetValue(file, "foo", "1")
	assert.ErrorIs(t, err, syntax.ErrShape)
}

func TestSetValueAttrPathConflict(t *testing.T) {
	t.Parallel()

	file := mustParse(t, "{ foo.bar = 1; }")

	_, err := SetValue(file, "foo", "2")
	assert.ErrorIs(t, err, syntax.ErrAttrPathConflict)
}
