package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inlineSet(t *testing.T, pairs ...Pair) *AttrSet {
	t.Helper()

	set, err := NewAttrSet(pairs...)
	require.NoError(t, err)

	set.Layout = LayoutInline

	return set
}

func TestGetSetRemove(t *testing.T) {
	t.Parallel()

	set := inlineSet(t, Pair{Key: "foo", Value: 1})

	value, err := set.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "1", value.Rebuild(0, true))

	_, err = set.Get("missing")
	assert.ErrorIs(t, err, ErrKeyMissing)

	require.NoError(t, set.Set("foo", 2))
	assert.Equal(t, "{ foo = 2; }", set.Rebuild(0, false))

	require.NoError(t, set.Set("bar", "x"))
	assert.Equal(t, `{ foo = 2; bar = "x"; }`, set.Rebuild(0, false))

	require.NoError(t, set.Remove("foo"))
	assert.Equal(t, `{ bar = "x"; }`, set.Rebuild(0, false))

	assert.ErrorIs(t, set.Remove("foo"), ErrKeyMissing)
}

func TestSetPreservesBindingTrivia(t *testing.T) {
	t.Parallel()

	binding := NewBinding("foo", NewInt(1))
	binding.Before = []Trivia{NewComment("keep me")}

	set := &AttrSet{Layout: LayoutMultiline, Values: []Expr{binding}}

	require.NoError(t, set.Set("foo", 2))
	assert.Equal(t, "{\n  # keep me\n  foo = 2;\n}", set.Rebuild(0, false))
}

func TestSetAppendsOnNewLineWhenMultiline(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Layout: LayoutMultiline, Values: []Expr{NewBinding("a", NewInt(1))}}

	require.NoError(t, set.Set("b", 2))
	assert.Equal(t, "{\n  a = 1;\n  b = 2;\n}", set.Rebuild(0, false))
}

func TestSetPathThroughBraces(t *testing.T) {
	t.Parallel()

	inner := inlineSet(t, Pair{Key: "bar", Value: 1})
	outer := &AttrSet{Layout: LayoutInline, Values: []Expr{NewBinding("foo", inner)}}

	require.NoError(t, outer.SetPath([]string{"foo", "bar"}, NewInt(2)))
	assert.Equal(t, "{ foo = { bar = 2; }; }", outer.Rebuild(0, false))

	// Walking through a non-attrset value is a conflict.
	flat := inlineSet(t, Pair{Key: "foo", Value: 1})
	err := flat.SetPath([]string{"foo", "bar"}, NewInt(2))
	assert.ErrorIs(t, err, ErrAttrPathConflict)
}

func TestSetPathThroughAttrpathChain(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewAttrpathBinding([]string{"foo", "bar"}, NewInt(1)),
	}}

	require.NoError(t, set.SetPath([]string{"foo", "baz"}, NewInt(2)))
	assert.Equal(t, "{ foo.bar = 1; foo.baz = 2; }", set.Rebuild(0, false))

	// Overwriting the attrpath root with a plain value is a conflict.
	err := set.SetPath([]string{"foo"}, NewInt(3))
	assert.ErrorIs(t, err, ErrAttrPathConflict)
}

func TestSetPathCreatesAttrpathChain(t *testing.T) {
	t.Parallel()

	set := inlineSet(t, Pair{Key: "a", Value: 1})

	require.NoError(t, set.SetPath([]string{"b", "c"}, NewInt(2)))
	assert.Equal(t, "{ a = 1; b.c = 2; }", set.Rebuild(0, false))
}

func TestRemovePathPrunesEmptyParents(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewBinding("keep", NewInt(1)),
		NewAttrpathBinding([]string{"foo", "bar"}, NewInt(2)),
	}}

	require.NoError(t, set.RemovePath([]string{"foo", "bar"}))
	assert.Equal(t, "{ keep = 1; }", set.Rebuild(0, false))

	// Brace-nested parents are pruned too.
	inner := inlineSet(t, Pair{Key: "bar", Value: 1})
	outer := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewBinding("keep", NewInt(1)),
		NewBinding("foo", inner),
	}}

	require.NoError(t, outer.RemovePath([]string{"foo", "bar"}))
	assert.Equal(t, "{ keep = 1; }", outer.Rebuild(0, false))
}

func TestRemovePathMissing(t *testing.T) {
	t.Parallel()

	set := inlineSet(t, Pair{Key: "a", Value: 1})

	assert.ErrorIs(t, set.RemovePath([]string{"b"}), ErrKeyMissing)
	assert.ErrorIs(t, set.RemovePath([]string{"a", "b"}), ErrKeyMissing)
}

func TestScopeLayerMapping(t *testing.T) {
	t.Parallel()

	set := inlineSet(t, Pair{Key: "foo", Value: 1})
	assert.Nil(t, set.Scope())

	layer := set.PushScope()
	require.Same(t, layer, set.Scope())

	require.NoError(t, layer.Set("bar", 2))

	value, err := layer.Get("bar")
	require.NoError(t, err)
	assert.Equal(t, "2", value.Rebuild(0, true))

	require.NoError(t, layer.Set("bar", 3))
	require.NoError(t, layer.Remove("bar"))
	assert.ErrorIs(t, layer.Remove("bar"), ErrKeyMissing)

	_, err = layer.Get("bar")
	assert.ErrorIs(t, err, ErrKeyMissing)
}

func TestTargetSetShapes(t *testing.T) {
	t.Parallel()

	inner := inlineSet(t, Pair{Key: "foo", Value: 1})

	cases := []struct {
		name string
		expr Expr
	}{
		{"plain set", inner},
		{"function", &Function{Param: NewIdentifier("x"), Output: inner}},
		{"assert", &Assert{Condition: NewBool(true), Body: inner}},
		{"paren", &Paren{Inner: inner}},
		{"with", &With{Environment: NewIdentifier("pkgs"), Body: inner}},
		{"call", &Apply{Fn: NewIdentifier("import"), Argument: inner}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			target, err := TargetSet(&SourceFile{Expr: tc.expr})
			require.NoError(t, err)
			assert.Same(t, inner, target)
		})
	}
}

func TestTargetSetRejectsNonSets(t *testing.T) {
	t.Parallel()

	_, err := TargetSet(&SourceFile{Expr: NewInt(1)})
	assert.ErrorIs(t, err, ErrShape)

	_, err = TargetSet(&SourceFile{})
	assert.ErrorIs(t, err, ErrShape)
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "x", `"x"`},
		{"bool", true, "true"},
		{"int", 7, "7"},
		{"float", 2.5, "2.5"},
		{"nil", nil, "null"},
		{"slice", []any{1, 2}, "[ 1 2 ]"},
		{"pairs", []Pair{{Key: "a", Value: 1}}, "{ a = 1; }"},
		{"expr", NewIdentifier("pkgs"), "pkgs"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			expr, err := Coerce(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, expr.Rebuild(0, true))
		})
	}

	_, err := Coerce(struct{}{})
	assert.ErrorIs(t, err, ErrCoerce)
}
