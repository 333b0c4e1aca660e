package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveThroughRecSet(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Recursive: true, Values: []Expr{
		NewBinding("a", NewInt(1)),
		NewBinding("b", NewIdentifier("a")),
	}}

	value, err := set.Get("b")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "1", resolved.Rebuild(0, true))

	// Repeated resolution is deterministic.
	again, err := id.Resolve()
	require.NoError(t, err)
	assert.Same(t, resolved, again)
}

func TestResolveThroughScopeLayer(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewBinding("b", NewIdentifier("a")),
	}}

	layer := set.PushScope()
	layer.Bindings = append(layer.Bindings, NewBinding("a", NewInt(41)))

	value, err := set.Get("b")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "41", resolved.Rebuild(0, true))
}

func TestResolveIdentifierChain(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Recursive: true, Values: []Expr{
		NewBinding("a", NewInt(5)),
		NewBinding("b", NewIdentifier("a")),
		NewBinding("c", NewIdentifier("b")),
	}}

	value, err := set.Get("c")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "5", resolved.Rebuild(0, true))
}

func TestResolveCycle(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Recursive: true, Values: []Expr{
		NewBinding("a", NewIdentifier("b")),
		NewBinding("b", NewIdentifier("a")),
	}}

	value, err := set.Get("a")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	_, err = id.Resolve()
	assert.ErrorIs(t, err, ErrResolutionCycle)
}

func TestResolveUnbound(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Values: []Expr{NewBinding("a", NewIdentifier("ghost"))}}

	value, err := set.Get("a")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	_, err = id.Resolve()
	assert.ErrorIs(t, err, ErrUnboundIdentifier)
}

func TestResolveThroughInherit(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Recursive: true, Values: []Expr{
		NewBinding("src", &AttrSet{Layout: LayoutInline, Values: []Expr{
			NewBinding("x", NewInt(9)),
		}}),
		&Inherit{Names: []*Identifier{NewIdentifier("x")}, From: NewIdentifier("src")},
		NewBinding("y", NewIdentifier("x")),
	}}

	value, err := set.Get("y")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "9", resolved.Rebuild(0, true))
}

func TestResolveThroughWithEnvironment(t *testing.T) {
	t.Parallel()

	env := &AttrSet{Layout: LayoutInline, Values: []Expr{NewBinding("hello", NewInt(1))}}
	body := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewBinding("b", NewIdentifier("hello")),
	}}

	file := &SourceFile{Expr: &With{Environment: env, Body: body}}

	target, err := TargetSet(file)
	require.NoError(t, err)

	value, err := target.Get("b")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "1", resolved.Rebuild(0, true))
}

func TestUnknownWithEnvironmentFallsThrough(t *testing.T) {
	t.Parallel()

	body := &AttrSet{Layout: LayoutInline, Values: []Expr{
		NewBinding("b", NewIdentifier("hello")),
	}}

	file := &SourceFile{Expr: &With{Environment: &Apply{Fn: NewIdentifier("import"), Argument: &Path{Raw: "./x.nix"}}, Body: body}}

	target, err := TargetSet(file)
	require.NoError(t, err)

	value, err := target.Get("b")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	_, err = id.Resolve()
	assert.ErrorIs(t, err, ErrUnboundIdentifier)
}

func TestResolveThroughCallArgument(t *testing.T) {
	t.Parallel()

	arg := &AttrSet{Layout: LayoutInline, Values: []Expr{NewBinding("a", NewInt(3))}}

	resolver := NewResolver().PushBindings(arg.Values)

	id := NewIdentifier("a")
	id.AttachContext(resolver)

	resolved, err := id.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "3", resolved.Rebuild(0, true))
}

func TestIdentifierSetValue(t *testing.T) {
	t.Parallel()

	set := &AttrSet{Recursive: true, Values: []Expr{
		NewBinding("a", NewInt(1)),
		NewBinding("b", NewIdentifier("a")),
	}}

	value, err := set.Get("b")
	require.NoError(t, err)

	id, ok := value.(*Identifier)
	require.True(t, ok)

	require.NoError(t, id.SetValue(10))
	assert.Equal(t, "rec {\n  a = 10;\n  b = a;\n}", set.Rebuild(0, false))
}
