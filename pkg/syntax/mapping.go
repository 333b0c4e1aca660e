package syntax

import "fmt"

// Pair is an ordered key/value entry for constructing attribute sets from
// host values.
type Pair struct {
	Key   string
	Value any
}

// Get returns the value bound to key in the scope layer.
func (l *ScopeLayer) Get(key string) (Expr, error) {
	for _, item := range l.Bindings {
		if binding, ok := item.(*Binding); ok && binding.Name == key {
			return binding.Value, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyMissing, key)
}

// Set replaces or appends a binding in the scope layer.
func (l *ScopeLayer) Set(key string, value any) error {
	expr, err := Coerce(value)
	if err != nil {
		return err
	}

	for _, item := range l.Bindings {
		if binding, ok := item.(*Binding); ok && binding.Name == key {
			binding.Value = expr

			return nil
		}
	}

	binding := &Binding{Name: key, Value: expr}
	if l.Multiline {
		binding.Before = []Trivia{LineBreak()}
	}

	l.Bindings = append(l.Bindings, binding)

	return nil
}

// Remove detaches the binding for key from the scope layer.
func (l *ScopeLayer) Remove(key string) error {
	for i, item := range l.Bindings {
		if binding, ok := item.(*Binding); ok && binding.Name == key {
			l.Bindings = append(l.Bindings[:i], l.Bindings[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrKeyMissing, key)
}

// findBinding returns the first binding whose name (first attrpath segment)
// matches key, or nil.
func (s *AttrSet) findBinding(key string) *Binding {
	for _, item := range s.Values {
		if binding, ok := item.(*Binding); ok && binding.Name == key {
			return binding
		}
	}

	return nil
}

// Bindings returns the set's bindings in source order.
func (s *AttrSet) Bindings() []*Binding {
	out := make([]*Binding, 0, len(s.Values))

	for _, item := range s.Values {
		if binding, ok := item.(*Binding); ok {
			out = append(out, binding)
		}
	}

	return out
}

// Get returns the value bound to key. Identifiers read through Get carry a
// resolution context for later Resolve/SetValue calls.
func (s *AttrSet) Get(key string) (Expr, error) {
	binding := s.findBinding(key)
	if binding == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyMissing, key)
	}

	s.attachValueContext(binding.Value)

	return binding.Value, nil
}

// attachValueContext hands the set's resolution chain to values that can
// use it later.
func (s *AttrSet) attachValueContext(value Expr) {
	switch v := value.(type) {
	case *Identifier:
		v.AttachContext(s.resolver())
	case *AttrSet:
		v.attachContext(s.resolver())
	}
}

// Set replaces the value bound to key, or appends a new binding. The old
// value's trivia goes with it; trivia on the binding itself stays. New
// bindings in a multiline set start on their own line.
func (s *AttrSet) Set(key string, value any) error {
	expr, err := Coerce(value)
	if err != nil {
		return err
	}

	if binding := s.findBinding(key); binding != nil {
		binding.Value = expr

		return nil
	}

	binding := &Binding{Name: key, Value: expr}
	if s.multiline() {
		binding.Before = []Trivia{LineBreak()}
	}

	s.Values = append(s.Values, binding)

	return nil
}

// Remove detaches the binding for key.
func (s *AttrSet) Remove(key string) error {
	for i, item := range s.Values {
		binding, ok := item.(*Binding)
		if !ok || binding.Name != key {
			continue
		}

		s.Values = append(s.Values[:i], s.Values[i+1:]...)

		return nil
	}

	return fmt.Errorf("%w: %s", ErrKeyMissing, key)
}

// GetPath walks a pre-split attrpath (formatted segments) to the leaf value.
// It follows both attrpath-form chains and brace-nested sets.
func (s *AttrSet) GetPath(segments []string) (Expr, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidSegment)
	}

	binding := s.findBinding(segments[0])
	if binding == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyMissing, segments[0])
	}

	if len(segments) == 1 {
		s.attachValueContext(binding.Value)

		return binding.Value, nil
	}

	inner, ok := binding.Value.(*AttrSet)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyMissing, segments[1])
	}

	inner.attachContext(s.resolver())

	return inner.GetPath(segments[1:])
}

// SetPath assigns value at a dotted path. The walk follows existing
// structure without converting between attrpath and brace-nested layout;
// missing intermediate bindings are created in attrpath form.
func (s *AttrSet) SetPath(segments []string, value Expr) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidSegment)
	}

	key := segments[0]
	binding := s.findBinding(key)

	if len(segments) == 1 {
		if binding == nil {
			return s.Set(key, value)
		}

		if binding.Nested {
			return fmt.Errorf("%w: cannot overwrite attrpath root %s with a plain value", ErrAttrPathConflict, key)
		}

		binding.Value = value

		return nil
	}

	if binding == nil {
		chain := NewAttrpathBinding(segments, value)
		if s.multiline() {
			chain.Before = []Trivia{LineBreak()}
		}

		s.Values = append(s.Values, chain)

		return nil
	}

	if binding.Nested {
		return setInChain(binding, segments[1:], value)
	}

	inner, ok := binding.Value.(*AttrSet)
	if !ok {
		return fmt.Errorf("%w: %s is not an attribute set", ErrAttrPathConflict, key)
	}

	return inner.SetPath(segments[1:], value)
}

// NewAttrpathBinding builds a fresh `a.b.c = v;` chain from formatted
// segments. Intermediates are attrpath-form; the leaf holds the value.
func NewAttrpathBinding(segments []string, value Expr) *Binding {
	leaf := &Binding{Name: segments[len(segments)-1], Value: value}

	current := leaf
	for i := len(segments) - 2; i >= 0; i-- {
		wrapper := &AttrSet{Layout: LayoutInline, Values: []Expr{current}}
		current = &Binding{Name: segments[i], Nested: true, Value: wrapper}
	}

	return current
}

// setInChain walks an existing attrpath chain, creating attrpath-form
// intermediates as needed, and sets the leaf.
func setInChain(root *Binding, rest []string, value Expr) error {
	current, ok := root.Value.(*AttrSet)
	if !ok {
		return fmt.Errorf("%w: attrpath root %s has no attribute set", ErrAttrPathConflict, root.Name)
	}

	for _, segment := range rest[:len(rest)-1] {
		child := current.findBinding(segment)

		if child == nil {
			wrapper := &AttrSet{Layout: LayoutInline}
			child = &Binding{Name: segment, Nested: true, Value: wrapper}
			current.Values = append(current.Values, child)
			current = wrapper

			continue
		}

		if !child.Nested {
			inner, ok := child.Value.(*AttrSet)
			if !ok {
				return fmt.Errorf("%w: %s is not an attribute set", ErrAttrPathConflict, segment)
			}

			current = inner

			continue
		}

		inner, ok := child.Value.(*AttrSet)
		if !ok {
			return fmt.Errorf("%w: attrpath segment %s has no attribute set", ErrAttrPathConflict, segment)
		}

		current = inner
	}

	leafKey := rest[len(rest)-1]

	if child := current.findBinding(leafKey); child != nil {
		if child.Nested {
			return fmt.Errorf("%w: cannot overwrite attrpath root %s with a plain value", ErrAttrPathConflict, leafKey)
		}

		child.Value = value

		return nil
	}

	current.Values = append(current.Values, &Binding{Name: leafKey, Value: value})

	return nil
}

// RemovePath removes the leaf at a dotted path. Parent bindings that end up
// with empty attribute sets are removed as well, recursively.
func (s *AttrSet) RemovePath(segments []string) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidSegment)
	}

	key := segments[0]

	if len(segments) == 1 {
		binding := s.findBinding(key)
		if binding == nil || binding.Nested {
			// An attrpath root is not removable by its first segment alone.
			return fmt.Errorf("%w: %s", ErrKeyMissing, key)
		}

		return s.Remove(key)
	}

	binding := s.findBinding(key)
	if binding == nil {
		return fmt.Errorf("%w: %s", ErrKeyMissing, key)
	}

	inner, ok := binding.Value.(*AttrSet)
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyMissing, segments[1])
	}

	if err := inner.removeTail(segments[1:]); err != nil {
		return err
	}

	if len(inner.Values) == 0 {
		return s.Remove(key)
	}

	return nil
}

// removeTail removes inside a chain or nested set, pruning empties upward.
func (s *AttrSet) removeTail(segments []string) error {
	key := segments[0]

	binding := s.findBinding(key)
	if binding == nil {
		return fmt.Errorf("%w: %s", ErrKeyMissing, key)
	}

	if len(segments) == 1 {
		if binding.Nested {
			return fmt.Errorf("%w: %s", ErrKeyMissing, key)
		}

		return s.Remove(key)
	}

	inner, ok := binding.Value.(*AttrSet)
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyMissing, segments[1])
	}

	if err := inner.removeTail(segments[1:]); err != nil {
		return err
	}

	if len(inner.Values) == 0 {
		return s.Remove(key)
	}

	return nil
}

// TargetSet locates the editable attribute set of a source file: the
// top-level expression itself, or the set reached through function
// definitions, assertions, `with` statements, let bodies, parentheses,
// function calls with attribute-set arguments, and identifier references.
func TargetSet(f *SourceFile) (*AttrSet, error) {
	if f.Expr == nil {
		return nil, fmt.Errorf("%w: source contains no expression", ErrShape)
	}

	visited := map[Expr]struct{}{}

	return targetSetFrom(f.Expr, NewResolver(), visited)
}

func targetSetFrom(expr Expr, scopes *Resolver, visited map[Expr]struct{}) (*AttrSet, error) {
	if _, seen := visited[expr]; seen {
		return nil, fmt.Errorf("%w: circular reference", ErrShape)
	}

	visited[expr] = struct{}{}

	switch target := expr.(type) {
	case *AttrSet:
		target.attachContext(scopes)

		return target, nil
	case *Assert:
		return targetSetFrom(target.Body, scopes, visited)
	case *Let:
		return targetSetFrom(target.Body, scopes.PushBindings(target.Bindings), visited)
	case *With:
		return targetSetFrom(target.Body, scopes.PushWith(target.Environment), visited)
	case *Paren:
		return targetSetFrom(target.Inner, scopes, visited)
	case *Function:
		return targetSetFrom(target.Output, scopes.PushBindings(formalDefaults(target)), visited)
	case *Apply:
		if arg, ok := unwrapParen(target.Argument).(*AttrSet); ok {
			arg.attachContext(scopes)

			return arg, nil
		}

		return nil, fmt.Errorf("%w: function call without attribute-set argument", ErrShape)
	case *Identifier:
		target.AttachContext(scopes)

		resolved, err := target.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}

		return targetSetFrom(resolved, scopes, visited)
	default:
		return nil, fmt.Errorf("%w: %T", ErrShape, expr)
	}
}

// formalDefaults exposes a function's defaulted formals as a binding layer,
// so identifiers in the body can resolve through them.
func formalDefaults(fn *Function) []Expr {
	formals, ok := fn.Param.(*Formals)
	if !ok {
		return nil
	}

	var bindings []Expr

	for _, param := range formals.Params {
		if param.Default != nil {
			bindings = append(bindings, &Binding{Name: param.Name, Value: param.Default})
		}
	}

	return bindings
}

func unwrapParen(expr Expr) Expr {
	for {
		paren, ok := expr.(*Paren)
		if !ok {
			return expr
		}

		expr = paren.Inner
	}
}
