package syntax

import "fmt"

// frameKind discriminates resolver frames.
type frameKind uint8

const (
	frameBindings frameKind = iota
	frameWith
)

// frame is one lexical layer in a resolution chain: a binding list (let
// layer, rec set, function-call argument set, formal defaults) or a `with`
// environment.
type frame struct {
	kind     frameKind
	bindings []Expr
	env      Expr
}

// Resolver is an ordered chain of lexical scopes, outermost first. It holds
// (container, name)-style references only; it never owns the expressions it
// points into.
type Resolver struct {
	frames []frame
}

// NewResolver returns an empty resolution chain.
func NewResolver() *Resolver { return &Resolver{} }

// PushBindings returns a new chain extended with an inner binding layer.
func (r *Resolver) PushBindings(bindings []Expr) *Resolver {
	frames := make([]frame, len(r.frames), len(r.frames)+1)
	copy(frames, r.frames)

	return &Resolver{frames: append(frames, frame{kind: frameBindings, bindings: bindings})}
}

// PushWith returns a new chain extended with a `with` environment layer.
func (r *Resolver) PushWith(env Expr) *Resolver {
	frames := make([]frame, len(r.frames), len(r.frames)+1)
	copy(frames, r.frames)

	return &Resolver{frames: append(frames, frame{kind: frameWith, env: env})}
}

// truncated returns the chain holding only the outermost n frames.
func (r *Resolver) truncated(n int) *Resolver {
	return &Resolver{frames: r.frames[:n]}
}

// LookupBinding finds the binding that defines name, walking the chain from
// the innermost frame outward.
func (r *Resolver) LookupBinding(name string) (*Binding, error) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		fr := r.frames[i]

		switch fr.kind {
		case frameBindings:
			binding, redirect, found := lookupInBindings(fr.bindings, name)
			if !found {
				continue
			}

			if binding != nil {
				return binding, nil
			}

			// The name is declared by an inherit; follow the redirect. A
			// plain inherit re-binds the name from the outer scope; an
			// `inherit (from)` evaluates its source in the current scope.
			return redirect.follow(r.truncated(i), r.truncated(i+1), name)
		case frameWith:
			binding, ok := r.truncated(i).lookupInWith(fr.env, name)
			if ok {
				return binding, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnboundIdentifier, name)
}

// inheritRedirect records where an inherit entry takes its value from.
type inheritRedirect struct {
	from Expr // nil for plain `inherit name;`
}

// follow resolves the inherit's source: the outer chain for plain inherits,
// or the From expression when it statically reaches an attribute set.
func (redir inheritRedirect) follow(outer, current *Resolver, name string) (*Binding, error) {
	if redir.from == nil {
		return outer.LookupBinding(name)
	}

	source := redir.from

	if id, ok := source.(*Identifier); ok {
		resolved, err := current.Resolve(id.Name)
		if err != nil {
			return nil, err
		}

		source = resolved
	}

	set, ok := source.(*AttrSet)
	if !ok {
		return nil, fmt.Errorf("%w: %s (inherit source is not an attribute set)", ErrUnboundIdentifier, name)
	}

	if binding := set.findBinding(name); binding != nil {
		return binding, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnboundIdentifier, name)
}

// lookupInBindings scans one binding list. It returns the matching binding,
// or an inherit redirect when an inherit declares the name.
func lookupInBindings(bindings []Expr, name string) (*Binding, inheritRedirect, bool) {
	for _, item := range bindings {
		switch entry := item.(type) {
		case *Binding:
			if entry.Name == name {
				return entry, inheritRedirect{}, true
			}
		case *Inherit:
			if entry.Declares(name) {
				return nil, inheritRedirect{from: entry.From}, true
			}
		}
	}

	return nil, inheritRedirect{}, false
}

// lookupInWith resolves a name through a `with` environment. Environments
// are handled conservatively: only an attribute-set literal, or an
// identifier that resolves to one without evaluation, contributes bindings.
// Anything else is unknown and the lookup falls through.
func (r *Resolver) lookupInWith(env Expr, name string) (*Binding, bool) {
	for {
		paren, ok := env.(*Paren)
		if !ok {
			break
		}

		env = paren.Inner
	}

	if id, ok := env.(*Identifier); ok {
		resolved, err := r.Resolve(id.Name)
		if err != nil {
			return nil, false
		}

		env = resolved
	}

	set, ok := env.(*AttrSet)
	if !ok {
		return nil, false
	}

	if binding := set.findBinding(name); binding != nil {
		return binding, true
	}

	return nil, false
}

// Resolve follows name to its value, chasing identifier-to-identifier
// chains with cycle detection.
func (r *Resolver) Resolve(name string) (Expr, error) {
	return r.resolve(name, map[*Binding]struct{}{})
}

func (r *Resolver) resolve(name string, visited map[*Binding]struct{}) (Expr, error) {
	binding, err := r.LookupBinding(name)
	if err != nil {
		return nil, err
	}

	if _, seen := visited[binding]; seen {
		return nil, fmt.Errorf("%w: via %s", ErrResolutionCycle, name)
	}

	visited[binding] = struct{}{}

	if id, ok := binding.Value.(*Identifier); ok {
		return r.resolve(id.Name, visited)
	}

	return binding.Value, nil
}

// Resolve returns the expression the identifier refers to, using the
// resolution context attached when the identifier was read through a
// container. Repeated calls on an unchanged tree return the same value.
func (id *Identifier) Resolve() (Expr, error) {
	if id.ctx == nil {
		return nil, fmt.Errorf("%w: %s (no resolution context)", ErrUnboundIdentifier, id.Name)
	}

	return id.ctx.Resolve(id.Name)
}

// SetValue walks to the identifier's defining binding and replaces its
// value, coercing host scalars.
func (id *Identifier) SetValue(value any) error {
	if id.ctx == nil {
		return fmt.Errorf("%w: %s (no resolution context)", ErrUnboundIdentifier, id.Name)
	}

	binding, err := id.ctx.LookupBinding(id.Name)
	if err != nil {
		return err
	}

	expr, err := Coerce(value)
	if err != nil {
		return err
	}

	binding.Value = expr

	return nil
}

// AttachContext records the resolution chain an identifier was read under.
func (id *Identifier) AttachContext(r *Resolver) { id.ctx = r }

// resolver builds the chain visible inside the set: the inherited context,
// the set's own scope layers, and the set's bindings when it is recursive.
func (s *AttrSet) resolver() *Resolver {
	r := s.ctx
	if r == nil {
		r = NewResolver()
	}

	for _, layer := range s.ScopeStack {
		r = r.PushBindings(layer.Bindings)
	}

	if s.Recursive {
		r = r.PushBindings(s.Values)
	}

	return r
}

// attachContext stores the chain accumulated while walking to this set.
func (s *AttrSet) attachContext(r *Resolver) { s.ctx = r }
