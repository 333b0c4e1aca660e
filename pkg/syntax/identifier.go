package syntax

// Identifier is a variable reference. Reading one through an attribute set
// (AttrSet.Get, AttrSet.GetPath) attaches its lexical resolution context,
// after which Resolve and SetValue follow the reference to its binding.
// ScopeLayer.Get returns identifiers without attaching a context.
type Identifier struct {
	Meta

	Name string

	// ctx is the non-owning back-reference to the enclosing resolution
	// scopes, attached at read time. The owning graph stays tree-shaped.
	ctx *Resolver
}

// NewIdentifier returns an identifier reference by name.
func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

// Rebuild implements Expr.
func (id *Identifier) Rebuild(indent int, inline bool) string {
	return id.addTrivia(id.Name, indent, inline)
}

// Path is a path literal (`./foo.nix`, `/etc/nixos`, `<nixpkgs>`), rendered
// verbatim.
type Path struct {
	Meta

	Raw string
}

// Rebuild implements Expr.
func (p *Path) Rebuild(indent int, inline bool) string {
	return p.addTrivia(p.Raw, indent, inline)
}
