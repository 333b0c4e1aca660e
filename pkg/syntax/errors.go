package syntax

import "errors"

// Sentinel errors for model operations.
var (
	// ErrShape reports a top-level expression that is not an attribute set,
	// a function definition returning one, or an assertion wrapping either.
	ErrShape = errors.New("top-level expression is not an editable attribute set")

	// ErrKeyMissing reports a lookup or removal of a binding that does not exist.
	ErrKeyMissing = errors.New("binding not found")

	// ErrAttrPathConflict reports an attempt to overwrite an attrpath root
	// with a non-attrset value, or to assign through a non-attrset value.
	ErrAttrPathConflict = errors.New("attrpath conflict")

	// ErrInvalidSegment reports an empty or malformed attrpath segment.
	ErrInvalidSegment = errors.New("invalid attrpath segment")

	// ErrScopeMissing reports a scope selector that walks past the outermost
	// existing scope layer.
	ErrScopeMissing = errors.New("scope layer does not exist")

	// ErrUnboundIdentifier reports an identifier with no binding in any
	// reachable scope.
	ErrUnboundIdentifier = errors.New("unbound identifier")

	// ErrResolutionCycle reports an identifier chain that loops back on itself.
	ErrResolutionCycle = errors.New("identifier resolution cycle")

	// ErrCoerce reports a host value that cannot be converted to an expression.
	ErrCoerce = errors.New("cannot coerce value to a Nix expression")
)
