// Package syntax provides the typed, mutable document model for Nix source
// code: expression variants, their attached trivia (comments, line breaks,
// blank lines), the rebuild rules that serialize a tree back to RFC-0166
// conformant source, the mapping layer over attribute sets and scopes, and
// the identifier resolver.
//
// Trees are produced by the parser adapter in pkg/parser or constructed
// directly. A freshly parsed tree rebuilds byte-for-byte; after edits, the
// surrounding formatting of untouched nodes is preserved.
package syntax
