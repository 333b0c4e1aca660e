// Package parser wraps the tree-sitter Nix grammar and converts concrete
// syntax trees into the typed document model of pkg/syntax, attaching every
// comment, line break, and blank line to its owning expression so rebuilds
// preserve the original layout.
package parser
