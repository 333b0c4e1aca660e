package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// Sentinel errors for parsing.
var (
	// ErrParse reports invalid Nix syntax in the input.
	ErrParse = errors.New("invalid Nix syntax")

	// ErrTriviaUnowned reports a trivia unit that could not be attributed to
	// a semantic node. It indicates a parser mismatch and is fatal.
	ErrTriviaUnowned = errors.New("trivia could not be attached to an owner")

	errPoolType = errors.New("unexpected type in parser pool")
)

// ParseError is an ErrParse carrying the source position of the first
// syntax error.
type ParseError struct {
	Line   uint
	Column uint
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid Nix syntax at %d:%d", e.Line, e.Column)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }

// tsParserPool reuses tree-sitter parser instances across calls.
var tsParserPool = sync.Pool{ //nolint:gochecknoglobals // parser instances are reusable and expensive
	New: func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(Language())

		return tsParser
	},
}

// Parse parses Nix source bytes into a document tree. All strings in the
// returned tree are owned copies; the input slice may be reused afterwards.
// Inputs containing syntax errors are rejected with a ParseError.
func Parse(source []byte) (*syntax.SourceFile, error) {
	tsParser, ok := tsParserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer tsParserPool.Put(tsParser)

	tree, err := tsParser.ParseString(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, &ParseError{Line: 1, Column: 1}
	}

	if errNode, found := findErrorNode(root); found {
		point := errNode.StartPoint()

		return nil, &ParseError{Line: point.Row + 1, Column: point.Column + 1}
	}

	conv := &converter{src: source}

	return conv.sourceFile(root)
}

// ParseString parses Nix source text.
func ParseString(source string) (*syntax.SourceFile, error) {
	return Parse([]byte(source))
}

// ParseFile reads a file fully into memory, closes it, and parses it.
func ParseFile(path string) (*syntax.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	file, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return file, nil
}

// ParseValue parses source that must contain exactly one Nix expression and
// returns that expression.
func ParseValue(source string) (syntax.Expr, error) {
	file, err := ParseString(source)
	if err != nil {
		return nil, err
	}

	if file.Expr == nil {
		return nil, fmt.Errorf("%w: value contains no expression", ErrParse)
	}

	return file.Expr, nil
}

// findErrorNode locates the first ERROR or missing node in the tree.
func findErrorNode(node sitter.Node) (sitter.Node, bool) {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node, true
	}

	for i := uint32(0); i < node.ChildCount(); i++ {
		if found, ok := findErrorNode(node.Child(i)); ok {
			return found, true
		}
	}

	return sitter.Node{}, false
}
