package parser

import (
	"sync"

	nix "github.com/alexaandru/go-sitter-forest/nix"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

var (
	nixLanguageOnce sync.Once        //nolint:gochecknoglobals // language init is process-wide
	nixLanguage     *sitter.Language //nolint:gochecknoglobals // cached grammar handle
)

// Language returns the tree-sitter Nix language, initialized once.
func Language() *sitter.Language {
	nixLanguageOnce.Do(func() {
		nixLanguage = sitter.NewLanguage(nix.GetLanguage())
	})

	return nixLanguage
}
