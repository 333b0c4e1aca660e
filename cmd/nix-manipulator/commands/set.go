package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hoh/nix-manipulator/pkg/edit"
	"github.com/hoh/nix-manipulator/pkg/parser"
)

// setArgCount is the number of arguments expected by the set command.
const setArgCount = 2

func setCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set NPATH VALUE",
		Short: "Assign a Nix expression at an attribute path",
		Long: `Assign VALUE, parsed as a single Nix expression, at NPATH.

NPATH is a dotted attribute path. Segments are bare identifiers or
double-quoted strings; a leading @ targets the innermost let-scope
(auto-created when absent), @@ the next outer one, and so on.

Examples:
  nix-manipulator set version '"1.2.3"' < default.nix
  nix-manipulator set -f flake.nix meta.description '"demo"'
  nix-manipulator set '@overlays' '[ ]' < default.nix`,
		Args: cobra.ExactArgs(setArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runSet(opts *rootOptions, npath, value string, in io.Reader, out io.Writer) error {
	source, err := opts.readInput(in)
	if err != nil {
		return err
	}

	file, err := parser.Parse(source)
	if err != nil {
		return err
	}

	rebuilt, err := edit.SetValue(file, npath, value)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, rebuilt)

	return err
}
