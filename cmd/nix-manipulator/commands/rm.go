package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hoh/nix-manipulator/pkg/edit"
	"github.com/hoh/nix-manipulator/pkg/parser"
)

func rmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NPATH",
		Short: "Remove the binding at an attribute path",
		Long: `Remove the binding at NPATH. Removing the last binding of a scope
layer drops its let-in wrapper; removing the last leaf of an attrpath
removes the emptied parents as well.

Examples:
  nix-manipulator rm meta.broken < default.nix
  nix-manipulator rm '@overlays' -f default.nix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(opts, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRm(opts *rootOptions, npath string, in io.Reader, out io.Writer) error {
	source, err := opts.readInput(in)
	if err != nil {
		return err
	}

	file, err := parser.Parse(source)
	if err != nil {
		return err
	}

	rebuilt, err := edit.RemoveValue(file, npath)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, rebuilt)

	return err
}
