package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/hoh/nix-manipulator/pkg/parser"
)

// errRoundTrip reports a parse or rebuild mismatch found by the test command.
var errRoundTrip = errors.New("round-trip check failed")

func testCmd(opts *rootOptions) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "test [FILES...]",
		Short: "Check that parse followed by rebuild reproduces the input",
		Long: `Parse the input and rebuild it. Prints OK when the rebuilt source
matches the input byte-for-byte and Fail otherwise (exit code 1).

With FILES arguments, every file is checked and a summary table is
printed; the command fails if any file does.

Examples:
  nix-manipulator test < default.nix
  nix-manipulator test --diff -f default.nix
  nix-manipulator test pkgs/*.nix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			if len(args) > 0 {
				err = runTestFiles(args, showDiff || cfg.Diff, cmd.OutOrStdout())
			} else {
				err = runTest(opts, showDiff || cfg.Diff, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			if err != nil {
				// Fail was already printed; the exit code is the verdict.
				os.Exit(1)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a character diff on failure")

	return cmd
}

// checkRoundTrip parses source and compares the rebuilt output against it.
func checkRoundTrip(source []byte) (rebuilt string, err error) {
	file, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	rebuilt = file.Rebuild()
	if rebuilt != string(source) {
		return rebuilt, errRoundTrip
	}

	return rebuilt, nil
}

func runTest(opts *rootOptions, showDiff bool, in io.Reader, out io.Writer) error {
	source, err := opts.readInput(in)
	if err != nil {
		return err
	}

	rebuilt, err := checkRoundTrip(source)
	if err != nil {
		fmt.Fprintln(out, color.RedString("Fail"))

		if showDiff && errors.Is(err, errRoundTrip) {
			printDiff(out, string(source), rebuilt)
		}

		return err
	}

	fmt.Fprintln(out, color.GreenString("OK"))

	return nil
}

func runTestFiles(paths []string, showDiff bool, out io.Writer) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetOutputMirror(out)
	tbl.AppendHeader(table.Row{"File", "Size", "Result"})

	failed := 0

	for _, path := range paths {
		source, readErr := os.ReadFile(path)
		if readErr != nil {
			tbl.AppendRow(table.Row{path, "-", color.RedString("unreadable")})

			failed++

			continue
		}

		size := humanize.Bytes(uint64(len(source)))

		rebuilt, checkErr := checkRoundTrip(source)
		if checkErr != nil {
			tbl.AppendRow(table.Row{path, size, color.RedString("Fail")})

			failed++

			if showDiff && errors.Is(checkErr, errRoundTrip) {
				printDiff(out, string(source), rebuilt)
			}

			continue
		}

		tbl.AppendRow(table.Row{path, size, color.GreenString("OK")})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d file(s)", len(paths)), "", fmt.Sprintf("%d failed", failed)})
	tbl.Render()

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", errRoundTrip, failed, len(paths))
	}

	return nil
}

// printDiff renders a colored character diff between input and rebuild.
func printDiff(out io.Writer, original, rebuilt string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, rebuilt, false)

	fmt.Fprintln(out, dmp.DiffPrettyText(diffs))
}
