// Package commands implements the nix-manipulator CLI commands.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hoh/nix-manipulator/internal/config"
	"github.com/hoh/nix-manipulator/pkg/version"
)

// rootOptions carries the persistent flags shared by all commands.
type rootOptions struct {
	file    string
	cfgFile string
}

// NewRootCmd builds the CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "nix-manipulator",
		Short: "Edit Nix source code structurally while preserving formatting",
		Long: `nix-manipulator parses Nix source code into a typed document model,
applies structural edits, and rebuilds the source with the original
formatting, comments, and blank lines intact.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "read input from FILE instead of stdin")
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./.nix-manipulator.yaml or $HOME/.nix-manipulator.yaml)")

	rootCmd.AddCommand(setCmd(opts))
	rootCmd.AddCommand(rmCmd(opts))
	rootCmd.AddCommand(testCmd(opts))
	rootCmd.AddCommand(shellCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "nix-manipulator %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

// loadConfig reads the CLI configuration and applies the color setting.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, err
	}

	switch cfg.Color {
	case "always":
		color.NoColor = false //nolint:reassign // intentional override of library global
	case "never":
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	return cfg, nil
}

// readInput returns the source bytes from the -f file or stdin.
func (o *rootOptions) readInput(in io.Reader) ([]byte, error) {
	if o.file != "" {
		content, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", o.file, err)
		}

		return content, nil
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return content, nil
}
