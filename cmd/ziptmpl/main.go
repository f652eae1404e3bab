// Package main provides the entry point for the ziptmpl CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/ziptmpl/internal/output"
)

// Build info set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", version, short)
}

func main() {
	os.Exit(run())
}

func run() int {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(reportUnprinted),
	)
	return output.GetExitCode(err)
}

// reportUnprinted prints errors that did not come from a command.
// Commands report their own *output.ExitError through a Printer.
func reportUnprinted(w io.Writer, styles fang.Styles, err error) {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newRootCmd creates the root command for the ziptmpl CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ziptmpl",
		Short: "Parse and render placeholder templates",
		Long: `ziptmpl splits template text into static segments and placeholder keys,
then renders it by interleaving the statics with values resolved for
each key.

Keys are resolved by position ({{0}}, {{1}}) against positional values,
or by dot-path ({{user.name}}, {{items.0.sku}}) against a values file.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				err := output.NewUserError("no command specified. Run 'ziptmpl --help' for usage")
				newPrinter(cmd).Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.Bool("json", false, "Output in JSON format")
	flags.String("color", "auto", "Colorize output: auto, always or never")
	flags.String("config", "", "Engine configuration file (.yaml, .json or .toml)")
	flags.String("start", "", "Placeholder start marker (default \"{{\")")
	flags.String("end", "", "Placeholder end marker; empty with a custom --start means unterminated")
	flags.BoolP("verbose", "v", false, "Log cache, parse and render activity to stderr")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newStoreCmd())

	return cmd
}

// flagValue returns the value of a local or persistent flag and whether it
// was set on the command line.
func flagValue(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.Root().PersistentFlags().Lookup(name)
	}
	if f == nil {
		return "", false
	}
	return f.Value.String(), f.Changed
}

func isJSONMode(cmd *cobra.Command) bool {
	v, _ := flagValue(cmd, "json")
	return v == "true"
}

// newPrinter creates a printer honoring --json and --color.
func newPrinter(cmd *cobra.Command) *output.Printer {
	mode, _ := flagValue(cmd, "color")
	color := output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), color).WithStderr(cmd.ErrOrStderr())
}

// fail reports err through printer and returns it.
func fail(printer *output.Printer, err error) error {
	printer.Error(err)
	return err
}
