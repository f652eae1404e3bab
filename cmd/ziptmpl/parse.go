package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ziptmpl/internal/output"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/engine"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/store"
)

// newParseCmd creates the parse command.
func newParseCmd() *cobra.Command {
	var (
		text      string
		storePath string
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Show the statics and placeholders of a template",
		Long: `Split a template into static segments and placeholder keys.

Examples:
  ziptmpl parse --text 'Hello, {{name}}!'
  ziptmpl parse email.tmpl --json
  echo 'Hi $user' | ziptmpl parse --start '$'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, text, cmd.Flags().Changed("text"), storePath)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Template text (instead of a file)")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite template store to read from and save to")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, text string, textSet bool, storePath string) error {
	printer := newPrinter(cmd)

	if textSet && len(args) > 0 {
		return fail(printer, output.NewUserError("use either a file argument or --text, not both"))
	}
	var file string
	if len(args) > 0 {
		file = args[0]
	}
	src, err := readTemplate(cmd, text, textSet, file)
	if err != nil {
		return fail(printer, err)
	}

	var extra []engine.Option
	if storePath != "" {
		extra = append(extra, engine.WithStorePath(storePath))
	}
	e, err := buildEngine(cmd, extra...)
	if err != nil {
		return fail(printer, err)
	}
	defer e.Close()

	t, err := e.Parse(cmd.Context(), src)
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("parse: "+err.Error(), err))
	}
	digest := store.Digest(e.Key(src))

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"digest":       digest,
			"syntax":       e.Syntax().String(),
			"statics":      t.Statics(),
			"placeholders": t.Placeholders(),
		})
	}

	outputParseHuman(printer, digest, t)
	return nil
}

// outputParseHuman prints one row per segment: each static followed by the
// placeholder that comes after it.
func outputParseHuman(printer *output.Printer, digest string, t *ziptmpl.ParsedTemplate) {
	printer.KeyValue("digest", digest)
	printer.KeyValue("placeholders", strconv.Itoa(t.NumPlaceholders()))
	printer.Println()

	rows := make([][]string, 0, t.NumStatics())
	for i := range t.NumStatics() {
		placeholder := ""
		if i < t.NumPlaceholders() {
			placeholder = t.Placeholder(i)
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Quote(t.Static(i)), placeholder})
	}
	printer.Table([]string{"#", "STATIC", "PLACEHOLDER"}, rows)
}
