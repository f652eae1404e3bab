package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ziptmpl/internal/output"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/config"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/engine"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/escape"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/store"
)

// renderFlags holds flag values for the render command.
type renderFlags struct {
	text       string
	textSet    bool
	valuesFile string
	flat       bool
	strict     bool
	strictSet  bool
	escaper    string
	escapeSet  bool
	storePath  string
	watch      bool
}

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file|-] [values...]",
		Short: "Render a template with positional values or a values file",
		Long: `Render a template. Positional values fill {{0}}, {{1}}, ... in order.
A values file (.yaml, .json or .toml) fills dot-path keys such as
{{user.name}} or {{items.0.sku}}.

With --text, every argument is a value. Otherwise the first argument
names the template file ("-" for stdin).

Missing keys render as empty text unless --strict is set.

Examples:
  ziptmpl render --text 'Hello, {{0}}!' world
  ziptmpl render email.tmpl --values user.yaml --escape html
  ziptmpl render report.tmpl --values data.json --flat --strict
  ziptmpl render page.tmpl --values site.toml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.textSet = cmd.Flags().Changed("text")
			flags.strictSet = cmd.Flags().Changed("strict")
			flags.escapeSet = cmd.Flags().Changed("escape")
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.text, "text", "", "Template text (instead of a file)")
	cmd.Flags().StringVar(&flags.valuesFile, "values", "", "Values file for dot-path keys (.yaml, .json or .toml)")
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "Flatten the values file before rendering")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail on the first missing placeholder")
	cmd.Flags().StringVar(&flags.escaper, "escape", escape.None, "Escape values: "+strings.Join(escape.Names(), ", "))
	cmd.Flags().StringVar(&flags.storePath, "store", "", "SQLite template store to read from and save to")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Render again whenever the template or values file changes")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags renderFlags) error {
	printer := newPrinter(cmd)

	file, positional := "", args
	if !flags.textSet {
		if len(args) > 0 {
			file, positional = args[0], args[1:]
		}
	}
	if flags.valuesFile != "" && len(positional) > 0 {
		return fail(printer, output.NewUserError("use either --values or positional values, not both"))
	}
	if flags.flat && flags.valuesFile == "" {
		return fail(printer, output.NewUserError("--flat requires --values"))
	}
	if flags.watch && (file == "" || file == "-") {
		return fail(printer, output.NewUserError("--watch requires a template file"))
	}

	renderOpts, err := renderOptions(flags)
	if err != nil {
		return fail(printer, err)
	}

	var extra []engine.Option
	if flags.storePath != "" {
		extra = append(extra, engine.WithStorePath(flags.storePath))
	}
	e, err := buildEngine(cmd, extra...)
	if err != nil {
		return fail(printer, err)
	}
	defer e.Close()

	job := renderJob{cmd: cmd, engine: e, printer: printer, flags: flags, file: file, positional: positional, opts: renderOpts}
	if err := job.run(cmd.Context()); err != nil {
		return fail(printer, err)
	}
	if !flags.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	paths := []string{file}
	if flags.valuesFile != "" {
		paths = append(paths, flags.valuesFile)
	}
	printer.Stderr("watching %s (Ctrl-C to stop)\n", strings.Join(paths, ", "))
	err = watchFiles(ctx, paths, watchDebounce, func() {
		if err := job.run(ctx); err != nil {
			printer.Error(err)
		}
	})
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause(err.Error(), err))
	}
	return nil
}

// renderJob reads the template and values and renders them once.
type renderJob struct {
	cmd        *cobra.Command
	engine     *engine.Engine
	printer    *output.Printer
	flags      renderFlags
	file       string
	positional []string
	opts       []ziptmpl.Option
}

func (j renderJob) run(ctx context.Context) error {
	values, err := loadValues(j.flags, j.positional)
	if err != nil {
		return err
	}
	src, err := readTemplate(j.cmd, j.flags.text, j.flags.textSet, j.file)
	if err != nil {
		return err
	}

	var missing []string
	opts := append(j.opts[:len(j.opts):len(j.opts)], ziptmpl.WithOnMissing(func(key string) {
		missing = append(missing, key)
	}))

	out, err := j.engine.Render(ctx, src, values, opts...)
	if err != nil {
		if errors.Is(err, ziptmpl.ErrMissingPlaceholder) {
			return output.NewUserErrorWithCause(err.Error(), err)
		}
		return output.NewSystemErrorWithCause("render: "+err.Error(), err)
	}

	if j.printer.IsJSON() {
		if missing == nil {
			missing = []string{}
		}
		return j.printer.WriteJSON(map[string]any{
			"digest":  store.Digest(j.engine.Key(src)),
			"output":  out,
			"missing": missing,
		})
	}

	j.printer.Print("%s", out)
	if len(missing) > 0 {
		j.printer.Warn("missing placeholders: %s", strings.Join(missing, ", "))
	}
	return nil
}

// loadValues builds the value source from --values or positional values.
func loadValues(flags renderFlags, positional []string) (ziptmpl.ValueSource, error) {
	if flags.valuesFile == "" {
		seq := make(ziptmpl.Sequence, len(positional))
		for i, v := range positional {
			seq[i] = v
		}
		return seq, nil
	}

	cfg, err := config.FromFile(flags.valuesFile)
	if err != nil {
		return nil, output.NewUserErrorWithCause("load values: "+err.Error(), err)
	}
	if flags.flat {
		return ziptmpl.Flatten(cfg.Raw()), nil
	}
	return ziptmpl.Mapping(cfg.Raw()), nil
}

// renderOptions returns per-call options for flags given explicitly, so
// values from --config apply otherwise.
func renderOptions(flags renderFlags) ([]ziptmpl.Option, error) {
	var opts []ziptmpl.Option
	if flags.strictSet {
		opts = append(opts, ziptmpl.WithStrict(flags.strict))
	}
	if flags.escapeSet {
		fn, err := escape.Lookup(flags.escaper)
		if err != nil {
			return nil, output.NewUserErrorWithCause(err.Error(), err)
		}
		opts = append(opts, ziptmpl.WithEscape(fn))
	}
	return opts, nil
}
