package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/ziptmpl/internal/output"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/config"
	"github.com/randalmurphal/ziptmpl/pkg/ziptmpl/engine"
)

// loadConfig reads --config, returning an empty Config when it is unset.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := flagValue(cmd, "config")
	if path == "" {
		return config.New(nil), nil
	}
	cfg, err := config.FromFile(path)
	if err != nil {
		return config.Config{}, output.NewUserErrorWithCause("load config: "+err.Error(), err)
	}
	return cfg, nil
}

// syntaxFlags returns the syntax selected by --start and --end, and
// whether either flag was given. The end marker defaults to "}}" only
// for the default start marker.
func syntaxFlags(cmd *cobra.Command) (ziptmpl.Syntax, bool) {
	start, startSet := flagValue(cmd, "start")
	end, endSet := flagValue(cmd, "end")
	if !startSet && !endSet {
		return ziptmpl.Syntax{}, false
	}
	if !startSet {
		start = ziptmpl.DefaultSyntax.Start
	}
	if !endSet && start == ziptmpl.DefaultSyntax.Start {
		end = ziptmpl.DefaultSyntax.End
	}
	return ziptmpl.Syntax{Start: start, End: end}, true
}

// buildEngine creates an engine from --config, the syntax flags, --verbose
// and extra, in that order of precedence (later wins).
func buildEngine(cmd *cobra.Command, extra ...engine.Option) (*engine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := engine.FromConfig(cfg)
	if err != nil {
		return nil, output.NewUserErrorWithCause("invalid config: "+err.Error(), err)
	}

	if syntax, ok := syntaxFlags(cmd); ok {
		if err := syntax.Validate(); err != nil {
			return nil, output.NewUserErrorWithCause(err.Error(), err)
		}
		opts = append(opts, engine.WithSyntax(syntax))
	}
	if verbose, _ := flagValue(cmd, "verbose"); verbose == "true" {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, engine.WithLogger(logger))
	}
	opts = append(opts, extra...)

	e, err := engine.New(opts...)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(err.Error(), err)
	}
	return e, nil
}

// readTemplate returns the template text from --text, a file argument or
// stdin ("-" or no argument).
func readTemplate(cmd *cobra.Command, text string, textSet bool, file string) (string, error) {
	if textSet {
		return text, nil
	}
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", output.NewSystemErrorWithCause("read template: "+err.Error(), err)
	}
	return string(data), nil
}
