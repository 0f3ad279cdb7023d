// Package cli contains the Cobra commands of the ulid tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dcbickfo/pg-ulid/internal/config"
	"github.com/dcbickfo/pg-ulid/pkg/log"
)

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg    config.Config
	logger log.Logger
	// stdlog routes the standard library logger through logger.
	stdlog bool
}

// Execute runs the tool with the process arguments.
func Execute(ctx context.Context) error {
	return newRoot(&app{stdlog: true}).ExecuteContext(ctx)
}

// NewRoot constructs the root command and registers every subcommand.
func NewRoot() *cobra.Command { return newRoot(&app{}) }

func newRoot(rt *app) *cobra.Command {
	rt.cfg = config.Default()
	rt.logger = log.NewNopLogger()

	root := &cobra.Command{
		Use:          "ulid",
		Short:        "Generate, inspect, sort and index ULIDs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "Config file (JSON or YAML)")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().String("log-format", "", "Log format: text|json")

	root.AddCommand(
		newGenCommand(),
		newInspectCommand(),
		newEncodeCommand(),
		newDecodeCommand(),
		newHashCommand(),
		newSortCommand(rt),
		newIndexCommand(rt),
	)
	return root
}

// setup loads configuration (defaults, file, environment, flags in that
// order) and builds the logger.
func (rt *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	config.FromEnv(&cfg)
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		cfg.Log.Format = f.Value.String()
	}

	logger, err := NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.logger = logger
	if rt.stdlog {
		log.RedirectStdLog(logger)
	}
	return nil
}

// NewLogger builds a logger writing to w as described by c.
func NewLogger(c config.LogConfig, w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	var formatter log.Formatter
	switch strings.ToLower(c.Format) {
	case "", "text":
		formatter = &log.TextFormatter{}
	case "json":
		formatter = &log.JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", c.Format)
	}
	opts := []log.LoggerOption{
		log.WithLevel(level),
		log.WithFormatter(formatter),
		log.WithOutput(log.NewWriterOutput(w)),
	}
	if c.SampleInitial > 0 {
		opts = append(opts, log.WithSampling(c.SampleInitial, c.SampleThereafter))
	}
	return log.NewLogger(opts...), nil
}
