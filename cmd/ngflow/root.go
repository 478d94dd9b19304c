package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grindlemire/ngflow/internal/config"
	"github.com/grindlemire/ngflow/internal/ir"
	"github.com/grindlemire/ngflow/internal/logging"
	"github.com/grindlemire/ngflow/internal/reformat"
	"github.com/grindlemire/ngflow/pkg/transcoder"
)

// app holds the state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	tool       []string
	format     string
	timeout    time.Duration
	verbose    bool

	cfg     *config.Config
	dialect ir.Format
	logger  *zap.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// execute runs the command tree with args. The logger is flushed on every
// exit path, including failed commands that skip cobra's post-run hooks.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.command()
	root.SetArgs(args)
	defer a.sync()
	return root.ExecuteContext(ctx)
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "ngflow <template>",
		Short: "Round-trip Angular control flow through an XML reformatter",
		Long: `ngflow parses @if, @for and @switch blocks, encodes them as XML for an
external reformatter, decodes the reformatter's output and prints the
restored template.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRestore(cmd, args[0])
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "path to the config file")
	flags.StringArrayVar(&a.tool, "tool", nil, "reformatter command word (repeat for arguments)")
	flags.StringVar(&a.format, "format", "", "reformatter output dialect: markup or outline")
	flags.DurationVar(&a.timeout, "timeout", 0, "reformatter timeout")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newCheckCmd(a),
		newSuiteCmd(a),
	)
	return root
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.logger == nil {
		logger, err := logging.New(a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	optional := !cmd.Flags().Changed("config")
	cfg, err := config.Load(a.configPath, optional)
	if err != nil {
		return err
	}

	if len(a.tool) > 0 {
		cfg.Tool.Command = a.tool
	}
	if a.format != "" {
		cfg.Tool.Format = a.format
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Tool.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	dialect, err := cfg.Format()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	a.cfg = cfg
	a.dialect = dialect
	a.logger.Debug("configuration loaded",
		zap.String("path", a.configPath),
		zap.Bool("default", optional),
		zap.Strings("tool", cfg.Tool.Command),
		zap.Stringer("format", dialect))
	return nil
}

// transcoder builds the pipeline from the effective configuration.
func (a *app) transcoder() *transcoder.Transcoder {
	opts := []transcoder.Option{
		transcoder.WithFormat(a.dialect),
		transcoder.WithLogger(a.logger),
	}
	if len(a.cfg.Tool.Command) > 0 {
		opts = append(opts, transcoder.WithRunner(&reformat.Runner{
			Command: a.cfg.Tool.Command,
			Timeout: a.cfg.Tool.Timeout,
			Suffix:  a.cfg.Tool.Suffix,
			Logger:  a.logger.Named("reformat"),
		}))
	}
	return transcoder.New(opts...)
}
