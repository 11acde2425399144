package main

import (
	"io"
	"log/slog"

	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/internal/config"
	"github.com/aretw0/tickfsm/internal/logging"
	"github.com/aretw0/tickfsm/internal/metrics"
	"github.com/aretw0/tickfsm/internal/presentation/tui"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/spf13/cobra"
)

// app holds the state shared by every command of one invocation.
type app struct {
	stdout, stderr io.Writer

	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		logger: logging.NewNop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tickfsm",
		Short: "tickfsm compiles tick-driven state machines into Go code",
		Long: `tickfsm reads state machine declarations from Go directives, YAML or HCL,
validates them and generates Go code implementing Initialize, Execute,
IsFinished and End.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Persistent flags (available to all commands)
	pf := root.PersistentFlags()
	pf.String("config", config.FileName, "Path to the project configuration file")
	pf.String("log-level", "", "Logging level: debug, info, warn or error")
	pf.String("log-format", "", "Log output format: text or json")
	pf.String("metrics-file", "", "Write compiler metrics to this textfile-collector file")
	pf.Bool("no-color", false, "Disable coloured output")

	root.AddCommand(
		newGenerateCmd(a),
		newValidateCmd(a),
		newGraphCmd(a),
		newDescribeCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the configuration file and lays the flags over it.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.Color = config.ColorNever
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, a.stderr)
	if cfg.MetricsFile != "" {
		a.metrics = metrics.New()
	}
	a.logger.Debug("Configuration loaded", "config", path, "suffix", cfg.Suffix, "output", cfg.Output)
	return nil
}

func (a *app) compiler() *compiler.Compiler {
	opts := append(a.cfg.CompilerOptions(), compiler.WithLogger(a.logger))
	if a.metrics != nil {
		opts = append(opts, compiler.WithRecorder(a.metrics))
	}
	return compiler.New(opts...)
}

func (a *app) printer() *tui.Printer {
	return tui.NewPrinter(a.stderr, tui.Profile(a.stderr, a.cfg.Color))
}

// report prints every diagnostic of res and turns a failed build into an
// exit error. The diagnostics themselves are the message.
func (a *app) report(diags diag.List, err error) error {
	a.printer().Diagnostics(diags)
	if err == nil {
		return nil
	}
	if len(diag.FromError(err)) == 0 {
		return &ExitError{Code: exitFatal, Message: err.Error()}
	}
	return &ExitError{Code: exitFatal}
}

func (a *app) flushMetrics() error {
	if a.metrics == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	return a.metrics.WriteTextfile(a.cfg.MetricsFile)
}

func pathsOrCwd(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
