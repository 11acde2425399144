package tickfsm

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/internal/runtime"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/aretw0/tickfsm/pkg/registry"
)

// Version is the release of the compiler, stamped at build time with
// -ldflags "-X github.com/aretw0/tickfsm.Version=...".
var Version = "dev"

// Machine is a graph interpreted at run time. It satisfies lifecycle.Command.
type Machine = runtime.Machine

// MachineOption configures a Machine.
type MachineOption = runtime.Option

// Result is the outcome of Load or Generate.
type Result = compiler.Result

// Compiler is the high-level entry point for the tickfsm library.
// It wraps the internal pipeline and provides a simplified API for consumers.
type Compiler struct {
	pipeline *compiler.Compiler
	logger   *slog.Logger
	opts     []compiler.Option
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithLogger sets a custom structured logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithSuffix sets the generated file suffix (default "_fsm.go").
func WithSuffix(suffix string) Option {
	return func(c *Compiler) {
		c.opts = append(c.opts, compiler.WithSuffix(suffix))
	}
}

// WithOutputDir writes every generated file to dir.
func WithOutputDir(dir string) Option {
	return func(c *Compiler) {
		c.opts = append(c.opts, compiler.WithOutputDir(dir))
	}
}

// WithDefaultPackage sets the package of machines that name none.
func WithDefaultPackage(pkg string) Option {
	return func(c *Compiler) {
		c.opts = append(c.opts, compiler.WithDefaultPackage(pkg))
	}
}

// WithWarningsAsErrors makes every warning fatal.
func WithWarningsAsErrors(v bool) Option {
	return func(c *Compiler) {
		c.opts = append(c.opts, compiler.WithWarningsAsErrors(v))
	}
}

// New initializes a Compiler reading Go, YAML and HCL specifications.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	// Ensure logger is initialized so the pipeline never logs to nil
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.pipeline = compiler.New(append([]compiler.Option{compiler.WithLogger(c.logger)}, c.opts...)...)
	return c
}

// Load extracts, builds and validates every machine found under paths.
// The graphs of a successful result are frozen.
func (c *Compiler) Load(ctx context.Context, paths ...string) (*Result, error) {
	return c.pipeline.Load(ctx, paths...)
}

// Generate runs Load, emits code and writes every changed file. It returns
// the paths written.
func (c *Compiler) Generate(ctx context.Context, paths ...string) (*Result, []string, error) {
	res, err := c.pipeline.Compile(ctx, paths...)
	if err != nil {
		return res, nil, err
	}
	written, err := c.pipeline.Write(res)
	return res, written, err
}

// CompileDecl builds and validates a declaration made with pkg/dsl.
func (c *Compiler) CompileDecl(decl *domain.MachineDecl) (*machine.Graph, diag.List, error) {
	return c.pipeline.CompileDecl(decl)
}

// NewMachine binds a frozen graph to the functions of reg.
func NewMachine(g *machine.Graph, reg *registry.Registry, opts ...MachineOption) (*Machine, error) {
	return runtime.New(g, reg, opts...)
}

// Runtime options re-exported for library users.
var (
	WithMachineLogger = runtime.WithLogger
	WithObserver      = runtime.WithObserver
	WithMetrics       = runtime.WithMetrics
)
