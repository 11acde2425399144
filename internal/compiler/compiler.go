// Package compiler runs the tickfsm pipeline: extraction, graph building,
// validation and emission. A stage only runs when every earlier stage
// succeeded for every input, so a broken input never produces output.
package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/tickfsm/internal/adapters/gosource"
	"github.com/aretw0/tickfsm/internal/adapters/hclspec"
	"github.com/aretw0/tickfsm/internal/adapters/yamlspec"
	"github.com/aretw0/tickfsm/internal/emitter"
	"github.com/aretw0/tickfsm/internal/validator"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/aretw0/tickfsm/pkg/ports"
)

// DefaultSuffix is appended to the input base name to form the output name.
const DefaultSuffix = "_fsm.go"

// Extractor is an extractor that can tell which files it reads.
type Extractor interface {
	ports.Extractor
	ports.Matcher
}

// Recorder receives pipeline counts. internal/metrics implements it.
type Recorder interface {
	Inputs(n int)
	MachinesGenerated(n int)
	Diagnostics(l diag.List)
}

type nopRecorder struct{}

func (nopRecorder) Inputs(int)            {}
func (nopRecorder) MachinesGenerated(int) {}
func (nopRecorder) Diagnostics(diag.List) {}

// Compiler holds the pipeline configuration.
type Compiler struct {
	logger           *slog.Logger
	recorder         Recorder
	extractors       []Extractor
	hosts            *gosource.Extractor
	suffix           string
	outputDir        string
	defaultPackage   string
	warningsAsErrors bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used by the pipeline and its extractors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) { c.recorder = r }
}

// WithExtractors replaces the default front-ends.
func WithExtractors(e ...Extractor) Option {
	return func(c *Compiler) { c.extractors = e }
}

// WithSuffix sets the generated file suffix.
func WithSuffix(s string) Option {
	return func(c *Compiler) { c.suffix = s }
}

// WithOutputDir writes every generated file to dir instead of next to its
// input.
func WithOutputDir(dir string) Option {
	return func(c *Compiler) { c.outputDir = dir }
}

// WithDefaultPackage sets the package used by YAML and HCL machines that
// do not name one.
func WithDefaultPackage(pkg string) Option {
	return func(c *Compiler) { c.defaultPackage = pkg }
}

// WithWarningsAsErrors makes any warning fail the build.
func WithWarningsAsErrors(v bool) Option {
	return func(c *Compiler) { c.warningsAsErrors = v }
}

// New creates a compiler with the Go, YAML and HCL front-ends.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: nopRecorder{},
		suffix:   DefaultSuffix,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hosts = gosource.New(gosource.WithLogger(c.logger))
	if c.extractors == nil {
		c.extractors = []Extractor{
			c.hosts,
			yamlspec.New(c.logger),
			hclspec.New(c.logger),
		}
	}
	return c
}

// Unit is the compilation unit for one input file.
type Unit struct {
	Source string
	Graphs []*machine.Graph

	// Output and Code are set by Emit.
	Output string
	Code   []byte
}

// Result is the outcome of a pipeline run. Diagnostics holds every error
// and warning, sorted by position.
type Result struct {
	Units       []*Unit
	Diagnostics diag.List
}

// Graphs returns every graph of every unit in input order.
func (r *Result) Graphs() []*machine.Graph {
	var out []*machine.Graph
	for _, u := range r.Units {
		out = append(out, u.Graphs...)
	}
	return out
}

// Err returns the aggregated fatal diagnostics, or nil.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

func (c *Compiler) finish(res *Result, diags diag.List) (*Result, error) {
	if c.warningsAsErrors {
		for i := range diags {
			diags[i].Severity = diag.SeverityError
		}
	}
	res.Diagnostics = diags.Sorted()
	c.recorder.Diagnostics(res.Diagnostics)
	if err := res.Err(); err != nil {
		res.Units = nil
		return res, err
	}
	return res, nil
}

// Load extracts, builds and validates every machine found under paths.
// The returned graphs are frozen. On failure the result still carries every
// diagnostic, but no units.
func (c *Compiler) Load(ctx context.Context, paths ...string) (*Result, error) {
	files, diags := c.expand(paths)
	c.recorder.Inputs(len(files))
	res := &Result{}

	type extracted struct {
		source string
		decls  []*domain.MachineDecl
	}
	var inputs []extracted

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		src, err := os.ReadFile(file.path)
		if err != nil {
			diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, domain.Position{File: file.path}, "%v", err)
			continue
		}
		decls, ediags := file.extractor.Extract(ctx, file.path, src)
		diags.Append(ediags)
		for _, d := range decls {
			c.applyDefaults(d, &diags)
		}
		c.logger.Debug("Extracted input", "path", file.path, "machines", len(decls), "diagnostics", len(ediags))
		if len(decls) > 0 {
			inputs = append(inputs, extracted{source: file.path, decls: decls})
		}
	}
	if diags.HasErrors() {
		return c.finish(res, diags)
	}

	// Go hosts are checked by their own extractor. Other formats are
	// checked against the Go files next to the spec.
	for _, in := range inputs {
		for _, d := range in.decls {
			if d.Format != domain.FormatGo {
				diags.Append(c.hosts.CheckHost(d, filepath.Dir(in.source)))
			}
		}
	}
	if diags.HasErrors() {
		return c.finish(res, diags)
	}

	// Resolution: every declaration is built before any is validated.
	for _, in := range inputs {
		u := &Unit{Source: in.source}
		for _, decl := range in.decls {
			g, bdiags := machine.Build(decl)
			diags.Append(bdiags)
			if g != nil {
				u.Graphs = append(u.Graphs, g)
			}
		}
		res.Units = append(res.Units, u)
	}
	if diags.HasErrors() {
		return c.finish(res, diags)
	}

	for _, u := range res.Units {
		for _, g := range u.Graphs {
			vdiags := validator.Validate(g)
			diags.Append(vdiags)
			c.logger.Debug("Validated machine", "machine", g.Name, "errors", len(vdiags.Errors()), "warnings", len(vdiags.Warnings()))
		}
	}
	return c.finish(res, diags)
}

func (c *Compiler) applyDefaults(d *domain.MachineDecl, diags *diag.List) {
	if d.Package == "" {
		d.Package = c.defaultPackage
	}
	if d.Package == "" {
		diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, d.Pos,
			"machine %s: no package given and no default package configured", d.Name)
	}
}

// Emit renders every unit of a successful result. Output paths are checked
// for collisions between units. When any unit fails, no unit keeps its code.
func (c *Compiler) Emit(res *Result) error {
	if err := res.Err(); err != nil {
		return err
	}

	var diags diag.List
	owners := make(map[string]string)
	machines := 0
	for _, u := range res.Units {
		u.Output = c.outputPath(u.Source)
		if prev, ok := owners[u.Output]; ok {
			diags.Errorf(diag.ClassEmission, diag.CodeNameCollision, domain.Position{File: u.Source},
				"output %s is also generated from %s", u.Output, prev)
			continue
		}
		owners[u.Output] = u.Source

		code, ediags := emitter.Emit(u.Source, u.Graphs)
		diags.Append(ediags)
		u.Code = code
		machines += len(u.Graphs)
	}

	if diags.HasErrors() {
		c.recorder.Diagnostics(diags)
		res.Diagnostics = append(res.Diagnostics, diags...).Sorted()
		for _, u := range res.Units {
			u.Code = nil
		}
		return res.Err()
	}
	c.recorder.MachinesGenerated(machines)
	return nil
}

// Compile runs Load then Emit without touching the file system.
func (c *Compiler) Compile(ctx context.Context, paths ...string) (*Result, error) {
	res, err := c.Load(ctx, paths...)
	if err != nil {
		return res, err
	}
	return res, c.Emit(res)
}

// CompileDecl builds and validates a single declaration, typically one
// produced by pkg/dsl. The returned graph is frozen.
func (c *Compiler) CompileDecl(decl *domain.MachineDecl) (*machine.Graph, diag.List, error) {
	res := &Result{}
	var diags diag.List
	c.applyDefaults(decl, &diags)
	if !diags.HasErrors() {
		g, bdiags := machine.Build(decl)
		diags.Append(bdiags)
		if g != nil {
			diags.Append(validator.Validate(g))
			res.Units = []*Unit{{Source: decl.Source, Graphs: []*machine.Graph{g}}}
		}
	}

	res, err := c.finish(res, diags)
	if err != nil {
		return nil, res.Diagnostics, err
	}
	return res.Units[0].Graphs[0], res.Diagnostics, nil
}
