// Package gosource extracts machine declarations from //tickfsm: directives
// in the doc comments of Go type declarations.
package gosource

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// Extractor implements ports.Extractor for Go source files.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates a Go source extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match reports whether path is a non-test Go file.
func (e *Extractor) Match(path string) bool {
	return strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")
}

// Extract parses src and returns one declaration per //tickfsm:machine
// directive. Action and guard references are checked against the methods
// of the host type declared anywhere in the file's directory.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte) ([]*domain.MachineDecl, diag.List) {
	var diags diag.List

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		reportParseError(&diags, path, err)
		return nil, diags
	}

	var decls []*domain.MachineDecl
	hosts := make(map[*domain.MachineDecl]*ast.TypeSpec)
	for _, gd := range file.Decls {
		gen, ok := gd.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			found := e.fromDoc(fset, doc, file.Name.Name, ts, &diags)
			if len(found) > 0 && ts.TypeParams != nil {
				genericHost(&diags, found[0])
				continue
			}
			for _, decl := range found {
				decl.Source = path
				decls = append(decls, decl)
				hosts[decl] = ts
			}
		}
	}

	if len(decls) == 0 {
		return nil, diags
	}

	methods := e.collectMethods(fset, path, file)
	for _, decl := range decls {
		ms := methods[decl.Host.Name]
		if iface, ok := hosts[decl].Type.(*ast.InterfaceType); ok {
			ms = interfaceMethods(iface)
		}
		resolveReferences(decl, ms, &diags)
	}

	e.logger.Debug("Extracted Go directives", "path", path, "machines", len(decls))
	return decls, diags
}

// fromDoc reads the directives of one doc comment. Each state and
// transition directive belongs to the nearest preceding machine directive.
func (e *Extractor) fromDoc(fset *token.FileSet, doc *ast.CommentGroup, pkg string, ts *ast.TypeSpec, diags *diag.List) []*domain.MachineDecl {
	if doc == nil {
		return nil
	}
	_, isInterface := ts.Type.(*ast.InterfaceType)
	host := domain.Host{Name: ts.Name.Name, Pointer: !isInterface}

	var (
		decls   []*domain.MachineDecl
		current *domain.MachineDecl
	)
	for _, c := range doc.List {
		p := fset.Position(c.Slash)
		pos := domain.Position{File: p.Filename, Line: p.Line, Column: p.Column}
		d, ok := parseDirective(c.Text, pos)
		if !ok {
			continue
		}

		switch d.verb {
		case "machine":
			name := host.Name + "Machine"
			if len(d.args) > 0 {
				name = d.args[0].text
			}
			if len(d.args) > 1 {
				diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, d.column(d.args[1]),
					"machine directive takes at most one name")
			}
			if !domain.IsIdentifier(name) {
				diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, pos,
					"machine name %q is not a Go identifier", name)
			}
			current = &domain.MachineDecl{
				Name:    name,
				Package: pkg,
				Host:    host,
				Format:  domain.FormatGo,
				Pos:     pos,
			}
			decls = append(decls, current)
		case "state", "transition":
			if current == nil {
				diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, pos,
					"%s directive before any machine directive on %s", d.verb, host.Name)
				continue
			}
			if d.verb == "state" {
				if s, ok := d.parseState(diags); ok {
					current.States = append(current.States, s)
				}
			} else if t, ok := d.parseTransition(diags); ok {
				current.Transitions = append(current.Transitions, t)
			}
		default:
			diags.Errorf(diag.ClassExtraction, diag.CodeUnknownField, pos,
				"unknown directive %s%s", prefix, d.verb)
		}
	}
	return decls
}

// collectMethods returns method signatures by receiver type name, from the
// current file and its non-test siblings.
func (e *Extractor) collectMethods(fset *token.FileSet, path string, file *ast.File) map[string]map[string]signature {
	methods := make(map[string]map[string]signature)
	addMethods(methods, file)

	siblings, err := goFiles(filepath.Dir(path))
	if err != nil {
		e.logger.Debug("Could not list package directory", "path", path, "err", err)
		return methods
	}
	self, _ := filepath.Abs(path)
	for _, sib := range siblings {
		if abs, _ := filepath.Abs(sib); abs == self || !e.Match(sib) {
			continue
		}
		f, err := parser.ParseFile(fset, sib, nil, parser.SkipObjectResolution)
		if err != nil {
			e.logger.Debug("Skipping unparsable sibling", "path", sib, "err", err)
			continue
		}
		addMethods(methods, f)
	}
	return methods
}

func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

func reportParseError(diags *diag.List, path string, err error) {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			diags.Errorf(diag.ClassExtraction, diag.CodeSyntax,
				domain.Position{File: e.Pos.Filename, Line: e.Pos.Line, Column: e.Pos.Column}, "%s", e.Msg)
		}
		return
	}
	diags.Errorf(diag.ClassExtraction, diag.CodeSyntax, domain.Position{File: path}, "%v", err)
}
