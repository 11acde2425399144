package gosource

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// CheckHost checks the action and guard references of decl, declared in a
// YAML or HCL spec, against the Go files of dir. When no file of the
// machine's package in dir declares the host type the references stay
// unchecked, and a single warning says so.
func (e *Extractor) CheckHost(decl *domain.MachineDecl, dir string) diag.List {
	var diags diag.List

	files, err := goFiles(dir)
	if err != nil {
		e.logger.Debug("Could not list host directory", "dir", dir, "err", err)
	}

	fset := token.NewFileSet()
	methods := make(map[string]map[string]signature)
	var host *ast.TypeSpec
	for _, path := range files {
		if !e.Match(path) {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			e.logger.Debug("Skipping unparsable Go file", "path", path, "err", err)
			continue
		}
		if decl.Package != "" && f.Name.Name != decl.Package {
			continue
		}
		addMethods(methods, f)
		if host == nil {
			host = findType(f, decl.Host.Name)
		}
	}

	if host == nil {
		diags.Warnf(diag.ClassExtraction, diag.CodeUncheckedHost, decl.Pos,
			"machine %s: host type %s is not declared in %s; action and guard references are not checked",
			decl.Name, decl.Host.Name, dir)
		return diags
	}
	if host.TypeParams != nil {
		genericHost(&diags, decl)
		return diags
	}

	ms := methods[decl.Host.Name]
	if iface, ok := host.Type.(*ast.InterfaceType); ok {
		ms = interfaceMethods(iface)
	}
	resolveReferences(decl, ms, &diags)
	e.logger.Debug("Checked host references", "machine", decl.Name, "host", decl.Host.Name)
	return diags
}

func findType(f *ast.File, name string) *ast.TypeSpec {
	for _, d := range f.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			if ts := spec.(*ast.TypeSpec); ts.Name.Name == name {
				return ts
			}
		}
	}
	return nil
}

func genericHost(diags *diag.List, decl *domain.MachineDecl) {
	diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, decl.Pos,
		"machine %s: host type %s has type parameters; generated machines need a non-generic host",
		decl.Name, decl.Host.Name)
}
