package gosource

import (
	"go/ast"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// signature is the shape of a host method as far as tickfsm cares.
type signature int

const (
	sigOther  signature = iota
	sigAction           // func()
	sigGuard            // func() bool
)

func (s signature) String() string {
	switch s {
	case sigAction:
		return "func()"
	case sigGuard:
		return "func() bool"
	}
	return "another signature"
}

func classify(ft *ast.FuncType) signature {
	if ft.TypeParams.NumFields() > 0 || ft.Params.NumFields() > 0 {
		return sigOther
	}
	switch ft.Results.NumFields() {
	case 0:
		return sigAction
	case 1:
		if id, ok := ft.Results.List[0].Type.(*ast.Ident); ok && id.Name == "bool" {
			return sigGuard
		}
	}
	return sigOther
}

func addMethods(methods map[string]map[string]signature, file *ast.File) {
	for _, d := range file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		recv := receiverName(fn.Recv.List[0].Type)
		if recv == "" {
			continue
		}
		if methods[recv] == nil {
			methods[recv] = make(map[string]signature)
		}
		methods[recv][fn.Name.Name] = classify(fn.Type)
	}
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}

func interfaceMethods(iface *ast.InterfaceType) map[string]signature {
	out := make(map[string]signature)
	for _, f := range iface.Methods.List {
		ft, ok := f.Type.(*ast.FuncType)
		if !ok {
			continue // embedded interface
		}
		for _, name := range f.Names {
			out[name.Name] = classify(ft)
		}
	}
	return out
}

// resolveReferences checks that every action and guard of decl names a host
// method with the right signature.
func resolveReferences(decl *domain.MachineDecl, methods map[string]signature, diags *diag.List) {
	check := func(pos domain.Position, what, name string, want signature) {
		got, ok := methods[name]
		switch {
		case !ok:
			diags.Errorf(diag.ClassExtraction, diag.CodeUnboundName, pos,
				"%s: %s has no method %s", what, decl.Host.Name, name)
		case got != want:
			diags.Errorf(diag.ClassExtraction, diag.CodeBadReference, pos,
				"%s: method %s.%s has %s, want %s", what, decl.Host.Name, name, got, want)
		}
	}

	for _, s := range decl.States {
		for _, a := range []struct{ kind, name string }{
			{"entry", s.Entry}, {"periodic", s.Periodic}, {"exit", s.Exit},
		} {
			if a.name != "" {
				check(s.Pos, "state "+s.Name+" "+a.kind+" action", a.name, sigAction)
			}
		}
	}
	for _, t := range decl.Transitions {
		if m := t.Guard.Method(); m != "" {
			check(t.Pos, "transition "+t.From+" -> "+t.To+" guard", m, sigGuard)
		}
		if t.Action != "" {
			check(t.Pos, "transition "+t.From+" -> "+t.To+" action", t.Action, sigAction)
		}
	}
}
