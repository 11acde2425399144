// Package emitter turns validated machine graphs into Go source.
package emitter

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/zeebo/xxh3"
)

var tmpl = template.Must(template.New("fsm").Parse(fileTemplate))

type fileView struct {
	Source      string
	Package     string
	Fingerprint uint64
	Machines    []machineView
}

type machineView struct {
	Name          string
	Constructor   string
	HostType      string
	StateType     string
	PhaseType     string
	Uninitialized string
	Running       string
	Retired       string
	Initial       string
	InitialName   string
	States        []stateView
	Terminals     []string
}

type stateView struct {
	Name     string
	Const    string
	Entry    string
	Periodic string
	Exit     string
	Branches []branchView
}

// branchView is one arm of a state's dispatch chain. An empty Cond is an
// unconditional arm; it is always the last one. Action, when set, runs
// between the exit of the current state and the entry of Target.
type branchView struct {
	Cond   string
	Target string
	Action string
	Last   bool
}

// OutputName returns the file name generated for source, for example
// drive.yaml -> drive_fsm.go with suffix "_fsm.go".
func OutputName(source, suffix string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix
}

// Emit renders the graphs declared by one input file into a single gofmt'd
// Go file. Every graph must be frozen and share a package. Emitting the same
// graphs twice yields identical bytes.
func Emit(source string, graphs []*machine.Graph) ([]byte, diag.List) {
	var diags diag.List
	if len(graphs) == 0 {
		diags.Errorf(diag.ClassEmission, diag.CodeBadValue, domain.Position{File: source},
			"nothing to emit for %s", source)
		return nil, diags
	}

	view := fileView{
		Source:  filepath.Base(source),
		Package: graphs[0].Package,
	}
	if !domain.IsIdentifier(view.Package) {
		diags.Errorf(diag.ClassEmission, diag.CodeBadValue, graphs[0].Pos,
			"package name %q is not a Go identifier", view.Package)
	}

	ids := newNames(&diags)
	var canonical strings.Builder
	for _, g := range graphs {
		if !g.Frozen() {
			diags.Errorf(diag.ClassEmission, diag.CodeBadValue, g.Pos, "machine %s: %v", g.Name, domain.ErrNotFrozen)
			continue
		}
		if g.Package != view.Package {
			diags.Errorf(diag.ClassEmission, diag.CodeBadValue, g.Pos,
				"machine %s is in package %q, but %s declares package %q", g.Name, g.Package, source, view.Package)
			continue
		}
		canonical.WriteString(g.Canonical())
		view.Machines = append(view.Machines, buildView(g, ids))
	}
	if diags.HasErrors() {
		return nil, diags
	}
	view.Fingerprint = xxh3.HashString(canonical.String())

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		diags.Errorf(diag.ClassEmission, diag.CodeSyntax, domain.Position{File: source}, "render: %v", err)
		return nil, diags
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		diags.Errorf(diag.ClassEmission, diag.CodeSyntax, domain.Position{File: source},
			"generated code does not parse: %v", err)
		return nil, diags
	}
	return out, diags
}

func buildView(g *machine.Graph, ids *names) machineView {
	phase := lowerFirst(g.Name)
	mv := machineView{
		Name:          g.Name,
		Constructor:   "New" + upperFirst(g.Name),
		HostType:      g.Host.TypeExpr(),
		StateType:     g.Name + "State",
		PhaseType:     phase + "Phase",
		Uninitialized: phase + "Uninitialized",
		Running:       phase + "Running",
		Retired:       phase + "Retired",
	}
	owner := "machine " + g.Name
	for _, id := range []string{mv.Name, mv.Constructor, mv.StateType, mv.PhaseType, mv.Uninitialized, mv.Running, mv.Retired} {
		ids.declare(id, owner, g.Pos)
	}
	if g.Host.Name == mv.Name || g.Host.Name == mv.StateType {
		ids.diags.Errorf(diag.ClassEmission, diag.CodeNameCollision, g.Pos,
			"machine %s: generated identifier collides with host type %s", g.Name, g.Host.Name)
	}

	constOf := func(state string) string {
		return g.Name + upperFirst(state)
	}
	for _, s := range g.Unique() {
		sv := stateView{
			Name:     s.Name,
			Const:    constOf(s.Name),
			Entry:    s.Entry,
			Periodic: s.Periodic,
			Exit:     s.Exit,
		}
		ids.declare(sv.Const, "state "+g.Name+"."+s.Name, s.Pos)

		for _, t := range s.Out {
			b := branchView{Target: constOf(t.To), Action: t.Action}
			if !t.Guard.IsAlways() {
				b.Cond = guardExpr(t.Guard)
			}
			sv.Branches = append(sv.Branches, b)
			if b.Cond == "" {
				break // later arms can never run
			}
		}
		if n := len(sv.Branches); n > 0 {
			sv.Branches[n-1].Last = true
		}

		if s.Initial {
			mv.Initial = sv.Const
			mv.InitialName = s.Name
		}
		if s.Terminal {
			mv.Terminals = append(mv.Terminals, sv.Const)
		}
		mv.States = append(mv.States, sv)
	}
	return mv
}

func guardExpr(g domain.Guard) string {
	call := fmt.Sprintf("m.host.%s()", g.Method())
	if g.Negated() {
		return "!" + call
	}
	return call
}
