package machine

import (
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// Build assembles a declaration into a graph. Unresolved state references
// are resolution errors; when any is found the graph is nil, so validation
// never runs on a half-linked graph.
func Build(decl *domain.MachineDecl) (*Graph, diag.List) {
	var diags diag.List

	g := NewGraph(decl.Name)
	g.Package = decl.Package
	g.Host = decl.Host
	g.Format = decl.Format
	g.Source = decl.Source
	g.Pos = decl.Pos

	// First pass: nodes.
	for _, s := range decl.States {
		g.AddState(&State{
			Name:     s.Name,
			Initial:  s.Initial,
			Terminal: s.Terminal,
			Entry:    s.Entry,
			Periodic: s.Periodic,
			Exit:     s.Exit,
			Pos:      s.Pos,
		})
	}

	// Second pass: edges.
	for i, t := range decl.Transitions {
		id := t.ID
		if id == "" {
			id = domain.DeriveID(t.From, t.To, t.Guard)
		}
		if _, ok := g.State(t.From); !ok {
			diags.Errorf(diag.ClassResolution, diag.CodeUnresolvedState, t.Pos,
				"unresolved state reference: transition %s has undeclared source %q", id, t.From)
		}
		if _, ok := g.State(t.To); !ok {
			diags.Errorf(diag.ClassResolution, diag.CodeUnresolvedState, t.Pos,
				"unresolved state reference: transition %s has undeclared target %q", id, t.To)
		}
		priority := t.Priority
		if !t.PriorityExplicit {
			priority = i
		}
		g.AddTransition(&Transition{
			ID:       id,
			From:     t.From,
			To:       t.To,
			Guard:    t.Guard,
			Action:   t.Action,
			Priority: priority,
			Pos:      t.Pos,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return g, diags
}
