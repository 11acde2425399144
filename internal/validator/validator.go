package validator

import (
	"strings"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/machine"
)

// Validate checks the structural invariants of g and reports every violation
// it finds. When no error is reported the graph is frozen.
func Validate(g *machine.Graph) diag.List {
	var diags diag.List

	checkDuplicates(g, &diags)
	if checkInitial(g, &diags) {
		checkReachable(g, &diags)
	}
	checkTerminals(g, &diags)
	checkAmbiguous(g, &diags)
	checkDangling(g, &diags)

	checkShadowed(g, &diags)
	checkDeadEnds(g, &diags)

	if !diags.HasErrors() {
		g.Freeze()
	}
	return diags
}

func checkDuplicates(g *machine.Graph, diags *diag.List) {
	for _, s := range g.States {
		if first, _ := g.State(s.Name); first != s {
			diags.Errorf(diag.ClassValidation, diag.CodeDuplicateState, s.Pos,
				"duplicate state: %s (first declared at %s)", s.Name, first.Pos)
		}
	}

	seen := make(map[string]*machine.Transition)
	for _, t := range g.Transitions {
		if first, ok := seen[t.ID]; ok {
			diags.Errorf(diag.ClassValidation, diag.CodeDuplicateTransition, t.Pos,
				"duplicate transition: %s (first declared at %s)", t.ID, first.Pos)
			continue
		}
		seen[t.ID] = t
	}
}

// checkInitial reports whether exactly one initial state exists.
func checkInitial(g *machine.Graph, diags *diag.List) bool {
	initial := g.Initial()
	switch len(initial) {
	case 1:
		return true
	case 0:
		diags.Errorf(diag.ClassValidation, diag.CodeNoInitial, g.Pos,
			"no initial state in machine %s", g.Name)
	default:
		names := make([]string, len(initial))
		for i, s := range initial {
			names[i] = s.Name
		}
		diags.Errorf(diag.ClassValidation, diag.CodeMultipleInitial, initial[1].Pos,
			"multiple initial states: %s", strings.Join(names, ", "))
	}
	return false
}

// checkReachable crawls the graph breadth-first from the initial state.
func checkReachable(g *machine.Graph, diags *diag.List) {
	start := g.InitialState()
	visited := make(map[string]bool)
	queue := []*machine.State{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.Name] {
			continue
		}
		visited[current.Name] = true

		for _, t := range current.Out {
			next, ok := g.State(t.To)
			if !ok {
				continue // reported as dangling
			}
			if !visited[next.Name] {
				queue = append(queue, next)
			}
		}
	}

	terminalReached := false
	for _, s := range g.Unique() {
		if !visited[s.Name] {
			diags.Errorf(diag.ClassValidation, diag.CodeUnreachable, s.Pos,
				"unreachable state: %s", s.Name)
			continue
		}
		if s.Terminal {
			terminalReached = true
		}
	}
	if !terminalReached {
		diags.Warnf(diag.ClassValidation, diag.CodeNoTerminal, g.Pos,
			"no terminal state is reachable in machine %s; it never finishes on its own", g.Name)
	}
}

func checkTerminals(g *machine.Graph, diags *diag.List) {
	for _, s := range g.Unique() {
		if s.Terminal && len(s.Out) > 0 {
			diags.Errorf(diag.ClassValidation, diag.CodeTerminalTransitions, s.Pos,
				"terminal state has transitions: %s", s.Name)
		}
	}
}

// checkAmbiguous reports transitions from one source that share both the
// guard text and the priority. Distinct guards at equal priority are ordered
// by declaration and are not ambiguous.
func checkAmbiguous(g *machine.Graph, diags *diag.List) {
	for _, s := range g.Unique() {
		for i, later := range s.Out {
			for _, earlier := range s.Out[:i] {
				if earlier.Priority == later.Priority && earlier.Guard == later.Guard {
					diags.Errorf(diag.ClassValidation, diag.CodeAmbiguous, later.Pos,
						"ambiguous transition: %s and %s leave %s with guard %q at priority %d",
						earlier.ID, later.ID, s.Name, later.Guard, later.Priority)
					break
				}
			}
		}
	}
}

func checkDangling(g *machine.Graph, diags *diag.List) {
	for _, t := range g.Transitions {
		if _, ok := g.State(t.From); !ok {
			diags.Errorf(diag.ClassValidation, diag.CodeDangling, t.Pos,
				"dangling transition: %s leaves undeclared state %s", t.ID, t.From)
		}
		if _, ok := g.State(t.To); !ok {
			diags.Errorf(diag.ClassValidation, diag.CodeDangling, t.Pos,
				"dangling transition: %s targets undeclared state %s", t.ID, t.To)
		}
	}
}

// checkShadowed warns about transitions that can never fire because an
// earlier one in evaluation order always wins.
func checkShadowed(g *machine.Graph, diags *diag.List) {
	for _, s := range g.Unique() {
		for i, later := range s.Out {
			for _, earlier := range s.Out[:i] {
				if earlier.Priority == later.Priority && earlier.Guard == later.Guard {
					break // already ambiguous
				}
				if earlier.Guard.IsAlways() || earlier.Guard == later.Guard {
					diags.Warnf(diag.ClassValidation, diag.CodeShadowed, later.Pos,
						"transition %s never fires: %s is evaluated first with guard %q",
						later.ID, earlier.ID, earlier.Guard)
					break
				}
			}
		}
	}
}

func checkDeadEnds(g *machine.Graph, diags *diag.List) {
	for _, s := range g.Unique() {
		if !s.Terminal && len(s.Out) == 0 {
			diags.Warnf(diag.ClassValidation, diag.CodeDeadEnd, s.Pos,
				"state %s has no outgoing transitions and is not terminal", s.Name)
		}
	}
}
