package machine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/zeebo/xxh3"
)

// State is a node of the graph.
type State struct {
	Name     string
	Initial  bool
	Terminal bool
	Entry    string
	Periodic string
	Exit     string
	Pos      domain.Position

	// Index is the declaration index of the state within its machine.
	Index int

	// Out holds the outgoing transitions sorted by (Priority, Order).
	Out []*Transition
}

// Transition is a directed, guarded edge.
type Transition struct {
	ID       string
	From     string
	To       string
	Guard    domain.Guard
	Action   string
	Priority int
	// Order is the declaration index, used to break priority ties.
	Order int
	Pos   domain.Position
}

// Graph is the assembled state machine.
type Graph struct {
	Name    string
	Package string
	Host    domain.Host
	Format  domain.Format
	Source  string
	Pos     domain.Position

	// States and Transitions keep declaration order, duplicates included,
	// so the validator can report them.
	States      []*State
	Transitions []*Transition

	index  map[string]*State
	frozen bool
}

// NewGraph returns an empty graph for the named machine.
func NewGraph(name string) *Graph {
	return &Graph{Name: name, index: make(map[string]*State)}
}

// AddState appends a state. The first state declared under a name is the
// one lookups resolve to.
func (g *Graph) AddState(s *State) {
	g.mustBeMutable()
	s.Index = len(g.States)
	g.States = append(g.States, s)
	if _, ok := g.index[s.Name]; !ok {
		g.index[s.Name] = s
	}
}

// AddTransition appends a transition and links it to its source when the
// source is known. Targets are not checked here.
func (g *Graph) AddTransition(t *Transition) {
	g.mustBeMutable()
	t.Order = len(g.Transitions)
	g.Transitions = append(g.Transitions, t)
	if src, ok := g.index[t.From]; ok {
		src.Out = append(src.Out, t)
		slices.SortStableFunc(src.Out, compareTransitions)
	}
}

func compareTransitions(a, b *Transition) int {
	if a.Priority != b.Priority {
		return a.Priority - b.Priority
	}
	return a.Order - b.Order
}

// State looks up a state by name.
func (g *Graph) State(name string) (*State, bool) {
	s, ok := g.index[name]
	return s, ok
}

// Initial returns every state flagged initial, in declaration order.
func (g *Graph) Initial() []*State {
	var out []*State
	for _, s := range g.States {
		if s.Initial {
			out = append(out, s)
		}
	}
	return out
}

// InitialState returns the single initial state of a valid graph. When the
// initial flag sits on a duplicate declaration, it returns the state that
// lookups of that name resolve to, which is the one carrying the edges.
func (g *Graph) InitialState() *State {
	init := g.Initial()
	if len(init) == 0 {
		return nil
	}
	if s, ok := g.index[init[0].Name]; ok {
		return s
	}
	return init[0]
}

// Unique returns the states lookups resolve to, in declaration order.
// Later duplicates are skipped.
func (g *Graph) Unique() []*State {
	out := make([]*State, 0, len(g.index))
	for _, s := range g.States {
		if g.index[s.Name] == s {
			out = append(out, s)
		}
	}
	return out
}

// Freeze makes the graph immutable.
func (g *Graph) Freeze() {
	g.frozen = true
}

// Frozen reports whether the validator has accepted the graph.
func (g *Graph) Frozen() bool {
	return g.frozen
}

func (g *Graph) mustBeMutable() {
	if g.frozen {
		panic(fmt.Sprintf("machine: graph %s is frozen", g.Name))
	}
}

// Canonical renders the graph in a stable textual form. Two graphs with the
// same canonical form generate the same code.
func (g *Graph) Canonical() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "machine %s package=%s host=%s\n", g.Name, g.Package, g.Host.TypeExpr())
	for _, s := range g.States {
		fmt.Fprintf(&sb, "state %s initial=%t terminal=%t entry=%s periodic=%s exit=%s\n",
			s.Name, s.Initial, s.Terminal, s.Entry, s.Periodic, s.Exit)
	}
	for _, s := range g.Unique() {
		for _, t := range s.Out {
			fmt.Fprintf(&sb, "transition %s %s->%s guard=%s action=%s priority=%d\n",
				t.ID, t.From, t.To, t.Guard, t.Action, t.Priority)
		}
	}
	return sb.String()
}

// Fingerprint hashes the canonical form.
func (g *Graph) Fingerprint() uint64 {
	return xxh3.HashString(g.Canonical())
}
