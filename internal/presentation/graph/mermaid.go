package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tickfsm/pkg/machine"
)

// Overlay highlights states on the diagram.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 for g.
// The initial state is entered from [*] and terminal states exit to it.
// States carrying actions get a description line per action. Edges are
// labelled with their guard; when a state has several outgoing edges the
// label starts with the evaluation rank.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g *machine.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	if init := g.InitialState(); init != nil {
		fmt.Fprintf(&sb, "    [*] --> %s\n", init.Name)
	}

	for _, s := range g.Unique() {
		for _, line := range describe(s) {
			fmt.Fprintf(&sb, "    %s : %s\n", s.Name, line)
		}
		for i, t := range s.Out {
			label := guardLabel(t)
			if len(s.Out) > 1 {
				label = fmt.Sprintf("%d. %s", i+1, label)
			}
			fmt.Fprintf(&sb, "    %s --> %s : %s\n", t.From, t.To, label)
		}
		if s.Terminal {
			fmt.Fprintf(&sb, "    %s --> [*]\n", s.Name)
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			// Only style states the graph knows about
			if _, ok := g.State(name); !ok || seen[name] || name == overlay.Current {
				continue
			}
			seen[name] = true
			fmt.Fprintf(&sb, "    class %s visited\n", name)
		}

		if _, ok := g.State(overlay.Current); ok {
			fmt.Fprintf(&sb, "    class %s current\n", overlay.Current)
		}
	}

	return sb.String()
}

func describe(s *machine.State) []string {
	var lines []string
	if s.Entry != "" {
		lines = append(lines, "entry / "+s.Entry)
	}
	if s.Periodic != "" {
		lines = append(lines, "do / "+s.Periodic)
	}
	if s.Exit != "" {
		lines = append(lines, "exit / "+s.Exit)
	}
	return lines
}

func guardLabel(t *machine.Transition) string {
	label := "always"
	if !t.Guard.IsAlways() {
		label = "[" + t.Guard.String() + "]"
	}
	if t.Action != "" {
		label += " / " + t.Action
	}
	return label
}
