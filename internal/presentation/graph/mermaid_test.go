package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/internal/presentation/graph"
	"github.com/aretw0/tickfsm/pkg/dsl"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateGraph(t *testing.T) *machine.Graph {
	t.Helper()
	b := dsl.New("GateMachine").Package("gate").Host("Gate")
	b.State("Closed").Initial()
	b.State("Opening").Entry("startMotor").Periodic("pulse").Exit("stopMotor")
	b.State("Open").Terminal()
	b.State("Jammed").Terminal()
	b.Transition("Closed", "Opening").When("!locked")
	b.Transition("Opening", "Jammed").When("stalled").Priority(0)
	b.Transition("Opening", "Open").When("fullyOpen").Action("latch").Priority(1)

	decl, err := b.Decl()
	require.NoError(t, err)
	g, _, err := compiler.New().CompileDecl(decl)
	require.NoError(t, err)
	return g
}

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(gateGraph(t), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"Header", []string{"stateDiagram-v2\n"}},
		{"Initial Marker", []string{"[*] --> Closed"}},
		{"Terminal Markers", []string{"Open --> [*]", "Jammed --> [*]"}},
		{"Single Edge Label", []string{"Closed --> Opening : [!locked]"}},
		{"Ranked Edges", []string{
			"Opening --> Jammed : 1. [stalled]",
			"Opening --> Open : 2. [fullyOpen] / latch",
		}},
		{"Actions", []string{
			"Opening : entry / startMotor",
			"Opening : do / pulse",
			"Opening : exit / stopMotor",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
	assert.NotContains(t, got, "classDef")
}

func TestGenerateMermaid_RankFollowsPriority(t *testing.T) {
	got := graph.GenerateMermaid(gateGraph(t), nil)
	assert.Less(t, strings.Index(got, "Opening --> Jammed"), strings.Index(got, "Opening --> Open :"))
}

func TestGenerateMermaid_AlwaysLabel(t *testing.T) {
	b := dsl.New("LoopMachine").Package("loop")
	b.State("A").Initial()
	b.State("B").Terminal()
	b.Transition("A", "B").Always()
	decl, err := b.Decl()
	require.NoError(t, err)
	g, _, err := compiler.New().CompileDecl(decl)
	require.NoError(t, err)

	assert.Contains(t, graph.GenerateMermaid(g, nil), "A --> B : always")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(gateGraph(t), &graph.Overlay{
		Visited: []string{"Closed", "Closed", "Ghost", "Opening"},
		Current: "Opening",
	})

	assert.Contains(t, got, "classDef visited")
	assert.Contains(t, got, "class Closed visited")
	assert.Equal(t, 1, strings.Count(got, "class Closed visited"))
	assert.Contains(t, got, "class Opening current")
	assert.NotContains(t, got, "class Opening visited")
	assert.NotContains(t, got, "Ghost")
}
