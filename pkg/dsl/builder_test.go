package dsl

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DriveMachine(t *testing.T) {
	b := New("DriveMachine").Package("robot").Host("*Robot")

	b.State("Idle").Initial().Entry("resetOdometer")
	b.State("Moving").Periodic("drive").Exit("brake")
	b.State("Done").Terminal().Entry("park")

	b.Transition("Idle", "Moving").Always()
	b.Transition("Moving", "Done").When("distanceReached").Action("logArrival").Priority(3).ID("arrive")

	decl, err := b.Decl()
	require.NoError(t, err)

	assert.Equal(t, "DriveMachine", decl.Name)
	assert.Equal(t, "robot", decl.Package)
	assert.Equal(t, domain.Host{Name: "Robot", Pointer: true}, decl.Host)
	assert.Equal(t, domain.FormatDSL, decl.Format)

	require.Len(t, decl.States, 3)
	assert.Equal(t, domain.StateDecl{Name: "Idle", Initial: true, Entry: "resetOdometer", Pos: decl.States[0].Pos}, decl.States[0])
	assert.Equal(t, "drive", decl.States[1].Periodic)
	assert.Equal(t, "brake", decl.States[1].Exit)
	assert.True(t, decl.States[2].Terminal)

	require.Len(t, decl.Transitions, 2)
	assert.Equal(t, domain.GuardAlways, decl.Transitions[0].Guard)
	assert.False(t, decl.Transitions[0].PriorityExplicit)
	assert.Equal(t, "arrive", decl.Transitions[1].ID)
	assert.Equal(t, domain.Guard("distanceReached"), decl.Transitions[1].Guard)
	assert.Equal(t, 3, decl.Transitions[1].Priority)
	assert.True(t, decl.Transitions[1].PriorityExplicit)
	assert.Empty(t, decl.Transitions[0].Action)
	assert.Equal(t, "logArrival", decl.Transitions[1].Action)
}

func TestBuilder_PositionsPointAtCallSites(t *testing.T) {
	b := New("M")
	b.State("A").Initial().Terminal()

	decl, err := b.Decl()
	require.NoError(t, err)
	assert.Equal(t, "builder_test.go", filepath.Base(decl.States[0].Pos.File))
	assert.Equal(t, decl.Pos.Line+1, decl.States[0].Pos.Line)
}

func TestBuilder_CollectsEveryError(t *testing.T) {
	b := New("M")
	b.State("A").Initial().Entry("not valid")
	b.Transition("A", "B")
	b.Transition("A", "C").When("!").Priority(-1)
	b.Transition("A", "A").Always().Action("")

	_, err := b.Decl()
	require.Error(t, err)

	diags := diag.FromError(err)
	assert.ElementsMatch(t,
		[]diag.Code{diag.CodeBadReference, diag.CodeMissingField, diag.CodeBadReference, diag.CodeBadValue, diag.CodeBadReference},
		diags.Codes(),
	)
	for _, d := range diags {
		assert.Equal(t, diag.ClassExtraction, d.Class)
	}
}

func TestBuilder_RejectsBadMachineName(t *testing.T) {
	_, err := New("not-an-ident").Decl()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `machine name "not-an-ident" is not a Go identifier`)
}
