package gosource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/tickfsm/internal/testutils"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const robotSrc = `package robot

// Robot drives forward until it has covered Target.
//
//tickfsm:machine
//tickfsm:state Idle initial entry=resetOdometer
//tickfsm:state Moving periodic=drive exit=brake
//tickfsm:state Done terminal
//tickfsm:transition Idle -> Moving guard=always
//tickfsm:transition Moving -> Done guard=distanceReached priority=1 id=arrive
type Robot struct {
	Target, Distance int
}

func (r *Robot) resetOdometer() { r.Distance = 0 }
`

const robotMethodsSrc = `package robot

func (r *Robot) drive()                 { r.Distance++ }
func (r *Robot) brake()                 {}
func (r *Robot) distanceReached() bool { return r.Distance >= r.Target }
`

func extract(t *testing.T, files map[string]string, name string) ([]*domain.MachineDecl, diag.List) {
	t.Helper()
	dir := testutils.SetupTestDir(t, files)
	path := filepath.Join(dir, name)
	src := testutils.ReadFile(t, path)
	return New(WithLogger(slogt.New(t))).Extract(context.Background(), path, []byte(src))
}

func TestExtract_Robot(t *testing.T) {
	decls, diags := extract(t, map[string]string{
		"robot.go":         robotSrc,
		"robot_methods.go": robotMethodsSrc,
	}, "robot.go")
	require.Empty(t, diags)
	require.Len(t, decls, 1)

	d := decls[0]
	assert.Equal(t, "RobotMachine", d.Name)
	assert.Equal(t, "robot", d.Package)
	assert.Equal(t, domain.Host{Name: "Robot", Pointer: true}, d.Host)
	assert.Equal(t, domain.FormatGo, d.Format)
	assert.Equal(t, 5, d.Pos.Line)

	require.Len(t, d.States, 3)
	assert.Equal(t, "Idle", d.States[0].Name)
	assert.True(t, d.States[0].Initial)
	assert.Equal(t, "resetOdometer", d.States[0].Entry)
	assert.Equal(t, "drive", d.States[1].Periodic)
	assert.Equal(t, "brake", d.States[1].Exit)
	assert.True(t, d.States[2].Terminal)
	assert.Equal(t, domain.Position{File: d.Source, Line: 7, Column: 17}, d.States[1].Pos)

	require.Len(t, d.Transitions, 2)
	assert.Equal(t, domain.GuardAlways, d.Transitions[0].Guard)
	assert.Equal(t, "arrive", d.Transitions[1].ID)
	assert.Equal(t, 1, d.Transitions[1].Priority)
	assert.True(t, d.Transitions[1].PriorityExplicit)
}

func TestExtract_MultipleMachinesAndInterfaceHost(t *testing.T) {
	src := `package door

//tickfsm:machine Open
//tickfsm:state A initial
//tickfsm:state B terminal
//tickfsm:transition A -> B guard=!locked
//tickfsm:machine Close
//tickfsm:state X initial terminal
type Door interface {
	locked() bool
}
`
	decls, diags := extract(t, map[string]string{"door.go": src}, "door.go")
	require.Empty(t, diags)
	require.Len(t, decls, 2)
	assert.Equal(t, "Open", decls[0].Name)
	assert.Equal(t, "Close", decls[1].Name)
	assert.Equal(t, domain.Host{Name: "Door"}, decls[0].Host)
	assert.Len(t, decls[0].States, 2)
	assert.Len(t, decls[1].States, 1)
	assert.Equal(t, domain.Guard("!locked"), decls[0].Transitions[0].Guard)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		extra string
		codes []diag.Code
	}{
		{
			name:  "unknown option",
			doc:   "//tickfsm:state A initial colour=red",
			codes: []diag.Code{diag.CodeUnknownField},
		},
		{
			name:  "missing guard",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A",
			codes: []diag.Code{diag.CodeMissingField},
		},
		{
			name:  "bad priority",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A guard=always priority=soon",
			codes: []diag.Code{diag.CodeBadValue},
		},
		{
			name:  "malformed transition",
			doc:   "//tickfsm:transition A B guard=always",
			codes: []diag.Code{diag.CodeSyntax},
		},
		{
			name:  "unknown directive",
			doc:   "//tickfsm:stat A",
			codes: []diag.Code{diag.CodeUnknownField},
		},
		{
			name:  "missing method",
			doc:   "//tickfsm:state A initial entry=start",
			codes: []diag.Code{diag.CodeUnboundName},
		},
		{
			name:  "action with wrong signature",
			doc:   "//tickfsm:state A initial entry=count",
			extra: "func (h *Host) count() int { return 0 }\n",
			codes: []diag.Code{diag.CodeBadReference},
		},
		{
			name:  "guard with wrong signature",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A guard=tick",
			extra: "func (h *Host) tick() {}\n",
			codes: []diag.Code{diag.CodeBadReference},
		},
		{
			name:  "transition action without method",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A guard=always action=honk",
			codes: []diag.Code{diag.CodeUnboundName},
		},
		{
			name:  "transition action with wrong signature",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A guard=always action=honk",
			extra: "func (h *Host) honk() bool { return true }\n",
			codes: []diag.Code{diag.CodeBadReference},
		},
		{
			name:  "transition action is not an identifier",
			doc:   "//tickfsm:state A initial\n//tickfsm:transition A -> A guard=always action=!honk",
			codes: []diag.Code{diag.CodeBadReference},
		},
		{
			name:  "every error is reported",
			doc:   "//tickfsm:state A initial bogus\n//tickfsm:transition A -> A\n//tickfsm:state B entry=1x",
			codes: []diag.Code{diag.CodeUnknownField, diag.CodeMissingField, diag.CodeBadReference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package p\n\n//tickfsm:machine\n" + tt.doc + "\ntype Host struct{}\n\n" + tt.extra
			_, diags := extract(t, map[string]string{"host.go": src}, "host.go")
			assert.Equal(t, tt.codes, diags.Codes(), "diagnostics: %v", diags)
			for _, d := range diags {
				assert.Equal(t, diag.ClassExtraction, d.Class)
				assert.NotZero(t, d.Pos.Line)
			}
		})
	}
}

func TestExtract_TransitionAction(t *testing.T) {
	src := `package p

//tickfsm:machine
//tickfsm:state A initial
//tickfsm:state B terminal
//tickfsm:transition A -> B guard=ready action=honk priority=2
type Host struct{}

func (h *Host) ready() bool { return true }
func (h *Host) honk()       {}
`
	decls, diags := extract(t, map[string]string{"host.go": src}, "host.go")
	require.Empty(t, diags)
	require.Len(t, decls, 1)
	require.Len(t, decls[0].Transitions, 1)
	assert.Equal(t, "honk", decls[0].Transitions[0].Action)
	assert.Equal(t, 2, decls[0].Transitions[0].Priority)
}

func TestExtract_GenericHostRejected(t *testing.T) {
	src := `package p

//tickfsm:machine
//tickfsm:state A initial terminal
type Box[T any] struct{ v T }
`
	decls, diags := extract(t, map[string]string{"box.go": src}, "box.go")
	assert.Empty(t, decls)
	require.Equal(t, []diag.Code{diag.CodeBadValue}, diags.Codes())
	assert.Contains(t, diags[0].Message, "type parameters")
	assert.Equal(t, 3, diags[0].Pos.Line)
}

func TestCheckHost(t *testing.T) {
	yamlDecl := func() *domain.MachineDecl {
		at := domain.Position{File: "door.yaml", Line: 1, Column: 1}
		return &domain.MachineDecl{
			Name:    "DoorMachine",
			Package: "door",
			Host:    domain.Host{Name: "Door", Pointer: true},
			Format:  domain.FormatYAML,
			Pos:     at,
			States: []domain.StateDecl{
				{Name: "Closed", Initial: true, Entry: "lock", Pos: at},
				{Name: "Open", Terminal: true, Pos: at},
			},
			Transitions: []domain.TransitionDecl{
				{From: "Closed", To: "Open", Guard: "!locked", Action: "chime", Pos: at},
			},
		}
	}

	tests := []struct {
		name  string
		files map[string]string
		codes []diag.Code
	}{
		{
			name: "every reference resolves",
			files: map[string]string{"door.go": `package door

type Door struct{}

func (d *Door) lock()         {}
func (d *Door) chime()        {}
func (d *Door) locked() bool { return false }
`},
		},
		{
			name: "interface host",
			files: map[string]string{"door.go": `package door

type Door interface {
	lock()
	chime()
	locked() bool
}
`},
		},
		{
			name: "missing guard and wrong action signature",
			files: map[string]string{"door.go": `package door

type Door struct{}

func (d *Door) lock()          {}
func (d *Door) chime() error { return nil }
`},
			codes: []diag.Code{diag.CodeUnboundName, diag.CodeBadReference},
		},
		{
			name:  "host declared in another package",
			files: map[string]string{"door.go": `package hinge

type Door struct{}
`},
			codes: []diag.Code{diag.CodeUncheckedHost},
		},
		{
			name:  "no Go files at all",
			files: map[string]string{"README.md": "doors"},
			codes: []diag.Code{diag.CodeUncheckedHost},
		},
		{
			name:  "generic host",
			files: map[string]string{"door.go": `package door

type Door[T any] struct{ v T }
`},
			codes: []diag.Code{diag.CodeBadValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutils.SetupTestDir(t, tt.files)
			diags := New(WithLogger(slogt.New(t))).CheckHost(yamlDecl(), dir)
			if tt.codes == nil {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tt.codes, diags.Codes(), "diagnostics: %v", diags)
		})
	}
}

func TestCheckHost_UncheckedIsAWarning(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"other.go": `package door

type Hinge struct{}
`})
	decl := &domain.MachineDecl{Name: "M", Package: "door", Host: domain.Host{Name: "Door"}}

	diags := New().CheckHost(decl, dir)
	require.Len(t, diags.Warnings(), 1)
	assert.False(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "host type Door is not declared")
}

func TestExtract_StateBeforeMachine(t *testing.T) {
	src := "package p\n\n//tickfsm:state A initial\ntype Host struct{}\n"
	decls, diags := extract(t, map[string]string{"host.go": src}, "host.go")
	assert.Empty(t, decls)
	assert.Equal(t, []diag.Code{diag.CodeSyntax}, diags.Codes())
}

func TestExtract_SyntaxError(t *testing.T) {
	_, diags := extract(t, map[string]string{"bad.go": "package p\n\nfunc {\n"}, "bad.go")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.CodeSyntax, diags[0].Code)
	assert.Equal(t, 3, diags[0].Pos.Line)
}

func TestExtract_NoDirectives(t *testing.T) {
	decls, diags := extract(t, map[string]string{"plain.go": "package p\n\n// Plain is plain.\ntype Plain struct{}\n"}, "plain.go")
	assert.Empty(t, decls)
	assert.Empty(t, diags)
}

func TestMatch(t *testing.T) {
	e := New()
	assert.True(t, e.Match("robot.go"))
	assert.False(t, e.Match("robot_test.go"))
	assert.False(t, e.Match("robot.yaml"))
}
