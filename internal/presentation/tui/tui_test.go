package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/tickfsm/internal/compiler"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/aretw0/tickfsm/pkg/dsl"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDiagnostics() diag.List {
	var l diag.List
	l.Errorf(diag.ClassValidation, diag.CodeUnreachable, domain.Position{File: "robot.go", Line: 7, Column: 2},
		"state Lost is unreachable from Idle")
	l.Warnf(diag.ClassValidation, diag.CodeNoTerminal, domain.Position{File: "robot.go", Line: 3},
		"machine has no terminal state")
	return l
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, termenv.Ascii, Profile(&buf, "never"))
	assert.Equal(t, termenv.ANSI, Profile(&buf, "always"))
	assert.Equal(t, termenv.Ascii, Profile(&buf, "auto"), "a buffer is not a terminal")
	assert.False(t, IsTerminal(&buf))
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, termenv.Ascii)

	p.Diagnostics(sampleDiagnostics())
	p.Summary(sampleDiagnostics(), 0)

	want := "robot.go:7:2: error[validation/unreachable]: state Lost is unreachable from Idle\n" +
		"robot.go:3: warning[validation/no-terminal]: machine has no terminal state\n" +
		"1 error(s), 1 warning(s)\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Coloured(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, termenv.ANSI).Diagnostics(sampleDiagnostics())

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "[validation/unreachable]: state Lost")
}

func TestPrinter_SummaryOK(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, termenv.Ascii).Summary(nil, 2)
	assert.Equal(t, "2 machine(s) ok, 0 warning(s)\n", buf.String())
}

func describedGraph(t *testing.T) *machine.Graph {
	t.Helper()
	b := dsl.New("DriveMachine").Package("robot").Host("*Robot")
	b.State("Idle").Initial().Entry("resetOdometer")
	b.State("Moving").Periodic("drive").Exit("brake")
	b.State("Done").Terminal()
	b.Transition("Idle", "Moving").Always()
	b.Transition("Moving", "Done").When("distanceReached").Action("honk").ID("arrive")
	decl, err := b.Decl()
	require.NoError(t, err)
	g, _, err := compiler.New().CompileDecl(decl)
	require.NoError(t, err)
	return g
}

func TestDescribe(t *testing.T) {
	md := Describe(describedGraph(t))

	assert.True(t, strings.HasPrefix(md, "# DriveMachine\n"))
	assert.Contains(t, md, "- Host: `*Robot`")
	assert.Contains(t, md, "| Idle | initial | `resetOdometer` | - | - |")
	assert.Contains(t, md, "| Moving | - | - | `drive` | `brake` |")
	assert.Contains(t, md, "| Done | terminal | - | - | - |")
	assert.Contains(t, md, "| Moving | 1 | Done | `distanceReached` | 1 | arrive | `honk` |")
	assert.Contains(t, md, "| Idle | 1 | Moving | `always` | 0 | Idle->Moving[always] | - |")
}

func TestRenderer_NoTTY(t *testing.T) {
	render, err := NewRenderer(false)
	require.NoError(t, err)

	out, err := render(Describe(describedGraph(t)))
	require.NoError(t, err)
	assert.Contains(t, out, "DriveMachine")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "| |_(_) ___| | _/ _|___ _ __ ___")
}
