package tickfsm_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/tickfsm"
	"github.com/aretw0/tickfsm/internal/testutils"
	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/registry"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doorSpec = `machine: DoorMachine
package: door
host: "*Door"
states:
  - name: Closed
    initial: true
  - name: Open
    entry: chime
    terminal: true
transitions:
  - from: Closed
    to: Open
    guard: pushed
`

func TestFacade_LoadAndRun(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"door.yaml": doorSpec})
	c := tickfsm.New(tickfsm.WithLogger(slogt.New(t)))

	res, err := c.Load(context.Background(), dir)
	require.NoError(t, err)
	graphs := res.Graphs()
	require.Len(t, graphs, 1)
	assert.True(t, graphs[0].Frozen())

	pushes, chimes := 0, 0
	reg := registry.NewRegistry()
	reg.RegisterGuard("pushed", func() bool { pushes++; return pushes == 2 })
	reg.RegisterAction("chime", func() { chimes++ })

	var seen []string
	m, err := tickfsm.NewMachine(graphs[0], reg,
		tickfsm.WithObserver(func(from, to string) { seen = append(seen, from+"->"+to) }))
	require.NoError(t, err)

	assert.Equal(t, 2, testutils.Drive(m, 10))
	assert.Equal(t, "Open", m.State())
	assert.Equal(t, 1, chimes)
	assert.Equal(t, []string{"Closed->Open"}, seen)
}

func TestFacade_Generate(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"door.yaml": doorSpec})
	c := tickfsm.New(tickfsm.WithSuffix("_gen.go"))

	_, written, err := c.Generate(context.Background(), dir)
	require.NoError(t, err)
	out := filepath.Join(dir, "door_gen.go")
	assert.Equal(t, []string{out}, written)
	assert.Contains(t, testutils.ReadFile(t, out), "package door")

	_, written, err = c.Generate(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, written, "unchanged output is not rewritten")
}

func TestFacade_GenerateRejectsInvalid(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"door.yaml": `machine: DoorMachine
package: door
host: "*Door"
states:
  - name: Closed
  - name: Open
    terminal: true
transitions: []
`})

	_, written, err := tickfsm.New().Generate(context.Background(), dir)
	require.Error(t, err)
	assert.Empty(t, written)
	assert.Contains(t, diag.FromError(err).Codes(), diag.CodeNoInitial)
}

func TestFacade_WarningsAsErrors(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"loop.yaml": `machine: LoopMachine
package: loop
host: Loop
states:
  - name: A
    initial: true
  - name: B
transitions:
  - {from: A, to: B, guard: always}
  - {from: B, to: A, guard: always}
`})

	res, err := tickfsm.New().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, res.Diagnostics.Codes(), diag.CodeNoTerminal)

	_, err = tickfsm.New(tickfsm.WithWarningsAsErrors(true)).Load(context.Background(), dir)
	assert.Error(t, err)
}

func TestNewMachine_UnboundNames(t *testing.T) {
	dir := testutils.SetupTestDir(t, map[string]string{"door.yaml": doorSpec})
	res, err := tickfsm.New().Load(context.Background(), dir)
	require.NoError(t, err)

	_, err = tickfsm.NewMachine(res.Graphs()[0], registry.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pushed")
	assert.Contains(t, err.Error(), "chime")
}
