package golden

import (
	"testing"

	"github.com/aretw0/tickfsm/internal/testutils"
	"github.com/aretw0/tickfsm/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ lifecycle.Command = (*DriveMachine)(nil)
	_ lifecycle.Command = (*GateMachine)(nil)
)

func TestDriveMachine_ScenarioA(t *testing.T) {
	r := &Robot{Target: 3}
	m := NewDriveMachine(r)

	assert.False(t, m.IsFinished(), "not finished before Initialize")

	m.Initialize()
	assert.Equal(t, DriveMachineIdle, m.State())
	assert.False(t, m.IsFinished())

	m.Execute() // Idle -> Moving
	assert.Equal(t, DriveMachineMoving, m.State())

	for i := 0; i < 2; i++ {
		m.Execute()
		assert.False(t, m.IsFinished(), "tick %d", i)
	}
	m.Execute() // distance reaches 3
	assert.True(t, m.IsFinished())
	assert.Equal(t, DriveMachineDone, m.State())

	m.End(false)
	assert.Equal(t, []string{"resetOdometer", "drive", "drive", "drive", "brake", "park"}, r.Log)
}

func TestDriveMachine_OneTransitionPerTick(t *testing.T) {
	// Distance is reached immediately, but Idle -> Moving and Moving -> Done
	// still take one tick each.
	r := &Robot{Target: 0}
	m := NewDriveMachine(r)
	m.Initialize()

	m.Execute()
	assert.Equal(t, DriveMachineMoving, m.State())
	m.Execute()
	assert.Equal(t, DriveMachineDone, m.State())
}

func TestDriveMachine_ExecuteBeforeInitializeIsNoop(t *testing.T) {
	r := &Robot{Target: 1}
	m := NewDriveMachine(r)
	m.Execute()
	m.End(true)
	assert.Empty(t, r.Log)
}

func TestDriveMachine_InterruptedEnd(t *testing.T) {
	r := &Robot{Target: 100}
	ticks := testutils.Drive(NewDriveMachine(r), 5)

	assert.Equal(t, 5, ticks)
	assert.Equal(t, "brake", r.Log[len(r.Log)-1], "End runs the exit action of Moving")
}

func TestDriveMachine_EndIsOnce(t *testing.T) {
	r := &Robot{Target: 100}
	m := NewDriveMachine(r)
	m.Initialize()
	m.Execute()

	m.End(true)
	m.End(true)
	m.Execute()
	assert.Equal(t, []string{"resetOdometer", "brake"}, r.Log)
}

func TestDriveMachine_RestartAfterEnd(t *testing.T) {
	r := &Robot{Target: 1}
	m := NewDriveMachine(r)
	testutils.Drive(m, 10)
	require.True(t, m.IsFinished())

	r.Log = nil
	m.Initialize()
	assert.Equal(t, DriveMachineIdle, m.State())
	assert.False(t, m.IsFinished())
	assert.Equal(t, []string{"resetOdometer"}, r.Log)
}

func TestDriveMachine_LifecycleActionsCannotTick(t *testing.T) {
	tests := []struct {
		name   string
		action string
		call   func(m *DriveMachine)
	}{
		{
			name:   "entry action during Initialize",
			action: "resetOdometer",
			call:   func(m *DriveMachine) { m.Initialize() },
		},
		{
			name:   "exit action during End",
			action: "brake",
			call: func(m *DriveMachine) {
				m.Initialize()
				m.Execute()
				m.End(true)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Robot{Target: 0}
			m := NewDriveMachine(r)
			r.Hook = func(action string) {
				if action == tt.action {
					m.Execute()
				}
			}

			assert.PanicsWithValue(t, "DriveMachine: re-entrant Execute", func() { tt.call(m) })
			assert.NotEqual(t, DriveMachineDone, m.State(), "no transition fired from inside the action")
			assert.NotContains(t, r.Log, "park")

			r.Hook = nil
			m.Initialize()
			m.Execute()
			assert.Equal(t, DriveMachineMoving, m.State(), "the machine is usable after the panic")
		})
	}
}

func TestDriveMachineState_String(t *testing.T) {
	assert.Equal(t, "Moving", DriveMachineMoving.String())
	assert.Equal(t, "DriveMachineState(7)", DriveMachineState(7).String())
}

type fakeGate struct {
	isLocked, isStuck, isOpened bool
	opens, latches, alarms     int
}

func (g *fakeGate) locked() bool { return g.isLocked }
func (g *fakeGate) stuck() bool  { return g.isStuck }
func (g *fakeGate) opened() bool { return g.isOpened }
func (g *fakeGate) open()        { g.opens++ }
func (g *fakeGate) latch()       { g.latches++ }
func (g *fakeGate) alarm()       { g.alarms++ }

func TestGateMachine_PriorityDeterminism(t *testing.T) {
	// Both guards hold; the lower priority number wins even though it was
	// declared second.
	g := &fakeGate{isStuck: true, isOpened: true}
	m := NewGateMachine(g)
	m.Initialize()

	m.Execute()
	require.Equal(t, GateMachineOpening, m.State())
	m.Execute()
	assert.Equal(t, GateMachineOpen, m.State())
	assert.Equal(t, 0, g.alarms)
	assert.Equal(t, 1, g.opens)
	assert.Equal(t, 1, g.latches, "the transition action runs once")
}

func TestGateMachine_Fallback(t *testing.T) {
	g := &fakeGate{isLocked: true}
	m := NewGateMachine(g)
	m.Initialize()
	m.Execute()

	assert.Equal(t, GateMachineJammed, m.State())
	assert.True(t, m.IsFinished())
	assert.Equal(t, 1, g.alarms)
	assert.Zero(t, g.latches)
}

type orderedGate struct {
	fakeGate
	m     *GateMachine
	trace []string
}

func (g *orderedGate) latch() {
	g.trace = append(g.trace, "latch:"+g.m.State().String())
}

func TestGateMachine_TransitionActionRunsBeforeEntry(t *testing.T) {
	g := &orderedGate{fakeGate: fakeGate{isOpened: true}}
	g.m = NewGateMachine(g)
	g.m.Initialize()
	g.m.Execute()
	g.m.Execute()

	assert.Equal(t, GateMachineOpen, g.m.State())
	assert.Equal(t, []string{"latch:Opening"}, g.trace, "the action sees the source state")
}

func TestGateMachine_StaysWhileNoGuardHolds(t *testing.T) {
	g := &fakeGate{}
	m := NewGateMachine(g)
	ticks := testutils.Drive(m, 4)

	assert.Equal(t, 4, ticks)
	assert.Equal(t, GateMachineOpening, m.State())
	assert.Equal(t, 3, g.opens)
}

type reentrantGate struct {
	fakeGate
	m *GateMachine
}

func (g *reentrantGate) open() { g.m.Execute() }

func TestGateMachine_ReentrantExecutePanics(t *testing.T) {
	g := &reentrantGate{}
	g.m = NewGateMachine(g)
	g.m.Initialize()
	g.m.Execute()

	assert.PanicsWithValue(t, "GateMachine: re-entrant Execute", func() { g.m.Execute() })

	// The tick flag is reset even after a panic.
	g.isOpened = true
	g.m.host = &g.fakeGate
	g.m.Execute()
	assert.Equal(t, GateMachineOpen, g.m.State())
}

type panickyGate struct{ fakeGate }

func (g *panickyGate) locked() bool { panic("sensor failure") }

func TestGateMachine_GuardPanicPropagates(t *testing.T) {
	m := NewGateMachine(&panickyGate{})
	m.Initialize()
	assert.PanicsWithValue(t, "sensor failure", m.Execute)
	assert.Equal(t, GateMachineClosed, m.State())
}
