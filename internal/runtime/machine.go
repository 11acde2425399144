// Package runtime interprets frozen machine graphs. A Machine behaves exactly
// like the code the emitter generates for the same graph, with actions and
// guards looked up in a registry instead of called as host methods.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/aretw0/tickfsm/pkg/machine"
	"github.com/aretw0/tickfsm/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

type phase uint8

const (
	uninitialized phase = iota
	running
	retired
)

type boundTransition struct {
	id string
	to int
	// guard is nil for always-true transitions.
	guard  registry.Guard
	action registry.Action
}

type boundState struct {
	name     string
	terminal bool
	entry    registry.Action
	periodic registry.Action
	exit     registry.Action
	out      []boundTransition
}

// Machine drives one instance of a graph. It satisfies lifecycle.Command.
// A frozen graph may back any number of Machines.
type Machine struct {
	name    string
	states  []boundState
	initial int

	current int
	phase   phase
	ticking bool

	logger      *slog.Logger
	observer    func(from, to string)
	ticks       prometheus.Counter
	transitions *prometheus.CounterVec
	registerer  prometheus.Registerer
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// WithObserver registers a callback invoked after every transition.
func WithObserver(fn func(from, to string)) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}

// WithMetrics counts ticks and transitions on r. Machines sharing r share
// the collectors, labelled by machine name.
func WithMetrics(r prometheus.Registerer) Option {
	return func(m *Machine) {
		m.registerer = r
	}
}

// New binds every action and guard of g against reg. All unbound names are
// reported together.
func New(g *machine.Graph, reg *registry.Registry, opts ...Option) (*Machine, error) {
	if !g.Frozen() {
		return nil, fmt.Errorf("machine %s: %w", g.Name, domain.ErrNotFrozen)
	}

	m := &Machine{
		name:   g.Name,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	unique := g.Unique()
	index := make(map[string]int, len(unique))
	for i, s := range unique {
		index[s.Name] = i
	}

	var errs []error
	action := func(state, kind, name string) registry.Action {
		if name == "" {
			return nil
		}
		fn, err := reg.Action(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("state %s %s: %w", state, kind, err))
		}
		return fn
	}

	m.states = make([]boundState, len(unique))
	for i, s := range unique {
		bs := boundState{
			name:     s.Name,
			terminal: s.Terminal,
			entry:    action(s.Name, "entry", s.Entry),
			periodic: action(s.Name, "periodic", s.Periodic),
			exit:     action(s.Name, "exit", s.Exit),
		}
		for _, t := range s.Out {
			bt := boundTransition{id: t.ID, to: index[t.To]}
			if t.Action != "" {
				fn, err := reg.Action(t.Action)
				if err != nil {
					errs = append(errs, fmt.Errorf("transition %s action: %w", t.ID, err))
				}
				bt.action = fn
			}
			if !t.Guard.IsAlways() {
				fn, err := reg.Guard(t.Guard.Method())
				if err != nil {
					errs = append(errs, fmt.Errorf("transition %s: %w", t.ID, err))
				} else if t.Guard.Negated() {
					bt.guard = func() bool { return !fn() }
				} else {
					bt.guard = fn
				}
			}
			bs.out = append(bs.out, bt)
		}
		if s.Initial {
			m.initial = i
		}
		m.states[i] = bs
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("machine %s: %w", g.Name, errors.Join(errs...))
	}

	if m.registerer != nil {
		if err := m.bindMetrics(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Machine) bindMetrics() error {
	ticks, err := register(m.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tickfsm_runtime_ticks_total",
		Help: "Execute calls that ran a tick, by machine.",
	}, []string{"machine"}))
	if err != nil {
		return err
	}
	transitions, err := register(m.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tickfsm_runtime_transitions_total",
		Help: "Transitions taken, by machine, source and target state.",
	}, []string{"machine", "from", "to"}))
	if err != nil {
		return err
	}

	m.ticks = ticks.WithLabelValues(m.name)
	m.transitions = transitions.MustCurryWith(prometheus.Labels{"machine": m.name})
	return nil
}

func register(r prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return c, nil
}

// Name returns the machine name.
func (m *Machine) Name() string {
	return m.name
}

// State returns the name of the current state.
func (m *Machine) State() string {
	return m.states[m.current].name
}

// Initialize enters the initial state. It may be called again after End to
// restart the machine.
func (m *Machine) Initialize() {
	m.busy("Initialize")
	defer func() { m.ticking = false }()

	m.current = m.initial
	m.phase = running
	run(m.states[m.current].entry)
}

// Execute runs one tick: the periodic action of the current state, then the
// first transition whose guard holds.
func (m *Machine) Execute() {
	if m.phase != running {
		return
	}
	m.busy("Execute")
	defer func() { m.ticking = false }()

	if m.ticks != nil {
		m.ticks.Inc()
	}

	s := &m.states[m.current]
	run(s.periodic)
	for _, t := range s.out {
		if t.guard == nil || t.guard() {
			m.fire(t)
			return
		}
	}
}

func (m *Machine) fire(t boundTransition) {
	from := m.states[m.current].name
	to := m.states[t.to].name

	run(m.states[m.current].exit)
	run(t.action)
	m.current = t.to
	run(m.states[m.current].entry)

	m.logger.Debug("Transition", "machine", m.name, "id", t.id, "from", from, "to", to)
	if m.transitions != nil {
		m.transitions.WithLabelValues(from, to).Inc()
	}
	if m.observer != nil {
		m.observer(from, to)
	}
}

// busy marks the machine busy while host actions run. Actions that
// call back into Initialize, Execute or End panic.
func (m *Machine) busy(op string) {
	if m.ticking {
		panic(m.name + ": re-entrant " + op)
	}
	m.ticking = true
}

// IsFinished reports whether the machine has reached a terminal state.
func (m *Machine) IsFinished() bool {
	return m.phase != uninitialized && m.states[m.current].terminal
}

// End runs the exit action of the current state and retires the machine.
func (m *Machine) End(interrupted bool) {
	if m.phase != running {
		return
	}
	m.busy("End")
	defer func() { m.ticking = false }()

	run(m.states[m.current].exit)
	m.phase = retired
	m.logger.Debug("Ended", "machine", m.name, "state", m.states[m.current].name, "interrupted", interrupted)
}

func run(a registry.Action) {
	if a != nil {
		a()
	}
}
