package dsl

import (
	"runtime"

	"github.com/aretw0/tickfsm/pkg/diag"
	"github.com/aretw0/tickfsm/pkg/domain"
)

// Builder manages the construction of one machine declaration.
type Builder struct {
	decl        domain.MachineDecl
	states      []*StateBuilder
	transitions []*TransitionBuilder
	diags       diag.List
}

// New creates a builder for the named machine.
func New(name string) *Builder {
	return &Builder{
		decl: domain.MachineDecl{
			Name:   name,
			Format: domain.FormatDSL,
			Pos:    caller(2),
		},
	}
}

// Package sets the package of the generated file.
func (b *Builder) Package(name string) *Builder {
	b.decl.Package = name
	return b
}

// Host sets the host type, for example "*Robot".
func (b *Builder) Host(expr string) *Builder {
	b.decl.Host = domain.ParseHost(expr)
	return b
}

// State declares a state. Calling State twice with the same name declares a
// duplicate, which the validator rejects.
func (b *Builder) State(name string) *StateBuilder {
	sb := &StateBuilder{
		state:   domain.StateDecl{Name: name, Pos: caller(2)},
		builder: b,
	}
	b.states = append(b.states, sb)
	return sb
}

// Transition declares a transition from one state to another. A guard must
// be set with When or Always.
func (b *Builder) Transition(from, to string) *TransitionBuilder {
	tb := &TransitionBuilder{
		transition: domain.TransitionDecl{From: from, To: to, Pos: caller(2)},
		builder:    b,
	}
	b.transitions = append(b.transitions, tb)
	return tb
}

// Decl returns the declaration, or a *diag.Error when a reference was
// malformed or a transition has no guard.
func (b *Builder) Decl() (*domain.MachineDecl, error) {
	diags := b.Diagnostics()
	if err := diags.Err(); err != nil {
		return nil, err
	}

	decl := b.decl
	decl.States = make([]domain.StateDecl, len(b.states))
	for i, sb := range b.states {
		decl.States[i] = sb.state
	}
	decl.Transitions = make([]domain.TransitionDecl, len(b.transitions))
	for i, tb := range b.transitions {
		decl.Transitions[i] = tb.transition
	}
	return &decl, nil
}

// Diagnostics returns the problems recorded so far.
func (b *Builder) Diagnostics() diag.List {
	diags := append(diag.List(nil), b.diags...)
	if !domain.IsIdentifier(b.decl.Name) {
		diags.Errorf(diag.ClassExtraction, diag.CodeBadValue, b.decl.Pos,
			"machine name %q is not a Go identifier", b.decl.Name)
	}
	for _, tb := range b.transitions {
		if !tb.guarded {
			diags.Errorf(diag.ClassExtraction, diag.CodeMissingField, tb.transition.Pos,
				"transition %s -> %s has no guard", tb.transition.From, tb.transition.To)
		}
	}
	return diags.Sorted()
}

func (b *Builder) errorf(pos domain.Position, code diag.Code, format string, args ...any) {
	b.diags.Errorf(diag.ClassExtraction, code, pos, format, args...)
}

// caller reports the source position skip frames up the stack.
func caller(skip int) domain.Position {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return domain.Position{File: "dsl"}
	}
	return domain.Position{File: file, Line: line}
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	state   domain.StateDecl
	builder *Builder
}

// Initial marks the state as the one entered by Initialize.
func (s *StateBuilder) Initial() *StateBuilder {
	s.state.Initial = true
	return s
}

// Terminal marks the state as finishing the machine.
func (s *StateBuilder) Terminal() *StateBuilder {
	s.state.Terminal = true
	return s
}

// Entry sets the action run when the state is entered.
func (s *StateBuilder) Entry(action string) *StateBuilder {
	s.state.Entry = s.action("entry", action)
	return s
}

// Periodic sets the action run on every tick spent in the state.
func (s *StateBuilder) Periodic(action string) *StateBuilder {
	s.state.Periodic = s.action("periodic", action)
	return s
}

// Exit sets the action run when the state is left.
func (s *StateBuilder) Exit(action string) *StateBuilder {
	s.state.Exit = s.action("exit", action)
	return s
}

func (s *StateBuilder) action(kind, ref string) string {
	name, err := domain.ParseAction(ref)
	if err != nil {
		s.builder.errorf(s.state.Pos, diag.CodeBadReference, "state %s: %s %v", s.state.Name, kind, err)
		return ""
	}
	return name
}

// TransitionBuilder provides a fluent API for configuring a transition.
type TransitionBuilder struct {
	transition domain.TransitionDecl
	builder    *Builder
	guarded    bool
}

// When gates the transition on a guard reference: a host method name,
// optionally prefixed with "!".
func (t *TransitionBuilder) When(guard string) *TransitionBuilder {
	g, err := domain.ParseGuard(guard)
	t.guarded = true
	if err != nil {
		t.builder.errorf(t.transition.Pos, diag.CodeBadReference,
			"transition %s -> %s: %v", t.transition.From, t.transition.To, err)
		return t
	}
	t.transition.Guard = g
	return t
}

// Always makes the transition unconditional.
func (t *TransitionBuilder) Always() *TransitionBuilder {
	t.guarded = true
	t.transition.Guard = domain.GuardAlways
	return t
}

// Action names a host method run when the transition fires, after the
// source's exit action and before the target's entry action.
func (t *TransitionBuilder) Action(name string) *TransitionBuilder {
	action, err := domain.ParseAction(name)
	if err == nil && action == "" {
		err = domain.ErrEmptyReference
	}
	if err != nil {
		t.builder.errorf(t.transition.Pos, diag.CodeBadReference,
			"transition %s -> %s: action: %v", t.transition.From, t.transition.To, err)
		return t
	}
	t.transition.Action = action
	return t
}

// Priority sets the evaluation rank among transitions leaving the same
// state. Lower runs first.
func (t *TransitionBuilder) Priority(p int) *TransitionBuilder {
	if p < 0 {
		t.builder.errorf(t.transition.Pos, diag.CodeBadValue,
			"transition %s -> %s: priority %d is negative", t.transition.From, t.transition.To, p)
		return t
	}
	t.transition.Priority = p
	t.transition.PriorityExplicit = true
	return t
}

// ID names the transition. Without it the identifier is derived from the
// source, target and guard.
func (t *TransitionBuilder) ID(id string) *TransitionBuilder {
	t.transition.ID = id
	return t
}
