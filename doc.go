/*
Package tickfsm is a build-time compiler for tick-driven finite state machines.

A machine is declared once, as directives on a Go host type, as a YAML or HCL document, or in code with pkg/dsl. The compiler extracts the declarations, builds a graph per machine, validates it and emits plain Go code implementing the scheduler lifecycle: Initialize, Execute, IsFinished and End. Every decision is made at build time, so the generated code performs no lookups, allocations or reflection per tick.

# Pipeline

	Extractor -> Graph Builder -> Validator -> Code Emitter

A stage only runs when the previous one succeeded for every input. A build that reports any error writes nothing.

# Semantics

  - Initialize enters the initial state and runs its entry action.
  - Execute runs the periodic action of the current state, then takes at most one transition: the first, by (priority, declaration order), whose guard holds. Taking it runs the exit action of the source and the entry action of the target.
  - IsFinished reports whether the current state is terminal.
  - End runs the exit action of the current state once.

# Usage

Declare a machine on its host type and run go generate:

	//go:generate tickfsm generate .

	//tickfsm:machine DriveMachine
	//tickfsm:state Idle initial entry=resetOdometer
	//tickfsm:state Moving periodic=drive exit=brake
	//tickfsm:state Done terminal entry=park
	//tickfsm:transition Idle -> Moving guard=always
	//tickfsm:transition Moving -> Done guard=distanceReached
	type Robot struct{ ... }

The generated drive_fsm.go declares NewDriveMachine(*Robot), which satisfies pkg/lifecycle.Command.

Graphs can also be interpreted at run time with NewMachine and a pkg/registry.Registry, which behaves exactly like the generated code.
*/
package tickfsm
