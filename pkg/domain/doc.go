/*
Package domain contains the intermediate model produced by the tickfsm
extractors.

Every front-end (Go directives, YAML, HCL, the programmatic DSL) lowers its
input into the same plain records. Nothing in this package validates
semantics; the graph builder and the validator own that. The package is kept
free of I/O and third-party dependencies.

# Key Entities

  - MachineDecl: one declared state machine bound to a host type.
  - StateDecl: a named state with optional entry, periodic and exit actions.
  - TransitionDecl: a guarded, prioritised edge between two states.
  - Guard: the textual guard reference (always, a host method, or a negation).
  - Position: the source location diagnostics point at.
*/
package domain
