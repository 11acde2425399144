// Package golden holds hosts annotated with tickfsm directives next to the
// code tickfsm generates for them. The emitter tests compare fresh output
// against the *_fsm.go files; the tests in this package drive the generated
// machines directly.
package golden

//go:generate go run github.com/aretw0/tickfsm/cmd/tickfsm generate drive.go gate.go
