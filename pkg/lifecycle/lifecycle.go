// Package lifecycle defines the contract every generated machine satisfies.
//
// A scheduler drives a Command through four calls: Initialize once, Execute
// once per tick until IsFinished reports true, then End. End(true) means the
// scheduler stopped the command before it finished on its own.
package lifecycle

// Command is a cooperatively scheduled unit of work.
type Command interface {
	// Initialize enters the initial state and runs its entry action.
	Initialize()
	// Execute runs one tick: the periodic action of the current state,
	// then at most one transition.
	Execute()
	// IsFinished reports whether the current state is terminal.
	IsFinished() bool
	// End runs the exit action of the current state.
	End(interrupted bool)
}
