package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the aggregate returned when a build fails. It holds every fatal
// diagnostic, already sorted.
type Error struct {
	Diagnostics List
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		fmt.Fprintf(&sb, "  %s\n", d.Error())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FromError extracts the diagnostics carried by err, if any.
func FromError(err error) List {
	var de *Error
	if errors.As(err, &de) {
		return de.Diagnostics
	}
	return nil
}
