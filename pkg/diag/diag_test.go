package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/tickfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(file string, line int) domain.Position {
	return domain.Position{File: file, Line: line, Column: 1}
}

func TestList_SortedIsStableByPosition(t *testing.T) {
	var l List
	l.Errorf(ClassValidation, CodeUnreachable, pos("b.yaml", 2), "second file")
	l.Errorf(ClassValidation, CodeUnreachable, pos("a.yaml", 9), "late")
	l.Errorf(ClassValidation, CodeDuplicateState, pos("a.yaml", 3), "first")
	l.Errorf(ClassValidation, CodeUnreachable, pos("a.yaml", 3), "first again")

	sorted := l.Sorted()
	msgs := make([]string, len(sorted))
	for i, d := range sorted {
		msgs[i] = d.Message
	}
	assert.Equal(t, []string{"first", "first again", "late", "second file"}, msgs)
	// The receiver is untouched.
	assert.Equal(t, "second file", l[0].Message)
}

func TestList_ErrOnlyCountsErrors(t *testing.T) {
	var l List
	l.Warnf(ClassValidation, CodeDeadEnd, pos("m.go", 1), "just a warning")
	assert.False(t, l.HasErrors())
	assert.NoError(t, l.Err())

	l.Errorf(ClassExtraction, CodeMissingField, pos("m.go", 4), "missing name")
	require.True(t, l.HasErrors())

	err := l.Err()
	require.Error(t, err)
	assert.Equal(t, "m.go:4:1: missing name", err.Error())
	assert.Len(t, l.Warnings(), 1)
	assert.Equal(t, []Code{CodeDeadEnd, CodeMissingField}, l.Codes())
}

func TestError_FormatsEveryDiagnostic(t *testing.T) {
	var l List
	l.Errorf(ClassValidation, CodeUnreachable, pos("m.yaml", 7), "unreachable state: B")
	l.Errorf(ClassValidation, CodeUnreachable, pos("m.yaml", 5), "unreachable state: A")

	err := fmt.Errorf("build failed: %w", l.Err())
	got := FromError(err)
	require.Len(t, got, 2)
	assert.Equal(t, "unreachable state: A", got[0].Message)
	assert.Contains(t, err.Error(), "2 errors:")
	assert.Contains(t, err.Error(), "m.yaml:7:1: unreachable state: B")

	assert.Nil(t, FromError(errors.New("plain")))
}
