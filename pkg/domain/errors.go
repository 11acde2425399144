package domain

import "errors"

// ErrEmptyReference is returned when a required guard reference is blank.
var ErrEmptyReference = errors.New("empty reference")

// ErrBadReference is returned when an action or guard reference is not a valid identifier.
var ErrBadReference = errors.New("invalid reference")

// ErrNotFrozen is returned when a graph is used before the validator accepted it.
var ErrNotFrozen = errors.New("graph is not frozen")
