package solvectx

import "errors"

// ErrMissingInitialAssignment is returned by Build when one or more
// reservations required to be fixed (locked, or outside the request
// window) have no valid room to be fixed to.
var ErrMissingInitialAssignment = errors.New("missing initial assignment")
