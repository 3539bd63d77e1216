package model

import "errors"

// Sentinel errors for problem-document parsing and validation, in the same
// style as the teacher's service-layer sentinel errors.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrMissingProblemID       = errors.New("missing ProblemId")
	ErrMissingReservations    = errors.New("missing Reservations")
	ErrMalformedRoom          = errors.New("malformed room")
	ErrNonIntegerMinimumStay  = errors.New("non-integer minimum stay")
	ErrUnknownDayOfWeek       = errors.New("unknown day-of-week key")
	ErrNegativeLength         = errors.New("negative reservation length")
	ErrUnknownAdjacentRoom    = errors.New("adjacent room not present in problem")
	ErrLockedWithoutRoom      = errors.New("locked reservation has no assigned room")
	ErrLockedRoomNotInProblem = errors.New("locked reservation's assigned room is not in the room set")
	ErrDateRangeOrder         = errors.New("minimum-stay date range has Start after End")
)
