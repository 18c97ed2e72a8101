package scheduling

import "errors"

var (
	// ErrInvalidWindow is returned when a time window cannot be parsed as
	// HH:MM pairs or its end does not fall strictly after its start.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrSlotNotFound is returned when a referenced timetable slot no
	// longer exists.
	ErrSlotNotFound = errors.New("timetable slot not found")

	// ErrSchedulingConflict is returned when a candidate window overlaps
	// an active slot in the same (branch, class, room, day) scope.
	ErrSchedulingConflict = errors.New("scheduling conflict")

	// ErrDatedSlotDayOverride is returned when a replace entry tries to
	// put a dayOfWeek override on a slot bound to a concrete date.
	ErrDatedSlotDayOverride = errors.New("a date-bound slot cannot take a dayOfWeek override")

	// ErrBatchTooLarge is returned for import rows beyond the configured cap.
	ErrBatchTooLarge = errors.New("batch too large")
)
