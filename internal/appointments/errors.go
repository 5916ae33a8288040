package appointments

import "errors"

var (
	// ErrNotFound is returned when no appointment exists for the given ID
	ErrNotFound = errors.New("appointment not found")

	// ErrMissingReason is returned when the visit reason is absent
	ErrMissingReason = errors.New("reason is required")

	// ErrMissingSchedule is returned when the appointment time is absent
	ErrMissingSchedule = errors.New("schedule is required")

	// ErrMissingAppointmentID is returned when an update names no record
	ErrMissingAppointmentID = errors.New("appointment id is required")

	// ErrInvalidStatus is returned for statuses outside the closed set
	ErrInvalidStatus = errors.New("status must be pending, scheduled or cancelled")

	// ErrInvalidUpdateType is returned for update types outside {schedule, cancel}
	ErrInvalidUpdateType = errors.New("update type must be schedule or cancel")

	// ErrEmptyPatch is returned when an update carries no changes
	ErrEmptyPatch = errors.New("update contains no fields")
)
