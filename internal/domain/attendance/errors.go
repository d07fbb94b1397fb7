package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn = errors.New("you have already checked in")
	ErrNotCheckedIn     = errors.New("you are not checked in")
	ErrSessionNotFound  = errors.New("attendance session not found")
)
