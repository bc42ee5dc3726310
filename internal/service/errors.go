package service

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrTaskNotCompleted is returned when a successor acknowledges a task
	// that is not completed
	ErrTaskNotCompleted = errors.New("task must be completed before acknowledgment")

	// ErrHandoverClosed is returned when mutating a completed handover
	ErrHandoverClosed = errors.New("handover is completed")

	// ErrTasksOutstanding is returned when approval is attempted while tasks
	// remain incomplete or unacknowledged
	ErrTasksOutstanding = errors.New("all tasks must be completed and acknowledged before approval")

	// ErrInvalidDimension is returned for an unsupported pivot dimension key
	ErrInvalidDimension = errors.New("invalid report dimension")
)
