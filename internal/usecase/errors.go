package usecase

import (
	"errors"
	"fmt"
)

// Expected booking outcomes. These are values, not exceptional control
// flow: handlers translate them with errors.Is / errors.As and nothing
// above the coordinator ever sees a raw storage error.
var (
	ErrScheduleNotFound = errors.New("bus schedule not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrInvalidRequest   = errors.New("invalid booking request")
)

// SeatNotFoundError names the first requested seat (in seat-number
// order) that does not exist on the schedule.
type SeatNotFoundError struct {
	SeatNumber string
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("seat %s not found", e.SeatNumber)
}

// SeatUnavailableError names the first requested seat (in seat-number
// order) that was not Available, or the seat a request lost a lock
// race on after the retry budget ran out.
type SeatUnavailableError struct {
	SeatNumber string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatNumber)
}

// PersistenceError wraps a storage failure on the booking path.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
